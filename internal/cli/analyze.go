package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aandrewsv/health-claims-verifier/internal/pipeline"
)

var (
	analyzeRecency  string
	analyzeLimit    int
	analyzeJournals []string
	analyzeTimeout  time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <name>",
	Short: "Run the claims pipeline for a tracked influencer",
	Long: `Analyze gathers an influencer's recent health claims, filters out
duplicates of already-recorded claims, classifies the rest against
scientific literature, persists them, and recomputes the trust score.

The subject must already be tracked - run 'hcv verify' first.

Example:
  hcv analyze "Andrew Huberman"
  hcv analyze huberman --recency week --limit 10
  hcv analyze huberman --journals Nature --journals "The Lancet"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeRecency, "recency", "", "provider search recency (hour, day, week, month)")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "maximum claims to ingest (default from config)")
	analyzeCmd.Flags().StringArrayVar(&analyzeJournals, "journals", nil, "journals to classify against (repeatable, default from config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	a, err := buildApp(loadConfig())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", name)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", analyzeTimeout)
		fmt.Fprintln(os.Stderr)
	}

	report, err := a.pipeline.Run(ctx, name, pipeline.RunOptions{
		ClaimsLimit:   analyzeLimit,
		RecencyFilter: analyzeRecency,
		Journals:      analyzeJournals,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
