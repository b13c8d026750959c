package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var verifyTimeout time.Duration

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <name>",
	Short: "Verify a person is a health influencer and start tracking them",
	Long: `Verify checks whether a named person is a health influencer.

Known subjects are answered from the database. Unknown names are vetted
through the research provider and, when confirmed, inserted with their
canonical name, aliases, platform handles, credentials, and follower
count.

Example:
  hcv verify "Andrew Huberman"
  hcv verify hubermanlab`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	a, err := buildApp(loadConfig())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", name)
	}

	result, err := a.verifier.Verify(ctx, name)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
