package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var leaderboardJSON bool

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show tracked influencers ranked by trust score",
	RunE:  runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().BoolVar(&leaderboardJSON, "json", false, "print the full leaderboard as JSON")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	a, err := buildApp(loadConfig())
	if err != nil {
		return err
	}

	board, err := a.leaderboard.Get()
	if err != nil {
		return err
	}

	if leaderboardJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(board)
	}

	fmt.Printf("%d influencers, %d claims, average trust score %.2f\n\n",
		board.Stats.TotalSubjects, board.Stats.TotalClaims, board.Stats.AverageTrustScore)
	fmt.Printf("%-4s %-30s %8s %6s %10s %9s\n", "#", "NAME", "SCORE", "TREND", "VERIFIED", "FOLLOWERS")
	for i, entry := range board.Subjects {
		fmt.Printf("%-4d %-30s %8.2f %6s %10d %9d\n",
			i+1, entry.CanonicalName, entry.TrustScore, entry.Trend,
			entry.VerifiedClaimsCount, entry.FollowerCount)
	}
	return nil
}
