package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aandrewsv/health-claims-verifier/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the verifier over HTTP:

  POST /api/verify           verify a person by name
  POST /api/analyze          run the claims pipeline for a subject
  GET  /api/leaderboard      ranked subjects with trends
  GET  /api/influencers/:id  one subject with its claims
  GET  /health               liveness check

Example:
  hcv serve
  hcv serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	}

	srv := server.NewServer(a.verifier, a.pipeline, a.leaderboard, a.subjects, a.claims)
	return srv.Run(cfg.Server.Addr)
}
