package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji/marketbrief/internal/collect"
	"github.com/ukaji/marketbrief/internal/web"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the briefing web UI",
	Long: `Serve starts a small web server that renders briefings on demand.

GET /         renders a briefing page; the q parameter overrides the query
GET /healthz  liveness probe

Example:
  marketbrief serve
  marketbrief serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	serveCmd.Flags().IntVar(&maxItems, "max-items", 5, "max items per feed")
	serveCmd.Flags().StringVar(&userAgent, "ua", "MarketBriefingBot/1.0 (+https://example.local)", "HTTP User-Agent")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	collector := collect.NewCollector(cfg, newStore(cfg))
	server := web.NewServer(cfg, collector)

	if verbose {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", serveAddr)
	}

	return server.Start(serveAddr)
}
