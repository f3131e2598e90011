package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji/marketbrief/internal/cache"
	"github.com/ukaji/marketbrief/internal/collect"
	"github.com/ukaji/marketbrief/internal/llm"
	"github.com/ukaji/marketbrief/internal/model"
	"github.com/ukaji/marketbrief/internal/report"
)

var (
	outJSON       string
	outMD         string
	outLLMMD      string
	briefTimeout  time.Duration
	userAgent     string
	maxItems      int
	noCache       bool
	noFooter      bool
	inlineUnknown bool
	insecureTLS   bool
	httpProxy     string
	httpsProxy    string
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// briefCmd represents the brief command
var briefCmd = &cobra.Command{
	Use:   "brief [query]",
	Short: "Collect market news and print a sourced briefing report",
	Long: `Brief collects recent market news from Google News and Reuters RSS
feeds for the given query (default: マーケット) and prints a Markdown
briefing to stdout.

Items with complete provenance are listed with an inline citation.
Items whose source name or URL is missing go to a separate
出所不明の情報 section unless --inline-unknown is set.

Example:
  marketbrief brief
  marketbrief brief 日銀 --md report.md --json report.json
  marketbrief brief --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrief,
}

func init() {
	rootCmd.AddCommand(briefCmd)

	// Output flags
	briefCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	briefCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	briefCmd.Flags().StringVar(&outLLMMD, "llm-md", "", "output path for the separate LLM digest (optional)")
	briefCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	briefCmd.Flags().BoolVar(&inlineUnknown, "inline-unknown", false, "keep unsourced items inline with a （出所不明） marker instead of a separate section")

	// HTTP flags
	briefCmd.Flags().DurationVar(&briefTimeout, "timeout", 60*time.Second, "overall collection timeout")
	briefCmd.Flags().StringVar(&userAgent, "ua", "MarketBriefingBot/1.0 (+https://example.local)", "HTTP User-Agent")
	briefCmd.Flags().IntVar(&maxItems, "max-items", 5, "max items per feed")
	briefCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	briefCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	briefCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL")
	briefCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL")

	// LLM flags
	briefCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM digest generation")
	briefCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	briefCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig assembles the effective configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if briefTimeout > 0 {
		cfg.HTTP.Timeout = briefTimeout
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxItems > 0 {
		cfg.Feeds.MaxItemsPerFeed = maxItems
	}
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Output.IsolateUnknownSources = !inlineUnknown

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictEvidence = true // Always enforce

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// newStore builds the feed payload cache, or nil when caching is disabled
func newStore(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
}

func runBrief(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	query := cfg.Feeds.Query
	if len(args) == 1 {
		query = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), briefTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", briefTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	collector := collect.NewCollector(cfg, newStore(cfg))
	briefing := collector.Collect(ctx, query, collect.DefaultTargets(query))

	if verbose {
		fmt.Fprintf(os.Stderr, "Collected %d items (%d feed errors)\n", len(briefing.Items), len(briefing.FeedErrors))
	}

	if cfg.LLM.Provider != "" {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg))
		if err != nil {
			return fmt.Errorf("configure LLM: %w", err)
		}

		summary, err := summarizer.GenerateSummary(ctx, *briefing)
		if err != nil {
			return fmt.Errorf("LLM digest failed: %w", err)
		}
		briefing.LLM = summary

		if verbose && summary != nil && summary.Enabled {
			fmt.Fprintf(os.Stderr, "Generated LLM digest using %s/%s\n", summary.Provider, summary.Model)
		}
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	opts := report.Options{IsolateUnknownSources: cfg.Output.IsolateUnknownSources}

	doc, err := renderer.MarkdownDocument(briefing, opts)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	fmt.Print(doc)

	if outMD != "" {
		if err := renderer.RenderMarkdown(briefing, outMD, opts); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	if outJSON != "" {
		if err := renderer.RenderJSON(briefing, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outLLMMD != "" && briefing.LLM != nil {
		if err := renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(briefing.LLM), outLLMMD); err != nil {
			return fmt.Errorf("render LLM markdown: %w", err)
		}
	}

	if verbose {
		renderer.RenderSummary(briefing)
	}

	return nil
}
