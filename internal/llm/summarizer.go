package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji/marketbrief/internal/model"
)

// Summarizer produces an optional briefing digest. A nil provider means the
// feature is disabled; every method stays safe to call.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a digest of the briefing. Only URLs from citable
// statements enter the allowlist. Returns (nil, nil) when disabled; an
// unavailable provider yields a summary object carrying a warning so the
// briefing itself still succeeds.
func (s *Summarizer) GenerateSummary(ctx context.Context, briefing model.Briefing) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("Provider %s is not available; digest skipped", s.provider.Name())},
		}, nil
	}

	var evidenceURLs []string
	for _, stmt := range briefing.Statements {
		if stmt.HasCompleteSource() {
			evidenceURLs = append(evidenceURLs, strings.TrimSpace(stmt.SourceURL))
		}
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Briefing:     briefing,
		EvidenceURLs: evidenceURLs,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate digest: %w", err)
	}

	warnings := []string{
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d citations against the evidence allowlist", len(resp.CitedURLs)),
	}

	return &model.LLMSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          resp.Model,
		StrictEvidence: s.config.StrictEvidence,
		SummaryMD:      resp.Summary,
		Warnings:       warnings,
	}, nil
}

// RenderSeparateMarkdown renders an LLM summary as its own document, kept
// apart from the briefing report body.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM要約（参考情報）\n\n")
	b.WriteString("この要約は自動生成されたものであり、ブリーフィング本文の一部ではありません。\n\n")

	if summary.Provider != "" {
		fmt.Fprintf(&b, "Provider: %s", summary.Provider)
		if summary.Model != "" {
			fmt.Fprintf(&b, " (%s)", summary.Model)
		}
		b.WriteString("\n\n")
	}

	if summary.SummaryMD != "" {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
