// Package llm generates an optional digest of a briefing. The digest lives
// beside the report, never inside it, and may only cite URLs that appear as
// statement provenance.
package llm

import (
	"context"
	"fmt"

	"github.com/ukaji/marketbrief/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a digest of the briefing with strict evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Briefing is the collected briefing to digest
	Briefing model.Briefing

	// EvidenceURLs is the STRICT allowlist of URLs the LLM can cite.
	// Only citable statements contribute to it.
	EvidenceURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's digest output
type SummarizeResponse struct {
	// Summary is the generated digest text
	Summary string

	// CitedURLs are the URLs the LLM actually cited (for verification)
	CitedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the URL allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      1000,
	}
}

// BuildPrompt constructs the default digest prompt with strict evidence mode
func BuildPrompt(briefing model.Briefing, evidenceURLs []string) string {
	cited := 0
	for _, stmt := range briefing.Statements {
		if stmt.HasCompleteSource() {
			cited++
		}
	}

	prompt := fmt.Sprintf(`You are summarizing a market news briefing. The briefing lists short statements; some carry full provenance (source name and URL), the rest are of unknown origin.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. Never present an unknown-origin statement as confirmed; mark it as unverified.
4. Do not add market predictions or advice of your own.

Briefing:
- Query: %s
- Statements: %d (%d cited, %d unknown source)
- Feed errors: %d

Statements:
`, joinURLs(evidenceURLs), briefing.Query, len(briefing.Statements), cited, len(briefing.Statements)-cited, len(briefing.FeedErrors))

	for _, stmt := range briefing.Statements {
		if stmt.HasCompleteSource() {
			prompt += fmt.Sprintf("- %s (source: %s %s)\n", stmt.Text, stmt.SourceName, stmt.SourceURL)
		} else {
			prompt += fmt.Sprintf("- %s (source unknown)\n", stmt.Text)
		}
	}

	prompt += "\nProvide a 3-4 sentence digest of the day's market picture, distinguishing sourced statements from unverified ones."

	return prompt
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}
	result := ""
	for i, url := range urls {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more URLs", len(urls)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", url)
	}
	return result
}
