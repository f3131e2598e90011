package model

import "time"

// Briefing represents one collected market briefing
type Briefing struct {
	Query       string      `json:"query"`                 // Search query used for collection
	CollectedAt time.Time   `json:"collected_at"`          // When collection occurred
	Items       []NewsItem  `json:"items"`                 // Raw feed items, newest first
	Statements  []Statement `json:"statements"`            // Statements derived from the items
	FeedErrors  []string    `json:"feed_errors,omitempty"` // Per-feed failures (collection continues past them)

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM summary (separate, never alters the report body)
}

// LLMSummary contains an optional LLM-generated digest of the briefing.
// It is rendered apart from the report body and never feeds back into it.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`   // openai, anthropic, ollama
	Model          string   `json:"model,omitempty"`      // Model name
	StrictEvidence bool     `json:"strict_evidence"`      // Whether citation enforcement was enabled
	SummaryMD      string   `json:"summary_md,omitempty"` // Markdown summary
	Warnings       []string `json:"warnings,omitempty"`   // Any issues (e.g., citation leaks detected)
}
