package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ukaji/marketbrief/internal/model"
)

// Renderer writes briefings to files and the console
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the briefing as indented JSON
func (r *Renderer) RenderJSON(briefing *model.Briefing, path string) error {
	data, err := json.MarshalIndent(briefing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal briefing: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}

	return nil
}

// RenderMarkdown writes the briefing as a Markdown document. The statement
// body comes from FormatSections unchanged; this only adds the document
// header, feed error section, and optional footer around it.
func (r *Renderer) RenderMarkdown(briefing *model.Briefing, path string, opts Options) error {
	doc, err := r.MarkdownDocument(briefing, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

// MarkdownDocument builds the full Markdown document for a briefing.
func (r *Renderer) MarkdownDocument(briefing *model.Briefing, opts Options) (string, error) {
	body, err := FormatSections(briefing.Statements, opts)
	if err != nil {
		return "", fmt.Errorf("format sections: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 市況ブリーフィング: %s\n\n", briefing.Query)
	fmt.Fprintf(&b, "収集日時: %s\n", briefing.CollectedAt.UTC().Format("2006-01-02 15:04 UTC"))

	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	if len(briefing.FeedErrors) > 0 {
		b.WriteString("\n## 取得エラー\n")
		for _, msg := range briefing.FeedErrors {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("*Generated by marketbrief · 出所が揃った項目のみ引用を付記しています*\n")
	}

	return b.String(), nil
}

// RenderLLMMarkdown writes an LLM summary to its own file
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write LLM markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short collection summary to stderr
func (r *Renderer) RenderSummary(briefing *model.Briefing) {
	cited := 0
	for _, stmt := range briefing.Statements {
		if stmt.HasCompleteSource() {
			cited++
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Query:          %s\n", briefing.Query)
	fmt.Fprintf(os.Stderr, "  Statements:     %d (%d cited, %d unknown source)\n",
		len(briefing.Statements), cited, len(briefing.Statements)-cited)
	fmt.Fprintf(os.Stderr, "  Feed errors:    %d\n", len(briefing.FeedErrors))
	fmt.Fprintf(os.Stderr, "\n")
}
