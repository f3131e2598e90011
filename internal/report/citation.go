// Package report renders collected statements into the briefing report,
// appending citation suffixes to statements whose provenance is complete and
// routing the rest into a dedicated unknown-source section.
package report

import (
	"fmt"
	"strings"

	"github.com/ukaji/marketbrief/internal/model"
)

const (
	// CitationTemplate is the literal citation suffix format. Half-width
	// parentheses, no space between name and the opening parenthesis.
	CitationTemplate = "[出所: %s(%s)]"

	// UnknownSourceSectionTitle heads the isolated unknown-source section.
	UnknownSourceSectionTitle = "## 出所不明の情報"

	// UnknownSourceMarker is appended to isolated unknown-source lines.
	// Full-width parentheses, no separating space.
	UnknownSourceMarker = "（出所不明）"
)

// FormatCitation renders the citation suffix for a complete source pair.
func FormatCitation(sourceName, sourceURL string) string {
	return fmt.Sprintf(CitationTemplate, strings.TrimSpace(sourceName), strings.TrimSpace(sourceURL))
}

// AppendCitation appends the citation suffix to text when the statement's
// provenance is complete. Text already ending with the exact suffix is left
// alone so a line never carries it twice.
func AppendCitation(text string, stmt model.Statement) string {
	text = strings.TrimRight(text, " \t\r\n")
	if !stmt.HasCompleteSource() {
		return text
	}

	citation := FormatCitation(stmt.SourceName, stmt.SourceURL)
	if strings.HasSuffix(text, citation) {
		return text
	}
	return text + " " + citation
}
