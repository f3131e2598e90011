package report

import (
	"strings"

	"github.com/ukaji/marketbrief/internal/model"
)

// Options configures report formatting. The zero value is NOT the default;
// use DefaultOptions so the documented isolation default stays explicit at
// the call boundary.
type Options struct {
	// IsolateUnknownSources routes statements with incomplete provenance
	// into a separate trailing section. When false they are rendered inline
	// with no citation suffix and no marker.
	IsolateUnknownSources bool
}

// DefaultOptions returns the documented defaults (isolation enabled).
func DefaultOptions() Options {
	return Options{IsolateUnknownSources: true}
}

// FormatSections renders statements into the briefing report body.
//
// Citable statements (complete provenance) become bullet lines with the
// citation suffix. Unknown-source statements either join a trailing
// "出所不明" section or, with isolation disabled, appear inline uncited.
// Relative order within each section matches the input (stable partition).
// Text passes through verbatim except for a trailing-whitespace trim, applied
// on every path so the citation suffix and the unknown marker attach the same
// way.
//
// The function is pure: identical input yields a byte-identical string. An
// empty input yields an empty string. A statement without usable text makes
// the whole batch fail with *InvalidStatementError; no partial report is
// returned.
func FormatSections(statements []model.Statement, opts Options) (string, error) {
	var citedLines []string
	var unknownLines []string

	for i, stmt := range statements {
		if strings.TrimSpace(stmt.Text) == "" {
			return "", &InvalidStatementError{Index: i}
		}

		// AppendCitation trims trailing whitespace either way; the marker and
		// the citation suffix both attach directly to the text.
		line := AppendCitation(stmt.Text, stmt)

		switch {
		case stmt.HasCompleteSource():
			citedLines = append(citedLines, "- "+line)
		case opts.IsolateUnknownSources:
			unknownLines = append(unknownLines, "- "+line+UnknownSourceMarker)
		default:
			citedLines = append(citedLines, "- "+line)
		}
	}

	var sections []string
	if len(citedLines) > 0 {
		sections = append(sections, strings.Join(citedLines, "\n"))
	}
	if opts.IsolateUnknownSources && len(unknownLines) > 0 {
		sections = append(sections, UnknownSourceSectionTitle+"\n"+strings.Join(unknownLines, "\n"))
	}

	return strings.Join(sections, "\n\n"), nil
}
