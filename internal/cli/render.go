package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji/marketbrief/internal/model"
	"github.com/ukaji/marketbrief/internal/report"
)

var renderInlineUnknown bool

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <statements.json>",
	Short: "Render a statements file as a sourced report body",
	Long: `Render reads a JSON array of statements and prints the report body
to stdout.

Each statement has a "text" field and optional "source_name" and
"source_url" fields. Statements with both source fields get an inline
citation; the rest go to a 出所不明の情報 section unless
--inline-unknown is set.

A statement with empty text fails the whole batch: nothing is printed
and the exit code is non-zero.

Example:
  marketbrief render statements.json
  marketbrief render statements.json --inline-unknown`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&renderInlineUnknown, "inline-unknown", false, "keep unsourced statements inline with a （出所不明） marker instead of a separate section")
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read statements: %w", err)
	}

	var statements []model.Statement
	if err := json.Unmarshal(data, &statements); err != nil {
		return fmt.Errorf("parse statements: %w", err)
	}

	opts := report.DefaultOptions()
	opts.IsolateUnknownSources = !renderInlineUnknown

	body, err := report.FormatSections(statements, opts)
	if err != nil {
		return fmt.Errorf("format statements: %w", err)
	}

	if body != "" {
		fmt.Println(body)
	}

	return nil
}
