package report

import "fmt"

// InvalidStatementError reports a statement that cannot be rendered because
// its text is missing. It is fatal for the whole batch: the formatter emits
// either the full report or nothing.
type InvalidStatementError struct {
	Index int // Position of the offending statement in the input sequence
}

func (e *InvalidStatementError) Error() string {
	return fmt.Sprintf("statement %d: text is empty", e.Index)
}
