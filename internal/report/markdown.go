package report

import (
	"context"
	"fmt"
	"io"

	"github.com/packagelint/packagelint/internal/lint"
)

// MarkdownReporter writes a Markdown summary once validation completes.
type MarkdownReporter struct {
	lint.BaseReporter
	OutputFile string
	Writer     io.Writer
}

// NewMarkdownReporter builds a MarkdownReporter from reporter options (outputFile).
func NewMarkdownReporter(options lint.Options) (lint.Reporter, error) {
	var o fileOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	return &MarkdownReporter{OutputFile: o.OutputFile}, nil
}

// OnValidationComplete implements lint.Reporter.
func (r *MarkdownReporter) OnValidationComplete(_ context.Context, output *lint.Output) error {
	if r.Writer != nil {
		return r.Write(output, r.Writer)
	}
	return writeDocument(r.OutputFile, func(w io.Writer) error {
		return r.Write(output, w)
	})
}

func (r *MarkdownReporter) Write(output *lint.Output, w io.Writer) error {
	fmt.Fprintf(w, "# Packagelint Report\n\n")

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "- **Rules Enabled:** %d\n", output.NumRulesEnabled)
	fmt.Fprintf(w, "- **Rules Disabled:** %d\n", output.NumRulesDisabled)
	fmt.Fprintf(w, "- **Passed:** %d\n", output.NumRulesPassed)
	fmt.Fprintf(w, "- **Failed:** %d\n", output.NumRulesFailed)
	fmt.Fprintf(w, "- **Exit Code:** %s\n", output.ExitCode)
	fmt.Fprintf(w, "- **Duration:** %s\n", output.Duration)
	fmt.Fprintf(w, "\n")

	if len(output.ErrorResults) == 0 {
		fmt.Fprintf(w, "All rules passed.\n")
		return nil
	}

	fmt.Fprintf(w, "## Failures\n\n")
	for _, e := range output.ErrorResults {
		r.writeFailure(w, e)
	}
	return nil
}

func (r *MarkdownReporter) writeFailure(w io.Writer, e lint.ValidationError) {
	fmt.Fprintf(w, "### %s %s\n\n", levelIcon(e.ErrorLevel), e.PreparedRuleName)
	fmt.Fprintf(w, "%s\n\n", e.Message)
	if e.ErrorName != "" {
		fmt.Fprintf(w, "**Error:** `%s`\n\n", e.ErrorName)
	}
	fmt.Fprintf(w, "---\n\n")
}

func levelIcon(level lint.ErrorLevel) string {
	switch level {
	case lint.ErrorLevelException:
		return "[EXCEPTION]"
	case lint.ErrorLevelError:
		return "[ERROR]"
	case lint.ErrorLevelWarning:
		return "[WARNING]"
	case lint.ErrorLevelSuggestion:
		return "[SUGGESTION]"
	default:
		return "[INFO]"
	}
}
