// Package ui prints the end-of-run summary and errors to the job log.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.FgHiBlack)
)

// HandleAppError prints err with its details and suggestion when it is an
// AppError, and as plain text otherwise.
func HandleAppError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		_, _ = Error.Fprintf(w, "❌ %s\n", err.Error())
		return
	}

	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   Details: %v\n", appErr.Err)
	}
	if input, ok := appErr.Context["input"].(string); ok && input != "" {
		_, _ = Dim.Fprintf(w, "   Input: %s\n", input)
	}

	if appErr.Suggestion != "" {
		_, _ = Info.Fprint(w, "💡 Try: ")
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
}

// PrintOutcome writes a one-line summary of the run followed by token usage.
func PrintOutcome(w io.Writer, out models.RunOutcome) {
	switch out.Kind {
	case models.OutcomeNotApplicable:
		_, _ = Dim.Fprintln(w, "No pull request in this event, review skipped.")
	case models.OutcomeTooLarge:
		_, _ = Warning.Fprintf(w, "⚠️  Changes too large for review: %d characters (limit %d).\n", out.Metric, out.Limit)
	case models.OutcomeFindings:
		if len(out.Findings) == 0 {
			_, _ = Success.Fprintln(w, "✓ Review finished, no issues found.")
		} else {
			_, _ = Success.Fprintf(w, "✓ Review posted with %d finding(s).\n", len(out.Findings))
		}
	case models.OutcomeNoResult:
		_, _ = Warning.Fprintln(w, "⚠️  The model did not return a usable review.")
	}

	PrintTokenUsage(w, out.Usage)
}

func PrintTokenUsage(w io.Writer, usage *models.TokenUsage) {
	if usage == nil {
		return
	}
	_, _ = Info.Fprint(w, "📊 ")
	_, _ = fmt.Fprintf(w, "Tokens: input %d | output %d | total %d\n",
		usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
	if usage.CostUSD > 0 {
		_, _ = Warning.Fprint(w, "💰 ")
		_, _ = fmt.Fprintf(w, "Estimated cost: $%.4f USD\n", usage.CostUSD)
	}
	if usage.DurationMs > 0 {
		_, _ = fmt.Fprintf(w, "⏱️  Duration: %dms\n", usage.DurationMs)
	}
}
