// Package report renders the pull request comments posted by a review run.
package report

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/thomas-vilte/matereview/internal/diff"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
)

type Renderer struct {
	trans *i18n.Translations
}

func NewRenderer(trans *i18n.Translations) *Renderer {
	return &Renderer{trans: trans}
}

// TooLarge renders the notice posted when the diff exceeds maxLength.
func (r *Renderer) TooLarge(maxLength int) string {
	return r.trans.GetMessage("too_large_notice", 0, map[string]interface{}{
		"MaxLength": maxLength,
	})
}

// Findings renders the findings grouped by file, in the order the files first
// appear in the model output. files is the reviewed change set, used for the
// statistics footer and to flag locations outside the changed hunks.
func (r *Renderer) Findings(findings []models.ReviewFinding, files []models.ChangedFile, model string) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("## %s\n\n", r.trans.GetMessage("review_heading", 0, nil)))
	md.WriteString(r.trans.GetMessage("review_summary", len(findings), map[string]interface{}{
		"Count": len(findings),
	}))
	md.WriteString("\n\n")

	hunks := fragmentsByFile(files)
	order, groups := groupByFile(findings)
	for _, file := range order {
		md.WriteString(fmt.Sprintf("### `%s`\n\n", file))
		for _, f := range groups[file] {
			md.WriteString("- ")
			md.WriteString(r.location(f, hunks))
			md.WriteString(": ")
			md.WriteString(strings.TrimSpace(f.Issue))
			md.WriteString("\n")
		}
		md.WriteString("\n")
	}

	summary := diff.Summarize(files)
	md.WriteString("---\n")
	md.WriteString(r.trans.GetMessage("diff_stats_footer", summary.Files, map[string]interface{}{
		"Count":   summary.Files,
		"Added":   summary.AddedLines,
		"Deleted": summary.DeletedLines,
	}))
	if model != "" {
		md.WriteString(" ")
		md.WriteString(r.trans.GetMessage("generated_by", 0, map[string]interface{}{
			"Model": model,
		}))
	}
	md.WriteString("\n")

	return md.String()
}

func (r *Renderer) location(f models.ReviewFinding, hunks map[string][]*gitdiff.TextFragment) string {
	first, last := f.FirstLine, f.LastLine
	if last < first {
		first, last = last, first
	}

	lines := last - first + 1
	loc := fmt.Sprintf("**%s**", r.trans.GetMessage("finding_lines", lines, map[string]interface{}{
		"First": first,
		"Last":  last,
	}))

	if f.ObjectName != "" {
		loc += " " + r.trans.GetMessage("finding_object", 0, map[string]interface{}{
			"Object": f.ObjectName,
		})
	}

	if fragments, ok := hunks[f.File]; ok && !diff.TouchesNewLines(fragments, first, last) {
		loc += fmt.Sprintf(" _(%s)_", r.trans.GetMessage("finding_outside_diff", 0, nil))
	}
	return loc
}

// fragmentsByFile keeps only files whose patch parsed into at least one hunk.
func fragmentsByFile(files []models.ChangedFile) map[string][]*gitdiff.TextFragment {
	out := make(map[string][]*gitdiff.TextFragment, len(files))
	for _, f := range files {
		fragments, err := diff.ParsePatch(f.Filename, f.Patch)
		if err != nil || len(fragments) == 0 {
			continue
		}
		out[f.Filename] = fragments
	}
	return out
}

func groupByFile(findings []models.ReviewFinding) ([]string, map[string][]models.ReviewFinding) {
	var order []string
	groups := make(map[string][]models.ReviewFinding)
	for _, f := range findings {
		if _, seen := groups[f.File]; !seen {
			order = append(order, f.File)
		}
		groups[f.File] = append(groups[f.File], f)
	}
	return order, groups
}
