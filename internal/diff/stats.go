// Package diff computes line statistics for the patch fragments the hosting
// platform returns per changed file.
package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/thomas-vilte/matereview/internal/models"
)

// FileStats holds the line counts of one file patch.
type FileStats struct {
	Filename     string
	AddedLines   int
	DeletedLines int
	Fragments    int
	// Parsed is false when the file has no patch or the patch could not be read.
	Parsed bool
}

// Summary aggregates FileStats over a pull request.
type Summary struct {
	Files        int
	AddedLines   int
	DeletedLines int
	Unparsed     int
}

// ParsePatch parses a bare patch fragment (starting at the first @@ hunk
// header) by giving it the file header gitdiff expects.
func ParsePatch(filename, patch string) ([]*gitdiff.TextFragment, error) {
	if strings.TrimSpace(patch) == "" {
		return nil, nil
	}
	if !strings.HasSuffix(patch, "\n") {
		patch += "\n"
	}

	raw := fmt.Sprintf("diff --git a/%[1]s b/%[1]s\n--- a/%[1]s\n+++ b/%[1]s\n%[2]s", filename, patch)
	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing patch for %s: %w", filename, err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	return files[0].TextFragments, nil
}

// Stats counts added and deleted lines of one changed file.
func Stats(file models.ChangedFile) FileStats {
	st := FileStats{Filename: file.Filename}

	fragments, err := ParsePatch(file.Filename, file.Patch)
	if err != nil || fragments == nil {
		return st
	}

	st.Parsed = true
	st.Fragments = len(fragments)
	for _, frag := range fragments {
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpAdd:
				st.AddedLines++
			case gitdiff.OpDelete:
				st.DeletedLines++
			}
		}
	}
	return st
}

// Summarize aggregates the statistics of every changed file.
func Summarize(files []models.ChangedFile) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		st := Stats(f)
		if !st.Parsed {
			s.Unparsed++
			continue
		}
		s.AddedLines += st.AddedLines
		s.DeletedLines += st.DeletedLines
	}
	return s
}

// TouchesNewLines reports whether the 1-based range [first, last] overlaps a
// hunk of the new file version.
func TouchesNewLines(fragments []*gitdiff.TextFragment, first, last int) bool {
	if last < first {
		first, last = last, first
	}
	for _, frag := range fragments {
		start := int(frag.NewPosition)
		end := start + int(frag.NewLines) - 1
		if frag.NewLines == 0 {
			end = start
		}
		if first <= end && last >= start {
			return true
		}
	}
	return false
}
