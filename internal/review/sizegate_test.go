package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/matereview/internal/models"
)

func filesWithPatchLengths(lengths ...int) []models.ChangedFile {
	files := make([]models.ChangedFile, len(lengths))
	for i, n := range lengths {
		files[i] = models.ChangedFile{Filename: "f", Status: "modified", Patch: strings.Repeat("x", n)}
	}
	return files
}

func TestPatchLength(t *testing.T) {
	tests := []struct {
		name  string
		files []models.ChangedFile
		want  int
	}{
		{"no files", nil, 0},
		{"files without patches", []models.ChangedFile{{Filename: "a.png"}, {Filename: "b.png"}}, 0},
		{"sums patches", filesWithPatchLengths(4000, 4000, 3000), 11000},
		{"mixed", append(filesWithPatchLengths(10), models.ChangedFile{Filename: "bin"}), 10},
		{"counts characters not bytes", []models.ChangedFile{{Filename: "a", Patch: "+ñandú"}}, 6},
		{"astral characters count as two units", []models.ChangedFile{{Filename: "a", Patch: "+😀"}}, 3},
		{"invalid utf-8 counts per byte", []models.ChangedFile{{Filename: "a", Patch: "+\xff\xfe"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PatchLength(tt.files))
		})
	}

	t.Run("order independent", func(t *testing.T) {
		a := filesWithPatchLengths(1, 20, 300)
		b := []models.ChangedFile{a[2], a[0], a[1]}
		assert.Equal(t, PatchLength(a), PatchLength(b))
	})
}

func TestShouldReview(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		limit   int
		want    bool
	}{
		{"well below the limit", []int{100, 400}, 10000, true},
		{"one below the limit", []int{9999}, 10000, true},
		{"exactly at the limit", []int{5000, 5000}, 10000, false},
		{"above the limit", []int{4000, 4000, 3000}, 10000, false},
		{"empty pull request", nil, 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReview(filesWithPatchLengths(tt.lengths...), tt.limit))
		})
	}
}

func TestShouldReview_AstralCharacters(t *testing.T) {
	// 5000 emoji are 5000 runes but 10000 UTF-16 units.
	files := []models.ChangedFile{{Filename: "a.md", Status: "modified", Patch: strings.Repeat("😀", 5000)}}

	assert.Equal(t, 10000, PatchLength(files))
	assert.False(t, ShouldReview(files, 10000))
	assert.True(t, ShouldReview(files, 10001))
}
