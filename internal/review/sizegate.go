package review

import (
	"unicode/utf16"

	"github.com/thomas-vilte/matereview/internal/models"
)

// PatchLength is the size metric of a pull request: the number of UTF-16 code
// units over every patch, so characters outside the Basic Multilingual Plane
// count twice. Files without a patch count as zero.
func PatchLength(files []models.ChangedFile) int {
	total := 0
	for _, f := range files {
		total += utf16Len(f.Patch)
	}
	return total
}

// utf16Len counts invalid UTF-8 bytes as one unit each, like U+FFFD.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ShouldReview reports whether the pull request is small enough to review.
// Reaching the limit exactly already counts as too large.
func ShouldReview(files []models.ChangedFile, maxTotalPatchLength int) bool {
	return PatchLength(files) < maxTotalPatchLength
}
