package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/models"
)

const modifiedPatch = `@@ -1,3 +1,5 @@
 package main
-import "fmt"
+import (
+	"fmt"
+)
 func main() {}`

const addedPatch = `@@ -0,0 +1,2 @@
+line one
+line two
`

func TestStats(t *testing.T) {
	t.Run("modified file", func(t *testing.T) {
		st := Stats(models.ChangedFile{Filename: "main.go", Status: "modified", Patch: modifiedPatch})

		assert.True(t, st.Parsed)
		assert.Equal(t, 1, st.Fragments)
		assert.Equal(t, 3, st.AddedLines)
		assert.Equal(t, 1, st.DeletedLines)
	})

	t.Run("added file", func(t *testing.T) {
		st := Stats(models.ChangedFile{Filename: "new.txt", Status: "added", Patch: addedPatch})

		assert.True(t, st.Parsed)
		assert.Equal(t, 2, st.AddedLines)
		assert.Equal(t, 0, st.DeletedLines)
	})

	t.Run("binary file without patch", func(t *testing.T) {
		st := Stats(models.ChangedFile{Filename: "logo.png", Status: "added"})

		assert.False(t, st.Parsed)
		assert.Zero(t, st.AddedLines)
	})

	t.Run("garbage patch", func(t *testing.T) {
		st := Stats(models.ChangedFile{Filename: "x", Patch: "@@ -1,5 +1,5 @@\n+only one line"})

		assert.False(t, st.Parsed)
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.ChangedFile{
		{Filename: "main.go", Patch: modifiedPatch},
		{Filename: "new.txt", Patch: addedPatch},
		{Filename: "logo.png"},
	})

	assert.Equal(t, Summary{Files: 3, AddedLines: 5, DeletedLines: 1, Unparsed: 1}, s)
}

func TestTouchesNewLines(t *testing.T) {
	fragments, err := ParsePatch("main.go", modifiedPatch)
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	assert.True(t, TouchesNewLines(fragments, 2, 3))
	assert.True(t, TouchesNewLines(fragments, 4, 9))
	assert.True(t, TouchesNewLines(fragments, 3, 2))
	assert.False(t, TouchesNewLines(fragments, 6, 9))
}
