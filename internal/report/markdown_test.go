package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
)

func newTestRenderer(t *testing.T, lang string) *Renderer {
	t.Helper()
	trans, err := i18n.NewTranslations(lang)
	require.NoError(t, err)
	return NewRenderer(trans)
}

func TestRenderer_TooLarge(t *testing.T) {
	r := newTestRenderer(t, "en")

	assert.Equal(t,
		"The total length of changes is greater than the configured 10000 character count. AI review will not be completed for this PR.",
		r.TooLarge(10000))
}

func TestRenderer_Findings(t *testing.T) {
	files := []models.ChangedFile{
		{
			Filename: "main.go",
			Status:   "modified",
			Patch:    "@@ -10,3 +10,4 @@ func run() {\n \tx := load()\n+\tx.Close()\n \treturn x\n }",
		},
		{Filename: "util.go", Status: "added", Patch: "@@ -0,0 +1,2 @@\n+package util\n+\n"},
	}
	findings := []models.ReviewFinding{
		{Issue: "Close called before use", File: "main.go", ObjectName: "run", FirstLine: 11, LastLine: 11},
		{Issue: "Empty package", File: "util.go", ObjectName: "", FirstLine: 1, LastLine: 2},
		{Issue: "Unrelated lines", File: "main.go", ObjectName: "init", FirstLine: 40, LastLine: 45},
	}

	t.Run("groups findings by file in first-seen order", func(t *testing.T) {
		out := newTestRenderer(t, "en").Findings(findings, files, "gemini-1.5-flash")

		assert.True(t, strings.HasPrefix(out, "## AI code review\n\nFound 3 issues in this pull request."))
		mainIdx := strings.Index(out, "### `main.go`")
		utilIdx := strings.Index(out, "### `util.go`")
		require.NotEqual(t, -1, mainIdx)
		require.NotEqual(t, -1, utilIdx)
		assert.Less(t, mainIdx, utilIdx)
		assert.Equal(t, 1, strings.Count(out, "### `main.go`"))

		assert.Contains(t, out, "- **line 11** in `run`: Close called before use\n")
		assert.Contains(t, out, "- **lines 1-2**: Empty package\n")
		assert.Contains(t, out, "- **lines 40-45** in `init` _(outside the changed lines)_: Unrelated lines\n")
	})

	t.Run("adds diff statistics and model footer", func(t *testing.T) {
		out := newTestRenderer(t, "en").Findings(findings, files, "gemini-1.5-flash")

		assert.Contains(t, out, "2 files changed, 3 additions, 0 deletions.")
		assert.Contains(t, out, "Generated by gemini-1.5-flash.")
	})

	t.Run("renders in spanish", func(t *testing.T) {
		out := newTestRenderer(t, "es").Findings(findings[:1], files[:1], "")

		assert.Contains(t, out, "Se encontró 1 problema en este pull request.")
		assert.Contains(t, out, "**línea 11** en `run`")
		assert.NotContains(t, out, "Generado por")
	})
}
