package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedText = `Binary search halves the interval on every step.
It requires the input to be sorted before the search starts.
The loop ends when the interval is empty or the key is found.
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(algorithm string) *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			Algorithm:           algorithm,
			SimilarityThreshold: 95,
			MaxWorkers:          1,
		},
		Output: config.OutputConfig{Color: config.ColorNever, Format: "text"},
	}
}

func newTestApp(t *testing.T, algorithm string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	a, err := New(testConfig(algorithm), zerolog.Nop(), &out, &errOut)
	require.NoError(t, err)
	return a, &out, &errOut
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := New(testConfig("crc32"), zerolog.Nop(), &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunOneAssignment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "search.txt"), strings.Repeat(sharedText, 20))
	writeFile(t, filepath.Join(root, "bob", "search.txt"), strings.Repeat(sharedText, 20))

	a, out, errOut := newTestApp(t, "lzjd")
	require.NoError(t, a.Run(models.ModeOneAssignment, root, nil))

	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "Average of 1 comparisons: 100.00, Std. Dev. 0.00")
	assert.Contains(t, out.String(), "Excluding 0 zeros, average of 1 comparisons: 100.00, Std. Dev. 0.00")
	assert.Contains(t, out.String(),
		filepath.Join(root, "alice")+" vs "+filepath.Join(root, "bob")+": 100")
}

func TestRunOneAssignmentNoFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "photo.png"), "png")

	a, out, errOut := newTestApp(t, "ssdeep")
	require.NoError(t, a.Run(models.ModeOneAssignment, root, []string{".txt"}))

	assert.Empty(t, out.String())
	assert.Equal(t, "No files found.\n", errOut.String())
}

func TestRunOneAssignmentUnreadableRootIsFatal(t *testing.T) {
	a, _, _ := newTestApp(t, "ssdeep")
	err := a.Run(models.ModeOneAssignment, filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, models.ErrRootUnreadable)
}

func TestRunAllAssignments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hw1", "alice", "answer.txt"), strings.Repeat(sharedText, 10))
	writeFile(t, filepath.Join(root, "hw1", "bob", "answer.txt"), strings.Repeat(sharedText, 10))
	writeFile(t, filepath.Join(root, "hw2", "carol", "answer.txt"), "only one submission here")
	writeFile(t, filepath.Join(root, "hw3", "dave", "answer.md"), "filtered out")
	writeFile(t, filepath.Join(root, "README.txt"), "not an assignment")

	a, out, errOut := newTestApp(t, "lzjd")
	require.NoError(t, a.Run(models.ModeAllAssignments, root, []string{".txt"}))

	assert.Contains(t, out.String(),
		filepath.Join(root, "hw1", "alice")+" vs "+filepath.Join(root, "hw1", "bob")+": 100")
	assert.NotContains(t, out.String(), "README")
	assert.True(t, strings.HasSuffix(out.String(), ": 100\n\n\n\n"), "one blank line after each batch: %q", out.String())

	assert.Contains(t, errOut.String(), "Nothing is similar.")
	assert.NotContains(t, errOut.String(), "limiting by file extension")
	assert.Contains(t, errOut.String(), "No files found.")
}

func TestRunAllAssignmentsUsesConfiguredExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hw1", "alice", "a.go"), strings.Repeat(sharedText, 10))
	writeFile(t, filepath.Join(root, "hw1", "bob", "b.go"), strings.Repeat(sharedText, 10))
	writeFile(t, filepath.Join(root, "hw1", "bob", "notes.txt"), "extra notes that would change the score")

	cfg := testConfig("lzjd")
	cfg.Analysis.Extensions = []string{".go"}
	var out bytes.Buffer
	a, err := New(cfg, zerolog.Nop(), &out, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, a.Run(models.ModeAllAssignments, root, nil))
	assert.Contains(t, out.String(), ": 100")
}

func TestRunAllAssignmentsUnreadableRoot(t *testing.T) {
	a, _, _ := newTestApp(t, "lzjd")
	err := a.Run(models.ModeAllAssignments, filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, models.ErrRootUnreadable)
}

func TestRunUnknownMode(t *testing.T) {
	a, _, _ := newTestApp(t, "lzjd")
	assert.Error(t, a.Run(models.Mode("some-assignments"), t.TempDir(), nil))
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor(config.ColorAlways, &buf))
	assert.False(t, useColor(config.ColorNever, &buf))
	assert.False(t, useColor(config.ColorAuto, &buf))
}
