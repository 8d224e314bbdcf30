package aggregator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAggregateGroupsByParentDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "a.txt"), "hello ")
	writeFile(t, filepath.Join(root, "alice", "b.txt"), "world")
	writeFile(t, filepath.Join(root, "alice", "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "bob", "notes.txt"), "bob's notes")

	subs, err := NewAggregator(zerolog.Nop()).Aggregate(root, nil)
	require.NoError(t, err)

	require.Len(t, subs, 3)
	assert.Equal(t, "hello world", string(subs[models.SubmissionID(filepath.Join(root, "alice"))]))
	assert.Equal(t, "package main", string(subs[models.SubmissionID(filepath.Join(root, "alice", "src"))]))
	assert.Equal(t, "bob's notes", string(subs[models.SubmissionID(filepath.Join(root, "bob"))]))
}

func TestAggregateExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "notes.txt"), "text")
	writeFile(t, filepath.Join(root, "alice", "image.png"), "png-bytes")
	writeFile(t, filepath.Join(root, "bob", "docs"), "suffix quirk")

	subs, err := NewAggregator(zerolog.Nop()).Aggregate(root, []string{"txt"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "text", string(subs[models.SubmissionID(filepath.Join(root, "alice"))]))

	subs, err = NewAggregator(zerolog.Nop()).Aggregate(root, []string{"s"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "suffix quirk", string(subs[models.SubmissionID(filepath.Join(root, "bob"))]))
}

func TestAggregateSkipsEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "empty.txt"), "")
	writeFile(t, filepath.Join(root, "bob", "empty.txt"), "")
	writeFile(t, filepath.Join(root, "bob", "full.txt"), "content")

	var logs bytes.Buffer
	subs, err := NewAggregator(zerolog.New(&logs)).Aggregate(root, nil)
	require.NoError(t, err)

	require.Len(t, subs, 1)
	_, hasAlice := subs[models.SubmissionID(filepath.Join(root, "alice"))]
	assert.False(t, hasAlice, "empty files must not create a submission")
	assert.Equal(t, "content", string(subs[models.SubmissionID(filepath.Join(root, "bob"))]))
	assert.Contains(t, logs.String(), "Skipping empty file")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestAggregateNoFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "empty.txt"), "")
	writeFile(t, filepath.Join(root, "bob", "image.png"), "png")

	_, err := NewAggregator(zerolog.Nop()).Aggregate(root, []string{".txt"})
	assert.ErrorIs(t, err, models.ErrNoFiles)
}

func TestAggregateMissingRoot(t *testing.T) {
	_, err := NewAggregator(zerolog.Nop()).Aggregate(filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, models.ErrRootUnreadable)
}

func TestAggregateFollowsSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "alice", "a.txt"), "alice")
	writeFile(t, filepath.Join(target, "bob", "b.txt"), "bob")

	link := filepath.Join(t.TempDir(), "assignment")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	subs, err := NewAggregator(zerolog.Nop()).Aggregate(link, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "alice", string(subs[models.SubmissionID(filepath.Join(link, "alice"))]))
	assert.Equal(t, "bob", string(subs[models.SubmissionID(filepath.Join(link, "bob"))]))
}

func TestAggregateSkipsUnreadableEntries(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "a.txt"), "alice")
	locked := filepath.Join(root, "bob", "secret.txt")
	writeFile(t, locked, "bob")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	var logs bytes.Buffer
	subs, err := NewAggregator(zerolog.New(&logs)).Aggregate(root, nil)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Contains(t, logs.String(), "Failed to read file")
}
