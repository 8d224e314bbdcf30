package aggregator

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/utils"
	"github.com/rs/zerolog"
)

// Aggregator collects the bytes of every submission below a root directory.
type Aggregator interface {
	Aggregate(root string, extensions []string) (models.Submissions, error)
}

type aggregator struct {
	logger zerolog.Logger
}

func NewAggregator(logger zerolog.Logger) Aggregator {
	return &aggregator{
		logger: logger,
	}
}

// Aggregate walks root and concatenates the contents of every regular file
// into the entry of its parent directory. With a non-empty extension list
// only paths ending in one of the given strings are read.
//
// Per-entry failures are logged and skipped. It returns ErrRootUnreadable
// when root itself cannot be walked, and ErrNoFiles when nothing was read.
func (a *aggregator) Aggregate(root string, extensions []string) (models.Submissions, error) {
	submissions := make(models.Submissions)
	files := 0

	walkRoot := resolveRoot(root)
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return fmt.Errorf("%w: %s: %v", models.ErrRootUnreadable, root, err)
			}
			a.logger.Error().Err(err).Str("path", path).Msg("Failed to walk entry")
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if walkRoot != root {
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return nil
			}
			path = filepath.Join(root, rel)
		}

		if len(extensions) > 0 && !utils.HasAnySuffix(path, extensions) {
			return nil
		}

		data, err := readFile(path)
		if err != nil {
			a.logger.Error().Err(err).Str("path", path).Msg("Failed to read file")
			return nil
		}

		if len(data) == 0 {
			a.logger.Warn().Str("path", path).Msg("Skipping empty file")
			return nil
		}

		id := models.SubmissionID(filepath.Dir(path))
		submissions[id] = append(submissions[id], data...)
		files++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(submissions) == 0 {
		return nil, fmt.Errorf("%w in %s", models.ErrNoFiles, root)
	}

	a.logger.Debug().
		Str("root", root).
		Int("files", files).
		Int("submissions", len(submissions)).
		Msg("Aggregated submissions")

	return submissions, nil
}

// resolveRoot follows root when it is a symlink. WalkDir does not descend
// into a symlinked root on its own. Symlinks below the root are not followed.
func resolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
