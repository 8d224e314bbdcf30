package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/service"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/service/aggregator"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/hash"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type App struct {
	logger          zerolog.Logger
	config          *config.Config
	out             io.Writer
	analysisService service.AnalysisService
	reportService   service.ReportService
}

// New wires the pipeline for the algorithm named in cfg. Reports are
// written to out, user hints such as "No files found." to errOut.
func New(cfg *config.Config, log zerolog.Logger, out, errOut io.Writer) (*App, error) {
	algorithm, err := hash.ParseAlgorithm(cfg.Analysis.Algorithm)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := hash.New(algorithm)
	if err != nil {
		return nil, err
	}

	analysisService := service.NewAnalysisService(
		aggregator.NewAggregator(log),
		fingerprinter,
		log,
		service.AnalysisConfig{
			MaxWorkers: cfg.Analysis.MaxWorkers,
		},
	)

	reportService := service.NewReportService(out, errOut, service.ReportConfig{
		Threshold: cfg.Analysis.SimilarityThreshold,
		Color:     useColor(cfg.Output.Color, out),
		Format:    cfg.Output.Format,
	})

	return &App{
		logger:          log,
		config:          cfg,
		out:             out,
		analysisService: analysisService,
		reportService:   reportService,
	}, nil
}

func (a *App) Run(mode models.Mode, dir string, extensions []string) error {
	if len(extensions) == 0 {
		extensions = a.config.Analysis.Extensions
	}

	switch mode {
	case models.ModeOneAssignment:
		return a.RunOneAssignment(dir, extensions)
	case models.ModeAllAssignments:
		return a.RunAllAssignments(dir, extensions)
	default:
		return fmt.Errorf("unsupported mode: %s", mode)
	}
}

// RunOneAssignment treats every directory holding files below dir as one
// submission.
func (a *App) RunOneAssignment(dir string, extensions []string) error {
	return a.runBatch(dir, extensions)
}

// RunAllAssignments runs an independent batch for each sub-directory of
// dir. Regular files directly inside dir are ignored.
func (a *App) RunAllAssignments(dir string, extensions []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrRootUnreadable, dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		batchDir := filepath.Join(dir, entry.Name())
		if err := a.runBatch(batchDir, extensions); err != nil {
			if !errors.Is(err, models.ErrRootUnreadable) {
				return err
			}
			a.logger.Error().Err(err).Str("dir", batchDir).Msg("Skipping unreadable assignment")
		}

		if _, err := fmt.Fprintln(a.out); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) runBatch(dir string, extensions []string) error {
	report, err := a.analysisService.AnalyzeBatch(dir, extensions)
	if err != nil && !errors.Is(err, models.ErrNoFiles) {
		return err
	}
	return a.reportService.Render(report)
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
