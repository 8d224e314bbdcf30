package service

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/service/aggregator"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/service/analyzer"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/hash"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/utils"
	"github.com/rs/zerolog"
)

// AnalysisService runs the similarity pipeline for one batch of submissions.
type AnalysisService interface {
	AnalyzeBatch(dir string, extensions []string) (*models.BatchReport, error)
}

type AnalysisConfig struct {
	MaxWorkers int
}

type analysisService struct {
	aggregator    aggregator.Aggregator
	fingerprinter hash.Fingerprinter
	logger        zerolog.Logger
	config        AnalysisConfig
}

func NewAnalysisService(
	agg aggregator.Aggregator,
	fingerprinter hash.Fingerprinter,
	logger zerolog.Logger,
	config AnalysisConfig,
) AnalysisService {
	return &analysisService{
		aggregator:    agg,
		fingerprinter: fingerprinter,
		logger:        logger,
		config:        config,
	}
}

// AnalyzeBatch aggregates, fingerprints and compares every submission under
// dir. A batch without any readable file yields a report with status
// BatchStatusNoFiles together with ErrNoFiles. Every piece of state lives in
// this call; nothing is shared between batches.
func (s *analysisService) AnalyzeBatch(dir string, extensions []string) (*models.BatchReport, error) {
	report := &models.BatchReport{
		ID:         utils.GenerateUUID(),
		Dir:        dir,
		Algorithm:  s.fingerprinter.Algorithm().String(),
		Extensions: slices.Clone(extensions),
		StartedAt:  time.Now(),
	}
	log := s.logger.With().Str("batch_id", report.ID).Str("dir", dir).Logger()

	submissions, err := s.aggregator.Aggregate(dir, extensions)
	if err != nil {
		report.CompletedAt = time.Now()
		if errors.Is(err, models.ErrNoFiles) {
			report.Status = models.BatchStatusNoFiles
		} else {
			report.Status = models.BatchStatusFailed
		}
		return report, err
	}
	report.Submissions = len(submissions)

	fingerprints := make(models.Fingerprints, len(submissions))
	for id, content := range submissions {
		digest, err := s.fingerprinter.Fingerprint(content)
		if err != nil {
			report.Status = models.BatchStatusFailed
			report.CompletedAt = time.Now()
			return report, fmt.Errorf("failed to fingerprint %s: %w", id, err)
		}
		fingerprints[id] = digest
		delete(submissions, id)

		log.Debug().Str("submission", id.String()).Str("digest", digest).Msg("Fingerprinted submission")
	}

	comparator := analyzer.NewComparator(s.fingerprinter, log, analyzer.ComparatorConfig{
		MaxWorkers: s.config.MaxWorkers,
	})
	result := comparator.Compare(fingerprints)

	report.Pairs = result.Pairs
	report.Skipped = result.Skipped
	report.Stats = result.Stats.Summary()
	report.Status = models.BatchStatusCompleted
	report.CompletedAt = time.Now()

	log.Info().
		Int("submissions", report.Submissions).
		Int("comparisons", report.Stats.Count).
		Int("retained", len(report.Pairs)).
		Int("skipped", report.Skipped).
		Dur("elapsed", report.CompletedAt.Sub(report.StartedAt)).
		Msg("Batch analysis completed")

	return report, nil
}
