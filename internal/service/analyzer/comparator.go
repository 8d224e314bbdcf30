package analyzer

import (
	"errors"
	"slices"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/worker"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/hash"
	"github.com/rs/zerolog"
)

// ComparisonResult holds the retained (non-zero) pair scores of one batch
// and the statistics over every score that was computed.
type ComparisonResult struct {
	Pairs   map[models.PairKey]models.Score
	Stats   *Statistics
	Skipped int
}

// Comparator scores every unordered pair of submissions exactly once.
type Comparator interface {
	Compare(fingerprints models.Fingerprints) *ComparisonResult
}

type ComparatorConfig struct {
	// MaxWorkers above 1 scores pairs concurrently.
	MaxWorkers int
}

type comparator struct {
	fingerprinter hash.Fingerprinter
	logger        zerolog.Logger
	config        ComparatorConfig
}

func NewComparator(fingerprinter hash.Fingerprinter, logger zerolog.Logger, config ComparatorConfig) Comparator {
	return &comparator{
		fingerprinter: fingerprinter,
		logger:        logger,
		config:        config,
	}
}

type pairOutcome struct {
	score models.Score
	err   error
	done  bool
}

func (c *comparator) Compare(fingerprints models.Fingerprints) *ComparisonResult {
	result := &ComparisonResult{
		Pairs: make(map[models.PairKey]models.Score),
		Stats: NewStatistics(),
	}

	pairs := uniquePairs(fingerprints)
	if len(pairs) == 0 {
		return result
	}

	outcomes := make([]pairOutcome, len(pairs))
	if c.config.MaxWorkers > 1 && len(pairs) > 1 {
		c.scoreConcurrently(fingerprints, pairs, outcomes)
	} else {
		for i, key := range pairs {
			outcomes[i] = c.score(fingerprints, key)
		}
	}

	// Outcomes are consumed in canonical pair order so that concurrent and
	// sequential runs produce the same statistics stream.
	for i, key := range pairs {
		outcome := outcomes[i]
		if !outcome.done {
			outcome.err = errScoringAborted
		}
		if outcome.err != nil {
			result.Skipped++
			c.logger.Error().
				Err(outcome.err).
				Str("first", key.A.String()).
				Str("second", key.B.String()).
				Msg("Failed to compare fingerprints, skipping pair")
			continue
		}

		result.Stats.Add(outcome.score)
		if outcome.score > 0 {
			result.Pairs[key] = outcome.score
		}

		c.logger.Trace().
			Str("first", key.A.String()).
			Str("second", key.B.String()).
			Int("score", int(outcome.score)).
			Msg("Compared pair")
	}

	c.logger.Debug().
		Int("submissions", len(fingerprints)).
		Int("comparisons", result.Stats.Len()).
		Int("retained", len(result.Pairs)).
		Int("skipped", result.Skipped).
		Msg("Pairwise comparison finished")

	return result
}

var errScoringAborted = errors.New("pair scoring aborted")

func (c *comparator) scoreConcurrently(fingerprints models.Fingerprints, pairs []models.PairKey, outcomes []pairOutcome) {
	pool := worker.NewWorkerPool(c.config.MaxWorkers, c.logger)
	pool.Start()
	for i, key := range pairs {
		pool.Submit(func() {
			outcomes[i] = c.score(fingerprints, key)
		})
	}
	pool.Stop()

	c.logger.Debug().
		Fields(pool.GetStats()).
		Msg("Concurrent scoring finished")
}

func (c *comparator) score(fingerprints models.Fingerprints, key models.PairKey) pairOutcome {
	score, err := c.fingerprinter.Compare(fingerprints[key.A], fingerprints[key.B])
	if err != nil {
		return pairOutcome{err: err, done: true}
	}
	return pairOutcome{score: models.Score(score), done: true}
}

// uniquePairs lists every unordered pair of distinct submissions once. Both
// orders of each pair are visited; the second visit is dropped by its
// canonical key before any comparison is scheduled.
func uniquePairs(fingerprints models.Fingerprints) []models.PairKey {
	ids := make([]models.SubmissionID, 0, len(fingerprints))
	for id := range fingerprints {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	n := len(ids)
	seen := make(map[models.PairKey]struct{}, n*(n-1)/2)
	pairs := make([]models.PairKey, 0, n*(n-1)/2)
	for _, outer := range ids {
		for _, inner := range ids {
			if outer == inner {
				continue
			}
			key := models.NewPairKey(inner, outer)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, key)
		}
	}
	return pairs
}
