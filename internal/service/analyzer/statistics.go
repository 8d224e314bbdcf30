package analyzer

import (
	"errors"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"gonum.org/v1/gonum/stat"
)

var ErrEmptyStatistics = errors.New("no scores recorded")

// Statistics accumulates similarity scores and reports count, mean and
// population standard deviation, both over all scores and over the non-zero
// ones alone.
type Statistics struct {
	all     []float64
	nonZero []float64
}

func NewStatistics() *Statistics {
	return &Statistics{}
}

func (s *Statistics) Add(score models.Score) {
	v := float64(score)
	s.all = append(s.all, v)
	if score > 0 {
		s.nonZero = append(s.nonZero, v)
	}
}

func (s *Statistics) Empty() bool {
	return len(s.all) == 0
}

func (s *Statistics) Len() int {
	return len(s.all)
}

func (s *Statistics) LenNonZeroes() int {
	return len(s.nonZero)
}

func (s *Statistics) NumZeroes() int {
	return len(s.all) - len(s.nonZero)
}

func (s *Statistics) Mean() (float64, error) {
	mean, _, err := meanStdDev(s.all)
	return mean, err
}

func (s *Statistics) StdDev() (float64, error) {
	_, std, err := meanStdDev(s.all)
	return std, err
}

func (s *Statistics) MeanNonZeroes() (float64, error) {
	mean, _, err := meanStdDev(s.nonZero)
	return mean, err
}

func (s *Statistics) StdDevNonZeroes() (float64, error) {
	_, std, err := meanStdDev(s.nonZero)
	return std, err
}

// Summary snapshots the accumulator. Undefined means and deviations are
// left at zero with the matching count also zero.
func (s *Statistics) Summary() models.StatsSummary {
	summary := models.StatsSummary{
		Count:        s.Len(),
		Zeroes:       s.NumZeroes(),
		NonZeroCount: s.LenNonZeroes(),
	}
	if mean, std, err := meanStdDev(s.all); err == nil {
		summary.Mean, summary.StdDev = mean, std
	}
	if mean, std, err := meanStdDev(s.nonZero); err == nil {
		summary.NonZeroMean, summary.NonZeroStdDev = mean, std
	}
	return summary
}

func meanStdDev(x []float64) (float64, float64, error) {
	if len(x) == 0 {
		return 0, 0, ErrEmptyStatistics
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	return mean, std, nil
}
