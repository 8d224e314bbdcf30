package models

import (
	"time"
)

type BatchStatus string

const (
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusNoFiles   BatchStatus = "no_files"
	BatchStatusFailed    BatchStatus = "failed"
)

func (s BatchStatus) String() string {
	return string(s)
}

// StatsSummary is a snapshot of the score statistics of one batch. The mean
// and deviation fields are only meaningful when the matching count is > 0.
type StatsSummary struct {
	Count         int     `json:"count"`
	Zeroes        int     `json:"zeroes"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	NonZeroCount  int     `json:"non_zero_count"`
	NonZeroMean   float64 `json:"non_zero_mean"`
	NonZeroStdDev float64 `json:"non_zero_std_dev"`
}

type BatchReport struct {
	ID          string            `json:"id"`
	Dir         string            `json:"dir"`
	Algorithm   string            `json:"algorithm"`
	Extensions  []string          `json:"extensions,omitempty"`
	Status      BatchStatus       `json:"status"`
	Submissions int               `json:"submissions"`
	Pairs       map[PairKey]Score `json:"-"`
	Skipped     int               `json:"skipped"`
	Stats       StatsSummary      `json:"stats"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Filtered reports whether an extension filter limited the files read.
func (r *BatchReport) Filtered() bool {
	return len(r.Extensions) > 0
}
