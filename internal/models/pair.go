package models

import "fmt"

// Score is a similarity percentage in [0, 100].
type Score int

// PairKey is an unordered pair of distinct submissions. NewPairKey orders the
// members so that {A,B} and {B,A} produce the same key.
type PairKey struct {
	A SubmissionID
	B SubmissionID
}

func NewPairKey(x, y SubmissionID) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{A: x, B: y}
}

func (k PairKey) String() string {
	return fmt.Sprintf("%s vs %s", k.A, k.B)
}

type PairScore struct {
	Key   PairKey `json:"key"`
	Score Score   `json:"score"`
}
