package hash

import (
	"errors"
	"fmt"
	"strings"
)

type Algorithm string

const (
	SSDeep Algorithm = "ssdeep"
	LZJD   Algorithm = "lzjd"
)

func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm accepts the CLI spelling of an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case SSDeep:
		return SSDeep, nil
	case LZJD:
		return LZJD, nil
	default:
		return "", fmt.Errorf("unsupported fingerprint algorithm: %s", name)
	}
}

var (
	ErrEmptyInput    = errors.New("cannot fingerprint empty input")
	ErrInvalidDigest = errors.New("invalid fingerprint digest")
)

// DigestError reports a digest that could not be decoded for comparison.
type DigestError struct {
	Algorithm Algorithm
	Digest    string
	Err       error
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("%s: cannot decode digest %q: %v", e.Algorithm, e.Digest, e.Err)
}

func (e *DigestError) Unwrap() error { return e.Err }

// Fingerprinter produces similarity-preserving digests and scores them
// against each other. Compare is symmetric and returns a value in [0, 100].
type Fingerprinter interface {
	Fingerprint(data []byte) (string, error)
	Compare(digest1, digest2 string) (int, error)
	Algorithm() Algorithm
}

func New(algorithm Algorithm) (Fingerprinter, error) {
	switch algorithm {
	case SSDeep:
		return NewSSDeep(), nil
	case LZJD:
		return NewLZJD(DefaultLZJDSize), nil
	default:
		return nil, fmt.Errorf("unsupported fingerprint algorithm: %s", algorithm)
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
