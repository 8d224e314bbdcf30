package hash

import (
	"strings"
	"sync"

	"github.com/glaslos/ssdeep"
)

// spamsumLength is the maximum length of each hash part of a digest.
const spamsumLength = 64

var forceSmallInputs sync.Once

// SSDeepHasher wraps the context-triggered piecewise hash. It suits text and
// source code, where edits keep most chunk boundaries in place.
type SSDeepHasher struct{}

func NewSSDeep() *SSDeepHasher {
	// Submissions are frequently smaller than the library's 4 KiB floor.
	forceSmallInputs.Do(func() { ssdeep.Force = true })
	return &SSDeepHasher{}
}

func (h *SSDeepHasher) Algorithm() Algorithm {
	return SSDeep
}

func (h *SSDeepHasher) Fingerprint(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyInput
	}

	digest, err := ssdeep.FuzzyBytes(data)
	if err != nil {
		return "", err
	}
	return digest, nil
}

func (h *SSDeepHasher) Compare(digest1, digest2 string) (int, error) {
	for _, d := range []string{digest1, digest2} {
		if err := validateSSDeep(d); err != nil {
			return 0, &DigestError{Algorithm: SSDeep, Digest: d, Err: err}
		}
	}

	if digest1 == digest2 {
		return 100, nil
	}

	// The library is not guaranteed to be order independent.
	if digest2 < digest1 {
		digest1, digest2 = digest2, digest1
	}

	score, err := ssdeep.Distance(digest1, digest2)
	if err != nil {
		return 0, &DigestError{Algorithm: SSDeep, Digest: digest1 + " / " + digest2, Err: err}
	}
	return clampScore(score), nil
}

// validateSSDeep checks the blocksize:hash1:hash2 layout. Longer hash parts
// overflow the library's comparison buffers.
func validateSSDeep(digest string) error {
	parts := strings.Split(digest, ":")
	if len(parts) != 3 || parts[0] == "" {
		return ErrInvalidDigest
	}
	if len(parts[1]) > spamsumLength || len(parts[2]) > spamsumLength {
		return ErrInvalidDigest
	}
	for _, c := range parts[0] {
		if c < '0' || c > '9' {
			return ErrInvalidDigest
		}
	}
	return nil
}
