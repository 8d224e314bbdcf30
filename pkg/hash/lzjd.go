package hash

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/spaolacci/murmur3"
)

// DefaultLZJDSize is the number of minimum phrase hashes kept per digest.
const DefaultLZJDSize = 1024

// LZJDHasher implements Lempel-Ziv Jaccard Distance. The input is split into
// LZ77-style phrases, each phrase is hashed with murmur3, and the k smallest
// hashes form the digest. It does not assume any text structure, which makes
// it the better fit for PDF and office documents.
type LZJDHasher struct {
	size int
}

func NewLZJD(size int) *LZJDHasher {
	if size <= 0 {
		size = DefaultLZJDSize
	}
	return &LZJDHasher{size: size}
}

func (h *LZJDHasher) Algorithm() Algorithm {
	return LZJD
}

func (h *LZJDHasher) Fingerprint(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyInput
	}
	return EncodeLZJD(h.dictionary(data)), nil
}

func (h *LZJDHasher) Compare(digest1, digest2 string) (int, error) {
	a, err := DecodeLZJD(digest1)
	if err != nil {
		return 0, &DigestError{Algorithm: LZJD, Digest: digest1, Err: err}
	}
	b, err := DecodeLZJD(digest2)
	if err != nil {
		return 0, &DigestError{Algorithm: LZJD, Digest: digest2, Err: err}
	}
	return clampScore(int(jaccard(a, b) * 100)), nil
}

// dictionary returns the sorted, de-duplicated k smallest phrase hashes.
func (h *LZJDHasher) dictionary(data []byte) []uint32 {
	seen := make(map[uint32]struct{})
	hasher := murmur3.New32()

	for _, b := range data {
		hasher.Write([]byte{b})
		sum := hasher.Sum32()
		if _, ok := seen[sum]; ok {
			continue
		}
		seen[sum] = struct{}{}
		hasher.Reset()
	}

	hashes := make([]uint32, 0, len(seen))
	for sum := range seen {
		hashes = append(hashes, sum)
	}
	slices.Sort(hashes)
	if len(hashes) > h.size {
		hashes = hashes[:h.size]
	}
	return hashes
}

// EncodeLZJD serializes a sorted hash set as base64 over big-endian uint32s.
func EncodeLZJD(hashes []uint32) string {
	buf := make([]byte, 4*len(hashes))
	for i, v := range hashes {
		binary.BigEndian.PutUint32(buf[i*4:], v)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func DecodeLZJD(digest string) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidDigest, len(raw))
	}

	hashes := make([]uint32, len(raw)/4)
	for i := range hashes {
		hashes[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	if !slices.IsSorted(hashes) {
		slices.Sort(hashes)
	}
	return slices.Compact(hashes), nil
}

// jaccard estimates |A∩B| / |A∪B| from two sorted sets.
func jaccard(a, b []uint32) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	shared := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
