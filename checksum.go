// Block checksums, used by VerifyBlock and by optional load-time
// verification: they are never persisted, and are forgotten on Close.
package table

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// ChecksumAlgorithm selects the fingerprint used by VerifyBlock and, when
// Config.VerifyOnLoad is set, by loadBlock.
type ChecksumAlgorithm int

// Checksum algorithm constants.
const (
	ChecksumXXH3    ChecksumAlgorithm = iota // default, fastest
	ChecksumFNV1a                            // no external dependencies
	ChecksumBlake2b                          // best distribution
)

func checksum(data []byte, alg ChecksumAlgorithm) uint64 {
	switch alg {
	case ChecksumFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return h.Sum64()
	case ChecksumBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		sum := h.Sum(nil)
		var v uint64
		for _, b := range sum {
			v = v<<8 | uint64(b)
		}
		return v
	default:
		return xxh3.Hash(data)
	}
}

// VerifyBlock recomputes the checksum of the block holding pre and compares
// it against the fingerprint recorded the last time that block was written
// back. It reports false, with no error, if pre's block has never been
// written back this session and so has no recorded fingerprint yet.
func (t *Table) VerifyBlock(pre int32) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return false, err
	}

	if _, err := t.cursor(pre); err != nil {
		return false, err
	}

	want, ok := t.checksums[t.curBlock]
	if !ok {
		return false, nil
	}
	got := checksum(t.buf, t.cfg.ChecksumAlgorithm)
	if got != want {
		return false, fmt.Errorf("%w: block %d", ErrChecksumMismatch, t.curBlock)
	}
	return true, nil
}
