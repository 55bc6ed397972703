// Cursor: locating the block that holds a logical position.
package table

import "fmt"

// cursor positions the buffer on the block containing pre and returns the
// byte offset of pre's record within that block. pre must be in [0, N).
func (t *Table) cursor(pre int32) (int64, error) {
	if pre < 0 || pre >= t.n {
		return 0, fmt.Errorf("%w: cursor(%d): size=%d", ErrOutOfRange, pre, t.n)
	}

	if pre >= t.firstPreCur && pre < t.nextPreCur {
		return int64(pre-t.firstPreCur) * int64(t.cfg.RecordSize), nil
	}

	lo, hi := int32(0), t.l-1
	mid := t.curIdx
	for lo <= hi {
		if mid < lo {
			mid = lo
		} else if mid > hi {
			mid = hi
		}

		start := t.firstPre[mid]
		var next int32
		if mid == t.l-1 {
			next = t.n
		} else {
			next = t.firstPre[mid+1]
		}

		switch {
		case pre < start:
			hi = mid - 1
		case pre >= next:
			lo = mid + 1
		default:
			if err := t.selectSlot(mid); err != nil {
				return 0, err
			}
			return int64(pre-t.firstPreCur) * int64(t.cfg.RecordSize), nil
		}
		mid = (lo + hi) / 2
	}

	return 0, fmt.Errorf("%w: cursor(%d): L=%d lo=%d hi=%d", ErrCorruptIndex, pre, t.l, lo, hi)
}

// selectSlot makes idx the current slot, refreshing the cached window and
// loading its block if it isn't already buffered.
func (t *Table) selectSlot(idx int32) error {
	if idx < 0 || idx >= t.l {
		return fmt.Errorf("%w: selectSlot(%d): L=%d", ErrCorruptIndex, idx, t.l)
	}
	t.curIdx = idx
	t.firstPreCur = t.firstPre[idx]
	if idx == t.l-1 {
		t.nextPreCur = t.n
	} else {
		t.nextPreCur = t.firstPre[idx+1]
	}
	if t.curBlock != t.blockNo[idx] {
		if err := t.loadBlock(t.blockNo[idx]); err != nil {
			return err
		}
	}
	return nil
}
