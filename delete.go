// Delete removes a contiguous run of logical records.
package table

import "fmt"

// Delete removes the nr records starting at logical position first,
// shifting every later record down by nr. Blocks left empty by the
// deletion are dropped from the index; their physical block numbers are
// not reused, since allocBlock always hands out block P and P never
// decreases.
func (t *Table) Delete(first, nr int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return err
	}
	if first < 0 || nr < 0 || first+nr > t.n {
		return fmt.Errorf("%w: delete(%d,%d): size=%d", ErrOutOfRange, first, nr, t.n)
	}
	if nr == 0 {
		return nil
	}

	if _, err := t.cursor(first); err != nil {
		return err
	}

	if nr == t.n {
		return t.deleteAll()
	}

	last := first + nr
	if last <= t.nextPreCur {
		return t.deleteFast(first, nr)
	}
	return t.deleteSlow(first, nr, last)
}

// deleteFast removes a run that lies entirely within the current block by
// shifting its surviving tail left over the gap.
func (t *Table) deleteFast(first, nr int32) error {
	recSize := t.cfg.RecordSize
	blockRecords := t.nextPreCur - t.firstPreCur
	startOff := int(first-t.firstPreCur) * recSize
	removedBytes := int(nr) * recSize
	tailOff := int(blockRecords) * recSize

	copy(t.buf[startOff:], t.buf[startOff+removedBytes:tailOff])
	clear(t.buf[tailOff-removedBytes : tailOff])
	t.bufDirty = true

	idx := t.curIdx
	t.updatePre(-nr)
	t.indexDirty = true

	if t.firstPreCur == t.nextPreCur && t.l > 1 {
		t.removeSlots(idx, 1)
		return t.selectSlot(min(idx, t.l-1))
	}
	return nil
}

// deleteSlow removes a run spanning more than one block. The block holding
// first keeps its head, the block holding last-1 keeps its tail, and every
// block wholly inside the run is spliced out of the index without ever
// being read.
func (t *Table) deleteSlow(first, nr, last int32) error {
	idx0 := t.curIdx
	headCount := first - t.firstPreCur
	recSize := t.cfg.RecordSize

	clear(t.buf[int(headCount)*recSize:])
	t.bufDirty = true
	if err := t.writeBack(); err != nil {
		return err
	}

	remaining := last - t.nextPreCur
	idx := idx0 + 1
	for idx < t.l && remaining > 0 {
		count := t.blockRecordCount(idx)
		if count > remaining {
			break
		}
		remaining -= count
		idx++
	}
	boundary := idx < t.l && remaining > 0

	if boundary {
		if err := t.loadBlock(t.blockNo[idx]); err != nil {
			return err
		}
		total := t.blockRecordCount(idx)
		tailRecords := total - remaining
		copy(t.buf, t.buf[int(remaining)*recSize:int(total)*recSize])
		clear(t.buf[int(tailRecords)*recSize:])
		t.bufDirty = true
		t.firstPre[idx] = first
		for j := idx + 1; j < t.l; j++ {
			t.firstPre[j] -= nr
		}
	} else {
		for j := idx; j < t.l; j++ {
			t.firstPre[j] -= nr
		}
	}

	dropFrom := idx0
	dropCount := idx - idx0
	if headCount > 0 {
		dropFrom = idx0 + 1
		dropCount = idx - dropFrom
	}
	if dropCount > 0 {
		t.removeSlots(dropFrom, dropCount)
	}

	t.n -= nr
	t.indexDirty = true

	return t.selectSlot(min(dropFrom, t.l-1))
}

// deleteAll resets the table to the canonical empty state: a single empty
// block reusing whatever physical block first currently lives in.
func (t *Table) deleteAll() error {
	clear(t.buf)
	t.bufDirty = true
	t.firstPre = t.firstPre[:1]
	t.blockNo = t.blockNo[:1]
	t.firstPre[0] = 0
	t.blockNo[0] = t.curBlock
	t.l = 1
	t.n = 0
	t.curIdx = 0
	t.firstPreCur = 0
	t.nextPreCur = 0
	t.indexDirty = true
	return nil
}
