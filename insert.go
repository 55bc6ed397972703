// Insert adds a contiguous run of records after a given logical position.
package table

import "fmt"

// Insert splices payload, a whole number of records, into the table
// immediately after logical position pre. Passing pre == -1 inserts the
// payload at the very front of the table. N grows by len(payload) /
// RecordSize records; every existing record at or after pre+1 shifts up
// by that many positions.
func (t *Table) Insert(pre int32, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return err
	}

	recSize := t.cfg.RecordSize
	if len(payload)%recSize != 0 {
		return ErrMisalignedPayload
	}
	nr := int32(len(payload) / recSize)
	if nr == 0 {
		return nil
	}
	if pre < -1 || pre >= t.n {
		return fmt.Errorf("%w: insert(%d): size=%d", ErrOutOfRange, pre, t.n)
	}

	if pre == -1 {
		if err := t.selectSlot(0); err != nil {
			return err
		}
	} else if _, err := t.cursor(pre); err != nil {
		return err
	}

	insertAt := pre + 1
	capacity := t.e - (t.nextPreCur - t.firstPreCur)
	if nr <= capacity {
		return t.insertFast(insertAt, payload)
	}
	return t.insertSlow(insertAt, payload, nr)
}

// insertFast handles payloads that fit in the current block's spare
// capacity by shifting its tail right over the gap.
func (t *Table) insertFast(insertAt int32, payload []byte) error {
	recSize := t.cfg.RecordSize
	nr := int32(len(payload) / recSize)
	blockRecords := t.nextPreCur - t.firstPreCur
	off := int(insertAt-t.firstPreCur) * recSize
	tailOff := int(blockRecords) * recSize
	shift := len(payload)

	copy(t.buf[off+shift:tailOff+shift], t.buf[off:tailOff])
	copy(t.buf[off:off+shift], payload)
	t.bufDirty = true

	t.updatePre(nr)
	t.indexDirty = true
	return nil
}

// insertSlow handles payloads that overflow the current block's capacity.
// If insertAt falls strictly inside the current block, the records before
// it are kept as a head block in place; if insertAt falls at the very
// front of the block there is no head to keep, so the block is dropped
// outright rather than left behind as a permanently empty slot — the same
// asymmetry deleteFast resolves by pruning an emptied block. Symmetrically,
// a tail block is only created when records actually follow insertAt in
// the original block. The payload is spread across freshly allocated
// blocks of up to newEntries records each so later inserts near this point
// have room to take the fast path again before triggering another split,
// and any surviving tail goes whole into one more block; the first such
// block reuses the
// original block's number when that block was dropped, so a "prepend more
// than fits" insert never leaks a block the way a fresh allocation would.
func (t *Table) insertSlow(insertAt int32, payload []byte, nr int32) error {
	recSize := t.cfg.RecordSize
	idx := t.curIdx
	blockRecords := t.nextPreCur - t.firstPreCur
	splitOffset := insertAt - t.firstPreCur
	tailCount := blockRecords - splitOffset
	hasHead := splitOffset > 0
	hasTail := tailCount > 0

	tailBytes := make([]byte, int(tailCount)*recSize)
	copy(tailBytes, t.buf[int(splitOffset)*recSize:int(blockRecords)*recSize])

	reuseBlockNo := t.curBlock
	insertPos := idx + 1
	if hasHead {
		clear(t.buf[int(splitOffset)*recSize:])
		t.bufDirty = true
		if err := t.writeBack(); err != nil {
			return err
		}
	} else {
		t.removeSlots(idx, 1)
		insertPos = idx
	}

	payloadBlocks := (nr + t.newEntries - 1) / t.newEntries
	newSlots := payloadBlocks
	if hasTail {
		newSlots++
	}
	t.insertSlots(insertPos, newSlots)

	reused := false
	nextBlock := func() (int32, error) {
		if !hasHead && !reused {
			reused = true
			t.curBlock = reuseBlockNo
			clear(t.buf)
			return reuseBlockNo, nil
		}
		return t.allocBlock()
	}

	slot := insertPos
	pos := int32(0)
	for pos < nr {
		n := min(t.newEntries, nr-pos)
		blockNo, err := nextBlock()
		if err != nil {
			return err
		}
		copy(t.buf, payload[int(pos)*recSize:int(pos+n)*recSize])
		t.bufDirty = true
		t.firstPre[slot] = insertAt + pos
		t.blockNo[slot] = blockNo
		pos += n
		slot++
	}

	if hasTail {
		blockNo, err := nextBlock()
		if err != nil {
			return err
		}
		copy(t.buf, tailBytes)
		t.bufDirty = true
		t.firstPre[slot] = insertAt + nr
		t.blockNo[slot] = blockNo
		slot++
	}

	t.n += nr
	for j := slot; j < t.l; j++ {
		t.firstPre[j] += nr
	}
	t.indexDirty = true

	return t.selectSlot(slot - 1)
}
