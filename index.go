// Block index sidecar: L pairs of (firstPre, blockNo), both big-endian
// int32, written index 0 first. firstPre is strictly ascending; blockNo
// entries are distinct physical block numbers.
package table

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

func loadIndex(f *os.File, l int32, readBuffer int) ([]int32, []int32, error) {
	firstPre := make([]int32, l)
	blockNo := make([]int32, l)
	if l == 0 {
		return firstPre, blockNo, nil
	}

	r := bufio.NewReaderSize(f, readBuffer)
	var pair [8]byte
	for i := int32(0); i < l; i++ {
		if _, err := io.ReadFull(r, pair[:]); err != nil {
			return nil, nil, fmt.Errorf("%w: index entry %d: %v", ErrShortRead, i, err)
		}
		firstPre[i] = int32(binary.BigEndian.Uint32(pair[0:4]))
		blockNo[i] = int32(binary.BigEndian.Uint32(pair[4:8]))
	}
	return firstPre, blockNo, nil
}

func persistIndex(f *os.File, firstPre, blockNo []int32) error {
	buf := make([]byte, 8*len(firstPre))
	for i := range firstPre {
		binary.BigEndian.PutUint32(buf[i*8:i*8+4], uint32(firstPre[i]))
		binary.BigEndian.PutUint32(buf[i*8+4:i*8+8], uint32(blockNo[i]))
	}
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return f.Truncate(int64(len(buf)))
}

// removeSlots deletes the count entries starting at index start from both
// index arrays, shifting later entries down.
func (t *Table) removeSlots(start, count int32) {
	copy(t.firstPre[start:], t.firstPre[start+count:])
	copy(t.blockNo[start:], t.blockNo[start+count:])
	t.firstPre = t.firstPre[:t.l-count]
	t.blockNo = t.blockNo[:t.l-count]
	t.l -= count
}

// blockRecordCount returns the number of logical records currently mapped
// to index slot idx.
func (t *Table) blockRecordCount(idx int32) int32 {
	if idx == t.l-1 {
		return t.n - t.firstPre[idx]
	}
	return t.firstPre[idx+1] - t.firstPre[idx]
}

// insertSlots opens up count empty entries starting at index at, growing
// both arrays and shifting later entries up. The new entries' values are
// unspecified (zero or stale); the caller fills them in.
func (t *Table) insertSlots(at, count int32) {
	newLen := t.l + count
	if int32(cap(t.firstPre)) < newLen {
		firstPre := make([]int32, newLen)
		blockNo := make([]int32, newLen)
		copy(firstPre, t.firstPre[:at])
		copy(blockNo, t.blockNo[:at])
		copy(firstPre[at+count:], t.firstPre[at:])
		copy(blockNo[at+count:], t.blockNo[at:])
		t.firstPre = firstPre
		t.blockNo = blockNo
	} else {
		t.firstPre = t.firstPre[:newLen]
		t.blockNo = t.blockNo[:newLen]
		copy(t.firstPre[at+count:], t.firstPre[at:t.l])
		copy(t.blockNo[at+count:], t.blockNo[at:t.l])
	}
	t.l = newLen
}
