// Point read/write primitives for fixed-width big-endian fields.
package table

import "fmt"

// Read1 reads an unsigned 8-bit field at byte offset off within record pre.
func (t *Table) Read1(pre int32, off int) (uint32, error) {
	v, err := t.readK(pre, off, 1)
	return uint32(v), err
}

// Read2 reads a big-endian 16-bit field.
func (t *Table) Read2(pre int32, off int) (uint32, error) {
	v, err := t.readK(pre, off, 2)
	return uint32(v), err
}

// Read4 reads a big-endian 32-bit field.
func (t *Table) Read4(pre int32, off int) (uint32, error) {
	v, err := t.readK(pre, off, 4)
	return uint32(v), err
}

// Read5 reads a big-endian 40-bit field, the "long" variant.
func (t *Table) Read5(pre int32, off int) (uint64, error) {
	return t.readK(pre, off, 5)
}

// Write1 stores an unsigned 8-bit field at byte offset off within record pre.
func (t *Table) Write1(pre int32, off int, v uint32) error {
	return t.writeK(pre, off, 1, uint64(v))
}

// Write2 stores a big-endian 16-bit field.
func (t *Table) Write2(pre int32, off int, v uint32) error {
	return t.writeK(pre, off, 2, uint64(v))
}

// Write4 stores a big-endian 32-bit field.
func (t *Table) Write4(pre int32, off int, v uint32) error {
	return t.writeK(pre, off, 4, uint64(v))
}

// Write5 stores a big-endian 40-bit field, the "long" variant.
func (t *Table) Write5(pre int32, off int, v uint64) error {
	return t.writeK(pre, off, 5, v)
}

func (t *Table) checkOffset(off, k int) error {
	if off < 0 || off+k > t.cfg.RecordSize {
		return fmt.Errorf("%w: offset %d, width %d, record size %d", ErrOutOfRange, off, k, t.cfg.RecordSize)
	}
	return nil
}

func (t *Table) readK(pre int32, off, k int) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return 0, err
	}
	if err := t.checkOffset(off, k); err != nil {
		return 0, err
	}

	byteOff, err := t.cursor(pre)
	if err != nil {
		return 0, err
	}

	pos := int(byteOff) + off
	var v uint64
	for i := 0; i < k; i++ {
		v = v<<8 | uint64(t.buf[pos+i])
	}
	return v, nil
}

func (t *Table) writeK(pre int32, off, k int, v uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return err
	}
	if err := t.checkOffset(off, k); err != nil {
		return err
	}

	byteOff, err := t.cursor(pre)
	if err != nil {
		return err
	}

	pos := int(byteOff) + off
	for i := k - 1; i >= 0; i-- {
		t.buf[pos+i] = byte(v)
		v >>= 8
	}
	t.bufDirty = true
	return nil
}
