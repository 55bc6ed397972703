// Header sidecar: three big-endian int32 counters (P, L, N).
//
// Kept as its own small file so Open/Flush can load or persist it in one
// read/write without pulling in the (potentially large) index sidecar.
package table

import (
	"encoding/binary"
	"fmt"
	"os"
)

// HeaderSize is the fixed on-disk size of the header sidecar in bytes.
const HeaderSize = 12

func loadHeader(f *os.File) (p, l, n int32, err error) {
	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: header: %v", ErrShortRead, err)
	}
	p = int32(binary.BigEndian.Uint32(buf[0:4]))
	l = int32(binary.BigEndian.Uint32(buf[4:8]))
	n = int32(binary.BigEndian.Uint32(buf[8:12]))
	return p, l, n, nil
}

func persistHeader(f *os.File, p, l, n int32) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(p))
	binary.BigEndian.PutUint32(buf[4:8], uint32(l))
	binary.BigEndian.PutUint32(buf[8:12], uint32(n))
	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	return nil
}
