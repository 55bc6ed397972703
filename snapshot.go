// Compressed backup export/import for a whole table: data file, index
// sidecar, and header sidecar concatenated and Zstd-compressed into one
// portable file.
package table

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// snapshotMagic identifies a snapshot file produced by Snapshot.
const snapshotMagic = "BTSNAP01"

// Snapshot writes a compressed backup of the table's data file, block
// index, and header to path, flushing pending writes first. The table
// remains open and usable afterwards.
func (t *Table) Snapshot(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return err
	}
	if err := t.flush(); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer enc.Close()

	if _, err := enc.Write([]byte(snapshotMagic)); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	for _, name := range []string{t.prefix, t.indexName, t.headerName} {
		if err := writeSection(enc, t.root, name); err != nil {
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
	}
	return nil
}

func writeSection(w io.Writer, root *os.Root, name string) error {
	f, err := root.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(info.Size()))
	if _, err := w.Write(size[:]); err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// RestoreSnapshot recreates the three files of a table under dbName/prefix
// from a backup written by Snapshot. The destination must not already
// contain a table; callers open it normally with Open afterwards.
func RestoreSnapshot(path, dbName, prefix string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer dec.Close()

	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(dec, magic); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if string(magic) != snapshotMagic {
		return fmt.Errorf("restore: %w: bad snapshot magic", ErrCorruptIndex)
	}

	if err := os.MkdirAll(dbName, 0o755); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	root, err := os.OpenRoot(dbName)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer root.Close()

	for _, name := range []string{prefix, prefix + "x", prefix + "i"} {
		if err := readSection(dec, root, name); err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
	}
	return nil
}

func readSection(r io.Reader, root *os.Root, name string) error {
	var size [8]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint64(size[:])

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.CopyN(f, r, int64(n))
	return err
}
