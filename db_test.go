// Lifecycle tests: Open, Close, reopen durability, and closed-table
// behaviour. Together with insert_test.go and delete_test.go these form
// the functional specification of the engine — if one of these breaks, a
// fundamental guarantee has been broken.
package table

import (
	"encoding/json"
	"errors"
	"testing"
)

// smallConfig uses a tiny geometry (4 records per block, 2 per fresh
// split) so tests can drive the fast/slow path boundary with a handful of
// records instead of thousands.
func smallConfig() Config {
	return Config{BlockSize: 4, RecordSize: 1, FillFactor: 0.5}
}

// openTestTable creates a fresh table in a temporary directory and
// registers cleanup to close it when the test finishes.
func openTestTable(t *testing.T, cfg Config) *Table {
	t.Helper()
	dir := t.TempDir()
	tbl, err := Open(dir, "data", cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func TestOpenCreatesEmptyTable(t *testing.T) {
	tbl := openTestTable(t, smallConfig())
	if got := tbl.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
	if got := tbl.Blocks(); got != 1 {
		t.Errorf("Blocks() = %d, want 1 (the canonical empty block)", got)
	}
}

func TestReopenPersistsData(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()

	tbl1, err := Open(dir, "data", cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := tbl1.Insert(-1, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tbl2, err := Open(dir, "data", cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tbl2.Close()

	if got := tbl2.Size(); got != 3 {
		t.Fatalf("Size() after reopen = %d, want 3", got)
	}
	for pre, want := range []uint32{1, 2, 3} {
		got, err := tbl2.Read1(int32(pre), 0)
		if err != nil {
			t.Fatalf("Read1(%d): %v", pre, err)
		}
		if got != want {
			t.Errorf("Read1(%d) = %d, want %d", pre, got, want)
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(dir, "data", smallConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestClosedTableRejectsOperations(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(dir, "data", smallConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := tbl.Read1(0, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Read1 after Close: got %v, want ErrClosed", err)
	}
	if err := tbl.Insert(-1, []byte{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close: got %v, want ErrClosed", err)
	}
	if err := tbl.Delete(0, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete after Close: got %v, want ErrClosed", err)
	}
}

func TestSecondOpenIsLocked(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Open(dir, "data", smallConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tbl.Close()

	if _, err := Open(dir, "data", smallConfig()); !errors.Is(err, ErrLocked) {
		t.Errorf("second Open: got %v, want ErrLocked", err)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir, "data", Config{BlockSize: 10, RecordSize: 3})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Open with bad config: got %v, want ErrInvalidConfig", err)
	}
}

func TestDumpReflectsGeometry(t *testing.T) {
	tbl := openTestTable(t, smallConfig())
	if err := tbl.Insert(-1, []byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	out, err := tbl.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if out == "" {
		t.Fatal("Dump returned empty string")
	}

	var info DumpInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("Dump output is not valid JSON: %v", err)
	}
	if info.BlockSize != 4 || info.RecordSize != 1 || info.RecordsPerBlk != 4 || info.NewEntries != 2 {
		t.Errorf("Dump geometry = %+v, want blockSize 4, recordSize 1, recordsPerBlock 4, newEntriesPerSplit 2", info)
	}
	if info.Records != 5 {
		t.Errorf("Dump records = %d, want 5", info.Records)
	}
}
