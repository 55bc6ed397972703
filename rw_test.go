// Fixed-width field read/write round trips and offset bounds checking.
package table

import (
	"errors"
	"testing"
)

func wideConfig() Config {
	// 8-byte records so all of Read1/2/4/5 have room at different offsets.
	return Config{BlockSize: 16, RecordSize: 8}
}

func TestReadWriteRoundTrip(t *testing.T) {
	tbl := openTestTable(t, wideConfig())
	if err := tbl.Insert(-1, make([]byte, 16)); err != nil { // 2 records
		t.Fatalf("Insert: %v", err)
	}

	if err := tbl.Write1(0, 0, 0xAB); err != nil {
		t.Fatalf("Write1: %v", err)
	}
	if err := tbl.Write2(0, 1, 0xBEEF); err != nil {
		t.Fatalf("Write2: %v", err)
	}
	if err := tbl.Write4(0, 3, 0xDEADBEEF); err != nil {
		t.Fatalf("Write4: %v", err)
	}
	if err := tbl.Write5(1, 0, 0x0102030405); err != nil {
		t.Fatalf("Write5: %v", err)
	}

	if v, err := tbl.Read1(0, 0); err != nil || v != 0xAB {
		t.Errorf("Read1 = %#x, %v, want 0xAB, nil", v, err)
	}
	if v, err := tbl.Read2(0, 1); err != nil || v != 0xBEEF {
		t.Errorf("Read2 = %#x, %v, want 0xBEEF, nil", v, err)
	}
	if v, err := tbl.Read4(0, 3); err != nil || v != 0xDEADBEEF {
		t.Errorf("Read4 = %#x, %v, want 0xDEADBEEF, nil", v, err)
	}
	if v, err := tbl.Read5(1, 0); err != nil || v != 0x0102030405 {
		t.Errorf("Read5 = %#x, %v, want 0x0102030405, nil", v, err)
	}
}

func TestReadWriteRejectsOffsetOutOfRange(t *testing.T) {
	tbl := openTestTable(t, wideConfig())
	if err := tbl.Insert(-1, make([]byte, 8)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := tbl.Read4(0, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Read4 past record end: got %v, want ErrOutOfRange", err)
	}
	if err := tbl.Write1(0, -1, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Write1 with negative offset: got %v, want ErrOutOfRange", err)
	}
}

func TestReadRejectsOutOfRangePre(t *testing.T) {
	tbl := openTestTable(t, wideConfig())
	if _, err := tbl.Read1(0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Read1 on empty table: got %v, want ErrOutOfRange", err)
	}
}
