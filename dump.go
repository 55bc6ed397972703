// Diagnostic JSON dump of a table's index geometry, for debugging and
// support bundles. Never used for the on-disk wire format — that is
// fixed-width big-endian binary, defined in header.go and index.go.
package table

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// DumpInfo is the JSON-serializable snapshot returned by Dump.
type DumpInfo struct {
	Blocks        int32  `json:"blocks"`
	Records       int32  `json:"records"`
	RecordsPerBlk int32  `json:"recordsPerBlock"`
	NewEntries    int32  `json:"newEntriesPerSplit"`
	BlockSize     int    `json:"blockSize"`
	RecordSize    int    `json:"recordSize"`
	Slots         []Slot `json:"slots"`
}

// Slot describes one entry of the block index.
type Slot struct {
	FirstPre int32 `json:"firstPre"`
	BlockNo  int32 `json:"blockNo"`
	Records  int32 `json:"records"`
}

// Dump renders the table's current index geometry as an indented JSON
// document. It does not flush pending writes first; call Flush before Dump
// if the report must reflect durable state.
func (t *Table) Dump() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkClosed(); err != nil {
		return "", err
	}

	info := DumpInfo{
		Blocks:        t.l,
		Records:       t.n,
		RecordsPerBlk: t.e,
		NewEntries:    t.newEntries,
		BlockSize:     t.cfg.BlockSize,
		RecordSize:    t.cfg.RecordSize,
		Slots:         make([]Slot, t.l),
	}
	for i := int32(0); i < t.l; i++ {
		info.Slots[i] = Slot{
			FirstPre: t.firstPre[i],
			BlockNo:  t.blockNo[i],
			Records:  t.blockRecordCount(i),
		}
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}
	return string(out), nil
}
