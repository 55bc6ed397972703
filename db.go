// Package table implements a paged, mutable, persistent storage engine for
// a dense array of fixed-size records addressed by zero-based logical
// position — the pre-order index of a node in an XML document tree.
//
// A Table owns three files exclusively for its lifetime: a data file of
// fixed-size blocks, a block-index sidecar mapping logical position ranges
// to physical block numbers, and a header sidecar holding block/index/
// record counts. All access goes through a single block-sized buffer;
// Insert and Delete split or compact blocks in place, keeping per-block
// fill factors bounded so later inserts tend to land in the fast path
// instead of triggering another split. At most one writer uses a Table at
// a time; every public method takes Table.mu for its whole duration.
package table

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

type lifecycleState int32

const (
	stateOpen lifecycleState = iota
	stateClosed
)

// Table is an open paged storage engine backed by a data file plus index
// and header sidecars. It is safe for use by a single goroutine at a time
// per the single-exclusive-lock concurrency model in spec §5; callers that
// share a Table across goroutines rely on Table.mu, not on any
// per-operation read/write distinction.
type Table struct {
	mu    sync.Mutex
	state atomic.Int32

	root       *os.Root
	prefix     string
	indexName  string
	headerName string
	dataFile   *os.File
	lock       *fileLock

	cfg        Config
	e          int32 // max records per block (BlockSize / RecordSize)
	newEntries int32 // records placed in a fresh split block (floor(FillFactor * E), at least 1)

	// Header counters.
	p int32 // physical blocks ever allocated
	l int32 // used index slots
	n int32 // logical record count

	// Block index.
	firstPre []int32
	blockNo  []int32

	// Buffer and cursor state.
	buf         []byte
	curBlock    int32
	bufDirty    bool
	indexDirty  bool
	curIdx      int32
	firstPreCur int32
	nextPreCur  int32

	// Ephemeral, in-memory fingerprints used by VerifyBlock; never
	// persisted, discarded on Close.
	checksums map[int32]uint64
}

// Open opens or creates a table rooted at directory dbName, using prefix
// as the base name for its three files: prefix (data), prefix+"x" (block
// index), prefix+"i" (header). The returned Table holds an exclusive
// advisory lock on the data file until Close.
func Open(dbName, prefix string, cfg Config) (*Table, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dbName, 0o755); err != nil {
		return nil, fmt.Errorf("open %s: %w", dbName, err)
	}
	root, err := os.OpenRoot(dbName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbName, err)
	}

	_, statErr := root.Stat(prefix)
	fresh := os.IsNotExist(statErr)

	dataFile, err := root.OpenFile(prefix, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		root.Close()
		return nil, fmt.Errorf("open data file %s: %w", prefix, err)
	}

	e := int32(cfg.BlockSize / cfg.RecordSize)
	t := &Table{
		root:       root,
		prefix:     prefix,
		indexName:  prefix + "x",
		headerName: prefix + "i",
		dataFile:   dataFile,
		cfg:        cfg,
		e:          e,
		newEntries: max(1, int32(float64(e)*cfg.FillFactor)),
		buf:        make([]byte, cfg.BlockSize),
		curBlock:   -1,
		checksums:  make(map[int32]uint64),
	}
	t.lock = &fileLock{f: dataFile}

	if err := t.lock.Lock(LockExclusive); err != nil {
		dataFile.Close()
		root.Close()
		return nil, fmt.Errorf("%w: %v", ErrLocked, err)
	}

	if fresh {
		err = t.initEmpty()
	} else {
		err = t.loadExisting()
	}
	if err != nil {
		t.lock.Unlock()
		dataFile.Close()
		root.Close()
		return nil, err
	}

	if err := t.selectSlot(0); err != nil {
		t.lock.Unlock()
		dataFile.Close()
		root.Close()
		return nil, err
	}

	t.state.Store(int32(stateOpen))
	return t, nil
}

// initEmpty sets up a brand new table: a single physical block (zeroed,
// already matching the buffer so it is not dirty), one index slot
// (firstPre=[0], blockNo=[0]), and N=0. L is kept at 1 rather than 0 for
// the empty table — see DESIGN.md's Open Question decision.
func (t *Table) initEmpty() error {
	if _, err := t.dataFile.WriteAt(t.buf, 0); err != nil {
		return fmt.Errorf("initialize data file: %w", err)
	}
	if t.cfg.SyncWrites {
		if err := t.dataFile.Sync(); err != nil {
			return fmt.Errorf("initialize data file: %w", err)
		}
	}

	t.p = 1
	t.l = 1
	t.n = 0
	t.firstPre = []int32{0}
	t.blockNo = []int32{0}
	t.indexDirty = true
	return t.flushIndex()
}

func (t *Table) loadExisting() error {
	headerFile, err := t.root.OpenFile(t.headerName, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open header sidecar: %w", err)
	}
	defer headerFile.Close()

	p, l, n, err := loadHeader(headerFile)
	if err != nil {
		return err
	}

	indexFile, err := t.root.OpenFile(t.indexName, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open index sidecar: %w", err)
	}
	defer indexFile.Close()

	firstPre, blockNo, err := loadIndex(indexFile, l, t.cfg.ReadBuffer)
	if err != nil {
		return err
	}
	if l > 0 && firstPre[0] != 0 {
		return fmt.Errorf("%w: firstPre[0]=%d, want 0", ErrCorruptIndex, firstPre[0])
	}

	t.p, t.l, t.n = p, l, n
	t.firstPre, t.blockNo = firstPre, blockNo
	return nil
}

// flushIndex persists the block index and header sidecars unconditionally.
func (t *Table) flushIndex() error {
	indexFile, err := t.root.OpenFile(t.indexName, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open index sidecar: %w", err)
	}
	defer indexFile.Close()
	if err := persistIndex(indexFile, t.firstPre, t.blockNo); err != nil {
		return err
	}
	if t.cfg.SyncWrites {
		if err := indexFile.Sync(); err != nil {
			return fmt.Errorf("sync index sidecar: %w", err)
		}
	}

	headerFile, err := t.root.OpenFile(t.headerName, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open header sidecar: %w", err)
	}
	defer headerFile.Close()
	if err := persistHeader(headerFile, t.p, t.l, t.n); err != nil {
		return err
	}
	if t.cfg.SyncWrites {
		if err := headerFile.Sync(); err != nil {
			return fmt.Errorf("sync header sidecar: %w", err)
		}
	}

	t.indexDirty = false
	return nil
}

// Flush writes back the buffer if dirty, then persists the block index and
// header sidecars if dirty.
func (t *Table) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush()
}

func (t *Table) flush() error {
	if err := t.checkClosed(); err != nil {
		return err
	}
	if err := t.writeBack(); err != nil {
		return err
	}
	if t.indexDirty {
		return t.flushIndex()
	}
	return nil
}

// Close flushes pending state, releases the advisory lock, and closes the
// underlying data file handle. Close is idempotent; calling it twice is a
// no-op after the first successful call.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Load() == int32(stateClosed) {
		return nil
	}

	flushErr := t.flush()
	t.state.Store(int32(stateClosed))

	unlockErr := t.lock.Unlock()
	closeErr := t.dataFile.Close()
	rootErr := t.root.Close()

	for _, err := range []error{flushErr, unlockErr, closeErr, rootErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Size returns N, the total number of logical records.
func (t *Table) Size() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Blocks returns L, the number of used index slots (live blocks).
func (t *Table) Blocks() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.l
}

func (t *Table) checkClosed() error {
	if t.state.Load() == int32(stateClosed) {
		return ErrClosed
	}
	return nil
}

// updatePre applies a net change of delta records (positive for insert,
// negative for delete) to every firstPre entry after curIdx, to N, and
// refreshes nextPreCur from the already-updated state.
func (t *Table) updatePre(delta int32) {
	for j := t.curIdx + 1; j < t.l; j++ {
		t.firstPre[j] += delta
	}
	t.n += delta
	if t.curIdx == t.l-1 {
		t.nextPreCur = t.n
	} else {
		t.nextPreCur = t.firstPre[t.curIdx+1]
	}
}
