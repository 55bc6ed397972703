// Sentinel errors returned by table operations.
package table

import "errors"

var (
	// ErrOutOfRange is returned when pre, off, first, or nr fall outside
	// their valid bounds for the current table size or record layout.
	ErrOutOfRange = errors.New("position or offset out of range")

	// ErrMisalignedPayload is returned when an Insert payload's length is
	// not a multiple of the configured record size.
	ErrMisalignedPayload = errors.New("payload length is not a multiple of the record size")

	// ErrCorruptIndex is returned when the block index cannot locate a
	// slot that must exist. This indicates internal corruption; the
	// table does not attempt recovery.
	ErrCorruptIndex = errors.New("block index is corrupt")

	// ErrShortRead is returned when a sidecar or block read returns fewer
	// bytes than expected.
	ErrShortRead = errors.New("short read from storage")

	// ErrClosed is returned when operating on a closed table.
	ErrClosed = errors.New("table is closed")

	// ErrLocked is returned when the advisory file lock cannot be
	// acquired, e.g. another process already has the database open.
	ErrLocked = errors.New("database is locked by another process")

	// ErrChecksumMismatch is returned by VerifyBlock when a block's
	// content no longer matches the fingerprint recorded at its last
	// writeBack.
	ErrChecksumMismatch = errors.New("block checksum mismatch")

	// ErrInvalidConfig is returned by Open when Config's geometry is
	// internally inconsistent (non-power-of-two sizes, bad fill factor).
	ErrInvalidConfig = errors.New("invalid configuration")
)
