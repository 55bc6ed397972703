//go:build unix || linux || darwin

// flock(2) implementation for Unix platforms.
// Both methods are called with l.mu held by the exported Lock/Unlock.
package table

import "syscall"

func (l *fileLock) lock(mode LockMode) error {
	op := syscall.LOCK_SH | syscall.LOCK_NB
	if mode == LockExclusive {
		op = syscall.LOCK_EX | syscall.LOCK_NB
	}
	// Non-blocking: Open must fail fast with ErrLocked rather than stall
	// a process behind whoever already holds the table.
	return syscall.Flock(int(l.f.Fd()), op)
}

func (l *fileLock) unlock() error {
	return syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
}
