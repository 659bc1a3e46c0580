//go:build unix

// Package sockstat inspects the kernel state of connected sockets
// without blocking.
package sockstat

import (
	"syscall"
)

// HungUp reports whether the peer side of conn is gone: reset, closed,
// or otherwise in an error state. The check is a zero-timeout poll of
// the descriptor; it never blocks, never reads, and never mutates the
// socket, so a healthy socket with unread data pending is not hung up.
//
// A connection that cannot expose its descriptor reports true.
func HungUp(conn syscall.Conn) bool {
	rc, err := conn.SyscallConn()
	if err != nil {
		return true
	}

	hup := true
	if err := rc.Control(func(fd uintptr) {
		hup = hungup(int(fd))
	}); err != nil {
		return true
	}
	return hup
}
