//go:build unix && !linux

package sockstat

import (
	"golang.org/x/sys/unix"
)

// hungup checks the descriptor with a zero-timeout select followed by a
// pending-error query. Unlike the poll strategy, a failing select or
// getsockopt counts as hung up.
func hungup(fd int) bool {
	var readfds, writefds, errorfds unix.FdSet
	readfds.Set(fd)
	writefds.Set(fd)
	errorfds.Set(fd)

	tv := unix.Timeval{}
	if _, err := unix.Select(fd+1, &readfds, &writefds, &errorfds, &tv); err != nil {
		return true
	}
	if errorfds.IsSet(fd) {
		return true
	}

	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil || soErr != 0 {
		return true
	}
	return false
}
