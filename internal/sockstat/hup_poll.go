//go:build linux

package sockstat

import (
	"golang.org/x/sys/unix"
)

// hungup checks the descriptor with a zero-timeout poll. The kernel
// reports hangup and error conditions in revents whether or not they
// were asked for; only those two count, so a failed poll leaves the
// socket counted as alive.
func hungup(fd int) bool {
	pfd := []unix.PollFd{{
		Fd:     int32(fd),
		Events: unix.POLLHUP | unix.POLLIN | unix.POLLOUT | unix.POLLNVAL,
	}}
	if _, err := unix.Poll(pfd, 0); err != nil {
		return false
	}
	return pfd[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0
}
