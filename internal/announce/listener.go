package announce

import (
	"context"
	"distkv-transport/internal/logger"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// HandlerFunc is called for every announcement that verifies.
type HandlerFunc func(m Message, remoteAddr *net.UDPAddr)

// Listener receives announcement datagrams on a shared UDP port.
type Listener struct {
	mu   sync.Mutex
	log  *logger.Logger
	conn *net.UDPConn

	isRunning bool
	stopChan  chan struct{}
}

func NewListener(log *logger.Logger) *Listener {
	return &Listener{
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// reusePort configures the announce socket so several nodes on one host
// can share the port.
func reusePort(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if opErr != nil {
			return
		}
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}

// Start binds listenPort and begins dispatching verified announcements
// to handler. Port 0 binds an ephemeral port, see LocalPort.
func (l *Listener) Start(listenPort uint16, handler HandlerFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isRunning {
		return fmt.Errorf("announce listener already running")
	}

	lc := net.ListenConfig{Control: reusePort}
	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", listenPort))
	if err != nil {
		return fmt.Errorf("bind announce port %d: %w", listenPort, err)
	}

	udpConn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return fmt.Errorf("unexpected packet conn type %T", pc)
	}

	l.conn = udpConn
	l.isRunning = true

	go l.receiveLoop(udpConn, handler)

	l.log.Info("[announce] listening on %s", udpConn.LocalAddr())
	return nil
}

func (l *Listener) receiveLoop(conn *net.UDPConn, handler HandlerFunc) {
	buf := make([]byte, MaxDatagramSize)
	for {
		select {
		case <-l.stopChan:
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
		n, remoteAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}

		m, err := Unmarshal(buf[:n])
		if err != nil {
			l.log.Debug("[announce] dropping datagram from %s: %v", remoteAddr, err)
			continue
		}
		handler(m, remoteAddr)
	}
}

// LocalPort returns the bound UDP port.
func (l *Listener) LocalPort() uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return 0
	}
	return uint16(l.conn.LocalAddr().(*net.UDPAddr).Port)
}

// Stop closes the socket and terminates the receive loop.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.isRunning {
		l.mu.Unlock()
		return
	}
	l.isRunning = false
	if l.conn != nil {
		_ = l.conn.Close()
	}
	l.mu.Unlock()

	close(l.stopChan)
	l.log.Info("[announce] stopped")
}
