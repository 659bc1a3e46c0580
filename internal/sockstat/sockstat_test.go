//go:build unix

package sockstat

import (
	"net"
	"testing"
	"time"
)

// newLoopbackPair returns a connected client and server conn on the
// loopback interface.
func newLoopbackPair(t *testing.T) (client, server *net.TCPConn) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan struct{})
	var srv net.Conn
	var srvErr error
	go func() {
		srv, srvErr = ln.Accept()
		close(accepted)
	}()

	cli, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	<-accepted
	if srvErr != nil {
		cli.Close()
		t.Fatalf("failed to accept: %v", srvErr)
	}

	return cli.(*net.TCPConn), srv.(*net.TCPConn)
}

// TestHungUpHealthyIdle tests that a live idle connection probes as alive,
// on repeated probes
func TestHungUpHealthyIdle(t *testing.T) {
	client, server := newLoopbackPair(t)
	defer client.Close()
	defer server.Close()

	if HungUp(client) {
		t.Errorf("healthy idle connection probed as hung up")
	}
	if HungUp(client) {
		t.Errorf("second probe on healthy idle connection reported hung up")
	}
	if HungUp(server) {
		t.Errorf("server side probed as hung up")
	}
}

// TestHungUpPendingData tests that unread inbound data does not count as
// hangup
func TestHungUpPendingData(t *testing.T) {
	client, server := newLoopbackPair(t)
	defer client.Close()
	defer server.Close()

	if _, err := server.Write([]byte("ping")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	// Give the loopback transfer a moment to land in the receive queue.
	time.Sleep(50 * time.Millisecond)

	if HungUp(client) {
		t.Errorf("connection with pending data probed as hung up")
	}
}

// TestHungUpAfterReset tests that a reset connection probes as hung up
func TestHungUpAfterReset(t *testing.T) {
	client, server := newLoopbackPair(t)
	defer client.Close()

	// An abortive close sends RST instead of FIN.
	if err := server.SetLinger(0); err != nil {
		t.Fatalf("failed to set linger: %v", err)
	}
	if err := server.Close(); err != nil {
		t.Fatalf("failed to close server conn: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !HungUp(client) {
		if time.Now().After(deadline) {
			t.Fatalf("reset connection never probed as hung up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestHungUpAfterPeerClose tests that a clean peer shutdown is not an
// error state: the socket reads EOF but carries no pending error
func TestHungUpAfterPeerClose(t *testing.T) {
	client, server := newLoopbackPair(t)
	defer client.Close()

	if err := server.Close(); err != nil {
		t.Fatalf("failed to close server conn: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if HungUp(client) {
		t.Errorf("cleanly closed peer probed as hung up")
	}
}

// TestHungUpClosedConn tests that a connection whose descriptor is gone
// reports hung up
func TestHungUpClosedConn(t *testing.T) {
	client, server := newLoopbackPair(t)
	defer server.Close()

	if err := client.Close(); err != nil {
		t.Fatalf("failed to close client conn: %v", err)
	}

	if !HungUp(client) {
		t.Errorf("closed connection probed as alive")
	}
}
