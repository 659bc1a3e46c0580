// Package announce carries node endpoint announcements over UDP
// broadcast. Datagrams travel unverified networks, so every message
// ends in a checksum and anything that does not verify is dropped
// whole, never partially decoded.
package announce

import (
	"distkv-transport/internal/netaddr"
	"encoding/binary"
	"fmt"
	"net"
	"syscall"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

type MessageType byte

const MessageTypeAnnounce MessageType = 0x01

const (
	MaxDatagramSize = 8192
	IPv4Broadcast   = "255.255.255.255"
)

// wireSize is the fixed length of an announcement datagram.
const wireSize = 1 + 16 + 16 + 2 + 8

// Message announces a node's transport endpoint: the canonical address
// it resolved for itself and the port it accepts connections on.
type Message struct {
	NodeID uuid.UUID
	Addr   netaddr.InAddr
	Port   uint16
}

func (m Message) Type() MessageType {
	return MessageTypeAnnounce
}

func (m Message) Marshal() []byte {
	// Message format:
	// [1 byte:   message type]
	// [16 bytes: node ID]
	// [16 bytes: transport address]
	// [2 bytes:  port]
	// [8 bytes:  checksum of the preceding bytes]

	buf := make([]byte, wireSize)
	buf[0] = byte(MessageTypeAnnounce)
	copy(buf[1:17], m.NodeID[:])
	copy(buf[17:33], m.Addr[:])
	binary.BigEndian.PutUint16(buf[33:35], m.Port)
	binary.BigEndian.PutUint64(buf[35:], xxhash.Sum64(buf[:35]))
	return buf
}

// Unmarshal decodes an announcement datagram. Wrong sizes, foreign type
// tags and checksum mismatches are rejected.
func Unmarshal(data []byte) (Message, error) {
	if len(data) != wireSize {
		return Message{}, fmt.Errorf("announcement is %d bytes, want %d", len(data), wireSize)
	}
	if MessageType(data[0]) != MessageTypeAnnounce {
		return Message{}, fmt.Errorf("unexpected message type 0x%02x", data[0])
	}
	if binary.BigEndian.Uint64(data[35:]) != xxhash.Sum64(data[:35]) {
		return Message{}, fmt.Errorf("announcement checksum mismatch")
	}

	var m Message
	copy(m.NodeID[:], data[1:17])
	copy(m.Addr[:], data[17:33])
	m.Port = binary.BigEndian.Uint16(data[33:35])
	return m, nil
}

// SendTo transmits one announcement datagram to addr:port.
func SendTo(addr string, port uint16, m Message) error {
	target := netaddr.CombineAddressPort(addr, port)

	d := net.Dialer{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}

	conn, err := d.Dial("udp4", target)
	if err != nil {
		return fmt.Errorf("dial announce target %s: %w", target, err)
	}
	defer conn.Close()

	if _, err := conn.Write(m.Marshal()); err != nil {
		return fmt.Errorf("send announcement to %s: %w", target, err)
	}
	return nil
}

// Send broadcasts one announcement on the local IPv4 network.
func Send(port uint16, m Message) error {
	return SendTo(IPv4Broadcast, port, m)
}
