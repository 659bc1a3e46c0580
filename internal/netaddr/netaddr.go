// Package netaddr resolves host names to the canonical 128-bit addresses
// used by the transport layer and converts addresses and endpoints to and
// from their text forms.
package netaddr

import (
	"net"
)

// Family identifies the address family of a binary address.
type Family uint16

const (
	FamilyNone Family = 0
	FamilyIPv4 Family = 1
	FamilyIPv6 Family = 2
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "none"
	}
}

// InAddr is the canonical transport address: a 128-bit value in IPv6 form.
// IPv4 addresses are held IPv4-mapped (80 zero bits, 16 one bits, then the
// four address bytes), so a single fixed-size value covers both families.
type InAddr [16]byte

// mappedPrefix is the 12-byte prefix of an IPv4-mapped address.
var mappedPrefix = [12]byte{10: 0xff, 11: 0xff}

// MapIPv4 returns the IPv4-mapped InAddr for a four byte IPv4 address.
func MapIPv4(ip [4]byte) InAddr {
	var a InAddr
	copy(a[:12], mappedPrefix[:])
	copy(a[12:], ip[:])
	return a
}

// IsMapped reports whether a holds an IPv4-mapped address.
func (a InAddr) IsMapped() bool {
	return [12]byte(a[:12]) == mappedPrefix
}

// AsIP returns the address as a net.IP for use with the net package.
func (a InAddr) AsIP() net.IP {
	return net.IP(a[:])
}

// String renders the address in numeric form, IPv4-mapped addresses as
// plain dotted decimal.
func (a InAddr) String() string {
	return string(AppendAddr(nil, FamilyIPv6, a[:]))
}
