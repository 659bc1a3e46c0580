package netaddr

import (
	"bytes"
	"net"
	"net/netip"
)

// nullAddr is the text appended when an address cannot be rendered.
const nullAddr = "null"

// mappedText is the text prefix of an IPv4-mapped address.
const mappedText = "::ffff:"

// AppendAddr appends the numeric text of the binary address src with
// family af to dst and returns the extended slice. IPv4-mapped text is
// rewritten in place to its plain dotted decimal form. An unsupported
// family or an address of the wrong length appends "null". The render
// is purely numeric, never a reverse lookup.
func AppendAddr(dst []byte, af Family, src []byte) []byte {
	switch af {
	case FamilyIPv4:
		if len(src) == net.IPv4len {
			return netip.AddrFrom4([4]byte(src)).AppendTo(dst)
		}
	case FamilyIPv6:
		if len(src) == net.IPv6len {
			mark := len(dst)
			dst = netip.AddrFrom16([16]byte(src)).AppendTo(dst)
			return stripMapped(dst, mark)
		}
	}
	return append(dst, nullAddr...)
}

// FormatAddr returns the numeric text of the binary address src with
// family af.
func FormatAddr(af Family, src []byte) string {
	return string(AppendAddr(nil, af, src))
}

// stripMapped removes a leading "::ffff:" from the address text starting
// at mark, shifting the tail left so IPv4-mapped text reads as IPv4.
func stripMapped(dst []byte, mark int) []byte {
	if !bytes.HasPrefix(dst[mark:], []byte(mappedText)) {
		return dst
	}
	n := copy(dst[mark:], dst[mark+len(mappedText):])
	return dst[:mark+n]
}
