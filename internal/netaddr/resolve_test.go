package netaddr

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

// fakeLookup serves a fixed candidate list in place of the resolver.
type fakeLookup struct {
	addrs []net.IPAddr
	err   error
}

func (f *fakeLookup) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return f.addrs, f.err
}

func v4(s string) net.IPAddr {
	return net.IPAddr{IP: net.ParseIP(s)}
}

func v6(s, zone string) net.IPAddr {
	return net.IPAddr{IP: net.ParseIP(s), Zone: zone}
}

// TestResolvePrefersIPv4 tests that the first IPv4 candidate wins over
// earlier IPv6 candidates
func TestResolvePrefersIPv4(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{addrs: []net.IPAddr{
		v6("2001:db8::1", ""),
		v4("192.0.2.1"),
		v4("192.0.2.2"),
	}}}

	addr, err := r.Resolve(context.Background(), "db-node-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := addr.String(); got != "192.0.2.1" {
		t.Errorf("Resolve picked %q, want %q", got, "192.0.2.1")
	}
	if !addr.IsMapped() {
		t.Errorf("IPv4 selection not in mapped form: %v", addr[:])
	}
}

// TestResolveFirstIPv4Wins tests list-order preference among several
// IPv4 candidates
func TestResolveFirstIPv4Wins(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{addrs: []net.IPAddr{
		v4("10.0.0.2"),
		v6("2001:db8::1", ""),
		v4("10.0.0.3"),
	}}}

	addr, err := r.Resolve(context.Background(), "db-node-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := addr.String(); got != "10.0.0.2" {
		t.Errorf("Resolve picked %q, want %q", got, "10.0.0.2")
	}
}

// TestResolveFirstZoneFreeIPv6 tests that all-IPv6 lists select the first
// candidate without a scope zone
func TestResolveFirstZoneFreeIPv6(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{addrs: []net.IPAddr{
		v6("fe80::1", "eth0"),
		v6("2001:db8::2", ""),
		v6("2001:db8::3", ""),
	}}}

	addr, err := r.Resolve(context.Background(), "db-node-2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := addr.String(); got != "2001:db8::2" {
		t.Errorf("Resolve picked %q, want %q", got, "2001:db8::2")
	}
	if addr.IsMapped() {
		t.Errorf("IPv6 selection unexpectedly mapped: %v", addr[:])
	}
}

// TestResolveOnlyZonedIPv6 tests that a list with only zoned IPv6
// candidates fails
func TestResolveOnlyZonedIPv6(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{addrs: []net.IPAddr{
		v6("fe80::1", "eth0"),
		v6("fe80::2", "eth1"),
	}}}

	_, err := r.Resolve(context.Background(), "db-node-3")
	if !errors.Is(err, ErrNoSuitableAddress) {
		t.Errorf("Resolve error = %v, want ErrNoSuitableAddress", err)
	}
}

// TestResolveEmptyCandidateList tests that an empty lookup result fails
func TestResolveEmptyCandidateList(t *testing.T) {
	r := &Resolver{Lookup: &fakeLookup{}}

	_, err := r.Resolve(context.Background(), "db-node-4")
	if !errors.Is(err, ErrNoSuitableAddress) {
		t.Errorf("Resolve error = %v, want ErrNoSuitableAddress", err)
	}
}

// TestResolveLookupError tests that lookup failures surface wrapped
func TestResolveLookupError(t *testing.T) {
	lookupErr := errors.New("no such host")
	r := &Resolver{Lookup: &fakeLookup{err: lookupErr}}

	_, err := r.Resolve(context.Background(), "unknown_?host")
	if !errors.Is(err, lookupErr) {
		t.Errorf("Resolve error = %v, want wrapped %v", err, lookupErr)
	}
}

// TestResolveOversizedName tests that a 255 byte host name fails cleanly.
// A single label that long cannot be encoded in a DNS query, so the
// failure is local and deterministic.
func TestResolveOversizedName(t *testing.T) {
	host := strings.Repeat("y", 255)

	_, err := Resolve(context.Background(), host)
	if err == nil {
		t.Errorf("Resolve of a %d byte name succeeded", len(host))
	}
}

// TestResolveLiterals tests resolution of address literals with the
// default resolver, including the mapped round trip
func TestResolveLiterals(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"127.0.0.1", "127.0.0.1"},
		{"::1", "::1"},
		{"3ffe:1900:4545:3:200:f8ff:fe21:67cf", "3ffe:1900:4545:3:200:f8ff:fe21:67cf"},
		{"fe80:0:0:0:200:f8ff:fe21:67cf", "fe80::200:f8ff:fe21:67cf"},
		{"fe80::200:f8ff:fe21:67cf", "fe80::200:f8ff:fe21:67cf"},
	}
	for _, c := range cases {
		addr, err := Resolve(context.Background(), c.host)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", c.host, err)
			continue
		}
		if got := addr.String(); got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.host, got, c.want)
		}
	}
}
