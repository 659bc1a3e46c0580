package netaddr

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoSuitableAddress is returned when a name lookup succeeds but none
// of the candidates is usable as a transport address.
var ErrNoSuitableAddress = errors.New("no suitable address found")

// Lookuper is the name lookup a Resolver runs on. *net.Resolver
// implements it.
type Lookuper interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Resolver resolves host names and literals to canonical transport
// addresses. The zero value uses net.DefaultResolver.
type Resolver struct {
	Lookup Lookuper
}

// DefaultResolver is the resolver used by the package-level Resolve.
var DefaultResolver = &Resolver{}

// Resolve looks up host with the default resolver.
func Resolve(ctx context.Context, host string) (InAddr, error) {
	return DefaultResolver.Resolve(ctx, host)
}

// Resolve looks up host and returns its canonical transport address.
// When the lookup yields several candidates the first IPv4 address wins;
// failing that, the first IPv6 address without a scope zone. IPv4
// selections are returned in IPv4-mapped form.
func (r *Resolver) Resolve(ctx context.Context, host string) (InAddr, error) {
	addrs, err := r.lookuper().LookupIPAddr(ctx, host)
	if err != nil {
		return InAddr{}, fmt.Errorf("resolve %q: %w", host, err)
	}
	addr, err := pickAddr(addrs)
	if err != nil {
		return InAddr{}, fmt.Errorf("resolve %q: %w", host, err)
	}
	return addr, nil
}

func (r *Resolver) lookuper() Lookuper {
	if r != nil && r.Lookup != nil {
		return r.Lookup
	}
	return net.DefaultResolver
}

// pickAddr applies the address preference in a single pass over the
// candidate list: any IPv4 candidate wins outright, otherwise the first
// zone-free IPv6 candidate. Zoned IPv6 candidates are never usable.
func pickAddr(addrs []net.IPAddr) (InAddr, error) {
	best := -1
	for i, addr := range addrs {
		if ip4 := addr.IP.To4(); ip4 != nil {
			return MapIPv4([4]byte(ip4)), nil
		}
		if best < 0 && addr.Zone == "" && len(addr.IP) == net.IPv6len {
			best = i
		}
	}
	if best < 0 {
		return InAddr{}, ErrNoSuitableAddress
	}
	var a InAddr
	copy(a[:], addrs[best].IP)
	return a, nil
}
