package netaddr

import (
	"strconv"
	"strings"
)

// Component length limits used by SplitEndpoint, sized for a DNS host
// name and an IANA service name.
const (
	MaxHostLen    = 255
	MaxServiceLen = 63
)

// EndpointError reports a malformed or oversized endpoint string.
type EndpointError struct {
	Err      string
	Endpoint string
}

func (e *EndpointError) Error() string {
	return "endpoint " + e.Endpoint + ": " + e.Err
}

// SplitAddressPort splits endpoint text of the form "host", "host:port"
// or "[host]:port" into its host and service parts. Both parts are
// substrings of arg. hostMax and servMax bound the accepted component
// lengths; a longer component is an error, never a silent cut.
//
// A bracketed host must contain at least one colon, the unbracketed
// "host:port" form exactly one. Anything else is a bare host with an
// empty service, which is how IPv6 literals with their several colons
// pass through unbracketed.
func SplitAddressPort(arg string, hostMax, servMax int) (string, string, error) {
	var host, service string

	if strings.HasPrefix(arg, "[") {
		end := strings.IndexByte(arg, ']')
		if end < 0 {
			return "", "", &EndpointError{"missing ']'", arg}
		}
		host = arg[1:end]
		rest := arg[end+1:]
		if rest != "" {
			if rest[0] != ':' {
				return "", "", &EndpointError{"unexpected text after ']'", arg}
			}
			service = rest[1:]
		}
		if !strings.Contains(host, ":") {
			return "", "", &EndpointError{"no colon inside brackets", arg}
		}
	} else if i := strings.IndexByte(arg, ':'); i >= 0 && strings.IndexByte(arg[i+1:], ':') < 0 {
		host, service = arg[:i], arg[i+1:]
	} else {
		host = arg
	}

	if len(host) > hostMax {
		return "", "", &EndpointError{"host too long", arg}
	}
	if len(service) > servMax {
		return "", "", &EndpointError{"service too long", arg}
	}
	return host, service, nil
}

// SplitEndpoint splits endpoint text with the package default length
// limits.
func SplitEndpoint(arg string) (string, string, error) {
	return SplitAddressPort(arg, MaxHostLen, MaxServiceLen)
}

// AppendAddressPort appends the endpoint text for host and port to dst.
// An empty host stands for any address and renders as "*". A host
// containing a colon is bracketed.
func AppendAddressPort(dst []byte, host string, port uint16) []byte {
	switch {
	case host == "":
		dst = append(dst, '*')
	case strings.IndexByte(host, ':') < 0:
		dst = append(dst, host...)
	default:
		dst = append(dst, '[')
		dst = append(dst, host...)
		dst = append(dst, ']')
	}
	dst = append(dst, ':')
	return strconv.AppendUint(dst, uint64(port), 10)
}

// CombineAddressPort returns the endpoint text for host and port.
func CombineAddressPort(host string, port uint16) string {
	return string(AppendAddressPort(nil, host, port))
}

// Endpoint is a transport endpoint: a host name or address literal plus
// a port.
type Endpoint struct {
	Host string
	Port uint16
}

// ParseEndpoint parses endpoint text accepted by SplitEndpoint. The
// service part must be a decimal port number; a missing service yields
// port 0.
func ParseEndpoint(s string) (Endpoint, error) {
	host, service, err := SplitEndpoint(s)
	if err != nil {
		return Endpoint{}, err
	}
	if service == "" {
		return Endpoint{Host: host}, nil
	}
	port, err := strconv.ParseUint(service, 10, 16)
	if err != nil {
		return Endpoint{}, &EndpointError{"invalid port", s}
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// String renders the endpoint in the combined text form.
func (e Endpoint) String() string {
	return CombineAddressPort(e.Host, e.Port)
}
