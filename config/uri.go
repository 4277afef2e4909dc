package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/arloliu/cqlprobe/types"
)

// DefaultPort is the CQL native protocol port used when the URI has none.
const DefaultPort = 9042

// ParseURI splits a "host[:port]" address.
//
// IPv6 hosts must be bracketed ("[::1]" or "[::1]:9042").
//
// Parameters:
//   - uri: The address
//
// Returns:
//   - string: The host
//   - int: The port, DefaultPort if absent
//   - error: Wrapping types.ErrMalformedEnv if the address is unusable
func ParseURI(uri string) (string, int, error) {
	malformed := func(reason string) error {
		return fmt.Errorf("%w: %s=%q: %s", types.ErrMalformedEnv, EnvURI, uri, reason)
	}

	if uri == "" {
		return "", 0, malformed("empty")
	}
	if strings.Contains(uri, "://") {
		return "", 0, malformed("scheme prefix is not supported, use host[:port]")
	}
	if strings.ContainsAny(uri, " \t\r\n/") {
		return "", 0, malformed("unexpected character")
	}

	host, portStr, err := net.SplitHostPort(uri)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) || addrErr.Err != "missing port in address" {
			return "", 0, malformed(err.Error())
		}

		host = uri
		if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		}
		if strings.ContainsAny(host, "[]") {
			return "", 0, malformed("unbalanced brackets")
		}
		if host == "" {
			return "", 0, malformed("empty host")
		}

		return host, DefaultPort, nil
	}

	if host == "" {
		return "", 0, malformed("empty host")
	}
	if strings.ContainsAny(host, "[]") {
		return "", 0, malformed("unbalanced brackets")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, malformed("port must be a number between 1 and 65535")
	}

	return host, port, nil
}
