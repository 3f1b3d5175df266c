package game

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrUnsupportedProtocol is returned for query types this service does not speak.
var ErrUnsupportedProtocol = errors.New("unsupported protocol")

// Protocol names the game server query type.
type Protocol string

// ProtocolSpaceEngineers is a Space Engineers dedicated server, answering Steam A2S queries.
const ProtocolSpaceEngineers Protocol = "spaceengineers"

// ParseProtocol maps a query type name onto a known Protocol, case-insensitive.
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case ProtocolSpaceEngineers:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedProtocol, s)
	}
}

// String implements fmt.Stringer.
func (p Protocol) String() string {
	return string(p)
}

// Target is the fixed game server queried on every request.
type Target struct {
	Protocol Protocol
	Host     string
	Port     int
}

// Addr returns host:port of the query endpoint.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}
