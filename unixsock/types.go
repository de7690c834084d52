// Package unixsock implements the AF_UNIX socket family state machine:
// bind to pathname, listen with bounded backlog, connect/accept
// rendezvous, send/recv via an in-kernel stream backing store.
package unixsock

// Family is the socket address family, validated against AF_UNIX and
// AF_NETLINK at creation.
type Family int

const (
	AF_UNIX Family = iota
	AF_NETLINK
)

// SockType is the socket type. STREAM and SEQPACKET are
// connection-oriented; DGRAM and RAW are validated at creation but carry
// no further behavior.
type SockType int

const (
	SOCK_DGRAM SockType = iota
	SOCK_RAW
	SOCK_SEQPACKET
	SOCK_STREAM
)

func (t SockType) connectionOriented() bool {
	return t == SOCK_STREAM || t == SOCK_SEQPACKET
}

// State is the socket's position in the connection state machine.
type State int

const (
	UNCONNECTED State = iota
	CONNECTING
	CONNECTED
	PASSIVE
)

// PathMaxUn is the fixed capacity of a socket address's sun_path.
const PathMaxUn = 108

// SockAddrUn is the AF_UNIX socket address: a family tag plus a bounded
// pathname, compared by byte-equality over the declared length window.
type SockAddrUn struct {
	Family Family
	Path   string
}

func validateAddr(addr SockAddrUn) bool {
	if addr.Family != AF_UNIX {
		return false
	}
	if len(addr.Path) == 0 || len(addr.Path) > PathMaxUn-1 {
		return false
	}
	return true
}
