package unixsock

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"corekernel/internal/errno"
	"corekernel/internal/klog"
	"corekernel/internal/waitq"
)

// Socket is the per-connection state: family, type, state, bound address,
// peer link, listener backlog, and the wait queue used to suspend
// blocking operations.
//
// id is a diagnostic-only correlation tag, never used for control flow.
// trigger and pollTrigger are allocated once per socket rather than per
// blocking call: a fire and a wait racing across two independently
// allocated trigger objects for the same rendezvous can lose the wakeup,
// while a single shared trigger's buffered slot cannot.
type Socket struct {
	id uuid.UUID

	mu       sync.Mutex
	family   Family
	typ      SockType
	protocol int
	state    State
	addr     *SockAddrUn
	peer     *Socket

	backlog    []*Socket
	backlogMax int
	listening  bool // set by Listen; distinguishes "never listened" from an explicit, possibly-zero backlog

	waitq       *waitq.WaitQueue
	trigger     *waitq.Trigger // fired to wake a blocked acceptor/connector
	pollTrigger *waitq.Trigger // fired to wake a blocked RecvMsg

	stream *streamStore
	table  *AddrTable
	log    *zap.Logger
}

// NewSocket creates a socket. AF_NETLINK sockets construct successfully
// but carry no stream store and implement no operations; AF_UNIX sockets
// get a stream backing store for the receive side.
func NewSocket(family Family, typ SockType, protocol int, table *AddrTable, log *zap.Logger) (*Socket, errno.Err_t) {
	if family != AF_UNIX && family != AF_NETLINK {
		return nil, errno.EAFNOSUPPORT
	}
	switch typ {
	case SOCK_DGRAM, SOCK_RAW, SOCK_SEQPACKET, SOCK_STREAM:
	default:
		return nil, errno.EINVAL
	}
	if log == nil {
		log = klog.Nop()
	}
	s := &Socket{
		id:       uuid.New(),
		family:   family,
		typ:      typ,
		protocol: protocol,
		state:    UNCONNECTED,
		waitq:    waitq.New(),
		table:    table,
		log:      log,
	}
	if family == AF_UNIX {
		s.stream = newStreamStore()
	}
	log.Debug("socket created", zap.String("id", s.id.String()), zap.Int("family", int(family)), zap.Int("type", int(typ)))
	return s, errno.Success
}

// unixOnly rejects operations on families whose op vector is inert:
// AF_NETLINK constructs but implements nothing.
func (s *Socket) unixOnly() errno.Err_t {
	if s.family != AF_UNIX {
		return errno.ENOSYS
	}
	return errno.Success
}

// Bind records addr as this socket's address and publishes it in the
// address table. Fails with EADDRINUSE if the address is already bound,
// and with EINVAL on a malformed address or a socket that is already
// connected or connecting.
func (s *Socket) Bind(addr SockAddrUn) errno.Err_t {
	if err := s.unixOnly(); err.Failed() {
		return err
	}
	if !validateAddr(addr) {
		return errno.EINVAL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == CONNECTED || s.state == CONNECTING {
		return errno.EINVAL
	}
	if !s.table.Insert(addr, s) {
		return errno.EADDRINUSE
	}
	s.addr = &addr
	return errno.Success
}

// Listen marks the socket passive and records the backlog bound. Only
// connection-oriented types may listen.
func (s *Socket) Listen(backlog int) errno.Err_t {
	if err := s.unixOnly(); err.Failed() {
		return err
	}
	if !s.typ.connectionOriented() {
		return errno.EOPNOTSUPP
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = PASSIVE
	s.backlogMax = backlog
	s.backlog = nil
	s.listening = true
	return errno.Success
}

func (s *Socket) ensureTrigger() *waitq.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trigger == nil {
		s.trigger = s.waitq.Alloc(waitq.EventSocket)
	}
	return s.trigger
}

func (s *Socket) ensurePollTrigger() *waitq.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pollTrigger == nil {
		s.pollTrigger = s.waitq.Alloc(waitq.EventPollIn)
	}
	return s.pollTrigger
}

// Connect pushes this socket onto the listener's backlog, wakes a waiting
// acceptor, and — if blocking — suspends until its own trigger fires. The
// socket is marked CONNECTED once the wait returns (or at once when
// non-blocking); the wakeup is taken as the acceptor's completion and the
// pairing is not re-checked.
func (s *Socket) Connect(ctx context.Context, peerAddr SockAddrUn, blocking bool) errno.Err_t {
	if err := s.unixOnly(); err.Failed() {
		return err
	}
	if !validateAddr(peerAddr) {
		return errno.EINVAL
	}
	s.mu.Lock()
	if s.state == CONNECTED || s.state == CONNECTING {
		s.mu.Unlock()
		return errno.EISCONN
	}
	s.mu.Unlock()

	target := s.table.Search(peerAddr)
	if target == nil {
		return errno.EAFNOSUPPORT
	}

	target.mu.Lock()
	if target.listening && len(target.backlog) >= target.backlogMax {
		target.mu.Unlock()
		return errno.ECONNREFUSED
	}
	target.backlog = append(target.backlog, s)
	target.mu.Unlock()

	s.mu.Lock()
	s.peer = target
	s.state = CONNECTING
	s.mu.Unlock()

	targetTrigger := target.ensureTrigger()
	targetTrigger.Fire()

	if blocking {
		ownTrigger := s.ensureTrigger()
		if err := ownTrigger.Wait(ctx); err != nil {
			return errno.EAGAIN
		}
	}

	s.mu.Lock()
	s.state = CONNECTED
	s.mu.Unlock()
	return errno.Success
}

// Accept pops one pending connection off the backlog (from the tail, so
// acceptance order is LIFO) and returns a new Socket representing the
// server side of the accepted connection. The listener itself stays
// PASSIVE and keeps accepting. Non-blocking accept on an empty backlog
// fails EAGAIN; a blocking accept always runs the trigger
// allocate/add/wait/remove cycle, suspending until a connector arrives,
// and re-checks the backlog after waking.
func (s *Socket) Accept(ctx context.Context, blocking bool) (*Socket, errno.Err_t) {
	if err := s.unixOnly(); err.Failed() {
		return nil, err
	}
	if !s.typ.connectionOriented() {
		return nil, errno.EOPNOTSUPP
	}

	s.mu.Lock()
	empty := len(s.backlog) == 0
	s.mu.Unlock()

	if empty && !blocking {
		return nil, errno.EAGAIN
	}
	if blocking {
		trig := s.ensureTrigger()
		s.waitq.Add(trig)
		defer s.waitq.Remove(trig)
		s.mu.Lock()
		if len(s.backlog) > 0 {
			// A connection is already queued; its wakeup may have been
			// consumed by an earlier accept, so re-arm the trigger before
			// sleeping on it.
			trig.Fire()
		}
		s.mu.Unlock()
		if err := trig.Wait(ctx); err != nil {
			return nil, errno.EAGAIN
		}
	}

	s.mu.Lock()
	if len(s.backlog) == 0 {
		s.mu.Unlock()
		return nil, errno.EAGAIN
	}
	n := len(s.backlog) - 1
	client := s.backlog[n] // tail-pop
	s.backlog = s.backlog[:n]
	s.mu.Unlock()

	server, errNew := NewSocket(s.family, s.typ, s.protocol, s.table, s.log)
	if errNew.Failed() {
		return nil, errNew
	}
	server.mu.Lock()
	server.peer = client
	server.state = CONNECTED
	server.mu.Unlock()

	client.mu.Lock()
	client.peer = server
	client.mu.Unlock()

	clientTrigger := client.ensureTrigger()
	clientTrigger.Fire()

	return server, errno.Success
}

// GetSockName returns this socket's bound address, or an empty-path
// address of the same family if unbound.
func (s *Socket) GetSockName() (SockAddrUn, errno.Err_t) {
	if err := s.unixOnly(); err.Failed() {
		return SockAddrUn{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return SockAddrUn{Family: s.family, Path: ""}, errno.Success
	}
	return *s.addr, errno.Success
}

// GetPeerName returns the connected peer's bound address. Fails ENOTCONN
// unless the socket is CONNECTED.
func (s *Socket) GetPeerName() (SockAddrUn, errno.Err_t) {
	if err := s.unixOnly(); err.Failed() {
		return SockAddrUn{}, err
	}
	s.mu.Lock()
	peer := s.peer
	connected := s.state == CONNECTED
	s.mu.Unlock()
	if !connected || peer == nil {
		return SockAddrUn{}, errno.ENOTCONN
	}
	return peer.GetSockName()
}

// SendMsg writes data into the peer's stream store and wakes any receiver
// parked on it. Requires a CONNECTED socket with a live peer; a
// connection-oriented send that names an explicit destination fails
// EISCONN.
func (s *Socket) SendMsg(data []byte, hasDestAddr bool) (int, errno.Err_t) {
	if err := s.unixOnly(); err.Failed() {
		return 0, err
	}
	s.mu.Lock()
	connected := s.state == CONNECTED
	peer := s.peer
	typ := s.typ
	s.mu.Unlock()

	if !connected || peer == nil {
		return 0, errno.ENOTCONN
	}
	if typ.connectionOriented() && hasDestAddr {
		return 0, errno.EISCONN
	}

	n := peer.stream.Write(data)
	pollTrigger := peer.ensurePollTrigger()
	pollTrigger.Fire()
	return n, errno.Success
}

// RecvMsg reads from this socket's stream store, suspending first if
// blocking and no data is buffered. The connection state is checked
// before anything peer-related is touched.
func (s *Socket) RecvMsg(ctx context.Context, buf []byte, blocking bool) (int, errno.Err_t) {
	if err := s.unixOnly(); err.Failed() {
		return 0, err
	}
	s.mu.Lock()
	connected := s.state == CONNECTED
	s.mu.Unlock()
	if !connected {
		return 0, errno.ENOTCONN
	}

	if s.stream.Available() == 0 {
		if !blocking {
			return 0, errno.EAGAIN
		}
		trig := s.ensurePollTrigger()
		s.waitq.Add(trig)
		defer s.waitq.Remove(trig)
		if err := trig.Wait(ctx); err != nil {
			return 0, errno.EAGAIN
		}
	}

	return s.stream.Read(buf), errno.Success
}

// Close is infallible: closing an unconnected or never-bound socket
// succeeds and is a no-op beyond clearing local state. A connected
// peer is reset to UNCONNECTED and unlinked, and a bound address is
// removed from the address table.
func (s *Socket) Close() errno.Err_t {
	s.mu.Lock()
	peer := s.peer
	addr := s.addr
	s.peer = nil
	s.state = UNCONNECTED
	s.addr = nil
	s.mu.Unlock()

	if peer != nil {
		peer.mu.Lock()
		peer.peer = nil
		peer.state = UNCONNECTED
		peer.mu.Unlock()
	}
	if addr != nil {
		s.table.Delete(*addr)
	}
	return errno.Success
}

// State reports the socket's current state, for tests and diagnostics.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Peer reports the socket's current peer, for tests asserting the
// connected-pair invariant.
func (s *Socket) Peer() *Socket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peer
}
