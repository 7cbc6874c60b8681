package server

import (
	"net"
	"time"
)

// maxDatagramSize is large enough for the biggest message this protocol
// sends (a GameState with a full player/enemy roster); datagrams arriving
// larger are still read but the excess is silently truncated by ReadFrom,
// which then fails to decode and is dropped like any other malformed
// packet.
const maxDatagramSize = 4096

// Transport wraps a UDP socket with the non-blocking, bounded-drain read
// pattern spec.md §5 requires ("the UDP socket is set to non-blocking;
// receive loops drain up to a bounded number of datagrams per tick ...
// and exit on NotReady"). Go has no native non-blocking UDP read, so this
// adapts the teacher's blocking-goroutine transport
// (cbodonnell-flywheel/pkg/network/udp.go) into the idiomatic substitute:
// a read deadline one millisecond ahead, treating a timeout as NotReady.
type Transport struct {
	conn *net.UDPConn
}

// Listen opens a UDP socket bound to the given port (0 picks an ephemeral
// port).
func Listen(port int) (*Transport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

// Dial opens a UDP socket "connected" to a remote address, for client use.
func Dial(addr string) (*Transport, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

// LocalAddr returns the socket's bound local address.
func (t *Transport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}

// Close releases the socket.
func (t *Transport) Close() error { return t.conn.Close() }

// ReadFrom performs one non-blocking-equivalent read: NotReady (ok=false,
// err=nil) if no datagram arrives within one millisecond, otherwise the
// payload and sender address. A deadline of exactly time.Now() would make
// every read time out, even with a datagram already queued.
func (t *Transport) ReadFrom(buf []byte) (n int, addr *net.UDPAddr, ok bool, err error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, nil, false, err
	}
	n, addr, err = t.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, isNetErr := err.(net.Error); isNetErr && ne.Timeout() {
			return 0, nil, false, nil
		}
		return 0, nil, false, err
	}
	return n, addr, true, nil
}

// WriteTo sends a datagram to addr.
func (t *Transport) WriteTo(data []byte, addr *net.UDPAddr) error {
	_, err := t.conn.WriteToUDP(data, addr)
	return err
}

// Write sends a datagram on a "connected" (Dial'd) socket.
func (t *Transport) Write(data []byte) error {
	_, err := t.conn.Write(data)
	return err
}

// Drain reads up to maxDatagrams packets, invoking handle for each, and
// stops early on the first NotReady -- the bounded per-tick ingest loop
// of spec.md §4.7 step 1 / §5.
func (t *Transport) Drain(maxDatagrams int, handle func(data []byte, addr *net.UDPAddr)) {
	buf := make([]byte, maxDatagramSize)
	for i := 0; i < maxDatagrams; i++ {
		n, addr, ok, err := t.ReadFrom(buf)
		if err != nil || !ok {
			return
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		handle(payload, addr)
	}
}
