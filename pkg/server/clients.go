package server

import (
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/tankarena/arena/pkg/netstats"
)

// maxConsecutiveErrors marks a client lost after this many socket errors
// in a row (spec.md §4.7/§7: "Connection — ... ≥ 5 consecutive errors").
const maxConsecutiveErrors = 5

// ClientInfo is the server's per-connection bookkeeping for one player,
// grounded on the shape of cbodonnell-flywheel/pkg/clients/clients.go's
// Client struct, generalized from a TCP+UDP pair to this spec's UDP-only
// transport and carrying a netstats.Tracker instead of nothing.
//
// SessionID is an internal-only id assigned on join; nothing in the
// server reads it, and it is never placed on the wire, where PlayerID
// alone identifies the peer.
type ClientInfo struct {
	PlayerID          uint32
	SessionID         uuid.UUID
	Addr              *net.UDPAddr
	Tracker           *netstats.Tracker
	LastInputAtMs     int64
	LastAckedInput    uint32
	ConsecutiveErrors int
}

// Lost reports whether this client has exceeded the consecutive socket
// error budget (spec.md §7).
func (c *ClientInfo) Lost() bool { return c.ConsecutiveErrors >= maxConsecutiveErrors }

// RecordSendError increments the consecutive-error count after a failed
// write to this client's address.
func (c *ClientInfo) RecordSendError() { c.ConsecutiveErrors++ }

// RecordSendSuccess resets the consecutive-error count after a successful
// write, matching spec.md §7's "consecutive" wording: any success clears
// the streak.
func (c *ClientInfo) RecordSendSuccess() { c.ConsecutiveErrors = 0 }

// ClientManager tracks all connected clients, indexed by both player id
// and UDP address, guarded by a single RWMutex -- mirroring
// cbodonnell-flywheel/pkg/clients/clients.go's ClientManager, generalized
// to one transport instead of TCP-then-UDP-handshake.
type ClientManager struct {
	mu      sync.RWMutex
	byID    map[uint32]*ClientInfo
	byAddr  map[string]*ClientInfo
	nextID  uint32
}

// NewClientManager constructs an empty manager. Player ids are allocated
// starting at startID (the server passes worldconst.MinPlayerID).
func NewClientManager(startID uint32) *ClientManager {
	return &ClientManager{
		byID:   make(map[uint32]*ClientInfo),
		byAddr: make(map[string]*ClientInfo),
		nextID: startID,
	}
}

// Add registers a newly joined client and allocates its player id.
// nowMs seeds LastInputAtMs so a client that joins and never sends another
// message still ages out of reapIdleClients rather than being exempted
// forever by a zero timestamp.
func (m *ClientManager) Add(addr *net.UDPAddr, nowMs int64) *ClientInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	c := &ClientInfo{
		PlayerID:      id,
		SessionID:     uuid.New(),
		Addr:          addr,
		Tracker:       netstats.NewTracker(),
		LastInputAtMs: nowMs,
	}
	m.byID[id] = c
	m.byAddr[addr.String()] = c
	return c
}

// Remove drops a client from both indexes.
func (m *ClientManager) Remove(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	delete(m.byAddr, c.Addr.String())
}

// ByID looks up a client by player id.
func (m *ClientManager) ByID(id uint32) (*ClientInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	return c, ok
}

// ByAddr looks up a client by UDP source address.
func (m *ClientManager) ByAddr(addr *net.UDPAddr) (*ClientInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byAddr[addr.String()]
	return c, ok
}

// All returns a snapshot copy of all connected clients.
func (m *ClientManager) All() []*ClientInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ClientInfo, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out
}

// Count returns the number of connected clients.
func (m *ClientManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
