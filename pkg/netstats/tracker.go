// Package netstats implements the per-peer sequence and RTT tracker
// (spec.md §4.3/C3): duplicate/stale detection on the receive side, and a
// rolling RTT/jitter/loss diagnostic on the ping/pong round trip. The
// tracker is symmetric: both server (one instance per client) and client
// (one instance for its server peer) use the same type. Grounded on the
// teacher's plain-struct-plus-methods style (no interfaces needed, since
// there is exactly one implementation) seen throughout
// cbodonnell-flywheel/pkg/game/types.
package netstats

import (
	"math"
)

// ReceiveResult classifies an incoming sequence number.
type ReceiveResult int

const (
	Accepted ReceiveResult = iota
	Duplicate
	Stale
)

func (r ReceiveResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

const (
	// staleWindow is the out-of-order window: a sequence more than this far
	// behind last_received is dropped rather than applied (spec.md §4.3).
	staleWindow uint32 = 50

	// receivedSetWindow bounds how far behind last_received a previously
	// seen sequence is still remembered for duplicate detection.
	receivedSetWindow uint32 = 200

	// sentHistoryCap bounds the sent-packet deque.
	sentHistoryCap = 100

	// rttWindowCap bounds the rolling RTT sample window.
	rttWindowCap = 30

	// minValidRTT and maxValidRTT bound an accepted Pong round trip
	// (spec.md §4.3: "Validate RTT ∈ (0, 10000] ms").
	minValidRTT float64 = 0
	maxValidRTT float64 = 10000
)

// Tracker holds one peer's sequence and RTT bookkeeping.
type Tracker struct {
	lastReceived uint32
	haveReceived bool
	received     map[uint32]struct{}

	sentOrder []uint32
	sentTimes map[uint32]int64
	sentCount uint64

	receivedCount uint64

	rttWindow []float64
	rttHead   int
}

// NewTracker constructs an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		received:  make(map[uint32]struct{}),
		sentTimes: make(map[uint32]int64),
	}
}

// OnReceive classifies an incoming sequence number and, if accepted,
// records it and advances last_received.
func (t *Tracker) OnReceive(seq uint32) ReceiveResult {
	if _, dup := t.received[seq]; dup {
		return Duplicate
	}
	if t.haveReceived && seq+staleWindow < t.lastReceived {
		return Stale
	}

	t.received[seq] = struct{}{}
	t.receivedCount++
	if !t.haveReceived || seq > t.lastReceived {
		t.lastReceived = seq
		t.haveReceived = true
	}
	t.evictOldReceived()
	return Accepted
}

func (t *Tracker) evictOldReceived() {
	if !t.haveReceived || t.lastReceived < receivedSetWindow {
		return
	}
	threshold := t.lastReceived - receivedSetWindow
	for seq := range t.received {
		if seq < threshold {
			delete(t.received, seq)
		}
	}
}

// RecordSent records an outgoing sequence number for loss accounting,
// evicting the oldest entry once the deque exceeds its capacity.
func (t *Tracker) RecordSent(seq uint32, nowMs int64) {
	t.sentCount++
	t.sentTimes[seq] = nowMs
	t.sentOrder = append(t.sentOrder, seq)
	if len(t.sentOrder) > sentHistoryCap {
		oldest := t.sentOrder[0]
		t.sentOrder = t.sentOrder[1:]
		delete(t.sentTimes, oldest)
	}
}

// RecordPong folds a Pong round trip into the rolling RTT window. It
// reports false (and ignores the sample) if the computed RTT falls
// outside the valid range.
func (t *Tracker) RecordPong(originalTimestampMs, nowMs int64) bool {
	rtt := float64(nowMs - originalTimestampMs)
	if rtt <= minValidRTT || rtt > maxValidRTT {
		return false
	}
	if len(t.rttWindow) < rttWindowCap {
		t.rttWindow = append(t.rttWindow, rtt)
	} else {
		t.rttWindow[t.rttHead] = rtt
		t.rttHead = (t.rttHead + 1) % rttWindowCap
	}
	return true
}

// Stats is the diagnostic snapshot derived from the rolling RTT window
// and sent/received counters (spec.md §4.3: "computed but not used to
// drop packets; they are diagnostic").
type Stats struct {
	AverageRTT  float64
	MinRTT      float64
	MaxRTT      float64
	Jitter      float64
	LossPercent float64
}

// Stats computes the current diagnostic snapshot.
func (t *Tracker) Stats() Stats {
	var s Stats
	if t.sentCount > 0 {
		lost := float64(t.sentCount) - float64(t.receivedCount)
		if lost < 0 {
			lost = 0
		}
		s.LossPercent = lost / float64(t.sentCount)
	}

	n := len(t.rttWindow)
	if n == 0 {
		return s
	}

	sum, min, max := 0.0, t.rttWindow[0], t.rttWindow[0]
	for _, v := range t.rttWindow {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range t.rttWindow {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	s.AverageRTT = mean
	s.MinRTT = min
	s.MaxRTT = max
	s.Jitter = math.Sqrt(variance)
	return s
}
