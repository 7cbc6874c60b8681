// Package prediction implements the client-side input/prediction/replay
// bookkeeping of spec.md §4.8 (C8): every input the client has applied
// (input_history), the predicted state that resulted from it
// (prediction_history), and the subset still unacknowledged by the server
// (input_buffer), which reconciliation marks for replay when a correction
// requires it. Grounded on the teacher's deque-over-slice style seen in
// cbodonnell-flywheel/pkg/game/types (fixed-capacity ring buffers via a
// capped append-and-trim slice rather than container/ring, since the
// capacities here are tiny and the access pattern is sequential).
package prediction

const (
	// historyCap bounds input_history and prediction_history (spec.md §4.8).
	historyCap = 60

	// bufferCap bounds input_buffer.
	bufferCap = 100

	// bufferMaxAgeMs drops buffered inputs older than this many milliseconds,
	// regardless of capacity (spec.md §4.8: "entries older than 5s are
	// dropped").
	bufferMaxAgeMs int64 = 5000
)

// InputFrame is one sampled client input (spec.md §3.1's InputFrame).
type InputFrame struct {
	Sequence       uint32
	TimestampMs    int64
	MoveForward    bool
	MoveBackward   bool
	MoveLeft       bool
	MoveRight      bool
	DeltaTime      float64
	BarrelRotation float64
}

// PredictedState is the local tank pose predicted immediately after
// applying an InputFrame.
type PredictedState struct {
	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64
}

// historyEntry pairs one applied input with the prediction it produced.
type historyEntry struct {
	Input     InputFrame
	Predicted PredictedState
	Acked     bool
}

// bufferEntry is one unacknowledged input awaiting either an ack or a
// replay decision from reconciliation.
type bufferEntry struct {
	Input        InputFrame
	NeedsReplay  bool
	BufferTimeMs int64
}

// Predictor owns the input/prediction history and the unacknowledged-input
// buffer for one local player.
type Predictor struct {
	nextSeq uint32

	history []historyEntry // cap historyCap, oldest first

	bufferOrder []uint32 // insertion order, oldest first
	buffer      map[uint32]*bufferEntry
}

// New constructs an empty predictor; sequence numbers start at 1
// (spec.md §3.1: "strictly monotonic per client starting at 1").
func New() *Predictor {
	return &Predictor{
		buffer: make(map[uint32]*bufferEntry),
	}
}

// StoreInput assigns the next sequence number to frame, stamps its
// timestamp, and records it in input_history/prediction_history and
// input_buffer. Returns the assigned sequence.
func (p *Predictor) StoreInput(frame InputFrame, predicted PredictedState, nowMs int64) uint32 {
	p.nextSeq++
	frame.Sequence = p.nextSeq
	frame.TimestampMs = nowMs

	p.history = append(p.history, historyEntry{Input: frame, Predicted: predicted})
	if len(p.history) > historyCap {
		p.history = p.history[len(p.history)-historyCap:]
	}

	p.buffer[frame.Sequence] = &bufferEntry{Input: frame, BufferTimeMs: nowMs}
	p.bufferOrder = append(p.bufferOrder, frame.Sequence)
	if len(p.bufferOrder) > bufferCap {
		evict := p.bufferOrder[0]
		p.bufferOrder = p.bufferOrder[1:]
		delete(p.buffer, evict)
	}

	return frame.Sequence
}

// AcknowledgeInput removes seq from input_buffer and marks its
// input_history entry acked, if still present in either.
func (p *Predictor) AcknowledgeInput(seq uint32) {
	if _, ok := p.buffer[seq]; ok {
		delete(p.buffer, seq)
		for i, s := range p.bufferOrder {
			if s == seq {
				p.bufferOrder = append(p.bufferOrder[:i], p.bufferOrder[i+1:]...)
				break
			}
		}
	}
	for i := range p.history {
		if p.history[i].Input.Sequence == seq {
			p.history[i].Acked = true
			break
		}
	}
}

// MarkForReplay flags every buffered input with sequence > afterSeq as
// needing replay, the action reconciliation's 30-50u and >=50u tiers take
// (spec.md §4.10).
func (p *Predictor) MarkForReplay(afterSeq uint32) {
	for _, seq := range p.bufferOrder {
		if seq > afterSeq {
			p.buffer[seq].NeedsReplay = true
		}
	}
}

// GetInputsToReplay returns every buffered input flagged needs_replay, in
// ascending sequence order, and clears the flag on each (the caller is
// about to replay them).
func (p *Predictor) GetInputsToReplay() []InputFrame {
	var out []InputFrame
	for _, seq := range p.bufferOrder {
		entry := p.buffer[seq]
		if entry.NeedsReplay {
			out = append(out, entry.Input)
			entry.NeedsReplay = false
		}
	}
	return out
}

// DropStale removes buffered inputs older than bufferMaxAgeMs.
func (p *Predictor) DropStale(nowMs int64) {
	kept := p.bufferOrder[:0]
	for _, seq := range p.bufferOrder {
		entry := p.buffer[seq]
		if nowMs-entry.BufferTimeMs > bufferMaxAgeMs {
			delete(p.buffer, seq)
			continue
		}
		kept = append(kept, seq)
	}
	p.bufferOrder = kept
}

// LastPrediction returns the most recently stored predicted state, if any.
func (p *Predictor) LastPrediction() (PredictedState, bool) {
	if len(p.history) == 0 {
		return PredictedState{}, false
	}
	return p.history[len(p.history)-1].Predicted, true
}

// BufferLen reports how many inputs are currently unacknowledged.
func (p *Predictor) BufferLen() int { return len(p.bufferOrder) }

// HistoryLen reports how many input/prediction pairs are retained.
func (p *Predictor) HistoryLen() int { return len(p.history) }
