package client

import (
	"errors"
	"net"

	"github.com/tankarena/arena/pkg/interpolation"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/messages"
	"github.com/tankarena/arena/pkg/netstats"
	"github.com/tankarena/arena/pkg/prediction"
	"github.com/tankarena/arena/pkg/server"
	"github.com/tankarena/arena/pkg/simctx"
)

// maxDatagramsPerTick bounds the client's non-blocking receive drain
// (spec.md §5: "100 client").
const maxDatagramsPerTick = 100

// RemoteEnemy is the client's view of one enemy, refreshed each snapshot
// tick and rendered through interpolation.
type RemoteEnemy struct {
	ID        uint32
	Type      uint8
	Health    float64
	MaxHealth float64
}

// Runtime is the client-side simulation companion: transport, the local
// player's prediction/reconciliation state, the interpolation manager for
// every remote entity, and the enemy/bullet maps kept in sync from
// GameState/BulletUpdate traffic (spec.md §4.10/C10).
type Runtime struct {
	transport *server.Transport
	ctx       *simctx.Context
	logger    *log.Logger
	tracker   *netstats.Tracker

	Local     *LocalPlayer
	predictor *prediction.Predictor
	interp    *interpolation.Manager

	serverLocal   ServerPlayerState
	haveServerLoc bool

	Enemies map[uint32]*RemoteEnemy
	Bullets map[uint32]*ClientBullet

	outSeq uint32
}

// Connect dials the server and returns a Runtime without waiting for any
// reply; Local is set once an IDAssign arrives during a later Tick. Join
// is fire-and-forget UDP like every other message here.
func Connect(serverAddr string, ctx *simctx.Context, logger *log.Logger) (*Runtime, error) {
	transport, err := server.Dial(serverAddr)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		transport: transport,
		ctx:       ctx,
		logger:    logger,
		tracker:   netstats.NewTracker(),
		predictor: prediction.New(),
		interp:    interpolation.New(0),
		Enemies:   make(map[uint32]*RemoteEnemy),
		Bullets:   make(map[uint32]*ClientBullet),
	}, nil
}

func (r *Runtime) nextSeq() uint32 {
	r.outSeq++
	return r.outSeq
}

// Join sends the one-shot JoinMessage (spec.md §4.2).
func (r *Runtime) Join(name, color string) error {
	msg := &messages.JoinMessage{
		PlayerName: name, PreferredColor: color,
		Timestamp: r.ctx.NowMs(), SequenceNumber: r.nextSeq(),
	}
	return r.send(msg)
}

func (r *Runtime) send(msg interface{}) error {
	data, err := messages.Encode(msg)
	if err != nil {
		return err
	}
	if r.transport == nil {
		return errors.New("client: no transport")
	}
	return r.transport.Write(data)
}

// InputTick samples the current input, predicts the local player
// immediately, stores the prediction, and sends PlayerInput (spec.md
// §4.10: "Input tick").
func (r *Runtime) InputTick(forward, backward, left, right bool, mouseX, mouseY, dt float64) {
	if r.Local == nil || r.Local.IsDead {
		return
	}

	r.Local.ApplyInput(forward, backward, left, right, mouseX, mouseY, dt)

	frame := prediction.InputFrame{
		MoveForward: forward, MoveBackward: backward, MoveLeft: left, MoveRight: right,
		DeltaTime: dt, BarrelRotation: r.Local.BarrelRotation,
	}
	predicted := prediction.PredictedState{
		X: r.Local.X, Y: r.Local.Y,
		BodyRotation: r.Local.BodyRotation, BarrelRotation: r.Local.BarrelRotation,
	}
	seq := r.predictor.StoreInput(frame, predicted, r.ctx.NowMs())

	msg := &messages.PlayerInputMessage{
		PlayerID: r.Local.PlayerID, MoveForward: forward, MoveBackward: backward,
		MoveLeft: left, MoveRight: right, BarrelRotation: float32(r.Local.BarrelRotation),
		Timestamp: r.ctx.NowMs(), SequenceNumber: seq,
	}
	if err := r.send(msg); err != nil {
		r.logger.Debug("send PlayerInput failed: %v", err)
	}
}

// HandleDatagram decodes and dispatches one received datagram.
func (r *Runtime) HandleDatagram(data []byte) {
	msg, err := messages.Decode(data)
	if err != nil {
		r.logger.Debug("decode error: %v", err)
		return
	}

	switch m := msg.(type) {
	case *messages.IDAssignMessage:
		r.Local = &LocalPlayer{PlayerID: m.PlayerID}
	case *messages.GameStateMessage:
		r.handleGameState(m)
	case *messages.BulletUpdateMessage:
		SyncBullets(r.Bullets, m.Bullets)
	case *messages.BulletDestroyMessage:
		Remove(r.Bullets, m.BulletID)
	case *messages.InputAckMessage:
		r.predictor.AcknowledgeInput(m.AcknowledgedSequence)
		if r.Local != nil {
			r.Local.LastAckedSeq = m.AcknowledgedSequence
		}
	case *messages.PongMessage:
		r.tracker.RecordPong(m.OriginalTimestamp, r.ctx.NowMs())
	case *messages.PlayerRespawnMessage:
		if r.Local != nil && m.PlayerID == r.Local.PlayerID {
			r.Local.X, r.Local.Y = float64(m.SpawnX), float64(m.SpawnY)
			r.Local.Health = float64(m.Health)
			r.Local.IsDead = false
		}
	}
}

func (r *Runtime) handleGameState(m *messages.GameStateMessage) {
	now := m.Timestamp
	for _, pd := range m.Players {
		if r.Local != nil && pd.PlayerID == r.Local.PlayerID {
			r.serverLocal = ServerPlayerState{
				X: float64(pd.X), Y: float64(pd.Y), BodyRotation: float64(pd.BodyRotation),
				Health: float64(pd.Health), MaxHealth: float64(pd.MaxHealth),
				Score: pd.Score, IsDead: pd.IsDead,
			}
			r.haveServerLoc = true
			if r.Local != nil {
				r.Local.LastAckedSeq = m.LastAckedInput
			}
			continue
		}
		r.interp.Insert(pd.PlayerID, interpolation.Snapshot{
			TimestampMs: now, X: float64(pd.X), Y: float64(pd.Y),
			BodyRotation: float64(pd.BodyRotation), BarrelRotation: float64(pd.BarrelRotation),
		})
	}

	seen := make(map[uint32]struct{}, len(m.Enemies))
	for _, ed := range m.Enemies {
		seen[ed.EnemyID] = struct{}{}
		e, ok := r.Enemies[ed.EnemyID]
		if !ok {
			e = &RemoteEnemy{ID: ed.EnemyID}
			r.Enemies[ed.EnemyID] = e
		}
		e.Type = ed.EnemyType
		e.Health, e.MaxHealth = float64(ed.Health), float64(ed.MaxHealth)
		r.interp.Insert(ed.EnemyID, interpolation.Snapshot{
			TimestampMs: now, X: float64(ed.X), Y: float64(ed.Y),
			BodyRotation: float64(ed.BodyRotation), BarrelRotation: float64(ed.BarrelRotation),
		})
	}
	for id := range r.Enemies {
		if _, ok := seen[id]; !ok {
			delete(r.Enemies, id)
			r.interp.Remove(id)
		}
	}

	if r.Local != nil && r.haveServerLoc {
		r.Local.SyncAuthoritative(r.serverLocal)
	}
}

// Tick drains inbound datagrams, advances render time, and runs
// reconciliation against the last-stashed server state.
func (r *Runtime) Tick(dt float64) {
	r.transport.Drain(maxDatagramsPerTick, func(data []byte, _ *net.UDPAddr) {
		r.HandleDatagram(data)
	})

	r.predictor.DropStale(r.ctx.NowMs())
	r.interp.Tick(dt)

	if r.Local != nil && r.haveServerLoc {
		Reconcile(r.Local, r.serverLocal, r.predictor, dt)
	}
}

// RenderStateFor returns the smoothed render pose for a remote entity.
func (r *Runtime) RenderStateFor(entityID uint32) (interpolation.RenderState, bool) {
	return r.interp.Sample(entityID)
}

// Close releases the underlying socket.
func (r *Runtime) Close() error { return r.transport.Close() }
