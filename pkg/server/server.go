// Package server implements the authoritative simulation and UDP
// transport (spec.md §4.7/C7): ingest client input, step players, enemies,
// and bullets, resolve collisions, and broadcast world snapshots at a
// fixed rate. Grounded on the tick-loop shape of
// cbodonnell-flywheel/pkg/server/server.go, generalized from its
// physics-engine (box2d) driven platformer loop to this spec's
// circle-collision tank arena and single-threaded cooperative scheduling
// (no internal worker threads; cmd/server stops the loop on SIGINT or
// SIGTERM).
package server

import (
	"math"
	"net"

	"github.com/tankarena/arena/pkg/ai"
	"github.com/tankarena/arena/pkg/ballistics"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/messages"
	"github.com/tankarena/arena/pkg/netstats"
	"github.com/tankarena/arena/pkg/queue"
	"github.com/tankarena/arena/pkg/simctx"
	"github.com/tankarena/arena/pkg/worldconst"
)

const (
	maxDatagramsPerTick = 200
	maxBulletSpawnsPerTick = 200

	playerRotationSpeed = 200.0 // deg/s
	playerMoveSpeed     = 150.0 // u/s

	baseEnemyCount   = 3 // spawned once any player is present
	enemyCountPerPlayer = 1

	idleTimeoutMs = int64(worldconst.IdleTimeoutSeconds * 1000)
)

// Server is the authoritative simulation: connected clients, live
// entities, and the transport they arrive/depart over.
type Server struct {
	transport *Transport
	clients   *ClientManager
	ctx       *simctx.Context
	logger    *log.Logger

	inbox *queue.InMemoryQueue

	players map[uint32]*entities.Player
	enemies map[uint32]*entities.Enemy
	bullets map[uint32]*entities.Bullet

	nextEnemyID  uint32
	nextBulletID uint32
	outSeq       uint32

	msSinceLastSnapshot float64
	msSinceLastBulletMsg float64
	msSinceLastSpawnCheck float64
}

// New constructs a server bound to an already-listening transport.
func New(transport *Transport, ctx *simctx.Context, logger *log.Logger) *Server {
	return &Server{
		transport:    transport,
		clients:      NewClientManager(worldconst.MinPlayerID),
		ctx:          ctx,
		logger:       logger,
		inbox:        queue.NewInMemoryQueue(),
		players:      make(map[uint32]*entities.Player),
		enemies:      make(map[uint32]*entities.Enemy),
		bullets:      make(map[uint32]*entities.Bullet),
		nextEnemyID:  worldconst.MinEnemyID,
		nextBulletID: worldconst.MinBulletID,
		// start the periodic broadcasts already "due" so the first tick
		// always sends.
		msSinceLastSnapshot:  float64(worldconst.SnapshotInterval),
		msSinceLastBulletMsg: float64(worldconst.BulletUpdateInterval),
	}
}

func (s *Server) nextSeq() uint32 {
	s.outSeq++
	return s.outSeq
}

// Tick advances the simulation by dt seconds (spec.md §4.7 steps 1-8).
func (s *Server) Tick(dt float64) {
	s.ingest()
	s.simulatePlayers(dt)
	s.simulateEnemies(dt)
	s.simulateBullets(dt)
	Separate(s.playerList(), s.enemyList(), dt)
	s.maintainEnemySpawns(dt)
	s.broadcast(dt)
	s.reapIdleClients()
}

// --- ingest ---------------------------------------------------------------

// inboundMessage pairs a decoded message with its sender, queued between
// the read drain and processing in a bounded drop-oldest queue (spec.md §7
// resource exhaustion: "drop-oldest"). The queue is emptied every tick, and
// one tick drains at most maxDatagramsPerTick datagrams; datagrams beyond
// that budget stay in the socket buffer until the next tick.
type inboundMessage struct {
	msg  interface{}
	addr *net.UDPAddr
}

func (s *Server) ingest() {
	s.transport.Drain(maxDatagramsPerTick, func(data []byte, addr *net.UDPAddr) {
		msg, err := messages.Decode(data)
		if err != nil {
			s.logger.Debug("decode error from %s: %v", addr, err)
			return
		}
		s.inbox.Enqueue(inboundMessage{msg: msg, addr: addr})
	})

	for _, raw := range s.inbox.ReadAllMessages() {
		in := raw.(inboundMessage)
		s.handleMessage(in.msg, in.addr)
	}
	s.inbox.ClearQueue()
}

func (s *Server) handleMessage(msg interface{}, addr *net.UDPAddr) {
	switch m := msg.(type) {
	case *messages.JoinMessage:
		s.handleJoin(m, addr)
	case *messages.PlayerInputMessage:
		s.handlePlayerInput(m, addr)
	case *messages.PlayerUpdateMessage:
		s.handlePlayerUpdate(m, addr)
	case *messages.PingMessage:
		s.handlePing(m, addr)
	case *messages.BulletSpawnMessage:
		s.handleBulletSpawn(m, addr)
	default:
		s.logger.Trace("ignoring message from %s: %T", addr, msg)
	}
}

// handleJoin rejects the datagram outright on an invalid name/color or a
// timestamp too far from the server's clock (spec.md §7: "clamp ... or
// reject the message entirely (name/color on join)") rather than
// substituting a default, since a fabricated name/color would silently
// admit a client the protocol never actually validated.
func (s *Server) handleJoin(m *messages.JoinMessage, addr *net.UDPAddr) {
	now := s.ctx.NowMs()
	if !worldconst.ValidateTimestamp(m.Timestamp, now) {
		s.logger.Debug("rejecting join from %s: timestamp out of skew", addr)
		return
	}
	if !worldconst.ValidateName(m.PlayerName) {
		s.logger.Debug("rejecting join from %s: invalid name %q", addr, m.PlayerName)
		return
	}
	if !worldconst.ValidateColor(m.PreferredColor) {
		s.logger.Debug("rejecting join from %s: invalid color %q", addr, m.PreferredColor)
		return
	}

	client := s.clients.Add(addr, now)
	x, y := s.findSpawnPoint()
	s.players[client.PlayerID] = entities.NewPlayer(client.PlayerID, m.PlayerName, m.PreferredColor, x, y)

	reply := &messages.IDAssignMessage{
		PlayerID:       client.PlayerID,
		Timestamp:      s.ctx.NowMs(),
		SequenceNumber: s.nextSeq(),
	}
	s.send(reply, addr)
}

func (s *Server) handlePlayerInput(m *messages.PlayerInputMessage, addr *net.UDPAddr) {
	if !worldconst.ValidateTimestamp(m.Timestamp, s.ctx.NowMs()) {
		return
	}
	client, ok := s.clients.ByAddr(addr)
	if !ok || client.PlayerID != m.PlayerID {
		return
	}
	p, ok := s.players[m.PlayerID]
	if !ok {
		return
	}

	switch client.Tracker.OnReceive(m.SequenceNumber) {
	case netstats.Duplicate, netstats.Stale:
		return
	}

	client.LastInputAtMs = s.ctx.NowMs()
	client.LastAckedInput = m.SequenceNumber

	if !p.IsDead {
		p.MoveForward = m.MoveForward
		p.MoveBackward = m.MoveBackward
		p.MoveLeft = m.MoveLeft
		p.MoveRight = m.MoveRight
		p.SetBarrelRotation(float64(m.BarrelRotation))
	}

	ack := &messages.InputAckMessage{
		PlayerID:             m.PlayerID,
		AcknowledgedSequence: m.SequenceNumber,
		ServerTimestamp:      s.ctx.NowMs(),
	}
	s.send(ack, addr)
}

func (s *Server) handlePlayerUpdate(m *messages.PlayerUpdateMessage, addr *net.UDPAddr) {
	if !worldconst.ValidateTimestamp(m.Timestamp, s.ctx.NowMs()) {
		return
	}
	client, ok := s.clients.ByAddr(addr)
	if !ok || client.PlayerID != m.PlayerID {
		return
	}
	p, ok := s.players[m.PlayerID]
	if !ok || p.IsDead {
		return
	}
	client.LastInputAtMs = s.ctx.NowMs()
	p.SetPosition(float64(m.X), float64(m.Y))
	p.SetBodyRotation(float64(m.BodyRotation))
	p.SetBarrelRotation(float64(m.BarrelRotation))
	p.MoveForward, p.MoveBackward = m.MoveForward, m.MoveBackward
	p.MoveLeft, p.MoveRight = m.MoveLeft, m.MoveRight
}

func (s *Server) handlePing(m *messages.PingMessage, addr *net.UDPAddr) {
	pong := &messages.PongMessage{
		OriginalTimestamp: m.Timestamp,
		SequenceNumber:    m.SequenceNumber,
	}
	s.send(pong, addr)
}

func (s *Server) handleBulletSpawn(m *messages.BulletSpawnMessage, addr *net.UDPAddr) {
	client, ok := s.clients.ByAddr(addr)
	if !ok || client.PlayerID != m.PlayerID {
		return
	}
	p, ok := s.players[m.PlayerID]
	if !ok || p.IsDead {
		return
	}
	if len(s.bullets) >= maxBulletSpawnsPerTick*8 {
		return // resource exhaustion guard: drop rather than grow unbounded
	}

	id := s.nextBulletID
	s.nextBulletID++
	b := entities.NewBullet(id, entities.BulletPlayer, p.ID, p.X, p.Y, float64(m.BarrelRotation))
	s.bullets[id] = b
}

// --- simulation ------------------------------------------------------------

func (s *Server) simulatePlayers(dt float64) {
	for _, p := range s.players {
		if p.IsDead {
			p.DeathTimer -= dt
			if p.DeathTimer <= 0 {
				x, y := s.findSpawnPoint()
				p.Respawn(x, y)
				s.broadcastRespawn(p)
			}
			continue
		}

		if p.MoveLeft != p.MoveRight {
			step := playerRotationSpeed * dt
			if p.MoveLeft {
				step = -step
			}
			p.SetBodyRotation(p.BodyRotation + step)
		}
		if p.MoveForward != p.MoveBackward {
			step := playerMoveSpeed * dt
			if p.MoveBackward {
				step = -step
			}
			rad := degToRad(p.BodyRotation)
			p.SetPosition(p.X+math.Cos(rad)*step, p.Y+math.Sin(rad)*step)
		}
	}
}

func (s *Server) simulateEnemies(dt float64) {
	infos := make([]ai.PlayerInfo, 0, len(s.players))
	for _, p := range s.players {
		infos = append(infos, ai.PlayerInfo{ID: p.ID, X: p.X, Y: p.Y, Health: p.Health, MaxHealth: p.MaxHealth, IsDead: p.IsDead})
	}

	for _, e := range s.enemies {
		shot := ai.Tick(e, dt, s.ctx, infos)
		if shot != nil {
			id := s.nextBulletID
			s.nextBulletID++
			rad := degToRad(shot.DirectionDeg)
			spawnX := e.X + math.Cos(rad)*entities.BarrelLength
			spawnY := e.Y + math.Sin(rad)*entities.BarrelLength
			s.bullets[id] = entities.NewBullet(id, entities.BulletEnemy, e.ID, spawnX, spawnY, shot.DirectionDeg)
		}
	}
}

func (s *Server) simulateBullets(dt float64) {
	bullets := s.bulletList()
	events := ballistics.Resolve(bullets, s.playerList(), s.enemyList(), dt)

	for _, ev := range events {
		ownerID := uint32(0)
		if b, ok := s.bullets[ev.BulletID]; ok {
			ownerID = b.OwnerID
		}
		delete(s.bullets, ev.BulletID)

		destroy := &messages.BulletDestroyMessage{
			BulletID:       ev.BulletID,
			DestroyReason:  uint8(ev.Reason),
			HitTargetID:    ev.TargetID,
			HitX:           float32(ev.X),
			HitY:           float32(ev.Y),
			Timestamp:      s.ctx.NowMs(),
			SequenceNumber: s.nextSeq(),
		}
		s.broadcast_(destroy)

		if !ev.TargetKilled {
			continue
		}
		switch ev.Reason {
		case entities.DestroyHitEnemy:
			s.onEnemyKilled(ev, ownerID)
		case entities.DestroyHitPlayer:
			s.onPlayerKilled(ev)
		}
	}
}

func (s *Server) onEnemyKilled(ev ballistics.HitEvent, killerID uint32) {
	e, ok := s.enemies[ev.TargetID]
	if !ok {
		return
	}
	delete(s.enemies, ev.TargetID)

	if p, ok := s.players[killerID]; ok {
		p.AddScore(e.Stats().ScoreValue)
	}
}

// onPlayerKilled always reports KillerID 0: the ownership partition in
// pkg/ballistics routes player-owned bullets to only ever hit enemies, so
// a DestroyHitPlayer event is only ever produced by an enemy's bullet.
// SPEC_FULL.md's killerId is "0 when killed by an enemy, the shooter's id
// otherwise" -- there is no player-vs-player path for it to carry.
func (s *Server) onPlayerKilled(ev ballistics.HitEvent) {
	p, ok := s.players[ev.TargetID]
	if !ok {
		return
	}
	p.Kill()

	death := &messages.PlayerDeathMessage{
		PlayerID:       p.ID,
		KillerID:       0,
		DeathX:         float32(p.X),
		DeathY:         float32(p.Y),
		ScorePenalty:   worldconst.DeathScorePenalty,
		Timestamp:      s.ctx.NowMs(),
		SequenceNumber: s.nextSeq(),
	}
	s.broadcast_(death)
}

// --- enemy spawn maintenance ------------------------------------------------

func (s *Server) maintainEnemySpawns(dt float64) {
	s.msSinceLastSpawnCheck += dt * 1000
	if s.msSinceLastSpawnCheck < float64(worldconst.SpawnInterval) {
		return
	}
	s.msSinceLastSpawnCheck = 0

	playerCount := len(s.players)
	enemyCap := enemyCountPerPlayer * playerCount
	if playerCount > 0 {
		enemyCap += baseEnemyCount
	}

	for len(s.enemies) < enemyCap {
		typ := entities.EnemyType(s.ctx.Rand.Intn(5))
		x, y := s.findSpawnPoint()
		id := s.nextEnemyID
		s.nextEnemyID++
		s.enemies[id] = entities.NewEnemy(id, typ, x, y)
	}
}

// --- broadcast ---------------------------------------------------------------

func (s *Server) broadcast(dt float64) {
	s.msSinceLastSnapshot += dt * 1000
	if s.msSinceLastSnapshot >= float64(worldconst.SnapshotInterval) {
		s.msSinceLastSnapshot = 0
		s.broadcastGameState()
	}

	s.msSinceLastBulletMsg += dt * 1000
	if s.msSinceLastBulletMsg >= float64(worldconst.BulletUpdateInterval) {
		s.msSinceLastBulletMsg = 0
		s.broadcastBulletUpdate()
	}
}

func (s *Server) broadcastGameState() {
	gs := &messages.GameStateMessage{
		Players:        make([]messages.PlayerData, 0, len(s.players)),
		Enemies:        make([]messages.EnemyData, 0, len(s.enemies)),
		Timestamp:      s.ctx.NowMs(),
		SequenceNumber: s.nextSeq(),
	}
	for _, p := range s.players {
		gs.Players = append(gs.Players, messages.PlayerData{
			PlayerID: p.ID, PlayerName: p.Name, X: float32(p.X), Y: float32(p.Y),
			BodyRotation: float32(p.BodyRotation), BarrelRotation: float32(p.BarrelRotation),
			Color: p.Color, MoveForward: p.MoveForward, MoveBackward: p.MoveBackward,
			MoveLeft: p.MoveLeft, MoveRight: p.MoveRight,
			Health: float32(p.Health), MaxHealth: float32(p.MaxHealth), Score: p.Score, IsDead: p.IsDead,
		})
	}
	for _, e := range s.enemies {
		gs.Enemies = append(gs.Enemies, messages.EnemyData{
			EnemyID: e.ID, EnemyType: uint8(e.Type), X: float32(e.X), Y: float32(e.Y),
			BodyRotation: float32(e.BodyRotation), BarrelRotation: float32(e.BarrelRotation),
			Health: float32(e.Health), MaxHealth: float32(e.MaxHealth),
		})
	}

	for _, c := range s.clients.All() {
		perClient := *gs
		perClient.LastAckedInput = c.LastAckedInput
		s.send(&perClient, c.Addr)
	}
}

func (s *Server) broadcastBulletUpdate() {
	bu := &messages.BulletUpdateMessage{
		Bullets:        make([]messages.BulletData, 0, len(s.bullets)),
		Timestamp:      s.ctx.NowMs(),
		SequenceNumber: s.nextSeq(),
	}
	for _, b := range s.bullets {
		rad := degToRad(b.Rotation)
		speed := b.Type.Speed()
		bu.Bullets = append(bu.Bullets, messages.BulletData{
			BulletID: b.ID, OwnerID: b.OwnerID, BulletType: uint8(b.Type),
			X: float32(b.X), Y: float32(b.Y),
			VelocityX: float32(math.Cos(rad) * speed), VelocityY: float32(math.Sin(rad) * speed),
			Rotation: float32(b.Rotation), Damage: float32(b.Damage),
			Lifetime: float32(entities.BulletLifetime - b.Age),
		})
	}
	s.broadcast_(bu)
}

func (s *Server) broadcastRespawn(p *entities.Player) {
	msg := &messages.PlayerRespawnMessage{
		PlayerID: p.ID, SpawnX: float32(p.X), SpawnY: float32(p.Y),
		Health: float32(p.Health), Timestamp: s.ctx.NowMs(), SequenceNumber: s.nextSeq(),
	}
	s.broadcast_(msg)
}

func (s *Server) broadcast_(msg interface{}) {
	for _, c := range s.clients.All() {
		s.send(msg, c.Addr)
	}
}

func (s *Server) send(msg interface{}, addr *net.UDPAddr) {
	data, err := messages.Encode(msg)
	if err != nil {
		s.logger.Warn("encode error for %T: %v", msg, err)
		return
	}

	client, hasClient := s.clients.ByAddr(addr)

	if err := s.transport.WriteTo(data, addr); err != nil {
		s.logger.Debug("write error to %s: %v", addr, err)
		if hasClient {
			client.RecordSendError()
		}
		return
	}
	if hasClient {
		client.RecordSendSuccess()
	}
}

// --- idle reap ---------------------------------------------------------------

func (s *Server) reapIdleClients() {
	now := s.ctx.NowMs()
	for _, c := range s.clients.All() {
		if now-c.LastInputAtMs > idleTimeoutMs {
			s.logger.Info("reaping idle client %d", c.PlayerID)
			delete(s.players, c.PlayerID)
			s.clients.Remove(c.PlayerID)
			continue
		}
		if c.Lost() {
			s.logger.Info("reaping client %d after %d consecutive send errors", c.PlayerID, c.ConsecutiveErrors)
			delete(s.players, c.PlayerID)
			s.clients.Remove(c.PlayerID)
		}
	}
}

// --- helpers ------------------------------------------------------------

func (s *Server) playerList() []*entities.Player {
	out := make([]*entities.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out
}

func (s *Server) enemyList() []*entities.Enemy {
	out := make([]*entities.Enemy, 0, len(s.enemies))
	for _, e := range s.enemies {
		out = append(out, e)
	}
	return out
}

func (s *Server) bulletList() []*entities.Bullet {
	out := make([]*entities.Bullet, 0, len(s.bullets))
	for _, b := range s.bullets {
		out = append(out, b)
	}
	return out
}

// findSpawnPoint searches for a position at least worldconst.RespawnSafeDistance
// from every enemy and alive player, falling back to the world center after
// worldconst.RespawnMaxAttempts tries (spec.md §4.7 step 5 / §3.3).
func (s *Server) findSpawnPoint() (float64, float64) {
	r := worldconst.Spawn
	for attempt := 0; attempt < worldconst.RespawnMaxAttempts; attempt++ {
		x := r.MinX + s.ctx.Rand.Float64()*r.Width()
		y := r.MinY + s.ctx.Rand.Float64()*r.Height()
		if s.isSafeSpawn(x, y) {
			return x, y
		}
	}
	return worldconst.CenterX, worldconst.CenterY
}

func (s *Server) isSafeSpawn(x, y float64) bool {
	for _, p := range s.players {
		if p.IsDead {
			continue
		}
		if distance(x, y, p.X, p.Y) < worldconst.RespawnSafeDistance {
			return false
		}
	}
	for _, e := range s.enemies {
		if distance(x, y, e.X, e.Y) < worldconst.RespawnSafeDistance {
			return false
		}
	}
	return true
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
