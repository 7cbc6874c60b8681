// Package messages defines the wire message types of the UDP protocol
// (spec.md §6) and their binary codec. Unlike the teacher's
// flatbuffers+zstd envelope (cbodonnell-flywheel/pkg/messages/serialize.go),
// the wire format here is a single leading unsigned tag byte followed by
// fixed little-endian fields, per spec.md's explicit framing requirement.
// Most messages end with a (timestamp int64, sequenceNumber uint32) pair.
// GameState carries LastAckedInput after that pair, InputAcknowledgment
// carries a server timestamp and no sequence number, and Pong carries the
// original ping timestamp alongside its sequence number. Struct and field names are restored from
// original_source/SFML-ECS-Networking/network_messages.h, translated from
// sf::Packet operator<</>> overloads to explicit Encode/Decode methods.
package messages

// Tag identifies the wire message type, matching
// original_source/SFML-ECS-Networking/network_messages.h's NetMessageType
// enum. Tag 5 (PLAYER_LIST) is not implemented: its payload is a strict
// subset of GameState's player list and spec.md never requires it
// separately.
type Tag uint8

const (
	TagJoin Tag = 1
	// TagLeave is never sent on the wire: a player leaving is derived by
	// the server from a socket error or an idle timeout (spec.md §4.2),
	// never an incoming message. Reserved so tag numbering matches the
	// original protocol for anyone cross-referencing captures.
	TagLeave Tag = 2
	// TagPlayerUpdate is the legacy full-state update; PlayerInput (9)
	// superseded it for client->server traffic, but spec.md keeps the tag
	// reserved and servers must still be able to decode it.
	TagPlayerUpdate     Tag = 3
	TagGameState        Tag = 4
	TagIDAssign         Tag = 6
	TagPing             Tag = 7
	TagPong             Tag = 8
	TagPlayerInput      Tag = 9
	TagInputAck         Tag = 10
	TagBulletSpawn      Tag = 11
	TagBulletUpdate     Tag = 12
	TagBulletDestroy    Tag = 13
	TagPlayerDeath      Tag = 14
	TagPlayerRespawn    Tag = 15
)

// PlayerData is the per-player snapshot embedded in GameState messages.
type PlayerData struct {
	PlayerID       uint32
	PlayerName     string
	X, Y           float32
	BodyRotation   float32
	BarrelRotation float32
	Color          string
	MoveForward    bool
	MoveBackward   bool
	MoveLeft       bool
	MoveRight      bool
	Health         float32
	MaxHealth      float32
	Score          int32
	IsDead         bool
}

// EnemyData is the per-enemy snapshot embedded in GameState messages.
type EnemyData struct {
	EnemyID        uint32
	EnemyType      uint8
	X, Y           float32
	BodyRotation   float32
	BarrelRotation float32
	Health         float32
	MaxHealth      float32
}

// BulletData is the per-bullet snapshot embedded in BulletUpdate messages.
type BulletData struct {
	BulletID             uint32
	OwnerID              uint32
	BulletType           uint8
	X, Y                 float32
	VelocityX, VelocityY float32
	Rotation             float32
	Damage               float32
	Lifetime             float32
	SpawnTime            int64
}

// JoinMessage is sent client -> server once, to enter the arena.
type JoinMessage struct {
	PlayerName      string
	PreferredColor  string
	Timestamp       int64
	SequenceNumber  uint32
}

// PlayerUpdateMessage is the legacy full client -> server state push.
type PlayerUpdateMessage struct {
	PlayerID       uint32
	X, Y           float32
	BodyRotation   float32
	BarrelRotation float32
	MoveForward    bool
	MoveBackward   bool
	MoveLeft       bool
	MoveRight      bool
	Timestamp      int64
	SequenceNumber uint32
}

// GameStateMessage is the periodic server -> all-clients world snapshot.
type GameStateMessage struct {
	Players        []PlayerData
	Enemies        []EnemyData
	Timestamp      int64
	SequenceNumber uint32
	LastAckedInput uint32
}

// IDAssignMessage tells a newly joined client its assigned player id.
type IDAssignMessage struct {
	PlayerID       uint32
	Timestamp      int64
	SequenceNumber uint32
}

// PingMessage is sent client -> server for RTT measurement.
type PingMessage struct {
	Timestamp      int64
	SequenceNumber uint32
}

// PongMessage echoes a PingMessage back, server -> client.
type PongMessage struct {
	OriginalTimestamp int64
	SequenceNumber    uint32
}

// PlayerInputMessage is the lightweight client -> server control message.
type PlayerInputMessage struct {
	PlayerID       uint32
	MoveForward    bool
	MoveBackward   bool
	MoveLeft       bool
	MoveRight      bool
	BarrelRotation float32
	Timestamp      int64
	SequenceNumber uint32
}

// InputAckMessage confirms the last input sequence the server applied.
type InputAckMessage struct {
	PlayerID             uint32
	AcknowledgedSequence uint32
	ServerTimestamp      int64
}

// BulletSpawnMessage requests (client -> server) or confirms
// (server -> clients) a new bullet.
type BulletSpawnMessage struct {
	PlayerID       uint32
	SpawnX, SpawnY float32
	DirectionX     float32
	DirectionY     float32
	BarrelRotation float32
	Timestamp      int64
	SequenceNumber uint32
}

// BulletUpdateMessage is the periodic server -> all-clients bullet snapshot.
type BulletUpdateMessage struct {
	Bullets        []BulletData
	Timestamp      int64
	SequenceNumber uint32
}

// BulletDestroyMessage notifies clients a bullet was removed and why.
type BulletDestroyMessage struct {
	BulletID       uint32
	DestroyReason  uint8
	HitTargetID    uint32
	HitX, HitY     float32
	Timestamp      int64
	SequenceNumber uint32
}

// PlayerDeathMessage notifies clients a player died.
type PlayerDeathMessage struct {
	PlayerID       uint32
	KillerID       uint32
	DeathX, DeathY float32
	ScorePenalty   int32
	Timestamp      int64
	SequenceNumber uint32
}

// PlayerRespawnMessage notifies clients a player respawned.
type PlayerRespawnMessage struct {
	PlayerID       uint32
	SpawnX, SpawnY float32
	Health         float32
	Timestamp      int64
	SequenceNumber uint32
}
