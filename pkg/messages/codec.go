package messages

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeErrorKind classifies a wire decode failure.
type DecodeErrorKind int

const (
	ErrTruncated DecodeErrorKind = iota
	ErrUnknownTag
	ErrInvalidEnum
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ErrTruncated:
		return "truncated"
	case ErrUnknownTag:
		return "unknown tag"
	case ErrInvalidEnum:
		return "invalid enum"
	default:
		return "unknown"
	}
}

// DecodeError reports where in the packet a decode failure occurred, so
// callers can log a useful diagnostic without a hex dump (spec.md §7 "a
// malformed datagram is dropped and logged, never crashes the tick loop").
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("messages: decode error %s at offset %d", e.Kind, e.Offset)
}

// writer accumulates fixed little-endian fields and length-prefixed
// strings, matching spec.md §6's "packet begins with one unsigned tag byte
// followed by fixed fields" framing.
type writer struct {
	buf bytes.Buffer
}

func newWriter(tag Tag) *writer {
	w := &writer{}
	w.buf.WriteByte(byte(tag))
	return w
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) boolean(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

// reader walks a decoded packet's payload (tag byte already consumed by
// the caller), tracking offset for DecodeError reporting.
type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *reader { return &reader{data: data, offset: 1} }

func (r *reader) need(n int) error {
	if r.offset+n > len(r.data) {
		return &DecodeError{Kind: ErrTruncated, Offset: r.offset}
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// str reads a u32-length-prefixed string, rejecting an implausibly large
// length outright rather than attempting a huge allocation on a corrupt or
// malicious packet.
func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if n > 4096 {
		return "", &DecodeError{Kind: ErrTruncated, Offset: r.offset - 4}
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.data[r.offset : r.offset+int(n)])
	r.offset += int(n)
	return s, nil
}

// Encode serializes msg to its wire form. msg must be one of the message
// struct types defined in messages.go; any other type is a programmer
// error.
func Encode(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case *JoinMessage:
		w := newWriter(TagJoin)
		w.str(m.PlayerName)
		w.str(m.PreferredColor)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PlayerUpdateMessage:
		w := newWriter(TagPlayerUpdate)
		w.u32(m.PlayerID)
		w.f32(m.X)
		w.f32(m.Y)
		w.f32(m.BodyRotation)
		w.f32(m.BarrelRotation)
		w.boolean(m.MoveForward)
		w.boolean(m.MoveBackward)
		w.boolean(m.MoveLeft)
		w.boolean(m.MoveRight)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *GameStateMessage:
		w := newWriter(TagGameState)
		w.u32(uint32(len(m.Players)))
		for _, p := range m.Players {
			w.u32(p.PlayerID)
			w.str(p.PlayerName)
			w.f32(p.X)
			w.f32(p.Y)
			w.f32(p.BodyRotation)
			w.f32(p.BarrelRotation)
			w.str(p.Color)
			w.boolean(p.MoveForward)
			w.boolean(p.MoveBackward)
			w.boolean(p.MoveLeft)
			w.boolean(p.MoveRight)
			w.f32(p.Health)
			w.f32(p.MaxHealth)
			w.i32(p.Score)
			w.boolean(p.IsDead)
		}
		w.u32(uint32(len(m.Enemies)))
		for _, e := range m.Enemies {
			w.u32(e.EnemyID)
			w.u8(e.EnemyType)
			w.f32(e.X)
			w.f32(e.Y)
			w.f32(e.BodyRotation)
			w.f32(e.BarrelRotation)
			w.f32(e.Health)
			w.f32(e.MaxHealth)
		}
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		w.u32(m.LastAckedInput)
		return w.bytes(), nil

	case *IDAssignMessage:
		w := newWriter(TagIDAssign)
		w.u32(m.PlayerID)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PingMessage:
		w := newWriter(TagPing)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PongMessage:
		w := newWriter(TagPong)
		w.i64(m.OriginalTimestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PlayerInputMessage:
		w := newWriter(TagPlayerInput)
		w.u32(m.PlayerID)
		w.boolean(m.MoveForward)
		w.boolean(m.MoveBackward)
		w.boolean(m.MoveLeft)
		w.boolean(m.MoveRight)
		w.f32(m.BarrelRotation)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *InputAckMessage:
		w := newWriter(TagInputAck)
		w.u32(m.PlayerID)
		w.u32(m.AcknowledgedSequence)
		w.i64(m.ServerTimestamp)
		return w.bytes(), nil

	case *BulletSpawnMessage:
		w := newWriter(TagBulletSpawn)
		w.u32(m.PlayerID)
		w.f32(m.SpawnX)
		w.f32(m.SpawnY)
		w.f32(m.DirectionX)
		w.f32(m.DirectionY)
		w.f32(m.BarrelRotation)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *BulletUpdateMessage:
		w := newWriter(TagBulletUpdate)
		w.u32(uint32(len(m.Bullets)))
		for _, b := range m.Bullets {
			w.u32(b.BulletID)
			w.u32(b.OwnerID)
			w.u8(b.BulletType)
			w.f32(b.X)
			w.f32(b.Y)
			w.f32(b.VelocityX)
			w.f32(b.VelocityY)
			w.f32(b.Rotation)
			w.f32(b.Damage)
			w.f32(b.Lifetime)
			w.i64(b.SpawnTime)
		}
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *BulletDestroyMessage:
		w := newWriter(TagBulletDestroy)
		w.u32(m.BulletID)
		w.u8(m.DestroyReason)
		w.u32(m.HitTargetID)
		w.f32(m.HitX)
		w.f32(m.HitY)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PlayerDeathMessage:
		w := newWriter(TagPlayerDeath)
		w.u32(m.PlayerID)
		w.u32(m.KillerID)
		w.f32(m.DeathX)
		w.f32(m.DeathY)
		w.i32(m.ScorePenalty)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	case *PlayerRespawnMessage:
		w := newWriter(TagPlayerRespawn)
		w.u32(m.PlayerID)
		w.f32(m.SpawnX)
		w.f32(m.SpawnY)
		w.f32(m.Health)
		w.i64(m.Timestamp)
		w.u32(m.SequenceNumber)
		return w.bytes(), nil

	default:
		return nil, fmt.Errorf("messages: Encode: unsupported type %T", msg)
	}
}

// Decode parses a datagram into its concrete message type. The returned
// value is always one of the pointer types defined in messages.go.
func Decode(data []byte) (interface{}, error) {
	if len(data) < 1 {
		return nil, &DecodeError{Kind: ErrTruncated, Offset: 0}
	}
	tag := Tag(data[0])
	r := newReader(data)

	switch tag {
	case TagJoin:
		m := &JoinMessage{}
		var err error
		if m.PlayerName, err = r.str(); err != nil {
			return nil, err
		}
		if m.PreferredColor, err = r.str(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPlayerUpdate:
		m := &PlayerUpdateMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.X, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Y, err = r.f32(); err != nil {
			return nil, err
		}
		if m.BodyRotation, err = r.f32(); err != nil {
			return nil, err
		}
		if m.BarrelRotation, err = r.f32(); err != nil {
			return nil, err
		}
		if m.MoveForward, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveBackward, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveLeft, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveRight, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagGameState:
		m := &GameStateMessage{}
		var err error
		var n uint32
		if n, err = r.u32(); err != nil {
			return nil, err
		}
		if n > 0 {
			m.Players = make([]PlayerData, 0, n)
		}
		for i := uint32(0); i < n; i++ {
			var p PlayerData
			if p.PlayerID, err = r.u32(); err != nil {
				return nil, err
			}
			if p.PlayerName, err = r.str(); err != nil {
				return nil, err
			}
			if p.X, err = r.f32(); err != nil {
				return nil, err
			}
			if p.Y, err = r.f32(); err != nil {
				return nil, err
			}
			if p.BodyRotation, err = r.f32(); err != nil {
				return nil, err
			}
			if p.BarrelRotation, err = r.f32(); err != nil {
				return nil, err
			}
			if p.Color, err = r.str(); err != nil {
				return nil, err
			}
			if p.MoveForward, err = r.boolean(); err != nil {
				return nil, err
			}
			if p.MoveBackward, err = r.boolean(); err != nil {
				return nil, err
			}
			if p.MoveLeft, err = r.boolean(); err != nil {
				return nil, err
			}
			if p.MoveRight, err = r.boolean(); err != nil {
				return nil, err
			}
			if p.Health, err = r.f32(); err != nil {
				return nil, err
			}
			if p.MaxHealth, err = r.f32(); err != nil {
				return nil, err
			}
			if p.Score, err = r.i32(); err != nil {
				return nil, err
			}
			if p.IsDead, err = r.boolean(); err != nil {
				return nil, err
			}
			m.Players = append(m.Players, p)
		}
		if n, err = r.u32(); err != nil {
			return nil, err
		}
		if n > 0 {
			m.Enemies = make([]EnemyData, 0, n)
		}
		for i := uint32(0); i < n; i++ {
			var e EnemyData
			if e.EnemyID, err = r.u32(); err != nil {
				return nil, err
			}
			if e.EnemyType, err = r.u8(); err != nil {
				return nil, err
			}
			if e.EnemyType > 4 {
				return nil, &DecodeError{Kind: ErrInvalidEnum, Offset: r.offset - 1}
			}
			if e.X, err = r.f32(); err != nil {
				return nil, err
			}
			if e.Y, err = r.f32(); err != nil {
				return nil, err
			}
			if e.BodyRotation, err = r.f32(); err != nil {
				return nil, err
			}
			if e.BarrelRotation, err = r.f32(); err != nil {
				return nil, err
			}
			if e.Health, err = r.f32(); err != nil {
				return nil, err
			}
			if e.MaxHealth, err = r.f32(); err != nil {
				return nil, err
			}
			m.Enemies = append(m.Enemies, e)
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		if m.LastAckedInput, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagIDAssign:
		m := &IDAssignMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPing:
		m := &PingMessage{}
		var err error
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPong:
		m := &PongMessage{}
		var err error
		if m.OriginalTimestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPlayerInput:
		m := &PlayerInputMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.MoveForward, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveBackward, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveLeft, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.MoveRight, err = r.boolean(); err != nil {
			return nil, err
		}
		if m.BarrelRotation, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagInputAck:
		m := &InputAckMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.AcknowledgedSequence, err = r.u32(); err != nil {
			return nil, err
		}
		if m.ServerTimestamp, err = r.i64(); err != nil {
			return nil, err
		}
		return m, nil

	case TagBulletSpawn:
		m := &BulletSpawnMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.SpawnX, err = r.f32(); err != nil {
			return nil, err
		}
		if m.SpawnY, err = r.f32(); err != nil {
			return nil, err
		}
		if m.DirectionX, err = r.f32(); err != nil {
			return nil, err
		}
		if m.DirectionY, err = r.f32(); err != nil {
			return nil, err
		}
		if m.BarrelRotation, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagBulletUpdate:
		m := &BulletUpdateMessage{}
		var err error
		var n uint32
		if n, err = r.u32(); err != nil {
			return nil, err
		}
		if n > 0 {
			m.Bullets = make([]BulletData, 0, n)
		}
		for i := uint32(0); i < n; i++ {
			var b BulletData
			if b.BulletID, err = r.u32(); err != nil {
				return nil, err
			}
			if b.OwnerID, err = r.u32(); err != nil {
				return nil, err
			}
			if b.BulletType, err = r.u8(); err != nil {
				return nil, err
			}
			if b.X, err = r.f32(); err != nil {
				return nil, err
			}
			if b.Y, err = r.f32(); err != nil {
				return nil, err
			}
			if b.VelocityX, err = r.f32(); err != nil {
				return nil, err
			}
			if b.VelocityY, err = r.f32(); err != nil {
				return nil, err
			}
			if b.Rotation, err = r.f32(); err != nil {
				return nil, err
			}
			if b.Damage, err = r.f32(); err != nil {
				return nil, err
			}
			if b.Lifetime, err = r.f32(); err != nil {
				return nil, err
			}
			if b.SpawnTime, err = r.i64(); err != nil {
				return nil, err
			}
			m.Bullets = append(m.Bullets, b)
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagBulletDestroy:
		m := &BulletDestroyMessage{}
		var err error
		if m.BulletID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.DestroyReason, err = r.u8(); err != nil {
			return nil, err
		}
		if m.DestroyReason > 3 {
			return nil, &DecodeError{Kind: ErrInvalidEnum, Offset: r.offset - 1}
		}
		if m.HitTargetID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.HitX, err = r.f32(); err != nil {
			return nil, err
		}
		if m.HitY, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPlayerDeath:
		m := &PlayerDeathMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.KillerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.DeathX, err = r.f32(); err != nil {
			return nil, err
		}
		if m.DeathY, err = r.f32(); err != nil {
			return nil, err
		}
		if m.ScorePenalty, err = r.i32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	case TagPlayerRespawn:
		m := &PlayerRespawnMessage{}
		var err error
		if m.PlayerID, err = r.u32(); err != nil {
			return nil, err
		}
		if m.SpawnX, err = r.f32(); err != nil {
			return nil, err
		}
		if m.SpawnY, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Health, err = r.f32(); err != nil {
			return nil, err
		}
		if m.Timestamp, err = r.i64(); err != nil {
			return nil, err
		}
		if m.SequenceNumber, err = r.u32(); err != nil {
			return nil, err
		}
		return m, nil

	default:
		return nil, &DecodeError{Kind: ErrUnknownTag, Offset: 0}
	}
}
