package entities

import "github.com/tankarena/arena/pkg/worldconst"

// BulletType distinguishes the four bullet variants named in spec.md
// §3.1 ("PlayerStandard, EnemyStandard, Shell, Tracer"). Ownership (and
// therefore which entities a bullet can hit) is still derived from
// OwnerID's id-range partition, not from Type; Type only selects the
// damage/speed bundle. Shell and Tracer are supplemental variants not
// otherwise described by spec.md -- Shell is a slower, harder-hitting
// player round and Tracer is a zero-damage marker round, both restored
// from the original protocol's bulletType enum (network_messages.h) since
// the distilled spec kept only the two types it actually used in its
// worked examples.
type BulletType uint8

const (
	BulletPlayer BulletType = iota
	BulletEnemy
	BulletShell
	BulletTracer
)

// DestroyReason explains why a bullet was removed, restored from
// original_source/SFML-ECS-Networking/network_messages.h's BulletDestroyMessage
// destroyReason field (spec.md's distillation dropped it; SPEC_FULL.md §3
// adds it back since clients use it to pick the right despawn effect).
type DestroyReason uint8

const (
	DestroyExpired DestroyReason = iota
	DestroyHitPlayer
	DestroyHitEnemy
	DestroyHitBorder
)

func (r DestroyReason) String() string {
	switch r {
	case DestroyExpired:
		return "Expired"
	case DestroyHitPlayer:
		return "HitPlayer"
	case DestroyHitEnemy:
		return "HitEnemy"
	case DestroyHitBorder:
		return "HitBorder"
	default:
		return "Unknown"
	}
}

// BulletSpeed is the speed of standard player and enemy bullets (Shell and
// Tracer bullets use ShellSpeed and TracerSpeed); BulletLifetime applies to
// every bullet (spec.md §4.6).
const (
	BulletSpeed    float64 = 500.0 // units/s
	BulletLifetime float64 = 2.0   // seconds before DestroyExpired
)

// Damage and speed bundles per bullet type.
const (
	PlayerBulletDamage float64 = 20.0
	EnemyBulletDamage  float64 = 10.0
	ShellDamage        float64 = 40.0
	TracerDamage       float64 = 0.0

	ShellSpeed  float64 = 350.0
	TracerSpeed float64 = 700.0
)

// Bullet is the authoritative server-side state of one in-flight bullet.
type Bullet struct {
	ID      uint32
	Type    BulletType
	OwnerID uint32 // firing player or enemy id

	X, Y       float64
	Rotation   float64 // direction of travel, degrees
	Age        float64 // seconds since spawn
	Damage     float64
}

// NewBullet constructs a bullet at the given position and heading. Position
// is not clamped to the movement rectangle: a bullet fired from a tank at
// the border edge legitimately starts outside Movement, and border
// collision is resolved explicitly by the ballistics package.
func NewBullet(id uint32, typ BulletType, ownerID uint32, x, y, rotationDeg float64) *Bullet {
	var damage float64
	switch typ {
	case BulletEnemy:
		damage = EnemyBulletDamage
	case BulletShell:
		damage = ShellDamage
	case BulletTracer:
		damage = TracerDamage
	default:
		damage = PlayerBulletDamage
	}
	return &Bullet{
		ID:       id,
		Type:     typ,
		OwnerID:  ownerID,
		X:        x,
		Y:        y,
		Rotation: worldconst.NormalizeRotation(rotationDeg),
		Damage:   damage,
	}
}

// Speed returns the travel speed for this bullet's type.
func (t BulletType) Speed() float64 {
	switch t {
	case BulletShell:
		return ShellSpeed
	case BulletTracer:
		return TracerSpeed
	default:
		return BulletSpeed
	}
}

// Expired reports whether the bullet has outlived BulletLifetime.
func (b *Bullet) Expired() bool { return b.Age >= BulletLifetime }

// OutOfBounds reports whether the bullet center has left the playable
// rectangle, used to trigger DestroyHitBorder.
func (b *Bullet) OutOfBounds() bool { return !worldconst.Playable.Contains(b.X, b.Y) }
