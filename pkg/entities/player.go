// Package entities holds the plain value types for players, enemies, and
// bullets (spec.md §3.1/§4.4), plus the tagged-variant parameter bundles for
// enemy type and bullet type. Constructors and setters enforce the
// invariants of §3.2: rotation normalization, health clamping, id-range
// membership. Grounded on the teacher's pkg/game/types value-type style
// (cbodonnell-flywheel/pkg/game/types/playerstate.go), generalized from a
// platformer's single animation-state struct to the richer tank/health/score
// model this spec needs.
package entities

import "github.com/tankarena/arena/pkg/worldconst"

// DefaultMaxHealth is the max health of a freshly spawned/respawned player.
const DefaultMaxHealth float64 = 100.0

// Player is the authoritative server-side state of one connected player.
type Player struct {
	ID            uint32
	Name          string
	Color         string
	X, Y          float64
	BodyRotation  float64
	BarrelRotation float64
	MoveForward   bool
	MoveBackward  bool
	MoveLeft      bool
	MoveRight     bool
	Health        float64
	MaxHealth     float64
	Score         int32
	IsDead        bool
	DeathTimer    float64 // seconds remaining until respawn

	LastInputSeq   uint32 // last applied PlayerInput sequence
	LastInputAtMs  int64  // wall time of last received input, for idle reap
}

// NewPlayer constructs a player at the given position with full health,
// normalizing rotation and clamping position into the movement rectangle.
func NewPlayer(id uint32, name, color string, x, y float64) *Player {
	cx, cy := worldconst.ClampPosition(x, y)
	return &Player{
		ID:        id,
		Name:      name,
		Color:     color,
		X:         cx,
		Y:         cy,
		MaxHealth: DefaultMaxHealth,
		Health:    DefaultMaxHealth,
	}
}

// SetBodyRotation normalizes and stores the body rotation.
func (p *Player) SetBodyRotation(deg float64) {
	p.BodyRotation = worldconst.NormalizeRotation(deg)
}

// SetBarrelRotation normalizes and stores the barrel rotation. Barrel
// rotation is a client-authoritative hint accepted verbatim after
// normalization (spec.md §3.2).
func (p *Player) SetBarrelRotation(deg float64) {
	p.BarrelRotation = worldconst.NormalizeRotation(deg)
}

// SetPosition clamps the position into the movement rectangle.
func (p *Player) SetPosition(x, y float64) {
	p.X, p.Y = worldconst.ClampPosition(x, y)
}

// SetMaxHealth updates max health; a non-positive value is a no-op (the
// setter warns rather than corrupting state, per spec.md §4.4).
func (p *Player) SetMaxHealth(max float64) {
	if max <= 0 {
		return
	}
	p.MaxHealth = max
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// SetHealth clamps health into [0, maxHealth].
func (p *Player) SetHealth(h float64) {
	if h < 0 {
		h = 0
	}
	if h > p.MaxHealth {
		h = p.MaxHealth
	}
	p.Health = h
}

// ApplyDamage subtracts damage (clamped to nonnegative) and reports whether
// this damage killed the player (health reached exactly 0, not merely near
// it -- spec.md §8 "Health at exactly 0 triggers death; health = 0.0001 does
// not").
func (p *Player) ApplyDamage(damage float64) (killed bool) {
	if damage < 0 {
		damage = 0
	}
	p.SetHealth(p.Health - damage)
	if p.Health <= 0 && !p.IsDead {
		p.IsDead = true
		return true
	}
	return false
}

// Kill marks the player dead, applies the death score penalty floored at
// zero, and starts the respawn timer (spec.md §3.3).
func (p *Player) Kill() {
	p.IsDead = true
	p.Health = 0
	p.Score -= worldconst.DeathScorePenalty
	if p.Score < 0 {
		p.Score = 0
	}
	p.DeathTimer = worldconst.RespawnSeconds
}

// Respawn clears death state at the given position with full health.
func (p *Player) Respawn(x, y float64) {
	p.IsDead = false
	p.DeathTimer = 0
	p.MaxHealth = DefaultMaxHealth
	p.Health = DefaultMaxHealth
	p.SetPosition(x, y)
}

// AddScore credits points, allowing negative deltas (kept non-negative
// overall only via Kill's explicit floor; score itself is signed per
// spec.md §3.1).
func (p *Player) AddScore(delta int32) {
	p.Score += delta
}
