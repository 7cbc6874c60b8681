package entities

import "github.com/tankarena/arena/pkg/worldconst"

// EnemyType selects the numeric parameter bundle for an enemy (spec.md
// §3.1/§4.5). Exact constants are restored from
// original_source/SFML-ECS-Networking/EnemyTank.cpp's
// InitializeStats/InitializeAIParameters/InitializeShootingParameters
// (see SPEC_FULL.md §3), since spec.md itself only says "five numeric
// parameters" without giving the table.
type EnemyType uint8

const (
	EnemyRed EnemyType = iota
	EnemyBlack
	EnemyPurple
	EnemyOrange
	EnemyTeal
)

// String returns the human-readable enemy type name.
func (t EnemyType) String() string {
	switch t {
	case EnemyRed:
		return "Red"
	case EnemyBlack:
		return "Black"
	case EnemyPurple:
		return "Purple"
	case EnemyOrange:
		return "Orange"
	case EnemyTeal:
		return "Teal"
	default:
		return "Unknown"
	}
}

// EnemyStats is the immutable per-type parameter bundle.
type EnemyStats struct {
	MaxHealth     float64
	MovementSpeed float64 // units/s
	RotationSpeed float64 // deg/s
	ScoreValue    int32

	DetectionRange         float64
	AttackRange            float64
	RetreatHealthThreshold float64 // fraction of max health
	AggressionLevel        float64 // unused in control flow; kept for future

	ShootCooldown      float64 // seconds between shots; 1.5x after a burst's last shot
	BaseAccuracy       float64 // 0..1
	AccuracySpreadDeg  float64 // +/- degrees at zero accuracy
	BurstSize          int
}

// enemyStatsTable is indexed by EnemyType.
var enemyStatsTable = [...]EnemyStats{
	EnemyRed: {
		MaxHealth: 100, MovementSpeed: 80, RotationSpeed: 120, ScoreValue: 10,
		DetectionRange: 400, AttackRange: 250, RetreatHealthThreshold: 0.3, AggressionLevel: 0.5,
		ShootCooldown: 1.5, BaseAccuracy: 0.6, AccuracySpreadDeg: 15, BurstSize: 3,
	},
	EnemyBlack: {
		MaxHealth: 200, MovementSpeed: 50, RotationSpeed: 80, ScoreValue: 25,
		DetectionRange: 350, AttackRange: 300, RetreatHealthThreshold: 0.2, AggressionLevel: 0.3,
		ShootCooldown: 2.5, BaseAccuracy: 0.8, AccuracySpreadDeg: 8, BurstSize: 1,
	},
	EnemyPurple: {
		MaxHealth: 60, MovementSpeed: 150, RotationSpeed: 200, ScoreValue: 15,
		DetectionRange: 500, AttackRange: 200, RetreatHealthThreshold: 0.5, AggressionLevel: 0.7,
		ShootCooldown: 0.8, BaseAccuracy: 0.4, AccuracySpreadDeg: 25, BurstSize: 5,
	},
	EnemyOrange: {
		MaxHealth: 300, MovementSpeed: 40, RotationSpeed: 60, ScoreValue: 50,
		DetectionRange: 300, AttackRange: 350, RetreatHealthThreshold: 0.15, AggressionLevel: 0.8,
		ShootCooldown: 3.0, BaseAccuracy: 0.9, AccuracySpreadDeg: 5, BurstSize: 1,
	},
	EnemyTeal: {
		MaxHealth: 80, MovementSpeed: 120, RotationSpeed: 150, ScoreValue: 12,
		DetectionRange: 450, AttackRange: 220, RetreatHealthThreshold: 0.4, AggressionLevel: 0.6,
		ShootCooldown: 1.2, BaseAccuracy: 0.7, AccuracySpreadDeg: 12, BurstSize: 2,
	},
}

// Stats returns the numeric parameter bundle for this enemy type.
func (t EnemyType) Stats() EnemyStats {
	if int(t) < len(enemyStatsTable) {
		return enemyStatsTable[t]
	}
	return enemyStatsTable[EnemyRed]
}

// BarrelLength is the fixed barrel length used to compute bullet spawn
// position, common to all enemy types (EnemyTank.cpp InitializeShootingParameters).
const BarrelLength float64 = 20.0

// AIState is the enemy behavior state machine state (spec.md §4.5).
type AIState uint8

const (
	AIIdle AIState = iota
	AIPatrol
	AIChase
	AIAttack
	AIRetreat
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "Idle"
	case AIPatrol:
		return "Patrol"
	case AIChase:
		return "Chase"
	case AIAttack:
		return "Attack"
	case AIRetreat:
		return "Retreat"
	default:
		return "Unknown"
	}
}

// Enemy is the authoritative server-side state of one AI-controlled enemy.
type Enemy struct {
	ID   uint32
	Type EnemyType

	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64
	Health         float64
	MaxHealth      float64

	State     AIState
	StateTime float64 // seconds spent in current state

	TargetPlayerID    uint32 // 0 = none
	LastKnownTargetX  float64
	LastKnownTargetY  float64

	PatrolWaypointX, PatrolWaypointY float64
	PatrolWaitTimer                  float64

	ShootCooldown float64
	ShotsInBurst  int
}

// NewEnemy constructs an enemy of the given type at a clamped position,
// starting in Patrol state at full health.
func NewEnemy(id uint32, typ EnemyType, x, y float64) *Enemy {
	stats := typ.Stats()
	cx, cy := worldconst.ClampPosition(x, y)
	return &Enemy{
		ID:               id,
		Type:             typ,
		X:                cx,
		Y:                cy,
		MaxHealth:        stats.MaxHealth,
		Health:           stats.MaxHealth,
		State:            AIPatrol,
		PatrolWaypointX:  cx,
		PatrolWaypointY:  cy,
		LastKnownTargetX: cx,
		LastKnownTargetY: cy,
	}
}

// Stats returns this enemy's type parameter bundle.
func (e *Enemy) Stats() EnemyStats { return e.Type.Stats() }

// HealthFraction returns current/max health, used by the retreat threshold
// check.
func (e *Enemy) HealthFraction() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	return e.Health / e.MaxHealth
}

// SetBodyRotation normalizes and stores body rotation.
func (e *Enemy) SetBodyRotation(deg float64) { e.BodyRotation = worldconst.NormalizeRotation(deg) }

// SetBarrelRotation normalizes and stores barrel rotation.
func (e *Enemy) SetBarrelRotation(deg float64) {
	e.BarrelRotation = worldconst.NormalizeRotation(deg)
}

// SetPosition clamps position into the movement rectangle.
func (e *Enemy) SetPosition(x, y float64) { e.X, e.Y = worldconst.ClampPosition(x, y) }

// SetHealth clamps health into [0, maxHealth].
func (e *Enemy) SetHealth(h float64) {
	if h < 0 {
		h = 0
	}
	if h > e.MaxHealth {
		h = e.MaxHealth
	}
	e.Health = h
}

// ApplyDamage subtracts damage and reports whether it killed the enemy.
func (e *Enemy) ApplyDamage(damage float64) (killed bool) {
	if damage < 0 {
		damage = 0
	}
	e.SetHealth(e.Health - damage)
	return e.Health <= 0
}

// HasTarget reports whether the enemy currently has a target player.
func (e *Enemy) HasTarget() bool { return e.TargetPlayerID != 0 }

// ClearTarget drops the current target.
func (e *Enemy) ClearTarget() { e.TargetPlayerID = 0 }

// SetTarget assigns a new target player and its last-known position.
func (e *Enemy) SetTarget(playerID uint32, x, y float64) {
	e.TargetPlayerID = playerID
	e.LastKnownTargetX = x
	e.LastKnownTargetY = y
}

// SetState transitions the AI state and resets the state timer.
func (e *Enemy) SetState(s AIState) {
	if e.State == s {
		return
	}
	e.State = s
	e.StateTime = 0
}
