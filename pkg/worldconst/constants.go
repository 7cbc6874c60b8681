// Package worldconst defines the world's fixed geometry and the validators
// every other package uses to keep entity state inside it. Grounded on
// original_source/SFML-ECS-Networking/world_constants.h, translated from
// constexpr float globals to a Go const block plus derived-rectangle helpers.
package worldconst

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the rectangle's width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the rectangle's height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether the point lies within the rectangle, inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

const (
	// WorldWidth and WorldHeight are the total window/world dimensions.
	WorldWidth  float64 = 1280.0
	WorldHeight float64 = 960.0

	// BorderThickness is the thickness of the border decoration around the
	// playable area.
	BorderThickness float64 = 48.0

	// TankRadius is the collision radius of a player or enemy tank.
	TankRadius float64 = 25.0

	// BulletRadius is the collision radius of a bullet.
	BulletRadius float64 = 4.0

	// SpawnSafetyMargin is extra margin beyond the movement rectangle used
	// when choosing spawn points.
	SpawnSafetyMargin float64 = 10.0

	// RespawnSafeDistance is the minimum distance a respawn point must keep
	// from every enemy and every alive player.
	RespawnSafeDistance float64 = 200.0

	// RespawnMaxAttempts bounds the random-position search before falling
	// back to the world center.
	RespawnMaxAttempts int = 10
)

var (
	// Playable is the world rectangle shrunk by the border thickness.
	Playable = Rect{
		MinX: BorderThickness,
		MinY: BorderThickness,
		MaxX: WorldWidth - BorderThickness,
		MaxY: WorldHeight - BorderThickness,
	}

	// Movement is the playable rectangle shrunk by the tank radius; entity
	// centers are clamped into this rectangle.
	Movement = Rect{
		MinX: Playable.MinX + TankRadius,
		MinY: Playable.MinY + TankRadius,
		MaxX: Playable.MaxX - TankRadius,
		MaxY: Playable.MaxY - TankRadius,
	}

	// Spawn is the movement rectangle shrunk by the spawn safety margin.
	Spawn = Rect{
		MinX: Movement.MinX + SpawnSafetyMargin,
		MinY: Movement.MinY + SpawnSafetyMargin,
		MaxX: Movement.MaxX - SpawnSafetyMargin,
		MaxY: Movement.MaxY - SpawnSafetyMargin,
	}

	// CenterX and CenterY are the world center, used as the respawn
	// fallback position.
	CenterX = WorldWidth / 2.0
	CenterY = WorldHeight / 2.0
)

// Id ranges: players < 1000 <= enemies < 10000 <= bullets (spec.md §3.1/§3.2).
const (
	MinPlayerID uint32 = 1
	MaxPlayerID uint32 = 999
	MinEnemyID  uint32 = 1000
	MaxEnemyID  uint32 = 9999
	MinBulletID uint32 = 10000
)

// IsPlayerID reports whether id falls in the player id range.
func IsPlayerID(id uint32) bool { return id >= MinPlayerID && id <= MaxPlayerID }

// IsEnemyID reports whether id falls in the enemy id range.
func IsEnemyID(id uint32) bool { return id >= MinEnemyID && id <= MaxEnemyID }

// IsBulletID reports whether id falls in the bullet id range.
func IsBulletID(id uint32) bool { return id >= MinBulletID }

// Tick-rate constants (spec.md §6), fixed and not user-configurable.
const (
	SnapshotInterval    = 22  // ms, GameState broadcast
	BulletUpdateInterval = 33 // ms, BulletUpdate broadcast
	PingInterval        = 1000 // ms
	SpawnInterval       = 5000 // ms, enemy spawn check interval
	IdleTimeoutSeconds  = 15.0 // s, client idle disconnect
	RespawnSeconds      = 5.0  // s, death->respawn timer
	DeathScorePenalty   = 100  // points lost on death, floored at 0
)
