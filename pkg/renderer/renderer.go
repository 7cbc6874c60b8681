// Package renderer defines the thin adaptation-layer boundary between the
// simulation core and a concrete rendering backend. Nothing in
// pkg/server, pkg/client, pkg/entities, pkg/ai, or pkg/ballistics imports
// this package or anything that would pull in sprite/texture/font
// dependencies -- the core only ever produces plain render states
// (interpolation.RenderState, client.LocalPlayer, client.RemoteEnemy,
// client.ClientBullet) and a concrete Renderer consumes them from outside
// (spec.md §1 Out of scope, §9 Design Notes: "an external renderer trait
// the simulation never calls").
package renderer

// TankView is the drawable state of one tank, player or enemy.
type TankView struct {
	EntityID       uint32
	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64
	Color          string
	HealthFraction float64
	IsDead         bool
}

// BulletView is the drawable state of one bullet.
type BulletView struct {
	EntityID uint32
	X, Y     float64
	Rotation float64
	Type     uint8
}

// Frame is everything a renderer needs to draw one frame, assembled by the
// caller (cmd/client) from client.Runtime's exposed state each render tick.
type Frame struct {
	LocalTank TankView
	Tanks     []TankView
	Bullets   []BulletView
}

// Renderer is implemented by a concrete rendering backend (an Ebiten game,
// a headless recorder for tests, a terminal renderer). The simulation core
// never imports or calls an implementation of this interface; only the
// cmd/client and cmd/arena hosts do, wiring Runtime's output into Draw
// each render tick.
type Renderer interface {
	Draw(frame Frame) error
}

// Null is a no-op Renderer, useful for headless runs and tests that drive
// Runtime without a display.
type Null struct{}

func (Null) Draw(Frame) error { return nil }
