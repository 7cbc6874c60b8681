// Package ballistics integrates bullet motion and resolves collisions
// against players and enemies (spec.md §4.6/C6). Broad-phase uses
// solarlune/resolv's grid space exactly as the teacher's collision setup
// (cbodonnell-flywheel/pkg/game/collisions.go, pkg/collisions/space.go)
// does for its platformer hitboxes; narrow-phase is exact circle-vs-circle
// math, since tanks and bullets are circles here rather than the
// teacher's axis-aligned rectangles.
package ballistics

import (
	"math"

	"github.com/solarlune/resolv"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

// Collision space tags, mirroring the string-tag style of
// cbodonnell-flywheel/pkg/game/types/gamestate.go's CollisionSpaceTag*
// constants.
const (
	TagPlayer string = "player"
	TagEnemy  string = "enemy"
	TagBullet string = "bullet"
)

const cellSize = 32

// NewSpace builds the grid used for this tick's broad-phase collision
// queries, sized to the world dimensions.
func NewSpace() *resolv.Space {
	return resolv.NewSpace(int(worldconst.WorldWidth), int(worldconst.WorldHeight), cellSize, cellSize)
}

// circleObject creates a resolv.Object whose bounding box is the given
// circle's, for broad-phase cell membership only; exact hit tests still
// use circleIntersect.
func circleObject(x, y, radius float64, tags ...string) *resolv.Object {
	d := radius * 2
	return resolv.NewObject(x-radius, y-radius, d, d, tags...)
}

// circleIntersect is the exact narrow-phase test: true if two circles
// (center + radius) overlap.
func circleIntersect(ax, ay, ar, bx, by, br float64) bool {
	dx, dy := bx-ax, by-ay
	rSum := ar + br
	return dx*dx+dy*dy <= rSum*rSum
}

// AddPlayer and AddEnemy register a target's bounding circle in the space
// for this tick's broad-phase pass and return the object so the caller
// can later test a bullet's object against it with SharesCells.
func AddPlayer(space *resolv.Space, p *entities.Player) *resolv.Object {
	obj := circleObject(p.X, p.Y, worldconst.TankRadius, TagPlayer)
	space.Add(obj)
	return obj
}

func AddEnemy(space *resolv.Space, e *entities.Enemy) *resolv.Object {
	obj := circleObject(e.X, e.Y, worldconst.TankRadius, TagEnemy)
	space.Add(obj)
	return obj
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }
