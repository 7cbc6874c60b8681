package ai

import (
	"math"

	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

const (
	// avoidanceSafeDistance is the minimum edge clearance an intended move
	// must keep to be considered "safe" (spec.md §4.5.3).
	avoidanceSafeDistance float64 = 80.0
	// avoidanceBlendDistance is the edge clearance below which the
	// center-pulling blend weight starts growing from zero.
	avoidanceBlendDistance float64 = 200.0
	// avoidanceSpeedScale is the speed multiplier applied while blending
	// away from an edge.
	avoidanceSpeedScale float64 = 0.7
)

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }

// angleTo returns the heading in degrees from the origin toward (dx, dy).
func angleTo(dx, dy float64) float64 {
	return worldconst.NormalizeRotation(math.Atan2(dy, dx) * 180.0 / math.Pi)
}

// shortestAngleDiff returns the signed difference (in [-180, 180)) that,
// added to from, yields to (mod 360).
func shortestAngleDiff(from, to float64) float64 {
	diff := math.Mod(to-from+540, 360) - 180
	return diff
}

// rotateToward steps current toward target by at most maxStep degrees,
// picking the shortest signed direction, snapping exactly when within
// maxStep (spec.md §4.5.3).
func rotateToward(current, target, maxStep float64) float64 {
	diff := shortestAngleDiff(current, target)
	if math.Abs(diff) <= maxStep {
		return worldconst.NormalizeRotation(target)
	}
	if diff < 0 {
		return worldconst.NormalizeRotation(current - maxStep)
	}
	return worldconst.NormalizeRotation(current + maxStep)
}

func distance(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	return math.Hypot(dx, dy)
}

// edgeDistance returns the distance from (x, y) to the nearest edge of the
// playable rectangle.
func edgeDistance(x, y float64) float64 {
	r := worldconst.Playable
	d := math.Min(x-r.MinX, r.MaxX-x)
	d = math.Min(d, y-r.MinY)
	d = math.Min(d, r.MaxY-y)
	return d
}

// MoveTowards rotates the enemy's body toward (tx, ty) at its type's
// rotation speed, then translates forward by movement_speed*dt along the
// (possibly just-updated) facing. Position is clamped by SetPosition.
func MoveTowards(e *entities.Enemy, tx, ty, dt float64) {
	stats := e.Stats()
	target := angleTo(tx-e.X, ty-e.Y)
	e.SetBodyRotation(rotateToward(e.BodyRotation, target, stats.RotationSpeed*dt))
	advance(e, stats.MovementSpeed, dt)
}

// MoveAwayFrom rotates and moves the enemy directly away from (threatX,
// threatY), used by the Retreat state's unconstrained case.
func MoveAwayFrom(e *entities.Enemy, threatX, threatY, dt float64) {
	stats := e.Stats()
	target := angleTo(e.X-threatX, e.Y-threatY)
	e.SetBodyRotation(rotateToward(e.BodyRotation, target, stats.RotationSpeed*dt))
	advance(e, stats.MovementSpeed, dt)
}

// MoveTowardsWithAvoidance behaves like MoveTowards, but blends the travel
// direction with a center-pointing vector when the intended position
// would land too close to the world edge (spec.md §4.5.3).
func MoveTowardsWithAvoidance(e *entities.Enemy, tx, ty, dt float64) {
	stats := e.Stats()
	target := angleTo(tx-e.X, ty-e.Y)
	newRot := rotateToward(e.BodyRotation, target, stats.RotationSpeed*dt)
	e.SetBodyRotation(newRot)

	rad := degToRad(newRot)
	dirX, dirY := math.Cos(rad), math.Sin(rad)
	intendedX := e.X + dirX*stats.MovementSpeed*dt
	intendedY := e.Y + dirY*stats.MovementSpeed*dt

	if edgeDistance(intendedX, intendedY) >= avoidanceSafeDistance {
		e.SetPosition(intendedX, intendedY)
		return
	}

	clearance := edgeDistance(intendedX, intendedY)
	weight := (avoidanceBlendDistance - clearance) / avoidanceBlendDistance
	if weight > 1 {
		weight = 1
	}
	if weight < 0 {
		weight = 0
	}

	centerDX, centerDY := worldconst.CenterX-e.X, worldconst.CenterY-e.Y
	centerLen := math.Hypot(centerDX, centerDY)
	if centerLen > 0 {
		centerDX, centerDY = centerDX/centerLen, centerDY/centerLen
	}

	blendX := dirX*(1-weight) + centerDX*weight
	blendY := dirY*(1-weight) + centerDY*weight
	blendLen := math.Hypot(blendX, blendY)
	if blendLen > 0 {
		blendX, blendY = blendX/blendLen, blendY/blendLen
	}

	speed := stats.MovementSpeed * avoidanceSpeedScale
	e.SetPosition(e.X+blendX*speed*dt, e.Y+blendY*speed*dt)
}

func advance(e *entities.Enemy, speed, dt float64) {
	rad := degToRad(e.BodyRotation)
	e.SetPosition(e.X+math.Cos(rad)*speed*dt, e.Y+math.Sin(rad)*speed*dt)
}
