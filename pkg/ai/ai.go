// Package ai implements the enemy AI state machine (spec.md §4.5/C5):
// five states (Idle, Patrol, Chase, Attack, Retreat), steering with edge
// avoidance, burst-fire shooting with accuracy spread, and target
// selection. Grounded on the transition table and parameter semantics of
// original_source/SFML-ECS-Networking/EnemyTank.cpp/.h, reimplemented as
// pure functions over entities.Enemy rather than a C++ class hierarchy --
// idiomatic Go favors a function operating on state over virtual dispatch,
// and there is exactly one enemy state shape here regardless of type.
package ai

import (
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/simctx"
	"github.com/tankarena/arena/pkg/worldconst"
)

const (
	idleDuration          float64 = 3.0
	waypointReachedRadius float64 = 50.0
	patrolWaitDuration    float64 = 2.0
	retreatBoundaryRadius float64 = 50.0
	retreatSafetyMargin   float64 = 100.0
	idleBarrelSweepDegPerSec float64 = 30.0
)

// ShotEvent is emitted when an enemy fires during this tick, carrying
// enough information for the caller to spawn a bullet at the barrel end.
type ShotEvent struct {
	DirectionDeg float64
}

// Tick advances one enemy's AI by dt seconds and returns the shot fired
// this tick, if any. players is the authoritative live-player snapshot
// for this tick, used for target acquisition/tracking.
func Tick(e *entities.Enemy, dt float64, ctx *simctx.Context, players []PlayerInfo) *ShotEvent {
	stats := e.Stats()

	RefreshTarget(e, players)
	if !e.HasTarget() {
		SelectTarget(e, players)
	}

	if e.HealthFraction() <= stats.RetreatHealthThreshold && e.State != entities.AIRetreat {
		e.SetState(entities.AIRetreat)
	}

	e.StateTime += dt
	if e.ShootCooldown > 0 {
		e.ShootCooldown -= dt
	}

	switch e.State {
	case entities.AIIdle:
		tickIdle(e, dt)
	case entities.AIPatrol:
		tickPatrol(e, dt, ctx, stats)
	case entities.AIChase:
		tickChase(e, dt, stats)
	case entities.AIAttack:
		return tickAttack(e, dt, ctx, stats)
	case entities.AIRetreat:
		tickRetreat(e, dt)
	}
	return nil
}

func tickIdle(e *entities.Enemy, dt float64) {
	e.SetBarrelRotation(e.BarrelRotation + idleBarrelSweepDegPerSec*dt)
	if e.StateTime >= idleDuration {
		e.SetState(entities.AIPatrol)
	}
}

func tickPatrol(e *entities.Enemy, dt float64, ctx *simctx.Context, stats entities.EnemyStats) {
	if e.HasTarget() {
		if distance(e.X, e.Y, e.LastKnownTargetX, e.LastKnownTargetY) <= stats.DetectionRange {
			e.SetState(entities.AIChase)
			return
		}
	}

	if e.PatrolWaitTimer > 0 {
		e.PatrolWaitTimer -= dt
		if e.PatrolWaitTimer <= 0 {
			e.PatrolWaypointX, e.PatrolWaypointY = randomSpawnPoint(ctx)
		}
		return
	}

	if distance(e.X, e.Y, e.PatrolWaypointX, e.PatrolWaypointY) <= waypointReachedRadius {
		e.PatrolWaitTimer = patrolWaitDuration
		return
	}

	MoveTowardsWithAvoidance(e, e.PatrolWaypointX, e.PatrolWaypointY, dt)
}

func tickChase(e *entities.Enemy, dt float64, stats entities.EnemyStats) {
	if !e.HasTarget() {
		e.SetState(entities.AIPatrol)
		return
	}
	d := distance(e.X, e.Y, e.LastKnownTargetX, e.LastKnownTargetY)
	if d <= 0.7*stats.AttackRange {
		e.SetState(entities.AIAttack)
		return
	}
	if d > 1.5*stats.DetectionRange {
		e.ClearTarget()
		e.SetState(entities.AIPatrol)
		return
	}
	MoveTowards(e, e.LastKnownTargetX, e.LastKnownTargetY, dt)
}

func tickAttack(e *entities.Enemy, dt float64, ctx *simctx.Context, stats entities.EnemyStats) *ShotEvent {
	if !e.HasTarget() {
		e.SetState(entities.AIPatrol)
		return nil
	}
	d := distance(e.X, e.Y, e.LastKnownTargetX, e.LastKnownTargetY)
	if d > 1.5*stats.AttackRange {
		e.SetState(entities.AIChase)
		return nil
	}

	targetAngle := angleTo(e.LastKnownTargetX-e.X, e.LastKnownTargetY-e.Y)
	step := stats.RotationSpeed * dt
	e.SetBodyRotation(rotateToward(e.BodyRotation, targetAngle, step))
	e.SetBarrelRotation(rotateToward(e.BarrelRotation, targetAngle, step))

	switch {
	case d < 0.6*stats.AttackRange:
		advance(e, -stats.MovementSpeed, dt) // back away, too close
	case d > 1.1*stats.AttackRange:
		advance(e, stats.MovementSpeed, dt) // close the gap
	}

	angleDiff := shortestAngleDiff(e.BarrelRotation, targetAngle)
	if angleDiff < 0 {
		angleDiff = -angleDiff
	}
	threshold := aimThreshold(d, stats.AttackRange)

	if angleDiff > threshold || e.ShootCooldown > 0 {
		return nil
	}
	return fire(e, ctx, stats, targetAngle)
}

func tickRetreat(e *entities.Enemy, dt float64) {
	stats := e.Stats()
	if e.HealthFraction() > stats.RetreatHealthThreshold {
		e.SetState(entities.AIPatrol)
		return
	}

	threatX, threatY := e.LastKnownTargetX, e.LastKnownTargetY
	haveThreat := e.HasTarget()

	if edgeDistance(e.X, e.Y) <= retreatBoundaryRadius && haveThreat {
		awayX, awayY := 2*e.X-threatX, 2*e.Y-threatY
		safeX := 0.6*awayX + 0.4*worldconst.CenterX
		safeY := 0.6*awayY + 0.4*worldconst.CenterY
		margin := worldconst.Rect{
			MinX: worldconst.Movement.MinX + retreatSafetyMargin,
			MinY: worldconst.Movement.MinY + retreatSafetyMargin,
			MaxX: worldconst.Movement.MaxX - retreatSafetyMargin,
			MaxY: worldconst.Movement.MaxY - retreatSafetyMargin,
		}
		safeX, safeY = worldconst.ClampToRect(safeX, safeY, margin)
		MoveTowards(e, safeX, safeY, dt)
		return
	}

	if haveThreat {
		MoveAwayFrom(e, threatX, threatY, dt)
	}
}

// aimThreshold widens the acceptable aim error as the optimal-band
// distance grows, matching spec.md §4.5.1's "45° close, 60° mid, 75° far".
func aimThreshold(d, attackRange float64) float64 {
	switch {
	case d <= 0.6*attackRange:
		return 45
	case d <= 1.1*attackRange:
		return 60
	default:
		return 75
	}
}

// randomSpawnPoint picks a point uniformly inside the spawn rectangle for
// a new patrol waypoint (spec.md §4.5.1).
func randomSpawnPoint(ctx *simctx.Context) (float64, float64) {
	r := worldconst.Spawn
	x := r.MinX + ctx.Rand.Float64()*r.Width()
	y := r.MinY + ctx.Rand.Float64()*r.Height()
	return x, y
}

func fire(e *entities.Enemy, ctx *simctx.Context, stats entities.EnemyStats, targetAngle float64) *ShotEvent {
	spread := (1 - stats.BaseAccuracy) * stats.AccuracySpreadDeg
	offset := (ctx.Rand.Float64()*2 - 1) * spread
	dir := targetAngle + offset

	e.ShotsInBurst++
	if e.ShotsInBurst >= stats.BurstSize {
		e.ShootCooldown = stats.ShootCooldown * 1.5
		e.ShotsInBurst = 0
	} else {
		e.ShootCooldown = stats.ShootCooldown
	}
	return &ShotEvent{DirectionDeg: dir}
}
