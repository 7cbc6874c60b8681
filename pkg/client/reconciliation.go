package client

import (
	"math"

	"github.com/tankarena/arena/pkg/prediction"
)

// Reconciliation error-distance tier boundaries (spec.md §4.10).
const (
	tier1IgnoreBelow   = 5.0
	tier2LerpBelow     = 30.0
	tier3SnapBelow     = 50.0
	tier2LerpRate      = 6.0 // u/s
	tier2StopWithin    = 2.0 // u
)

// Reconcile compares the local player's predicted pose against the
// server-authoritative position this tick and applies the matching tier:
// ignore, smooth lerp, snap-halfway-plus-partial-replay, or hard-snap-plus-
// full-replay (spec.md §4.10). Barrel rotation is never touched here --
// it is mouse-authoritative on the client. replay re-simulates flagged
// buffered inputs against the corrected pose so prediction stays
// consistent going forward.
func Reconcile(lp *LocalPlayer, server ServerPlayerState, predictor *prediction.Predictor, dt float64) {
	errDist := math.Hypot(server.X-lp.X, server.Y-lp.Y)

	switch {
	case errDist < tier1IgnoreBelow:
		return

	case errDist < tier2LerpBelow:
		lerpToward(lp, server.X, server.Y, dt)

	case errDist < tier3SnapBelow:
		lp.X = (lp.X + server.X) / 2
		lp.Y = (lp.Y + server.Y) / 2
		lp.BodyRotation = server.BodyRotation
		predictor.MarkForReplay(lp.LastAckedSeq)
		replay(lp, predictor)

	default:
		lp.X, lp.Y = server.X, server.Y
		lp.BodyRotation = server.BodyRotation
		predictor.MarkForReplay(lp.LastAckedSeq)
		replay(lp, predictor)
	}
}

// lerpToward moves (lp.X, lp.Y) toward (tx, ty) at tier2LerpRate units per
// second, stopping once within tier2StopWithin units.
func lerpToward(lp *LocalPlayer, tx, ty float64, dt float64) {
	dx, dy := tx-lp.X, ty-lp.Y
	dist := math.Hypot(dx, dy)
	if dist <= tier2StopWithin {
		return
	}
	step := tier2LerpRate * dt
	remaining := dist - tier2StopWithin
	if step > remaining {
		step = remaining
	}
	lp.X += dx / dist * step
	lp.Y += dy / dist * step
}

// replay re-applies every buffered input flagged needs_replay, in
// sequence order, against the corrected pose, so the predictor's notion
// of "where this input led" is consistent with the snap that just
// happened. Barrel rotation is intentionally left alone (mouse-authoritative).
func replay(lp *LocalPlayer, predictor *prediction.Predictor) {
	for _, input := range predictor.GetInputsToReplay() {
		lp.X, lp.Y, lp.BodyRotation = applyMovement(
			lp.X, lp.Y, lp.BodyRotation,
			input.MoveForward, input.MoveBackward, input.MoveLeft, input.MoveRight,
			input.DeltaTime,
		)
	}
}
