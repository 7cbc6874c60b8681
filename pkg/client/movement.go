// Package client implements the client-side runtime (spec.md §4.10/C10):
// the input tick, the snapshot tick that feeds remote entities into
// interpolation and stashes the local player's server-authoritative state,
// three-tier reconciliation, and bullet sync. Grounded on the shape of
// cbodonnell-flywheel/client/game/game.go's tick-driven update loop,
// generalized from its platformer kinematics to this spec's tank
// rotate-then-translate movement model (shared verbatim with the
// server's simulatePlayers so prediction and authority never drift on the
// movement formula itself).
package client

import (
	"math"

	"github.com/tankarena/arena/pkg/worldconst"
)

const (
	bodyRotationSpeed = 200.0 // deg/s
	moveSpeed         = 150.0 // u/s
)

// applyMovement steps one tank's pose by dt seconds under the four
// movement flags, matching pkg/server's simulatePlayers exactly (spec.md
// §4.7 step 2 / §4.10's input tick: "body rotation at 200°/s, translate at
// 150 u/s along body facing").
func applyMovement(x, y, bodyRotation float64, forward, backward, left, right bool, dt float64) (nx, ny, nRotation float64) {
	if left != right {
		step := bodyRotationSpeed * dt
		if left {
			step = -step
		}
		bodyRotation = normalizeRotation(bodyRotation + step)
	}
	if forward != backward {
		step := moveSpeed * dt
		if backward {
			step = -step
		}
		rad := bodyRotation * math.Pi / 180
		x += math.Cos(rad) * step
		y += math.Sin(rad) * step
	}
	x, y = worldconst.ClampPosition(x, y)
	return x, y, bodyRotation
}

func normalizeRotation(r float64) float64 {
	m := math.Mod(r, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// aimBarrel points the barrel at (mouseX, mouseY) from (x, y), in degrees.
func aimBarrel(x, y, mouseX, mouseY float64) float64 {
	return normalizeRotation(math.Atan2(mouseY-y, mouseX-x) * 180 / math.Pi)
}
