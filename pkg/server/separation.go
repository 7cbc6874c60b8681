package server

import (
	"math"

	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

// separationSpeed bounds how fast two overlapping tanks are pushed apart,
// in units/second (spec.md §4.7 step 5: "bounded positional push, at most
// 200·dt per pair, clamped back to the movement rectangle").
const separationSpeed = 200.0

type circleBody struct {
	x, y   *float64
	radius float64
}

// Separate resolves overlap between every pair of player/enemy tanks by
// pushing each member of an overlapping pair directly apart along the line
// between their centers, splitting the correction evenly. Positions are
// clamped back into the movement rectangle afterward so a push can never
// shove a tank through the border.
//
// Grounded on the teacher's broad-phase-then-push shape in
// cbodonnell-flywheel/pkg/game/collisions.go, generalized from its
// single-entity-type AABB check to circle-vs-circle across two entity
// kinds sharing one id space.
func Separate(players []*entities.Player, enemies []*entities.Enemy, dt float64) {
	bodies := make([]circleBody, 0, len(players)+len(enemies))
	for _, p := range players {
		if p.IsDead {
			continue
		}
		bodies = append(bodies, circleBody{x: &p.X, y: &p.Y, radius: worldconst.TankRadius})
	}
	for _, e := range enemies {
		bodies = append(bodies, circleBody{x: &e.X, y: &e.Y, radius: worldconst.TankRadius})
	}

	maxPush := separationSpeed * dt

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			dx := *b.x - *a.x
			dy := *b.y - *a.y
			dist := math.Hypot(dx, dy)
			minDist := a.radius + b.radius
			if dist >= minDist {
				continue
			}

			var nx, ny float64
			if dist < 1e-6 {
				nx, ny = 1, 0
			} else {
				nx, ny = dx/dist, dy/dist
			}

			overlap := minDist - dist
			push := overlap / 2
			if push > maxPush {
				push = maxPush
			}

			*a.x -= nx * push
			*a.y -= ny * push
			*b.x += nx * push
			*b.y += ny * push

			*a.x, *a.y = worldconst.ClampPosition(*a.x, *a.y)
			*b.x, *b.y = worldconst.ClampPosition(*b.x, *b.y)
		}
	}
}
