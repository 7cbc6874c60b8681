package server

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

func TestSeparatePushesOverlappingPlayersApart(t *testing.T) {
	a := entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)
	b := entities.NewPlayer(2, "B", "blue", worldconst.CenterX+10, worldconst.CenterY)

	before := math.Hypot(b.X-a.X, b.Y-a.Y)
	Separate([]*entities.Player{a, b}, nil, 1.0)
	after := math.Hypot(b.X-a.X, b.Y-a.Y)

	assert.Greater(t, after, before)
}

func TestSeparateBoundsPushByDtBudget(t *testing.T) {
	a := entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)
	b := entities.NewPlayer(2, "B", "blue", worldconst.CenterX, worldconst.CenterY)

	Separate([]*entities.Player{a, b}, nil, 0.001)
	moved := math.Hypot(a.X-worldconst.CenterX, a.Y-worldconst.CenterY)
	assert.LessOrEqual(t, moved, separationSpeed*0.001+1e-9)
}

func TestSeparateIgnoresNonOverlappingPairs(t *testing.T) {
	a := entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)
	b := entities.NewPlayer(2, "B", "blue", worldconst.CenterX+500, worldconst.CenterY)
	ax, ay := a.X, a.Y
	bx, by := b.X, b.Y

	Separate([]*entities.Player{a, b}, nil, 1.0)

	assert.Equal(t, ax, a.X)
	assert.Equal(t, ay, a.Y)
	assert.Equal(t, bx, b.X)
	assert.Equal(t, by, b.Y)
}

func TestSeparateSkipsDeadPlayers(t *testing.T) {
	a := entities.NewPlayer(1, "A", "red", worldconst.CenterX, worldconst.CenterY)
	a.Kill()
	enemy := entities.NewEnemy(1000, entities.EnemyRed, worldconst.CenterX, worldconst.CenterY)
	ex, ey := enemy.X, enemy.Y

	Separate([]*entities.Player{a}, []*entities.Enemy{enemy}, 1.0)

	assert.Equal(t, ex, enemy.X)
	assert.Equal(t, ey, enemy.Y)
}

func TestSeparateClampsIntoMovementRect(t *testing.T) {
	a := entities.NewPlayer(1, "A", "red", worldconst.Movement.MinX, worldconst.CenterY)
	b := entities.NewPlayer(2, "B", "blue", worldconst.Movement.MinX+1, worldconst.CenterY)

	Separate([]*entities.Player{a, b}, nil, 100.0)

	assert.True(t, worldconst.Movement.Contains(a.X, a.Y))
	assert.True(t, worldconst.Movement.Contains(b.X, b.Y))
}
