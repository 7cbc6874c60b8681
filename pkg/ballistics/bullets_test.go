package ballistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

func TestStepIntegratesPositionAndAge(t *testing.T) {
	b := entities.NewBullet(10000, entities.BulletPlayer, 1, 0, 0, 0) // heading +x
	Step(b, 1.0)
	assert.InDelta(t, entities.BulletSpeed, b.X, 1e-6)
	assert.InDelta(t, 0, b.Y, 1e-6)
	assert.InDelta(t, 1.0, b.Age, 1e-9)
}

func TestResolveExpiresBulletPastLifetime(t *testing.T) {
	b := entities.NewBullet(10000, entities.BulletPlayer, 1, worldconst.CenterX, worldconst.CenterY, 0)
	b.Age = entities.BulletLifetime
	events := Resolve([]*entities.Bullet{b}, nil, nil, 0.01)
	assert.Len(t, events, 1)
	assert.Equal(t, entities.DestroyExpired, events[0].Reason)
}

func TestResolveDestroysBulletCrossingBorder(t *testing.T) {
	b := entities.NewBullet(10000, entities.BulletPlayer, 1, worldconst.Playable.MinX-10, worldconst.CenterY, 0)
	events := Resolve([]*entities.Bullet{b}, nil, nil, 0.0)
	assert.Len(t, events, 1)
	assert.Equal(t, entities.DestroyHitBorder, events[0].Reason)
}

func TestResolvePlayerBulletHitsEnemy(t *testing.T) {
	enemy := entities.NewEnemy(1000, entities.EnemyRed, worldconst.CenterX, worldconst.CenterY)
	b := entities.NewBullet(10000, entities.BulletPlayer, 1, worldconst.CenterX, worldconst.CenterY, 0)

	events := Resolve([]*entities.Bullet{b}, nil, []*entities.Enemy{enemy}, 0.0)
	assert.Len(t, events, 1)
	assert.Equal(t, entities.DestroyHitEnemy, events[0].Reason)
	assert.Equal(t, enemy.ID, events[0].TargetID)
	assert.Less(t, enemy.Health, enemy.Stats().MaxHealth)
}

func TestResolveEnemyBulletHitsPlayer(t *testing.T) {
	player := entities.NewPlayer(1, "Ada", "red", worldconst.CenterX, worldconst.CenterY)
	b := entities.NewBullet(10000, entities.BulletEnemy, 1000, worldconst.CenterX, worldconst.CenterY, 0)

	events := Resolve([]*entities.Bullet{b}, []*entities.Player{player}, nil, 0.0)
	assert.Len(t, events, 1)
	assert.Equal(t, entities.DestroyHitPlayer, events[0].Reason)
	assert.Equal(t, player.ID, events[0].TargetID)
}

func TestResolveBulletMissesOutOfRangeTarget(t *testing.T) {
	enemy := entities.NewEnemy(1000, entities.EnemyRed, worldconst.CenterX+500, worldconst.CenterY)
	b := entities.NewBullet(10000, entities.BulletPlayer, 1, worldconst.CenterX, worldconst.CenterY, 0)

	events := Resolve([]*entities.Bullet{b}, nil, []*entities.Enemy{enemy}, 0.0)
	assert.Empty(t, events)
}

func TestResolveIgnoresDeadPlayersAsTargets(t *testing.T) {
	player := entities.NewPlayer(1, "Ada", "red", worldconst.CenterX, worldconst.CenterY)
	player.Kill()
	b := entities.NewBullet(10000, entities.BulletEnemy, 1000, worldconst.CenterX, worldconst.CenterY, 0)

	events := Resolve([]*entities.Bullet{b}, []*entities.Player{player}, nil, 0.0)
	assert.Empty(t, events)
}

func TestCircleIntersect(t *testing.T) {
	assert.True(t, circleIntersect(0, 0, 5, 8, 0, 5))
	assert.False(t, circleIntersect(0, 0, 5, 20, 0, 5))
}
