package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/simctx"
)

func newCtx() *simctx.Context {
	return simctx.New(1, nil)
}

func TestIdleTransitionsToPatrolAfterDuration(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetState(entities.AIIdle)
	ctx := newCtx()
	for i := 0; i < 40; i++ {
		Tick(e, 0.1, ctx, nil)
	}
	assert.Equal(t, entities.AIPatrol, e.State)
}

func TestPatrolMovesTowardWaypoint(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.PatrolWaypointX, e.PatrolWaypointY = 700, 500
	ctx := newCtx()
	startDist := distance(e.X, e.Y, e.PatrolWaypointX, e.PatrolWaypointY)
	Tick(e, 0.1, ctx, nil)
	endDist := distance(e.X, e.Y, e.PatrolWaypointX, e.PatrolWaypointY)
	assert.LessOrEqual(t, endDist, startDist)
}

func TestPatrolTransitionsToChaseWhenTargetInRange(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	ctx := newCtx()
	players := []PlayerInfo{{ID: 1, X: 550, Y: 500, Health: 100, MaxHealth: 100}}
	Tick(e, 0.1, ctx, players)
	assert.Equal(t, entities.AIChase, e.State)
}

func TestChaseTransitionsToAttackWithinBand(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetState(entities.AIChase)
	stats := e.Stats()
	e.SetTarget(1, 500+0.5*stats.AttackRange, 500)
	ctx := newCtx()
	Tick(e, 0.1, ctx, []PlayerInfo{{ID: 1, X: 500 + 0.5*stats.AttackRange, Y: 500, Health: 100, MaxHealth: 100}})
	assert.Equal(t, entities.AIAttack, e.State)
}

func TestChaseLosesTargetWhenFar(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetState(entities.AIChase)
	stats := e.Stats()
	far := stats.DetectionRange * 2
	e.SetTarget(1, 500+far, 500)
	ctx := newCtx()
	Tick(e, 0.1, ctx, nil) // target not in players -> RefreshTarget clears it before the Chase check even runs
	assert.Equal(t, entities.AIPatrol, e.State)
	assert.False(t, e.HasTarget())
}

func TestGlobalRetreatPreconditionOverridesState(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetState(entities.AIChase)
	e.ApplyDamage(e.Stats().MaxHealth * 0.8) // leaves 20% health, below RED's 30% retreat threshold
	ctx := newCtx()
	Tick(e, 0.1, ctx, nil)
	assert.Equal(t, entities.AIRetreat, e.State)
}

func TestRetreatReturnsToPatrolWhenHealthRecovers(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetState(entities.AIRetreat)
	ctx := newCtx()
	Tick(e, 0.1, ctx, nil) // full health, above threshold
	assert.Equal(t, entities.AIPatrol, e.State)
}

func TestAttackFiresWhenAimedAndCooldownReady(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyOrange, 500, 500) // high accuracy, narrow spread
	e.SetState(entities.AIAttack)
	stats := e.Stats()
	targetX, targetY := 500+stats.AttackRange*0.8, 500.0
	e.SetTarget(1, targetX, targetY)
	e.BodyRotation = angleTo(targetX-e.X, targetY-e.Y)
	e.BarrelRotation = e.BodyRotation
	e.ShootCooldown = 0
	ctx := newCtx()

	var shot *ShotEvent
	for i := 0; i < 5 && shot == nil; i++ {
		shot = Tick(e, 0.05, ctx, []PlayerInfo{{ID: 1, X: targetX, Y: targetY, Health: 100, MaxHealth: 100}})
	}
	assert.NotNil(t, shot)
	assert.Greater(t, e.ShootCooldown, 0.0)
}

func TestBurstResetMultipliesCooldown(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	stats := e.Stats()
	e.ShotsInBurst = stats.BurstSize - 1
	ctx := newCtx()
	shot := fire(e, ctx, stats, 0)
	assert.NotNil(t, shot)
	assert.Equal(t, 0, e.ShotsInBurst)
	assert.InDelta(t, stats.ShootCooldown*1.5, e.ShootCooldown, 1e-9)
}

func TestSelectTargetPrefersCloserAndWeakerPlayer(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	players := []PlayerInfo{
		{ID: 1, X: 900, Y: 500, Health: 100, MaxHealth: 100},
		{ID: 2, X: 550, Y: 500, Health: 20, MaxHealth: 100},
	}
	found := SelectTarget(e, players)
	assert.True(t, found)
	assert.Equal(t, uint32(2), e.TargetPlayerID)
}

func TestSelectTargetIgnoresOutOfRangeAndDead(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyPurple, 500, 500)
	stats := e.Stats()
	players := []PlayerInfo{
		{ID: 1, X: 500 + stats.DetectionRange*3, Y: 500, Health: 100, MaxHealth: 100},
		{ID: 2, X: 550, Y: 500, Health: 100, MaxHealth: 100, IsDead: true},
	}
	found := SelectTarget(e, players)
	assert.False(t, found)
}

func TestRefreshTargetClearsOnDisconnect(t *testing.T) {
	e := entities.NewEnemy(1000, entities.EnemyRed, 500, 500)
	e.SetTarget(1, 600, 500)
	RefreshTarget(e, nil)
	assert.False(t, e.HasTarget())
}

func TestShortestAngleDiffWrapsCorrectly(t *testing.T) {
	assert.InDelta(t, -10.0, shortestAngleDiff(350, 340), 1e-9)
	assert.InDelta(t, 20.0, shortestAngleDiff(350, 10), 1e-9)
}

func TestRotateTowardSnapsWithinStep(t *testing.T) {
	got := rotateToward(10, 12, 5)
	assert.InDelta(t, 12.0, got, 1e-9)
}
