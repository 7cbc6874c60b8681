package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tankarena/arena/pkg/worldconst"
)

func TestNewPlayerClampsAndSetsFullHealth(t *testing.T) {
	p := NewPlayer(1, "Ada", "red", -9999, 9999)
	assert.True(t, worldconst.Movement.Contains(p.X, p.Y))
	assert.Equal(t, DefaultMaxHealth, p.Health)
	assert.Equal(t, DefaultMaxHealth, p.MaxHealth)
	assert.False(t, p.IsDead)
}

func TestPlayerApplyDamageKillsOnlyAtExactlyZero(t *testing.T) {
	p := NewPlayer(1, "Ada", "red", 100, 100)
	killed := p.ApplyDamage(DefaultMaxHealth - 0.0001)
	assert.False(t, killed)
	assert.False(t, p.IsDead)
	assert.Greater(t, p.Health, 0.0)

	killed = p.ApplyDamage(p.Health)
	assert.True(t, killed)
	assert.True(t, p.IsDead)
	assert.Equal(t, 0.0, p.Health)

	// A further kill call on an already-dead player reports no re-kill.
	killed = p.ApplyDamage(10)
	assert.False(t, killed)
}

func TestPlayerKillAppliesFlooredScorePenalty(t *testing.T) {
	p := NewPlayer(1, "Ada", "red", 100, 100)
	p.AddScore(50)
	p.Kill()
	assert.Equal(t, int32(0), p.Score)
	assert.True(t, p.IsDead)
	assert.Equal(t, worldconst.RespawnSeconds, p.DeathTimer)

	p2 := NewPlayer(2, "Bo", "blue", 100, 100)
	p2.AddScore(150)
	p2.Kill()
	assert.Equal(t, int32(50), p2.Score)
}

func TestPlayerRespawnResetsHealthAndPosition(t *testing.T) {
	p := NewPlayer(1, "Ada", "red", 100, 100)
	p.Kill()
	p.Respawn(200, 200)
	assert.False(t, p.IsDead)
	assert.Equal(t, 0.0, p.DeathTimer)
	assert.Equal(t, DefaultMaxHealth, p.Health)
	assert.True(t, worldconst.Movement.Contains(p.X, p.Y))
}

func TestEnemyStatsTableDistinctPerType(t *testing.T) {
	types := []EnemyType{EnemyRed, EnemyBlack, EnemyPurple, EnemyOrange, EnemyTeal}
	seen := map[float64]bool{}
	for _, typ := range types {
		s := typ.Stats()
		assert.Greater(t, s.MaxHealth, 0.0)
		assert.Greater(t, s.MovementSpeed, 0.0)
		assert.Greater(t, s.BurstSize, 0)
		seen[s.MaxHealth] = true
	}
	assert.Len(t, seen, len(types), "each enemy type should have a distinct max health")
}

func TestNewEnemyStartsPatrolAtFullHealth(t *testing.T) {
	e := NewEnemy(1000, EnemyRed, 500, 500)
	assert.Equal(t, AIPatrol, e.State)
	assert.Equal(t, e.Stats().MaxHealth, e.Health)
	assert.True(t, worldconst.IsEnemyID(e.ID))
}

func TestEnemySetStateResetsTimerOnlyOnChange(t *testing.T) {
	e := NewEnemy(1000, EnemyRed, 500, 500)
	e.StateTime = 5
	e.SetState(AIPatrol) // same state, no reset
	assert.Equal(t, 5.0, e.StateTime)

	e.SetState(AIChase)
	assert.Equal(t, AIChase, e.State)
	assert.Equal(t, 0.0, e.StateTime)
}

func TestEnemyApplyDamageKillsAtZero(t *testing.T) {
	e := NewEnemy(1000, EnemyPurple, 500, 500)
	killed := e.ApplyDamage(e.Stats().MaxHealth)
	assert.True(t, killed)
	assert.Equal(t, 0.0, e.Health)
}

func TestEnemyHealthFractionDrivesRetreatThreshold(t *testing.T) {
	e := NewEnemy(1000, EnemyRed, 500, 500)
	e.ApplyDamage(e.Stats().MaxHealth * 0.8)
	assert.InDelta(t, 0.2, e.HealthFraction(), 1e-9)
	assert.Less(t, e.HealthFraction(), e.Stats().RetreatHealthThreshold+0.2)
}

func TestEnemySetTargetAndClear(t *testing.T) {
	e := NewEnemy(1000, EnemyTeal, 500, 500)
	assert.False(t, e.HasTarget())
	e.SetTarget(7, 600, 600)
	assert.True(t, e.HasTarget())
	assert.Equal(t, uint32(7), e.TargetPlayerID)
	e.ClearTarget()
	assert.False(t, e.HasTarget())
}

func TestNewBulletAssignsDamageByType(t *testing.T) {
	pb := NewBullet(10000, BulletPlayer, 1, 0, 0, 0)
	assert.Equal(t, PlayerBulletDamage, pb.Damage)

	eb := NewBullet(10001, BulletEnemy, 1000, 0, 0, 0)
	assert.Equal(t, EnemyBulletDamage, eb.Damage)
	assert.True(t, worldconst.IsBulletID(eb.ID))
}

func TestNewBulletShellAndTracerVariants(t *testing.T) {
	shell := NewBullet(10002, BulletShell, 1, 0, 0, 0)
	assert.Equal(t, ShellDamage, shell.Damage)
	assert.Equal(t, ShellSpeed, BulletShell.Speed())

	tracer := NewBullet(10003, BulletTracer, 1, 0, 0, 0)
	assert.Equal(t, TracerDamage, tracer.Damage)
	assert.Equal(t, TracerSpeed, BulletTracer.Speed())
}

func TestBulletExpiredAndOutOfBounds(t *testing.T) {
	b := NewBullet(10000, BulletPlayer, 1, worldconst.CenterX, worldconst.CenterY, 0)
	assert.False(t, b.Expired())
	assert.False(t, b.OutOfBounds())

	b.Age = BulletLifetime
	assert.True(t, b.Expired())

	b.X = -1000
	assert.True(t, b.OutOfBounds())
}
