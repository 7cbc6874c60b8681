package ballistics

import (
	"math"

	"github.com/solarlune/resolv"
	"github.com/tankarena/arena/pkg/entities"
	"github.com/tankarena/arena/pkg/worldconst"
)

// HitEvent reports one bullet's resolution this tick: removal plus, for
// non-expiry reasons, the target that was damaged.
type HitEvent struct {
	BulletID     uint32
	Reason       entities.DestroyReason
	TargetID     uint32 // 0 if none (Expired, HitBorder)
	TargetKilled bool
	Damage       float64
	X, Y         float64
}

// Step integrates one bullet's position and age by dt seconds (spec.md
// §4.6: "position += velocity · dt, lifetime -= dt").
func Step(b *entities.Bullet, dt float64) {
	speed := b.Type.Speed()
	rad := degToRad(b.Rotation)
	b.X += math.Cos(rad) * speed * dt
	b.Y += math.Sin(rad) * speed * dt
	b.Age += dt
}

// Resolve steps every bullet, then destroys it on expiry, border
// crossing, or a hit against an opposing entity. Ownership partitions who
// a bullet can hit: a bullet whose OwnerID falls in the player id range
// can only hit enemies, and vice versa, per spec.md §3.2's id-range
// partition and §4.6's "determined by owner id partition".
//
// Players, enemies, and bullets are mutated in place (health reduced,
// positions advanced); the returned events tell the caller which bullets
// to drop from its own list and which score bookkeeping to apply.
func Resolve(bullets []*entities.Bullet, players []*entities.Player, enemies []*entities.Enemy, dt float64) []HitEvent {
	space := NewSpace()

	playerObjs := make(map[*resolv.Object]*entities.Player, len(players))
	for _, p := range players {
		if p.IsDead {
			continue
		}
		playerObjs[AddPlayer(space, p)] = p
	}

	enemyObjs := make(map[*resolv.Object]*entities.Enemy, len(enemies))
	for _, e := range enemies {
		enemyObjs[AddEnemy(space, e)] = e
	}

	var events []HitEvent
	for _, b := range bullets {
		Step(b, dt)

		if b.Expired() {
			events = append(events, HitEvent{BulletID: b.ID, Reason: entities.DestroyExpired, X: b.X, Y: b.Y})
			continue
		}
		if b.OutOfBounds() {
			events = append(events, HitEvent{BulletID: b.ID, Reason: entities.DestroyHitBorder, X: b.X, Y: b.Y})
			continue
		}

		bulletObj := circleObject(b.X, b.Y, worldconst.BulletRadius, TagBullet)
		space.Add(bulletObj)

		var hit *HitEvent
		if worldconst.IsPlayerID(b.OwnerID) {
			hit = findEnemyHit(bulletObj, b, enemyObjs, entities.DestroyHitEnemy)
		} else {
			hit = findPlayerHit(bulletObj, b, playerObjs, entities.DestroyHitPlayer)
		}
		space.Remove(bulletObj)

		if hit != nil {
			events = append(events, *hit)
		}
	}
	return events
}

func findPlayerHit(bulletObj *resolv.Object, b *entities.Bullet, candidates map[*resolv.Object]*entities.Player, reason entities.DestroyReason) *HitEvent {
	for obj, p := range candidates {
		if !bulletObj.SharesCells(obj) {
			continue
		}
		if !circleIntersect(b.X, b.Y, worldconst.BulletRadius, p.X, p.Y, worldconst.TankRadius) {
			continue
		}
		killed := p.ApplyDamage(b.Damage)
		return &HitEvent{BulletID: b.ID, Reason: reason, TargetID: p.ID, TargetKilled: killed, Damage: b.Damage, X: b.X, Y: b.Y}
	}
	return nil
}

func findEnemyHit(bulletObj *resolv.Object, b *entities.Bullet, candidates map[*resolv.Object]*entities.Enemy, reason entities.DestroyReason) *HitEvent {
	for obj, e := range candidates {
		if !bulletObj.SharesCells(obj) {
			continue
		}
		if !circleIntersect(b.X, b.Y, worldconst.BulletRadius, e.X, e.Y, worldconst.TankRadius) {
			continue
		}
		killed := e.ApplyDamage(b.Damage)
		return &HitEvent{BulletID: b.ID, Reason: reason, TargetID: e.ID, TargetKilled: killed, Damage: b.Damage, X: b.X, Y: b.Y}
	}
	return nil
}
