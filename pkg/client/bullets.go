package client

import "github.com/tankarena/arena/pkg/messages"

// ClientBullet is the client's view of one in-flight bullet: server state
// once confirmed, or a locally predicted stand-in before the server's
// BulletUpdate names it.
//
// Unconfirmed replaces the original protocol's "bullet id 0 means locally
// predicted" convention with an explicit flag (SPEC_FULL.md / spec.md §9
// Open Question (c): "formalize this as a dedicated Unconfirmed flag
// rather than an id sentinel"), since a real id of 0 would otherwise be
// ambiguous with "not yet assigned."
type ClientBullet struct {
	ID          uint32
	Unconfirmed bool

	OwnerID    uint32
	Type       uint8
	X, Y       float64
	VX, VY     float64
	Rotation   float64
}

// SpawnPredicted creates a locally predicted bullet immediately when the
// local player fires, before any server confirmation arrives. localID
// only needs to be unique among the client's own unconfirmed bullets.
func SpawnPredicted(localID uint32, ownerID uint32, typ uint8, x, y, vx, vy, rotation float64) *ClientBullet {
	return &ClientBullet{
		ID: localID, Unconfirmed: true, OwnerID: ownerID, Type: typ,
		X: x, Y: y, VX: vx, VY: vy, Rotation: rotation,
	}
}

// SyncBullets reconciles the client's bullet map against one BulletUpdate
// message: confirmed bullets have their position/velocity overwritten,
// server-ided bullets missing from the update are removed, and
// unconfirmed (locally predicted) bullets are left untouched regardless
// of what the update contains (spec.md §4.10's bullet sync).
func SyncBullets(bullets map[uint32]*ClientBullet, update []messages.BulletData) {
	present := make(map[uint32]struct{}, len(update))
	for _, bd := range update {
		present[bd.BulletID] = struct{}{}
		existing, ok := bullets[bd.BulletID]
		if !ok {
			bullets[bd.BulletID] = &ClientBullet{
				ID: bd.BulletID, OwnerID: bd.OwnerID, Type: bd.BulletType,
				X: float64(bd.X), Y: float64(bd.Y),
				VX: float64(bd.VelocityX), VY: float64(bd.VelocityY),
				Rotation: float64(bd.Rotation),
			}
			continue
		}
		existing.X, existing.Y = float64(bd.X), float64(bd.Y)
		existing.VX, existing.VY = float64(bd.VelocityX), float64(bd.VelocityY)
		existing.Rotation = float64(bd.Rotation)
	}

	for id, b := range bullets {
		if b.Unconfirmed {
			continue
		}
		if _, ok := present[id]; !ok {
			delete(bullets, id)
		}
	}
}

// ConfirmBullet drops a locally predicted placeholder once the server's
// confirmation arrives; the next SyncBullets call populates the
// server-ided entry from wire data.
func ConfirmBullet(bullets map[uint32]*ClientBullet, localID uint32) {
	delete(bullets, localID)
}

// Remove drops a bullet the server explicitly destroyed.
func Remove(bullets map[uint32]*ClientBullet, id uint32) {
	delete(bullets, id)
}
