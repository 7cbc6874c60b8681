package client

// LocalPlayer is the client's own tank: the locally predicted pose plus
// the last server-authoritative values stashed by the snapshot tick for
// reconciliation and UI (health/score/death never predicted, only shown
// from the server).
type LocalPlayer struct {
	PlayerID uint32

	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64

	Health    float64
	MaxHealth float64
	Score     int32
	IsDead    bool

	LastAckedSeq uint32
}

// ServerPlayerState is the authoritative snapshot of the local player
// stashed each snapshot tick, against which reconciliation runs.
type ServerPlayerState struct {
	X, Y         float64
	BodyRotation float64
	Health       float64
	MaxHealth    float64
	Score        int32
	IsDead       bool
}

// ApplyInput predicts the local player's new pose from one input frame,
// updating lp in place (spec.md §4.10's input tick).
func (lp *LocalPlayer) ApplyInput(forward, backward, left, right bool, mouseX, mouseY, dt float64) {
	if lp.IsDead {
		return
	}
	lp.X, lp.Y, lp.BodyRotation = applyMovement(lp.X, lp.Y, lp.BodyRotation, forward, backward, left, right, dt)
	lp.BarrelRotation = aimBarrel(lp.X, lp.Y, mouseX, mouseY)
}

// SyncAuthoritative copies the non-predicted fields straight from the
// server snapshot (spec.md §4.10: "stash server-authoritative ... for
// reconciliation and health sync").
func (lp *LocalPlayer) SyncAuthoritative(s ServerPlayerState) {
	lp.Health = s.Health
	lp.MaxHealth = s.MaxHealth
	lp.Score = s.Score
	lp.IsDead = s.IsDead
}
