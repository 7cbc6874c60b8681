package ai

import (
	"math"

	"github.com/tankarena/arena/pkg/entities"
)

// PlayerInfo is the minimal view of a player the AI needs for target
// selection and tracking; the server builds this from its authoritative
// *entities.Player list each tick.
type PlayerInfo struct {
	ID     uint32
	X, Y   float64
	Health float64
	MaxHealth float64
	IsDead bool
}

func (p PlayerInfo) healthFrac() float64 {
	if p.MaxHealth <= 0 {
		return 0
	}
	return p.Health / p.MaxHealth
}

func findPlayer(players []PlayerInfo, id uint32) (PlayerInfo, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// RefreshTarget updates an already-held target's last-known position, or
// clears it if the player disconnected, died, or strayed beyond twice the
// detection range (spec.md §4.5.4).
func RefreshTarget(e *entities.Enemy, players []PlayerInfo) {
	if !e.HasTarget() {
		return
	}
	p, ok := findPlayer(players, e.TargetPlayerID)
	if !ok || p.IsDead {
		e.ClearTarget()
		return
	}
	if distance(e.X, e.Y, p.X, p.Y) > 2*e.Stats().DetectionRange {
		e.ClearTarget()
		return
	}
	e.SetTarget(p.ID, p.X, p.Y)
}

// SelectTarget scores every live player within detection range and
// acquires the highest scorer as the enemy's target. It is a no-op if the
// enemy already holds a target. Returns true if the enemy holds a target
// afterwards (already held or newly acquired).
func SelectTarget(e *entities.Enemy, players []PlayerInfo) bool {
	if e.HasTarget() {
		return true
	}
	detectionRange := e.Stats().DetectionRange

	var bestID uint32
	bestScore := math.Inf(-1)
	var bestX, bestY float64
	found := false

	for _, p := range players {
		if p.IsDead {
			continue
		}
		d := distance(e.X, e.Y, p.X, p.Y)
		if d > detectionRange {
			continue
		}
		proximity := 1 - d/detectionRange
		score := proximity*100 + (1-p.healthFrac())*20
		if !found || score > bestScore {
			found = true
			bestScore = score
			bestID = p.ID
			bestX, bestY = p.X, p.Y
		}
	}

	if !found {
		return false
	}
	e.SetTarget(bestID, bestX, bestY)
	return true
}
