// Package interpolation implements the client's per-entity render-time
// smoothing (spec.md §4.9/C9): a capped snapshot deque per remote entity,
// velocity/angular-velocity computed on insert, LERP between bracketing
// snapshots with shortest-path rotation slerp, extrapolation past the
// newest snapshot, and a smooth blend back from extrapolation to
// interpolation once a fresher snapshot arrives. Grounded on the teacher's
// per-entity-state-map style (cbodonnell-flywheel/pkg/game/types), adapted
// from its single authoritative-state-only client to this spec's buffered,
// time-shifted render model.
package interpolation

import (
	"math"

	"github.com/tankarena/arena/pkg/worldconst"
)

const (
	// snapshotCap bounds each entity's snapshot deque.
	snapshotCap = 64

	// maxVelocity and maxAngularVelocity bound the velocity computed
	// between two adjacent snapshots.
	maxVelocity        = 500.0 // u/s
	maxAngularVelocity = 1080.0 // deg/s

	// velocityGapMs is the maximum time between adjacent snapshots for
	// which a velocity is still computed; a larger gap yields zero
	// velocity instead (the motion can't be trusted to continue).
	velocityGapMs = 300

	// minInterpDelayMs, maxInterpDelayMs, and defaultMinInterpDelayMs bound the
	// interpolation delay (spec.md §4.9: "in [50, 200] ms ... min 100 ms").
	minInterpDelayMs     = 50.0
	maxInterpDelayMs     = 200.0
	defaultMinInterpDelayMs = 100.0

	// maxExtrapolationMs caps how far past the newest snapshot a position
	// is extrapolated.
	maxExtrapolationMs = 100.0

	// blendWindowMs is the duration over which an extrapolated render
	// state blends into a freshly interpolated one.
	blendWindowMs = 200.0
)

// Snapshot is one timestamped entity pose, as received in a GameState or
// BulletUpdate message.
type Snapshot struct {
	TimestampMs    int64
	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64
}

// RenderState is the smoothed pose returned for one entity at the current
// render_time.
type RenderState struct {
	X, Y           float64
	BodyRotation   float64
	BarrelRotation float64
}

type derivedSnapshot struct {
	Snapshot
	VX, VY          float64
	AngularVelocity float64 // deg/s
}

// entityBuffer is one remote entity's snapshot history plus the
// extrapolation-to-interpolation blend state.
type entityBuffer struct {
	snapshots []derivedSnapshot

	extrapolating       bool
	lastExtrapolated    RenderState
	timeSinceExtrapMs   float64
}

// Manager owns the snapshot buffers for every remote entity and the
// shared render_time clock.
type Manager struct {
	entities map[uint32]*entityBuffer

	renderTimeMs float64
	interpDelayMs float64
}

// New constructs a manager with the interpolation delay seeded from the
// initial RTT estimate (spec.md §4.9: "initial 2×RTT, min 100 ms").
func New(initialRTTMs float64) *Manager {
	delay := 2 * initialRTTMs
	if delay < defaultMinInterpDelayMs {
		delay = defaultMinInterpDelayMs
	}
	delay = clampDelay(delay)
	return &Manager{
		entities:      make(map[uint32]*entityBuffer),
		interpDelayMs: delay,
	}
}

func clampDelay(d float64) float64 {
	if d < minInterpDelayMs {
		return minInterpDelayMs
	}
	if d > maxInterpDelayMs {
		return maxInterpDelayMs
	}
	return d
}

// SetInterpolationDelay updates the delay from a fresh RTT sample.
func (m *Manager) SetInterpolationDelay(rttMs float64) {
	d := rttMs
	if d < defaultMinInterpDelayMs {
		d = defaultMinInterpDelayMs
	}
	m.interpDelayMs = clampDelay(d)
}

// Insert records a new snapshot for entityID, computing its velocity and
// angular velocity relative to the chronologically previous snapshot.
func (m *Manager) Insert(entityID uint32, snap Snapshot) {
	buf, ok := m.entities[entityID]
	if !ok {
		buf = &entityBuffer{}
		m.entities[entityID] = buf
	}

	d := derivedSnapshot{Snapshot: snap}
	if n := len(buf.snapshots); n > 0 {
		prev := buf.snapshots[n-1]
		dtMs := float64(snap.TimestampMs - prev.TimestampMs)
		if dtMs > 0 && dtMs <= velocityGapMs {
			dt := dtMs / 1000.0
			vx := (snap.X - prev.X) / dt
			vy := (snap.Y - prev.Y) / dt
			speed := math.Hypot(vx, vy)
			if speed > maxVelocity && speed > 0 {
				scale := maxVelocity / speed
				vx *= scale
				vy *= scale
			}
			d.VX, d.VY = vx, vy

			angDiff := shortestAngleDiff(prev.BodyRotation, snap.BodyRotation)
			angVel := angDiff / dt
			if angVel > maxAngularVelocity {
				angVel = maxAngularVelocity
			} else if angVel < -maxAngularVelocity {
				angVel = -maxAngularVelocity
			}
			d.AngularVelocity = angVel
		}
	}

	buf.snapshots = append(buf.snapshots, d)
	if len(buf.snapshots) > snapshotCap {
		buf.snapshots = buf.snapshots[len(buf.snapshots)-snapshotCap:]
	}
}

// AdvanceRenderTime moves the shared render_time forward by dt seconds.
func (m *Manager) AdvanceRenderTime(dt float64) {
	m.renderTimeMs += dt * 1000
}

// RenderTimeMs returns the current render_time, in milliseconds.
func (m *Manager) RenderTimeMs() float64 { return m.renderTimeMs }

// Sample computes entityID's smoothed render state at the current
// render_time, or false if no snapshots exist yet.
func (m *Manager) Sample(entityID uint32) (RenderState, bool) {
	buf, ok := m.entities[entityID]
	if !ok || len(buf.snapshots) == 0 {
		return RenderState{}, false
	}

	newest := buf.snapshots[len(buf.snapshots)-1]
	t := m.renderTimeMs

	if t >= float64(newest.TimestampMs) {
		delta := t - float64(newest.TimestampMs)
		if delta > maxExtrapolationMs {
			delta = maxExtrapolationMs
		}
		dt := delta / 1000.0
		state := RenderState{
			X:              newest.X + newest.VX*dt,
			Y:              newest.Y + newest.VY*dt,
			BodyRotation:   worldconst.NormalizeRotation(newest.BodyRotation + newest.AngularVelocity*dt),
			BarrelRotation: newest.BarrelRotation,
		}
		buf.extrapolating = true
		buf.lastExtrapolated = state
		buf.timeSinceExtrapMs = 0
		return state, true
	}

	before, after, ok := findBracket(buf.snapshots, t)
	if !ok {
		// render_time precedes every snapshot: hold the oldest pose.
		oldest := buf.snapshots[0]
		return RenderState{X: oldest.X, Y: oldest.Y, BodyRotation: oldest.BodyRotation, BarrelRotation: oldest.BarrelRotation}, true
	}

	span := float64(after.TimestampMs - before.TimestampMs)
	u := 0.0
	if span > 0 {
		u = (t - float64(before.TimestampMs)) / span
	}
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	eased := smoothstep(u)

	interpolated := RenderState{
		X:              lerp(before.X, after.X, eased),
		Y:              lerp(before.Y, after.Y, eased),
		BodyRotation:   slerpAngle(before.BodyRotation, after.BodyRotation, eased),
		BarrelRotation: after.BarrelRotation,
	}

	if !buf.extrapolating {
		return interpolated, true
	}

	factor := buf.timeSinceExtrapMs / blendWindowMs
	if factor >= 1 {
		buf.extrapolating = false
		return interpolated, true
	}
	blended := RenderState{
		X:              lerp(buf.lastExtrapolated.X, interpolated.X, factor),
		Y:              lerp(buf.lastExtrapolated.Y, interpolated.Y, factor),
		BodyRotation:   slerpAngle(buf.lastExtrapolated.BodyRotation, interpolated.BodyRotation, factor),
		BarrelRotation: interpolated.BarrelRotation,
	}
	return blended, true
}

// Tick advances render_time, accumulates blend timers, and prunes stale
// snapshots; call once per client frame after feeding in any new
// snapshots received this frame.
func (m *Manager) Tick(dt float64) {
	m.AdvanceRenderTime(dt)
	for _, buf := range m.entities {
		if buf.extrapolating {
			buf.timeSinceExtrapMs += dt * 1000
		}
		m.cleanup(buf)
	}
}

// cleanup drops snapshots older than render_time - 2*interp_delay while
// keeping at least 2 (spec.md §4.9).
func (m *Manager) cleanup(buf *entityBuffer) {
	threshold := m.renderTimeMs - 2*m.interpDelayMs
	for len(buf.snapshots) > 2 && float64(buf.snapshots[0].TimestampMs) < threshold {
		buf.snapshots = buf.snapshots[1:]
	}
}

// Remove drops all buffered state for an entity that left the world
// (despawned bullet, disconnected player).
func (m *Manager) Remove(entityID uint32) { delete(m.entities, entityID) }

func findBracket(snaps []derivedSnapshot, t float64) (before, after derivedSnapshot, ok bool) {
	for i := 1; i < len(snaps); i++ {
		if float64(snaps[i-1].TimestampMs) <= t && t <= float64(snaps[i].TimestampMs) {
			return snaps[i-1], snaps[i], true
		}
	}
	return derivedSnapshot{}, derivedSnapshot{}, false
}

func lerp(a, b, u float64) float64 { return a + (b-a)*u }

func smoothstep(u float64) float64 { return u * u * (3 - 2*u) }

func shortestAngleDiff(from, to float64) float64 {
	diff := math.Mod(to-from+180, 360)
	if diff < 0 {
		diff += 360
	}
	return diff - 180
}

func slerpAngle(from, to, u float64) float64 {
	diff := shortestAngleDiff(from, to)
	return worldconst.NormalizeRotation(from + diff*u)
}
