package game

import "math"

const (
	// Gravity is the downward acceleration applied every flight step.
	Gravity = 9.8
	// TicksPerSecond is the fixed rate front ends advance a live shell at;
	// the step size they pass to Update is 1/TicksPerSecond.
	TicksPerSecond = 50
)

// Projectile is a shell in flight: a point mass pulled down by gravity and
// pushed sideways by wind. It stays inside [XMin, XMax] and above the ground
// unless a caller asks otherwise.
type Projectile struct {
	X, Y   float64
	VX, VY float64
	// Wind is the horizontal acceleration captured at launch. It may be
	// changed mid-flight; the new value applies from the next step.
	Wind       float64
	XMin, XMax float64
}

// NewProjectile builds a shell from a launch angle in degrees and a scalar
// speed, decomposed into velocity components.
func NewProjectile(angle, velocity, wind, x, y, xMin, xMax float64) *Projectile {
	rad := angle * math.Pi / 180
	return &Projectile{
		X:    x,
		Y:    y,
		VX:   velocity * math.Cos(rad),
		VY:   velocity * math.Sin(rad),
		Wind: wind,
		XMin: xMin,
		XMax: xMax,
	}
}

// Update advances the flight by dt seconds under gravity and wind.
func (p *Projectile) Update(dt float64) {
	p.step(dt, 1, 1, false)
}

// Drift advances like Update but damps the velocity by the given factors
// each step and, when ignoreBounds is set, lets X leave the field. Smoke
// puffs and other ambient effects use it; match shells never do.
func (p *Projectile) Drift(dt, dragX, dragY float64, ignoreBounds bool) {
	p.step(dt, dragX, dragY, ignoreBounds)
}

// step is one trapezoidal integration step: position advances by the
// average of the old and new velocity, clamps run before the velocity
// write-back, drag applies on the write-back.
func (p *Projectile) step(dt, dragX, dragY float64, ignoreBounds bool) {
	vy1 := p.VY - Gravity*dt
	vx1 := p.VX + p.Wind*dt
	p.X += dt * (p.VX + vx1) / 2
	p.Y += dt * (p.VY + vy1) / 2
	if p.Y < 0 {
		p.Y = 0
	}
	if !ignoreBounds {
		p.X = Clamp(p.X, p.XMin, p.XMax)
	}
	p.VX = vx1 * dragX
	p.VY = vy1 * dragY
}

// IsMoving reports whether the shell is still in flight. Resting exactly on
// the ground or exactly on a field edge counts as stopped.
func (p *Projectile) IsMoving() bool {
	return p.Y > 0 && p.XMin < p.X && p.X < p.XMax
}
