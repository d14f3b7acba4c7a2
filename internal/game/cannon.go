package game

import "math"

// Aim is the angle/velocity pair a player last entered, kept exactly as
// typed so it can prefill their next prompt. The mirror transform is not
// baked in.
type Aim struct {
	Angle    float64
	Velocity float64
}

// Cannon is one player's emplacement: an axis-aligned square of side Size
// resting on the ground, centered at (X, Size/2). A mirrored cannon faces
// left and launches at the horizontal reflection of the entered angle.
type Cannon struct {
	X, Y     float64
	Size     float64
	Mirrored bool
	Color    string
	Aim      Aim
	score    int
}

// NewCannon places an emplacement with its base on the ground.
func NewCannon(x, size float64, mirrored bool, color string) *Cannon {
	return &Cannon{
		X:        x,
		Y:        size / 2,
		Size:     size,
		Mirrored: mirrored,
		Color:    color,
	}
}

// Fire spawns a shell from the cannon center. The aim is recorded as
// entered; mirrored cannons launch at 180-angle. Wind and the field bounds
// are passed in by the match.
func (c *Cannon) Fire(angle, velocity, wind, xMin, xMax float64) *Projectile {
	c.Aim = Aim{Angle: angle, Velocity: velocity}
	if c.Mirrored {
		angle = 180 - angle
	}
	return NewProjectile(angle, velocity, wind, c.X, c.Y, xMin, xMax)
}

// EdgeDistance returns the horizontal gap between the shell's edge and the
// cannon's near face, ignoring height. Zero means the x bands overlap; the
// result is never negative.
func (c *Cannon) EdgeDistance(p *Projectile, projRadius float64) float64 {
	raw := math.Abs(p.X - c.X)
	total := c.Size/2 + projRadius
	if raw < total {
		return 0
	}
	return raw - total
}

// Overlaps reports whether the shell's disc intersects the square. Exact:
// past the edge bands only the quarter circle around the nearest corner
// counts, so a diagonal pass just outside the corner stays a miss. Boundary
// contact is an overlap.
func (c *Cannon) Overlaps(p *Projectile, projRadius float64) bool {
	dx := math.Abs(p.X - c.X)
	dy := math.Abs(p.Y - c.Y)
	h := c.Size / 2
	if dx > h+projRadius || dy > h+projRadius {
		return false
	}
	if dx <= h || dy <= h {
		return true
	}
	cx := dx - h
	cy := dy - h
	return cx*cx+cy*cy <= projRadius*projRadius
}

// ClosestPoint clamps a point into the square. Interior points map to
// themselves.
func (c *Cannon) ClosestPoint(x, y float64) (float64, float64) {
	h := c.Size / 2
	return Clamp(x, c.X-h, c.X+h), Clamp(y, c.Y-h, c.Y+h)
}

// AddScore raises the score by n. Scores never go down; negative n is
// ignored.
func (c *Cannon) AddScore(n int) {
	if n > 0 {
		c.score += n
	}
}

// Score returns the rounds this cannon has won.
func (c *Cannon) Score() int {
	return c.score
}
