package game

import (
	"math"
	"testing"
)

func TestNewCannonRestsOnGround(t *testing.T) {
	c := NewCannon(-90, 10, false, "blue")
	if c.Y != 5 {
		t.Errorf("expected center Y 5, got %f", c.Y)
	}
	if c.X != -90 || c.Size != 10 || c.Mirrored || c.Color != "blue" {
		t.Errorf("cannon fields wrong: %+v", c)
	}
}

func TestFireRecordsAimAsEntered(t *testing.T) {
	c := NewCannon(90, 10, true, "red")
	p := c.Fire(30, 50, 0, -110, 110)

	// The stored aim is what the player typed, not the mirrored angle.
	if c.Aim.Angle != 30 || c.Aim.Velocity != 50 {
		t.Errorf("expected aim (30, 50), got %+v", c.Aim)
	}
	// The shell launches at the reflection: 150 degrees, leftward and up.
	if p.VX >= 0 {
		t.Errorf("mirrored cannon should fire leftward, got VX %f", p.VX)
	}
	if math.Abs(p.VY-25) > 1e-9 {
		t.Errorf("expected VY ~25, got %f", p.VY)
	}
}

func TestFireSpawnsAtCenter(t *testing.T) {
	c := NewCannon(-90, 10, false, "blue")
	p := c.Fire(45, 40, 2.5, -110, 110)
	if p.X != c.X || p.Y != c.Y {
		t.Errorf("expected spawn at (%f, %f), got (%f, %f)", c.X, c.Y, p.X, p.Y)
	}
	if p.Wind != 2.5 {
		t.Errorf("expected wind 2.5, got %f", p.Wind)
	}
	if p.XMin != -110 || p.XMax != 110 {
		t.Errorf("expected field bounds on the shell, got [%f, %f]", p.XMin, p.XMax)
	}
}

// Mirrored cannons firing the same aim must land mirrored shots.
func TestFireMirrorSymmetry(t *testing.T) {
	right := NewCannon(-90, 10, false, "blue")
	left := NewCannon(90, 10, true, "red")

	a := right.Fire(60, 40, 0, -110, 110)
	b := left.Fire(60, 40, 0, -110, 110)

	dt := 1.0 / TicksPerSecond
	stepsA, stepsB := 0, 0
	for a.IsMoving() {
		a.Update(dt)
		stepsA++
	}
	for b.IsMoving() {
		b.Update(dt)
		stepsB++
	}

	if stepsA != stepsB {
		t.Errorf("mirrored flights took %d and %d steps", stepsA, stepsB)
	}
	if math.Abs(a.X+b.X) > 1e-9 {
		t.Errorf("expected mirrored landings, got %f and %f", a.X, b.X)
	}
}

func TestEdgeDistance(t *testing.T) {
	c := NewCannon(-90, 10, false, "blue")
	// Half side 5 plus shell radius 3: bands closer than 8 touch.
	tests := []struct {
		projX float64
		want  float64
	}{
		{-90, 0},
		{-85, 0},
		{-82.1, 0},
		{-82, 0},
		{-98, 0},
		{-80, 2},
		{-100, 2},
		{-60, 22},
	}
	for _, tt := range tests {
		p := &Projectile{X: tt.projX, Y: 0}
		got := c.EdgeDistance(p, 3)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EdgeDistance at x=%f = %f, want %f", tt.projX, got, tt.want)
		}
		if got < 0 {
			t.Errorf("EdgeDistance at x=%f is negative: %f", tt.projX, got)
		}
	}
}

func TestOverlapsCenterAndEdges(t *testing.T) {
	c := NewCannon(-90, 10, false, "blue")

	// Dead center.
	if !c.Overlaps(&Projectile{X: -90, Y: 5}, 3) {
		t.Error("shell at the cannon center should overlap")
	}
	// Inside the vertical band, touching from above: dy = 8 is contact.
	if !c.Overlaps(&Projectile{X: -90, Y: 13}, 3) {
		t.Error("shell touching the top face should overlap")
	}
	if c.Overlaps(&Projectile{X: -90, Y: 13.5}, 3) {
		t.Error("shell above the top face should not overlap")
	}
	// Flying overhead inside the x band is not an overlap, even though the
	// horizontal edge gap is zero there.
	if c.Overlaps(&Projectile{X: -90, Y: 30}, 3) {
		t.Error("shell far overhead should not overlap")
	}
	if c.EdgeDistance(&Projectile{X: -90, Y: 30}, 3) != 0 {
		t.Error("edge distance ignores height and should be 0 overhead")
	}
}

func TestOverlapsCorner(t *testing.T) {
	c := NewCannon(0, 10, false, "blue")

	// Near the top-right corner (5, 10): inside the quarter circle.
	if !c.Overlaps(&Projectile{X: 7, Y: 12}, 3) {
		t.Error("shell inside the corner arc should overlap")
	}
	// Diagonal pass outside the arc but inside the bounding box.
	if c.Overlaps(&Projectile{X: 7.2, Y: 12.2}, 3) {
		t.Error("shell outside the corner arc should not overlap")
	}
	// Exact contact counts: corner offsets (3, 4) against radius 5.
	if !c.Overlaps(&Projectile{X: 8, Y: 14}, 5) {
		t.Error("exact corner contact should overlap")
	}
	if c.Overlaps(&Projectile{X: 8, Y: 14.000001}, 5) {
		t.Error("a hair past exact corner contact should not overlap")
	}
}

func TestClosestPoint(t *testing.T) {
	c := NewCannon(-90, 10, false, "blue")
	tests := []struct {
		x, y, wantX, wantY float64
	}{
		{-90, 5, -90, 5},   // interior maps to itself
		{-90, 20, -90, 10}, // above
		{0, 0, -85, 0},     // right
		{-200, 3, -95, 3},  // left
		{-200, 200, -95, 10},
	}
	for _, tt := range tests {
		gx, gy := c.ClosestPoint(tt.x, tt.y)
		if gx != tt.wantX || gy != tt.wantY {
			t.Errorf("ClosestPoint(%f, %f) = (%f, %f), want (%f, %f)",
				tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
		}
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	c := NewCannon(0, 10, false, "blue")
	c.AddScore(1)
	c.AddScore(0)
	c.AddScore(-5)
	if c.Score() != 1 {
		t.Errorf("expected score 1, got %d", c.Score())
	}
	c.AddScore(2)
	if c.Score() != 3 {
		t.Errorf("expected score 3, got %d", c.Score())
	}
}
