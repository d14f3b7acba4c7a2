package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"cannonade/internal/game"
)

const (
	dt             = 1.0 / game.TicksPerSecond
	worldCeiling   = 130.0 // world units mapped onto the sky rows
	trailMax       = 80
	smokeLifeTicks = 40
	smokePerPuff   = 6
	maxFieldLen    = 8
)

// Smoke is a decorative particle pushed around by the same ballistics
// as the shell, minus the field walls.
type Smoke struct {
	p   *game.Projectile
	age int
}

type Game struct {
	screen        tcell.Screen
	width, height int

	cfg   game.Config
	wind  game.WindSource
	match *game.Match

	shot  *game.Projectile
	trail [][2]float64
	smoke []Smoke

	// Aim editors
	angleBuf    string
	velocityBuf string
	focus       int // 0 = angle, 1 = velocity

	message string

	// Audio
	audioInit bool
}

func NewGame(cfg game.Config, wind game.WindSource) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	g := &Game{
		screen:  screen,
		cfg:     cfg,
		wind:    wind,
		match:   game.NewMatch(cfg, wind),
		message: "Ready your cannon.",
	}
	g.width, g.height = screen.Size()
	g.loadAim()

	// Initialize audio
	if err := g.initAudio(); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	return g, nil
}

func (g *Game) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		g.audioInit = true
	}
	return err
}

func (g *Game) playTone(freq float64, d time.Duration) {
	if !g.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	sine, _ := generators.SineTone(sampleRate, freq)
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (g *Game) playFireSound() {
	g.playTone(440, 60*time.Millisecond)
}

func (g *Game) playHitSound() {
	g.playTone(880, 150*time.Millisecond)
}

// loadAim fills the editors from the current player's remembered aim
func (g *Game) loadAim() {
	aim := g.match.Current().Aim
	g.angleBuf = strconv.FormatFloat(aim.Angle, 'g', -1, 64)
	g.velocityBuf = strconv.FormatFloat(aim.Velocity, 'g', -1, 64)
}

func (g *Game) fire() {
	angle, errA := strconv.ParseFloat(g.angleBuf, 64)
	velocity, errV := strconv.ParseFloat(g.velocityBuf, 64)
	if errA != nil || errV != nil {
		g.message = "Angle and velocity must be numbers."
		return
	}
	if velocity < 0 {
		g.message = "Velocity cannot be negative."
		return
	}

	g.shot = g.match.Fire(angle, velocity)
	g.trail = g.trail[:0]
	g.spawnSmoke(g.shot.X, g.shot.Y, smokePerPuff/2)
	g.message = fmt.Sprintf("%s fires at %g, charge %g.", g.currentLabel(), angle, velocity)
	g.playFireSound()
}

func (g *Game) rematch() {
	g.match = game.NewMatch(g.cfg, g.wind)
	g.shot = nil
	g.trail = g.trail[:0]
	g.smoke = g.smoke[:0]
	g.loadAim()
	g.message = "Rematch. Fresh powder for both sides."
}

// spawnSmoke releases a puff of particles that ride the current wind
func (g *Game) spawnSmoke(x, y float64, n int) {
	for i := 0; i < n; i++ {
		angle := 60 + rand.Float64()*60
		speed := 1 + rand.Float64()*2
		p := game.NewProjectile(angle, speed, g.match.Wind()*0.3, x, y, g.cfg.XMin, g.cfg.XMax)
		g.smoke = append(g.smoke, Smoke{p: p})
	}
}

func (g *Game) tick() {
	if g.shot != nil {
		g.shot.Update(dt)
		g.trail = append(g.trail, [2]float64{g.shot.X, g.shot.Y})
		if len(g.trail) > trailMax {
			g.trail = g.trail[len(g.trail)-trailMax:]
		}

		if !g.shot.IsMoving() {
			impactX := g.shot.X
			shooter := g.currentLabel()
			hit := g.match.Resolve(g.shot)
			g.spawnSmoke(impactX, 0, smokePerPuff)
			if hit {
				g.message = fmt.Sprintf("%s scores a direct hit!", shooter)
				g.playHitSound()
			} else {
				g.message = fmt.Sprintf("%s misses. Shell down at %.1f.", shooter, impactX)
			}
			g.shot = nil
			g.loadAim()
		}
	}

	// Smoke drifts on damped ballistics, ignoring the field walls
	kept := g.smoke[:0]
	for _, s := range g.smoke {
		s.p.Drift(dt, 0.92, 0.92, true)
		s.age++
		if s.age < smokeLifeTicks {
			kept = append(kept, s)
		}
	}
	g.smoke = kept
}

func (g *Game) handleResize() {
	g.width, g.height = g.screen.Size()
}

// ---- screen mapping ----

func (g *Game) groundRow() int {
	return g.height - 4
}

func (g *Game) sx(x float64) int {
	span := g.cfg.XMax - g.cfg.XMin
	return int((x - g.cfg.XMin) / span * float64(g.width-1))
}

func (g *Game) sy(y float64) int {
	ground := g.groundRow()
	rows := float64(ground - 1)
	return ground - int(y/worldCeiling*rows+0.5)
}

func (g *Game) put(x, y int, ch rune, style tcell.Style) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.screen.SetContent(x, y, ch, nil, style)
}

func (g *Game) puts(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		g.put(x+i, y, ch, style)
	}
}

func paletteStyle(name string) tcell.Style {
	c, ok := game.PaletteMap[name]
	if !ok {
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(c.Hex, "#"), 16, 32)
	if err != nil {
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
	rgb := tcell.NewRGBColor(int32(v>>16&0xff), int32(v>>8&0xff), int32(v&0xff))
	return tcell.StyleDefault.Foreground(rgb)
}

func colorLabel(name string) string {
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (g *Game) currentLabel() string {
	return colorLabel(g.match.Current().Color)
}

func windGauge(w float64) string {
	if math.Abs(w) < 0.05 {
		return "calm"
	}
	n := int(math.Abs(w)/2.5) + 1
	arrow := "→"
	if w < 0 {
		arrow = "←"
	}
	return strings.Repeat(arrow, n) + fmt.Sprintf(" %.1f", math.Abs(w))
}

func (g *Game) draw() {
	g.screen.Clear()

	dim := tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 128, 128))
	bright := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	accent := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	one, _ := g.match.Player(game.PlayerOne)
	two, _ := g.match.Player(game.PlayerTwo)

	// Header: score, wind, whose turn
	header := fmt.Sprintf("%s %d : %d %s   wind %s   %s to fire",
		colorLabel(one.Color), one.Score(), two.Score(), colorLabel(two.Color),
		windGauge(g.match.Wind()), g.currentLabel())
	g.puts(1, 0, header, bright)

	// Ground
	ground := g.groundRow()
	for x := 0; x < g.width; x++ {
		g.put(x, ground, '─', dim)
	}

	// Cannons
	for _, c := range []*game.Cannon{one, two} {
		style := paletteStyle(c.Color)
		left := g.sx(c.X - c.Size/2)
		right := g.sx(c.X + c.Size/2)
		top := g.sy(c.Size)
		if top >= ground {
			top = ground - 1
		}
		for x := left; x <= right; x++ {
			for y := top; y < ground; y++ {
				g.put(x, y, '█', style)
			}
		}
	}

	// Trail, then the shell on top
	for _, p := range g.trail {
		g.put(g.sx(p[0]), g.sy(p[1]), '·', dim)
	}
	for _, s := range g.smoke {
		g.put(g.sx(s.p.X), g.sy(s.p.Y), '░', dim)
	}
	if g.shot != nil {
		g.put(g.sx(g.shot.X), g.sy(g.shot.Y), 'o', bright)
	}

	// Message line
	g.puts(1, g.height-3, g.message, accent)

	// Aim editors
	angleField := g.angleBuf
	velocityField := g.velocityBuf
	focusStyle := bright.Reverse(true)
	g.puts(1, g.height-2, "angle ", bright)
	if g.focus == 0 {
		g.puts(7, g.height-2, angleField+"_", focusStyle)
	} else {
		g.puts(7, g.height-2, angleField, bright)
	}
	velX := 7 + len(angleField) + 4
	g.puts(velX, g.height-2, "velocity ", bright)
	if g.focus == 1 {
		g.puts(velX+9, g.height-2, velocityField+"_", focusStyle)
	} else {
		g.puts(velX+9, g.height-2, velocityField, bright)
	}

	g.puts(1, g.height-1, "←/→ switch field   ↑/↓ nudge   Enter fire   r rematch   Esc quit", dim)

	g.screen.Show()
}

// ---- input ----

func (g *Game) focusedBuf() *string {
	if g.focus == 0 {
		return &g.angleBuf
	}
	return &g.velocityBuf
}

func (g *Game) nudge(delta float64) {
	buf := g.focusedBuf()
	v, err := strconv.ParseFloat(*buf, 64)
	if err != nil {
		aim := g.match.Current().Aim
		if g.focus == 0 {
			v = aim.Angle
		} else {
			v = aim.Velocity
		}
	}
	v += delta
	if g.focus == 1 && v < 0 {
		v = 0
	}
	*buf = strconv.FormatFloat(v, 'g', -1, 64)
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft, tcell.KeyRight:
			g.focus = 1 - g.focus
		case tcell.KeyUp:
			g.nudge(1)
		case tcell.KeyDown:
			g.nudge(-1)
		case tcell.KeyEnter:
			if g.shot != nil {
				g.message = "A shell is still in the air."
			} else {
				g.fire()
			}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			buf := g.focusedBuf()
			if len(*buf) > 0 {
				*buf = (*buf)[:len(*buf)-1]
			}
		case tcell.KeyRune:
			r := ev.Rune()
			switch {
			case r == 'q':
				return false
			case r == 'r' || r == 'R':
				g.rematch()
			case (r >= '0' && r <= '9') || r == '.' || r == '-':
				buf := g.focusedBuf()
				if len(*buf) < maxFieldLen {
					*buf += string(r)
				}
			}
		}

	case *tcell.EventResize:
		g.handleResize()
	}

	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(time.Second / game.TicksPerSecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}

		case <-ticker.C:
			g.tick()
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	if g.audioInit {
		speaker.Close()
	}
	g.screen.Fini()
}

func main() {
	overlap := flag.Bool("overlap", false, "score hits on real contact instead of the classic edge rule")
	seed := flag.Int64("seed", 0, "wind seed for reproducible matches (0 = random)")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *overlap {
		cfg.Rule = game.HitOverlap
	}

	var wind game.WindSource
	if *seed != 0 {
		wind = rand.New(rand.NewSource(*seed))
	}

	g, err := NewGame(cfg, wind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer g.cleanup()

	g.run()
}
