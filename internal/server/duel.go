package server

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cannonade/internal/game"
	"cannonade/internal/store"
)

// FlightTickInterval paces the live shell stream. Package-level so tests
// can shrink it.
var FlightTickInterval = time.Second / game.TicksPerSecond

var (
	ErrShotInFlight = errors.New("a shell is already in the air")
	ErrBadAim       = errors.New("angle and velocity must be finite, velocity non-negative")
)

// Sink delivers messages to the duel's connection
type Sink interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Duel drives one hot-seat match over a single connection: both players
// share the keyboard, the server owns the rules and the shell flight.
type Duel struct {
	mu       sync.Mutex
	id       string
	cfg      game.Config
	match    *game.Match
	profiles [2]store.Profile
	sink     Sink
	pending  *game.Config // options staged for the next rematch
	flying   bool
	stop     chan struct{}
}

// NewDuel creates a duel with the given field setup and cannon profiles
func NewDuel(id string, cfg game.Config, profiles [2]store.Profile, sink Sink) *Duel {
	cfg.Colors = [2]string{profiles[0].Color, profiles[1].Color}
	return &Duel{
		id:       id,
		cfg:      cfg,
		match:    game.NewMatch(cfg, nil),
		profiles: profiles,
		sink:     sink,
	}
}

// ID returns the duel's identifier
func (d *Duel) ID() string {
	return d.id
}

// Fire launches the current player's shot and starts the flight loop.
// Rejects a second shot while one is still in the air.
func (d *Duel) Fire(angle, velocity float64) error {
	if math.IsNaN(angle) || math.IsInf(angle, 0) ||
		math.IsNaN(velocity) || math.IsInf(velocity, 0) || velocity < 0 {
		return ErrBadAim
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flying {
		return ErrShotInFlight
	}

	p := d.match.Fire(angle, velocity)
	d.flying = true
	d.stop = make(chan struct{})
	go d.runFlight(p, d.stop)
	return nil
}

// runFlight steps the shell at the fixed tick, streaming a binary frame
// per step, then resolves the landing and reports the outcome.
func (d *Duel) runFlight(p *game.Projectile, stop chan struct{}) {
	ticker := time.NewTicker(FlightTickInterval)
	defer ticker.Stop()

	var tick uint32
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		d.mu.Lock()
		// A stop or rematch may have raced the tick we just took.
		if !d.flying || d.stop != stop {
			d.mu.Unlock()
			return
		}
		p.Update(1.0 / game.TicksPerSecond)
		tick++
		frame := FlightFrame{Tick: tick, X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Moving: p.IsMoving()}
		var done *ResolvedMsg
		if !frame.Moving {
			shooter := d.match.CurrentID()
			hit := d.match.Resolve(p)
			done = &ResolvedMsg{
				Hit:    hit,
				By:     int(shooter),
				X:      p.X,
				Scores: d.scoresLocked(),
				Wind:   d.match.Wind(),
				Turn:   int(d.match.CurrentID()),
			}
			d.flying = false
		}
		d.mu.Unlock()

		if b, err := msgpack.Marshal(frame); err == nil {
			d.sink.SendBinary(b)
		} else {
			log.Printf("marshal frame: %v", err)
		}
		if done != nil {
			d.sink.SendJSON(Envelope{T: MsgResolved, Data: *done})
			return
		}
	}
}

// Rematch abandons any flight in progress and starts a fresh match,
// applying staged options and the current profile colors.
func (d *Duel) Rematch() {
	d.mu.Lock()
	d.stopFlightLocked()
	if d.pending != nil {
		d.cfg = *d.pending
		d.pending = nil
	}
	d.cfg.Colors = [2]string{d.profiles[0].Color, d.profiles[1].Color}
	d.match = game.NewMatch(d.cfg, nil)
	msg := d.welcomeLocked()
	d.mu.Unlock()

	d.sink.SendJSON(Envelope{T: MsgWelcome, Data: msg})
}

// SetOptions stages new duel parameters; they take effect on the next
// rematch so a running round is never reshaped under the players.
func (d *Duel) SetOptions(opts store.Options) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg := d.cfg
	cfg.CannonSize = opts.CannonSize
	cfg.ProjectileRadius = opts.ProjectileRadius
	cfg.WindRange = opts.WindRange
	cfg.Rule = game.HitEdgeGap
	if opts.OverlapRule {
		cfg.Rule = game.HitOverlap
	}
	d.pending = &cfg
}

// SetProfile updates one cannon slot's name and color. The color is
// picked up by the next rematch.
func (d *Duel) SetProfile(slot int, name, color string) {
	if slot != 0 && slot != 1 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if name != "" {
		d.profiles[slot].Name = name
	}
	if _, ok := game.PaletteMap[color]; ok {
		d.profiles[slot].Color = color
	}
}

// Profiles returns both cannon profiles
func (d *Duel) Profiles() [2]store.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profiles
}

// SendWelcome pushes the full duel snapshot to the connection
func (d *Duel) SendWelcome() {
	d.mu.Lock()
	msg := d.welcomeLocked()
	d.mu.Unlock()
	d.sink.SendJSON(Envelope{T: MsgWelcome, Data: msg})
}

// Stop terminates any flight in progress
func (d *Duel) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopFlightLocked()
}

func (d *Duel) stopFlightLocked() {
	if d.flying {
		d.flying = false
		close(d.stop)
	}
}

func (d *Duel) welcomeLocked() WelcomeMsg {
	cfg := d.match.Config()
	var views [2]CannonView
	for i := range views {
		c, _ := d.match.Player(game.PlayerID(i))
		views[i] = CannonView{
			ID:       i,
			Name:     d.profiles[i].Name,
			Color:    c.Color,
			X:        c.X,
			Size:     c.Size,
			Mirrored: c.Mirrored,
			Angle:    c.Aim.Angle,
			Velocity: c.Aim.Velocity,
			Score:    c.Score(),
		}
	}
	return WelcomeMsg{
		DuelID:           d.id,
		XMin:             cfg.XMin,
		XMax:             cfg.XMax,
		ProjectileRadius: cfg.ProjectileRadius,
		WindRange:        cfg.WindRange,
		OverlapRule:      cfg.Rule == game.HitOverlap,
		Wind:             d.match.Wind(),
		Turn:             int(d.match.CurrentID()),
		Cannons:          views,
		Palette:          game.Palette,
	}
}

func (d *Duel) scoresLocked() [2]int {
	one, _ := d.match.Player(game.PlayerOne)
	two, _ := d.match.Player(game.PlayerTwo)
	return [2]int{one.Score(), two.Score()}
}
