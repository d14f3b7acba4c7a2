package game

import "errors"

// ErrNoSuchPlayer is returned for any player id other than PlayerOne or
// PlayerTwo.
var ErrNoSuchPlayer = errors.New("no such player")

// PlayerID indexes the two emplacements of a match.
type PlayerID int

const (
	PlayerOne PlayerID = 0
	PlayerTwo PlayerID = 1
)

// HitRule selects how a landed shell is judged against the enemy cannon.
type HitRule int

const (
	// HitEdgeGap scores whenever the horizontal edge gap is zero, height
	// ignored. The classic rule.
	HitEdgeGap HitRule = 0
	// HitOverlap scores only on true geometric overlap with the square.
	HitOverlap HitRule = 1
)

// Starting aim prefilled into both cannons at match start.
const (
	StartingAngle    = 45.0
	StartingVelocity = 40.0
)

// Config holds the field geometry and rules for a match.
type Config struct {
	XMin, XMax       float64
	CannonX          [2]float64
	Colors           [2]string
	CannonSize       float64
	ProjectileRadius float64
	WindRange        float64
	Rule             HitRule
}

// DefaultConfig returns the classic field: 220 units wide, cannons at 90
// units out from center, blue on the left.
func DefaultConfig() Config {
	return Config{
		XMin:             -110,
		XMax:             110,
		CannonX:          [2]float64{-90, 90},
		Colors:           [2]string{"blue", "red"},
		CannonSize:       10,
		ProjectileRadius: 3,
		WindRange:        10,
		Rule:             HitEdgeGap,
	}
}

// Match owns the two cannons and the round state: whose turn it is and the
// wind both players share. It is the only writer of turn and wind, and it
// is not safe for concurrent use; callers serialize access.
type Match struct {
	cfg     Config
	cannons [2]*Cannon
	current PlayerID
	wind    float64
	rng     WindSource
}

// NewMatch builds a fresh match. The first round is windless; PlayerOne
// opens. A nil source gets a crypto-seeded default; tests pass fixed ones.
func NewMatch(cfg Config, rng WindSource) *Match {
	if rng == nil {
		rng = NewWindSource()
	}
	m := &Match{cfg: cfg, rng: rng}
	m.cannons[PlayerOne] = NewCannon(cfg.CannonX[0], cfg.CannonSize, false, cfg.Colors[0])
	m.cannons[PlayerTwo] = NewCannon(cfg.CannonX[1], cfg.CannonSize, true, cfg.Colors[1])
	for _, c := range m.cannons {
		c.Aim = Aim{Angle: StartingAngle, Velocity: StartingVelocity}
	}
	return m
}

// Config returns the match configuration.
func (m *Match) Config() Config {
	return m.cfg
}

// Player returns the cannon at id. Any other id is an error; this is the
// one lookup in the rules core that refuses bad input instead of absorbing
// it.
func (m *Match) Player(id PlayerID) (*Cannon, error) {
	if id != PlayerOne && id != PlayerTwo {
		return nil, ErrNoSuchPlayer
	}
	return m.cannons[id], nil
}

// Current returns the cannon whose turn it is.
func (m *Match) Current() *Cannon {
	return m.cannons[m.current]
}

// Opponent returns the cannon not on turn.
func (m *Match) Opponent() *Cannon {
	return m.cannons[1-m.current]
}

// CurrentID returns whose turn it is.
func (m *Match) CurrentID() PlayerID {
	return m.current
}

// Wind returns the shared wind for the round.
func (m *Match) Wind() float64 {
	return m.wind
}

// SetWind overrides the rolled wind. Tests and debug tooling only.
func (m *Match) SetWind(w float64) {
	m.wind = w
}

// NextTurn hands the turn to the other player. It always alternates; a hit
// does not grant another shot.
func (m *Match) NextTurn() {
	m.current = 1 - m.current
}

// NewRound rolls fresh wind, uniform over [-WindRange, WindRange).
func (m *Match) NewRound() {
	m.wind = m.rng.Float64()*2*m.cfg.WindRange - m.cfg.WindRange
}

// Fire launches a shell from the cannon on turn under the current wind.
func (m *Match) Fire(angle, velocity float64) *Projectile {
	return m.Current().Fire(angle, velocity, m.wind, m.cfg.XMin, m.cfg.XMax)
}

// Resolve judges a landed shell against the opponent of the cannon on turn,
// scores the shooter and rolls new wind on a hit, and always advances the
// turn. Returns whether it was a hit.
func (m *Match) Resolve(p *Projectile) bool {
	target := m.Opponent()
	var hit bool
	switch m.cfg.Rule {
	case HitOverlap:
		hit = target.Overlaps(p, m.cfg.ProjectileRadius)
	default:
		hit = target.EdgeDistance(p, m.cfg.ProjectileRadius) == 0
	}
	if hit {
		m.Current().AddScore(1)
		m.NewRound()
	}
	m.NextTurn()
	return hit
}
