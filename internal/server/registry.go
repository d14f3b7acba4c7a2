package server

import (
	"sync"

	"cannonade/internal/game"
	"cannonade/internal/store"
)

const (
	maxDuels      = 100
	maxConnsPerIP = 4
)

// Registry tracks live duels and enforces connection limits
type Registry struct {
	mu    sync.RWMutex
	duels map[string]*Duel
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	store *store.Store // nil when persistence is unavailable
}

// NewRegistry creates a Registry backed by the given store; a nil store
// disables persistence without disabling play
func NewRegistry(st *store.Store) *Registry {
	return &Registry{
		duels:   make(map[string]*Duel),
		ipConns: make(map[string]int),
		store:   st,
	}
}

// Store returns the backing store, which may be nil
func (r *Registry) Store() *store.Store {
	return r.store
}

func (r *Registry) CanAccept(ip string) bool {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	if r.totalConns >= maxDuels {
		return false
	}
	if r.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (r *Registry) TrackConnect(ip string) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	r.ipConns[ip]++
	r.totalConns++
}

func (r *Registry) TrackDisconnect(ip string) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	r.ipConns[ip]--
	if r.ipConns[ip] <= 0 {
		delete(r.ipConns, ip)
	}
	r.totalConns--
}

// DefaultOptions is the duel setup used when nothing is stored
func DefaultOptions() store.Options {
	cfg := game.DefaultConfig()
	return store.Options{
		CannonSize:       cfg.CannonSize,
		ProjectileRadius: cfg.ProjectileRadius,
		WindRange:        cfg.WindRange,
		OverlapRule:      cfg.Rule == game.HitOverlap,
	}
}

// CreateDuel builds a duel for the given sink, applying stored options
// and profiles when a store is present
func (r *Registry) CreateDuel(sink Sink) *Duel {
	cfg := game.DefaultConfig()
	profiles := [2]store.Profile{
		{Slot: 0, Name: "Player 1", Color: cfg.Colors[0]},
		{Slot: 1, Name: "Player 2", Color: cfg.Colors[1]},
	}

	if r.store != nil {
		if opts, err := r.store.LoadOptions(DefaultOptions()); err == nil {
			cfg.CannonSize = opts.CannonSize
			cfg.ProjectileRadius = opts.ProjectileRadius
			cfg.WindRange = opts.WindRange
			cfg.Rule = game.HitEdgeGap
			if opts.OverlapRule {
				cfg.Rule = game.HitOverlap
			}
		}
		if saved, err := r.store.Profiles(); err == nil {
			for i, p := range saved {
				if p.Name != "" {
					profiles[i].Name = p.Name
				}
				if _, ok := game.PaletteMap[p.Color]; ok {
					profiles[i].Color = p.Color
				}
			}
		}
	}

	d := NewDuel(GenerateID(4), cfg, profiles, sink)

	r.mu.Lock()
	r.duels[d.ID()] = d
	r.mu.Unlock()
	return d
}

// Remove stops a duel and drops it from the registry
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	d, ok := r.duels[id]
	if ok {
		delete(r.duels, id)
	}
	r.mu.Unlock()
	if ok {
		d.Stop()
	}
}

// DuelCount returns the number of live duels
func (r *Registry) DuelCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.duels)
}
