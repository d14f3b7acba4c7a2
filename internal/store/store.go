package store

import (
	"database/sql"
	"log"
	"strconv"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database connection
type Store struct {
	conn *sql.DB
}

// Profile is the persisted identity of one cannon slot
type Profile struct {
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Options holds the tunable duel parameters that survive restarts
type Options struct {
	CannonSize       float64
	ProjectileRadius float64
	WindRange        float64
	OverlapRule      bool
}

// Open opens (or creates) the SQLite database
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates tables if they don't exist
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		slot INTEGER PRIMARY KEY CHECK (slot IN (0, 1)),
		name TEXT NOT NULL,
		color TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	if err != nil {
		log.Printf("store migration error: %v", err)
	}
	return err
}

// GetSetting returns a setting value, reporting whether it was present
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting writes a setting, replacing any previous value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// LoadOptions reads the stored duel options, falling back to def for
// anything missing or unreadable
func (s *Store) LoadOptions(def Options) (Options, error) {
	opts := def

	if v, ok, err := s.GetSetting("cannon_size"); err != nil {
		return def, err
	} else if ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.CannonSize = f
		}
	}
	if v, ok, err := s.GetSetting("projectile_radius"); err != nil {
		return def, err
	} else if ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.ProjectileRadius = f
		}
	}
	if v, ok, err := s.GetSetting("wind_range"); err != nil {
		return def, err
	} else if ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			opts.WindRange = f
		}
	}
	if v, ok, err := s.GetSetting("overlap_rule"); err != nil {
		return def, err
	} else if ok {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.OverlapRule = b
		}
	}
	return opts, nil
}

// SaveOptions persists the duel options
func (s *Store) SaveOptions(opts Options) error {
	pairs := [][2]string{
		{"cannon_size", strconv.FormatFloat(opts.CannonSize, 'g', -1, 64)},
		{"projectile_radius", strconv.FormatFloat(opts.ProjectileRadius, 'g', -1, 64)},
		{"wind_range", strconv.FormatFloat(opts.WindRange, 'g', -1, 64)},
		{"overlap_rule", strconv.FormatBool(opts.OverlapRule)},
	}
	for _, p := range pairs {
		if err := s.SetSetting(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}

// Profiles returns both cannon profiles, filling defaults for slots
// that were never customized
func (s *Store) Profiles() ([2]Profile, error) {
	profiles := [2]Profile{
		{Slot: 0, Name: "Player 1", Color: "blue"},
		{Slot: 1, Name: "Player 2", Color: "red"},
	}

	rows, err := s.conn.Query("SELECT slot, name, color FROM profiles")
	if err != nil {
		return profiles, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.Slot, &p.Name, &p.Color); err != nil {
			return profiles, err
		}
		if p.Slot == 0 || p.Slot == 1 {
			profiles[p.Slot] = p
		}
	}
	return profiles, rows.Err()
}

// SaveProfile upserts one cannon profile
func (s *Store) SaveProfile(slot int, name, color string) error {
	if slot != 0 && slot != 1 {
		return nil
	}
	_, err := s.conn.Exec(
		`INSERT INTO profiles (slot, name, color) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET name = excluded.name, color = excluded.color`,
		slot, name, color,
	)
	return err
}
