package server

import (
	"encoding/json"

	"cannonade/internal/game"
	"cannonade/internal/store"
)

// Client -> Server message types
const (
	MsgFire       = "fire"
	MsgRematch    = "rematch"
	MsgSetOptions = "set_options" // tune the next duel
	MsgSetProfile = "set_profile" // rename/recolor a cannon slot
)

// Server -> Client message types
const (
	MsgWelcome  = "welcome"
	MsgResolved = "resolved"
	MsgOptions  = "options"
	MsgProfiles = "profiles"
	MsgError    = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// FireMsg is the current player's shot order
type FireMsg struct {
	Angle    float64 `json:"a"`
	Velocity float64 `json:"v"`
}

// SetOptionsMsg tunes the duel parameters; takes effect on the next rematch
type SetOptionsMsg struct {
	CannonSize       float64 `json:"size"`
	ProjectileRadius float64 `json:"radius"`
	WindRange        float64 `json:"wind"`
	OverlapRule      bool    `json:"overlap"`
}

// SetProfileMsg renames or recolors one cannon slot
type SetProfileMsg struct {
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CannonView is one cannon's slice of the welcome snapshot
type CannonView struct {
	ID       int     `json:"id"`
	Name     string  `json:"n"`
	Color    string  `json:"c"`
	X        float64 `json:"x"`
	Size     float64 `json:"s"`
	Mirrored bool    `json:"m"`
	Angle    float64 `json:"a"`
	Velocity float64 `json:"v"`
	Score    int     `json:"sc"`
}

// WelcomeMsg is the full duel snapshot sent on connect and after a rematch
type WelcomeMsg struct {
	DuelID           string              `json:"id"`
	XMin             float64             `json:"xmin"`
	XMax             float64             `json:"xmax"`
	ProjectileRadius float64             `json:"pr"`
	WindRange        float64             `json:"wr"`
	OverlapRule      bool                `json:"overlap"`
	Wind             float64             `json:"w"`
	Turn             int                 `json:"turn"`
	Cannons          [2]CannonView       `json:"cn"`
	Palette          []game.PaletteColor `json:"palette"`
}

// ResolvedMsg reports the outcome of a landed shot
type ResolvedMsg struct {
	Hit    bool    `json:"hit"`
	By     int     `json:"by"`
	X      float64 `json:"x"`
	Scores [2]int  `json:"sc"`
	Wind   float64 `json:"w"`
	Turn   int     `json:"turn"`
}

// OptionsMsg echoes the stored duel options
type OptionsMsg struct {
	CannonSize       float64 `json:"size"`
	ProjectileRadius float64 `json:"radius"`
	WindRange        float64 `json:"wind"`
	OverlapRule      bool    `json:"overlap"`
}

// ProfilesMsg carries both cannon profiles
type ProfilesMsg struct {
	Profiles [2]store.Profile `json:"profiles"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// FlightFrame is one tick of a shell's flight, sent as a binary
// msgpack message so the replay stream stays compact
type FlightFrame struct {
	Tick   uint32  `msgpack:"t"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VX     float64 `msgpack:"vx"`
	VY     float64 `msgpack:"vy"`
	Moving bool    `msgpack:"m"`
}
