package server

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"cannonade/internal/store"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 20
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	reg        *Registry
	conn       *websocket.Conn
	send       chan []byte
	duel       *Duel
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(reg *Registry, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		reg:        reg,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.reg.TrackDisconnect(c.remoteAddr)
		if c.duel != nil {
			c.reg.Remove(c.duel.ID())
		}
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgFire:
		c.handleFire(env.D)
	case MsgRematch:
		c.handleRematch()
	case MsgSetOptions:
		c.handleSetOptions(env.D)
	case MsgSetProfile:
		c.handleSetProfile(env.D)
	}
}

func (c *Client) handleFire(data json.RawMessage) {
	if c.duel == nil {
		return
	}
	var msg FireMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if err := c.duel.Fire(msg.Angle, msg.Velocity); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
	}
}

func (c *Client) handleRematch() {
	if c.duel == nil {
		return
	}
	c.duel.Rematch()
}

func (c *Client) handleSetOptions(data json.RawMessage) {
	if c.duel == nil {
		return
	}
	var msg SetOptionsMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.CannonSize <= 0 || msg.CannonSize > 50 ||
		msg.ProjectileRadius <= 0 || msg.ProjectileRadius > 25 ||
		msg.WindRange < 0 || msg.WindRange > 50 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "options out of range"}})
		return
	}

	opts := store.Options{
		CannonSize:       msg.CannonSize,
		ProjectileRadius: msg.ProjectileRadius,
		WindRange:        msg.WindRange,
		OverlapRule:      msg.OverlapRule,
	}
	c.duel.SetOptions(opts)
	if st := c.reg.Store(); st != nil {
		if err := st.SaveOptions(opts); err != nil {
			log.Printf("save options: %v", err)
		}
	}
	c.SendJSON(Envelope{T: MsgOptions, Data: OptionsMsg{
		CannonSize:       opts.CannonSize,
		ProjectileRadius: opts.ProjectileRadius,
		WindRange:        opts.WindRange,
		OverlapRule:      opts.OverlapRule,
	}})
}

func (c *Client) handleSetProfile(data json.RawMessage) {
	if c.duel == nil {
		return
	}
	var msg SetProfileMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Slot != 0 && msg.Slot != 1 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "no such cannon slot"}})
		return
	}

	name := strings.TrimSpace(msg.Name)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	c.duel.SetProfile(msg.Slot, name, msg.Color)

	profiles := c.duel.Profiles()
	if st := c.reg.Store(); st != nil {
		p := profiles[msg.Slot]
		if err := st.SaveProfile(p.Slot, p.Name, p.Color); err != nil {
			log.Printf("save profile: %v", err)
		}
	}
	c.SendJSON(Envelope{T: MsgProfiles, Data: ProfilesMsg{Profiles: profiles}})
}
