package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/world"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 1 << 16
)

// client wraps one websocket connection and its spawned agent.
type client struct {
	session string
	agent   *world.Agent
	ws      *websocket.Conn
	send    chan []byte
}

func newClient(session string, agent *world.Agent, ws *websocket.Conn) *client {
	return &client{
		session: session,
		agent:   agent,
		ws:      ws,
		send:    make(chan []byte, 64),
	}
}

// enqueue stages an outbound frame. Slow consumers drop frames rather than
// stalling the broadcast fan-out.
func (c *client) enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *client) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// actMessage is the validated inbound intent frame.
type actMessage struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Dir     string `json:"dir,omitempty"`
	To      uint64 `json:"to,omitempty"`
	Payload string `json:"payload,omitempty"`
}

func (m actMessage) toAction() (world.Action, bool) {
	switch m.Kind {
	case "wait":
		return world.Wait(), true
	case "move":
		switch m.Dir {
		case "N":
			return world.Move(world.North), true
		case "E":
			return world.Move(world.East), true
		case "S":
			return world.Move(world.South), true
		case "W":
			return world.Move(world.West), true
		}
		return world.Action{}, false
	case "send":
		return world.Send(m.To, m.Payload), true
	default:
		return world.Action{}, false
	}
}

func (c *client) readPump(h *hub) {
	defer c.ws.Close()
	defer h.requestLeave(c.session)
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if err := h.validator.validateAct(payload); err != nil {
			h.log.Infow("rejected act", "session", c.session, "err", err)
			continue
		}
		var msg actMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		action, ok := msg.toAction()
		if !ok {
			continue
		}
		// Last write wins on the agent's pending slot; the world mutex
		// serialises this against an in-progress tick.
		if err := c.agent.Act(action); err != nil {
			return
		}
	}
}
