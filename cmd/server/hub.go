package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/journal"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging/lifecycle"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging/simulation"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/world"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo host: accept all origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type joinRequest struct {
	ws    *websocket.Conn
	reply chan joinResult
}

type joinResult struct {
	client *client
	err    error
}

// hub owns the world and all connected clients. Registry mutation happens
// only on the loop goroutine, between ticks, so spawns and despawns never
// race resolution.
type hub struct {
	cfg       Config
	log       *zap.SugaredLogger
	w         *world.World
	validator *validator
	telemetry *telemetryCounters
	publisher logging.Publisher

	journalWriter *journal.Writer
	journalIndex  *journal.Index

	joinChan  chan joinRequest
	leaveChan chan string

	clients map[string]*client
}

func newHub(cfg Config, log *zap.SugaredLogger, w *world.World, v *validator, pub logging.Publisher, tel *telemetryCounters) *hub {
	return &hub{
		cfg:       cfg,
		log:       log,
		w:         w,
		validator: v,
		telemetry: tel,
		publisher: pub,
		joinChan:  make(chan joinRequest, 16),
		leaveChan: make(chan string, 64),
		clients:   make(map[string]*client),
	}
}

// handleWS upgrades the connection and hands the join to the loop goroutine.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Infow("upgrade failed", "err", err)
		return
	}
	req := joinRequest{ws: ws, reply: make(chan joinResult, 1)}
	select {
	case h.joinChan <- req:
	case <-time.After(writeWait):
		_ = ws.Close()
		return
	}
	result := <-req.reply
	if result.err != nil {
		h.log.Infow("join rejected", "err", result.err)
		_ = ws.Close()
		return
	}
	c := result.client
	go c.writePump()
	go c.readPump(h)
}

func (h *hub) requestLeave(session string) {
	h.leaveChan <- session
}

// run drives the fixed-timestep loop: drain joins and leaves, tick, record,
// broadcast.
func (h *hub) run(stop <-chan struct{}) {
	interval := time.Second / time.Duration(h.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			h.shutdown()
			return
		case req := <-h.joinChan:
			req.reply <- h.join(req.ws)
		case session := <-h.leaveChan:
			h.leave(session)
		case <-ticker.C:
			h.step(interval)
		}
	}
}

func (h *hub) join(ws *websocket.Conn) joinResult {
	agent := world.NewAgent()
	at, ok := h.freeTile()
	if !ok {
		return joinResult{err: world.ErrOutOfBounds}
	}
	if err := h.w.Spawn(agent, at); err != nil {
		return joinResult{err: err}
	}

	session := uuid.NewString()
	c := newClient(session, agent, ws)
	h.clients[session] = c
	h.telemetry.clients.Store(int64(len(h.clients)))

	lifecycle.AgentSpawned(context.Background(), h.publisher, h.w.TickCount(), agent.UID(), lifecycle.SpawnPayload{X: at.X, Y: at.Y})
	h.log.Infow("agent joined", "session", session, "uid", agent.UID(), "at", at)

	welcome, _ := json.Marshal(map[string]any{
		"type":    "welcome",
		"session": session,
		"uid":     agent.UID(),
		"seed":    h.w.Seed(),
		"width":   h.w.Grid().Width(),
		"height":  h.w.Grid().Height(),
	})
	c.enqueue(welcome)
	return joinResult{client: c}
}

func (h *hub) leave(session string) {
	c, ok := h.clients[session]
	if !ok {
		return
	}
	delete(h.clients, session)
	h.telemetry.clients.Store(int64(len(h.clients)))

	uid := c.agent.UID()
	if err := h.w.Despawn(c.agent); err != nil {
		h.log.Infow("despawn failed", "session", session, "err", err)
	}
	lifecycle.AgentDespawned(context.Background(), h.publisher, h.w.TickCount(), uid)
	close(c.send)
	h.log.Infow("agent left", "session", session, "uid", uid)
}

// freeTile scans the grid in row order for a walkable tile no agent holds.
// Deterministic placement keeps join order reproducible in tests.
func (h *hub) freeTile() (world.Pos, bool) {
	occupied := make(map[world.Pos]bool, len(h.clients))
	for _, pos := range h.w.Snapshot().Positions {
		occupied[pos] = true
	}
	grid := h.w.Grid()
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			pos := world.Pos{X: x, Y: y}
			if grid.IsWalkable(pos) && !occupied[pos] {
				return pos, true
			}
		}
	}
	return world.Pos{}, false
}

func (h *hub) step(budget time.Duration) {
	start := time.Now()
	state, events, err := h.w.Tick()
	duration := time.Since(start)

	if err != nil {
		if state.Positions == nil {
			// Pre/resolve hook failure: the tick rolled back.
			h.telemetry.ticksAborted.Add(1)
			simulation.TickAborted(context.Background(), h.publisher, h.w.TickCount()+1, simulation.TickAbortedPayload{Reason: err.Error()})
			h.log.Warnw("tick aborted", "err", err)
			return
		}
		h.log.Warnw("post hook failed", "tick", state.Tick, "err", err)
	}

	h.telemetry.RecordTick(duration, len(events))
	if duration > budget {
		simulation.TickBudgetOverrun(context.Background(), h.publisher, state.Tick, simulation.TickBudgetOverrunPayload{
			DurationMillis: duration.Milliseconds(),
			BudgetMillis:   budget.Milliseconds(),
			Ratio:          float64(duration) / float64(budget),
		})
	}

	if h.journalWriter != nil {
		rec := journal.BuildRecord(state, events, h.w.Seed(), h.w.RNGDraws())
		if err := h.journalWriter.Append(rec); err != nil {
			h.log.Warnw("journal append failed", "tick", state.Tick, "err", err)
		} else if h.journalIndex != nil {
			if err := h.journalIndex.Record(rec); err != nil {
				h.log.Warnw("journal index failed", "tick", state.Tick, "err", err)
			}
		}
	}

	h.broadcast(state, events)
}

func (h *hub) broadcast(state world.WorldState, events []world.Event) {
	if len(h.clients) == 0 {
		return
	}
	frame, err := json.Marshal(map[string]any{
		"type":      "state",
		"tick":      state.Tick,
		"positions": state.Positions,
		"events":    events,
	})
	if err != nil {
		h.log.Warnw("marshal state failed", "err", err)
		return
	}
	h.telemetry.broadcastBytes.Add(uint64(len(frame) * len(h.clients)))
	for session, c := range h.clients {
		if !c.enqueue(frame) {
			h.log.Debugw("dropping frame for slow client", "session", session)
		}
	}
}

func (h *hub) shutdown() {
	for session := range h.clients {
		h.leave(session)
	}
	if h.journalWriter != nil {
		if err := h.journalWriter.Close(); err != nil {
			h.log.Warnw("journal close failed", "err", err)
		}
	}
	if h.journalIndex != nil {
		_ = h.journalIndex.Close()
	}
}
