package main

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	ticksTotal         atomic.Uint64
	ticksAborted       atomic.Uint64
	tickDurationMillis atomic.Int64
	eventsTotal        atomic.Uint64
	broadcastBytes     atomic.Uint64
	clients            atomic.Int64
}

type telemetrySnapshot struct {
	TicksTotal         uint64 `json:"ticksTotal"`
	TicksAborted       uint64 `json:"ticksAborted"`
	TickDurationMillis int64  `json:"tickDurationMillis"`
	EventsTotal        uint64 `json:"eventsTotal"`
	BroadcastBytes     uint64 `json:"broadcastBytes"`
	Clients            int64  `json:"clients"`
}

func (t *telemetryCounters) RecordTick(duration time.Duration, events int) {
	t.ticksTotal.Add(1)
	t.eventsTotal.Add(uint64(events))
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
}

func (t *telemetryCounters) snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		TicksTotal:         t.ticksTotal.Load(),
		TicksAborted:       t.ticksAborted.Load(),
		TickDurationMillis: t.tickDurationMillis.Load(),
		EventsTotal:        t.eventsTotal.Load(),
		BroadcastBytes:     t.broadcastBytes.Load(),
		Clients:            t.clients.Load(),
	}
}

func (t *telemetryCounters) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t.snapshot())
	}
}
