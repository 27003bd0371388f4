package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/journal"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging/sinks"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/world"
)

const adminEventLimit = 100

func main() {
	configPath := flag.String("config", "", "path to the yaml config file")
	addr := flag.String("addr", "", "listen address, overrides the config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log := newLogger(cfg.Logging.File)
	defer log.Sync()

	grid, err := buildGrid(cfg)
	if err != nil {
		log.Fatalw("build grid", "err", err)
	}

	memory := sinks.NewMemorySink()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logging.ConsoleConfig{})},
		{Name: "memory", Sink: memory},
	}
	logCfg := logging.DefaultConfig()
	if cfg.Logging.EventsFile != "" {
		f, err := os.OpenFile(cfg.Logging.EventsFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalw("open events file", "path", cfg.Logging.EventsFile, "err", err)
		}
		defer f.Close()
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f, logCfg.JSON.FlushInterval)})
	}
	router := logging.NewRouter(logging.SystemClock{}, logCfg, named)
	defer router.Close(context.Background())

	w := world.New(grid, world.Config{
		Seed:      cfg.World.Seed,
		Policy:    world.CollisionBlock,
		Publisher: router,
	})

	v, err := newValidator(cfg.SchemasDir)
	if err != nil {
		log.Fatalw("load schemas", "dir", cfg.SchemasDir, "err", err)
	}

	telemetry := &telemetryCounters{}
	h := newHub(cfg, log, w, v, router, telemetry)

	if cfg.Journal.Enabled {
		writer, err := journal.NewWriter(filepath.Join(cfg.Journal.Dir, "ticks.jsonl.zst"))
		if err != nil {
			log.Fatalw("open journal", "dir", cfg.Journal.Dir, "err", err)
		}
		index, err := journal.OpenIndex(filepath.Join(cfg.Journal.Dir, "ticks.db"))
		if err != nil {
			log.Fatalw("open journal index", "dir", cfg.Journal.Dir, "err", err)
		}
		h.journalWriter = writer
		h.journalIndex = index
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", telemetry.handler())
	mux.HandleFunc("/admin/events", func(rw http.ResponseWriter, _ *http.Request) {
		events := memory.Events()
		if len(events) > adminEventLimit {
			events = events[len(events)-adminEventLimit:]
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(events)
	})

	stop := make(chan struct{})
	go h.run(stop)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Infow("listening", "addr", cfg.Addr, "tick_rate_hz", cfg.TickRateHz, "seed", w.Seed())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("serve", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Infow("shutting down")

	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warnw("shutdown", "err", err)
	}
}
