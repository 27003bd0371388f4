// Package journal persists the per-tick audit trail: a zstd-compressed JSONL
// stream of tick records plus a small SQLite index for lookups. The engine
// itself retains nothing; hosts feed it the snapshot and events returned by
// each Tick call.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/events/catalog"
	"github.com/AlexanderYashnyk/UnlimitedWorlds/world"
)

// Writer appends one compressed JSONL record per tick.
type Writer struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

// NewWriter opens (or creates) the journal file at path, appending.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Append writes one tick record and flushes it through the compressor.
func (w *Writer) Append(rec catalog.TickRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return fmt.Errorf("journal: writer closed")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes and releases the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.f = nil
	return err
}

// Read decodes every record from a journal file, oldest first. Used by
// replay-verification tooling and tests.
func Read(path string) ([]catalog.TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []catalog.TickRecord
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec catalog.TickRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return out, fmt.Errorf("journal: corrupt record: %w", err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return out, err
	}
	return out, nil
}

// BuildRecord converts one Tick result into the persisted form. Seed and
// draws pin the RNG cursor so a restored run resumes the identical stream.
func BuildRecord(state world.WorldState, events []world.Event, seed int64, draws uint64) catalog.TickRecord {
	entries := make([]catalog.EventEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, catalog.EventEntry{Name: e.Name, Data: e.Data})
	}
	return catalog.TickRecord{
		Tick:      state.Tick,
		Seed:      seed,
		RNGDraws:  draws,
		Positions: state.Positions,
		Events:    entries,
	}
}
