package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Document is a JSON array persisted as a single file.
// Every mutation rewrites the whole file. Reads are lenient: a missing,
// empty or malformed file is treated as an empty collection, and entries
// that do not decode are skipped on read and written back unchanged by Update.
type Document[T any] struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewDocument creates a document bound to path
func NewDocument[T any](path string, logger *slog.Logger) *Document[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document[T]{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path
func (d *Document[T]) Path() string {
	return d.path
}

// Read returns all entries of the document
func (d *Document[T]) Read(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	items, _ := d.read()
	return items, nil
}

// Write replaces the document content with items
func (d *Document[T]) Write(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.write(items, nil)
}

// Update runs a read-modify-write cycle under the document lock.
// If fn returns an error nothing is written.
func (d *Document[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current, skipped := d.read()
	items, err := fn(current)
	if err != nil {
		return err
	}
	return d.write(items, skipped)
}

// read returns the decodable entries and the raw form of the rest
func (d *Document[T]) read() ([]T, []json.RawMessage) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Debug("document missing, using empty collection", "path", d.path)
		} else {
			d.logger.Warn("failed to read document, using empty collection", "path", d.path, "error", err)
		}
		return []T{}, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	entries, err := splitEntries(data)
	if err != nil {
		d.logger.Warn("malformed document, using empty collection", "path", d.path, "error", err)
		return []T{}, nil
	}

	items := make([]T, 0, len(entries))
	var skipped []json.RawMessage
	for i, raw := range entries {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			d.logger.Warn("skipping undecodable entry", "path", d.path, "index", i, "error", err)
			skipped = append(skipped, raw)
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

// splitEntries streams a JSON array into its raw elements
func splitEntries(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected array")
	}

	var entries []json.RawMessage
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(entries), err)
		}
		entries = append(entries, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *Document[T]) write(items []T, skipped []json.RawMessage) error {
	data, err := encodeEntries(items, skipped)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}

	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", d.path, err)
		}
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}

// encodeEntries renders items followed by the skipped raw entries
func encodeEntries[T any](items []T, skipped []json.RawMessage) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	if len(skipped) == 0 {
		return json.MarshalIndent(items, "", "  ")
	}

	entries := make([]json.RawMessage, 0, len(items)+len(skipped))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, raw)
	}
	entries = append(entries, skipped...)
	return json.MarshalIndent(entries, "", "  ")
}
