package documents

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"
)

// Source names a JSON array document on disk
type Source struct {
	Name string
	Path string
}

// Status describes one document as seen by the last scan
type Status struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
	Error   string `json:"error,omitempty"`
}

// Inspector scans the application's documents and keeps their last known status
type Inspector struct {
	sources   []Source
	statuses  []Status
	scannedAt time.Time
	mu        sync.RWMutex
}

// scanResult holds the result of inspecting a single document
type scanResult struct {
	index  int
	status Status
}

// NewInspector creates an inspector for the given documents
func NewInspector(sources ...Source) *Inspector {
	return &Inspector{
		sources: sources,
	}
}

// Scan inspects every document concurrently.
// Missing and malformed documents are reported in their Status, not as errors;
// the caller only gets an error when the scan itself could not complete.
func (i *Inspector) Scan(ctx context.Context) error {
	if len(i.sources) == 0 {
		return fmt.Errorf("no documents configured")
	}

	resultChan := make(chan scanResult, len(i.sources))

	var wg sync.WaitGroup
	for idx, src := range i.sources {
		wg.Add(1)
		go func(index int, source Source) {
			defer wg.Done()
			resultChan <- scanResult{
				index:  index,
				status: inspect(ctx, source),
			}
		}(idx, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results in configuration order
	statuses := make([]Status, len(i.sources))
	for result := range resultChan {
		statuses[result.index] = result.status
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("document scan interrupted: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.statuses = statuses
	i.scannedAt = time.Now().UTC()

	return nil
}

// inspect opens a document and counts its entries
func inspect(ctx context.Context, src Source) Status {
	status := Status{Name: src.Name, Path: src.Path}

	if err := ctx.Err(); err != nil {
		status.Error = err.Error()
		return status
	}

	f, err := os.Open(src.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			status.Error = err.Error()
		}
		return status
	}
	defer f.Close()

	status.Exists = true
	if info, err := f.Stat(); err == nil {
		status.Bytes = info.Size()
	}

	entries, err := countEntries(bufio.NewReader(f))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Entries = entries

	return status
}

// countEntries streams a JSON array and returns the number of elements.
// An empty input counts as an empty array.
func countEntries(r io.Reader) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("malformed document: %w", err)
	}
	if tok == nil {
		return 0, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("malformed document: expected array")
	}

	count := 0
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return 0, fmt.Errorf("malformed document entry %d: %w", count, err)
		}
		count++
	}

	if _, err := dec.Token(); err != nil {
		return 0, fmt.Errorf("malformed document: %w", err)
	}

	return count, nil
}

// Statuses returns a copy of the statuses from the last scan
func (i *Inspector) Statuses() []Status {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]Status, len(i.statuses))
	copy(out, i.statuses)
	return out
}

// GetStats returns a summary of the last scan
func (i *Inspector) GetStats() map[string]interface{} {
	i.mu.RLock()
	defer i.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["total_documents"] = len(i.statuses)

	totalEntries := 0
	missing := 0
	malformed := 0
	for _, s := range i.statuses {
		totalEntries += s.Entries
		if !s.Exists {
			missing++
		}
		if s.Error != "" {
			malformed++
		}
	}

	stats["total_entries"] = totalEntries
	stats["missing"] = missing
	stats["unreadable"] = malformed
	stats["documents"] = append([]Status(nil), i.statuses...)
	if !i.scannedAt.IsZero() {
		stats["scanned_at"] = i.scannedAt
	}

	return stats
}
