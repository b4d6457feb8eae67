package documents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestFiles creates document files in a temp dir and returns their sources
func setupTestFiles(t *testing.T) []Source {
	t.Helper()

	tmpDir := t.TempDir()

	menu := filepath.Join(tmpDir, "menu.json")
	services := filepath.Join(tmpDir, "services.json")
	orders := filepath.Join(tmpDir, "orders.json")

	if err := os.WriteFile(menu, []byte(`[{"id":1,"name":"Tea"},{"id":2,"name":"Coffee"}]`), 0644); err != nil {
		t.Fatalf("failed to create menu file: %v", err)
	}
	if err := os.WriteFile(services, []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to create services file: %v", err)
	}

	return []Source{
		{Name: "menu", Path: menu},
		{Name: "services", Path: services},
		{Name: "orders", Path: orders},
	}
}

func TestInspector_Scan(t *testing.T) {
	sources := setupTestFiles(t)
	inspector := NewInspector(sources...)

	if err := inspector.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() unexpected error = %v", err)
	}

	statuses := inspector.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	menu, services, orders := statuses[0], statuses[1], statuses[2]

	if menu.Name != "menu" || !menu.Exists || menu.Entries != 2 || menu.Error != "" {
		t.Errorf("unexpected menu status: %+v", menu)
	}
	if !services.Exists || services.Error == "" {
		t.Errorf("malformed services document should report an error: %+v", services)
	}
	if orders.Exists || orders.Error != "" {
		t.Errorf("missing orders document should be reported as absent without error: %+v", orders)
	}

	stats := inspector.GetStats()
	if stats["total_documents"] != 3 {
		t.Errorf("total_documents = %v, want 3", stats["total_documents"])
	}
	if stats["total_entries"] != 2 {
		t.Errorf("total_entries = %v, want 2", stats["total_entries"])
	}
	if stats["missing"] != 1 {
		t.Errorf("missing = %v, want 1", stats["missing"])
	}
	if stats["unreadable"] != 1 {
		t.Errorf("unreadable = %v, want 1", stats["unreadable"])
	}
}

func TestInspector_NoSources(t *testing.T) {
	if err := NewInspector().Scan(context.Background()); err == nil {
		t.Error("expected error when no documents are configured")
	}
}

func TestInspector_CancelledContext(t *testing.T) {
	inspector := NewInspector(setupTestFiles(t)...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := inspector.Scan(ctx); err == nil {
		t.Error("expected error for cancelled scan")
	}
	if len(inspector.Statuses()) != 0 {
		t.Error("cancelled scan should not replace statuses")
	}
}

func TestCountEntries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "empty input", input: "", want: 0},
		{name: "empty array", input: "[]", want: 0},
		{name: "null", input: "null", want: 0},
		{name: "mixed entries", input: `[1, "two", {"three": 3}, [4]]`, want: 4},
		{name: "object", input: `{"a": 1}`, wantErr: true},
		{name: "truncated", input: `[{"a": 1},`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countEntries(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("countEntries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("countEntries() = %d, want %d", got, tt.want)
			}
		})
	}
}
