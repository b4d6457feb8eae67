package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Lixing-Zhang/roomservice/internal/config"
	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
	"github.com/Lixing-Zhang/roomservice/internal/repository"
	"github.com/Lixing-Zhang/roomservice/internal/service"
	"github.com/Lixing-Zhang/roomservice/pkg/logger"
)

type testEnv struct {
	dir      string
	hub      *notify.Hub
	catalog  *service.CatalogService
	orders   *service.OrderService
	requests *service.RequestService
	auth     *service.AuthService
	ledger   *repository.JSONLedgerRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	log := logger.New("error")

	hub := notify.NewHub(16, log)
	menuRepo := repository.NewJSONMenuRepository(filepath.Join(dir, "menu.json"), log)
	servicesRepo := repository.NewJSONServicesRepository(filepath.Join(dir, "services.json"), log)
	ledger := repository.NewJSONLedgerRepository(filepath.Join(dir, "orders.json"), log)
	catalog := service.NewCatalogService(menuRepo, servicesRepo, log)

	auth, err := service.NewAuthService(config.AuthConfig{
		AdminUsername: "admin@armahhotel.com",
		AdminPassword: "password123",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
	}, log)
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}

	return &testEnv{
		dir:      dir,
		hub:      hub,
		catalog:  catalog,
		orders:   service.NewOrderService(catalog, ledger, hub, log),
		requests: service.NewRequestService(hub, log),
		auth:     auth,
		ledger:   ledger,
	}
}

func (e *testEnv) seedMenu(t *testing.T, name, price string) *models.MenuItem {
	t.Helper()
	item, err := e.catalog.AddItem(context.Background(), models.NewMenuItem{Name: name, Price: price, Image: "uploads/" + name + ".png"})
	if err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return item
}

// postJSON calls handler with body marshalled as JSON, or sent verbatim when it is a string
func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if str, ok := body.(string); ok {
		payload = []byte(str)
	} else {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}
