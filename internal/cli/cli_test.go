package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/raphaelgruber/wardrobe-go/internal/client"
	"github.com/raphaelgruber/wardrobe-go/internal/config"
	"github.com/raphaelgruber/wardrobe-go/internal/metrics"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/stretchr/testify/assert"
)

// fakeService is an in-memory recommendation service over HTTP.
type fakeService struct {
	mu          sync.Mutex
	items       []models.Garment
	created     []map[string]any
	suggestions []map[string]any
	healthFails int
	healthCalls int
}

func (f *fakeService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/health":
			f.healthCalls++
			if f.healthCalls <= f.healthFails {
				http.Error(w, "starting", http.StatusServiceUnavailable)
				return
			}
			writeJSON(t, w, map[string]any{"status": "ok"})

		case r.URL.Path == "/v1/items/catalog":
			writeJSON(t, w, f.items)

		case r.URL.Path == "/v1/items/search":
			writeJSON(t, w, map[string]any{"items": f.items})

		case r.URL.Path == "/v1/items" && r.Method == http.MethodPost:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["nome"] == "explode" {
				http.Error(w, `{"detail": "rejected"}`, http.StatusBadRequest)
				return
			}
			f.created = append(f.created, body)
			body["item_id"] = "new"
			writeJSON(t, w, body)

		case r.URL.Path == "/v1/recommend/complementar":
			writeJSON(t, w, map[string]any{"results": f.suggestions})

		case r.URL.Path == "/v1/recommend/completar":
			writeJSON(t, w, map[string]any{
				"targets": map[string]any{"sapato": f.suggestions},
				"missing": []string{"bolsa"},
			})

		case strings.HasPrefix(r.URL.Path, "/v1/items/"):
			id := strings.TrimPrefix(r.URL.Path, "/v1/items/")
			for _, g := range f.items {
				if g.ItemID == id {
					if r.Method == http.MethodDelete {
						writeJSON(t, w, map[string]any{"deleted": id})
						return
					}
					writeJSON(t, w, g)
					return
				}
			}
			http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)

		case r.URL.Path == "/v1/graph/rebuild":
			writeJSON(t, w, map[string]any{"status": "rebuilt"})

		default:
			http.NotFound(w, r)
		}
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

// useFakeService points the package globals at a fake service.
func useFakeService(t *testing.T, f *fakeService) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	prevClient, prevLogger, prevStats, prevCfg := apiClient, logger, stats, cfg
	t.Cleanup(func() {
		apiClient, logger, stats, cfg = prevClient, prevLogger, prevStats, prevCfg
	})

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	stats = metrics.NewCollector()
	cfg = config.Config{APIURL: srv.URL, SearchLimit: 200, SuggestTopK: 100, Threshold: 0.5}
	apiClient = client.New(client.Options{BaseAddress: srv.URL, Logger: logger, Metrics: stats})
}

func garment(id, name, category, color string) models.Garment {
	return models.Garment{ItemID: id, Name: name, Category: category, Color: color}
}
