package look_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/raphaelgruber/wardrobe-go/internal/client"
	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

var errOffline = errors.New("service offline")

// fakeBackend is an in-memory recommendation service that counts calls.
type fakeBackend struct {
	mu     sync.Mutex
	items  []models.Garment
	nextID int
	calls  map[string]int

	listErr   error
	searchErr error
	getErr    error
	createErr error
	deleteErr error

	suggestions  []models.ScoredItem
	completion   *models.Completion
	lastSuggest  client.ComplementaryRequest
	lastComplete client.CompletionRequest

	// block, when set, holds recommendation calls until closed.
	block chan struct{}
}

func newFakeBackend(items ...models.Garment) *fakeBackend {
	return &fakeBackend{items: items, nextID: 100, calls: map[string]int{}}
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) GetItem(_ context.Context, id string) (*models.Garment, error) {
	f.record("get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.items {
		if g.ItemID == id {
			return &g, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Status: "404 Not Found"}
}

func (f *fakeBackend) Search(_ context.Context, query string, limit int) ([]models.Garment, error) {
	f.record("search")
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Garment
	for _, g := range f.items {
		if strings.Contains(models.Fold(g.Name), models.Fold(query)) && len(out) < limit {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeBackend) ListCatalog(context.Context) ([]models.Garment, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Garment(nil), f.items...), nil
}

func (f *fakeBackend) CreateItem(_ context.Context, g models.Garment) (*models.Garment, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	g = g.Normalized()
	g.ItemID = fmt.Sprint(f.nextID)
	f.items = append(f.items, g)
	return &g, nil
}

func (f *fakeBackend) DeleteItem(_ context.Context, id string) (client.Confirmation, error) {
	f.record("delete")
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.items {
		if g.ItemID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return client.Confirmation{"deleted": id}, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Status: "404 Not Found"}
}

func (f *fakeBackend) RecommendComplementary(_ context.Context, in client.ComplementaryRequest) ([]models.ScoredItem, error) {
	f.record("suggest")
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSuggest = in
	return f.suggestions, nil
}

func (f *fakeBackend) RecommendCompletion(_ context.Context, in client.CompletionRequest) (*models.Completion, error) {
	f.record("complete")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastComplete = in
	if f.completion == nil {
		return &models.Completion{Targets: map[string][]models.ScoredItem{}}, nil
	}
	return f.completion, nil
}

func (f *fakeBackend) RebuildGraph(context.Context) (client.Confirmation, error) {
	f.record("rebuild")
	return client.Confirmation{"status": "ok"}, nil
}

var _ look.Backend = (*fakeBackend)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(b *fakeBackend) *look.Store {
	return look.NewStore(b, look.Options{Threshold: -1, Logger: quietLogger()})
}

func garment(id, name, category, color string) models.Garment {
	return models.Garment{ItemID: id, Name: name, Category: category, Color: color}
}
