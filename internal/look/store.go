// Package look holds the session state of the look builder: the catalog,
// the current look, target categories and the latest recommendation.
package look

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/raphaelgruber/wardrobe-go/internal/client"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/samber/lo"
)

// Backend is the subset of the service client the store needs.
type Backend interface {
	Lookup
	ListCatalog(ctx context.Context) ([]models.Garment, error)
	CreateItem(ctx context.Context, g models.Garment) (*models.Garment, error)
	DeleteItem(ctx context.Context, id string) (client.Confirmation, error)
	RecommendComplementary(ctx context.Context, in client.ComplementaryRequest) ([]models.ScoredItem, error)
	RecommendCompletion(ctx context.Context, in client.CompletionRequest) (*models.Completion, error)
	RebuildGraph(ctx context.Context) (client.Confirmation, error)
}

// Defaults used when Options leaves a value zero.
const (
	DefaultSearchLimit = 200
	DefaultTopK        = 100
	DefaultThreshold   = 0.5
	ThresholdStep      = 0.05
)

// Options configures a Store.
type Options struct {
	SearchLimit int
	TopK        int
	// Threshold is the initial score threshold; negative means DefaultThreshold.
	Threshold float64
	Logger    *slog.Logger
}

// Store is the in-memory state of one look-building session.
//
// State is guarded by a mutex that is never held across network calls.
// Overlapping requests are not coordinated: whichever response is applied
// last wins.
type Store struct {
	backend     Backend
	resolver    *Resolver
	logger      *slog.Logger
	searchLimit int
	topK        int

	mu          sync.Mutex
	catalog     []models.Garment
	look        []models.Garment
	targets     []string
	form        ManualForm
	query       string
	threshold   float64
	constraints map[string]string
	results     *models.ResultBlock
	loading     bool
}

// NewStore creates an empty session.
func NewStore(backend Backend, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Threshold < 0 {
		opts.Threshold = DefaultThreshold
	}

	return &Store{
		backend:     backend,
		resolver:    NewResolver(backend, opts.SearchLimit, logger),
		logger:      logger,
		searchLimit: opts.SearchLimit,
		topK:        opts.TopK,
		threshold:   clampThreshold(opts.Threshold),
		constraints: map[string]string{},
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Catalog returns a copy of the catalog.
func (s *Store) Catalog() []models.Garment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.catalog)
}

// Look returns a copy of the current look.
func (s *Store) Look() []models.Garment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.look)
}

// Targets returns a copy of the target set in insertion order.
func (s *Store) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.targets)
}

// Results returns the latest result block, or nil.
func (s *Store) Results() *models.ResultBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Loading reports whether a suggest or complete request is pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Query returns the current search query.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery sets the query used by Search and by the catalog fallback.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// =============================================================================
// CATALOG
// =============================================================================

// RefreshCatalog replaces the catalog with the full listing. When the
// listing fails or is not an array, it falls back to a search with the
// current query.
func (s *Store) RefreshCatalog(ctx context.Context) error {
	items, err := s.backend.ListCatalog(ctx)
	if err == nil {
		s.setCatalog(items)
		return nil
	}
	s.logger.Debug("catalog listing failed, falling back to search", "error", err)

	items, err = s.backend.Search(ctx, s.Query(), s.searchLimit)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	s.setCatalog(items)
	return nil
}

// Search runs a text search and replaces the catalog with its items.
func (s *Store) Search(ctx context.Context, query string) error {
	s.SetQuery(query)
	items, err := s.backend.Search(ctx, query, s.searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	s.setCatalog(items)
	return nil
}

func (s *Store) setCatalog(items []models.Garment) {
	if items == nil {
		items = []models.Garment{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = items
}

// FindInCatalog returns the first catalog garment with the given id or,
// failing that, the given folded name.
func (s *Store) FindInCatalog(ref string) (models.Garment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := lo.Find(s.catalog, func(g models.Garment) bool { return g.ItemID == ref }); ok {
		return g, true
	}
	return lo.Find(s.catalog, func(g models.Garment) bool { return models.Fold(g.Name) == models.Fold(ref) })
}

// SaveManual creates a garment from the pending form. Blank optional fields
// are sent as absent. On success the form is cleared and the catalog
// refreshed; a refresh failure is returned together with the saved garment.
func (s *Store) SaveManual(ctx context.Context) (*models.Garment, error) {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	if missing := form.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	saved, err := s.backend.CreateItem(ctx, form.Garment())
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.ClearForm()
	if err := s.RefreshCatalog(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// DeleteFromCatalog removes a persisted garment after confirm approves it,
// then refreshes the catalog.
func (s *Store) DeleteFromCatalog(ctx context.Context, g models.Garment, confirm func(models.Garment) bool) error {
	if !g.HasID() {
		return ErrNotPersisted
	}
	if confirm == nil || !confirm(g) {
		return ErrCancelled
	}
	if _, err := s.backend.DeleteItem(ctx, g.ItemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return s.RefreshCatalog(ctx)
}

// =============================================================================
// LOOK
// =============================================================================

// AddToLook inserts g unless a look element shares its id or its name.
// Invalid garments are logged and ignored. It reports whether g was added.
func (s *Store) AddToLook(g models.Garment) bool {
	if !models.IsValid(g) {
		s.logger.Warn("ignoring invalid item for look", "item", g.Key())
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.ContainsBy(s.look, g.SameAs) {
		return false
	}
	s.look = append(s.look, g)
	return true
}

// RemoveFromLook removes every element that shares g's id or name.
func (s *Store) RemoveFromLook(g models.Garment) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.look)
	s.look = lo.Reject(s.look, func(x models.Garment, _ int) bool { return x.SameAs(g) })
	return before - len(s.look)
}

// ClearLook empties the look.
func (s *Store) ClearLook() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.look = nil
}

// LookCategories returns the set of categories present in the look.
func (s *Store) LookCategories() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := make(map[string]bool, len(s.look))
	for _, g := range s.look {
		cats[g.Category] = true
	}
	return cats
}

// =============================================================================
// TARGETS
// =============================================================================

// AddTarget folds token and adds it to the target set. Empty tokens are
// ignored; unknown categories yield ErrInvalidCategory. It reports whether
// the set changed.
func (s *Store) AddTarget(token string) (bool, error) {
	v := models.Fold(token)
	if v == "" {
		return false, nil
	}
	if !models.IsCategory(v) {
		return false, fmt.Errorf("%w: %q", ErrInvalidCategory, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.targets, v) {
		return false, nil
	}
	s.targets = append(s.targets, v)
	return true, nil
}

// RemoveTarget drops a category from the target set.
func (s *Store) RemoveTarget(token string) {
	v := models.Fold(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = lo.Without(s.targets, v)
}

// =============================================================================
// SETTINGS
// =============================================================================

// Threshold returns the score threshold used by Suggest.
func (s *Store) Threshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// SetThreshold sets the score threshold, clamped to [0, 1].
func (s *Store) SetThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = clampThreshold(v)
}

// AdjustThreshold moves the threshold by delta, clamped to [0, 1].
func (s *Store) AdjustThreshold(delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = clampThreshold(s.threshold + delta)
	return s.threshold
}

func clampThreshold(v float64) float64 {
	// Round to the slider step so repeated adjustments do not drift.
	v = float64(int(v/ThresholdStep+0.5)) * ThresholdStep
	return min(max(v, 0), 1)
}

// SetConstraint restricts suggestions by attribute (e.g. ocasion=casual).
// An empty value removes the constraint.
func (s *Store) SetConstraint(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.constraints, key)
		return
	}
	s.constraints[key] = value
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

// Suggest asks for complementary items for the current look and replaces
// the result block.
func (s *Store) Suggest(ctx context.Context) (*models.ResultBlock, error) {
	s.mu.Lock()
	if len(s.look) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyLook
	}
	if s.loading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	req := client.ComplementaryRequest{
		TopK:      s.topK,
		Threshold: s.threshold,
		Items:     s.lookNamesLocked(),
	}
	if len(s.constraints) > 0 {
		req.Constraints = maps.Clone(s.constraints)
	}
	s.loading = true
	s.mu.Unlock()

	results, err := s.backend.RecommendComplementary(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	s.results = &models.ResultBlock{Kind: models.ResultSuggest, Suggestions: results}
	return s.results, nil
}

// Complete asks for the single best item per target category and replaces
// the result block.
func (s *Store) Complete(ctx context.Context) (*models.ResultBlock, error) {
	s.mu.Lock()
	if len(s.look) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyLook
	}
	if len(s.targets) == 0 {
		s.mu.Unlock()
		return nil, ErrNoTargets
	}
	if s.loading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	req := client.CompletionRequest{
		Items:   s.lookNamesLocked(),
		TopK:    1,
		Targets: slices.Clone(s.targets),
	}
	s.loading = true
	s.mu.Unlock()

	completion, err := s.backend.RecommendCompletion(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	s.results = &models.ResultBlock{Kind: models.ResultComplete, Completion: completion}
	return s.results, nil
}

func (s *Store) lookNamesLocked() []string {
	return lo.Map(s.look, func(g models.Garment, _ int) string { return g.Name })
}

// Resolution describes the outcome of AddFromResult.
type Resolution struct {
	Garment  models.Garment
	Strategy Strategy
	// Added is false when the look already held a matching garment.
	Added bool
}

// AddFromResult resolves a recommendation into a full garment and adds it
// to the look. It returns ErrUnresolved when no strategy succeeds.
func (s *Store) AddFromResult(ctx context.Context, item models.ScoredItem) (Resolution, error) {
	raw := item.Raw
	if raw == nil {
		raw = map[string]any{"item_id": item.ItemID, "nome": item.Name, "categoria": item.Category}
	}

	g, strategy, err := s.resolver.Resolve(ctx, raw, s.Catalog())
	if err != nil {
		s.logger.Info("recommendation could not be resolved", "item_id", item.ItemID, "name", item.Name)
		return Resolution{}, err
	}
	s.logger.Debug("recommendation resolved", "item", g.Key(), "strategy", strategy.String())
	return Resolution{Garment: g, Strategy: strategy, Added: s.AddToLook(g)}, nil
}

// CanAddCompletion reports whether a completion candidate may be added:
// it must carry an id and its target category must not be in the look yet.
func (s *Store) CanAddCompletion(category string, item models.ScoredItem) bool {
	return item.ItemID != "" && !s.LookCategories()[category]
}

// RebuildGraph triggers a graph rebuild on the service.
func (s *Store) RebuildGraph(ctx context.Context) (client.Confirmation, error) {
	conf, err := s.backend.RebuildGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild graph: %w", err)
	}
	return conf, nil
}
