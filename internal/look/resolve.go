package look

import (
	"context"
	"log/slog"
	"slices"

	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

// Lookup is the remote side of the resolution cascade.
type Lookup interface {
	GetItem(ctx context.Context, id string) (*models.Garment, error)
	Search(ctx context.Context, query string, limit int) ([]models.Garment, error)
}

// Strategy identifies which step of the cascade produced a garment.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategySelf
	StrategyCatalogID
	StrategyCatalogName
	StrategyRemoteID
	StrategyRemoteSearch
)

func (s Strategy) String() string {
	switch s {
	case StrategySelf:
		return "self"
	case StrategyCatalogID:
		return "catalog_id"
	case StrategyCatalogName:
		return "catalog_name"
	case StrategyRemoteID:
		return "remote_id"
	case StrategyRemoteSearch:
		return "remote_search"
	default:
		return "none"
	}
}

// Resolver turns a partial recommendation payload into a full garment.
type Resolver struct {
	lookup      Lookup
	searchLimit int
	logger      *slog.Logger
}

// NewResolver creates a resolver. lookup may be nil, which disables the
// remote steps.
func NewResolver(lookup Lookup, searchLimit int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{lookup: lookup, searchLimit: searchLimit, logger: logger}
}

// Resolve runs the cascade and stops at the first valid garment:
//
//  1. the payload itself, read through models.FieldRules
//  2. catalog entry with the same id
//  3. catalog entry with the same folded name (and category, when given)
//  4. remote get by id
//  5. remote search by name, matched as in step 3
//
// Remote failures count as "no match". It returns ErrUnresolved when no step
// yields a valid garment. catalog is only read.
func (r *Resolver) Resolve(ctx context.Context, raw map[string]any, catalog []models.Garment) (models.Garment, Strategy, error) {
	candidate := models.Candidate(raw)
	if models.IsValid(candidate) {
		return candidate, StrategySelf, nil
	}

	id := candidate.ItemID
	name := candidate.Name
	category := candidate.Category

	if id != "" {
		if i := slices.IndexFunc(catalog, func(g models.Garment) bool { return g.ItemID == id }); i >= 0 && models.IsValid(catalog[i]) {
			return catalog[i], StrategyCatalogID, nil
		}
	}

	if name != "" {
		if g, ok := findByName(catalog, name, category); ok {
			return g, StrategyCatalogName, nil
		}
	}

	if r.lookup == nil {
		return models.Garment{}, StrategyNone, ErrUnresolved
	}

	if id != "" {
		full, err := r.lookup.GetItem(ctx, id)
		if err != nil {
			r.logger.Debug("resolve: get by id failed", "item_id", id, "error", err)
		} else if full != nil && models.IsValid(*full) {
			return *full, StrategyRemoteID, nil
		}
	}

	if name != "" {
		items, err := r.lookup.Search(ctx, name, r.searchLimit)
		if err != nil {
			r.logger.Debug("resolve: search by name failed", "name", name, "error", err)
		} else if g, ok := findByName(items, name, category); ok {
			return g, StrategyRemoteSearch, nil
		}
	}

	return models.Garment{}, StrategyNone, ErrUnresolved
}

// findByName returns the first garment whose folded name equals name and,
// when category is non-empty, whose folded category equals category.
// ok is false when there is no match or the match is invalid.
func findByName(items []models.Garment, name, category string) (models.Garment, bool) {
	i := slices.IndexFunc(items, func(g models.Garment) bool {
		if models.Fold(g.Name) != models.Fold(name) {
			return false
		}
		return category == "" || models.Fold(g.Category) == models.Fold(category)
	})
	if i < 0 || !models.IsValid(items[i]) {
		return models.Garment{}, false
	}
	return items[i], true
}
