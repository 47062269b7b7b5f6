package look_test

import (
	"context"
	"testing"

	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelfContained(t *testing.T) {
	b := newFakeBackend()
	r := look.NewResolver(b, 200, quietLogger())

	raw := map[string]any{"nome": "tênis branco", "categoria": "sapato", "cor": "branco", "score": 0.9}
	g, strategy, err := r.Resolve(context.Background(), raw, nil)
	require.NoError(t, err)

	assert.Equal(t, look.StrategySelf, strategy)
	assert.Equal(t, "tênis branco", g.Name)
	assert.Equal(t, "branco", g.Color)
	assert.Zero(t, b.total(), "no network call")
}

func TestResolveCatalogByID(t *testing.T) {
	b := newFakeBackend()
	r := look.NewResolver(b, 200, quietLogger())
	algodao := "algodao"
	full := models.Garment{ItemID: "1", Name: "camisa azul", Category: "blusa", Color: "azul", Material: &algodao}
	catalog := []models.Garment{garment("0", "saia", "saia", "preto"), full}

	raw := map[string]any{"item_id": "1", "nome": "camisa azul", "categoria": "blusa", "score": 0.8}
	g, strategy, err := r.Resolve(context.Background(), raw, catalog)
	require.NoError(t, err)

	assert.Equal(t, look.StrategyCatalogID, strategy)
	assert.Equal(t, full, g, "full catalog record, not a partial one")
	assert.Zero(t, b.total())
}

func TestResolveCatalogByName(t *testing.T) {
	r := look.NewResolver(nil, 200, quietLogger())
	catalog := []models.Garment{
		garment("1", "Saia Midi", "saia", "preto"),
		garment("2", "saia midi", "calca", "bege"),
	}

	tests := []struct {
		name   string
		raw    map[string]any
		wantID string
	}{
		{"folded name and category", map[string]any{"name": " SAIA MIDI ", "category": "Calca"}, "2"},
		{"name only takes the first", map[string]any{"nome": "saia midi"}, "1"},
		{"blank nested color", map[string]any{"nome": "saia midi", "attrs": map[string]any{"cor": ""}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, strategy, err := r.Resolve(context.Background(), tt.raw, catalog)
			require.NoError(t, err)
			assert.Equal(t, look.StrategyCatalogName, strategy)
			assert.Equal(t, tt.wantID, g.ItemID)
		})
	}
}

func TestResolveCategoryMismatch(t *testing.T) {
	r := look.NewResolver(nil, 200, quietLogger())
	catalog := []models.Garment{garment("1", "saia midi", "saia", "preto")}

	_, strategy, err := r.Resolve(context.Background(), map[string]any{"nome": "saia midi", "categoria": "blusa"}, catalog)
	assert.ErrorIs(t, err, look.ErrUnresolved)
	assert.Equal(t, look.StrategyNone, strategy)
}

func TestResolveFirstMatchDecides(t *testing.T) {
	b := newFakeBackend()
	r := look.NewResolver(b, 200, quietLogger())
	// The first id match is invalid; the cascade moves on instead of
	// scanning for a later valid duplicate.
	catalog := []models.Garment{garment("1", "camisa", "blusa", ""), garment("1", "camisa", "blusa", "azul")}

	_, _, err := r.Resolve(context.Background(), map[string]any{"item_id": "1"}, catalog)
	assert.ErrorIs(t, err, look.ErrUnresolved)
	assert.Equal(t, 1, b.count("get"))
	assert.Zero(t, b.count("search"), "no name to search by")
}

func TestResolveRemoteByID(t *testing.T) {
	b := newFakeBackend(garment("9", "jaqueta couro", "jaqueta", "preto"))
	r := look.NewResolver(b, 200, quietLogger())

	g, strategy, err := r.Resolve(context.Background(), map[string]any{"id": 9.0, "score": 0.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, look.StrategyRemoteID, strategy)
	assert.Equal(t, "jaqueta couro", g.Name)
	assert.Zero(t, b.count("search"))
}

func TestResolveRemoteSearch(t *testing.T) {
	b := newFakeBackend(
		garment("3", "bolsa couro grande", "bolsa", "marrom"),
		garment("4", "bolsa couro", "bolsa", "preto"),
	)
	r := look.NewResolver(b, 200, quietLogger())

	g, strategy, err := r.Resolve(context.Background(), map[string]any{"item_id": "missing", "nome": "Bolsa Couro"}, nil)
	require.NoError(t, err)
	assert.Equal(t, look.StrategyRemoteSearch, strategy)
	assert.Equal(t, "4", g.ItemID, "exact folded name, not the first search hit")
	assert.Equal(t, 1, b.count("get"))
	assert.Equal(t, 1, b.count("search"))
}

func TestResolveSwallowsRemoteFailures(t *testing.T) {
	b := newFakeBackend()
	b.getErr = errOffline
	b.searchErr = errOffline
	r := look.NewResolver(b, 200, quietLogger())

	_, strategy, err := r.Resolve(context.Background(), map[string]any{"item_id": "1", "nome": "camisa"}, nil)
	assert.ErrorIs(t, err, look.ErrUnresolved)
	assert.NotErrorIs(t, err, errOffline)
	assert.Equal(t, look.StrategyNone, strategy)
	assert.Equal(t, 1, b.count("get"))
	assert.Equal(t, 1, b.count("search"))
}

func TestResolveEmptyPayload(t *testing.T) {
	b := newFakeBackend(garment("1", "", "blusa", "azul"))
	r := look.NewResolver(b, 200, quietLogger())

	_, _, err := r.Resolve(context.Background(), map[string]any{}, nil)
	assert.ErrorIs(t, err, look.ErrUnresolved)
	assert.Zero(t, b.total(), "nothing to look up")
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "self", look.StrategySelf.String())
	assert.Equal(t, "catalog_id", look.StrategyCatalogID.String())
	assert.Equal(t, "catalog_name", look.StrategyCatalogName.String())
	assert.Equal(t, "remote_id", look.StrategyRemoteID.String())
	assert.Equal(t, "remote_search", look.StrategyRemoteSearch.String())
	assert.Equal(t, "none", look.StrategyNone.String())
}
