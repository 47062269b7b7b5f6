package look_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := newTestStore(newFakeBackend())

	assert.Empty(t, s.Catalog())
	assert.Empty(t, s.Look())
	assert.Empty(t, s.Targets())
	assert.Nil(t, s.Results())
	assert.False(t, s.Loading())
	assert.InDelta(t, look.DefaultThreshold, s.Threshold(), 1e-9)
}

// =============================================================================
// LOOK
// =============================================================================

func TestAddToLook(t *testing.T) {
	s := newTestStore(newFakeBackend())
	camisa := garment("1", "camisa azul", "blusa", "azul")

	assert.True(t, s.AddToLook(camisa))
	assert.Equal(t, []models.Garment{camisa}, s.Look())
}

func TestAddToLookDeduplicates(t *testing.T) {
	s := newTestStore(newFakeBackend())
	require.True(t, s.AddToLook(garment("1", "camisa azul", "blusa", "azul")))

	assert.False(t, s.AddToLook(garment("1", "outra camisa", "blusa", "verde")), "same id")
	assert.False(t, s.AddToLook(garment("2", "camisa azul", "blusa", "azul")), "same name")
	assert.False(t, s.AddToLook(garment("", "camisa azul", "blusa", "azul")), "same name without id")
	assert.Len(t, s.Look(), 1)

	assert.True(t, s.AddToLook(garment("", "saia", "saia", "preto")))
	assert.True(t, s.AddToLook(garment("", "calca", "calca", "bege")), "absent ids do not collide")
	assert.Len(t, s.Look(), 3)
}

func TestAddToLookRejectsInvalid(t *testing.T) {
	s := newTestStore(newFakeBackend())
	assert.False(t, s.AddToLook(garment("1", "camisa", "blusa", " ")))
	assert.Empty(t, s.Look())
}

func TestRemoveFromLookByName(t *testing.T) {
	s := newTestStore(newFakeBackend())
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))
	s.AddToLook(garment("", "saia", "saia", "preto"))

	removed := s.RemoveFromLook(garment("99", "camisa", "blusa", "azul"))
	assert.Equal(t, 1, removed, "name match even with a different id")
	assert.Equal(t, []string{"saia"}, names(s.Look()))

	assert.Zero(t, s.RemoveFromLook(garment("", "bolsa", "bolsa", "preto")))
}

func TestClearLook(t *testing.T) {
	s := newTestStore(newFakeBackend())
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))
	s.ClearLook()
	assert.Empty(t, s.Look())
}

func TestLookCopiesAreIndependent(t *testing.T) {
	s := newTestStore(newFakeBackend())
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))

	l := s.Look()
	l[0].Name = "changed"
	assert.Equal(t, "camisa", s.Look()[0].Name)
}

// =============================================================================
// TARGETS
// =============================================================================

func TestAddTarget(t *testing.T) {
	s := newTestStore(newFakeBackend())

	changed, err := s.AddTarget("BLUSA")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"blusa"}, s.Targets())

	changed, err = s.AddTarget(" blusa ")
	require.NoError(t, err)
	assert.False(t, changed, "already present")

	changed, err = s.AddTarget("")
	require.NoError(t, err)
	assert.False(t, changed, "empty token is a no-op")

	changed, err = s.AddTarget("chapeu")
	assert.ErrorIs(t, err, look.ErrInvalidCategory)
	assert.False(t, changed)

	assert.Equal(t, []string{"blusa"}, s.Targets())
}

func TestRemoveTarget(t *testing.T) {
	s := newTestStore(newFakeBackend())
	_, _ = s.AddTarget("sapato")
	_, _ = s.AddTarget("bolsa")

	s.RemoveTarget("SAPATO")
	assert.Equal(t, []string{"bolsa"}, s.Targets())
	s.RemoveTarget("jaqueta")
	assert.Equal(t, []string{"bolsa"}, s.Targets())
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestThresholdClamp(t *testing.T) {
	s := newTestStore(newFakeBackend())

	s.SetThreshold(1.7)
	assert.InDelta(t, 1.0, s.Threshold(), 1e-9)
	s.SetThreshold(-0.2)
	assert.InDelta(t, 0.0, s.Threshold(), 1e-9)
	s.SetThreshold(0.42)
	assert.InDelta(t, 0.40, s.Threshold(), 1e-9)

	s.SetThreshold(0.5)
	for range 3 {
		s.AdjustThreshold(look.ThresholdStep)
	}
	assert.InDelta(t, 0.65, s.Threshold(), 1e-9)

	for range 30 {
		s.AdjustThreshold(-look.ThresholdStep)
	}
	assert.InDelta(t, 0.0, s.Threshold(), 1e-9)
}

func TestOptionsThreshold(t *testing.T) {
	s := look.NewStore(newFakeBackend(), look.Options{Threshold: 0.8})
	assert.InDelta(t, 0.8, s.Threshold(), 1e-9)

	s = look.NewStore(newFakeBackend(), look.Options{Threshold: 0})
	assert.InDelta(t, 0.0, s.Threshold(), 1e-9, "zero is a valid threshold")
}

// =============================================================================
// CATALOG
// =============================================================================

func TestRefreshCatalog(t *testing.T) {
	b := newFakeBackend(garment("1", "camisa", "blusa", "azul"))
	s := newTestStore(b)

	require.NoError(t, s.RefreshCatalog(context.Background()))
	assert.Equal(t, []string{"camisa"}, names(s.Catalog()))
	assert.Zero(t, b.count("search"))
}

func TestRefreshCatalogFallsBackToSearch(t *testing.T) {
	b := newFakeBackend(garment("1", "camisa azul", "blusa", "azul"), garment("2", "saia", "saia", "preto"))
	b.listErr = errOffline
	s := newTestStore(b)
	s.SetQuery("camisa")

	require.NoError(t, s.RefreshCatalog(context.Background()))
	assert.Equal(t, []string{"camisa azul"}, names(s.Catalog()))
	assert.Equal(t, 1, b.count("search"))
}

func TestRefreshCatalogBothFail(t *testing.T) {
	b := newFakeBackend()
	b.listErr = errOffline
	b.searchErr = errOffline
	s := newTestStore(b)

	err := s.RefreshCatalog(context.Background())
	assert.ErrorIs(t, err, errOffline)
}

func TestSearchReplacesCatalog(t *testing.T) {
	b := newFakeBackend(garment("1", "camisa azul", "blusa", "azul"), garment("2", "saia azul", "saia", "azul"))
	s := newTestStore(b)

	require.NoError(t, s.Search(context.Background(), "saia"))
	assert.Equal(t, "saia", s.Query())
	assert.Equal(t, []string{"saia azul"}, names(s.Catalog()))

	require.NoError(t, s.Search(context.Background(), "nada"))
	assert.NotNil(t, s.Catalog())
	assert.Empty(t, s.Catalog())
}

func TestFindInCatalog(t *testing.T) {
	b := newFakeBackend(garment("1", "Camisa Azul", "blusa", "azul"), garment("2", "saia", "saia", "preto"))
	s := newTestStore(b)
	require.NoError(t, s.RefreshCatalog(context.Background()))

	g, ok := s.FindInCatalog("2")
	require.True(t, ok)
	assert.Equal(t, "saia", g.Name)

	g, ok = s.FindInCatalog("camisa azul")
	require.True(t, ok)
	assert.Equal(t, "1", g.ItemID)

	_, ok = s.FindInCatalog("bolsa")
	assert.False(t, ok)
}

func TestSaveManualRoundTrip(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	s.SetForm(look.ManualForm{
		Name:     " calca linho ",
		Category: "calca",
		Color:    "bege",
		Material: "linho",
		Pattern:  "  ",
	})

	saved, err := s.SaveManual(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ItemID)
	assert.Equal(t, look.ManualForm{}, s.Form(), "form cleared")

	catalog := s.Catalog()
	require.Len(t, catalog, 1, "catalog refreshed")
	got := catalog[0]
	assert.Equal(t, "calca linho", got.Name)
	assert.Equal(t, "linho", models.Value(got.Material))
	assert.Nil(t, got.Pattern, "blank optional stays absent")
	assert.Nil(t, got.Style)
	assert.Nil(t, got.Occasion)
	assert.Nil(t, got.Climate)
}

func TestSaveManualMissingFields(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	s.SetForm(look.ManualForm{Name: "calca", Color: " "})

	saved, err := s.SaveManual(context.Background())
	assert.Nil(t, saved)
	require.ErrorIs(t, err, look.ErrMissingFields)
	assert.Contains(t, err.Error(), "categoria, cor")
	assert.Zero(t, b.total(), "no network call")
	assert.Equal(t, "calca", s.Form().Name, "form kept")
}

func TestSaveManualCreateFails(t *testing.T) {
	b := newFakeBackend()
	b.createErr = errOffline
	s := newTestStore(b)
	s.SetForm(look.ManualForm{Name: "calca", Category: "calca", Color: "bege"})

	_, err := s.SaveManual(context.Background())
	assert.ErrorIs(t, err, errOffline)
	assert.Equal(t, "calca", s.Form().Name, "form kept for retry")
}

func TestSaveManualRefreshFails(t *testing.T) {
	b := newFakeBackend()
	b.listErr = errOffline
	b.searchErr = errOffline
	s := newTestStore(b)
	s.SetForm(look.ManualForm{Name: "calca", Category: "calca", Color: "bege"})

	saved, err := s.SaveManual(context.Background())
	require.NotNil(t, saved, "saved garment is returned with the refresh error")
	assert.ErrorIs(t, err, errOffline)
}

func TestDeleteFromCatalog(t *testing.T) {
	b := newFakeBackend(garment("1", "camisa", "blusa", "azul"), garment("2", "saia", "saia", "preto"))
	s := newTestStore(b)
	require.NoError(t, s.RefreshCatalog(context.Background()))

	var asked models.Garment
	err := s.DeleteFromCatalog(context.Background(), garment("1", "camisa", "blusa", "azul"), func(g models.Garment) bool {
		asked = g
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, "camisa", asked.Name)
	assert.Equal(t, []string{"saia"}, names(s.Catalog()))
}

func TestDeleteFromCatalogGuards(t *testing.T) {
	b := newFakeBackend(garment("1", "camisa", "blusa", "azul"))
	s := newTestStore(b)
	yes := func(models.Garment) bool { return true }
	no := func(models.Garment) bool { return false }

	err := s.DeleteFromCatalog(context.Background(), garment("", "camisa", "blusa", "azul"), yes)
	assert.ErrorIs(t, err, look.ErrNotPersisted)

	err = s.DeleteFromCatalog(context.Background(), garment("1", "camisa", "blusa", "azul"), no)
	assert.ErrorIs(t, err, look.ErrCancelled)

	err = s.DeleteFromCatalog(context.Background(), garment("1", "camisa", "blusa", "azul"), nil)
	assert.ErrorIs(t, err, look.ErrCancelled)

	assert.Zero(t, b.count("delete"))
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

func TestSuggestEmptyLook(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	_, err := s.Suggest(context.Background())
	assert.ErrorIs(t, err, look.ErrEmptyLook)
	assert.Equal(t, "add at least one item to the look", look.ErrEmptyLook.Error())
	assert.Zero(t, b.total(), "no network call")
}

func TestSuggest(t *testing.T) {
	b := newFakeBackend()
	b.suggestions = []models.ScoredItem{{ItemID: "3", Name: "tenis", Category: "sapato", Score: 0.9}}
	s := newTestStore(b)
	s.AddToLook(garment("1", "camisa azul", "blusa", "azul"))
	s.AddToLook(garment("2", "saia", "saia", "preto"))
	s.SetThreshold(0.6)
	s.SetConstraint("ocasion", "casual")

	block, err := s.Suggest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ResultSuggest, block.Kind)
	assert.Len(t, block.Suggestions, 1)
	assert.Same(t, block, s.Results())
	assert.False(t, s.Loading())

	req := b.lastSuggest
	assert.Equal(t, []string{"camisa azul", "saia"}, req.Items)
	assert.Equal(t, look.DefaultTopK, req.TopK)
	assert.InDelta(t, 0.6, req.Threshold, 1e-9)
	assert.Equal(t, map[string]string{"ocasion": "casual"}, req.Constraints)

	s.SetConstraint("ocasion", "")
	_, err = s.Suggest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b.lastSuggest.Constraints)
}

func TestSuggestWhileLoading(t *testing.T) {
	b := newFakeBackend()
	b.block = make(chan struct{})
	s := newTestStore(b)
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Suggest(context.Background())
	}()

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)

	_, err := s.Suggest(context.Background())
	assert.ErrorIs(t, err, look.ErrBusy)
	_, _ = s.AddTarget("sapato")
	_, err = s.Complete(context.Background())
	assert.ErrorIs(t, err, look.ErrBusy)

	close(b.block)
	wg.Wait()
	assert.False(t, s.Loading())
	assert.Equal(t, 1, b.count("suggest"))
}

func TestCompleteRequiresLookAndTargets(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	_, err := s.Complete(context.Background())
	assert.ErrorIs(t, err, look.ErrEmptyLook)

	s.AddToLook(garment("1", "camisa", "blusa", "azul"))
	_, err = s.Complete(context.Background())
	assert.ErrorIs(t, err, look.ErrNoTargets)

	assert.Zero(t, b.total())
}

func TestComplete(t *testing.T) {
	b := newFakeBackend()
	b.completion = &models.Completion{
		Targets: map[string][]models.ScoredItem{
			"sapato": {{ItemID: "3", Name: "tenis", Category: "sapato", Score: 0.7}},
		},
		Missing: []string{"bolsa"},
	}
	s := newTestStore(b)
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))
	_, _ = s.AddTarget("sapato")
	_, _ = s.AddTarget("bolsa")

	block, err := s.Complete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ResultComplete, block.Kind)
	assert.Equal(t, []string{"bolsa"}, block.Completion.Missing)

	assert.Equal(t, 1, b.lastComplete.TopK)
	assert.Equal(t, []string{"sapato", "bolsa"}, b.lastComplete.Targets)
	assert.Equal(t, []string{"camisa"}, b.lastComplete.Items)
}

func TestAddFromResult(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	b.items = []models.Garment{garment("1", "camisa azul", "blusa", "azul")}
	require.NoError(t, s.RefreshCatalog(context.Background()))

	item := models.NewScoredItem(map[string]any{"item_id": "1", "nome": "camisa azul", "categoria": "blusa", "score": 0.8})
	res, err := s.AddFromResult(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, look.StrategyCatalogID, res.Strategy)
	assert.True(t, res.Added)
	assert.Equal(t, "azul", s.Look()[0].Color)

	res, err = s.AddFromResult(context.Background(), item)
	require.NoError(t, err)
	assert.False(t, res.Added, "already in the look")
	assert.Len(t, s.Look(), 1)
}

func TestAddFromResultWithoutRaw(t *testing.T) {
	b := newFakeBackend(garment("5", "bolsa", "bolsa", "marrom"))
	s := newTestStore(b)

	res, err := s.AddFromResult(context.Background(), models.ScoredItem{ItemID: "5", Name: "bolsa"})
	require.NoError(t, err)
	assert.Equal(t, look.StrategyRemoteID, res.Strategy)
}

func TestAddFromResultUnresolved(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	item := models.NewScoredItem(map[string]any{"nome": "fantasma", "score": 0.3})
	_, err := s.AddFromResult(context.Background(), item)
	assert.ErrorIs(t, err, look.ErrUnresolved)
	assert.Empty(t, s.Look())
}

func TestCanAddCompletion(t *testing.T) {
	s := newTestStore(newFakeBackend())
	s.AddToLook(garment("1", "camisa", "blusa", "azul"))

	assert.True(t, s.CanAddCompletion("sapato", models.ScoredItem{ItemID: "3"}))
	assert.False(t, s.CanAddCompletion("sapato", models.ScoredItem{Name: "tenis"}), "needs an id")
	assert.False(t, s.CanAddCompletion("blusa", models.ScoredItem{ItemID: "4"}), "category already in the look")
}

func TestRebuildGraph(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	conf, err := s.RebuildGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", conf["status"])
}

func names(items []models.Garment) []string {
	out := make([]string, 0, len(items))
	for _, g := range items {
		out = append(out, g.Name)
	}
	return out
}
