package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

var errBoom = fmt.Errorf("%w: fake: connection refused", errProviderUnavailable)

// fakeProvider implements every provider interface. Results are built per
// call so callers can never share state through it.
type fakeProvider struct {
	name string
	err  error

	search  func(query string, page, pageSize int) *models.SearchResult
	record  func(id string) *models.NormalizedFoodRecord
	barcode func(code string) *models.NormalizedFoodRecord

	searchCalls  atomic.Int32
	recordCalls  atomic.Int32
	barcodeCalls atomic.Int32

	mu       sync.Mutex
	lastPage [2]int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) SearchFoods(_ context.Context, query string, page, pageSize int) (*models.SearchResult, error) {
	f.searchCalls.Add(1)
	f.mu.Lock()
	f.lastPage = [2]int{page, pageSize}
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.search == nil {
		return &models.SearchResult{}, nil
	}
	return f.search(query, page, pageSize), nil
}

func (f *fakeProvider) FoodByID(_ context.Context, id string) (*models.NormalizedFoodRecord, error) {
	f.recordCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.record == nil {
		return nil, errNotFound
	}
	if rec := f.record(id); rec != nil {
		return rec, nil
	}
	return nil, errNotFound
}

func (f *fakeProvider) ProductByBarcode(_ context.Context, code string) (*models.NormalizedFoodRecord, error) {
	f.barcodeCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.barcode == nil {
		return nil, errNotFound
	}
	if rec := f.barcode(code); rec != nil {
		return rec, nil
	}
	return nil, errNotFound
}

func gramRecord(id, name string, p models.NutritionProfile) models.NormalizedFoodRecord {
	g, _ := NewUnitSystem().Lookup("g")
	return models.NormalizedFoodRecord{
		ID:                     id,
		Name:                   name,
		CanonicalServingAmount: 100,
		CanonicalServingUnit:   g,
		ServingGrams:           100,
		Nutrients:              p,
		Source:                 models.SourceUSDA,
		Verified:               true,
		Allergens:              []string{"none"},
	}
}

func searchOf(records ...models.NormalizedFoodRecord) func(string, int, int) *models.SearchResult {
	return func(_ string, page, pageSize int) *models.SearchResult {
		out := make([]models.NormalizedFoodRecord, len(records))
		copy(out, records)
		return &models.SearchResult{Records: out, TotalCount: len(out), Page: page, PageSize: pageSize, Source: models.SourceUSDA}
	}
}

type aggregatorFixture struct {
	agg     *FoodDataAggregator
	metrics *Metrics
	clock   *fakeClock
}

func newAggregator(t *testing.T, search []SearchProvider, records []RecordProvider, barcodes []BarcodeProvider) aggregatorFixture {
	t.Helper()
	clock := newFakeClock()
	cache, err := NewFoodCache(64, 5*time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	metrics := NewMetrics("test")
	agg, err := NewFoodDataAggregator(AggregatorConfig{
		SearchProviders:  search,
		RecordProviders:  records,
		BarcodeProviders: barcodes,
		Catalog:          NewLocalFoodCatalog(nil),
		Cache:            cache,
		Metrics:          metrics,
		Logger:           zap.NewNop(),
	})
	require.NoError(t, err)
	return aggregatorFixture{agg: agg, metrics: metrics, clock: clock}
}

var appleProfile = models.NutritionProfile{Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2}

func TestFoodDataAggregator_Search_CachesResults(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(gramRecord("1", "Apple", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)
	ctx := context.Background()

	first, err := f.agg.Search(ctx, "Apple", 1, 20)
	require.NoError(t, err)
	second, err := f.agg.Search(ctx, "  apple ", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int32(1), usda.searchCalls.Load(), "normalized query hits the cache")
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheHits))

	_, err = f.agg.Search(ctx, "apple", 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), usda.searchCalls.Load(), "pages are cached separately")
}

func TestFoodDataAggregator_Search_TTLExpiry(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(gramRecord("1", "Apple", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)
	ctx := context.Background()

	_, err := f.agg.Search(ctx, "apple", 1, 20)
	require.NoError(t, err)
	f.clock.Advance(4 * time.Minute)
	_, err = f.agg.Search(ctx, "apple", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), usda.searchCalls.Load())

	f.clock.Advance(time.Minute)
	_, err = f.agg.Search(ctx, "apple", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), usda.searchCalls.Load(), "entry expires at the ttl")
}

func TestFoodDataAggregator_Search_FailsOver(t *testing.T) {
	usda := &fakeProvider{name: "usda", err: errBoom}
	off := &fakeProvider{name: "openfoodfacts", search: searchOf(gramRecord("3017620422003", "Nutella", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda, off}, nil, nil)
	ctx := context.Background()

	res, err := f.agg.Search(ctx, "nutella", 1, 20)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Nutella", res.Records[0].Name)

	_, err = f.agg.Search(ctx, "nutella", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), usda.searchCalls.Load())
	assert.Equal(t, int32(1), off.searchCalls.Load())
}

func TestFoodDataAggregator_Search_EmptyProviderFallsThrough(t *testing.T) {
	usda := &fakeProvider{name: "usda"}
	off := &fakeProvider{name: "openfoodfacts", search: searchOf(gramRecord("9", "Kale Chips", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda, off}, nil, nil)

	res, err := f.agg.Search(context.Background(), "kale chips", 1, 20)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "9", res.Records[0].ID)
}

func TestFoodDataAggregator_Search_CatalogFallback(t *testing.T) {
	usda := &fakeProvider{name: "usda", err: errBoom}
	off := &fakeProvider{name: "openfoodfacts", err: errBoom}
	f := newAggregator(t, []SearchProvider{usda, off}, nil, nil)
	ctx := context.Background()

	res, err := f.agg.Search(ctx, "banana", 1, 20)
	require.NoError(t, err)
	require.NotEmpty(t, res.Records)
	assert.Equal(t, "banana-medium", res.Records[0].ID)
	assert.Equal(t, models.SourceLocal, res.Source)
	assert.True(t, res.Records[0].Verified)

	_, err = f.agg.Search(ctx, "banana", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), usda.searchCalls.Load(), "catalog answers are not cached")
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CatalogFallbacks.WithLabelValues("search")))

	none, err := f.agg.Search(ctx, "durian", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, none.Records)
	assert.Equal(t, 0, none.TotalCount)
}

func TestFoodDataAggregator_Search_CatalogPaging(t *testing.T) {
	f := newAggregator(t, nil, nil, nil)

	first, err := f.agg.Search(context.Background(), "cheese", 1, 1)
	require.NoError(t, err)
	require.Len(t, first.Records, 1)
	assert.True(t, first.HasMore)
	assert.Equal(t, 2, first.TotalCount)

	second, err := f.agg.Search(context.Background(), "cheese", 2, 1)
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	assert.False(t, second.HasMore)
	assert.NotEqual(t, first.Records[0].ID, second.Records[0].ID)

	past, err := f.agg.Search(context.Background(), "cheese", 9, 1)
	require.NoError(t, err)
	assert.Empty(t, past.Records)
}

func TestFoodDataAggregator_Search_Validation(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(gramRecord("1", "Apple", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)
	ctx := context.Background()

	_, err := f.agg.Search(ctx, "   ", 1, 20)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, int32(0), usda.searchCalls.Load())

	res, err := f.agg.Search(ctx, "apple", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, MaxPageSize}, usda.lastPage)
	assert.Equal(t, 1, res.Page)

	_, err = f.agg.Search(ctx, "pear", -3, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, DefaultPageSize}, usda.lastPage)
}

func TestFoodDataAggregator_Search_AppliesFallbackProfile(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(
		gramRecord("1", "Grilled Chicken Thigh", models.NutritionProfile{Potassium: 300}),
		gramRecord("2", "Beef and Rice Bowl", models.NutritionProfile{}),
		gramRecord("3", "Mystery Snack", models.NutritionProfile{Sugar: 9}),
		gramRecord("4", "Apple", appleProfile),
	)}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)

	res, err := f.agg.Search(context.Background(), "anything", 1, 20)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	chicken := res.Records[0]
	assert.Equal(t, 165.0, chicken.Nutrients.Calories)
	assert.Equal(t, 31.0, chicken.Nutrients.Protein)
	assert.Equal(t, 74.0, chicken.Nutrients.Sodium)
	assert.Equal(t, 300.0, chicken.Nutrients.Potassium, "provider micronutrients survive")
	assert.False(t, chicken.Verified)

	assert.Equal(t, 250.0, res.Records[1].Nutrients.Calories, "first keyword in table order wins")
	assert.Equal(t, 100.0, res.Records[2].Nutrients.Calories)
	assert.Equal(t, 5.0, res.Records[2].Nutrients.Sugar)

	assert.Equal(t, appleProfile, res.Records[3].Nutrients)
	assert.True(t, res.Records[3].Verified)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FallbackProfiles.WithLabelValues("chicken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FallbackProfiles.WithLabelValues(defaultFallbackKeyword)))
}

func TestFoodDataAggregator_Search_CacheHitsAreIsolated(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(gramRecord("1", "Apple", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)
	ctx := context.Background()

	first, err := f.agg.Search(ctx, "apple", 1, 20)
	require.NoError(t, err)
	first.Records[0].Name = "changed"
	first.Records[0].Allergens[0] = "changed"

	second, err := f.agg.Search(ctx, "apple", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "Apple", second.Records[0].Name)
	assert.Equal(t, "none", second.Records[0].Allergens[0])
}

func TestFoodDataAggregator_Search_Concurrent(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: searchOf(gramRecord("1", "Apple", appleProfile))}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.agg.Search(context.Background(), "apple", 1, 20)
			assert.NoError(t, err)
			assert.Equal(t, "1", res.Records[0].ID)
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, usda.searchCalls.Load(), int32(1))
}

func TestFoodDataAggregator_GetByID(t *testing.T) {
	usda := &fakeProvider{name: "usda", record: func(id string) *models.NormalizedFoodRecord {
		if id != "1234" {
			return nil
		}
		rec := gramRecord("1234", "Apple", appleProfile)
		return &rec
	}}
	off := &fakeProvider{name: "openfoodfacts", err: errBoom}
	f := newAggregator(t, nil, []RecordProvider{usda, off}, nil)
	ctx := context.Background()

	rec, ok := f.agg.GetByID(ctx, "1234")
	require.True(t, ok)
	assert.Equal(t, "Apple", rec.Name)
	_, ok = f.agg.GetByID(ctx, "1234")
	require.True(t, ok)
	assert.Equal(t, int32(1), usda.recordCalls.Load())

	local, ok := f.agg.GetByID(ctx, "banana-medium")
	require.True(t, ok)
	assert.Equal(t, models.SourceLocal, local.Source)
	assert.Equal(t, int32(1), off.recordCalls.Load(), "failing provider was tried and skipped")

	_, ok = f.agg.GetByID(ctx, "does-not-exist")
	assert.False(t, ok)
	_, ok = f.agg.GetByID(ctx, " ")
	assert.False(t, ok)
}

func TestFoodDataAggregator_SearchByBarcode(t *testing.T) {
	off := &fakeProvider{name: "openfoodfacts", barcode: func(code string) *models.NormalizedFoodRecord {
		if code != "3017620422003" {
			return nil
		}
		rec := gramRecord(code, "Nutella", models.NutritionProfile{})
		return &rec
	}}
	f := newAggregator(t, nil, nil, []BarcodeProvider{off})
	ctx := context.Background()

	rec, ok := f.agg.SearchByBarcode(ctx, "3017620422003")
	require.True(t, ok)
	assert.Equal(t, 100.0, rec.Nutrients.Calories, "fallback profile applies to barcode hits")
	assert.False(t, rec.Verified)
	_, ok = f.agg.SearchByBarcode(ctx, "3017620422003")
	require.True(t, ok)
	assert.Equal(t, int32(1), off.barcodeCalls.Load())

	local, ok := f.agg.SearchByBarcode(ctx, "0051500255162")
	require.True(t, ok)
	assert.Equal(t, "peanut-butter-2tbsp", local.ID)

	_, ok = f.agg.SearchByBarcode(ctx, "4000000000000")
	assert.False(t, ok)
	_, ok = f.agg.SearchByBarcode(ctx, "")
	assert.False(t, ok)
}

func TestFoodDataAggregator_PopularFoods(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: func(q string, page, pageSize int) *models.SearchResult {
		rec := gramRecord("p-"+q, q, appleProfile)
		return &models.SearchResult{Records: []models.NormalizedFoodRecord{rec}, Page: page, PageSize: pageSize}
	}}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)

	got := f.agg.PopularFoods(context.Background(), 3)
	assert.Equal(t, []string{"p-chicken breast", "p-rice", "p-banana"}, recordIDs(got))
	assert.Equal(t, int32(3), usda.searchCalls.Load())

	all := f.agg.PopularFoods(context.Background(), 0)
	assert.Len(t, all, len(popularQueries))
}

func TestFoodDataAggregator_PopularFoods_OfflineUsesCatalog(t *testing.T) {
	f := newAggregator(t, []SearchProvider{&fakeProvider{name: "usda", err: errBoom}}, nil, nil)

	got := f.agg.PopularFoods(context.Background(), 3)
	assert.Equal(t, []string{"chicken-breast-4oz", "brown-rice-cooked", "banana-medium"}, recordIDs(got))
}

func TestFoodDataAggregator_PopularFoods_FillsGapsFromCatalog(t *testing.T) {
	usda := &fakeProvider{name: "usda", search: func(string, int, int) *models.SearchResult {
		rec := gramRecord("same", "Same Food", appleProfile)
		return &models.SearchResult{Records: []models.NormalizedFoodRecord{rec}}
	}}
	f := newAggregator(t, []SearchProvider{usda}, nil, nil)

	got := f.agg.PopularFoods(context.Background(), 3)
	assert.Equal(t, []string{"same", "chicken-breast-4oz", "brown-rice-cooked"}, recordIDs(got))
}

// End to end over HTTP: USDA down, Open Food Facts answers in grams.
func TestFoodDataAggregator_HTTPProviders(t *testing.T) {
	var usdaCalls, offCalls int32
	usdaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&usdaCalls, 1)
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer usdaSrv.Close()
	offSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&offCalls, 1)
		_, _ = w.Write([]byte(`{"count": 1, "products": [{"code": "123", "product_name": "Salted Crackers",
			"nutriments": {"energy-kcal_100g": 430, "fat_100g": 12, "sodium_100g": 0.5}}]}`))
	}))
	defer offSrv.Close()

	metrics := NewMetrics("test")
	usda := NewUSDAService(USDAConfig{BaseURL: usdaSrv.URL, Client: testClientConfig}, usdaSrv.Client(), metrics, zap.NewNop())
	off := NewOpenFoodFactsService(OpenFoodFactsConfig{BaseURL: offSrv.URL, Client: testClientConfig}, offSrv.Client(), metrics, zap.NewNop())
	agg, err := NewFoodDataAggregator(AggregatorConfig{
		SearchProviders: []SearchProvider{usda, off},
		Metrics:         metrics,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := agg.Search(context.Background(), "crackers", 1, 20)
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.Equal(t, 500.0, res.Records[0].Nutrients.Sodium)
		assert.Equal(t, models.SourceOpenFoodFacts, res.Source)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&usdaCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&offCalls))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CacheHits))
}

func TestFoodDataAggregator_ProviderErrorsNeverEscape(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	usda := &fakeProvider{name: "usda", err: context.Canceled}
	f := newAggregator(t, []SearchProvider{usda}, []RecordProvider{usda}, []BarcodeProvider{usda})

	res, err := f.agg.Search(cancelled, "banana", 1, 20)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Records)

	_, ok := f.agg.GetByID(cancelled, "banana-medium")
	assert.True(t, ok)
	_, ok = f.agg.SearchByBarcode(cancelled, "0051500255162")
	assert.True(t, ok)
	assert.Equal(t, int32(1), usda.searchCalls.Load())
}
