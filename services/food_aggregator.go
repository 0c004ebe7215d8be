package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// ErrEmptyQuery is the only error Search returns.
var ErrEmptyQuery = errors.New("search query is empty")

const (
	DefaultPageSize = 20
	MaxPageSize     = 200

	defaultPopularParallelism = 4
)

// popularQueries seeds PopularFoods, in display order.
var popularQueries = []string{
	"chicken breast", "rice", "banana", "apple", "eggs", "bread", "milk", "yogurt", "cheese",
	"salmon", "broccoli", "spinach", "oats", "quinoa", "sweet potato", "avocado", "almonds",
	"peanut butter",
}

// SearchProvider answers free-text searches.
type SearchProvider interface {
	Name() string
	SearchFoods(ctx context.Context, query string, page, pageSize int) (*models.SearchResult, error)
}

// RecordProvider looks a single food up by its provider id.
type RecordProvider interface {
	Name() string
	FoodByID(ctx context.Context, id string) (*models.NormalizedFoodRecord, error)
}

// BarcodeProvider looks a packaged product up by barcode.
type BarcodeProvider interface {
	Name() string
	ProductByBarcode(ctx context.Context, code string) (*models.NormalizedFoodRecord, error)
}

// AggregatorConfig wires the aggregator. Providers are tried in slice order.
type AggregatorConfig struct {
	SearchProviders  []SearchProvider
	RecordProviders  []RecordProvider
	BarcodeProviders []BarcodeProvider
	Catalog          *LocalFoodCatalog
	Cache            *FoodCache
	Metrics          *Metrics
	Logger           *zap.Logger

	// PopularParallelism bounds concurrent searches in PopularFoods.
	PopularParallelism int
}

// FoodDataAggregator fronts the remote nutrition providers with a shared
// cache and the local catalog. Provider failures are logged and counted but
// never returned to callers.
type FoodDataAggregator struct {
	search      []SearchProvider
	records     []RecordProvider
	barcodes    []BarcodeProvider
	catalog     *LocalFoodCatalog
	cache       *FoodCache
	metrics     *Metrics
	logger      *zap.Logger
	parallelism int
}

func NewFoodDataAggregator(cfg AggregatorConfig) (*FoodDataAggregator, error) {
	cache := cfg.Cache
	if cache == nil {
		c, err := NewFoodCache(DefaultCacheSize, DefaultCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create food cache: %w", err)
		}
		cache = c
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = NewLocalFoodCatalog(nil)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics("nutrition")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	parallelism := cfg.PopularParallelism
	if parallelism <= 0 {
		parallelism = defaultPopularParallelism
	}
	return &FoodDataAggregator{
		search:      cfg.SearchProviders,
		records:     cfg.RecordProviders,
		barcodes:    cfg.BarcodeProviders,
		catalog:     catalog,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		parallelism: parallelism,
	}, nil
}

// NormalizePaging clamps page and page size into their accepted ranges.
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func searchCacheKey(query string, page, pageSize int) string {
	h := xxhash.New()
	_, _ = h.WriteString(query)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(page))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(pageSize))
	return "search:" + strconv.FormatUint(h.Sum64(), 16)
}

func recordCacheKey(id string) string { return "id:" + id }
func barcodeCacheKey(code string) string { return "barcode:" + code }

// Search returns one page of normalized records for query. A cached page is
// served without network access. Otherwise providers are tried in order and
// the first non-empty answer is cached. When every provider fails or comes
// back empty, the local catalog answers and nothing is cached.
func (a *FoodDataAggregator) Search(ctx context.Context, query string, page, pageSize int) (*models.SearchResult, error) {
	q := normalizeQuery(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	page, pageSize = NormalizePaging(page, pageSize)
	key := searchCacheKey(q, page, pageSize)

	if hit, ok := a.cacheGet(key); ok && hit.Search != nil {
		return cloneSearchResult(hit.Search), nil
	}

	for _, p := range a.search {
		res, err := p.SearchFoods(ctx, q, page, pageSize)
		if err != nil {
			a.logProviderError(p.Name(), "search", err, zap.String("query", q))
			continue
		}
		if res == nil || len(res.Records) == 0 {
			continue
		}
		out := *res
		out.Records = a.withFallbacks(res.Records)
		a.cache.Set(key, CachedLookup{Search: cloneSearchResult(&out)})
		return &out, nil
	}

	a.metrics.CatalogFallbacks.WithLabelValues("search").Inc()
	return a.catalogPage(q, page, pageSize), nil
}

func (a *FoodDataAggregator) catalogPage(q string, page, pageSize int) *models.SearchResult {
	all := a.catalog.Search(q, "")
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	records := make([]models.NormalizedFoodRecord, end-start)
	copy(records, all[start:end])
	return &models.SearchResult{
		Records:    records,
		TotalCount: len(all),
		Page:       page,
		PageSize:   pageSize,
		HasMore:    end < len(all),
		Source:     models.SourceLocal,
	}
}

// GetByID resolves a food id through the cache, the record providers and
// finally the local catalog.
func (a *FoodDataAggregator) GetByID(ctx context.Context, id string) (*models.NormalizedFoodRecord, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	key := recordCacheKey(id)
	if hit, ok := a.cacheGet(key); ok && hit.Record != nil {
		return cloneRecord(hit.Record), true
	}

	for _, p := range a.records {
		rec, err := p.FoodByID(ctx, id)
		if err != nil {
			a.logProviderError(p.Name(), "get_by_id", err, zap.String("id", id))
			continue
		}
		if rec == nil {
			continue
		}
		out := a.withFallback(*rec)
		a.cache.Set(key, CachedLookup{Record: cloneRecord(&out)})
		return &out, true
	}

	if rec, ok := a.catalog.ByID(id); ok {
		a.metrics.CatalogFallbacks.WithLabelValues("get_by_id").Inc()
		return &rec, true
	}
	return nil, false
}

// SearchByBarcode resolves a barcode through the cache, the barcode
// providers and the local catalog.
func (a *FoodDataAggregator) SearchByBarcode(ctx context.Context, code string) (*models.NormalizedFoodRecord, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false
	}
	key := barcodeCacheKey(code)
	if hit, ok := a.cacheGet(key); ok && hit.Record != nil {
		return cloneRecord(hit.Record), true
	}

	for _, p := range a.barcodes {
		rec, err := p.ProductByBarcode(ctx, code)
		if err != nil {
			a.logProviderError(p.Name(), "barcode", err, zap.String("barcode", code))
			continue
		}
		if rec == nil {
			continue
		}
		out := a.withFallback(*rec)
		a.cache.Set(key, CachedLookup{Record: cloneRecord(&out)})
		return &out, true
	}

	if rec, ok := a.catalog.ByBarcode(code); ok {
		a.metrics.CatalogFallbacks.WithLabelValues("barcode").Inc()
		return &rec, true
	}
	return nil, false
}

// PopularFoods searches the popular query list concurrently and keeps the
// top hit of each, in list order. Gaps are filled from the catalog.
func (a *FoodDataAggregator) PopularFoods(ctx context.Context, limit int) []models.NormalizedFoodRecord {
	if limit <= 0 || limit > len(popularQueries) {
		limit = len(popularQueries)
	}
	queries := popularQueries[:limit]
	slots := make([]*models.NormalizedFoodRecord, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := a.Search(gctx, q, 1, 1)
			if err != nil || len(res.Records) == 0 {
				return nil
			}
			rec := res.Records[0]
			slots[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool, limit)
	out := make([]models.NormalizedFoodRecord, 0, limit)
	for _, rec := range slots {
		if rec == nil || seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, *rec)
	}
	for _, rec := range a.catalog.Popular(0) {
		if len(out) >= limit {
			break
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func (a *FoodDataAggregator) cacheGet(key string) (CachedLookup, bool) {
	hit, ok := a.cache.Get(key)
	if ok {
		a.metrics.CacheHits.Inc()
		a.logger.Debug("food cache hit", zap.String("key", key))
		return hit, true
	}
	a.metrics.CacheMisses.Inc()
	return CachedLookup{}, false
}

func (a *FoodDataAggregator) withFallbacks(records []models.NormalizedFoodRecord) []models.NormalizedFoodRecord {
	out := make([]models.NormalizedFoodRecord, len(records))
	for i, r := range records {
		out[i] = a.withFallback(r)
	}
	return out
}

func (a *FoodDataAggregator) withFallback(rec models.NormalizedFoodRecord) models.NormalizedFoodRecord {
	out, keyword, applied := applyFallback(rec)
	if applied {
		a.metrics.FallbackProfiles.WithLabelValues(keyword).Inc()
		a.logger.Debug("applied fallback nutrition profile",
			zap.String("food", rec.Name),
			zap.String("keyword", keyword))
	}
	return out
}

func (a *FoodDataAggregator) logProviderError(provider, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("provider", provider), zap.String("operation", op))
	if errors.Is(err, errNotFound) {
		a.logger.Debug("provider has no match", fields...)
		return
	}
	a.logger.Warn("provider call failed", append(fields, zap.Error(err))...)
}

func cloneRecord(r *models.NormalizedFoodRecord) *models.NormalizedFoodRecord {
	out := *r
	out.Allergens = append([]string(nil), r.Allergens...)
	out.Ingredients = append([]string(nil), r.Ingredients...)
	return &out
}

func cloneSearchResult(s *models.SearchResult) *models.SearchResult {
	out := *s
	out.Records = make([]models.NormalizedFoodRecord, len(s.Records))
	for i := range s.Records {
		out.Records[i] = *cloneRecord(&s.Records[i])
	}
	return &out
}
