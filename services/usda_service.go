package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

const (
	USDAProviderName   = "usda"
	DefaultUSDABaseURL = "https://api.nal.usda.gov/fdc/v1"
)

// USDA FoodData Central nutrient ids, in preference order. When several ids
// feed the same field the first one present wins (1008 kcal energy before
// the Atwater energy variants).
var usdaNutrientTable = []struct {
	ID    int
	Field nutrientField
}{
	{1008, fieldCalories},
	{2047, fieldCalories},
	{2048, fieldCalories},
	{1003, fieldProtein},
	{1005, fieldCarbs},
	{1004, fieldFat},
	{1079, fieldFiber},
	{2000, fieldSugar},
	{1093, fieldSodium},
	{1253, fieldCholesterol},
	{1258, fieldSaturatedFat},
	{1257, fieldTransFat},
	{1092, fieldPotassium},
	{1087, fieldCalcium},
	{1089, fieldIron},
	{1106, fieldVitaminA},
	{1162, fieldVitaminC},
}

// USDAConfig configures the FoodData Central adapter.
type USDAConfig struct {
	BaseURL string
	APIKey  string
	Client  ProviderClientConfig
}

// USDAService is the primary search provider. Every food it returns is per
// 100 g.
type USDAService struct {
	baseURL string
	apiKey  string
	client  *providerClient
	units   *UnitSystem
}

func NewUSDAService(cfg USDAConfig, httpClient *http.Client, metrics *Metrics, logger *zap.Logger) *USDAService {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultUSDABaseURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}
	return &USDAService{
		baseURL: base,
		apiKey:  apiKey,
		client:  newProviderClient(USDAProviderName, cfg.Client, httpClient, metrics, logger),
		units:   NewUnitSystem(),
	}
}

func (s *USDAService) Name() string { return USDAProviderName }

type usdaFoodNutrient struct {
	Nutrient struct {
		ID int `json:"id"`
	} `json:"nutrient"`
	Amount float64 `json:"amount"`
}

type usdaFood struct {
	FdcID         int64              `json:"fdcId"`
	Description   string             `json:"description"`
	BrandOwner    string             `json:"brandOwner"`
	GTINUPC       string             `json:"gtinUpc"`
	Ingredients   string             `json:"ingredients"`
	FoodNutrients []usdaFoodNutrient `json:"foodNutrients"`
}

type usdaSearchResponse struct {
	Foods     []usdaFood `json:"foods"`
	TotalHits int        `json:"totalHits"`
}

// SearchFoods calls GET /foods/search.
func (s *USDAService) SearchFoods(ctx context.Context, query string, page, pageSize int) (*models.SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("api_key", s.apiKey)

	var sr usdaSearchResponse
	if err := s.client.getJSON(ctx, s.baseURL+"/foods/search?"+q.Encode(), &sr); err != nil {
		return nil, err
	}

	records := make([]models.NormalizedFoodRecord, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		records = append(records, s.normalize(f))
	}
	return &models.SearchResult{
		Records:    records,
		TotalCount: sr.TotalHits,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    page*pageSize < sr.TotalHits,
		Source:     models.SourceUSDA,
	}, nil
}

// FoodByID calls GET /food/{fdcId}. Non-numeric ids are never USDA ids.
func (s *USDAService) FoodByID(ctx context.Context, id string) (*models.NormalizedFoodRecord, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, errNotFound
	}
	q := url.Values{}
	q.Set("api_key", s.apiKey)

	var f usdaFood
	if err := s.client.getJSON(ctx, fmt.Sprintf("%s/food/%s?%s", s.baseURL, url.PathEscape(id), q.Encode()), &f); err != nil {
		return nil, err
	}
	if f.FdcID == 0 && f.Description == "" {
		return nil, errNotFound
	}
	rec := s.normalize(f)
	return &rec, nil
}

// normalize maps one USDA food through usdaNutrientTable. Missing nutrients
// stay zero.
func (s *USDAService) normalize(f usdaFood) models.NormalizedFoodRecord {
	amounts := make(map[int]float64, len(f.FoodNutrients))
	for _, n := range f.FoodNutrients {
		if _, seen := amounts[n.Nutrient.ID]; !seen {
			amounts[n.Nutrient.ID] = n.Amount
		}
	}

	var profile models.NutritionProfile
	filled := map[*float64]bool{}
	for _, e := range usdaNutrientTable {
		v, ok := amounts[e.ID]
		if !ok {
			continue
		}
		slot := e.Field(&profile)
		if filled[slot] {
			continue
		}
		*slot = v
		filled[slot] = true
	}

	id := uuid.NewString()
	if f.FdcID != 0 {
		id = strconv.FormatInt(f.FdcID, 10)
	}
	name := strings.TrimSpace(f.Description)
	if name == "" {
		name = "Unknown Food"
	}
	grams, _ := s.units.Lookup("g")

	return models.NormalizedFoodRecord{
		ID:                     id,
		Name:                   name,
		Brand:                  strings.TrimSpace(f.BrandOwner),
		Barcode:                strings.TrimSpace(f.GTINUPC),
		CanonicalServingAmount: 100,
		CanonicalServingUnit:   grams,
		ServingGrams:           100,
		ServingDescription:     "100 g",
		Nutrients:              profile.ClampNonNegative(),
		Source:                 models.SourceUSDA,
		Verified:               true,
		Ingredients:            splitList(f.Ingredients),
	}
}
