package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

const (
	OpenFoodFactsProviderName = "openfoodfacts"
	DefaultOpenFoodFactsURL   = "https://world.openfoodfacts.org"

	kJPerKcal = 4.184
)

// Open Food Facts nutriment keys (per 100 g) in preference order, with the
// multiplier into our units. OFF reports minerals and vitamins in grams.
var offNutrimentTable = []struct {
	Key        string
	Field      nutrientField
	Multiplier float64
}{
	{"energy-kcal_100g", fieldCalories, 1},
	{"energy_kcal_100g", fieldCalories, 1},
	{"energy_100g", fieldCalories, 1 / kJPerKcal}, // kJ
	{"proteins_100g", fieldProtein, 1},
	{"carbohydrates_100g", fieldCarbs, 1},
	{"fat_100g", fieldFat, 1},
	{"fiber_100g", fieldFiber, 1},
	{"sugars_100g", fieldSugar, 1},
	{"sodium_100g", fieldSodium, 1000},
	{"cholesterol_100g", fieldCholesterol, 1000},
	{"saturated-fat_100g", fieldSaturatedFat, 1},
	{"saturated_fat_100g", fieldSaturatedFat, 1},
	{"trans-fat_100g", fieldTransFat, 1},
	{"trans_fat_100g", fieldTransFat, 1},
	{"potassium_100g", fieldPotassium, 1000},
	{"calcium_100g", fieldCalcium, 1000},
	{"iron_100g", fieldIron, 1000},
	{"vitamin-a_100g", fieldVitaminA, 1e6},
	{"vitamin-c_100g", fieldVitaminC, 1000},
}

// OpenFoodFactsConfig configures the Open Food Facts adapter.
type OpenFoodFactsConfig struct {
	BaseURL string
	Client  ProviderClientConfig
}

// OpenFoodFactsService looks products up by barcode and serves as a
// secondary search provider. Every product it returns is per 100 g.
type OpenFoodFactsService struct {
	baseURL string
	client  *providerClient
	units   *UnitSystem
}

func NewOpenFoodFactsService(cfg OpenFoodFactsConfig, httpClient *http.Client, metrics *Metrics, logger *zap.Logger) *OpenFoodFactsService {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultOpenFoodFactsURL
	}
	return &OpenFoodFactsService{
		baseURL: base,
		client:  newProviderClient(OpenFoodFactsProviderName, cfg.Client, httpClient, metrics, logger),
		units:   NewUnitSystem(),
	}
}

func (s *OpenFoodFactsService) Name() string { return OpenFoodFactsProviderName }

type offProduct struct {
	ID              string          `json:"_id"`
	Code            string          `json:"code"`
	ProductName     string          `json:"product_name"`
	GenericName     string          `json:"generic_name"`
	Brands          string          `json:"brands"`
	Nutriments      json.RawMessage `json:"nutriments"`
	AllergensTags   []string        `json:"allergens_tags"`
	CategoriesTags  []string        `json:"categories_tags"`
	IngredientsText string          `json:"ingredients_text"`
	ImageURL        string          `json:"image_url"`
}

type offProductResponse struct {
	Status  int         `json:"status"`
	Code    string      `json:"code"`
	Product *offProduct `json:"product"`
}

type offSearchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

// ProductByBarcode calls GET /api/v0/product/{code}.json.
func (s *OpenFoodFactsService) ProductByBarcode(ctx context.Context, code string) (*models.NormalizedFoodRecord, error) {
	code = strings.TrimSpace(code)
	if !isDigits(code) {
		return nil, errNotFound
	}
	var pr offProductResponse
	u := fmt.Sprintf("%s/api/v0/product/%s.json", s.baseURL, url.PathEscape(code))
	if err := s.client.getJSON(ctx, u, &pr); err != nil {
		return nil, err
	}
	if pr.Status != 1 || pr.Product == nil {
		return nil, errNotFound
	}
	if pr.Product.Code == "" {
		pr.Product.Code = code
	}
	rec := s.normalize(*pr.Product)
	return &rec, nil
}

// FoodByID treats numeric ids as barcodes.
func (s *OpenFoodFactsService) FoodByID(ctx context.Context, id string) (*models.NormalizedFoodRecord, error) {
	return s.ProductByBarcode(ctx, id)
}

// SearchFoods calls GET /cgi/search.pl.
func (s *OpenFoodFactsService) SearchFoods(ctx context.Context, query string, page, pageSize int) (*models.SearchResult, error) {
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var sr offSearchResponse
	if err := s.client.getJSON(ctx, s.baseURL+"/cgi/search.pl?"+q.Encode(), &sr); err != nil {
		return nil, err
	}
	records := make([]models.NormalizedFoodRecord, 0, len(sr.Products))
	for _, p := range sr.Products {
		records = append(records, s.normalize(p))
	}
	return &models.SearchResult{
		Records:    records,
		TotalCount: sr.Count,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    page*pageSize < sr.Count,
		Source:     models.SourceOpenFoodFacts,
	}, nil
}

func (s *OpenFoodFactsService) normalize(p offProduct) models.NormalizedFoodRecord {
	id := p.Code
	if id == "" {
		id = p.ID
	}
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = strings.TrimSpace(p.GenericName)
	}
	if name == "" {
		name = "Unknown Product"
	}
	allergens := make([]string, 0, len(p.AllergensTags))
	for _, tag := range p.AllergensTags {
		allergens = append(allergens, stripLangPrefix(tag))
	}
	category := ""
	if len(p.CategoriesTags) > 0 {
		category = stripLangPrefix(p.CategoriesTags[0])
	}
	grams, _ := s.units.Lookup("g")

	return models.NormalizedFoodRecord{
		ID:                     id,
		Name:                   name,
		Brand:                  strings.TrimSpace(p.Brands),
		Category:               category,
		Barcode:                p.Code,
		CanonicalServingAmount: 100,
		CanonicalServingUnit:   grams,
		ServingGrams:           100,
		ServingDescription:     "100 g",
		Nutrients:              offNutriments(p.Nutriments).ClampNonNegative(),
		Source:                 models.SourceOpenFoodFacts,
		Verified:               true,
		Allergens:              allergens,
		Ingredients:            splitList(p.IngredientsText),
		ImageURL:               p.ImageURL,
	}
}

// offNutriments reads the nutriments object through offNutrimentTable.
// Values may be numbers or numeric strings; anything else counts as absent.
func offNutriments(raw json.RawMessage) models.NutritionProfile {
	var profile models.NutritionProfile
	if len(raw) == 0 {
		return profile
	}
	filled := map[*float64]bool{}
	for _, e := range offNutrimentTable {
		slot := e.Field(&profile)
		if filled[slot] {
			continue
		}
		v, ok := gjsonFloat(gjson.GetBytes(raw, e.Key))
		if !ok {
			continue
		}
		*slot = v * e.Multiplier
		filled[slot] = true
	}
	return profile
}

func gjsonFloat(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stripLangPrefix turns "en:milk" into "milk".
func stripLangPrefix(tag string) string {
	if i := strings.Index(tag, ":"); i > 0 && i <= 3 {
		return tag[i+1:]
	}
	return tag
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
