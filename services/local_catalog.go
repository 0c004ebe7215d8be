package services

import (
	"sort"
	"strings"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// Catalog categories.
const (
	CatalogAllCategories = "All"

	CategoryFruits      = "Fruits"
	CategoryVegetables  = "Vegetables"
	CategoryGrains      = "Grains"
	CategoryProteins    = "Proteins"
	CategoryDairy       = "Dairy"
	CategoryNutsSeeds   = "Nuts & Seeds"
	CategoryBeverages   = "Beverages"
	CategorySnacks      = "Snacks"
	CategoryBreakfast   = "Breakfast"
	CategoryFrozenFoods = "Frozen Foods"
)

// catalogCategories is the display order of categories.
var catalogCategories = []string{
	CategoryFruits, CategoryVegetables, CategoryGrains, CategoryProteins, CategoryDairy,
	CategoryNutsSeeds, CategoryBeverages, CategorySnacks, CategoryBreakfast, CategoryFrozenFoods,
}

type catalogItem struct {
	id, name, category string
	kcal, protein      float64
	carbs, fat         float64
	fiber, sugar       float64
	amount             float64
	unit               string
	grams              float64
	desc               string
	barcode            string
}

// catalogItems are hand-verified values per serving.
var catalogItems = []catalogItem{
	{"apple-red-delicious", "Red Delicious Apple", CategoryFruits, 95, 0.5, 25, 0.3, 4, 19, 1, "piece", 182, "1 medium apple (182g)", ""},
	{"banana-medium", "Banana", CategoryFruits, 105, 1.3, 27, 0.4, 3, 14, 1, "piece", 118, "1 medium banana (118g)", ""},
	{"orange-navel", "Navel Orange", CategoryFruits, 62, 1.2, 15.4, 0.2, 3.1, 12, 1, "piece", 140, "1 medium orange (140g)", ""},
	{"strawberries-cup", "Strawberries", CategoryFruits, 49, 1, 12, 0.5, 3, 7, 1, "cup", 152, "1 cup sliced (152g)", ""},
	{"blueberries-cup", "Blueberries", CategoryFruits, 84, 1.1, 21, 0.5, 3.6, 15, 1, "cup", 148, "1 cup (148g)", ""},
	{"avocado-medium", "Avocado", CategoryFruits, 234, 3, 12, 21, 10, 1, 1, "piece", 150, "1 medium avocado (150g)", ""},

	{"broccoli-cup", "Broccoli", CategoryVegetables, 55, 5.7, 11, 0.6, 5, 2.6, 1, "cup", 91, "1 cup chopped (91g)", ""},
	{"spinach-cup", "Spinach", CategoryVegetables, 7, 0.9, 1.1, 0.1, 0.7, 0.1, 1, "cup", 30, "1 cup raw (30g)", ""},
	{"carrot-medium", "Carrot", CategoryVegetables, 25, 0.5, 6, 0.1, 1.7, 4.7, 1, "piece", 61, "1 medium carrot (61g)", ""},
	{"sweet-potato-medium", "Sweet Potato", CategoryVegetables, 112, 2, 26, 0.1, 3.8, 5.4, 1, "piece", 114, "1 medium (114g)", ""},
	{"bell-pepper-red", "Red Bell Pepper", CategoryVegetables, 31, 1, 7, 0.4, 2.5, 4.2, 1, "piece", 119, "1 medium pepper (119g)", ""},

	{"chicken-breast-4oz", "Chicken Breast", CategoryProteins, 185, 35, 0, 4, 0, 0, 113, "g", 113, "4 oz cooked (113g)", ""},
	{"salmon-4oz", "Salmon", CategoryProteins, 206, 22, 0, 12, 0, 0, 113, "g", 113, "4 oz cooked (113g)", ""},
	{"eggs-large", "Large Egg", CategoryProteins, 70, 6, 0.6, 5, 0, 0.6, 1, "piece", 50, "1 large egg (50g)", ""},
	{"ground-beef-85-4oz", "Ground Beef (85% lean)", CategoryProteins, 240, 22, 0, 17, 0, 0, 113, "g", 113, "4 oz cooked (113g)", ""},
	{"tofu-firm-4oz", "Firm Tofu", CategoryProteins, 88, 10, 2.3, 5.3, 0.3, 0.6, 113, "g", 113, "4 oz (113g)", ""},

	{"greek-yogurt-plain", "Greek Yogurt (Plain)", CategoryDairy, 100, 17, 6, 0, 0, 6, 1, "cup", 245, "1 cup (245g)", "0818290010018"},
	{"milk-2-percent", "2% Milk", CategoryDairy, 122, 8, 12, 5, 0, 12, 1, "cup", 244, "1 cup (244g)", ""},
	{"cheddar-cheese-1oz", "Cheddar Cheese", CategoryDairy, 113, 7, 0.4, 9, 0, 0.4, 28, "g", 28, "1 oz (28g)", ""},
	{"cottage-cheese-1cup", "Cottage Cheese (Low-fat)", CategoryDairy, 163, 28, 6, 2, 0, 6, 1, "cup", 226, "1 cup (226g)", ""},

	{"brown-rice-cooked", "Brown Rice (Cooked)", CategoryGrains, 112, 2.6, 22, 0.9, 1.8, 0.4, 0.5, "cup", 98, "1/2 cup cooked (98g)", ""},
	{"quinoa-cooked", "Quinoa (Cooked)", CategoryGrains, 111, 4, 20, 1.8, 2.8, 0.9, 0.5, "cup", 92, "1/2 cup cooked (92g)", ""},
	{"oats-rolled", "Rolled Oats", CategoryGrains, 154, 5.3, 27, 2.6, 4, 1, 0.5, "cup", 40, "1/2 cup dry (40g)", "0030000010402"},
	{"whole-wheat-bread", "Whole Wheat Bread", CategoryGrains, 81, 4, 14, 1.1, 2, 1.4, 1, "slice", 28, "1 slice (28g)", ""},

	{"almonds-1oz", "Almonds", CategoryNutsSeeds, 164, 6, 6, 14, 3.5, 1.2, 28, "g", 28, "1 oz (28g)", ""},
	{"peanut-butter-2tbsp", "Peanut Butter", CategoryNutsSeeds, 188, 8, 6, 16, 2, 3, 2, "tbsp", 32, "2 tbsp (32g)", "0051500255162"},
	{"chia-seeds-1oz", "Chia Seeds", CategoryNutsSeeds, 137, 4.4, 12, 8.6, 10.6, 0, 28, "g", 28, "1 oz (28g)", ""},

	{"water-8oz", "Water", CategoryBeverages, 0, 0, 0, 0, 0, 0, 8, "fl_oz", 237, "8 fl oz (237ml)", ""},
	{"coffee-black", "Black Coffee", CategoryBeverages, 2, 0.3, 0, 0, 0, 0, 8, "fl_oz", 237, "8 fl oz (237ml)", ""},
	{"green-tea", "Green Tea", CategoryBeverages, 2, 0, 0, 0, 0, 0, 8, "fl_oz", 237, "8 fl oz (237ml)", ""},

	{"hummus-2tbsp", "Hummus", CategorySnacks, 50, 2, 4, 3, 1, 0, 2, "tbsp", 30, "2 tbsp (30g)", "0852696000204"},
	{"dark-chocolate-1oz", "Dark Chocolate (70%)", CategorySnacks, 155, 2, 15, 11, 3, 12, 28, "g", 28, "1 oz (28g)", "0034000440404"},

	{"eggs-scrambled-2", "Scrambled Eggs", CategoryBreakfast, 140, 12, 1.2, 10, 0, 1.2, 2, "piece", 100, "2 large eggs (100g)", ""},
	{"pancakes-3", "Pancakes", CategoryBreakfast, 210, 6, 30, 7, 1, 6, 3, "piece", 90, "3 pancakes (90g)", ""},

	{"frozen-broccoli-cup", "Frozen Broccoli", CategoryFrozenFoods, 25, 3, 5, 0.3, 3, 2, 1, "cup", 156, "1 cup (156g)", "0014500012231"},
	{"frozen-berries-cup", "Frozen Mixed Berries", CategoryFrozenFoods, 70, 1, 17, 0.5, 4, 12, 1, "cup", 140, "1 cup (140g)", "0041268189442"},
}

// popularFoodIDs is the fixed "popular" ordering.
var popularFoodIDs = []string{
	"chicken-breast-4oz", "brown-rice-cooked", "broccoli-cup", "eggs-large", "banana-medium",
	"almonds-1oz", "greek-yogurt-plain", "salmon-4oz", "sweet-potato-medium", "avocado-medium",
	"quinoa-cooked", "spinach-cup", "oats-rolled", "peanut-butter-2tbsp", "apple-red-delicious",
	"bell-pepper-red", "carrot-medium", "tofu-firm-4oz", "cottage-cheese-1cup", "hummus-2tbsp",
}

// LocalFoodCatalog is the static, offline set of verified foods. It never
// changes after construction and is safe for concurrent use.
type LocalFoodCatalog struct {
	records   []models.NormalizedFoodRecord
	byID      map[string]int
	byBarcode map[string]int
}

func NewLocalFoodCatalog(units *UnitSystem) *LocalFoodCatalog {
	if units == nil {
		units = NewUnitSystem()
	}
	c := &LocalFoodCatalog{
		byID:      make(map[string]int, len(catalogItems)),
		byBarcode: map[string]int{},
	}
	for _, it := range catalogItems {
		unit, ok := units.Lookup(it.unit)
		if !ok {
			continue
		}
		rec := models.NormalizedFoodRecord{
			ID:                     it.id,
			Name:                   it.name,
			Category:               it.category,
			Barcode:                it.barcode,
			CanonicalServingAmount: it.amount,
			CanonicalServingUnit:   unit,
			ServingGrams:           it.grams,
			ServingDescription:     it.desc,
			Nutrients: models.NutritionProfile{
				Calories: it.kcal,
				Protein:  it.protein,
				Carbs:    it.carbs,
				Fat:      it.fat,
				Fiber:    it.fiber,
				Sugar:    it.sugar,
			},
			Source:   models.SourceLocal,
			Verified: true,
		}
		c.byID[rec.ID] = len(c.records)
		if rec.Barcode != "" {
			c.byBarcode[rec.Barcode] = len(c.records)
		}
		c.records = append(c.records, rec)
	}
	return c
}

func (c *LocalFoodCatalog) ByID(id string) (models.NormalizedFoodRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.NormalizedFoodRecord{}, false
	}
	return c.records[i], true
}

func (c *LocalFoodCatalog) ByBarcode(code string) (models.NormalizedFoodRecord, bool) {
	i, ok := c.byBarcode[strings.TrimSpace(code)]
	if !ok {
		return models.NormalizedFoodRecord{}, false
	}
	return c.records[i], true
}

// ByCategory returns the category's records in catalog order.
func (c *LocalFoodCatalog) ByCategory(category string) []models.NormalizedFoodRecord {
	out := []models.NormalizedFoodRecord{}
	for _, r := range c.records {
		if strings.EqualFold(r.Category, category) {
			out = append(out, r)
		}
	}
	return out
}

func (c *LocalFoodCatalog) Categories() []string {
	out := make([]string, len(catalogCategories))
	copy(out, catalogCategories)
	return out
}

// Search filters by category ("" or "All" for any) and by a case-insensitive
// substring of name, brand or category. Names starting with the query sort
// first; ties are ordered by lowercased name.
func (c *LocalFoodCatalog) Search(query, category string) []models.NormalizedFoodRecord {
	term := strings.ToLower(strings.TrimSpace(query))
	anyCategory := category == "" || strings.EqualFold(category, CatalogAllCategories)

	out := []models.NormalizedFoodRecord{}
	for _, r := range c.records {
		if !anyCategory && !strings.EqualFold(r.Category, category) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Brand), term) &&
			!strings.Contains(strings.ToLower(r.Category), term) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		ap, bp := strings.HasPrefix(a, term), strings.HasPrefix(b, term)
		if ap != bp {
			return ap
		}
		return a < b
	})
	return out
}

// Popular returns up to limit records in the fixed popularity order.
func (c *LocalFoodCatalog) Popular(limit int) []models.NormalizedFoodRecord {
	if limit <= 0 || limit > len(popularFoodIDs) {
		limit = len(popularFoodIDs)
	}
	out := make([]models.NormalizedFoodRecord, 0, limit)
	for _, id := range popularFoodIDs {
		if len(out) == limit {
			break
		}
		if r, ok := c.ByID(id); ok {
			out = append(out, r)
		}
	}
	return out
}

// Len is the number of records in the catalog.
func (c *LocalFoodCatalog) Len() int {
	return len(c.records)
}
