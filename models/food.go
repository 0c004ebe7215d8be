package models

import (
	"math"
	"slices"
)

// Source identifies where a food record came from.
type Source string

const (
	SourceUSDA          Source = "usda"
	SourceOpenFoodFacts Source = "openfoodfacts"
	SourceLocal         Source = "local"
)

// NutritionProfile holds nutrient amounts. Unknown values are zero, never
// missing, so the arithmetic below is total.
//
// Units: calories kcal; protein, carbs, fat, fiber, sugar, saturated and
// trans fat g; sodium, cholesterol, potassium, calcium, iron, vitamin C mg;
// vitamin A µg.
type NutritionProfile struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	Sodium       float64 `json:"sodium"`
	Cholesterol  float64 `json:"cholesterol,omitempty"`
	SaturatedFat float64 `json:"saturated_fat,omitempty"`
	TransFat     float64 `json:"trans_fat,omitempty"`
	Potassium    float64 `json:"potassium,omitempty"`
	Calcium      float64 `json:"calcium,omitempty"`
	Iron         float64 `json:"iron,omitempty"`
	VitaminA     float64 `json:"vitamin_a,omitempty"`
	VitaminC     float64 `json:"vitamin_c,omitempty"`
}

// fields exposes every nutrient slot so the helpers below stay in sync
// with the struct.
func (p *NutritionProfile) fields() []*float64 {
	return []*float64{
		&p.Calories, &p.Protein, &p.Carbs, &p.Fat, &p.Fiber, &p.Sugar, &p.Sodium,
		&p.Cholesterol, &p.SaturatedFat, &p.TransFat, &p.Potassium, &p.Calcium,
		&p.Iron, &p.VitaminA, &p.VitaminC,
	}
}

// Add returns the field-wise sum of p and o.
func (p NutritionProfile) Add(o NutritionProfile) NutritionProfile {
	out := p
	dst, src := out.fields(), o.fields()
	for i := range dst {
		*dst[i] += *src[i]
	}
	return out
}

// SumProfiles adds profiles field by field. Each field's terms are summed in
// ascending order, so any permutation of the arguments gives the same
// result bit for bit.
func SumProfiles(ps ...NutritionProfile) NutritionProfile {
	var out NutritionProfile
	dst := out.fields()
	terms := make([]float64, len(ps))
	for i := range dst {
		for j := range ps {
			terms[j] = *ps[j].fields()[i]
		}
		slices.Sort(terms)
		for _, v := range terms {
			*dst[i] += v
		}
	}
	return out
}

// Scale multiplies every field by f.
func (p NutritionProfile) Scale(f float64) NutritionProfile {
	out := p
	for _, v := range out.fields() {
		*v *= f
	}
	return out
}

// Round rounds every field to the given number of decimals.
func (p NutritionProfile) Round(decimals int) NutritionProfile {
	pow := math.Pow(10, float64(decimals))
	out := p
	for _, v := range out.fields() {
		*v = math.Round(*v*pow) / pow
	}
	return out
}

// ClampNonNegative replaces negative or NaN values with zero.
func (p NutritionProfile) ClampNonNegative() NutritionProfile {
	out := p
	for _, v := range out.fields() {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			*v = 0
		}
	}
	return out
}

// HasCoreMacros is false when calories, protein, carbs and fat are all zero,
// which providers use to signal missing data.
func (p NutritionProfile) HasCoreMacros() bool {
	return p.Calories != 0 || p.Protein != 0 || p.Carbs != 0 || p.Fat != 0
}

// IsZero reports whether every field is zero.
func (p NutritionProfile) IsZero() bool {
	return p == NutritionProfile{}
}

// NormalizedFoodRecord is the single internal shape of a food item. Nutrients
// are always per CanonicalServingAmount of CanonicalServingUnit. Records are
// value objects and are not modified after construction.
type NormalizedFoodRecord struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Brand                  string           `json:"brand,omitempty"`
	Category               string           `json:"category,omitempty"`
	Barcode                string           `json:"barcode,omitempty"`
	CanonicalServingAmount float64          `json:"serving_amount"`
	CanonicalServingUnit   Unit             `json:"serving_unit"`
	ServingGrams           float64          `json:"serving_grams,omitempty"` // gram weight of one canonical serving, 0 if unknown
	ServingDescription     string           `json:"serving_description,omitempty"`
	Nutrients              NutritionProfile `json:"nutrients"`
	Source                 Source           `json:"source"`
	Verified               bool             `json:"verified"`
	Allergens              []string         `json:"allergens,omitempty"`
	Ingredients            []string         `json:"ingredients,omitempty"`
	ImageURL               string           `json:"image_url,omitempty"`
}

// FoodServing is a UI shortcut such as "1 medium" for a banana.
type FoodServing struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	UnitID      string  `json:"unit"`
	Description string  `json:"description,omitempty"`
	IsCommon    bool    `json:"is_common"`
}

// SearchResult is one page of normalized records.
type SearchResult struct {
	Records    []NormalizedFoodRecord `json:"foods"`
	TotalCount int                    `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	HasMore    bool                   `json:"has_more"`
	Source     Source                 `json:"source"`
}
