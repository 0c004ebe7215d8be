package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// AssessmentContext personalizes the daily limits used by AssessNutrition.
type AssessmentContext struct {
	AgeYears      int
	CalorieTarget float64 // 0 means 2000 kcal
}

// AssessmentContextFromGoal uses the goal's calorie target when set.
func AssessmentContextFromGoal(ageYears int, goal *models.DailyGoal) AssessmentContext {
	ctx := AssessmentContext{AgeYears: ageYears}
	if goal != nil && goal.Calories > 0 {
		ctx.CalorieTarget = goal.Calories
	}
	return ctx
}

type WarningSeverity string

const (
	Info    WarningSeverity = "info"
	Caution WarningSeverity = "caution"
	High    WarningSeverity = "high"
)

// Warning is one informational finding about a food or a day of eating.
type Warning struct {
	Code           string          `json:"code"`
	Severity       WarningSeverity `json:"severity"`
	Message        string          `json:"message"`
	Metric         string          `json:"metric,omitempty"`
	Value          float64         `json:"value,omitempty"`
	Limit          float64         `json:"limit,omitempty"`
	PercentOfLimit float64         `json:"percent_of_limit,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

const defaultCalorieTarget = 2000

// assessment carries the derived inputs every rule reads.
type assessment struct {
	name      string
	p         models.NutritionProfile
	kcal      float64
	grams     float64
	sodiumCap float64
	satFatCap float64
	sugarCap  float64
	ageYears  int
}

type rule func(a *assessment) []Warning

var rules = []rule{
	sugarRule,
	saturatedFatRule,
	sodiumRule,
	transFatRule,
	macroDistributionRule,
	fiberRule,
	grainRule,
	energyDensityRule,
}

// AssessNutrition screens a profile against the Dietary Guidelines. It only
// reports on nutrients that are present. servingGrams may be 0 when the
// weight is unknown, which skips the energy density check.
func AssessNutrition(name string, p models.NutritionProfile, servingGrams float64, ctx AssessmentContext) []Warning {
	target := ctx.CalorieTarget
	if target <= 0 {
		target = defaultCalorieTarget
	}
	a := &assessment{
		name:      strings.ToLower(name),
		p:         p,
		kcal:      p.Calories,
		grams:     servingGrams,
		sodiumCap: sodiumLimitByAge(ctx.AgeYears),
		satFatCap: 0.10 * target / 9,
		sugarCap:  0.10 * target / 4,
		ageYears:  ctx.AgeYears,
	}
	if a.kcal <= 0 {
		a.kcal = 4*p.Carbs + 4*p.Protein + 9*p.Fat
	}

	out := []Warning{}
	for _, r := range rules {
		out = append(out, r(a)...)
	}
	return out
}

// Sugar is total sugar; the share of item calories stands in for added
// sugar, which providers rarely report.
func sugarRule(a *assessment) []Warning {
	if a.p.Sugar <= 0 {
		return nil
	}
	if a.ageYears > 0 && a.ageYears < 2 {
		return []Warning{{
			Code:      "sugars_infants",
			Severity:  High,
			Message:   "Under age 2: avoid foods with added sugars.",
			Metric:    "sugar_g",
			Value:     round2(a.p.Sugar),
			Reference: dgaRef("Added sugars: avoid for <2y"),
		}}
	}
	var out []Warning
	if a.kcal > 0 {
		pct := a.p.Sugar * 4 / a.kcal
		if pct >= 0.10 && a.p.Sugar >= 5 {
			out = append(out, Warning{
				Code:      "sugars_high_item",
				Severity:  Caution,
				Message:   fmt.Sprintf("Sugars are %.0f%% of this item's calories and may include added sugars.", pct*100),
				Metric:    "sugar_pct_of_item_kcal",
				Value:     round2(pct * 100),
				Limit:     10,
				Reference: dgaRef("Added sugars ≤10% kcal"),
			})
		}
	}
	if w, ok := dailyShare(a.p.Sugar, a.sugarCap, "sugars", "sugar_pct_of_daily_limit", "sugar", "<10% kcal/day from added sugars"); ok {
		out = append(out, w)
	}
	return out
}

func saturatedFatRule(a *assessment) []Warning {
	var out []Warning
	if a.p.SaturatedFat > 0 {
		if a.kcal > 0 && (a.ageYears == 0 || a.ageYears >= 2) {
			pct := a.p.SaturatedFat * 9 / a.kcal
			if pct >= 0.10 {
				out = append(out, Warning{
					Code:      "sat_fat_high_item",
					Severity:  High,
					Message:   fmt.Sprintf("Saturated fat is %.0f%% of this item's calories.", pct*100),
					Metric:    "saturated_fat_pct_of_item_kcal",
					Value:     round2(pct * 100),
					Limit:     10,
					Reference: dgaRef("Saturated fat ≤10% kcal"),
				})
			}
		}
		if w, ok := dailyShare(a.p.SaturatedFat, a.satFatCap, "sat_fat", "sat_fat_pct_of_daily_limit", "saturated-fat", "<10% kcal/day from saturated fat"); ok {
			out = append(out, w)
		}
		return out
	}
	if containsAny(a.name, "butter", "ghee", "cream", "cheese", "bacon", "sausage", "shortening",
		"palm oil", "palm kernel", "coconut oil", "lard") {
		out = append(out, Warning{
			Code:      "sat_fat_source_heuristic",
			Severity:  Info,
			Message:   "Likely high in saturated fat; leaner cuts or plant oils are alternatives.",
			Reference: dgaRef("Shift from saturated to unsaturated fats"),
		})
	}
	return out
}

func sodiumRule(a *assessment) []Warning {
	na := a.p.Sodium
	if na <= 0 {
		return nil
	}
	var out []Warning
	share := na / a.sodiumCap
	switch {
	case share >= 0.40:
		out = append(out, shareWarning("sodium_very_high", High,
			fmt.Sprintf("Very high sodium: about %.0f%% of the daily limit.", share*100),
			"sodium_pct_of_daily_limit", share, "Limit sodium (CDRR)"))
	case share >= 0.20:
		out = append(out, shareWarning("sodium_high", Caution,
			fmt.Sprintf("High sodium: about %.0f%% of the daily limit.", share*100),
			"sodium_pct_of_daily_limit", share, "Limit sodium (CDRR)"))
	}
	if a.kcal > 0 {
		if density := na / a.kcal * 100; density >= 400 {
			out = append(out, Warning{
				Code:      "sodium_dense",
				Severity:  Info,
				Message:   "High sodium for the calories it provides.",
				Metric:    "sodium_mg_per_100kcal",
				Value:     round2(density),
				Reference: dgaRef("Choose lower-sodium options"),
			})
		}
	}
	if a.p.Potassium > 0 {
		if ratio := na / a.p.Potassium; ratio > 1.5 {
			out = append(out, Warning{
				Code:      "sodium_potassium_ratio_high",
				Severity:  Info,
				Message:   "Sodium outweighs potassium; fruits, vegetables and legumes help balance it.",
				Metric:    "na_to_k_ratio",
				Value:     round2(ratio),
				Reference: dgaRef("Shift to potassium-rich foods"),
			})
		}
	}
	return out
}

func transFatRule(a *assessment) []Warning {
	if a.p.TransFat <= 0 {
		return nil
	}
	sev := Caution
	if a.p.TransFat >= 0.5 {
		sev = High
	}
	return []Warning{{
		Code:      "trans_fat_present",
		Severity:  sev,
		Message:   fmt.Sprintf("Contains %.2fg trans fat; keep intake as low as possible.", a.p.TransFat),
		Metric:    "trans_fat_g",
		Value:     round2(a.p.TransFat),
		Reference: dgaRef("Avoid trans fat"),
	}}
}

// Acceptable macronutrient distribution ranges, as fractions of macro kcal.
var macroRanges = []struct {
	code, label, metric string
	kcalPerGram         float64
	grams               func(p models.NutritionProfile) float64
	lo, hi              float64
}{
	{"amdr_carbs_out_of_range", "Carbohydrate", "carb_pct_of_macro_kcal", 4, func(p models.NutritionProfile) float64 { return p.Carbs }, 0.45, 0.65},
	{"amdr_protein_out_of_range", "Protein", "protein_pct_of_macro_kcal", 4, func(p models.NutritionProfile) float64 { return p.Protein }, 0.10, 0.35},
	{"amdr_fat_out_of_range", "Fat", "fat_pct_of_macro_kcal", 9, func(p models.NutritionProfile) float64 { return p.Fat }, 0.20, 0.35},
}

func macroDistributionRule(a *assessment) []Warning {
	total := 4*a.p.Carbs + 4*a.p.Protein + 9*a.p.Fat
	if a.kcal <= 0 || total <= 0 {
		return nil
	}
	var out []Warning
	for _, m := range macroRanges {
		pct := m.kcalPerGram * m.grams(a.p) / total
		if pct >= m.lo && pct <= m.hi {
			continue
		}
		out = append(out, Warning{
			Code:     m.code,
			Severity: Info,
			Message: fmt.Sprintf("%s is about %.0f%% of macro calories (range %.0f-%.0f%%).",
				m.label, pct*100, m.lo*100, m.hi*100),
			Metric:    m.metric,
			Value:     round2(pct * 100),
			Reference: dgaRef("Acceptable macronutrient distribution ranges"),
		})
	}
	return out
}

func fiberRule(a *assessment) []Warning {
	if a.kcal <= 0 || a.p.Carbs < 15 || a.p.Fiber <= 0 {
		return nil
	}
	density := a.p.Fiber / a.kcal * 100
	switch {
	case density < 1:
		return []Warning{{
			Code:      "fiber_low_nudge",
			Severity:  Info,
			Message:   "Low fiber for a carbohydrate food; whole grains, fruit or vegetables add more.",
			Metric:    "fiber_g_per_100kcal",
			Value:     round2(density),
			Reference: dgaRef("Fiber is underconsumed"),
		}}
	case density >= 2.5:
		return []Warning{{
			Code:      "fiber_high_positive",
			Severity:  Info,
			Message:   "Good fiber density.",
			Metric:    "fiber_g_per_100kcal",
			Value:     round2(density),
			Reference: dgaRef("Emphasize fiber-rich foods"),
		}}
	}
	return nil
}

func grainRule(a *assessment) []Warning {
	switch {
	case containsAny(a.name, "whole wheat", "whole-grain", "whole grain", "brown rice", "oat", "quinoa", "bulgur", "rye", "wholemeal"):
		return []Warning{{
			Code:      "whole_grain_positive",
			Severity:  Info,
			Message:   "Whole-grain choice.",
			Reference: dgaRef("Make at least half of grains whole"),
		}}
	case containsAny(a.name, "white bread", "white rice", "refined flour", "all-purpose flour", "cake", "pastry", "cracker", "biscuit", "pancake"):
		return []Warning{{
			Code:      "refined_grain_nudge",
			Severity:  Info,
			Message:   "Refined grain; a whole-grain swap adds fiber.",
			Reference: dgaRef("Make at least half of grains whole"),
		}}
	}
	return nil
}

func energyDensityRule(a *assessment) []Warning {
	if a.grams <= 0 || a.kcal <= 0 {
		return nil
	}
	per100 := a.kcal / a.grams * 100
	switch {
	case per100 >= 275:
		return []Warning{{
			Code:      "energy_density_very_high",
			Severity:  Info,
			Message:   "Very energy-dense food; portion size matters.",
			Metric:    "kcal_per_100g",
			Value:     round2(per100),
			Reference: dgaRef("Moderate high-energy-density foods"),
		}}
	case per100 >= 150:
		return []Warning{{
			Code:      "energy_density_high",
			Severity:  Info,
			Message:   "Energy-dense food; pair it with vegetables or fruit.",
			Metric:    "kcal_per_100g",
			Value:     round2(per100),
			Reference: dgaRef("Emphasize nutrient-dense foods"),
		}}
	}
	return nil
}

// dailyShare flags one serving that takes 20% (caution) or 40% (high) of a
// daily limit.
func dailyShare(amount, limit float64, codePrefix, metric, label, ref string) (Warning, bool) {
	if amount <= 0 || limit <= 0 {
		return Warning{}, false
	}
	share := amount / limit
	switch {
	case share >= 0.40:
		return shareWarning(codePrefix+"_very_high_daily_share", High,
			fmt.Sprintf("Provides about %.0f%% of the daily %s limit.", share*100, label),
			metric, share, ref), true
	case share >= 0.20:
		return shareWarning(codePrefix+"_high_daily_share", Caution,
			fmt.Sprintf("Provides about %.0f%% of the daily %s limit.", share*100, label),
			metric, share, ref), true
	}
	return Warning{}, false
}

func shareWarning(code string, sev WarningSeverity, msg, metric string, share float64, ref string) Warning {
	return Warning{
		Code:           code,
		Severity:       sev,
		Message:        msg,
		Metric:         metric,
		Value:          round2(share * 100),
		Limit:          100,
		PercentOfLimit: round2(share * 100),
		Reference:      dgaRef(ref),
	}
}

// sodiumLimitByAge is the chronic disease risk reduction intake in mg/day.
func sodiumLimitByAge(age int) float64 {
	switch {
	case age > 0 && age <= 3:
		return 1200
	case age >= 4 && age <= 8:
		return 1500
	case age >= 9 && age <= 13:
		return 1800
	default:
		return 2300
	}
}

func dgaRef(where string) string {
	return "Dietary Guidelines for Americans, 2020-2025: " + where
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
