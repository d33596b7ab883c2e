package kpi

import (
	"regexp"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

type categoryRule struct {
	category models.Category
	pattern  *regexp.Regexp
}

// categoryRules classify KPIs found outside the canonical library.
var categoryRules = []categoryRule{
	{models.CategorySafety, regexp.MustCompile(`(?i)safe|speed|seat\s*belt|distract|signal|following|fico|mentor|vsa|accident|collision`)},
	{models.CategoryStandardWork, regexp.MustCompile(`(?i)photo|\bpod\b|contact|standard\s+work|\bcc\b`)},
	{models.CategoryCompliance, regexp.MustCompile(`(?i)complian|breach|audit|working\s+hours|\bwhc\b|\bboc\b`)},
	{models.CategoryCustomer, regexp.MustCompile(`(?i)customer|feedback|escalat|\bdsb\b|\bcdf\b|\bdex\b|experience`)},
	{models.CategoryCapacity, regexp.MustCompile(`(?i)capacity|reliab|roster|rescue`)},
	{models.CategoryQuality, regexp.MustCompile(`(?i)deliver|\bdcr\b|\bdnr\b|\blor\b|lost|quality|dpmo|completion`)},
}

// CategoryFor classifies a KPI label by keyword, defaulting to safety.
func CategoryFor(label string) models.Category {
	for _, r := range categoryRules {
		if r.pattern.MatchString(label) {
			return r.category
		}
	}
	return models.CategorySafety
}

// Categorize partitions kpis by category. Every category is present, in
// input order within each group.
func Categorize(kpis []models.CompanyKPI) map[models.Category][]models.CompanyKPI {
	out := make(map[models.Category][]models.CompanyKPI, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = []models.CompanyKPI{}
	}
	for _, k := range kpis {
		c := k.Category
		if _, ok := out[c]; !ok {
			c = CategoryFor(k.Name)
		}
		out[c] = append(out[c], k)
	}
	return out
}

// TrendFor derives a trend from a status. Scorecards carry no week-over-week
// history, so the trend only reflects the current standing.
func TrendFor(s models.Status) models.Trend {
	switch s {
	case models.StatusFantastic, models.StatusGreat:
		return models.TrendUp
	case models.StatusPoor, models.StatusNotInCompliance:
		return models.TrendDown
	}
	return models.TrendNeutral
}
