package normalize

import (
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// Threshold rates a value into fantastic/great/fair/poor bands.
type Threshold struct {
	Unit models.Unit
	// Fantastic, Great and Fair are inclusive band edges.
	Fantastic float64
	Great     float64
	Fair      float64
	// LowerIsBetter flips the comparisons (DPMO style metrics).
	LowerIsBetter bool
	// ZeroOnly rates exactly zero as fantastic and everything else as poor.
	ZeroOnly bool
	// Unrated metrics carry no bands; their status stays none.
	Unrated bool
}

// Rate returns the status band for v.
func (t Threshold) Rate(v float64) models.Status {
	switch {
	case t.Unrated:
		return models.StatusNone
	case t.ZeroOnly:
		if v == 0 {
			return models.StatusFantastic
		}
		return models.StatusPoor
	case t.LowerIsBetter:
		switch {
		case v <= t.Fantastic:
			return models.StatusFantastic
		case v <= t.Great:
			return models.StatusGreat
		case v <= t.Fair:
			return models.StatusFair
		}
		return models.StatusPoor
	}
	switch {
	case v >= t.Fantastic:
		return models.StatusFantastic
	case v >= t.Great:
		return models.StatusGreat
	case v >= t.Fair:
		return models.StatusFair
	}
	return models.StatusPoor
}

// Target is the value a driver is expected to reach: the great band edge.
func (t Threshold) Target() float64 {
	if t.Unrated || t.ZeroOnly {
		return 0
	}
	return t.Great
}

// thresholds is the single canonical rating table for driver metrics.
var thresholds = map[string]Threshold{
	models.MetricDelivered: {Unit: models.UnitCount, Unrated: true},
	models.MetricDCR:       {Unit: models.UnitPercent, Fantastic: 99, Great: 98.5, Fair: 98},
	models.MetricDNR:       {Unit: models.UnitDPMO, Fantastic: 1000, Great: 1500, Fair: 2000, LowerIsBetter: true},
	models.MetricPOD:       {Unit: models.UnitPercent, Fantastic: 99, Great: 97, Fair: 95},
	models.MetricCC:        {Unit: models.UnitPercent, Fantastic: 98, Great: 95, Fair: 90},
	models.MetricCE:        {Unit: models.UnitCount, ZeroOnly: true},
	models.MetricDEX:       {Unit: models.UnitPercent, Fantastic: 95, Great: 90, Fair: 85},
}

// Lookup returns the threshold for a canonical metric name. Matching ignores
// case and surrounding whitespace.
func Lookup(metric string) (Threshold, bool) {
	if t, ok := thresholds[metric]; ok {
		return t, true
	}
	key := strings.ToUpper(strings.Join(strings.Fields(metric), " "))
	for name, t := range thresholds {
		if strings.ToUpper(name) == key {
			return t, true
		}
	}
	return Threshold{}, false
}

// StatusFor derives a status from the threshold table. ok is false when the
// metric has no table.
func StatusFor(metric string, v float64) (models.Status, bool) {
	t, ok := Lookup(metric)
	if !ok {
		return "", false
	}
	return t.Rate(v), true
}

// UnitFor returns the unit of a canonical metric, UnitNone when unknown.
func UnitFor(metric string) models.Unit {
	if t, ok := Lookup(metric); ok {
		return t.Unit
	}
	return models.UnitNone
}

// TargetFor returns the default target of a canonical metric.
func TargetFor(metric string) float64 {
	if t, ok := Lookup(metric); ok {
		return t.Target()
	}
	return 0
}

// Overall scorecard standing tokens.
const (
	OverallFantasticPlus = "Fantastic Plus"
	OverallFantastic     = "Fantastic"
	OverallGreat         = "Great"
	OverallFair          = "Fair"
	OverallPoor          = "Poor"
)

// StatusFromScore maps an overall score onto the overall standing.
func StatusFromScore(score float64) string {
	switch {
	case score >= 95:
		return OverallFantastic
	case score >= 85:
		return OverallGreat
	case score >= 75:
		return OverallFair
	}
	return OverallPoor
}

// OverallToken canonicalises an explicit standing token found in text.
func OverallToken(token string) (string, bool) {
	t := strings.Join(strings.Fields(strings.ToLower(token)), " ")
	switch t {
	case "fantastic plus", "fantastic+", "fantastic +":
		return OverallFantasticPlus, true
	case "fantastic":
		return OverallFantastic, true
	case "great":
		return OverallGreat, true
	case "fair":
		return OverallFair, true
	case "poor":
		return OverallPoor, true
	}
	return "", false
}
