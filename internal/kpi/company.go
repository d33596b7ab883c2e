// Package kpi recovers station-level KPIs from the summary pages of a
// scorecard.
package kpi

import (
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/normalize"
)

const (
	numberGroup = `(-?\d[\d.,]*)\s*(%|DPMO)?`
	// a lone dash closing the line is an empty cell
	valueGroup  = `(-?\d[\d.,]*|[-–—](?m:[ \t]*$))\s*(%|DPMO)?`
	statusGroup = `(fantastic\s*\+|fantastic\s+plus|fantastic|great|fair|poor)\b`
	labelGap    = `[^\d\n]{0,12}?`
)

type compiledDef struct {
	def        models.KPIDefinition
	label      *regexp.Regexp
	withStatus *regexp.Regexp
	valueOnly  *regexp.Regexp
}

func compile(def models.KPIDefinition) compiledDef {
	label := `(?:` + strings.Join(def.Patterns, `|`) + `)`
	return compiledDef{
		def:        def,
		label:      regexp.MustCompile(`(?i)` + label),
		withStatus: regexp.MustCompile(`(?i)` + label + labelGap + numberGroup + `[ \t|:–-]*` + statusGroup),
		valueOnly:  regexp.MustCompile(`(?i)` + label + labelGap + valueGroup),
	}
}

var (
	compiled    []compiledDef
	compiledBOC = compile(BOC)

	notInCompliance = regexp.MustCompile(`(?i)not\s+in\s+compliance|non[-\s]?compliant`)
)

func init() {
	for _, def := range Definitions {
		compiled = append(compiled, compile(def))
	}
}

// Extractor finds company KPIs in scorecard text.
type Extractor struct {
	overrides []models.TargetOverride
	period    Period
	verbose   bool
}

// New returns an Extractor resolving targets against overrides for period p.
func New(overrides []models.TargetOverride, p Period) *Extractor {
	return &Extractor{overrides: overrides, period: p}
}

// SetVerbose toggles per-match logging.
func (e *Extractor) SetVerbose(v bool) {
	e.verbose = v
}

// Extract returns the KPIs found in text. When nothing is recognised it
// returns DefaultKPIs and defaulted is true.
func (e *Extractor) Extract(text string) (kpis []models.CompanyKPI, defaulted bool) {
	for _, cd := range compiled {
		if k, ok := e.matchDefinition(cd, text); ok {
			kpis = append(kpis, k)
		}
	}
	if k, ok := matchBOC(text); ok {
		kpis = append(kpis, k)
	}
	kpis = append(kpis, e.scanGeneric(text, kpis)...)

	if len(kpis) == 0 {
		return DefaultKPIs(), true
	}
	return kpis, false
}

// names reports whether label is exactly the KPI's name, its code or one of
// its patterns.
func (cd compiledDef) names(label string) bool {
	key := canonicalName(label)
	if key == canonicalName(cd.def.Code) || key == canonicalName(cd.def.Name) {
		return true
	}
	return cd.label.FindString(label) == label
}

// matchDefinition reads def from text: "label value status" first, then
// "label value", then table lines whose label cell names the KPI. A KPI whose
// only reading is an empty cell is reported without value or status.
func (e *Extractor) matchDefinition(cd compiledDef, text string) (models.CompanyKPI, bool) {
	def := cd.def
	target := ResolveTarget(def, e.overrides, e.period)
	empty := false

	for _, m := range cd.withStatus.FindAllStringSubmatch(text, -1) {
		value, ok := parseValue(m[1], def.Unit)
		if !ok {
			continue
		}
		status, _ := normalize.ParseStatus(m[3])
		return e.build(def, value, target, status), true
	}
	for _, m := range cd.valueOnly.FindAllStringSubmatch(text, -1) {
		if normalize.IsMissing(m[1]) {
			empty = true
			continue
		}
		value, ok := parseValue(m[1], def.Unit)
		if !ok {
			continue
		}
		return e.build(def, value, target, deriveStatus(def, value, target)), true
	}
	for _, line := range extractor.Lines(text) {
		m := labelLine.FindStringSubmatch(line)
		if m == nil || !cd.names(cleanLabel(m[1])) {
			continue
		}
		if normalize.IsMissing(m[2]) {
			empty = true
			continue
		}
		value, ok := parseValue(m[2], def.Unit)
		if !ok {
			continue
		}
		status, ok := normalize.ParseStatus(m[4])
		if !ok {
			status = deriveStatus(def, value, target)
		}
		return e.build(def, value, target, status), true
	}
	if empty {
		return e.build(def, 0, target, models.StatusNone), true
	}
	return models.CompanyKPI{}, false
}

func (e *Extractor) build(def models.KPIDefinition, value, target float64, status models.Status) models.CompanyKPI {
	if e.verbose {
		log.Printf("[KPI] %s = %v (target %v, %s)", def.Name, value, target, status)
	}
	return models.CompanyKPI{
		Name:     def.Name,
		Value:    value,
		Target:   target,
		Unit:     def.Unit,
		Trend:    TrendFor(status),
		Status:   status,
		Category: def.Category,
	}
}

// parseValue parses and sanity checks a captured value for unit.
func parseValue(raw string, unit models.Unit) (float64, bool) {
	v, ok := normalize.ParseUnitNumber(unit, raw)
	if !ok {
		return 0, false
	}
	if unit == models.UnitPercent && (v < 0 || v > 100) {
		return 0, false
	}
	if unit == models.UnitDPMO && v < 0 {
		return 0, false
	}
	return roundFor(unit, v), true
}

func roundFor(unit models.Unit, v float64) float64 {
	if unit == models.UnitDPMO || unit == models.UnitCount {
		return math.Round(v)
	}
	return math.Round(v*100) / 100
}

// deriveStatus rates a value without an explicit token, using the driver
// threshold table when the KPI has one and the target otherwise.
func deriveStatus(def models.KPIDefinition, value, target float64) models.Status {
	if def.Metric != "" {
		if s, ok := normalize.StatusFor(def.Metric, value); ok {
			return s
		}
	}
	return compareToTarget(value, target, def.LowerIsBetter)
}

// compareToTarget rates value: meeting the target is great, within 3% (or
// 25% over for lower-is-better KPIs) is fair.
func compareToTarget(value, target float64, lowerIsBetter bool) models.Status {
	if lowerIsBetter {
		switch {
		case value <= target:
			return models.StatusGreat
		case value <= target*1.25:
			return models.StatusFair
		}
		return models.StatusPoor
	}
	if target == 0 {
		return models.StatusNone
	}
	switch {
	case value >= target:
		return models.StatusGreat
	case value >= target*0.97:
		return models.StatusFair
	}
	return models.StatusPoor
}

// matchBOC reads the breach-of-contract line. Its value and target are always
// zero; only the compliance status is meaningful.
func matchBOC(text string) (models.CompanyKPI, bool) {
	loc := compiledBOC.label.FindStringIndex(text)
	if loc == nil {
		return models.CompanyKPI{}, false
	}
	rest := text[loc[1]:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}

	status := models.StatusNone
	if notInCompliance.MatchString(rest) {
		status = models.StatusNotInCompliance
	} else if v, ok := normalize.ParseNumber(rest); ok && v > 0 {
		status = models.StatusNotInCompliance
	}
	return models.CompanyKPI{
		Name:     BOC.Name,
		Value:    0,
		Target:   0,
		Unit:     BOC.Unit,
		Trend:    TrendFor(status),
		Status:   status,
		Category: BOC.Category,
	}, true
}
