package kpi

import (
	"log"
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/normalize"
)

// genericMatch is a label/value pair found outside the canonical library.
type genericMatch struct {
	label  string
	value  string
	unit   string
	status string
}

type genericScanner func(text string) []genericMatch

var (
	percentPair = regexp.MustCompile(`([A-Za-z][A-Za-z &/()'-]{2,60}?)\s*:\s*(-?\d+(?:[.,]\d+)?)\s*%`)
	dpmoPair    = regexp.MustCompile(`(?i)((?:[A-Za-z][A-Za-z&/()'-]*\s+){0,4}DPMO)\s*[:\-]?\s*(\d[\d.,]*)`)
	labelLine   = regexp.MustCompile(`(?i)^([A-Za-z][A-Za-z0-9 &/()'.-]{1,60}?)\s*[:|–-]?\s+(-?\d[\d.,]*|[-–—])\s*(%|DPMO)?[\s|:–-]*(fantastic\s*plus|fantastic|great|fair|poor)?\s*$`)

	// labels that describe the scorecard itself rather than a KPI
	nonKPILabel = regexp.MustCompile(`(?i)\b(week|rank|ranking|overall|score\s*card|page|year|standing|total|transporter|driver|station|location|tier)\b`)
)

// genericScanners run in order; earlier scanners win on duplicate labels.
var genericScanners = []genericScanner{
	scanPercentPairs,
	scanDPMOPairs,
	scanLabelLines,
}

func scanPercentPairs(text string) []genericMatch {
	var out []genericMatch
	for _, m := range percentPair.FindAllStringSubmatch(text, -1) {
		out = append(out, genericMatch{label: m[1], value: m[2], unit: "%"})
	}
	return out
}

func scanDPMOPairs(text string) []genericMatch {
	var out []genericMatch
	for _, line := range extractor.Lines(text) {
		for _, m := range dpmoPair.FindAllStringSubmatch(line, -1) {
			out = append(out, genericMatch{label: m[1], value: m[2], unit: "DPMO"})
		}
	}
	return out
}

func scanLabelLines(text string) []genericMatch {
	var out []genericMatch
	for _, line := range extractor.Lines(text) {
		m := labelLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, genericMatch{label: m[1], value: m[2], unit: m[3], status: m[4]})
	}
	return out
}

// scanGeneric returns KPIs for labels the canonical library does not know.
// Labels already covered by found, or by any library pattern, are skipped.
func (e *Extractor) scanGeneric(text string, found []models.CompanyKPI) []models.CompanyKPI {
	seen := make([]string, 0, len(found))
	for _, k := range found {
		seen = append(seen, canonicalName(k.Name))
	}

	var out []models.CompanyKPI
	for _, scan := range genericScanners {
		for _, m := range scan(text) {
			label := cleanLabel(m.label)
			key := canonicalName(label)
			if present(key, seen) || !plausibleLabel(label) || knownLabel(label) {
				continue
			}
			k, ok := e.genericKPI(label, m)
			if !ok {
				continue
			}
			seen = append(seen, key)
			out = append(out, k)
		}
	}
	return out
}

func cleanLabel(raw string) string {
	return strings.Join(strings.Fields(strings.Trim(raw, " :|-")), " ")
}

// present reports whether key overlaps a name already found, as a substring
// in either direction.
func present(key string, seen []string) bool {
	for _, s := range seen {
		if strings.Contains(s, key) || strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func plausibleLabel(label string) bool {
	letters := 0
	for _, r := range label {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			letters++
		}
	}
	if letters < 3 || nonKPILabel.MatchString(label) {
		return false
	}
	if _, ok := normalize.ParseStatus(label); ok {
		return false
	}
	return extractor.FindIDToken(label) == ""
}

func knownLabel(label string) bool {
	key := canonicalName(label)
	for _, cd := range compiled {
		if cd.label.MatchString(label) || key == canonicalName(cd.def.Code) {
			return true
		}
	}
	return compiledBOC.label.MatchString(label)
}

// Generic targets by unit, in the absence of an override.
const (
	genericPercentTarget = 95
	genericDPMOTarget    = 1500
)

func (e *Extractor) genericKPI(label string, m genericMatch) (models.CompanyKPI, bool) {
	unit := models.UnitNone
	switch {
	case m.unit == "%":
		unit = models.UnitPercent
	case strings.EqualFold(m.unit, "DPMO") || strings.Contains(strings.ToUpper(label), "DPMO"):
		unit = models.UnitDPMO
	}

	value, ok := parseValue(m.value, unit)
	if !ok {
		return models.CompanyKPI{}, false
	}

	def := models.KPIDefinition{Name: label, Unit: unit, LowerIsBetter: unit == models.UnitDPMO}
	switch unit {
	case models.UnitPercent:
		def.Target = genericPercentTarget
	case models.UnitDPMO:
		def.Target = genericDPMOTarget
	}
	target := ResolveTarget(def, e.overrides, e.period)

	status, ok := normalize.ParseStatus(m.status)
	if !ok {
		status = models.StatusNone
		if unit != models.UnitNone {
			status = compareToTarget(value, target, def.LowerIsBetter)
		}
	}
	if e.verbose {
		log.Printf("[KPI] generic %q = %v %s", label, value, unit)
	}
	return models.CompanyKPI{
		Name:     label,
		Value:    value,
		Target:   target,
		Unit:     unit,
		Trend:    TrendFor(status),
		Status:   status,
		Category: CategoryFor(label),
	}, true
}
