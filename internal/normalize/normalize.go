// Package normalize turns raw scorecard cell text into numeric values and
// rating statuses. It is shared by the company and driver KPI extractors.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// Result is a normalized cell.
type Result struct {
	Value   float64
	Status  models.Status
	Missing bool
}

var (
	numberPattern = regexp.MustCompile(`-?\d[\d.,]*`)
	statusPattern = regexp.MustCompile(`(?i)\b(fantastic\s*\+|fantastic\s+plus|fantastic|great|fair|poor|not\s+in\s+compliance)\b`)
)

// missingTokens are the cell values scorecards print when there is no data.
var missingTokens = map[string]bool{
	"":    true,
	"-":   true,
	"--":  true,
	"–":   true,
	"—":   true,
	"n/a": true,
	"na":  true,
}

// IsMissing reports whether raw is a dash or another no-data marker.
func IsMissing(raw string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// Normalize parses raw for the named metric. A missing cell always yields
// value 0 and status none, it is never scored as a real zero.
func Normalize(metric, raw string) Result {
	if IsMissing(raw) {
		return Result{Value: 0, Status: models.StatusNone, Missing: true}
	}

	value, ok := ParseUnitNumber(UnitFor(metric), raw)
	if !ok {
		return Result{Value: 0, Status: models.StatusNone, Missing: true}
	}
	value = Round(metric, value)

	if status, ok := ExplicitStatus(raw); ok {
		return Result{Value: value, Status: status}
	}

	status, ok := StatusFor(metric, value)
	if !ok {
		status = models.StatusNone
	}
	return Result{Value: value, Status: status}
}

// ParseNumber extracts the first numeric token of s. A comma is treated as the
// decimal separator only when no period is present; otherwise commas are
// thousands separators and are stripped.
func ParseNumber(s string) (float64, bool) {
	token := numberPattern.FindString(s)
	if token == "" {
		return 0, false
	}
	token = strings.TrimRight(token, ".,")
	if strings.Contains(token, ".") {
		token = strings.ReplaceAll(token, ",", "")
	} else if strings.Count(token, ",") == 1 {
		token = strings.Replace(token, ",", ".", 1)
	} else {
		token = strings.ReplaceAll(token, ",", "")
	}
	if strings.Count(token, ".") > 1 {
		// 1.234.567 style grouping
		token = strings.ReplaceAll(token, ".", "")
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var thousandsGroup = regexp.MustCompile(`^-?\d{1,3},\d{3}$`)

// ParseUnitNumber is ParseNumber for a value of unit. DPMO and counts are
// integer-like, so "1,250" groups thousands there instead of meaning 1.25.
func ParseUnitNumber(unit models.Unit, s string) (float64, bool) {
	if unit == models.UnitDPMO || unit == models.UnitCount {
		token := strings.TrimRight(numberPattern.FindString(s), ".")
		if thousandsGroup.MatchString(token) {
			return ParseNumber(strings.Replace(token, ",", "", 1))
		}
	}
	return ParseNumber(s)
}

// ExplicitStatus finds a rating token such as "great" in s.
func ExplicitStatus(s string) (models.Status, bool) {
	m := statusPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return ParseStatus(m[1])
}

// ParseStatus maps a rating word onto a Status.
func ParseStatus(token string) (models.Status, bool) {
	t := strings.Join(strings.Fields(strings.ToLower(token)), " ")
	switch {
	case strings.HasPrefix(t, "fantastic"):
		return models.StatusFantastic, true
	case t == "great":
		return models.StatusGreat, true
	case t == "fair":
		return models.StatusFair, true
	case t == "poor":
		return models.StatusPoor, true
	case t == "not in compliance":
		return models.StatusNotInCompliance, true
	case t == "none" || t == "in compliance" || t == "compliant":
		return models.StatusNone, true
	}
	return "", false
}

// Round applies the storage convention of the metric's unit: DPMO and counts
// are integer-like, percentages keep two decimals.
func Round(metric string, v float64) float64 {
	switch UnitFor(metric) {
	case models.UnitDPMO, models.UnitCount:
		return math.Round(v)
	default:
		return math.Round(v*100) / 100
	}
}
