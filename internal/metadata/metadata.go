// Package metadata pulls the scorecard header facts (station, standing, rank,
// focus areas and period) out of page text.
package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/normalize"
)

// DefaultRank is reported when the scorecard names no rank.
const DefaultRank = 5

// maxDerivedFocusAreas caps focus areas derived from KPI statuses.
const maxDerivedFocusAreas = 3

// DefaultFocusAreas is used when neither the text nor the KPIs suggest any.
var DefaultFocusAreas = []string{
	"Delivery Completion Rate (DCR)",
	"Photo-On-Delivery (POD)",
	"Contact Compliance (CC)",
}

// Metadata is everything about a scorecard that is not a KPI.
type Metadata struct {
	Week          int
	Year          int
	Location      string
	OverallScore  float64
	OverallStatus string
	Rank          int
	RankNote      string
	FocusAreas    []string
}

// Extract reads each field independently; a field that cannot be found
// falls back on its default.
func Extract(text, filename string, kpis []models.CompanyKPI) Metadata {
	md := Metadata{
		Location:     Location(text),
		OverallScore: OverallScore(text),
		Rank:         Rank(text),
		RankNote:     RankNote(text),
		FocusAreas:   FocusAreas(text, kpis),
	}
	md.Week, md.Year = Period(text, filename)
	md.OverallStatus = OverallStatus(text, md.OverallScore)
	return md
}

var (
	labeledLocation = regexp.MustCompile(`(?i)\b(?:delivery\s+station|station|location|site)\s*[:\-]?\s*([A-Z]{2,4}\d{1,2})\b`)
	dsLocation      = regexp.MustCompile(`\bDS[A-Z]\d{1,2}\b`)
	codeLocation    = regexp.MustCompile(`\b[A-Z]{2,3}\d{1,2}\b`)

	// station-shaped tokens that are really week markers
	notLocation = regexp.MustCompile(`^(?:KW|CW|WK)\d`)
)

// Location returns the delivery station code, "" when none is found.
func Location(text string) string {
	if m := labeledLocation.FindStringSubmatch(text); m != nil && !notLocation.MatchString(m[1]) {
		return m[1]
	}
	if loc := dsLocation.FindString(text); loc != "" {
		return loc
	}
	for _, code := range codeLocation.FindAllString(text, -1) {
		if !notLocation.MatchString(code) {
			return code
		}
	}
	return ""
}

var (
	labeledScore = regexp.MustCompile(`(?i)\b(?:overall(?:\s+score)?|total\s+score|scorecard\s+score)\s*[:\-]?\s*(\d{1,3}(?:[.,]\d+)?)\s*%?`)
	percentValue = regexp.MustCompile(`(\d{1,3}(?:[.,]\d+)?)\s*%`)
)

// OverallScore returns the labelled overall score, else the 80-100
// percentage that occurs most often (first occurrence on ties), else 0.
func OverallScore(text string) float64 {
	for _, m := range labeledScore.FindAllStringSubmatch(text, -1) {
		if v, ok := normalize.ParseNumber(m[1]); ok && v >= 0 && v <= 100 {
			return v
		}
	}

	counts := make(map[float64]int)
	var order []float64
	for _, m := range percentValue.FindAllStringSubmatch(text, -1) {
		v, ok := normalize.ParseNumber(m[1])
		if !ok || v < 80 || v > 100 {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestCount := 0.0, 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

var overallToken = regexp.MustCompile(`(?i)\boverall\b[^\n]{0,40}?\b(fantastic\s*plus|fantastic\s*\+|fantastic|great|fair|poor)\b`)

// OverallStatus returns the explicit overall standing, else maps score.
func OverallStatus(text string, score float64) string {
	if m := overallToken.FindStringSubmatch(text); m != nil {
		if s, ok := normalize.OverallToken(m[1]); ok {
			return s
		}
	}
	return normalize.StatusFromScore(score)
}

var rankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brank(?:ing)?\s*[:\-]?\s*#?\s*(\d{1,3})\b`),
	regexp.MustCompile(`(?i)#\s*(\d{1,3})\s+(?:of|out\s+of)\s+\d+`),
	regexp.MustCompile(`(?i)\b(\d{1,3})(?:st|nd|rd|th)\s+(?:place|of\s+\d+)`),
}

// Rank returns the labelled station rank, DefaultRank when absent.
func Rank(text string) int {
	for _, re := range rankPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if r, err := strconv.Atoi(m[1]); err == nil && r > 0 {
				return r
			}
		}
	}
	return DefaultRank
}

var (
	rankMove    = regexp.MustCompile(`(?i)\b(up|down)\s+(\d{1,3})\s+(?:places?|positions?|spots?|ranks?)\b`)
	rankImprove = regexp.MustCompile(`(?i)\b(?:improved|improvement|climbed|moved\s+up)\b`)
	rankDecline = regexp.MustCompile(`(?i)\b(?:declined|dropped|fell|moved\s+down)\b`)
	rankSteady  = regexp.MustCompile(`(?i)\b(?:unchanged|no\s+change|same\s+(?:rank|position))\b`)
)

// RankNote describes the rank change since the previous week, "" when the
// scorecard does not say.
func RankNote(text string) string {
	if m := rankMove.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[2])
		unit := "places"
		if n == 1 {
			unit = "place"
		}
		dir := "Up"
		if strings.EqualFold(m[1], "down") {
			dir = "Down"
		}
		return fmt.Sprintf("%s %d %s from last week", dir, n, unit)
	}
	switch {
	case rankImprove.MatchString(text):
		return "Improved from last week"
	case rankDecline.MatchString(text):
		return "Declined from last week"
	case rankSteady.MatchString(text):
		return "No change from last week"
	}
	return ""
}

var (
	focusHeading = regexp.MustCompile(`(?i)^(?:recommended\s+)?focus\s+areas?\b\s*:?\s*(.*)$`)
	focusItem    = regexp.MustCompile(`^(?:[-•*▪–·]|\d{1,2}[.)])\s*(.+)$`)
)

// FocusAreas returns the items listed under a focus-areas heading, else the
// underperforming KPIs (poor before fair, at most three), else the defaults.
func FocusAreas(text string, kpis []models.CompanyKPI) []string {
	if items := listedFocusAreas(text); len(items) > 0 {
		return items
	}
	if items := underperforming(kpis); len(items) > 0 {
		return items
	}
	return append([]string(nil), DefaultFocusAreas...)
}

func listedFocusAreas(text string) []string {
	lines := extractor.Lines(text)
	for i, line := range lines {
		m := focusHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var items []string
		for _, part := range strings.FieldsFunc(m[1], func(r rune) bool { return r == ',' || r == ';' }) {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		for _, next := range lines[i+1:] {
			im := focusItem.FindStringSubmatch(next)
			if im == nil {
				break
			}
			items = append(items, strings.TrimSpace(im[1]))
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func underperforming(kpis []models.CompanyKPI) []string {
	var out []string
	for _, want := range []models.Status{models.StatusPoor, models.StatusFair} {
		for _, k := range kpis {
			if k.Status != want {
				continue
			}
			out = append(out, k.Name)
			if len(out) == maxDerivedFocusAreas {
				return out
			}
		}
	}
	return out
}
