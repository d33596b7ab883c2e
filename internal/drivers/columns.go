package drivers

import (
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// ColumnMap maps a driver table header onto column indices.
type ColumnMap struct {
	// ID is the index of the transporter ID column, -1 when unknown.
	ID      int
	Metrics map[string]int
	// Matcher names the rule that produced the mapping, "" when none did.
	Matcher string
}

// OK reports whether any matcher produced the mapping.
func (m ColumnMap) OK() bool {
	return m.Matcher != ""
}

type columnMatcher struct {
	name  string
	match func(header []string) (ColumnMap, bool)
}

// columnMatchers are tried in order until one yields a mapping.
var columnMatchers = []columnMatcher{
	{name: "exact", match: matchExact},
	{name: "keyword", match: matchKeyword},
	{name: "count", match: matchColumnCount},
}

// ResolveColumns maps header labels to column indices: exact labels first,
// then keywords, then a default for known column counts.
func ResolveColumns(header []string) ColumnMap {
	for _, m := range columnMatchers {
		if cm, ok := m.match(header); ok {
			cm.Matcher = m.name
			return cm
		}
	}
	return ColumnMap{ID: -1}
}

func canonicalLabel(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

var exactLabels = map[string]string{
	"DELIVERED":          models.MetricDelivered,
	"PACKAGES DELIVERED": models.MetricDelivered,
	"DELIVERIES":         models.MetricDelivered,
	"DCR":                models.MetricDCR,
	"DNR DPMO":           models.MetricDNR,
	"DNR":                models.MetricDNR,
	"POD":                models.MetricPOD,
	"CC":                 models.MetricCC,
	"CE":                 models.MetricCE,
	"DEX":                models.MetricDEX,
}

var exactIDLabels = map[string]bool{
	"TRANSPORTER ID": true,
	"ID":             true,
	"DA ID":          true,
	"DRIVER ID":      true,
}

const (
	minExactMetrics   = 3
	minKeywordMetrics = 2
)

func matchExact(header []string) (ColumnMap, bool) {
	cm := ColumnMap{ID: -1, Metrics: make(map[string]int)}
	for i, label := range header {
		l := canonicalLabel(label)
		if exactIDLabels[l] && cm.ID < 0 {
			cm.ID = i
			continue
		}
		if metric, ok := exactLabels[l]; ok {
			if _, dup := cm.Metrics[metric]; !dup {
				cm.Metrics[metric] = i
			}
		}
	}
	return cm, len(cm.Metrics) >= minExactMetrics
}

type keywordRule struct {
	metric  string
	pattern *regexp.Regexp
}

// keywordRules are checked in order; DNR comes before Delivered so that
// "Delivered Not Received" lands on the DPMO column.
var keywordRules = []keywordRule{
	{models.MetricDNR, regexp.MustCompile(`(?i)\bDNR\b|not\s+received`)},
	{models.MetricDCR, regexp.MustCompile(`(?i)\bDCR\b|completion`)},
	{models.MetricPOD, regexp.MustCompile(`(?i)\bPOD\b|photo`)},
	{models.MetricCC, regexp.MustCompile(`(?i)\bCC\b|contact`)},
	{models.MetricCE, regexp.MustCompile(`(?i)\bCE\b|escalation`)},
	{models.MetricDEX, regexp.MustCompile(`(?i)\bDEX\b|experience`)},
	{models.MetricDelivered, regexp.MustCompile(`(?i)deliver`)},
}

var idKeyword = regexp.MustCompile(`(?i)\bID\b|transporter`)

// MetricForLabel returns the metric a header label refers to by keyword.
func MetricForLabel(label string) (string, bool) {
	for _, r := range keywordRules {
		if r.pattern.MatchString(label) {
			return r.metric, true
		}
	}
	return "", false
}

func matchKeyword(header []string) (ColumnMap, bool) {
	cm := ColumnMap{ID: -1, Metrics: make(map[string]int)}
	for i, label := range header {
		if cm.ID < 0 && idKeyword.MatchString(label) {
			cm.ID = i
			continue
		}
		if metric, ok := MetricForLabel(label); ok {
			if _, dup := cm.Metrics[metric]; !dup {
				cm.Metrics[metric] = i
			}
		}
	}
	return cm, len(cm.Metrics) >= minKeywordMetrics
}

// matchColumnCount assumes the classic layout: ID first, then the metrics
// in canonical order.
func matchColumnCount(header []string) (ColumnMap, bool) {
	if len(header) < 4 {
		return ColumnMap{}, false
	}
	cm := ColumnMap{ID: 0, Metrics: make(map[string]int)}
	for i, metric := range models.CanonicalMetrics {
		if i+1 >= len(header) {
			break
		}
		cm.Metrics[metric] = i + 1
	}
	return cm, true
}
