package drivers

import (
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/normalize"
)

// NewMetric normalizes one raw cell of a canonical metric.
func NewMetric(name, raw string) models.DriverMetric {
	res := normalize.Normalize(name, raw)
	return models.DriverMetric{
		Name:   name,
		Value:  res.Value,
		Target: normalize.TargetFor(name),
		Unit:   normalize.UnitFor(name),
		Status: res.Status,
	}
}

// missingMetric is the placeholder for a metric the document did not carry.
func missingMetric(name string) models.DriverMetric {
	return NewMetric(name, "-")
}

// NewRecord builds a record from raw cells keyed by metric name.
func NewRecord(id string, cells map[string]string) models.DriverRecord {
	rec := models.DriverRecord{DriverID: id, Status: models.DriverActive}
	for _, name := range models.CanonicalMetrics {
		raw, ok := cells[name]
		if !ok {
			continue
		}
		rec.Metrics = append(rec.Metrics, NewMetric(name, raw))
	}
	return EnsureAllMetrics(rec)
}

// PositionalRecord assigns tokens to metrics in the given order. Surplus
// tokens are ignored.
func PositionalRecord(id string, tokens []string, order []string) models.DriverRecord {
	cells := make(map[string]string, len(order))
	for i, name := range order {
		if i >= len(tokens) {
			break
		}
		cells[name] = tokens[i]
	}
	return NewRecord(id, cells)
}

// EnsureAllMetrics returns rec with every canonical metric present, in
// canonical order. Missing ones are inserted as value 0 / status none.
func EnsureAllMetrics(rec models.DriverRecord) models.DriverRecord {
	byName := make(map[string]models.DriverMetric, len(rec.Metrics))
	for _, m := range rec.Metrics {
		if _, dup := byName[m.Name]; !dup {
			byName[m.Name] = m
		}
	}
	metrics := make([]models.DriverMetric, 0, len(models.CanonicalMetrics))
	for _, name := range models.CanonicalMetrics {
		m, ok := byName[name]
		if !ok {
			m = missingMetric(name)
		}
		metrics = append(metrics, m)
	}
	rec.Metrics = metrics
	if rec.Status == "" {
		rec.Status = models.DriverActive
	}
	return rec
}

// presentMetrics counts metrics that carry real data.
func presentMetrics(rec models.DriverRecord) int {
	n := 0
	for _, m := range rec.Metrics {
		if m.Status != models.StatusNone || m.Value != 0 {
			n++
		}
	}
	return n
}

// Set accumulates records by unique driver ID; the first record seen for an
// ID wins.
type Set struct {
	order []string
	byID  map[string]models.DriverRecord
}

func NewSet() *Set {
	return &Set{byID: make(map[string]models.DriverRecord)}
}

// Add inserts rec unless its ID is already present.
func (s *Set) Add(rec models.DriverRecord) bool {
	if _, ok := s.byID[rec.DriverID]; ok {
		return false
	}
	s.byID[rec.DriverID] = EnsureAllMetrics(rec)
	s.order = append(s.order, rec.DriverID)
	return true
}

// AddAll inserts every record and returns how many were new.
func (s *Set) AddAll(recs []models.DriverRecord) int {
	added := 0
	for _, r := range recs {
		if s.Add(r) {
			added++
		}
	}
	return added
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Records returns the records in insertion order.
func (s *Set) Records() []models.DriverRecord {
	out := make([]models.DriverRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
