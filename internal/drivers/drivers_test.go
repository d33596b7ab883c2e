package drivers

import (
	"strings"
	"testing"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(text string, x, y float64) extractor.RawItem {
	return extractor.RawItem{
		Text:      text,
		Transform: [6]float64{10, 0, 0, 10, x, y},
		Width:     float64(len(text)) * 5,
		Height:    10,
	}
}

// layout places a heading, a header row and data rows on a regular grid.
func layout(heading string, header []string, rows [][]string) []extractor.RawItem {
	var items []extractor.RawItem
	if heading != "" {
		items = append(items, item(heading, 40, 760))
	}
	for i, h := range header {
		items = append(items, item(h, 40+80*float64(i), 720))
	}
	for k, row := range rows {
		y := 700 - 14*float64(k)
		for i, cell := range row {
			if cell == "" {
				continue
			}
			items = append(items, item(cell, 40+80*float64(i), y))
		}
	}
	return items
}

var classicHeader = []string{"Transporter ID", "Delivered", "DCR", "DNR DPMO", "POD", "CC", "CE", "DEX"}

var classicRows = [][]string{
	{"A1B2C3D4E5F6G7", "120", "99.1%", "800", "98.5%", "97%", "0", "92"},
	{"A7G6F5E4D3C2B1", "98", "97.0%", "2600", "-", "91%", "2", "80"},
	{"A3X9K2M1Q8W7E6", "143", "98.6%", "1200", "99.4%", "100%", "0", "96"},
}

func inputFor(pages ...[]extractor.RawItem) *Input {
	return NewInput(extractor.NewDocument("test.pdf", pages...))
}

func metricOf(t *testing.T, rec models.DriverRecord, name string) models.DriverMetric {
	t.Helper()
	m, ok := rec.Metric(name)
	require.True(t, ok, "metric %s missing on %s", name, rec.DriverID)
	return m
}

func assertWellFormed(t *testing.T, recs []models.DriverRecord) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range recs {
		assert.GreaterOrEqual(t, len(r.DriverID), 6)
		assert.True(t, strings.HasPrefix(r.DriverID, "A"), r.DriverID)
		assert.False(t, seen[r.DriverID], "duplicate %s", r.DriverID)
		seen[r.DriverID] = true
		assert.Equal(t, models.DriverActive, r.Status)
		require.Len(t, r.Metrics, len(models.CanonicalMetrics))
		for i, m := range r.Metrics {
			assert.Equal(t, models.CanonicalMetrics[i], m.Name)
		}
	}
}

func TestKnownHeading(t *testing.T) {
	in := inputFor(layout("DA Current Week Performance", classicHeader, classicRows))
	require.True(t, in.Scheme.Strict)

	res := KnownHeading{}.Attempt(in)
	require.Len(t, res.Records, 3)
	assertWellFormed(t, res.Records)
	assert.Greater(t, res.Confidence, 0.9)

	first := res.Records[0]
	assert.Equal(t, "A1B2C3D4E5F6G7", first.DriverID)
	assert.Equal(t, 120.0, metricOf(t, first, models.MetricDelivered).Value)
	assert.Equal(t, models.StatusFantastic, metricOf(t, first, models.MetricDCR).Status)
	assert.Equal(t, 92.0, metricOf(t, first, models.MetricDEX).Value)

	second := res.Records[1]
	pod := metricOf(t, second, models.MetricPOD)
	assert.Equal(t, 0.0, pod.Value)
	assert.Equal(t, models.StatusNone, pod.Status)
	assert.Equal(t, models.StatusPoor, metricOf(t, second, models.MetricDNR).Status)
}

func TestKnownHeadingNeedsMarker(t *testing.T) {
	in := inputFor(layout("Weekly Overview", classicHeader, classicRows))
	assert.Empty(t, KnownHeading{}.Attempt(in).Records)
}

func TestGridWithHeader(t *testing.T) {
	header := []string{"Transporter ID", "Delivered", "DCR", "POD", "CC"}
	rows := [][]string{
		{"A1B2C3D4", "120", "99.1%", "98.5%", "97%"},
		{"A7G6F5E4", "98", "", "96.0%", "91%"},
	}
	in := inputFor(layout("", header, rows))
	require.False(t, in.Scheme.Strict)

	res := Grid{}.Attempt(in)
	require.Len(t, res.Records, 2)
	assertWellFormed(t, res.Records)

	first := res.Records[0]
	assert.Equal(t, 99.1, metricOf(t, first, models.MetricDCR).Value)
	assert.Equal(t, 98.5, metricOf(t, first, models.MetricPOD).Value)
	assert.Equal(t, models.StatusNone, metricOf(t, first, models.MetricDNR).Status)

	// The missing DCR cell is resolved by nearest header column.
	second := res.Records[1]
	assert.Equal(t, 98.0, metricOf(t, second, models.MetricDelivered).Value)
	assert.Equal(t, models.StatusNone, metricOf(t, second, models.MetricDCR).Status)
	assert.Equal(t, 96.0, metricOf(t, second, models.MetricPOD).Value)
	assert.Equal(t, 91.0, metricOf(t, second, models.MetricCC).Value)
}

func TestGridWithoutHeaderUsesCanonicalOrder(t *testing.T) {
	in := inputFor(layout("", nil, [][]string{{"A1B2C3D4", "77", "98.9", "1100"}}))

	res := Grid{}.Attempt(in)
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, 77.0, metricOf(t, rec, models.MetricDelivered).Value)
	assert.Equal(t, models.StatusGreat, metricOf(t, rec, models.MetricDCR).Status)
	assert.Equal(t, models.StatusGreat, metricOf(t, rec, models.MetricDNR).Status)
}

func TestStrictIDOnlyOnStrictPages(t *testing.T) {
	in := inputFor(
		layout("", nil, [][]string{{"A1B2C3D4", "77", "98.9", "1100"}}),
		layout("", nil, classicRows),
	)

	res := StrictID{}.Attempt(in)
	require.Len(t, res.Records, 3)
	assertWellFormed(t, res.Records)
	for _, r := range res.Records {
		assert.Len(t, r.DriverID, 14)
	}
}

func TestHeaderAnchoredRecoversUnmappedColumns(t *testing.T) {
	header := []string{"Transporter ID", "Delivered", "Completion", "Mystery", "Photo"}
	rows := [][]string{
		{"A1B2C3D4", "120", "99.1%", "900", "98.5%"},
		{"A7G6F5E4", "98", "98.2%", "-", "96.0%"},
	}
	in := inputFor(layout("", header, rows))

	res := HeaderAnchored{}.Attempt(in)
	require.Len(t, res.Records, 2)
	assertWellFormed(t, res.Records)

	first := res.Records[0]
	assert.Equal(t, 99.1, metricOf(t, first, models.MetricDCR).Value)
	assert.Equal(t, 98.5, metricOf(t, first, models.MetricPOD).Value)
	// The unmapped column falls to the first missing metric in canonical order.
	assert.Equal(t, 900.0, metricOf(t, first, models.MetricDNR).Value)

	second := res.Records[1]
	assert.Equal(t, models.StatusNone, metricOf(t, second, models.MetricDNR).Status)
	assert.Equal(t, models.StatusFair, metricOf(t, second, models.MetricDCR).Status)
}

func TestLineRegex(t *testing.T) {
	page := []extractor.RawItem{
		item("A1B2C3D4 120 99.5 800 98.0", 40, 700),
		item("A7G6F5E4 12", 40, 680),
		item("Summary A3X9K2M1 1 2 3", 40, 660),
	}
	res := LineRegex{}.Attempt(inputFor(page))
	require.Len(t, res.Records, 1)
	assert.Equal(t, "A1B2C3D4", res.Records[0].DriverID)
	assert.Equal(t, 98.0, metricOf(t, res.Records[0], models.MetricPOD).Value)
}

func TestFlexibleStripsTRPrefix(t *testing.T) {
	page := []extractor.RawItem{
		item("Driver TR-A1B2C3D4 results: 120 99.5 800 98", 40, 700),
		item("and a3x9k2m1q8 scored 10 98.0 900 then A7G6F5E4 1", 40, 680),
	}
	res := Flexible{}.Attempt(inputFor(page))
	require.Len(t, res.Records, 2)
	assertWellFormed(t, res.Records)
	assert.Equal(t, "A1B2C3D4", res.Records[0].DriverID)
	assert.Equal(t, "A3X9K2M1Q8", res.Records[1].DriverID)
	assert.Equal(t, 900.0, metricOf(t, res.Records[1], models.MetricDNR).Value)
}

func TestResolveColumns(t *testing.T) {
	cm := ResolveColumns(classicHeader)
	assert.Equal(t, "exact", cm.Matcher)
	assert.Equal(t, 0, cm.ID)
	assert.Equal(t, 3, cm.Metrics[models.MetricDNR])
	assert.Equal(t, 7, cm.Metrics[models.MetricDEX])

	cm = ResolveColumns([]string{"Driver", "Transporter", "Delivered Not Received", "Photo on Delivery"})
	assert.Equal(t, "keyword", cm.Matcher)
	assert.Equal(t, 1, cm.ID)
	assert.Equal(t, 2, cm.Metrics[models.MetricDNR])
	assert.Equal(t, 3, cm.Metrics[models.MetricPOD])
	_, hasDelivered := cm.Metrics[models.MetricDelivered]
	assert.False(t, hasDelivered)

	cm = ResolveColumns([]string{"a", "b", "c", "d", "e"})
	assert.Equal(t, "count", cm.Matcher)
	assert.Equal(t, 0, cm.ID)
	assert.Len(t, cm.Metrics, 4)
	assert.Equal(t, 4, cm.Metrics[models.MetricPOD])

	cm = ResolveColumns([]string{"a", "b"})
	assert.False(t, cm.OK())
	assert.Equal(t, -1, cm.ID)
}

func TestSetFirstOccurrenceWins(t *testing.T) {
	set := NewSet()
	assert.True(t, set.Add(PositionalRecord("A1B2C3D4", []string{"10"}, models.CanonicalMetrics)))
	assert.False(t, set.Add(PositionalRecord("A1B2C3D4", []string{"99"}, models.CanonicalMetrics)))
	assert.Equal(t, 1, set.AddAll([]models.DriverRecord{
		PositionalRecord("A1B2C3D4", []string{"5"}, models.CanonicalMetrics),
		PositionalRecord("A9B2C3D4", []string{"5"}, models.CanonicalMetrics),
	}))

	recs := set.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 10.0, recs[0].Metrics[0].Value)
	assertWellFormed(t, recs)
}

func TestEnsureAllMetrics(t *testing.T) {
	rec := EnsureAllMetrics(models.DriverRecord{
		DriverID: "A1B2C3D4",
		Metrics:  []models.DriverMetric{NewMetric(models.MetricCE, "2")},
	})
	require.Len(t, rec.Metrics, len(models.CanonicalMetrics))
	for _, m := range rec.Metrics {
		if m.Name == models.MetricCE {
			assert.Equal(t, 2.0, m.Value)
			continue
		}
		assert.Equal(t, 0.0, m.Value)
		assert.Equal(t, models.StatusNone, m.Status)
	}
	assert.Equal(t, models.DriverActive, rec.Status)
}

func TestDetectScheme(t *testing.T) {
	assert.True(t, DetectScheme("A1B2C3D4E5F6G7 and A7G6F5E4D3C2B1").Strict)
	assert.False(t, DetectScheme("A1B2C3D4E5F6G7 only").Strict)
	assert.False(t, DetectScheme("A1B2C3D4E5F6G7 A7G6F5E4D3C2B1 A1B2C3 A2B2C3 A3B2C3").Strict)

	strict := Scheme{Strict: true}
	assert.False(t, strict.Valid("A1B2C3D4"))
	assert.True(t, Scheme{}.Valid("A1B2C3D4"))
}

func TestSampleRecordsAreFixed(t *testing.T) {
	a, b := SampleRecords(), SampleRecords()
	require.Len(t, a, 2)
	assert.Equal(t, a, b)
	assertWellFormed(t, a)
	for _, r := range a {
		assert.True(t, Scheme{Strict: true}.Valid(r.DriverID), r.DriverID)
	}
}

func TestStrategiesNeverEmitInvalidIDs(t *testing.T) {
	noisy := []extractor.RawItem{
		item("ACTIVE 1 2 3 4", 40, 700),
		item("B1B2C3D4 1 2 3", 40, 680),
		item("A12 5 6 7 8", 40, 660),
		item("AMAZON1 logistics 4 5 6", 40, 640),
	}
	in := inputFor(noisy)
	for _, s := range []Strategy{KnownHeading{}, Grid{}, StrictID{}, HeaderAnchored{}, LineRegex{}, Flexible{}} {
		res := s.Attempt(in)
		assertWellFormed(t, res.Records)
		for _, r := range res.Records {
			assert.NotContains(t, []string{"ACTIVE", "B1B2C3D4", "A12"}, r.DriverID, s.Name())
		}
	}
}
