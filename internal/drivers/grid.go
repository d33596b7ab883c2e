package drivers

import (
	"math"
	"sort"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// headerColumn is a metric header cell located on the page.
type headerColumn struct {
	metric string
	center float64
}

// minGridHeaderCells is how many metric labels a row needs to act as header.
const minGridHeaderCells = 3

// minGridNeighbors is how many numeric cells must follow an ID cell.
const minGridNeighbors = 3

// Grid rebuilds the driver table from item positions: each ID cell collects
// the numeric cells on its horizontal band.
type Grid struct{}

func (Grid) Name() string { return "grid" }

func (Grid) Attempt(in *Input) Result {
	set := NewSet()
	withHeader := false
	var header []headerColumn
	for _, page := range in.Positional {
		if page.Empty() {
			continue
		}
		// A header carries over to continuation pages without one.
		if h := findGridHeader(page.Rows); len(h) > 0 {
			header = h
		}
		tolerance := extractor.ModePositional.Tolerance()
		for _, it := range page.Items {
			id := extractor.FindIDToken(it.Text)
			if id == "" || !in.Scheme.Valid(id) || set.Has(id) {
				continue
			}
			var neighbors []models.TextItem
			for _, n := range extractor.SameBand(page.Items, it.Y, tolerance) {
				if n.X > it.X && extractor.IsNumericOrDash(n.Text) {
					neighbors = append(neighbors, n)
				}
			}
			if len(neighbors) < minGridNeighbors {
				continue
			}
			if len(header) > 0 {
				withHeader = true
				set.Add(NewRecord(id, assignToHeader(neighbors, header)))
				continue
			}
			set.Add(PositionalRecord(id, cap7(texts(neighbors)), models.CanonicalMetrics))
		}
	}
	base := 0.7
	if withHeader {
		base = 0.9
	}
	return newResult(base, set)
}

// findGridHeader returns metric header cells of the first row naming enough
// metrics, sorted by x.
func findGridHeader(rows []models.Row) []headerColumn {
	for _, row := range rows {
		seen := make(map[string]bool)
		var cols []headerColumn
		for _, it := range row.Items {
			if extractor.IsNumericOrDash(it.Text) {
				continue
			}
			metric, ok := MetricForLabel(it.Text)
			if !ok || seen[metric] {
				continue
			}
			seen[metric] = true
			cols = append(cols, headerColumn{metric: metric, center: extractor.CenterX(it)})
		}
		if len(cols) >= minGridHeaderCells {
			sort.SliceStable(cols, func(i, j int) bool { return cols[i].center < cols[j].center })
			return cols
		}
	}
	return nil
}

// assignToHeader maps neighbor cells onto header metrics: positionally when
// the counts agree, otherwise each cell goes to the nearest free column.
func assignToHeader(neighbors []models.TextItem, header []headerColumn) map[string]string {
	cells := make(map[string]string, len(header))
	if len(neighbors) == len(header) {
		for i, n := range neighbors {
			cells[header[i].metric] = n.Text
		}
		return cells
	}
	for _, n := range neighbors {
		center := extractor.CenterX(n)
		best, bestDist := -1, math.MaxFloat64
		for i, h := range header {
			if _, taken := cells[h.metric]; taken {
				continue
			}
			if d := math.Abs(h.center - center); d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			cells[header[best].metric] = n.Text
		}
	}
	return cells
}

func texts(items []models.TextItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}
