package extractor

import (
	"math"
	"sort"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// GroupIntoRows clusters items whose baselines lie within tolerance of the
// row's first item. Rows come out top to bottom, each sorted by x.
func GroupIntoRows(items []models.TextItem, tolerance float64) []models.Row {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]models.TextItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []models.Row
	anchor := sorted[0].Y
	current := models.Row{}
	for _, it := range sorted {
		if len(current.Items) > 0 && math.Abs(anchor-it.Y) > tolerance {
			rows = append(rows, finishRow(current))
			current = models.Row{}
		}
		if len(current.Items) == 0 {
			anchor = it.Y
		}
		current.Items = append(current.Items, it)
	}
	rows = append(rows, finishRow(current))
	return rows
}

func finishRow(r models.Row) models.Row {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].X < r.Items[j].X
	})
	var sum float64
	for _, it := range r.Items {
		sum += it.Y
	}
	r.Y = sum / float64(len(r.Items))
	return r
}

// SameBand returns the items of page whose baseline is within tolerance of y.
func SameBand(items []models.TextItem, y, tolerance float64) []models.TextItem {
	var band []models.TextItem
	for _, it := range items {
		if math.Abs(it.Y-y) <= tolerance {
			band = append(band, it)
		}
	}
	sort.SliceStable(band, func(i, j int) bool {
		return band[i].X < band[j].X
	})
	return band
}

// CenterX is the horizontal midpoint of an item.
func CenterX(it models.TextItem) float64 {
	return it.X + it.Width/2
}
