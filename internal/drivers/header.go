package drivers

import (
	"sort"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// HeaderAnchored reads detected tables through a resolved column mapping.
// Metrics the mapping misses are recovered from the row's remaining numeric
// cells, left to right, in canonical order.
type HeaderAnchored struct{}

func (HeaderAnchored) Name() string { return "header-anchored" }

func (HeaderAnchored) Attempt(in *Input) Result {
	set := NewSet()
	for _, page := range in.Positional {
		for _, table := range page.Tables {
			mapping := ResolveColumns(extractor.HeaderCells(table))
			if !mapping.OK() {
				continue
			}
			for _, row := range table.Rows {
				if rec, ok := readMappedRow(in.Scheme, table, row, mapping); ok {
					set.Add(rec)
				}
			}
		}
	}
	return newResult(0.8, set)
}

func readMappedRow(scheme Scheme, table models.Table, row models.Row, mapping ColumnMap) (models.DriverRecord, bool) {
	cells := extractor.SplitCells(table, row)

	id := ""
	if mapping.ID >= 0 && mapping.ID < len(cells) {
		id = extractor.FindIDToken(cells[mapping.ID])
	}
	if id == "" {
		id = extractor.FindIDToken(extractor.RowText(row))
	}
	if id == "" || !scheme.Valid(id) {
		return models.DriverRecord{}, false
	}

	values := make(map[string]string)
	usedColumns := make(map[int]bool)
	if mapping.ID >= 0 {
		usedColumns[mapping.ID] = true
	}
	for metric, idx := range mapping.Metrics {
		if idx >= len(cells) {
			continue
		}
		cell := cells[idx]
		if tokens := extractor.NumericTokens(cell); len(tokens) > 0 {
			values[metric] = cell
			usedColumns[idx] = true
		}
	}

	if len(values) < len(models.CanonicalMetrics) {
		recoverMissing(values, leftoverCells(table, row, usedColumns, id))
	}
	if len(values) == 0 {
		return models.DriverRecord{}, false
	}
	return NewRecord(id, values), true
}

// leftoverCells returns numeric-or-dash items of row outside the used
// columns, sorted by x.
func leftoverCells(table models.Table, row models.Row, used map[int]bool, id string) []string {
	var items []models.TextItem
	for _, it := range row.Items {
		if it.Text == id || !extractor.IsNumericOrDash(it.Text) {
			continue
		}
		if used[extractor.ColumnIndex(table.Columns, extractor.CenterX(it))] {
			continue
		}
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].X < items[j].X })
	return texts(items)
}

// recoverMissing fills metrics without a value from cells in canonical order.
func recoverMissing(values map[string]string, cells []string) {
	next := 0
	for _, metric := range models.CanonicalMetrics {
		if next >= len(cells) {
			return
		}
		if _, ok := values[metric]; ok {
			continue
		}
		values[metric] = cells[next]
		next++
	}
}
