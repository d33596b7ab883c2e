package extractor

import (
	"sort"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// maxTableGap is how many unrelated rows a table may skip before it ends.
const maxTableGap = 2

// DetectTables finds header-keyword rows and the data rows that follow them.
func DetectTables(rows []models.Row) []models.Table {
	var tables []models.Table
	for i := 0; i < len(rows); i++ {
		if !IsHeaderRow(rows[i]) {
			continue
		}
		table := models.Table{Header: rows[i]}
		gap := 0
		j := i + 1
		for ; j < len(rows); j++ {
			if IsHeaderRow(rows[j]) {
				break
			}
			if IsDataRow(rows[j]) {
				table.Rows = append(table.Rows, rows[j])
				gap = 0
				continue
			}
			gap++
			if gap > maxTableGap {
				break
			}
		}
		if len(table.Rows) > 0 {
			table.Columns = ColumnBoundaries(table.Header)
			tables = append(tables, table)
			i = j - 1
		}
	}
	return tables
}

// IsHeaderRow reports whether a row names at least one table column and is
// not itself mostly numbers.
func IsHeaderRow(row models.Row) bool {
	keywords, numeric := 0, 0
	for _, it := range row.Items {
		if IsNumericOrDash(it.Text) {
			numeric++
			continue
		}
		if HasColumnKeyword(it.Text) {
			keywords++
		}
	}
	return keywords > 0 && keywords > numeric
}

// IsDataRow reports whether a row is numeric-rich or carries a driver ID.
func IsDataRow(row models.Row) bool {
	if len(row.Items) == 0 {
		return false
	}
	numeric := 0
	for _, it := range row.Items {
		if FindIDToken(it.Text) != "" {
			return true
		}
		if IsNumericOrDash(it.Text) {
			numeric++
		}
	}
	return numeric >= 3 || (numeric >= 2 && numeric*2 >= len(row.Items))
}

// ColumnBoundaries returns the midpoints between adjacent header cells.
func ColumnBoundaries(header models.Row) []float64 {
	centers := make([]float64, 0, len(header.Items))
	for _, it := range header.Items {
		centers = append(centers, CenterX(it))
	}
	sort.Float64s(centers)
	bounds := make([]float64, 0, len(centers))
	for i := 1; i < len(centers); i++ {
		bounds = append(bounds, (centers[i-1]+centers[i])/2)
	}
	return bounds
}

// ColumnIndex returns the column an x position falls into.
func ColumnIndex(bounds []float64, x float64) int {
	return sort.SearchFloat64s(bounds, x)
}

// SplitCells assigns a row's items to the table's columns. Items landing in
// the same column are joined with a space.
func SplitCells(table models.Table, row models.Row) []string {
	cells := make([]string, len(table.Columns)+1)
	for _, it := range row.Items {
		idx := ColumnIndex(table.Columns, CenterX(it))
		if cells[idx] == "" {
			cells[idx] = it.Text
		} else {
			cells[idx] += " " + it.Text
		}
	}
	return cells
}

// HeaderCells returns the header labels in column order.
func HeaderCells(table models.Table) []string {
	cells := make([]string, 0, len(table.Header.Items))
	for _, it := range table.Header.Items {
		cells = append(cells, strings.TrimSpace(it.Text))
	}
	return cells
}
