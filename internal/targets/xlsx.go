package targets

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// maxColumns bounds how far a row is read on extremely wide sheets.
const maxColumns = 64

type sheetColumns struct {
	kpi, value, week, year int
}

// LoadXLSX reads overrides from a workbook file. See ReadXLSX.
func LoadXLSX(path string) ([]models.TargetOverride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadXLSX(f)
}

// ReadXLSX reads overrides from the first sheet carrying a header row with a
// KPI and a Target (or Value) column. Week and Year columns are optional.
func ReadXLSX(reader io.Reader) ([]models.TargetOverride, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		out, ok, err := readSheet(f, sheet)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no sheet with KPI and Target columns")
}

func readSheet(f *excelize.File, sheet string) ([]models.TargetOverride, bool, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, false, nil
	}
	defer rows.Close()

	p := rowParser{sheet: sheet}
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			break
		}
		if err := p.feed(row); err != nil {
			return nil, false, err
		}
	}
	return p.out, p.ok(), nil
}

// rowParser consumes sheet rows, waiting for the header before reading
// overrides.
type rowParser struct {
	sheet string
	idx   int
	cols  *sheetColumns
	out   []models.TargetOverride
}

func (p *rowParser) feed(row []string) error {
	p.idx++
	if len(row) > maxColumns {
		row = row[:maxColumns]
	}
	if p.cols == nil {
		p.cols = headerColumns(row)
		return nil
	}
	o, ok, err := overrideFromRow(row, *p.cols)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", p.sheet, p.idx, err)
	}
	if ok {
		p.out = append(p.out, o)
	}
	return nil
}

func (p *rowParser) ok() bool {
	return p.cols != nil
}

// headerColumns returns the column layout, or nil when row is no header.
func headerColumns(row []string) *sheetColumns {
	c := sheetColumns{kpi: -1, value: -1, week: -1, year: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "kpi", "kpi name", "metric", "name":
			c.kpi = i
		case "target", "value", "target value":
			c.value = i
		case "week", "kw", "effective week":
			c.week = i
		case "year", "effective year":
			c.year = i
		}
	}
	if c.kpi < 0 || c.value < 0 {
		return nil
	}
	return &c
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func overrideFromRow(row []string, c sheetColumns) (models.TargetOverride, bool, error) {
	name := cell(row, c.kpi)
	raw := cell(row, c.value)
	if name == "" && raw == "" {
		return models.TargetOverride{}, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ReplaceAll(raw, ",", "."), "%"), 64)
	if err != nil || name == "" {
		return models.TargetOverride{}, false, fmt.Errorf("bad target %q for %q", raw, name)
	}
	o := models.TargetOverride{KPIName: name, Value: v}
	if w := cell(row, c.week); w != "" {
		week, err := strconv.Atoi(w)
		if err != nil {
			return o, false, fmt.Errorf("bad week %q", w)
		}
		o.EffectiveWeek = &week
	}
	if y := cell(row, c.year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return o, false, fmt.Errorf("bad year %q", y)
		}
		o.EffectiveYear = &year
	}
	return o, true, nil
}
