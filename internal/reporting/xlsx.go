package reporting

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

const (
	sheetSummary = "Scorecards"
	sheetKPIs    = "Company KPIs"
	sheetDrivers = "Drivers"
)

// SaveXLSX writes the report as a workbook with one sheet per table.
func (r *Report) SaveXLSX(filename string) error {
	f, err := r.workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

// WriteXLSX streams the workbook to w.
func (r *Report) WriteXLSX(w io.Writer) error {
	f, err := r.workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func (r *Report) workbook() (*excelize.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{sheetKPIs, sheetDrivers} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	w := &sheetWriter{f: f}
	w.row(sheetSummary, "File", "Week", "Year", "Location", "Overall Score", "Overall Status", "Rank", "Rank Note", "Drivers", "Sample Data", "Error")
	w.row(sheetKPIs, "File", "KPI", "Value", "Target", "Unit", "Status", "Trend", "Category")
	driverHeader := []interface{}{"File", "Driver ID", "Status"}
	for _, m := range models.CanonicalMetrics {
		driverHeader = append(driverHeader, m, m+" Status")
	}
	w.row(sheetDrivers, driverHeader...)

	for _, res := range r.Results {
		file := filepath.Base(res.FilePath)
		sc := res.ScoreCard
		if sc == nil {
			w.row(sheetSummary, file, "", "", "", "", "", "", "", "", "", res.ErrorMsg)
			continue
		}
		w.row(sheetSummary, file, sc.Week, sc.Year, sc.Location, sc.OverallScore, sc.OverallStatus,
			sc.Rank, sc.RankNote, len(sc.DriverKPIs), sc.IsSampleData, res.ErrorMsg)
		for _, k := range sc.CompanyKPIs {
			w.row(sheetKPIs, file, k.Name, k.Value, k.Target, string(k.Unit), string(k.Status), string(k.Trend), string(k.Category))
		}
		for _, d := range sc.DriverKPIs {
			cells := []interface{}{file, d.DriverID, d.Status}
			for _, name := range models.CanonicalMetrics {
				m, _ := d.Metric(name)
				cells = append(cells, m.Value, string(m.Status))
			}
			w.row(sheetDrivers, cells...)
		}
	}
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter appends rows per sheet and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, values ...interface{}) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = make(map[string]int)
	}
	w.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", sheet, w.next[sheet], err)
	}
}
