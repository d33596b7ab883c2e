package targets

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/extrame/xls"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// maxXLSRows bounds how many rows are read from a legacy workbook.
const maxXLSRows = 100000

// LoadXLS reads overrides from a legacy Excel 97-2003 workbook.
func LoadXLS(path string) ([]models.TargetOverride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadXLS(f)
}

// ReadXLS applies the ReadXLSX header rules to every cell of a legacy
// workbook.
func ReadXLS(reader io.Reader) (out []models.TargetOverride, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("open workbook: %v", r)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	p := rowParser{sheet: "xls"}
	for _, row := range wb.ReadAllCells(maxXLSRows) {
		if err := p.feed(row); err != nil {
			return nil, err
		}
	}
	if !p.ok() {
		return nil, fmt.Errorf("no sheet with KPI and Target columns")
	}
	return p.out, nil
}
