package targets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

func intp(v int) *int { return &v }

func TestParseLine(t *testing.T) {
	o, err := ParseLine("Photo-On-Delivery (POD) = 98.5 @ 2025-W20")
	require.NoError(t, err)
	assert.Equal(t, "Photo-On-Delivery (POD)", o.KPIName)
	assert.Equal(t, 98.5, o.Value)
	require.NotNil(t, o.EffectiveWeek)
	assert.Equal(t, 20, *o.EffectiveWeek)
	assert.Equal(t, 2025, *o.EffectiveYear)

	o, err = ParseLine("DCR = 99")
	require.NoError(t, err)
	assert.False(t, o.Dated())

	o, err = ParseLine("CC = 97 @ 2026")
	require.NoError(t, err)
	assert.Nil(t, o.EffectiveWeek)
	assert.Equal(t, 2026, *o.EffectiveYear)

	o, err = ParseLine("CC = 96 @ w30")
	require.NoError(t, err)
	assert.Nil(t, o.EffectiveYear)
	require.NotNil(t, o.EffectiveWeek)
	assert.Equal(t, 30, *o.EffectiveWeek)

	for _, bad := range []string{"DCR 99", "= 99", "DCR = high", "DCR = 99 @ soon", "DCR = 99 @ 2025-"} {
		_, err := ParseLine(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatLineRoundTrip(t *testing.T) {
	o := models.TargetOverride{KPIName: "POD", Value: 98.5, EffectiveWeek: intp(7), EffectiveYear: intp(2025)}
	line := FormatLine(o)
	assert.Equal(t, "POD = 98.5 @ 2025-W07", line)

	back, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestFormatLineKeepsWeekOnly(t *testing.T) {
	o := models.TargetOverride{KPIName: "CC", Value: 96, EffectiveWeek: intp(30)}
	assert.Equal(t, "CC = 96 @ W30", FormatLine(o))

	path := filepath.Join(t.TempDir(), "targets.txt")
	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Add(o))

	reopened, err := Open(path)
	require.NoError(t, err)
	list, err := reopened.TargetOverrides()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o, list[0])
}

func TestLineFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte("# station targets\nDCR = 99\n\n"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Add(models.TargetOverride{KPIName: "POD", Value: 98, EffectiveYear: intp(2025)}))
	assert.Error(t, f.Add(models.TargetOverride{KPIName: "  "}))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.TargetOverrides()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DCR", got[0].KPIName)
	assert.Equal(t, "POD", got[1].KPIName)
}

func TestYAMLFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")

	f, err := Open(path)
	require.NoError(t, err)
	got, _ := f.TargetOverrides()
	assert.Empty(t, got)

	require.NoError(t, f.Add(models.TargetOverride{KPIName: "DCR", Value: 99, EffectiveWeek: intp(20), EffectiveYear: intp(2025)}))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err = reopened.TargetOverrides()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20, *got[0].EffectiveWeek)
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte("DCR is 99\n"), 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"Station targets"},
		{"KPI", "Target", "Week", "Year"},
		{"DCR", 99, 20, 2025},
		{"POD", "98,5%", "", ""},
		{},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cellRef, &r))
	}
	path := filepath.Join(t.TempDir(), "targets.xlsx")
	require.NoError(t, wb.SaveAs(path))

	got, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DCR", got[0].KPIName)
	assert.Equal(t, 99.0, got[0].Value)
	assert.Equal(t, 20, *got[0].EffectiveWeek)
	assert.Equal(t, 2025, *got[0].EffectiveYear)
	assert.Equal(t, 98.5, got[1].Value)
	assert.False(t, got[1].Dated())
}

func TestLoadXLSXWithoutHeader(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetCellValue(wb.GetSheetName(0), "A1", "nothing"))
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, wb.SaveAs(path))

	_, err := LoadXLSX(path)
	assert.Error(t, err)
}

func TestReadXLSRejectsGarbage(t *testing.T) {
	_, err := ReadXLS(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
