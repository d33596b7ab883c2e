package extractor

import (
	"errors"
	"testing"

	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(text string, x, y float64) RawItem {
	return RawItem{Text: text, Transform: [6]float64{10, 0, 0, 10, x, y}, Width: float64(len(text)) * 5}
}

func TestBuildPageDropsEmptyItemsAndNormalizes(t *testing.T) {
	page := BuildPage(1, []RawItem{
		raw("  ", 10, 700),
		raw("Of ﬁce", 10, 700),
		raw("", 40, 700),
		raw("DCR", 100, 701),
	}, ModePositional)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "Of fice", page.Items[0].Text)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Of fice DCR", page.Text)
}

func TestBuildPageEmpty(t *testing.T) {
	page := BuildPage(3, nil, ModeText)
	assert.True(t, page.Empty())
	assert.Equal(t, 3, page.Number)
	assert.Empty(t, page.Rows)
	assert.Empty(t, page.Tables)
}

func TestGroupIntoRowsTolerance(t *testing.T) {
	items := []models.TextItem{
		{Text: "b", X: 50, Y: 700},
		{Text: "a", X: 10, Y: 697},
		{Text: "c", X: 10, Y: 680},
		{Text: "d", X: 30, Y: 690},
	}

	rows := GroupIntoRows(items, 5)
	require.Len(t, rows, 3)
	assert.Equal(t, "a b", RowText(rows[0]))
	assert.Equal(t, "d", RowText(rows[1]))
	assert.Equal(t, "c", RowText(rows[2]))

	rows = GroupIntoRows(items, 12)
	require.Len(t, rows, 2)
	assert.Equal(t, "a d b", RowText(rows[0]))
}

func TestModeTolerance(t *testing.T) {
	assert.Equal(t, 5.0, ModePositional.Tolerance())
	assert.Equal(t, 8.0, ModeText.Tolerance())
	assert.Equal(t, 12.0, ModeRelaxed.Tolerance())
}

func tableRow(y float64, cells ...string) models.Row {
	row := models.Row{Y: y}
	for i, c := range cells {
		row.Items = append(row.Items, models.TextItem{Text: c, X: float64(i * 100), Y: y, Width: 40})
	}
	return row
}

func TestDetectTablesWithGaps(t *testing.T) {
	rows := []models.Row{
		tableRow(800, "Weekly", "Summary"),
		tableRow(780, "Transporter ID", "Delivered", "DCR", "DNR DPMO"),
		tableRow(760, "A1B2C3D4E5F6G7", "120", "99.1%", "0"),
		tableRow(740, "Page", "footer"),
		tableRow(720, "note"),
		tableRow(700, "A7G6F5E4D3C2B1", "98", "97.0%", "1200"),
		tableRow(680, "x"),
		tableRow(660, "y"),
		tableRow(640, "z"),
		tableRow(620, "A9Z9Z9Z9Z9Z9Z9", "1", "2", "3"),
	}

	tables := DetectTables(rows)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
	assert.Equal(t, []float64{70, 170, 270}, tables[0].Columns)

	cells := SplitCells(tables[0], tables[0].Rows[1])
	assert.Equal(t, []string{"A7G6F5E4D3C2B1", "98", "97.0%", "1200"}, cells)
	assert.Equal(t, []string{"Transporter ID", "Delivered", "DCR", "DNR DPMO"}, HeaderCells(tables[0]))
}

func TestDetectTablesRequiresDataRows(t *testing.T) {
	rows := []models.Row{
		tableRow(780, "DCR", "explained"),
		tableRow(760, "Nothing", "numeric", "here"),
	}
	assert.Empty(t, DetectTables(rows))
}

func TestHeaderRowRejectsNumericRows(t *testing.T) {
	assert.False(t, IsHeaderRow(tableRow(0, "DCR", "98.5", "99", "100")))
	assert.True(t, IsHeaderRow(tableRow(0, "Delivered", "DCR", "POD")))
}

func TestIDShape(t *testing.T) {
	assert.True(t, IsIDShaped("A1B2C3"))
	assert.True(t, IsStrictID("A1B2C3D4E5F6G7"))
	assert.False(t, IsStrictID("A1B2C3D4E5F6G"))
	assert.False(t, IsIDShaped("ACTIVE"))
	assert.False(t, IsIDShaped("B1B2C3D4"))
	assert.False(t, IsIDShaped("A1b2c3"))
	assert.False(t, IsIDShaped("A1B2"))
	assert.Equal(t, "A3X9K2M1", FindIDToken("driver A3X9K2M1 did well"))
	assert.Equal(t, []string{"12", "98.5%", "-"}, NumericTokens("A3X9K2M1 12 98.5% - great"))
}

func TestMergeGlyphs(t *testing.T) {
	texts := []pdf.Text{
		{S: "D", X: 10, Y: 700, W: 6, FontSize: 10},
		{S: "C", X: 16, Y: 700, W: 6, FontSize: 10},
		{S: "R", X: 22, Y: 700, W: 6, FontSize: 10},
		{S: "9", X: 100, Y: 700, W: 6, FontSize: 10},
		{S: "9", X: 106, Y: 700, W: 6, FontSize: 10},
		{S: "x", X: 10, Y: 650, W: 6, FontSize: 10},
	}

	items := mergeGlyphs(texts)
	require.Len(t, items, 3)
	assert.Equal(t, "DCR", items[0].Text)
	assert.Equal(t, "99", items[1].Text)
	assert.Equal(t, 100.0, items[1].Transform[4])
	assert.Equal(t, "x", items[2].Text)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("empty.pdf", nil)
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = Load("note.pdf", []byte("hello world"))
	assert.True(t, errors.Is(err, ErrInvalidPDF))

	_, err = Load("broken.pdf", []byte("%PDF-1.4\n%%garbage without xref"))
	assert.True(t, errors.Is(err, ErrInvalidPDF))
}

func TestDocumentPageSource(t *testing.T) {
	doc := NewDocument("t.pdf", []RawItem{raw("A", 0, 0)}, nil)
	assert.Equal(t, 2, doc.NumPages())

	pages := BuildPages(doc, ModeText)
	require.Len(t, pages, 2)
	assert.False(t, pages[0].Empty())
	assert.True(t, pages[1].Empty())

	items, err := doc.PageItems(9)
	require.NoError(t, err)
	assert.Nil(t, items)
}
