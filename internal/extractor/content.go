package extractor

import (
	"math"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// RawItem is a text run as handed over by a PDF renderer: the string plus the
// text-space transform [a b c d e f], where (e, f) is the origin.
type RawItem struct {
	Text      string
	Transform [6]float64
	Width     float64
	Height    float64
	Font      string
}

// PageSource is the decoded-PDF abstraction the engine consumes.
type PageSource interface {
	NumPages() int
	PageItems(n int) ([]RawItem, error)
}

// Document is an in-memory PageSource, either loaded from PDF bytes or built
// directly from items.
type Document struct {
	Name  string
	pages [][]RawItem
}

// NewDocument builds a Document from per-page items.
func NewDocument(name string, pages ...[]RawItem) *Document {
	return &Document{Name: name, pages: pages}
}

func (d *Document) NumPages() int {
	return len(d.pages)
}

// PageItems returns the items of page n (1-based).
func (d *Document) PageItems(n int) ([]RawItem, error) {
	if n < 1 || n > len(d.pages) {
		return nil, nil
	}
	return d.pages[n-1], nil
}

// Mode selects the row-clustering tolerance.
type Mode int

const (
	// ModePositional keeps rows tight for grid reconstruction.
	ModePositional Mode = iota
	// ModeText is used for text-oriented strategies and KPI scanning.
	ModeText
	// ModeRelaxed tolerates badly aligned baselines.
	ModeRelaxed
)

// Tolerance returns the y-proximity used to cluster items into rows.
func (m Mode) Tolerance() float64 {
	switch m {
	case ModeText:
		return 8
	case ModeRelaxed:
		return 12
	default:
		return 5
	}
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeRelaxed:
		return "relaxed"
	default:
		return "positional"
	}
}

// BuildPages converts every page of src. Pages that fail or carry no text are
// returned empty so page numbering stays stable.
func BuildPages(src PageSource, mode Mode) []models.PageContent {
	if src == nil {
		return nil
	}
	pages := make([]models.PageContent, 0, src.NumPages())
	for n := 1; n <= src.NumPages(); n++ {
		raw, err := src.PageItems(n)
		if err != nil {
			pages = append(pages, models.PageContent{Number: n})
			continue
		}
		pages = append(pages, BuildPage(n, raw, mode))
	}
	return pages
}

// BuildPage normalizes raw items and derives rows, tables and page text.
func BuildPage(number int, raw []RawItem, mode Mode) models.PageContent {
	page := models.PageContent{Number: number}
	for _, r := range raw {
		item, ok := normalizeItem(r)
		if !ok {
			continue
		}
		page.Items = append(page.Items, item)
	}
	if len(page.Items) == 0 {
		return page
	}
	page.Rows = GroupIntoRows(page.Items, mode.Tolerance())
	page.Tables = DetectTables(page.Rows)
	page.Text = RowsText(page.Rows)
	return page
}

// normalizeItem maps a raw run into page space and drops empty text.
func normalizeItem(r RawItem) (models.TextItem, bool) {
	text := CleanText(r.Text)
	if text == "" {
		return models.TextItem{}, false
	}
	t := r.Transform
	x, y := t[4], t[5]
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return models.TextItem{}, false
	}

	height := r.Height
	if height <= 0 {
		height = math.Hypot(t[2], t[3])
	}
	if height <= 0 {
		height = 10
	}
	width := r.Width
	if width <= 0 {
		width = float64(len([]rune(text))) * height * 0.5
	}
	return models.TextItem{
		Text:   text,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Font:   r.Font,
	}, true
}

// RowText joins a row's items with single spaces.
func RowText(row models.Row) string {
	parts := make([]string, 0, len(row.Items))
	for _, it := range row.Items {
		parts = append(parts, it.Text)
	}
	return strings.Join(parts, " ")
}

// RowsText renders rows top to bottom, one line per row.
func RowsText(rows []models.Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, RowText(r))
	}
	return strings.Join(lines, "\n")
}

// JoinPages concatenates page texts, skipping empty pages.
func JoinPages(pages []models.PageContent, limit int) string {
	var sb strings.Builder
	for i, p := range pages {
		if limit > 0 && i >= limit {
			break
		}
		if p.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
