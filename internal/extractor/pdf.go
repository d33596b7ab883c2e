package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Errors surfaced at the document-loading boundary. Everything past this
// point degrades instead of failing.
var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrPasswordProtected = errors.New("password-protected PDF")
	ErrInvalidPDF        = errors.New("invalid PDF")
)

// Load decodes a PDF held in memory into a Document.
func Load(name string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrInvalidPDF)
	}
	return load(name, bytes.NewReader(data), int64(len(data)))
}

// LoadFile opens and decodes the PDF at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Base(path), data)
}

// LoadReader decodes a PDF from an arbitrary reader.
func LoadReader(name string, reader io.Reader) (*Document, error) {
	// ledongthuc/pdf requires an io.ReaderAt and size.
	switch r := reader.(type) {
	case *os.File:
		stat, err := r.Stat()
		if err != nil {
			return nil, err
		}
		if stat.Size() == 0 {
			return nil, ErrEmptyDocument
		}
		return load(name, r, stat.Size())
	case *bytes.Reader:
		if r.Len() == 0 {
			return nil, ErrEmptyDocument
		}
		return load(name, r, int64(r.Len()))
	default:
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, err
		}
		return Load(name, data)
	}
}

// load reads every page serially. The PDF library is not reentrant and panics
// on some malformed inputs, so all access to it happens here.
func load(name string, readerAt io.ReaderAt, size int64) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(readerAt, size)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	doc = &Document{Name: name}
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		doc.pages = append(doc.pages, readPage(reader, i))
	}
	return doc, nil
}

func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return fmt.Errorf("%w: %v", ErrPasswordProtected, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
}

// readPage returns the page's glyph runs merged into word-level fragments.
// A page the library cannot decode yields no items and is skipped downstream.
func readPage(reader *pdf.Reader, n int) (items []RawItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[LOAD] page %d skipped: %v", n, r)
			items = nil
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return nil
	}
	return mergeGlyphs(page.Content().Text)
}

// mergeGlyphs joins consecutive glyphs on the same baseline into fragments.
// A horizontal gap wider than one font size starts a new fragment, which keeps
// table cells apart while leaving multi-word labels intact.
func mergeGlyphs(texts []pdf.Text) []RawItem {
	var (
		items   []RawItem
		current *fragment
	)
	flush := func() {
		if current != nil {
			if item, ok := current.item(); ok {
				items = append(items, item)
			}
			current = nil
		}
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		if current != nil {
			gap := t.X - current.right
			sameLine := math.Abs(t.Y-current.y) < size*0.3
			if !sameLine || gap > size || gap < -size {
				flush()
			}
		}
		if current == nil {
			current = &fragment{x: t.X, y: t.Y, size: size, font: t.Font}
		}
		current.text.WriteString(t.S)
		right := t.X + t.W
		if t.W <= 0 {
			right = t.X + size*0.5*float64(len([]rune(t.S)))
		}
		if right > current.right {
			current.right = right
		}
	}
	flush()

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Transform[5] != items[j].Transform[5] {
			return items[i].Transform[5] > items[j].Transform[5]
		}
		return items[i].Transform[4] < items[j].Transform[4]
	})
	return items
}

type fragment struct {
	text  strings.Builder
	x, y  float64
	right float64
	size  float64
	font  string
}

func (f *fragment) item() (RawItem, bool) {
	s := strings.TrimSpace(f.text.String())
	if s == "" {
		return RawItem{}, false
	}
	return RawItem{
		Text:      s,
		Transform: [6]float64{f.size, 0, 0, f.size, f.x, f.y},
		Width:     f.right - f.x,
		Height:    f.size,
		Font:      f.font,
	}, true
}
