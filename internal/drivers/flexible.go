package drivers

import (
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// flexibleIDPatterns are deliberately permissive; every candidate still has
// to pass the ID scheme.
var flexibleIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTR-?([A-Z0-9]{6,})\b`),
	regexp.MustCompile(`(?i)\b(A[A-Z0-9]{5,})\b`),
	regexp.MustCompile(`\b([A-Z][A-Z0-9]{9,})\b`),
}

const (
	flexibleWindow    = 160
	flexibleMinTokens = 3
)

// Flexible scans a bounded window after every permissive ID match for the
// first numeric tokens. It is the last resort before sample data.
type Flexible struct{}

func (Flexible) Name() string { return "flexible" }

func (Flexible) Attempt(in *Input) Result {
	set := NewSet()
	text := in.FullText
	for _, pattern := range flexibleIDPatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			id := strings.ToUpper(text[loc[2]:loc[3]])
			if !in.Scheme.Valid(id) || set.Has(id) {
				continue
			}
			tokens := extractor.NumericTokens(windowAfter(text, loc[1]))
			if len(tokens) < flexibleMinTokens {
				continue
			}
			set.Add(PositionalRecord(id, cap7(tokens), models.CanonicalMetrics))
		}
	}
	return newResult(0.4, set)
}

// windowAfter returns the text following offset, bounded by the window size
// and by the next ID-shaped token.
func windowAfter(text string, offset int) string {
	w := extractor.Snippet(text, offset, flexibleWindow)
	if id := extractor.FindIDToken(w); id != "" {
		w = w[:strings.Index(w, id)]
	}
	return w
}
