package drivers

import (
	"regexp"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

var lineStart = regexp.MustCompile(`^(A[A-Z0-9]{5,})\b(.*)$`)

// minLineTokens is how many numeric tokens must follow the ID on a line.
const minLineTokens = 3

// LineRegex treats every line that opens with an ID-shaped token followed by
// enough numbers as one driver row, metrics in canonical order.
type LineRegex struct{}

func (LineRegex) Name() string { return "line-regex" }

func (LineRegex) Attempt(in *Input) Result {
	set := NewSet()
	for _, page := range in.Text {
		for _, line := range extractor.Lines(page.Text) {
			m := lineStart.FindStringSubmatch(line)
			if m == nil || !in.Scheme.Valid(m[1]) {
				continue
			}
			tokens := extractor.NumericTokens(m[2])
			if len(tokens) < minLineTokens {
				continue
			}
			set.Add(PositionalRecord(m[1], cap7(tokens), models.CanonicalMetrics))
		}
	}
	return newResult(0.6, set)
}
