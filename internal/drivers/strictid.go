package drivers

import (
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

var strictRow = regexp.MustCompile(`\b(A[A-Z0-9]{13})\b((?:\s+(?:[-–—]|\d[\d.,]*%?)){3,8})`)

// StrictID matches fourteen character IDs followed by a run of numeric
// cells. It only looks at pages where a quick scan finds such an ID.
type StrictID struct{}

func (StrictID) Name() string { return "strict-id" }

func (StrictID) Attempt(in *Input) Result {
	set := NewSet()
	for _, page := range in.Text {
		if !extractor.StrictIDRegex.MatchString(page.Text) {
			continue
		}
		flat := strings.Join(strings.Fields(page.Text), " ")
		for _, m := range strictRow.FindAllStringSubmatch(flat, -1) {
			id := m[1]
			if !extractor.IsStrictID(id) || !in.Scheme.Valid(id) {
				continue
			}
			tokens := cap7(strings.Fields(m[2]))
			set.Add(PositionalRecord(id, tokens, models.CanonicalMetrics))
		}
	}
	return newResult(0.85, set)
}
