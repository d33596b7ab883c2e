package drivers

import (
	"regexp"
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// headingMarker identifies the driver performance page of the classic
// template, whose columns are always Delivered, DCR, DNR DPMO, POD, CC, CE
// and optionally DEX.
var headingMarker = regexp.MustCompile(`(?i)DA\s+Current\s+Week\s+Performance`)

const (
	cellInt = `(\d[\d,]*|[-–—])`
	cellNum = `(\d[\d.,]*\s?%?|[-–—])`
)

var headingRow = regexp.MustCompile(`\b(A[A-Z0-9]{5,})\s+` +
	cellInt + `\s+` + // Delivered
	cellNum + `\s+` + // DCR
	cellNum + `\s+` + // DNR DPMO
	cellNum + `\s+` + // POD
	cellNum + `\s+` + // CC
	cellInt + // CE
	`(?:\s+` + cellNum + `)?`) // DEX

// KnownHeading applies a column-ordered pattern to pages carrying the
// classic driver-table heading.
type KnownHeading struct{}

func (KnownHeading) Name() string { return "known-heading" }

func (KnownHeading) Attempt(in *Input) Result {
	set := NewSet()
	for _, page := range in.Text {
		if !headingMarker.MatchString(page.Text) {
			continue
		}
		flat := strings.Join(strings.Fields(page.Text), " ")
		for _, m := range headingRow.FindAllStringSubmatch(flat, -1) {
			id := m[1]
			if !in.Scheme.Valid(id) {
				continue
			}
			tokens := []string{m[2], m[3], m[4], m[5], m[6], m[7]}
			if m[8] != "" {
				tokens = append(tokens, m[8])
			}
			set.Add(PositionalRecord(id, tokens, models.CanonicalMetrics))
		}
	}
	return newResult(0.95, set)
}
