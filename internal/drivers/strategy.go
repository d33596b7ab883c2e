package drivers

import (
	"math"

	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// Input is the document view shared by all strategies.
type Input struct {
	// Positional pages use tight row clustering for grid work.
	Positional []models.PageContent
	// Text pages use looser clustering for line-oriented matching.
	Text []models.PageContent
	// FullText is the relaxed-mode text of the whole document.
	FullText string
	Scheme   Scheme
}

// NewInput renders src in every extraction mode and detects the ID scheme.
func NewInput(src extractor.PageSource) *Input {
	in := &Input{
		Positional: extractor.BuildPages(src, extractor.ModePositional),
		Text:       extractor.BuildPages(src, extractor.ModeText),
	}
	in.FullText = extractor.JoinPages(extractor.BuildPages(src, extractor.ModeRelaxed), 0)
	in.Scheme = DetectScheme(in.FullText)
	return in
}

// Result is what a strategy recovered, with its confidence in [0, 1].
type Result struct {
	Records    []models.DriverRecord
	Confidence float64
}

// Strategy is one independent way of recovering driver rows.
type Strategy interface {
	Name() string
	Attempt(in *Input) Result
}

// minMetricsForConfidence is how many real metrics a record needs to count
// as well-formed.
const minMetricsForConfidence = 3

// newResult scales a strategy's base reliability by the share of
// well-formed records.
func newResult(base float64, set *Set) Result {
	recs := set.Records()
	if len(recs) == 0 {
		return Result{}
	}
	good := 0
	for _, r := range recs {
		if presentMetrics(r) >= minMetricsForConfidence {
			good++
		}
	}
	conf := base * float64(good) / float64(len(recs))
	return Result{Records: recs, Confidence: math.Round(conf*100) / 100}
}

// cap7 trims tokens to the canonical metric count.
func cap7(tokens []string) []string {
	if len(tokens) > len(models.CanonicalMetrics) {
		return tokens[:len(models.CanonicalMetrics)]
	}
	return tokens
}
