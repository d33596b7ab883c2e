package scorecard

import (
	"github.com/digimosa/dsp-scorecard/internal/drivers"
)

// Step is one strategy of a path.
type Step struct {
	Strategy drivers.Strategy
	// OnlyBelow skips the step once the path holds this many drivers.
	// Zero means the step always runs (until the path is adequate).
	OnlyBelow int
}

// Path is an ordered list of strategies whose results are merged.
type Path struct {
	Name  string
	Steps []Step
}

// Policy decides which strategies run and which result is kept.
type Policy struct {
	Positional Path
	Text       Path

	// StrictAdequate and GeneralAdequate stop a path early, depending on
	// whether the document uses fourteen character IDs.
	StrictAdequate  int
	GeneralAdequate int

	// KeepPositional is the positional count at which the text path is
	// not tried at all.
	KeepPositional int
	// TextFactor is how many times more drivers the text path must find
	// to replace the positional result.
	TextFactor float64
}

// DefaultPolicy is the production ordering of driver strategies.
func DefaultPolicy() Policy {
	return Policy{
		Positional: Path{
			Name: PathPositional,
			Steps: []Step{
				// the marked template's column order is known, so it
				// outranks anything inferred from positions
				{Strategy: drivers.KnownHeading{}},
				{Strategy: drivers.Grid{}},
				{Strategy: drivers.HeaderAnchored{}},
			},
		},
		Text: Path{
			Name: PathText,
			Steps: []Step{
				{Strategy: drivers.StrictID{}},
				{Strategy: drivers.LineRegex{}},
				{Strategy: drivers.Flexible{}, OnlyBelow: 5},
			},
		},
		StrictAdequate:  15,
		GeneralAdequate: 10,
		KeepPositional:  10,
		TextFactor:      1.5,
	}
}

// Path names as recorded in the extraction report.
const (
	PathPositional = "positional"
	PathText       = "text"
	PathSample     = "sample"
)

// adequate returns the driver count at which a path stops early.
func (p Policy) adequate(scheme drivers.Scheme) int {
	if scheme.Strict {
		return p.StrictAdequate
	}
	return p.GeneralAdequate
}
