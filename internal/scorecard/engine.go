// Package scorecard assembles a ScoreCardData from a decoded PDF by driving
// the company KPI, driver and metadata extractors.
package scorecard

import (
	"context"
	"fmt"
	"log"

	"github.com/digimosa/dsp-scorecard/internal/drivers"
	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/kpi"
	"github.com/digimosa/dsp-scorecard/internal/metadata"
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// DefaultCompanyPages is how many leading pages are scanned for company KPIs.
const DefaultCompanyPages = 3

// Options tune a single extraction.
type Options struct {
	// Filename is used for week/year tokens such as KW23.
	Filename string
	Verbose  bool
	// Targets supplies target overrides; nil means none.
	Targets      kpi.TargetRepository
	CompanyPages int
}

// Engine runs the extraction pipeline. It holds no per-document state and
// is safe for concurrent use.
type Engine struct {
	policy Policy
}

// New returns an Engine using DefaultPolicy.
func New() *Engine {
	return &Engine{policy: DefaultPolicy()}
}

// NewWithPolicy returns an Engine using p.
func NewWithPolicy(p Policy) *Engine {
	return &Engine{policy: p}
}

// Extract builds the scorecard for src. Content problems never fail the
// extraction, they degrade it; the only error is ctx being done.
func (e *Engine) Extract(ctx context.Context, src extractor.PageSource, opts Options) (*models.ScoreCardData, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract %s: %w", opts.Filename, err)
	}

	in := drivers.NewInput(src)
	report := &models.ExtractionReport{
		Pages:     len(in.Text),
		StrictIDs: in.Scheme.Strict,
	}
	fullText := extractor.JoinPages(in.Text, 0)

	pages := opts.CompanyPages
	if pages <= 0 {
		pages = DefaultCompanyPages
	}
	companyText := extractor.JoinPages(in.Text, pages)

	week, year := metadata.Period(fullText, opts.Filename)
	kx := kpi.New(loadOverrides(opts), kpi.Period{Week: week, Year: year})
	kx.SetVerbose(opts.Verbose)
	kpis, defaulted := kx.Extract(companyText)
	report.DefaultCompanyKPIs = defaulted

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract %s: %w", opts.Filename, err)
	}

	records, sample := e.extractDrivers(in, report, opts.Verbose)

	md := metadata.Extract(fullText, opts.Filename, kpis)

	if opts.Verbose {
		log.Printf("[DRIVERS] %s: %d drivers via %s path, %d company KPIs", opts.Filename, len(records), report.ChosenPath, len(kpis))
	}

	return &models.ScoreCardData{
		Week:                  md.Week,
		Year:                  md.Year,
		Location:              md.Location,
		OverallScore:          md.OverallScore,
		OverallStatus:         md.OverallStatus,
		Rank:                  md.Rank,
		RankNote:              md.RankNote,
		CompanyKPIs:           kpis,
		CategorizedKPIs:       kpi.Categorize(kpis),
		DriverKPIs:            records,
		RecommendedFocusAreas: md.FocusAreas,
		IsSampleData:          sample,
		Extraction:            report,
	}, nil
}

// loadOverrides reads the repository once; a failing repository is logged
// and treated as empty.
func loadOverrides(opts Options) []models.TargetOverride {
	if opts.Targets == nil {
		return nil
	}
	overrides, err := opts.Targets.TargetOverrides()
	if err != nil {
		log.Printf("[KPI] target overrides unavailable, using defaults: %v", err)
		return nil
	}
	return overrides
}

// extractDrivers runs the positional path, falls back to the text path when
// it under-delivers and to the sample set when both come back empty.
func (e *Engine) extractDrivers(in *drivers.Input, report *models.ExtractionReport, verbose bool) ([]models.DriverRecord, bool) {
	p := e.policy

	chosen := e.runPath(in, p.Positional, report, verbose)
	report.PositionalDrivers = chosen.Len()
	report.ChosenPath = p.Positional.Name

	if chosen.Len() < p.KeepPositional {
		text := e.runPath(in, p.Text, report, verbose)
		report.TextDrivers = text.Len()
		if float64(text.Len()) > p.TextFactor*float64(chosen.Len()) {
			chosen = text
			report.ChosenPath = p.Text.Name
		}
	}

	if chosen.Len() == 0 {
		report.ChosenPath = PathSample
		if verbose {
			log.Printf("[DRIVERS] no driver rows recovered, using sample data")
		}
		return drivers.SampleRecords(), true
	}
	return chosen.Records(), false
}

func (e *Engine) runPath(in *drivers.Input, path Path, report *models.ExtractionReport, verbose bool) *drivers.Set {
	set := drivers.NewSet()
	bar := e.policy.adequate(in.Scheme)
	for _, step := range path.Steps {
		if set.Len() >= bar {
			break
		}
		if step.OnlyBelow > 0 && set.Len() >= step.OnlyBelow {
			continue
		}
		res := step.Strategy.Attempt(in)
		added := set.AddAll(res.Records)
		report.Attempts = append(report.Attempts, models.StrategyAttempt{
			Strategy:   step.Strategy.Name(),
			Path:       path.Name,
			Found:      len(res.Records),
			Added:      added,
			Confidence: res.Confidence,
		})
		if verbose {
			log.Printf("[DRIVERS] %s/%s: found %d, added %d (confidence %.2f)", path.Name, step.Strategy.Name(), len(res.Records), added, res.Confidence)
		}
	}
	return set
}
