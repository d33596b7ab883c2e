package models

// TextItem is a positioned text fragment recovered from a PDF page.
// Coordinates live in page space: Y grows upwards, as in the PDF itself.
type TextItem struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Font   string  `json:"font,omitempty"`
}

// Row is a set of items sharing (roughly) the same baseline, sorted by X.
type Row struct {
	Y     float64    `json:"y"`
	Items []TextItem `json:"items"`
}

// Table is a grid recovered from a header-keyword row and the rows following it.
type Table struct {
	Header Row `json:"header"`
	// Columns holds the boundaries between adjacent header cells.
	Columns []float64 `json:"columns"`
	Rows    []Row     `json:"rows"`
}

// PageContent is everything the extractors need from a single page.
type PageContent struct {
	Number int        `json:"number"`
	Text   string     `json:"text"`
	Items  []TextItem `json:"items"`
	Rows   []Row      `json:"rows"`
	Tables []Table    `json:"tables"`
}

// Empty reports whether the page carries no usable text.
func (p PageContent) Empty() bool {
	return len(p.Items) == 0
}

type Category string

const (
	CategorySafety       Category = "safety"
	CategoryCompliance   Category = "compliance"
	CategoryCustomer     Category = "customer"
	CategoryStandardWork Category = "standardWork"
	CategoryQuality      Category = "quality"
	CategoryCapacity     Category = "capacity"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySafety,
	CategoryCompliance,
	CategoryCustomer,
	CategoryStandardWork,
	CategoryQuality,
	CategoryCapacity,
}

type Unit string

const (
	UnitPercent Unit = "%"
	UnitDPMO    Unit = "DPMO"
	UnitCount   Unit = "count"
	UnitNone    Unit = "none"
)

type Status string

const (
	StatusFantastic       Status = "fantastic"
	StatusGreat           Status = "great"
	StatusFair            Status = "fair"
	StatusPoor            Status = "poor"
	StatusNone            Status = "none"
	StatusNotInCompliance Status = "not in compliance"
)

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// KPIDefinition describes one canonical company KPI and how to find it in text.
type KPIDefinition struct {
	Name     string
	Code     string
	Category Category
	Unit     Unit
	// Patterns are regular expression fragments matching the KPI label.
	Patterns []string
	Target   float64
	// LowerIsBetter is set for DPMO and rate style KPIs.
	LowerIsBetter bool
	// Metric links the KPI to a driver metric threshold table, if any.
	Metric string
	// Override is a built-in, effective-dated target change.
	Override *TargetOverride
}

type CompanyKPI struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	Target   float64  `json:"target"`
	Unit     Unit     `json:"unit"`
	Trend    Trend    `json:"trend"`
	Status   Status   `json:"status"`
	Category Category `json:"category"`
}

type DriverMetric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Unit   Unit    `json:"unit"`
	Status Status  `json:"status"`
}

type DriverRecord struct {
	DriverID string         `json:"driverId"`
	Status   string         `json:"status"`
	Metrics  []DriverMetric `json:"metrics"`
}

// Metric returns the named metric, if present.
func (d DriverRecord) Metric(name string) (DriverMetric, bool) {
	for _, m := range d.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return DriverMetric{}, false
}

// TargetOverride replaces a KPI's default target from a given week onwards.
type TargetOverride struct {
	KPIName       string  `json:"kpiName" yaml:"kpi"`
	Value         float64 `json:"value" yaml:"value"`
	EffectiveWeek *int    `json:"effectiveWeek,omitempty" yaml:"week,omitempty"`
	EffectiveYear *int    `json:"effectiveYear,omitempty" yaml:"year,omitempty"`
}

// Dated reports whether the override carries an effective date.
func (o TargetOverride) Dated() bool {
	return o.EffectiveWeek != nil || o.EffectiveYear != nil
}

// ScoreCardData is the aggregate produced for one uploaded scorecard.
type ScoreCardData struct {
	Week                  int                       `json:"week"`
	Year                  int                       `json:"year"`
	Location              string                    `json:"location"`
	OverallScore          float64                   `json:"overallScore"`
	OverallStatus         string                    `json:"overallStatus"`
	Rank                  int                       `json:"rank"`
	RankNote              string                    `json:"rankNote"`
	CompanyKPIs           []CompanyKPI              `json:"companyKPIs"`
	CategorizedKPIs       map[Category][]CompanyKPI `json:"categorizedKPIs"`
	DriverKPIs            []DriverRecord            `json:"driverKPIs"`
	RecommendedFocusAreas []string                  `json:"recommendedFocusAreas"`
	IsSampleData          bool                      `json:"isSampleData"`
	Extraction            *ExtractionReport         `json:"extraction,omitempty"`
}

// MinDrivers is the driver count below which a result is considered degraded.
const MinDrivers = 5

// Degraded reports whether the result relied on a fallback somewhere.
func (s ScoreCardData) Degraded() bool {
	if s.IsSampleData || len(s.DriverKPIs) < MinDrivers {
		return true
	}
	return s.Extraction != nil && s.Extraction.DefaultCompanyKPIs
}

// StrategyAttempt records what one driver strategy produced.
type StrategyAttempt struct {
	Strategy   string  `json:"strategy"`
	Path       string  `json:"path"`
	Found      int     `json:"found"`
	Added      int     `json:"added"`
	Confidence float64 `json:"confidence"`
}

// ExtractionReport explains how a ScoreCardData was assembled.
type ExtractionReport struct {
	Pages              int               `json:"pages"`
	StrictIDs          bool              `json:"strictIds"`
	Attempts           []StrategyAttempt `json:"attempts"`
	ChosenPath         string            `json:"chosenPath"`
	PositionalDrivers  int               `json:"positionalDrivers"`
	TextDrivers        int               `json:"textDrivers"`
	DefaultCompanyKPIs bool              `json:"defaultCompanyKpis"`
}
