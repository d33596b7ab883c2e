package kpi

import (
	"github.com/digimosa/dsp-scorecard/internal/models"
)

func intPtr(v int) *int { return &v }

// Definitions is the canonical company KPI library, in matching order.
var Definitions = []models.KPIDefinition{
	{
		Name: "Delivery Completion Rate (DCR)", Code: "DCR",
		Category: models.CategoryQuality, Unit: models.UnitPercent, Target: 98.5,
		Metric:   models.MetricDCR,
		Patterns: []string{`Delivery\s+Completion\s+Rate(?:\s*\(DCR\))?`, `\bDCR\s*:`},
	},
	{
		Name: "Delivered Not Received (DNR DPMO)", Code: "DNR DPMO",
		Category: models.CategoryQuality, Unit: models.UnitDPMO, Target: 1500, LowerIsBetter: true,
		Metric:   models.MetricDNR,
		Patterns: []string{`Delivered\s+Not\s+Received(?:\s*\(DNR(?:\s+DPMO)?\))?(?:\s+DPMO)?`, `\bDNR\s+DPMO\b`},
	},
	{
		Name: "Lost on Road (LoR) DPMO", Code: "LoR DPMO",
		Category: models.CategoryQuality, Unit: models.UnitDPMO, Target: 350, LowerIsBetter: true,
		Patterns: []string{`Lost\s+on\s+Road(?:\s*\(LoR\))?(?:\s+DPMO)?`, `\bLoR\s+DPMO\b`},
	},
	{
		Name: "Photo-On-Delivery (POD)", Code: "POD",
		Category: models.CategoryStandardWork, Unit: models.UnitPercent, Target: 97,
		Metric:   models.MetricPOD,
		Patterns: []string{`Photo[-\s]+On[-\s]+Delivery(?:\s*\(POD\))?(?:\s+Acceptance)?`, `\bPOD\s*:`},
		Override: &models.TargetOverride{KPIName: "POD", Value: 98, EffectiveWeek: intPtr(10), EffectiveYear: intPtr(2025)},
	},
	{
		Name: "Contact Compliance (CC)", Code: "CC",
		Category: models.CategoryStandardWork, Unit: models.UnitPercent, Target: 95,
		Metric:   models.MetricCC,
		Patterns: []string{`Contact\s+Compliance(?:\s*\(CC\))?`},
	},
	{
		Name: "Customer Escalation Defect DPMO (CE)", Code: "CE",
		Category: models.CategoryCustomer, Unit: models.UnitDPMO, Target: 50, LowerIsBetter: true,
		Patterns: []string{`Customer\s+Escalation(?:\s+Defect)?(?:\s+DPMO)?(?:\s*\(CE\))?`},
	},
	{
		Name: "Customer Delivery Feedback (CDF DPMO)", Code: "CDF DPMO",
		Category: models.CategoryCustomer, Unit: models.UnitDPMO, Target: 1200, LowerIsBetter: true,
		Patterns: []string{`Customer\s+Delivery\s+Feedback(?:\s*\(CDF(?:\s+DPMO)?\))?(?:\s+DPMO)?`, `\bCDF\s+DPMO\b`},
	},
	{
		Name: "Delivery Success Behaviors (DSB)", Code: "DSB",
		Category: models.CategoryCustomer, Unit: models.UnitDPMO, Target: 500, LowerIsBetter: true,
		Patterns: []string{`Delivery\s+Success\s+Behaviou?rs(?:\s*\(DSB\))?(?:\s+DPMO)?`},
	},
	{
		Name: "Customer Delivery Experience (DEX)", Code: "DEX",
		Category: models.CategoryCustomer, Unit: models.UnitPercent, Target: 90,
		Metric:   models.MetricDEX,
		Patterns: []string{`(?:Customer\s+)?Delivery\s+Experience(?:\s+Score)?(?:\s*\(DEX\))?`},
	},
	{
		Name: "Safe Driving Metric (FICO)", Code: "FICO",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 800,
		Patterns: []string{`Safe\s+Driving\s+Metric(?:\s*\(FICO\))?`, `\bFICO\s+Score\b`},
	},
	{
		Name: "Speeding Event Rate (Per 100 Trips)", Code: "Speeding",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 1, LowerIsBetter: true,
		Patterns: []string{`Speeding\s+Event\s+Rate(?:\s*\(Per\s+100\s+Trips\))?`},
	},
	{
		Name: "Seatbelt-Off Rate (Per 100 Trips)", Code: "Seatbelt",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 0.5, LowerIsBetter: true,
		Patterns: []string{`Seat\s*belt[-\s]*Off\s+Rate(?:\s*\(Per\s+100\s+Trips\))?`},
	},
	{
		Name: "Distractions Rate (Per 100 Trips)", Code: "Distractions",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 0.5, LowerIsBetter: true,
		Patterns: []string{`Distractions?\s+Rate(?:\s*\(Per\s+100\s+Trips\))?`},
	},
	{
		Name: "Sign/Signal Violations Rate (Per 100 Trips)", Code: "Sign/Signal",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 0.5, LowerIsBetter: true,
		Patterns: []string{`Sign\s*/\s*Signal\s+Violations?\s+Rate(?:\s*\(Per\s+100\s+Trips\))?`},
	},
	{
		Name: "Following Distance Rate (Per 100 Trips)", Code: "Following Distance",
		Category: models.CategorySafety, Unit: models.UnitNone, Target: 0.5, LowerIsBetter: true,
		Patterns: []string{`Following\s+Distance\s+Rate(?:\s*\(Per\s+100\s+Trips\))?`},
	},
	{
		Name: "Mentor Adoption Rate", Code: "Mentor",
		Category: models.CategorySafety, Unit: models.UnitPercent, Target: 80,
		Patterns: []string{`Mentor\s+Adoption\s+Rate`},
	},
	{
		Name: "Vehicle Audit (VSA) Compliance", Code: "VSA",
		Category: models.CategorySafety, Unit: models.UnitPercent, Target: 100,
		Patterns: []string{`Vehicle\s+Audit(?:\s*\(VSA\))?\s+Compliance`},
	},
	{
		Name: "Working Hours Compliance (WHC)", Code: "WHC",
		Category: models.CategoryCompliance, Unit: models.UnitPercent, Target: 100,
		Patterns: []string{`Working\s+Hours\s+Compliance(?:\s*\(WHC\))?`},
	},
	{
		Name: "Comprehensive Audit Score (CAS)", Code: "CAS",
		Category: models.CategoryCompliance, Unit: models.UnitPercent, Target: 100,
		Patterns: []string{`Comprehensive\s+Audit\s+Score(?:\s*\(CAS\))?`},
	},
	{
		Name: "Capacity Reliability", Code: "CR",
		Category: models.CategoryCapacity, Unit: models.UnitPercent, Target: 98,
		Patterns: []string{`(?:Next\s+Day\s+)?Capacity\s+Reliability`},
	},
}

// BOC is handled apart from the library: it has no meaningful value.
var BOC = models.KPIDefinition{
	Name: "Breach of Contract (BOC)", Code: "BOC",
	Category: models.CategoryCompliance, Unit: models.UnitNone,
	Patterns: []string{`Breach\s+of\s+Contract(?:\s*\(BOC\))?`},
}

// DefaultKPIs is returned when nothing could be recovered from the text.
func DefaultKPIs() []models.CompanyKPI {
	return []models.CompanyKPI{
		{Name: Definitions[0].Name, Target: Definitions[0].Target, Unit: models.UnitPercent, Trend: models.TrendNeutral, Status: models.StatusNone, Category: models.CategoryQuality},
		{Name: Definitions[1].Name, Target: Definitions[1].Target, Unit: models.UnitDPMO, Trend: models.TrendNeutral, Status: models.StatusNone, Category: models.CategoryQuality},
		{Name: Definitions[3].Name, Target: Definitions[3].Target, Unit: models.UnitPercent, Trend: models.TrendNeutral, Status: models.StatusNone, Category: models.CategoryStandardWork},
	}
}
