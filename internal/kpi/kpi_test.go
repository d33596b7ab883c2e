package kpi

import (
	"testing"

	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func byName(kpis []models.CompanyKPI) map[string]models.CompanyKPI {
	out := make(map[string]models.CompanyKPI, len(kpis))
	for _, k := range kpis {
		out[k.Name] = k
	}
	return out
}

func TestExtractExplicitStatus(t *testing.T) {
	kpis, defaulted := New(nil, Period{}).Extract("Delivery Completion Rate (DCR): 98.5% great")
	require.False(t, defaulted)
	require.Len(t, kpis, 1)

	k := kpis[0]
	assert.Equal(t, "Delivery Completion Rate (DCR)", k.Name)
	assert.Equal(t, 98.5, k.Value)
	assert.Equal(t, 98.5, k.Target)
	assert.Equal(t, models.UnitPercent, k.Unit)
	assert.Equal(t, models.StatusGreat, k.Status)
	assert.Equal(t, models.TrendUp, k.Trend)
	assert.Equal(t, models.CategoryQuality, k.Category)
}

func TestExtractBreachOfContract(t *testing.T) {
	kpis, _ := New(nil, Period{}).Extract("Breach of Contract (BOC): not in compliance")
	require.Len(t, kpis, 1)

	k := kpis[0]
	assert.Equal(t, BOC.Name, k.Name)
	assert.Zero(t, k.Value)
	assert.Zero(t, k.Target)
	assert.Equal(t, models.StatusNotInCompliance, k.Status)
	assert.Equal(t, models.TrendDown, k.Trend)
	assert.Equal(t, models.CategoryCompliance, k.Category)

	kpis, _ = New(nil, Period{}).Extract("Breach of Contract (BOC) 0\nWorking Hours Compliance (WHC) 100%")
	got := byName(kpis)
	assert.Equal(t, models.StatusNone, got[BOC.Name].Status)
	assert.Equal(t, 100.0, got["Working Hours Compliance (WHC)"].Value)
}

func TestExtractFullSummary(t *testing.T) {
	text := "Delivery Completion Rate (DCR): 98.5% great\n" +
		"Delivered Not Received (DNR DPMO) 1250\n" +
		"Contact Compliance (CC): 93.0%\n" +
		"Speeding Event Rate (Per 100 Trips) 0.4\n" +
		"Breach of Contract (BOC): not in compliance\n" +
		"Mystery Rate: 77%\n" +
		"Overall Score: 92.5%\n" +
		"Week 32"

	kpis, defaulted := New(nil, Period{}).Extract(text)
	require.False(t, defaulted)

	var names []string
	for _, k := range kpis {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{
		"Delivery Completion Rate (DCR)",
		"Delivered Not Received (DNR DPMO)",
		"Contact Compliance (CC)",
		"Speeding Event Rate (Per 100 Trips)",
		"Breach of Contract (BOC)",
		"Mystery Rate",
	}, names)

	got := byName(kpis)

	dnr := got["Delivered Not Received (DNR DPMO)"]
	assert.Equal(t, 1250.0, dnr.Value)
	assert.Equal(t, models.UnitDPMO, dnr.Unit)
	assert.Equal(t, models.StatusGreat, dnr.Status)

	cc := got["Contact Compliance (CC)"]
	assert.Equal(t, models.StatusFair, cc.Status)
	assert.Equal(t, models.CategoryStandardWork, cc.Category)

	speeding := got["Speeding Event Rate (Per 100 Trips)"]
	assert.Equal(t, 0.4, speeding.Value)
	assert.Equal(t, models.StatusGreat, speeding.Status)
	assert.Equal(t, models.CategorySafety, speeding.Category)

	mystery := got["Mystery Rate"]
	assert.Equal(t, 77.0, mystery.Value)
	assert.Equal(t, float64(genericPercentTarget), mystery.Target)
	assert.Equal(t, models.StatusPoor, mystery.Status)
	assert.Equal(t, models.CategorySafety, mystery.Category)
	assert.Equal(t, models.TrendDown, mystery.Trend)
}

func TestExtractCodeLabelIsNotDuplicated(t *testing.T) {
	kpis, _ := New(nil, Period{}).Extract("DCR: 99.2%")
	require.Len(t, kpis, 1)
	assert.Equal(t, "Delivery Completion Rate (DCR)", kpis[0].Name)
	assert.Equal(t, models.StatusFantastic, kpis[0].Status)
}

func TestExtractDefaultsWhenNothingFound(t *testing.T) {
	kpis, defaulted := New(nil, Period{}).Extract("Weekly overview\nnothing to see")
	assert.True(t, defaulted)
	assert.Equal(t, DefaultKPIs(), kpis)
	assert.Len(t, kpis, 3)

	// a percentage above 100 is not a plausible reading
	kpis, defaulted = New(nil, Period{}).Extract("Contact Compliance (CC) 250")
	assert.True(t, defaulted)
	assert.Len(t, kpis, 3)
}

func TestExtractAppliesOverrides(t *testing.T) {
	overrides := StaticTargets{
		{KPIName: "DCR", Value: 99, EffectiveWeek: ptr(20), EffectiveYear: ptr(2025)},
	}
	list, err := overrides.TargetOverrides()
	require.NoError(t, err)

	kpis, _ := New(list, Period{Week: 30, Year: 2025}).Extract("Delivery Completion Rate (DCR) 98.7%")
	require.Len(t, kpis, 1)
	assert.Equal(t, 99.0, kpis[0].Target)

	kpis, _ = New(list, Period{Week: 10, Year: 2025}).Extract("Delivery Completion Rate (DCR) 98.7%")
	require.Len(t, kpis, 1)
	assert.Equal(t, 98.5, kpis[0].Target)
}

func TestResolveTarget(t *testing.T) {
	pod := Definitions[3]
	require.Equal(t, "POD", pod.Code)

	assert.Equal(t, 97.0, ResolveTarget(pod, nil, Period{Week: 5, Year: 2025}))
	assert.Equal(t, 98.0, ResolveTarget(pod, nil, Period{Week: 12, Year: 2025}))
	assert.Equal(t, 98.0, ResolveTarget(pod, nil, Period{}))

	// an undated user override ranks below the dated built-in one
	user := []models.TargetOverride{{KPIName: "photo-on-delivery (pod)", Value: 96}}
	assert.Equal(t, 98.0, ResolveTarget(pod, user, Period{Week: 12, Year: 2025}))
	assert.Equal(t, 96.0, ResolveTarget(pod, user, Period{Week: 5, Year: 2025}))

	// later entries win ties
	user = []models.TargetOverride{
		{KPIName: "POD", Value: 99, EffectiveWeek: ptr(20), EffectiveYear: ptr(2025)},
		{KPIName: "POD", Value: 99.5, EffectiveWeek: ptr(20), EffectiveYear: ptr(2025)},
	}
	assert.Equal(t, 99.5, ResolveTarget(pod, user, Period{Week: 40, Year: 2025}))
	assert.Equal(t, 98.0, ResolveTarget(pod, user, Period{Week: 19, Year: 2025}))

	// a year-only override applies from the start of that year
	user = []models.TargetOverride{{KPIName: "POD", Value: 95, EffectiveYear: ptr(2026)}}
	assert.Equal(t, 95.0, ResolveTarget(pod, user, Period{Week: 1, Year: 2026}))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, models.CategorySafety, CategoryFor("Seatbelt-Off Rate"))
	assert.Equal(t, models.CategoryCustomer, CategoryFor("Customer Feedback"))
	assert.Equal(t, models.CategoryStandardWork, CategoryFor("Contact Compliance"))
	assert.Equal(t, models.CategoryCompliance, CategoryFor("Working Hours Compliance"))
	assert.Equal(t, models.CategoryCapacity, CategoryFor("Capacity Reliability"))
	assert.Equal(t, models.CategoryQuality, CategoryFor("Lost on Road"))
	assert.Equal(t, models.CategorySafety, CategoryFor("Something else"))
}

func TestCategorize(t *testing.T) {
	groups := Categorize([]models.CompanyKPI{
		{Name: "a", Category: models.CategorySafety},
		{Name: "b", Category: models.CategoryQuality},
		{Name: "c", Category: models.CategorySafety},
		{Name: "Customer Feedback"},
	})
	assert.Len(t, groups, len(models.Categories))
	assert.Len(t, groups[models.CategorySafety], 2)
	assert.Equal(t, "c", groups[models.CategorySafety][1].Name)
	assert.Len(t, groups[models.CategoryCustomer], 1)
	assert.NotNil(t, groups[models.CategoryCapacity])
	assert.Empty(t, groups[models.CategoryCapacity])
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, models.TrendUp, TrendFor(models.StatusFantastic))
	assert.Equal(t, models.TrendUp, TrendFor(models.StatusGreat))
	assert.Equal(t, models.TrendNeutral, TrendFor(models.StatusFair))
	assert.Equal(t, models.TrendNeutral, TrendFor(models.StatusNone))
	assert.Equal(t, models.TrendDown, TrendFor(models.StatusPoor))
	assert.Equal(t, models.TrendDown, TrendFor(models.StatusNotInCompliance))
}

func TestChainConcatenatesInOrder(t *testing.T) {
	chain := Chain{
		StaticTargets{{KPIName: "DCR", Value: 99}},
		nil,
		StaticTargets{{KPIName: "DCR", Value: 99.5}},
	}
	list, err := chain.TargetOverrides()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 99.5, ResolveTarget(Definitions[0], list, Period{}))
}

func TestGenericSkipsOverlappingLabels(t *testing.T) {
	text := "Delivery Completion Rate (DCR): 98.5% great\n" +
		"Completion Rate: 97%\n" +
		"Rescue Rate: 90%\n" +
		"Rescue Rate Weekly: 91%"
	kpis, _ := New(nil, Period{}).Extract(text)

	var names []string
	for _, k := range kpis {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{"Delivery Completion Rate (DCR)", "Rescue Rate"}, names)
	assert.Equal(t, models.CategoryCapacity, kpis[1].Category)
}

func TestExtractShortCodeTableLines(t *testing.T) {
	text := "DCR 98.5% Great\n" +
		"POD | 99.1% | Fantastic\n" +
		"CC - 97.0% Great"
	kpis, defaulted := New(nil, Period{}).Extract(text)
	require.False(t, defaulted)
	require.Len(t, kpis, 3)

	assert.Equal(t, "Delivery Completion Rate (DCR)", kpis[0].Name)
	assert.Equal(t, 98.5, kpis[0].Value)
	assert.Equal(t, models.StatusGreat, kpis[0].Status)

	assert.Equal(t, "Photo-On-Delivery (POD)", kpis[1].Name)
	assert.Equal(t, 99.1, kpis[1].Value)
	assert.Equal(t, models.StatusFantastic, kpis[1].Status)

	assert.Equal(t, "Contact Compliance (CC)", kpis[2].Name)
	assert.Equal(t, 97.0, kpis[2].Value)
	assert.Equal(t, models.StatusGreat, kpis[2].Status)
	assert.Equal(t, models.UnitPercent, kpis[2].Unit)
}

func TestExtractDashValueIsEmptyKPI(t *testing.T) {
	text := "Delivery Completion Rate (DCR): -\n" +
		"Photo-On-Delivery (POD): 99.0% fantastic"
	kpis, defaulted := New(nil, Period{}).Extract(text)
	require.False(t, defaulted)
	require.Len(t, kpis, 2)

	dcr := kpis[0]
	assert.Equal(t, "Delivery Completion Rate (DCR)", dcr.Name)
	assert.Zero(t, dcr.Value)
	assert.Equal(t, 98.5, dcr.Target)
	assert.Equal(t, models.StatusNone, dcr.Status)
	assert.Equal(t, models.TrendNeutral, dcr.Trend)

	assert.Equal(t, "Photo-On-Delivery (POD)", kpis[1].Name)
	assert.Equal(t, models.StatusFantastic, kpis[1].Status)

	// a numeric reading elsewhere beats the empty cell
	kpis, _ = New(nil, Period{}).Extract("DCR | –\nDelivery Completion Rate (DCR) 99.3%")
	require.Len(t, kpis, 1)
	assert.Equal(t, 99.3, kpis[0].Value)

	// a dash separating label and value is not an empty cell
	kpis, _ = New(nil, Period{}).Extract("Photo-On-Delivery (POD) - 97.5%")
	require.Len(t, kpis, 1)
	assert.Equal(t, 97.5, kpis[0].Value)
}

func TestExtractGroupedThousandsInDPMO(t *testing.T) {
	kpis, _ := New(nil, Period{}).Extract("Delivered Not Received (DNR DPMO) 1,250")
	require.Len(t, kpis, 1)
	assert.Equal(t, 1250.0, kpis[0].Value)
	assert.Equal(t, models.StatusGreat, kpis[0].Status)

	// percentages keep the decimal comma
	kpis, _ = New(nil, Period{}).Extract("Contact Compliance (CC): 97,5%")
	require.Len(t, kpis, 1)
	assert.Equal(t, 97.5, kpis[0].Value)
}
