package drivers

import (
	"github.com/digimosa/dsp-scorecard/internal/models"
)

// sampleRows is the fixed placeholder data shown when no driver could be
// recovered. Values are in canonical metric order.
var sampleRows = []struct {
	id     string
	values []string
}{
	{id: "A10SAMPLE00001", values: []string{"1250", "99.2", "850", "98.9", "96.5", "0", "94.0"}},
	{id: "A10SAMPLE00002", values: []string{"1104", "98.1", "1720", "96.4", "91.0", "1", "88.5"}},
}

// SampleRecords returns the deterministic two-driver sample set.
func SampleRecords() []models.DriverRecord {
	out := make([]models.DriverRecord, 0, len(sampleRows))
	for _, r := range sampleRows {
		out = append(out, PositionalRecord(r.id, r.values, models.CanonicalMetrics))
	}
	return out
}
