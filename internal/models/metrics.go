package models

// Canonical driver metric names, in the column order of the scorecard table.
const (
	MetricDelivered = "Delivered"
	MetricDCR       = "DCR"
	MetricDNR       = "DNR DPMO"
	MetricPOD       = "POD"
	MetricCC        = "CC"
	MetricCE        = "CE"
	MetricDEX       = "DEX"
)

// CanonicalMetrics is the fixed metric set every DriverRecord carries.
var CanonicalMetrics = []string{
	MetricDelivered,
	MetricDCR,
	MetricDNR,
	MetricPOD,
	MetricCC,
	MetricCE,
	MetricDEX,
}

// DriverActive is the only status a driver record is created with.
const DriverActive = "active"
