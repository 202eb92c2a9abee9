package models

// BucketSummary is one demographic bucket with its membership count and the
// floored mean of the chosen comparison field across its members.
type BucketSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// AxisSummary is the full partition of one demographic axis, in declaration
// order with the overflow bucket last.
type AxisSummary struct {
	Axis    string          `json:"axis"`
	Buckets []BucketSummary `json:"buckets"`
}

// DemographicsSummaryResponse is the classify-and-aggregate result over all
// respondents.
type DemographicsSummaryResponse struct {
	Field string        `json:"field"`
	Floor float64       `json:"floor"`
	Axes  []AxisSummary `json:"axes"`
}
