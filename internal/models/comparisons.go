package models

import "time"

// Comparison is a persisted similarity result between a subject respondent
// and the reference respondent. Rows are append-only: re-running a comparison
// inserts a new row rather than updating an existing one.
type Comparison struct {
	ID           int64 `json:"id"`
	UID          int64 `json:"uid"`
	ReferenceUID int64 `json:"reference_uid"`
	// Scores holds the per-question cosine similarities, indexed slot-1.
	Scores    [SlotCount]float64 `json:"scores"`
	Total     float64            `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
}

// SimilarityReport is an ad hoc two-way comparison result. It is returned to
// the caller but never persisted.
type SimilarityReport struct {
	UIDA   int64              `json:"uid_a"`
	UIDB   int64              `json:"uid_b"`
	Scores [SlotCount]float64 `json:"scores"`
	Total  float64            `json:"total"`
}

// ListComparisonsResponse represents the response for listing comparisons.
type ListComparisonsResponse struct {
	Data  []Comparison `json:"data"`
	Total int          `json:"total"`
}
