package models

import "time"

// CustomQuestion is an ad hoc one-off question with a human answer, a
// model-generated reference answer, and their similarity. Independent of the
// respondent lifecycle; append-only.
type CustomQuestion struct {
	ID              int64     `json:"id"`
	Question        string    `json:"question"`
	HumanAnswer     string    `json:"human_answer"`
	ReferenceAnswer string    `json:"reference_answer"`
	Similarity      float64   `json:"similarity"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateCustomQuestionRequest represents the request for the ask-custom flow.
type CreateCustomQuestionRequest struct {
	Question    string `json:"question"`
	HumanAnswer string `json:"human_answer"`
}

// ListCustomQuestionsResponse represents the response for listing custom questions.
type ListCustomQuestionsResponse struct {
	Data  []CustomQuestion `json:"data"`
	Total int              `json:"total"`
}
