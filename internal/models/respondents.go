package models

import "time"

// SlotCount is the number of fixed survey questions.
const SlotCount = 8

// Questions holds the canonical prompt for each slot, indexed slot-1.
var Questions = [SlotCount]string{
	`What does the phrase: "Actions speak louder than words" mean?`,
	"What makes someone a good leader?",
	"What are some red flags that indicate someone is untrustworthy?",
	"What does it mean to be successful?",
	"What does it mean to be happy?",
	"Imagine you lost something valuable to you. What would you do?",
	"Complete the prompt: The electrician was...",
	"Billy walked into his kitchen and saw a broken glass on the floor. What do you think happened?",
}

// ListQuestionsResponse represents the response for listing the fixed
// survey questions, ordered by slot.
type ListQuestionsResponse struct {
	Data  []string `json:"data"`
	Total int      `json:"total"`
}

// Respondent is one survey submission. uid is assigned once at creation and
// never changes; the record is never mutated or deleted.
type Respondent struct {
	UID       int64     `json:"uid"`
	Name      string    `json:"name"`
	Age       string    `json:"age"`
	Gender    string    `json:"gender"`
	Ethnicity string    `json:"ethnicity"`
	Education string    `json:"education"`
	Income    string    `json:"income"`
	// Answers holds the eight answer texts, indexed slot-1.
	Answers   [SlotCount]string `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateRespondentRequest represents the request to create a respondent.
type CreateRespondentRequest struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Gender    string   `json:"gender"`
	Ethnicity string   `json:"ethnicity"`
	Education string   `json:"education"`
	Income    string   `json:"income"`
	Answers   []string `json:"answers"`
}

// ListRespondentsResponse represents the response for listing respondents.
type ListRespondentsResponse struct {
	Data  []Respondent `json:"data"`
	Total int64        `json:"total"`
}
