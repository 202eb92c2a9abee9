package handlers

import (
	"net/http"

	"github.com/semalign/hub/internal/api/response"
	"github.com/semalign/hub/internal/models"
)

// QuestionsHandler serves the fixed survey prompts so the presentation layer
// renders the same questions the stored answers were collected against.
type QuestionsHandler struct{}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler() *QuestionsHandler {
	return &QuestionsHandler{}
}

// List handles GET /v1/questions.
func (h *QuestionsHandler) List(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, &models.ListQuestionsResponse{
		Data:  models.Questions[:],
		Total: models.SlotCount,
	})
}
