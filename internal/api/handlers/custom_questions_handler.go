package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/semalign/hub/internal/api/response"
	"github.com/semalign/hub/internal/models"
)

// CustomQuestionsService defines the interface for the ask-custom flow.
type CustomQuestionsService interface {
	Ask(ctx context.Context, req *models.CreateCustomQuestionRequest) (*models.CustomQuestion, error)
	List(ctx context.Context, limit int) (*models.ListCustomQuestionsResponse, error)
}

// CustomQuestionsHandler handles HTTP requests for custom questions.
type CustomQuestionsHandler struct {
	service CustomQuestionsService
}

// NewCustomQuestionsHandler creates a new custom questions handler.
func NewCustomQuestionsHandler(service CustomQuestionsService) *CustomQuestionsHandler {
	return &CustomQuestionsHandler{service: service}
}

// Create handles POST /v1/custom-questions.
func (h *CustomQuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	question, err := h.service.Ask(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusCreated, question)
}

// List handles GET /v1/custom-questions.
func (h *CustomQuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := parseListParams(r)

	resp, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
