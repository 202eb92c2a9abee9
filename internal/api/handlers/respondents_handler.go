package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/semalign/hub/internal/api/response"
	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// RespondentsService defines the interface for respondent business logic.
type RespondentsService interface {
	Create(ctx context.Context, req *models.CreateRespondentRequest) (*models.Respondent, error)
	GetByUID(ctx context.Context, uid int64) (*models.Respondent, error)
	List(ctx context.Context, limit, offset int) (*models.ListRespondentsResponse, error)
}

// RespondentsHandler handles HTTP requests for respondents.
type RespondentsHandler struct {
	service RespondentsService
}

// NewRespondentsHandler creates a new respondents handler.
func NewRespondentsHandler(service RespondentsService) *RespondentsHandler {
	return &RespondentsHandler{service: service}
}

// parseUID parses a path value as a respondent uid.
func parseUID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, apperrors.NewValidationError(name, name+" is required")
	}

	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || uid <= 0 {
		return 0, apperrors.NewValidationError(name, name+" must be a positive integer")
	}

	return uid, nil
}

// respondServiceError maps service errors onto HTTP problem responses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		response.RespondBadRequest(w, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondNotFound(w, err.Error())
	case errors.Is(err, apperrors.ErrExternalService):
		response.RespondBadGateway(w, "Embedding provider is unavailable")
	default:
		response.RespondInternalServerError(w, "An unexpected error occurred")
	}
}

// Create handles POST /v1/respondents.
func (h *RespondentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRespondentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	respondent, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusCreated, respondent)
}

// Get handles GET /v1/respondents/{uid}.
func (h *RespondentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r, "uid")
	if err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	respondent, err := h.service.GetByUID(r.Context(), uid)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, respondent)
}

// maxListLimit caps the page size for list endpoints.
const maxListLimit = 1000

// parseListParams reads limit and offset query parameters.
func parseListParams(r *http.Request) (limit, offset int) {
	query := r.URL.Query()

	if raw := query.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = min(v, maxListLimit)
		}
	}

	if raw := query.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	return limit, offset
}

// List handles GET /v1/respondents.
func (h *RespondentsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r)

	resp, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
