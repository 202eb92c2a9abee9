package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/semalign/hub/internal/api/response"
	"github.com/semalign/hub/internal/models"
)

// SimilarityService defines the interface for similarity scoring logic.
type SimilarityService interface {
	ScoreAndStore(ctx context.Context, uid int64) (*models.Comparison, error)
	ScoreAndReport(ctx context.Context, uidA, uidB int64) (*models.SimilarityReport, error)
	List(ctx context.Context, uid int64, limit int) (*models.ListComparisonsResponse, error)
}

// ComparisonsHandler handles HTTP requests for similarity comparisons.
type ComparisonsHandler struct {
	service SimilarityService
}

// NewComparisonsHandler creates a new comparisons handler.
func NewComparisonsHandler(service SimilarityService) *ComparisonsHandler {
	return &ComparisonsHandler{service: service}
}

// Create handles POST /v1/respondents/{uid}/comparisons. It scores the
// respondent against the configured reference respondent and stores the result.
func (h *ComparisonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r, "uid")
	if err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	comparison, err := h.service.ScoreAndStore(r.Context(), uid)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusCreated, comparison)
}

// Similarity handles GET /v1/respondents/{uid}/similarity/{other}: an ad hoc
// two-way comparison that is returned but never stored.
func (h *ComparisonsHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	uid, err := parseUID(r, "uid")
	if err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	other, err := parseUID(r, "other")
	if err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	report, err := h.service.ScoreAndReport(r.Context(), uid, other)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// List handles GET /v1/comparisons with optional uid and limit filters.
func (h *ComparisonsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var uid int64

	if raw := query.Get("uid"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			response.RespondBadRequest(w, "uid must be a positive integer")

			return
		}

		uid = parsed
	}

	limit, _ := parseListParams(r)

	resp, err := h.service.List(r.Context(), uid, limit)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
