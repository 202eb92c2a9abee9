package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/semalign/hub/internal/api/response"
	"github.com/semalign/hub/internal/models"
	"github.com/semalign/hub/internal/repository"
)

// DemographicsService defines the interface for demographic aggregation logic.
type DemographicsService interface {
	Summary(ctx context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error)
}

// DemographicsHandler handles HTTP requests for demographic summaries.
type DemographicsHandler struct {
	service      DemographicsService
	defaultFloor float64
}

// NewDemographicsHandler creates a new demographics handler. defaultFloor
// applies when the request does not override it.
func NewDemographicsHandler(service DemographicsService, defaultFloor float64) *DemographicsHandler {
	return &DemographicsHandler{service: service, defaultFloor: defaultFloor}
}

// Summary handles GET /v1/demographics/summary?field=total&floor=0.
func (h *DemographicsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	field := query.Get("field")
	if field == "" {
		field = "total"
	}

	if _, err := repository.SummaryColumn(field); err != nil {
		response.RespondBadRequest(w, err.Error())

		return
	}

	floor := h.defaultFloor

	if raw := query.Get("floor"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RespondBadRequest(w, "floor must be a number")

			return
		}

		floor = parsed
	}

	resp, err := h.service.Summary(r.Context(), field, floor)
	if err != nil {
		respondServiceError(w, err)

		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
