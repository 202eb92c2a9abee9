package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semalign/hub/internal/models"
)

// mockDemographicsService mocks DemographicsService for handler tests.
type mockDemographicsService struct {
	summaryFunc func(ctx context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error)
}

func (m *mockDemographicsService) Summary(ctx context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, field, floor)
	}

	return &models.DemographicsSummaryResponse{Field: field, Floor: floor}, nil
}

func TestDemographicsHandler_Summary(t *testing.T) {
	t.Run("defaults to total and the configured floor", func(t *testing.T) {
		var (
			gotField string
			gotFloor float64
		)

		mock := &mockDemographicsService{
			summaryFunc: func(_ context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error) {
				gotField = field
				gotFloor = floor

				return &models.DemographicsSummaryResponse{Field: field, Floor: floor}, nil
			},
		}
		h := NewDemographicsHandler(mock, 0.1)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/demographics/summary", http.NoBody)
		rec := httptest.NewRecorder()

		h.Summary(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "total", gotField)
		assert.InDelta(t, 0.1, gotFloor, 1e-9)
	})

	t.Run("accepts a per-question field and floor override", func(t *testing.T) {
		var (
			gotField string
			gotFloor float64
		)

		mock := &mockDemographicsService{
			summaryFunc: func(_ context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error) {
				gotField = field
				gotFloor = floor

				return &models.DemographicsSummaryResponse{Field: field, Floor: floor}, nil
			},
		}
		h := NewDemographicsHandler(mock, 0)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/demographics/summary?field=q3&floor=0.25", http.NoBody)
		rec := httptest.NewRecorder()

		h.Summary(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "q3", gotField)
		assert.InDelta(t, 0.25, gotFloor, 1e-9)
	})

	t.Run("unknown field returns 400", func(t *testing.T) {
		h := NewDemographicsHandler(&mockDemographicsService{}, 0)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/demographics/summary?field=bogus", http.NoBody)
		rec := httptest.NewRecorder()

		h.Summary(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric floor returns 400", func(t *testing.T) {
		h := NewDemographicsHandler(&mockDemographicsService{}, 0)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/demographics/summary?floor=high", http.NoBody)
		rec := httptest.NewRecorder()

		h.Summary(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
