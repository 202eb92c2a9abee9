package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// mockRespondentsService mocks RespondentsService for handler tests.
type mockRespondentsService struct {
	createFunc func(ctx context.Context, req *models.CreateRespondentRequest) (*models.Respondent, error)
	getFunc    func(ctx context.Context, uid int64) (*models.Respondent, error)
	listFunc   func(ctx context.Context, limit, offset int) (*models.ListRespondentsResponse, error)
}

func (m *mockRespondentsService) Create(ctx context.Context, req *models.CreateRespondentRequest) (*models.Respondent, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}

	return &models.Respondent{UID: 1}, nil
}

func (m *mockRespondentsService) GetByUID(ctx context.Context, uid int64) (*models.Respondent, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, uid)
	}

	return &models.Respondent{UID: uid}, nil
}

func (m *mockRespondentsService) List(ctx context.Context, limit, offset int) (*models.ListRespondentsResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}

	return &models.ListRespondentsResponse{Data: []models.Respondent{}}, nil
}

func TestRespondentsHandler_Create(t *testing.T) {
	t.Run("created respondent returns 201", func(t *testing.T) {
		mock := &mockRespondentsService{
			createFunc: func(_ context.Context, req *models.CreateRespondentRequest) (*models.Respondent, error) {
				assert.Equal(t, "Alex", req.Name)

				return &models.Respondent{UID: 7, Name: req.Name}, nil
			},
		}
		h := NewRespondentsHandler(mock)

		body := `{"name":"Alex","age":"29","gender":"Male","ethnicity":"Hispanic",` +
			`"education":"Bachelor's Degree","income":"$40,000 - $49,999",` +
			`"answers":["a","b","c","d","e","f","g","h"]}`

		req := httptest.NewRequest(http.MethodPost, "http://test/v1/respondents", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp models.Respondent

		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.UID)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h := NewRespondentsHandler(&mockRespondentsService{})

		req := httptest.NewRequest(http.MethodPost, "http://test/v1/respondents", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("validation error returns 400", func(t *testing.T) {
		mock := &mockRespondentsService{
			createFunc: func(_ context.Context, _ *models.CreateRespondentRequest) (*models.Respondent, error) {
				return nil, apperrors.NewValidationError("answers", "exactly 8 answers are required, got 2")
			},
		}
		h := NewRespondentsHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "http://test/v1/respondents", strings.NewReader(`{"answers":["a","b"]}`))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "exactly 8 answers")
	})

	t.Run("provider failure returns 502", func(t *testing.T) {
		mock := &mockRespondentsService{
			createFunc: func(_ context.Context, _ *models.CreateRespondentRequest) (*models.Respondent, error) {
				return nil, apperrors.NewExternalServiceError("embedding", "provider call failed after retries", nil)
			},
		}
		h := NewRespondentsHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "http://test/v1/respondents", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRespondentsHandler_Get(t *testing.T) {
	t.Run("unknown uid returns 404", func(t *testing.T) {
		mock := &mockRespondentsService{
			getFunc: func(_ context.Context, _ int64) (*models.Respondent, error) {
				return nil, apperrors.NewNotFoundError("respondent", "respondent not found")
			},
		}
		h := NewRespondentsHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/respondents/42", http.NoBody)
		req.SetPathValue("uid", "42")

		rec := httptest.NewRecorder()

		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric uid returns 400", func(t *testing.T) {
		h := NewRespondentsHandler(&mockRespondentsService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/respondents/abc", http.NoBody)
		req.SetPathValue("uid", "abc")

		rec := httptest.NewRecorder()

		h.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRespondentsHandler_List(t *testing.T) {
	t.Run("passes limit and offset to the service", func(t *testing.T) {
		var gotLimit, gotOffset int

		mock := &mockRespondentsService{
			listFunc: func(_ context.Context, limit, offset int) (*models.ListRespondentsResponse, error) {
				gotLimit = limit
				gotOffset = offset

				return &models.ListRespondentsResponse{Data: []models.Respondent{}, Total: 0}, nil
			},
		}
		h := NewRespondentsHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/respondents?limit=10&offset=20", http.NoBody)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, gotLimit)
		assert.Equal(t, 20, gotOffset)
	})

	t.Run("limit is capped", func(t *testing.T) {
		var gotLimit int

		mock := &mockRespondentsService{
			listFunc: func(_ context.Context, limit, _ int) (*models.ListRespondentsResponse, error) {
				gotLimit = limit

				return &models.ListRespondentsResponse{Data: []models.Respondent{}}, nil
			},
		}
		h := NewRespondentsHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/respondents?limit=99999", http.NoBody)
		rec := httptest.NewRecorder()

		h.List(rec, req)

		assert.Equal(t, maxListLimit, gotLimit)
	})
}
