package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semalign/hub/internal/models"
)

func TestQuestionsHandler_List(t *testing.T) {
	h := NewQuestionsHandler()

	req := httptest.NewRequest(http.MethodGet, "http://test/v1/questions", http.NoBody)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.ListQuestionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, models.SlotCount, resp.Total)
	require.Len(t, resp.Data, models.SlotCount)
	assert.Equal(t, models.Questions[0], resp.Data[0])
	assert.Equal(t, models.Questions[models.SlotCount-1], resp.Data[models.SlotCount-1])
}
