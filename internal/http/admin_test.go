package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-registration-bot/internal/features/registration/models"
	adminhttp "giveaway-registration-bot/internal/http"
)

type stubRepo struct {
	count int
}

func (s *stubRepo) Find(ctx context.Context, telegramID int64) (*models.Participant, error) {
	return nil, nil
}

func (s *stubRepo) Append(ctx context.Context, p *models.Participant) error {
	return nil
}

func (s *stubRepo) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

func newTestRouter(repo *stubRepo, participantsFile string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := adminhttp.NewAdminHandler(repo, participantsFile)
	return adminhttp.NewRouter(handler, "*", false)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubRepo{}, "participants.xlsx")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestParticipantsCount(t *testing.T) {
	router := newTestRouter(&stubRepo{count: 3}, "participants.xlsx")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/api/v1/participants/count", nil))

	require.Equal(t, nethttp.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body["count"])
}

func TestExportMissingFile(t *testing.T) {
	router := newTestRouter(&stubRepo{}, filepath.Join(t.TempDir(), "participants.xlsx"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/api/v1/participants/export", nil))

	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestExportServesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("workbook-bytes"), 0o644))
	router := newTestRouter(&stubRepo{count: 1}, path)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/api/v1/participants/export", nil))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "participants.xlsx")
	assert.Equal(t, "workbook-bytes", rec.Body.String())
}
