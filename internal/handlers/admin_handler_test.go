package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// MockPipelineService is a mock implementation of PipelineService for testing
type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) Trigger(params services.TriggerParams) error {
	return m.Called(params).Error(0)
}

func (m *MockPipelineService) Status() services.PipelineStatus {
	return m.Called().Get(0).(services.PipelineStatus)
}

func setupAdminRouter(service services.PipelineService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAdminHandler(service)
	router.POST("/api/v1/admin/pipeline/run", handler.Trigger)
	router.GET("/api/v1/admin/pipeline/status", handler.Status)
	return router
}

func TestAdminTrigger_Accepted(t *testing.T) {
	mockService := new(MockPipelineService)
	router := setupAdminRouter(mockService)

	mockService.On("Trigger", services.TriggerParams{
		Extractor:   "evictions",
		FullRefresh: true,
	}).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/pipeline/run",
		strings.NewReader(`{"extractor":"evictions","fullRefresh":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	mockService.AssertExpectations(t)
}

func TestAdminTrigger_EmptyBodyMeansFullRun(t *testing.T) {
	mockService := new(MockPipelineService)
	router := setupAdminRouter(mockService)

	mockService.On("Trigger", services.TriggerParams{}).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/pipeline/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestAdminTrigger_BusyConflicts(t *testing.T) {
	mockService := new(MockPipelineService)
	router := setupAdminRouter(mockService)

	mockService.On("Trigger", mock.Anything).Return(services.ErrPipelineBusy)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/pipeline/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminStatus(t *testing.T) {
	mockService := new(MockPipelineService)
	router := setupAdminRouter(mockService)

	mockService.On("Status").Return(services.PipelineStatus{Running: true, Target: "all"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/pipeline/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"running":true`)
}
