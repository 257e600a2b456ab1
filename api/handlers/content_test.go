package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

// fakeService is a canned ContentProcessor for handler tests.
type fakeService struct {
	progressRecord *models.ProcessingProgress
	artifact       *models.ProcessedContent
	material       *models.LearningMaterial
	summaries      []models.ContentSummary
	searchResults  []models.SearchResult
	processErr     error
	deleteErr      error

	lastRequest *content.ProcessRequest
}

func (f *fakeService) Process(ctx context.Context, req *content.ProcessRequest) (string, error) {
	f.lastRequest = req
	if f.processErr != nil {
		return "", f.processErr
	}
	return "abc123def456", nil
}

func (f *fakeService) ProcessUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, materialTypes []models.MaterialType, language string) (string, error) {
	if f.processErr != nil {
		return "", f.processErr
	}
	return "abc123def456", nil
}

func (f *fakeService) Run(ctx context.Context, job *content.Job) error { return nil }

func (f *fakeService) GetProgress(ctx context.Context, contentID string) (*models.ProcessingProgress, error) {
	return f.progressRecord, nil
}

func (f *fakeService) GetContent(contentID string) *models.ProcessedContent { return f.artifact }

func (f *fakeService) GetMaterial(materialID string) *models.LearningMaterial { return f.material }

func (f *fakeService) List() []models.ContentSummary { return f.summaries }

func (f *fakeService) Search(query string, filters *models.SearchFilters) []models.SearchResult {
	return f.searchResults
}

func (f *fakeService) Delete(ctx context.Context, contentID string) error { return f.deleteErr }

func (f *fakeService) Stats(ctx context.Context) models.LibraryStats {
	return models.LibraryStats{TotalContent: 2, TotalMaterials: 5}
}

func (f *fakeService) Cleanup(ctx context.Context) error { return nil }

func newTestRouter(svc content.ContentProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContentHandler(svc, logger.NewTestLogger())

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/health", h.HealthCheck)
	c := v1.Group("/content")
	c.POST("/process/url", h.ProcessURL)
	c.GET("/status/:contentId", h.GetStatus)
	c.GET("/library", h.GetLibrary)
	c.GET("/search", h.Search)
	c.GET("/material/:materialId", h.GetMaterial)
	c.GET("/stats", h.GetStats)
	c.GET("/:contentId", h.GetContent)
	c.DELETE("/:contentId", h.DeleteContent)
	return r
}

func TestProcessURLAccepted(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	body := `{"url": "https://youtu.be/dQw4w9WgXcQ", "material_types": ["summary", "quiz"], "language": "en"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/process/url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123def456", resp.ContentID)
	assert.Equal(t, "queued", resp.Status)

	require.NotNil(t, svc.lastRequest)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", svc.lastRequest.Source)
	assert.Equal(t, []models.MaterialType{models.MaterialSummary, models.MaterialQuiz}, svc.lastRequest.MaterialTypes)
	assert.Equal(t, "en", svc.lastRequest.Language)
}

func TestProcessURLRejectsMissingURL(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/process/url", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessURLRejectsBadMaterialType(t *testing.T) {
	r := newTestRouter(&fakeService{})

	body := `{"url": "https://example.com", "material_types": ["poster"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/process/url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStatus(t *testing.T) {
	svc := &fakeService{progressRecord: &models.ProcessingProgress{
		ContentID:          "abc123def456",
		Status:             models.StatusGenerating,
		CurrentStep:        "Generating learning materials",
		ProgressPercentage: 50,
		CreatedAt:          time.Now(),
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/status/abc123def456", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var record models.ProcessingProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, models.StatusGenerating, record.Status)
	assert.Equal(t, 50, record.ProgressPercentage)
}

func TestGetStatusNotFound(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/status/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetContentNotFound(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLibrary(t *testing.T) {
	svc := &fakeService{summaries: []models.ContentSummary{
		{ContentID: "a", Title: "Lesson A"},
		{ContentID: "b", Title: "Lesson B"},
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/library", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalContent int                     `json:"total_content"`
		Content      []models.ContentSummary `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalContent)
	assert.Len(t, resp.Content, 2)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	svc := &fakeService{searchResults: []models.SearchResult{
		{ContentID: "a", Title: "Spanish Grammar", RelevanceScore: 1.7},
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/search?q=spanish&difficulty_level=beginner", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Query        string                `json:"query"`
		TotalResults int                   `json:"total_results"`
		Results      []models.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "spanish", resp.Query)
	assert.Equal(t, 1, resp.TotalResults)
}

func TestDeleteContent(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/content/abc123def456", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteContentNotFound(t *testing.T) {
	r := newTestRouter(&fakeService{deleteErr: fmt.Errorf("content not found: nope")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/content/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.LibraryStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalContent)
	assert.Equal(t, 5, stats.TotalMaterials)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
