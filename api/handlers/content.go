package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

type ContentHandler struct {
	service content.ContentProcessor
	logger  logger.Logger
}

// ProcessURLRequest is the JSON body for URL-based processing.
type ProcessURLRequest struct {
	URL           string   `json:"url" binding:"required"`
	MaterialTypes []string `json:"material_types"`
	Language      string   `json:"language"`
}

// ProcessResponse acknowledges an accepted job.
type ProcessResponse struct {
	ContentID string `json:"content_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewContentHandler(service content.ContentProcessor, log logger.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  log,
	}
}

// ProcessURL accepts a URL source (YouTube, web article) for
// processing.
func (h *ContentHandler) ProcessURL(c *gin.Context) {
	var req ProcessURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	materialTypes, err := parseMaterialTypes(req.MaterialTypes)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid material types", err)
		return
	}

	contentID, err := h.service.Process(c.Request.Context(), &content.ProcessRequest{
		Source:        req.URL,
		MaterialTypes: materialTypes,
		Language:      req.Language,
	})
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to process content", err)
		return
	}

	c.JSON(http.StatusAccepted, ProcessResponse{
		ContentID: contentID,
		Status:    string(models.StatusQueued),
		Message:   "Content processing started",
	})
}

// ProcessUpload accepts a file upload (PDF, Word, text) for processing.
func (h *ContentHandler) ProcessUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	materialTypes, err := parseMaterialTypes(splitCSV(c.PostForm("material_types")))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid material types", err)
		return
	}

	contentID, err := h.service.ProcessUpload(
		c.Request.Context(),
		file,
		header,
		materialTypes,
		c.PostForm("language"),
	)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to process upload", err)
		return
	}

	c.JSON(http.StatusAccepted, ProcessResponse{
		ContentID: contentID,
		Status:    string(models.StatusQueued),
		Message:   "Content processing started",
	})
}

// GetStatus returns the live progress record for a job.
func (h *ContentHandler) GetStatus(c *gin.Context) {
	contentID := c.Param("contentId")

	record, err := h.service.GetProgress(c.Request.Context(), contentID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get status", err)
		return
	}
	if record == nil {
		h.handleError(c, http.StatusNotFound, "Content not found", nil)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetContent returns the finished artifact.
func (h *ContentHandler) GetContent(c *gin.Context) {
	contentID := c.Param("contentId")

	artifact := h.service.GetContent(contentID)
	if artifact == nil {
		h.handleError(c, http.StatusNotFound, "Content not found", nil)
		return
	}

	c.JSON(http.StatusOK, artifact)
}

// GetLibrary lists all stored artifacts, newest first.
func (h *ContentHandler) GetLibrary(c *gin.Context) {
	summaries := h.service.List()
	c.JSON(http.StatusOK, gin.H{
		"total_content": len(summaries),
		"content":       summaries,
	})
}

// Search runs a ranked text search over the library.
func (h *ContentHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		h.handleError(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid search filters", err)
		return
	}

	results := h.service.Search(query, &filters)
	c.JSON(http.StatusOK, gin.H{
		"query":         query,
		"total_results": len(results),
		"results":       results,
	})
}

// GetMaterial returns a single learning material by id.
func (h *ContentHandler) GetMaterial(c *gin.Context) {
	materialID := c.Param("materialId")

	material := h.service.GetMaterial(materialID)
	if material == nil {
		h.handleError(c, http.StatusNotFound, "Material not found", nil)
		return
	}

	c.JSON(http.StatusOK, material)
}

// DeleteContent removes an artifact and its progress record.
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	contentID := c.Param("contentId")

	if err := h.service.Delete(c.Request.Context(), contentID); err != nil {
		h.handleError(c, http.StatusNotFound, "Content not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Content deleted successfully",
		"content_id": contentID,
	})
}

// GetStats returns library-wide aggregates.
func (h *ContentHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats(c.Request.Context()))
}

// HealthCheck is the liveness endpoint.
func (h *ContentHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "content-pipeline",
	})
}

func (h *ContentHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}

func parseMaterialTypes(raw []string) ([]models.MaterialType, error) {
	types := make([]models.MaterialType, 0, len(raw))
	for _, s := range raw {
		t := models.MaterialType(strings.TrimSpace(s))
		if t == "" {
			continue
		}
		if !t.Valid() {
			return nil, &invalidMaterialTypeError{value: string(t)}
		}
		types = append(types, t)
	}
	return types, nil
}

type invalidMaterialTypeError struct {
	value string
}

func (e *invalidMaterialTypeError) Error() string {
	return "unsupported material type: " + e.value
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
