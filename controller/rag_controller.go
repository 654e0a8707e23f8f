package controller

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ragagent/models"
	"ragagent/services"
)

// RAGController handles the HTTP requests for the RAG API. It depends on the
// RAGService for orchestration and the DocumentStore for the upload
// directory.
type RAGController struct {
	ragService  services.RAGService
	docStore    *services.DocumentStore
	maxFileSize int64
}

// NewRAGController is a constructor function that creates a new
// RAGController. This is called from main.go to inject the dependencies.
func NewRAGController(ragService services.RAGService, docStore *services.DocumentStore, maxFileSize int64) *RAGController {
	return &RAGController{
		ragService:  ragService,
		docStore:    docStore,
		maxFileSize: maxFileSize,
	}
}

// notReady replies 503 when the orchestrator was never constructed.
func (c *RAGController) notReady(ctx *gin.Context) bool {
	if c.ragService == nil {
		ctx.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "RAG engine not initialized"})
		return true
	}
	return false
}

// Root is the Gin handler for GET /: a small service descriptor.
func (c *RAGController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "AI RAG Agent API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":    "/health",
			"upload":    "/upload",
			"query":     "/query",
			"chat":      "/chat",
			"documents": "/documents",
			"clear":     "/clear",
			"stats":     "/stats",
		},
	})
}

// HealthCheck is the Gin handler for GET /health.
func (c *RAGController) HealthCheck(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	health := c.ragService.Health(ctx.Request.Context())
	stats, err := c.ragService.Stats(ctx.Request.Context())
	model := "unknown"
	if err == nil {
		model = stats.Model
	}

	status := "degraded"
	if health.LLMConnected && health.StoreConnected {
		status = "healthy"
	}
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:         status,
		LLMConnected:   health.LLMConnected,
		StoreConnected: health.StoreConnected,
		Model:          model,
		LLMError:       health.LLMError,
		StoreError:     health.StoreError,
	})
}

// UploadDocument is the Gin handler for POST /upload. It validates the
// multipart file, stores it in the upload directory and ingests it.
func (c *RAGController) UploadDocument(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing multipart field 'file': " + err.Error()})
		return
	}

	if fileHeader.Size > c.maxFileSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: fmt.Sprintf("File size exceeds maximum allowed size of %d bytes", c.maxFileSize),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !services.IsSupportedFile(fileHeader.Filename) {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("File type %s not supported. Allowed types: %v", ext, services.SupportedExtensions()),
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read uploaded file: " + err.Error()})
		return
	}
	defer src.Close()

	path, err := c.docStore.Save(fileHeader.Filename, src)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to store uploaded file: " + err.Error()})
		return
	}

	result, err := c.ragService.Ingest(ctx.Request.Context(), []string{path})
	if err != nil {
		// Compensate: the stored file is useless without its chunks.
		c.docStore.Remove(fileHeader.Filename)
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error processing document: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, models.UploadResponse{
		Success: true,
		Message: fmt.Sprintf("Document '%s' uploaded and processed successfully", filepath.Base(fileHeader.Filename)),
		Document: &models.DocumentInfo{
			Filename:   filepath.Base(fileHeader.Filename),
			Size:       fileHeader.Size,
			UploadTime: time.Now().Format(time.RFC3339),
			NumChunks:  result.NumChunks,
		},
	})
}

// QueryDocuments is the Gin handler for POST /query.
func (c *RAGController) QueryDocuments(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.TopK == 0 {
		req.TopK = 3
	}

	response := c.ragService.Query(ctx.Request.Context(), req.Query, req.TopK, nil)
	ctx.JSON(http.StatusOK, response)
}

// ChatWithContext is the Gin handler for POST /chat: a query plus prior
// conversation turns.
func (c *RAGController) ChatWithContext(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.TopK == 0 {
		req.TopK = 3
	}

	response := c.ragService.Query(ctx.Request.Context(), req.Query, req.TopK, req.History)
	ctx.JSON(http.StatusOK, response)
}

// ListDocuments is the Gin handler for GET /documents.
func (c *RAGController) ListDocuments(ctx *gin.Context) {
	documents, err := c.docStore.List()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error listing documents: " + err.Error()})
		return
	}

	totalChunks := 0
	if c.ragService != nil {
		if stats, err := c.ragService.Stats(ctx.Request.Context()); err == nil {
			totalChunks = stats.NumChunks
		}
	}

	ctx.JSON(http.StatusOK, models.DocumentListResponse{
		Documents:      documents,
		TotalDocuments: len(documents),
		TotalChunks:    totalChunks,
	})
}

// DeleteDocument is the Gin handler for DELETE /documents/:filename. It
// removes one uploaded file and the chunks derived from it.
func (c *RAGController) DeleteDocument(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	filename := ctx.Param("filename")
	if !c.docStore.Exists(filename) {
		ctx.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Document '%s' not found", filepath.Base(filename))})
		return
	}

	if err := c.ragService.RemoveDocument(ctx.Request.Context(), filename); err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error removing document chunks: " + err.Error()})
		return
	}
	if err := c.docStore.Remove(filename); err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error deleting document: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, models.DeleteResponse{
		Success:      true,
		Message:      fmt.Sprintf("Document '%s' deleted successfully", filepath.Base(filename)),
		DeletedCount: 1,
	})
}

// ClearAllDocuments is the Gin handler for DELETE /clear. It resets the
// vector store and empties the upload directory.
func (c *RAGController) ClearAllDocuments(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	if err := c.ragService.Clear(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to clear index: " + err.Error()})
		return
	}

	deleted, err := c.docStore.Clear()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error clearing documents: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, models.DeleteResponse{
		Success:      true,
		Message:      "All documents cleared successfully",
		DeletedCount: deleted,
	})
}

// GetStats is the Gin handler for GET /stats.
func (c *RAGController) GetStats(ctx *gin.Context) {
	if c.notReady(ctx) {
		return
	}

	stats, err := c.ragService.Stats(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error getting stats: " + err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
