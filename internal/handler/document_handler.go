package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service"
)

// DocumentHandler обрабатывает запросы реестра юридических документов
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler создает новый обработчик реестра документов
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// GetActiveDocuments возвращает все активные документы
func (h *DocumentHandler) GetActiveDocuments(c *gin.Context) {
	docs, err := h.documentService.GetActiveDocuments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting legal documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// GetDocumentByType возвращает активный документ указанного типа
func (h *DocumentHandler) GetDocumentByType(c *gin.Context) {
	docType := c.Param("type")

	doc, err := h.documentService.GetDocumentByType(docType)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active document of this type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting legal document"})
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetLatestVersion возвращает документ типа с наибольшей семантической версией
func (h *DocumentHandler) GetLatestVersion(c *gin.Context) {
	docType := c.Param("type")

	doc, err := h.documentService.GetLatestVersion(docType)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No documents of this type"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting latest version"})
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CheckVersionsRequest — принятые пользователем версии по типам документов
type CheckVersionsRequest struct {
	AcceptedVersions map[string]string `json:"accepted_versions" binding:"required"`
}

// CheckVersions возвращает активные документы, требующие (повторного) принятия
func (h *DocumentHandler) CheckVersions(c *gin.Context) {
	var req CheckVersionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accepted_versions is required"})
		return
	}

	docs, err := h.documentService.CheckForNewVersions(req.AcceptedVersions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error checking document versions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// PublishDocumentRequest представляет запрос на публикацию новой версии документа
type PublishDocumentRequest struct {
	DocumentType  string    `json:"document_type" binding:"required"`
	Version       string    `json:"version" binding:"required"`
	Title         string    `json:"title" binding:"required,min=3,max=200"`
	Content       string    `json:"content" binding:"required"`
	EffectiveDate time.Time `json:"effective_date" binding:"required"`
}

// PublishDocument публикует новую версию документа (admin)
func (h *DocumentHandler) PublishDocument(c *gin.Context) {
	var req PublishDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc := &entity.LegalDocument{
		DocumentType:  req.DocumentType,
		Version:       req.Version,
		Title:         req.Title,
		Content:       req.Content,
		EffectiveDate: req.EffectiveDate,
	}

	if err := h.documentService.PublishDocument(doc); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error publishing document"})
		}
		return
	}
	c.JSON(http.StatusCreated, doc)
}
