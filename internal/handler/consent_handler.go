package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service"
)

// ConsentHandler обрабатывает фиксацию подтверждений и сессии мастера согласий
type ConsentHandler struct {
	ackService    *service.AcknowledgmentService
	wizardService *service.WizardService
}

// NewConsentHandler создает новый обработчик согласий
func NewConsentHandler(
	ackService *service.AcknowledgmentService,
	wizardService *service.WizardService,
) *ConsentHandler {
	return &ConsentHandler{
		ackService:    ackService,
		wizardService: wizardService,
	}
}

// CaptureAcknowledgmentRequest представляет запрос на фиксацию одного подтверждения
type CaptureAcknowledgmentRequest struct {
	UserID               uint   `json:"user_id"`
	SessionID            string `json:"session_id"`
	DocumentID           uint   `json:"document_id"`
	FullLegalName        string `json:"full_legal_name"`
	SignatureData        string `json:"signature_data"`
	AcknowledgmentStatus string `json:"acknowledgment_status"`
	DeclineReason        string `json:"decline_reason"`
}

// toCaptureRequest дополняет запрос метаданными HTTP-запроса
func (r *CaptureAcknowledgmentRequest) toCaptureRequest(c *gin.Context) *service.CaptureRequest {
	return &service.CaptureRequest{
		UserID:               r.UserID,
		SessionID:            r.SessionID,
		DocumentID:           r.DocumentID,
		FullLegalName:        r.FullLegalName,
		SignatureData:        r.SignatureData,
		IPAddress:            c.ClientIP(),
		UserAgent:            c.Request.UserAgent(),
		AcknowledgmentStatus: r.AcknowledgmentStatus,
		DeclineReason:        r.DeclineReason,
	}
}

// Capture фиксирует решение пользователя по одному документу
func (h *ConsentHandler) Capture(c *gin.Context) {
	var req CaptureAcknowledgmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	result, err := h.ackService.Capture(c.Request.Context(), req.toCaptureRequest(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			// Конкретное сообщение валидации — до любых записей
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		// Сбои записи наружу уходят обобщенным сообщением
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record acknowledgment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"acknowledgment_id":   result.AcknowledgmentID,
		"signature_id":        result.SignatureID,
		"legal_consent_score": result.LegalConsentScore,
		"consent_completed":   result.ConsentCompleted,
	})
}

// CaptureBatchRequest представляет пакетную отправку мастера согласий
type CaptureBatchRequest struct {
	Requests []CaptureAcknowledgmentRequest `json:"requests" binding:"required,min=1"`
}

// CaptureBatch фиксирует решения по всем документам параллельно.
// Операция считается неуспешной целиком, если не удалась хотя бы одна фиксация.
func (h *ConsentHandler) CaptureBatch(c *gin.Context) {
	var req CaptureBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	requests := make([]*service.CaptureRequest, len(req.Requests))
	for i := range req.Requests {
		requests[i] = req.Requests[i].toCaptureRequest(c)
	}

	result := h.ackService.CaptureBatch(c.Request.Context(), requests)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

// ConsentStatus возвращает текущий балл согласия и флаг завершенности пользователя
func (h *ConsentHandler) ConsentStatus(c *gin.Context) {
	userID := c.GetUint("user_id_param")

	score, completed, err := h.ackService.ConsentStatus(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting consent status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":             userID,
		"legal_consent_score": score,
		"consent_completed":   completed,
	})
}

// StartWizardRequest представляет запрос на создание сессии мастера
type StartWizardRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// StartWizard создает сессию мастера согласий
func (h *ConsentHandler) StartWizard(c *gin.Context) {
	var req StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	session, err := h.wizardService.StartSession(req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error starting wizard"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetWizard возвращает состояние сессии мастера
func (h *ConsentHandler) GetWizard(c *gin.Context) {
	session, err := h.wizardService.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting wizard session"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// WizardEvent применяет событие ввода или навигации к сессии мастера
func (h *ConsentHandler) WizardEvent(c *gin.Context) {
	var event service.WizardEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event format"})
		return
	}

	session, err := h.wizardService.ApplyEvent(c.Param("id"), &event)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found or expired"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error applying wizard event"})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// WizardSubmit выполняет терминальную пакетную отправку мастера
func (h *ConsentHandler) WizardSubmit(c *gin.Context) {
	session, err := h.wizardService.Submit(
		c.Request.Context(),
		c.Param("id"),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found or expired"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error submitting wizard"})
		}
		return
	}

	status := http.StatusOK
	if session.Outcome != nil && !session.Outcome.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, session)
}
