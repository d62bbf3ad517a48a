package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/ezcall100/logistics-lynx-api/internal/handler/dto"
	"github.com/ezcall100/logistics-lynx-api/internal/handler/helper"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service"
	ws "github.com/ezcall100/logistics-lynx-api/internal/websocket"
)

// AuditHandler обрабатывает запросы портала аудита (только чтение)
type AuditHandler struct {
	auditService *service.AuditService
	auditFeed    *ws.Hub
}

// NewAuditHandler создает новый обработчик портала аудита
func NewAuditHandler(auditService *service.AuditService, auditFeed *ws.Hub) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		auditFeed:    auditFeed,
	}
}

// parseListParams читает фильтр и сортировку из query-параметров
func parseListParams(c *gin.Context) (service.AuditFilter, service.AuditSort, error) {
	filter := service.AuditFilter{
		Query:  c.Query("q"),
		Status: c.DefaultQuery("status", service.AuditStatusAll),
	}

	sortBy := service.AuditSort{
		Field: c.Query("sort_by"),
		Desc:  c.DefaultQuery("order", "asc") == "desc",
	}
	if err := service.ValidateSortField(sortBy.Field); err != nil {
		return filter, sortBy, err
	}
	return filter, sortBy, nil
}

// ListRollups возвращает сводки аудита с фильтром и сортировкой
func (h *AuditHandler) ListRollups(c *gin.Context) {
	filter, sortBy, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.auditService.ListRollups(filter, sortBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting audit records"})
		return
	}

	c.JSON(http.StatusOK, dto.RollupListResponse{
		Records: records,
		Total:   len(records),
	})
}

// UserDetail возвращает сводку и подтверждения одного пользователя
func (h *AuditHandler) UserDetail(c *gin.Context) {
	userID := c.GetUint("user_id_param")

	detail, err := h.auditService.UserDetail(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No audit records for this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting audit detail"})
		return
	}

	c.JSON(http.StatusOK, dto.UserAuditDetailResponse{
		Summary:         detail.Summary,
		Acknowledgments: helper.ConvertAcknowledgmentsToDetails(detail.Acknowledgments),
	})
}

// ExportRollups выгружает сводки аудита в Excel
func (h *AuditHandler) ExportRollups(c *gin.Context) {
	filter, sortBy, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.auditService.ListRollups(filter, sortBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting audit records"})
		return
	}

	filename := fmt.Sprintf("legal_audit_%s", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Legal Audit"
	f.SetSheetName("Sheet1", sheetName)

	// StreamWriter для эффективной выгрузки больших сводок
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AuditHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"User ID", "Email", "Total", "Accepted", "Declined", "Pending",
		"Last Accepted", "Last Updated", "Consent Score", "Completed"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AuditHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, r := range records {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		row := []interface{}{
			r.UserID,
			r.Email,
			r.TotalAcknowledgments,
			r.AcceptedCount,
			r.DeclinedCount,
			r.PendingCount,
			exportTime(r.LastAcceptedAt),
			exportTime(r.LastUpdatedAt),
			r.LegalConsentScore,
			r.ConsentCompleted,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AuditHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AuditHandler] Ошибка завершения StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize Excel file"})
		return
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AuditHandler] Ошибка отправки Excel файла: %v", err)
	}
}

// exportTime приводит опциональное время к строке для выгрузки
func exportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// LiveFeed апгрейдит запрос до WebSocket и подключает клиента к ленте аудита
func (h *AuditHandler) LiveFeed(c *gin.Context) {
	if h.auditFeed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live feed is not enabled"})
		return
	}
	if err := ws.ServeClient(h.auditFeed, c.Writer, c.Request); err != nil {
		log.Printf("[AuditHandler] Ошибка апгрейда WebSocket: %v", err)
	}
}
