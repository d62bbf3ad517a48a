package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	"github.com/ezcall100/logistics-lynx-api/internal/domain/repository"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service/consent"
	ws "github.com/ezcall100/logistics-lynx-api/internal/websocket"
)

// AuditFeed публикует события подтверждений в живую ленту портала аудита
type AuditFeed interface {
	PublishAcknowledgment(event ws.AcknowledgmentEvent)
}

// CaptureRequest — запрос на фиксацию решения пользователя по одному документу
type CaptureRequest struct {
	UserID               uint   `json:"user_id"`
	SessionID            string `json:"session_id,omitempty"`
	DocumentID           uint   `json:"document_id"`
	FullLegalName        string `json:"full_legal_name"`
	SignatureData        string `json:"signature_data,omitempty"`
	IPAddress            string `json:"ip_address,omitempty"`
	UserAgent            string `json:"user_agent,omitempty"`
	AcknowledgmentStatus string `json:"acknowledgment_status"`
	DeclineReason        string `json:"decline_reason,omitempty"`
}

// CaptureResult — результат успешной фиксации
type CaptureResult struct {
	AcknowledgmentID  uint  `json:"acknowledgment_id"`
	SignatureID       *uint `json:"signature_id,omitempty"`
	LegalConsentScore int   `json:"legal_consent_score"`
	ConsentCompleted  bool  `json:"consent_completed"`
}

// BatchItemResult — результат фиксации одного документа при пакетной отправке
type BatchItemResult struct {
	DocumentID uint           `json:"document_id"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Result     *CaptureResult `json:"result,omitempty"`
}

// BatchResult — итог пакетной отправки мастера согласий. Операция считается
// неуспешной целиком, если не удалась хотя бы одна фиксация.
type BatchResult struct {
	BatchID string            `json:"batch_id"`
	Success bool              `json:"success"`
	Items   []BatchItemResult `json:"items"`
}

// AcknowledgmentService долговременно фиксирует принятие или отклонение
// юридического документа: подпись + подтверждение как двухшаговая сага с
// компенсирующей очисткой, затем балл согласия, флаг завершенности и журнал аудита.
type AcknowledgmentService struct {
	signatureRepo repository.UserSignatureRepository
	ackRepo       repository.LegalAcknowledgmentRepository
	documentRepo  repository.LegalDocumentRepository
	auditLogRepo  repository.AuditLogRepository
	userRepo      repository.UserRepository
	emailService  EmailService
	auditFeed     AuditFeed
}

// NewAcknowledgmentService создает новый сервис фиксации подтверждений.
// emailService и auditFeed могут быть nil — соответствующие уведомления отключаются.
func NewAcknowledgmentService(
	signatureRepo repository.UserSignatureRepository,
	ackRepo repository.LegalAcknowledgmentRepository,
	documentRepo repository.LegalDocumentRepository,
	auditLogRepo repository.AuditLogRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	auditFeed AuditFeed,
) *AcknowledgmentService {
	return &AcknowledgmentService{
		signatureRepo: signatureRepo,
		ackRepo:       ackRepo,
		documentRepo:  documentRepo,
		auditLogRepo:  auditLogRepo,
		userRepo:      userRepo,
		emailService:  emailService,
		auditFeed:     auditFeed,
	}
}

// validateCapture проверяет форму запроса до любых записей.
// Решение по открытому вопросу: при статусе declined подпись НЕ требуется —
// отклоняющий документ пользователь ничего не подписывает.
func validateCapture(req *CaptureRequest) error {
	if req.UserID == 0 {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if req.DocumentID == 0 {
		return fmt.Errorf("%w: document id is required", apperrors.ErrValidation)
	}
	if req.FullLegalName == "" {
		return fmt.Errorf("%w: full legal name is required", apperrors.ErrValidation)
	}

	switch req.AcknowledgmentStatus {
	case entity.AcknowledgmentStatusAccepted:
		if req.SignatureData == "" {
			return fmt.Errorf("%w: signature data is required to accept a document", apperrors.ErrValidation)
		}
	case entity.AcknowledgmentStatusDeclined:
		if req.DeclineReason == "" {
			return fmt.Errorf("%w: decline reason is required to decline a document", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: acknowledgment status must be accepted or declined, got %q",
			apperrors.ErrValidation, req.AcknowledgmentStatus)
	}
	return nil
}

// Capture выполняет фиксацию строго по шагам: валидация → запись подписи →
// запись подтверждения → балл согласия → флаг завершенности → журнал аудита.
// Шаги не атомарны: сбой записи подтверждения компенсируется удалением уже
// созданной подписи (best-effort), двойной сбой фиксируется в журнале.
// Идемпотентность не гарантируется: повтор того же логического запроса
// создаст вторую пару записей.
func (s *AcknowledgmentService) Capture(ctx context.Context, req *CaptureRequest) (*CaptureResult, error) {
	// Шаг 1: валидация, до любых записей
	if err := validateCapture(req); err != nil {
		return nil, err
	}

	now := time.Now()
	accepted := req.AcknowledgmentStatus == entity.AcknowledgmentStatusAccepted

	// Шаг 2: подпись. Создается только при принятии: signature_id должен быть
	// установлен тогда и только тогда, когда статус accepted.
	var signatureID *uint
	if accepted {
		signature := &entity.UserSignature{
			UserID:        req.UserID,
			SessionID:     req.SessionID,
			SignatureType: entity.SignatureTypeLegalConsent,
			FullLegalName: req.FullLegalName,
			SignatureData: req.SignatureData,
			IPAddress:     req.IPAddress,
			UserAgent:     req.UserAgent,
		}
		if err := s.signatureRepo.Create(signature); err != nil {
			// Ничего еще не записано — просто возвращаем ошибку
			return nil, fmt.Errorf("failed to persist signature: %w", err)
		}
		signatureID = &signature.ID
	}

	// Шаг 3: подтверждение, со ссылкой на подпись и временными метками по статусу
	ack := &entity.LegalAcknowledgment{
		UserID:               req.UserID,
		SessionID:            req.SessionID,
		DocumentID:           req.DocumentID,
		SignatureID:          signatureID,
		AcknowledgmentStatus: req.AcknowledgmentStatus,
		IPAddress:            req.IPAddress,
		UserAgent:            req.UserAgent,
	}
	if accepted {
		ack.AcceptedAt = &now
	} else {
		ack.DeclinedAt = &now
		ack.DeclineReason = req.DeclineReason
	}

	if err := s.ackRepo.Create(ack); err != nil {
		s.compensateSignature(req.UserID, signatureID, err)
		return nil, fmt.Errorf("failed to persist acknowledgment: %w", err)
	}

	// Шаги 4-5: балл согласия и флаг завершенности. Сбой здесь не откатывает
	// уже записанное принятие — подставляются безопасные значения.
	score, completed := s.computeConsent(req.UserID)

	// Шаг 6: журнал аудита. Fire-and-forget: сбой только логируется.
	s.appendAuditEntry(req, ack, score)

	// Уведомления: живая лента аудита и письмо о завершении согласий
	s.notify(ctx, req, ack, completed)

	// Шаг 7
	return &CaptureResult{
		AcknowledgmentID:  ack.ID,
		SignatureID:       signatureID,
		LegalConsentScore: score,
		ConsentCompleted:  completed,
	}, nil
}

// compensateSignature удаляет подпись, оставшуюся без подтверждения, и ведет
// журнал компенсации: attempted/succeeded/failed. Двойной сбой (подпись есть,
// очистка не удалась) — отдельное наблюдаемое состояние, а не молчание.
func (s *AcknowledgmentService) compensateSignature(userID uint, signatureID *uint, cause error) {
	if signatureID == nil {
		return
	}

	log.Printf("[AcknowledgmentService] Сбой записи подтверждения (%v), компенсация: удаляем подпись #%d", cause, *signatureID)

	outcome := "succeeded"
	status := entity.VerificationStatusVerified
	if err := s.signatureRepo.Delete(*signatureID); err != nil {
		outcome = "failed"
		status = entity.VerificationStatusFailed
		log.Printf("[AcknowledgmentService] КОМПЕНСАЦИЯ НЕ УДАЛАСЬ: осиротевшая подпись #%d: %v", *signatureID, err)
	}

	data, _ := json.Marshal(map[string]interface{}{
		"signature_id": *signatureID,
		"cleanup":      outcome,
		"cause":        cause.Error(),
	})
	entry := &entity.AuditLogEntry{
		UserID:             userID,
		VerificationType:   entity.VerificationTypeCompensation,
		VerificationData:   string(data),
		VerificationStatus: status,
	}
	if err := s.auditLogRepo.Append(entry); err != nil {
		log.Printf("[AcknowledgmentService] Не удалось записать компенсацию в журнал: %v", err)
	}
}

// computeConsent вычисляет балл согласия и флаг завершенности чистыми функциями
// над активными документами и подтверждениями пользователя. Ошибки чтения
// деградируют до безопасных значений (0, false) и логируются.
func (s *AcknowledgmentService) computeConsent(userID uint) (int, bool) {
	activeDocs, err := s.documentRepo.GetActive()
	if err != nil {
		log.Printf("[AcknowledgmentService] Ошибка чтения активных документов для балла согласия: %v", err)
		return 0, false
	}

	acks, err := s.ackRepo.GetByUserID(userID)
	if err != nil {
		log.Printf("[AcknowledgmentService] Ошибка чтения подтверждений для балла согласия: %v", err)
		return 0, false
	}

	return consent.Score(activeDocs, acks), consent.Completed(activeDocs, acks)
}

// ConsentStatus возвращает текущий балл согласия и флаг завершенности пользователя
func (s *AcknowledgmentService) ConsentStatus(userID uint) (int, bool, error) {
	activeDocs, err := s.documentRepo.GetActive()
	if err != nil {
		return 0, false, err
	}
	acks, err := s.ackRepo.GetByUserID(userID)
	if err != nil {
		return 0, false, err
	}
	return consent.Score(activeDocs, acks), consent.Completed(activeDocs, acks), nil
}

// appendAuditEntry пишет строку в onboarding_audit_log. Сбой не откатывает
// шаги 2-3 и не поднимается к вызывающему.
func (s *AcknowledgmentService) appendAuditEntry(req *CaptureRequest, ack *entity.LegalAcknowledgment, score int) {
	status := entity.VerificationStatusVerified
	if ack.IsDeclined() {
		status = entity.VerificationStatusDeclined
	}

	data, err := json.Marshal(map[string]interface{}{
		"document_id": req.DocumentID,
		"status":      ack.AcknowledgmentStatus,
		"ip_address":  req.IPAddress,
		"user_agent":  req.UserAgent,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[AcknowledgmentService] Ошибка сериализации данных аудита: %v", err)
		return
	}

	entry := &entity.AuditLogEntry{
		UserID:             req.UserID,
		VerificationType:   entity.VerificationTypeLegalAcknowledgment,
		VerificationData:   string(data),
		VerificationScore:  score,
		VerificationStatus: status,
	}
	if err := s.auditLogRepo.Append(entry); err != nil {
		log.Printf("[AcknowledgmentService] Ошибка записи в журнал аудита (запись подтверждения сохранена): %v", err)
	}
}

// notify публикует событие в ленту аудита и отправляет письмо о завершении
// всех согласий. Оба действия best-effort.
func (s *AcknowledgmentService) notify(ctx context.Context, req *CaptureRequest, ack *entity.LegalAcknowledgment, completed bool) {
	if s.auditFeed != nil {
		event := ws.AcknowledgmentEvent{
			UserID:     req.UserID,
			DocumentID: req.DocumentID,
			Status:     ack.AcknowledgmentStatus,
			RecordedAt: ack.CreatedAt,
		}
		if doc, err := s.documentRepo.GetByID(req.DocumentID); err == nil {
			event.DocumentType = doc.DocumentType
			event.Version = doc.Version
		}
		s.auditFeed.PublishAcknowledgment(event)
	}

	if completed && ack.IsAccepted() && s.emailService != nil {
		user, err := s.userRepo.GetByID(req.UserID)
		if err != nil {
			log.Printf("[AcknowledgmentService] Не удалось получить пользователя #%d для письма: %v", req.UserID, err)
			return
		}
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.emailService.SendConsentConfirmation(sendCtx, user.Email, user.FullName); err != nil {
				log.Printf("[AcknowledgmentService] Ошибка отправки письма о завершении согласий: %v", err)
			}
		}()
	}
}

// CaptureBatch — терминальное действие мастера согласий: фиксирует решения по
// всем документам параллельно. Порядок между документами не гарантируется,
// но попытка делается для каждого; операция неуспешна целиком при любом сбое.
func (s *AcknowledgmentService) CaptureBatch(ctx context.Context, requests []*CaptureRequest) *BatchResult {
	result := &BatchResult{
		BatchID: uuid.New().String(),
		Success: true,
		Items:   make([]BatchItemResult, len(requests)),
	}

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req *CaptureRequest) {
			defer wg.Done()
			item := BatchItemResult{DocumentID: req.DocumentID}
			res, err := s.Capture(ctx, req)
			if err != nil {
				item.Error = err.Error()
			} else {
				item.Success = true
				item.Result = res
			}
			result.Items[i] = item
		}(i, req)
	}
	wg.Wait()

	for _, item := range result.Items {
		if !item.Success {
			result.Success = false
			break
		}
	}
	return result
}
