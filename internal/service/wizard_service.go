package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	"github.com/ezcall100/logistics-lynx-api/internal/domain/repository"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service/consent"
)

// Типы событий мастера согласий
const (
	WizardEventScroll    = "scroll"
	WizardEventSignature = "signature"
	WizardEventLegalName = "legal_name"
	WizardEventAccept    = "accept"
	WizardEventNext      = "next"
	WizardEventPrevious  = "previous"
)

// wizardSessionTTL — время жизни сессии мастера в Redis
const wizardSessionTTL = 24 * time.Hour

// WizardEvent — одно изменение ввода или навигации в мастере
type WizardEvent struct {
	Type           string  `json:"type"`
	ScrollOffset   float64 `json:"scroll_offset,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	ContentHeight  float64 `json:"content_height,omitempty"`
	Signature      string  `json:"signature,omitempty"`
	FullLegalName  string  `json:"full_legal_name,omitempty"`
	Accepted       bool    `json:"accepted,omitempty"`
}

// WizardSession — серверное состояние мастера согласий одного пользователя
type WizardSession struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Wizard    *consent.Wizard `json:"wizard"`
	Outcome   *BatchResult    `json:"outcome,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// WizardService ведет сессии мастера согласий: состояние конечного автомата
// хранится в Redis, переходы выполняются чистыми функциями пакета consent,
// финальная отправка делегируется AcknowledgmentService.
type WizardService struct {
	documentService *DocumentService
	ackService      *AcknowledgmentService
	cacheRepo       repository.CacheRepository
}

// NewWizardService создает новый сервис мастера согласий
func NewWizardService(
	documentService *DocumentService,
	ackService *AcknowledgmentService,
	cacheRepo repository.CacheRepository,
) *WizardService {
	return &WizardService{
		documentService: documentService,
		ackService:      ackService,
		cacheRepo:       cacheRepo,
	}
}

func wizardSessionKey(id string) string {
	return "legal:wizard:" + id
}

// StartSession создает сессию мастера по актуальному каталогу активных документов
func (s *WizardService) StartSession(userID uint) (*WizardSession, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}

	docs, err := s.documentService.GetActiveDocuments()
	if err != nil {
		return nil, err
	}

	wizard, err := consent.NewWizard(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: no active legal documents to accept", apperrors.ErrValidation)
	}

	session := &WizardSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Wizard:    wizard,
		CreatedAt: time.Now(),
	}
	if err := s.saveSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession возвращает сессию мастера по ID
func (s *WizardService) GetSession(id string) (*WizardSession, error) {
	var session WizardSession
	if err := s.cacheRepo.GetJSON(wizardSessionKey(id), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ApplyEvent применяет событие ввода или навигации к сессии и сохраняет ее
func (s *WizardService) ApplyEvent(id string, event *WizardEvent) (*WizardSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	w := session.Wizard

	switch event.Type {
	case WizardEventScroll:
		w.UpdateScroll(event.ScrollOffset, event.ViewportHeight, event.ContentHeight)
	case WizardEventSignature:
		w.SetSignature(event.Signature)
	case WizardEventLegalName:
		w.SetFullLegalName(event.FullLegalName)
	case WizardEventAccept:
		w.SetAccepted(event.Accepted)
	case WizardEventNext:
		if err := w.Next(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	case WizardEventPrevious:
		w.Previous()
	default:
		return nil, fmt.Errorf("%w: unknown wizard event type %q", apperrors.ErrValidation, event.Type)
	}

	if err := s.saveSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit выполняет терминальное действие мастера: параллельная фиксация всех
// документов. Повторная отправка до завершения первой блокируется автоматом.
func (s *WizardService) Submit(ctx context.Context, id, ipAddress, userAgent string) (*WizardSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	w := session.Wizard

	if err := w.BeginSubmit(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	// Фиксируем блокировку отправки до начала долгой операции
	if err := s.saveSession(session); err != nil {
		w.FinishSubmit(false)
		return nil, err
	}

	requests := make([]*CaptureRequest, len(w.Documents))
	for i, doc := range w.Documents {
		p := w.Progress[i]
		requests[i] = &CaptureRequest{
			UserID:               session.UserID,
			SessionID:            session.ID,
			DocumentID:           doc.ID,
			FullLegalName:        p.FullLegalName,
			SignatureData:        p.Signature,
			IPAddress:            ipAddress,
			UserAgent:            userAgent,
			AcknowledgmentStatus: entity.AcknowledgmentStatusAccepted,
		}
	}

	outcome := s.ackService.CaptureBatch(ctx, requests)
	w.FinishSubmit(outcome.Success)
	session.Outcome = outcome

	if err := s.saveSession(session); err != nil {
		log.Printf("[WizardService] Не удалось сохранить итог сессии %s: %v", session.ID, err)
	}
	return session, nil
}

func (s *WizardService) saveSession(session *WizardSession) error {
	if err := s.cacheRepo.SetJSON(wizardSessionKey(session.ID), session, wizardSessionTTL); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}
