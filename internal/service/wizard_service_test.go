package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// ============================================================================
// Тесты для WizardService
// ============================================================================

// wizardEnv собирает сервис мастера с моками репозиториев и хранилищем сессий
// в памяти: SetJSON/GetJSON мока кеша работают через общую map.
type wizardEnv struct {
	svc      *WizardService
	capture  *captureMocks
	docRepo  *MockLegalDocumentRepository
	cache    *MockCacheRepository
	sessions map[string]*WizardSession
}

func newWizardEnv(activeDocs []entity.LegalDocument) *wizardEnv {
	env := &wizardEnv{
		docRepo:  new(MockLegalDocumentRepository),
		cache:    new(MockCacheRepository),
		sessions: make(map[string]*WizardSession),
	}

	env.docRepo.On("GetActive").Return(activeDocs, nil).Maybe()

	env.cache.On("SetJSON", mock.Anything, mock.Anything, wizardSessionTTL).
		Run(func(args mock.Arguments) {
			session := args.Get(1).(*WizardSession)
			env.sessions[args.String(0)] = session
		}).Return(nil).Maybe()
	env.cache.On("GetJSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if session, ok := env.sessions[args.String(0)]; ok {
				*args.Get(1).(*WizardSession) = *session
			}
		}).Return(nil).Maybe()

	ackService, captureMocks := newCaptureService()
	env.capture = captureMocks

	documentService := NewDocumentService(env.docRepo, nil, 0)
	env.svc = NewWizardService(documentService, ackService, env.cache)
	return env
}

func wizardTestDocs() []entity.LegalDocument {
	return []entity.LegalDocument{
		{ID: 1, DocumentType: entity.DocumentTypeMasterAgreement, Version: "1.0.0", IsActive: true},
		{ID: 2, DocumentType: entity.DocumentTypeTermsOfUse, Version: "1.0.0", IsActive: true},
	}
}

// completeStep прогоняет через ApplyEvent все четыре условия текущего шага
func completeStep(t *testing.T, env *wizardEnv, sessionID string) {
	t.Helper()
	events := []*WizardEvent{
		{Type: WizardEventScroll, ScrollOffset: 900, ViewportHeight: 100, ContentHeight: 1000},
		{Type: WizardEventAccept, Accepted: true},
		{Type: WizardEventLegalName, FullLegalName: "John Freight Carrier"},
		{Type: WizardEventSignature, Signature: "data:image/png;base64,AAAA"},
	}
	for _, ev := range events {
		_, err := env.svc.ApplyEvent(sessionID, ev)
		require.NoError(t, err)
	}
}

func TestStartSession_CreatesWizardFromCatalog(t *testing.T) {
	// Arrange
	env := newWizardEnv(wizardTestDocs())

	// Act
	session, err := env.svc.StartSession(42)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, uint(42), session.UserID)
	require.NotNil(t, session.Wizard)
	assert.Len(t, session.Wizard.Documents, 2)
	assert.Equal(t, 0, session.Wizard.Index)
	assert.Contains(t, env.sessions, wizardSessionKey(session.ID), "Сессия должна быть сохранена в Redis")
}

func TestStartSession_NoActiveDocuments(t *testing.T) {
	// Arrange
	env := newWizardEnv([]entity.LegalDocument{})

	// Act
	session, err := env.svc.StartSession(42)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, session)
}

func TestGetSession_Expired(t *testing.T) {
	// Arrange: истекшая сессия отсутствует в Redis
	env := newWizardEnv(wizardTestDocs())
	env.cache.ExpectedCalls = nil
	env.cache.On("GetJSON", wizardSessionKey("expired"), mock.Anything).Return(apperrors.ErrNotFound)

	// Act
	session, err := env.svc.GetSession("expired")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, session)
}

func TestApplyEvent_NextAfterCompleteStep(t *testing.T) {
	// Arrange
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)
	completeStep(t, env, session.ID)

	// Act
	updated, err := env.svc.ApplyEvent(session.ID, &WizardEvent{Type: WizardEventNext})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Wizard.Index)
}

func TestApplyEvent_NextOnIncompleteStep(t *testing.T) {
	// Arrange
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)

	// Act: шаг не заполнен
	updated, err := env.svc.ApplyEvent(session.ID, &WizardEvent{Type: WizardEventNext})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, updated)
}

func TestApplyEvent_UnknownType(t *testing.T) {
	// Arrange
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)

	// Act
	updated, err := env.svc.ApplyEvent(session.ID, &WizardEvent{Type: "teleport"})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, updated)
}

func TestSubmit_Success(t *testing.T) {
	// Arrange: оба шага пройдены, фиксации успешны
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)
	completeStep(t, env, session.ID)
	_, err = env.svc.ApplyEvent(session.ID, &WizardEvent{Type: WizardEventNext})
	require.NoError(t, err)
	completeStep(t, env, session.ID)

	env.capture.signatureRepo.On("Create", mock.AnythingOfType("*entity.UserSignature")).Return(nil)
	env.capture.ackRepo.On("Create", mock.AnythingOfType("*entity.LegalAcknowledgment")).Return(nil)
	env.capture.documentRepo.On("GetActive").Return(wizardTestDocs(), nil)
	env.capture.ackRepo.On("GetByUserID", uint(42)).Return([]entity.LegalAcknowledgment{
		{DocumentID: 1, AcknowledgmentStatus: entity.AcknowledgmentStatusAccepted},
		{DocumentID: 2, AcknowledgmentStatus: entity.AcknowledgmentStatusAccepted},
	}, nil)
	env.capture.auditLogRepo.On("Append", mock.AnythingOfType("*entity.AuditLogEntry")).Return(nil)

	// Act
	result, err := env.svc.Submit(context.Background(), session.ID, "10.0.0.1", "test-agent")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Wizard.Completed)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.Success)
	assert.Len(t, result.Outcome.Items, 2)
	// По одной паре записей на каждый документ
	env.capture.signatureRepo.AssertNumberOfCalls(t, "Create", 2)
	env.capture.ackRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSubmit_NotOnLastStep(t *testing.T) {
	// Arrange: мастер еще на первом документе
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)
	completeStep(t, env, session.ID)

	// Act
	result, err := env.svc.Submit(context.Background(), session.ID, "10.0.0.1", "test-agent")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, result)
	env.capture.ackRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmit_AfterCompletion(t *testing.T) {
	// Arrange: успешная отправка уже состоялась
	env := newWizardEnv(wizardTestDocs())
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)
	completeStep(t, env, session.ID)
	_, err = env.svc.ApplyEvent(session.ID, &WizardEvent{Type: WizardEventNext})
	require.NoError(t, err)
	completeStep(t, env, session.ID)

	env.capture.signatureRepo.On("Create", mock.AnythingOfType("*entity.UserSignature")).Return(nil)
	env.capture.ackRepo.On("Create", mock.AnythingOfType("*entity.LegalAcknowledgment")).Return(nil)
	env.capture.documentRepo.On("GetActive").Return(wizardTestDocs(), nil)
	env.capture.ackRepo.On("GetByUserID", uint(42)).Return([]entity.LegalAcknowledgment{}, nil)
	env.capture.auditLogRepo.On("Append", mock.AnythingOfType("*entity.AuditLogEntry")).Return(nil)

	_, err = env.svc.Submit(context.Background(), session.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)

	// Act: повторная отправка завершённого мастера
	result, err := env.svc.Submit(context.Background(), session.ID, "10.0.0.1", "test-agent")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, result)
}

func TestSubmit_BatchFailureAllowsRetry(t *testing.T) {
	// Arrange: единственный документ, фиксация падает на записи подтверждения
	env := newWizardEnv(wizardTestDocs()[:1])
	session, err := env.svc.StartSession(42)
	require.NoError(t, err)
	completeStep(t, env, session.ID)

	env.capture.signatureRepo.On("Create", mock.AnythingOfType("*entity.UserSignature")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.UserSignature).ID = 101
		}).Return(nil)
	env.capture.ackRepo.On("Create", mock.AnythingOfType("*entity.LegalAcknowledgment")).
		Return(assert.AnError)
	env.capture.signatureRepo.On("Delete", uint(101)).Return(nil)
	env.capture.auditLogRepo.On("Append", mock.AnythingOfType("*entity.AuditLogEntry")).Return(nil)

	// Act
	result, err := env.svc.Submit(context.Background(), session.ID, "10.0.0.1", "test-agent")

	// Assert: отправка вернулась с неуспешным итогом, мастер не завершён
	require.NoError(t, err)
	require.NotNil(t, result.Outcome)
	assert.False(t, result.Outcome.Success)
	assert.False(t, result.Wizard.Completed)
	assert.False(t, result.Wizard.Submitting, "Блокировка отправки снята — допустим повтор")
}

// Время жизни сессии зафиксировано, чтобы случайное изменение не укорачивало
// незавершённые мастера
func TestWizardSessionTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, wizardSessionTTL)
}
