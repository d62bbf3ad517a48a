package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	"github.com/ezcall100/logistics-lynx-api/internal/domain/repository"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	"github.com/ezcall100/logistics-lynx-api/internal/service/consent"
)

// activeDocumentsCacheKey — ключ кеша активного каталога документов
const activeDocumentsCacheKey = "legal:documents:active"

// DocumentService — реестр юридических документов: хранит канонический каталог
// и отвечает на вопрос "какие документы пользователю еще нужно принять".
type DocumentService struct {
	documentRepo repository.LegalDocumentRepository
	cacheRepo    repository.CacheRepository
	cacheTTL     time.Duration
}

// NewDocumentService создает новый сервис реестра документов.
// cacheRepo может быть nil — тогда кеширование отключено.
func NewDocumentService(
	documentRepo repository.LegalDocumentRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
) *DocumentService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DocumentService{
		documentRepo: documentRepo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
	}
}

// GetActiveDocuments возвращает все активные документы. Пустой каталог — не ошибка.
// Результат кешируется в Redis; при сбоях кеша работаем напрямую с БД (fail-open).
func (s *DocumentService) GetActiveDocuments() ([]entity.LegalDocument, error) {
	if s.cacheRepo != nil {
		var cached []entity.LegalDocument
		if err := s.cacheRepo.GetJSON(activeDocumentsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[DocumentService] Ошибка чтения кеша активных документов: %v", err)
		}
	}

	docs, err := s.documentRepo.GetActive()
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(activeDocumentsCacheKey, docs, s.cacheTTL); err != nil {
			log.Printf("[DocumentService] Ошибка записи кеша активных документов: %v", err)
		}
	}
	return docs, nil
}

// GetDocumentByType возвращает активный документ данного типа
func (s *DocumentService) GetDocumentByType(docType string) (*entity.LegalDocument, error) {
	if !entity.IsKnownDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}
	return s.documentRepo.GetActiveByType(docType)
}

// GetLatestVersion возвращает документ типа с наибольшей семантической версией
// среди всех версий (активных и нет). При равенстве версий побеждает первая
// найденная запись — порядок детерминирован запросом.
func (s *DocumentService) GetLatestVersion(docType string) (*entity.LegalDocument, error) {
	if !entity.IsKnownDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}

	docs, err := s.documentRepo.GetAllByType(docType)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound
	}

	latest := &docs[0]
	for i := 1; i < len(docs); i++ {
		if consent.CompareVersions(docs[i].Version, latest.Version) > 0 {
			latest = &docs[i]
		}
	}
	return latest, nil
}

// CheckForNewVersions возвращает активные документы, которые пользователю нужно
// принять заново: принятая версия отсутствует либо строго ниже текущей активной.
// Именно этот метод заставляет пройти повторное принятие после обновления документа.
func (s *DocumentService) CheckForNewVersions(userAcceptedVersions map[string]string) ([]entity.LegalDocument, error) {
	activeDocs, err := s.GetActiveDocuments()
	if err != nil {
		return nil, err
	}

	var outdated []entity.LegalDocument
	for _, doc := range activeDocs {
		acceptedVersion, ok := userAcceptedVersions[doc.DocumentType]
		if !ok || consent.CompareVersions(acceptedVersion, doc.Version) < 0 {
			outdated = append(outdated, doc)
		}
	}
	return outdated, nil
}

// CheckForNewVersionsByUser вычисляет принятые версии пользователя из его
// подтверждений и делегирует CheckForNewVersions
func (s *DocumentService) CheckForNewVersionsByUser(ackRepo repository.LegalAcknowledgmentRepository, userID uint) ([]entity.LegalDocument, error) {
	accepted, err := ackRepo.GetAcceptedVersionsByType(userID)
	if err != nil {
		return nil, err
	}
	return s.CheckForNewVersions(accepted)
}

// ValidateDocument выполняет чистую проверку документа без обращения к БД
func (s *DocumentService) ValidateDocument(doc *entity.LegalDocument) entity.DocumentValidationResult {
	return doc.Validate()
}

// PublishDocument публикует новую версию документа: в одной транзакции
// деактивирует предыдущую активную версию и вставляет новую запись с is_active=true.
// Дубликат (тип, версия) превращается в apperrors.ErrConflict на уровне репозитория.
func (s *DocumentService) PublishDocument(doc *entity.LegalDocument) error {
	if result := doc.Validate(); !result.IsValid {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, result.Errors)
	}

	doc.IsActive = true
	err := s.documentRepo.WithTransaction(func(tx *gorm.DB) error {
		if err := s.documentRepo.DeactivateByType(tx, doc.DocumentType); err != nil {
			return err
		}
		return s.documentRepo.CreateTx(tx, doc)
	})
	if err != nil {
		return err
	}

	// Каталог изменился — сбрасываем кеш
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(activeDocumentsCacheKey); err != nil {
			log.Printf("[DocumentService] Ошибка сброса кеша после публикации: %v", err)
		}
	}
	return nil
}
