package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// LegalDocumentRepo реализует repository.LegalDocumentRepository
type LegalDocumentRepo struct {
	db *gorm.DB
}

// NewLegalDocumentRepo создает новый репозиторий юридических документов
func NewLegalDocumentRepo(db *gorm.DB) *LegalDocumentRepo {
	return &LegalDocumentRepo{db: db}
}

// Create сохраняет новую версию документа
func (r *LegalDocumentRepo) Create(doc *entity.LegalDocument) error {
	return r.CreateTx(r.db, doc)
}

// CreateTx сохраняет документ внутри переданной транзакции
func (r *LegalDocumentRepo) CreateTx(tx *gorm.DB, doc *entity.LegalDocument) error {
	if err := tx.Create(doc).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document %s version %s already exists",
				apperrors.ErrConflict, doc.DocumentType, doc.Version)
		}
		return fmt.Errorf("failed to create legal document: %w", err)
	}
	return nil
}

// GetByID возвращает документ по ID
func (r *LegalDocumentRepo) GetByID(id uint) (*entity.LegalDocument, error) {
	var doc entity.LegalDocument
	err := r.db.First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetActive возвращает все активные документы, упорядоченные по типу
func (r *LegalDocumentRepo) GetActive() ([]entity.LegalDocument, error) {
	var docs []entity.LegalDocument
	err := r.db.Where("is_active = ?", true).Order("document_type").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active legal documents: %w", err)
	}
	return docs, nil
}

// GetActiveByType возвращает активный документ данного типа
func (r *LegalDocumentRepo) GetActiveByType(docType string) (*entity.LegalDocument, error) {
	var doc entity.LegalDocument
	err := r.db.Where("document_type = ? AND is_active = ?", docType, true).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetAllByType возвращает все версии документов данного типа
func (r *LegalDocumentRepo) GetAllByType(docType string) ([]entity.LegalDocument, error) {
	var docs []entity.LegalDocument
	err := r.db.Where("document_type = ?", docType).Order("id").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get legal documents by type: %w", err)
	}
	return docs, nil
}

// DeactivateByType снимает флаг is_active со всех документов типа
func (r *LegalDocumentRepo) DeactivateByType(tx *gorm.DB, docType string) error {
	err := tx.Model(&entity.LegalDocument{}).
		Where("document_type = ? AND is_active = ?", docType, true).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate legal documents: %w", err)
	}
	return nil
}

// WithTransaction выполняет fn в транзакции
func (r *LegalDocumentRepo) WithTransaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
