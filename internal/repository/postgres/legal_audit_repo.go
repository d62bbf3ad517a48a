package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// LegalAuditRepo реализует repository.LegalAuditRepository поверх представления
// legal_audit_summary. Представление только для чтения.
type LegalAuditRepo struct {
	db *gorm.DB
}

// NewLegalAuditRepo создает новый репозиторий сводок аудита
func NewLegalAuditRepo(db *gorm.DB) *LegalAuditRepo {
	return &LegalAuditRepo{db: db}
}

// GetAll возвращает сводки по всем пользователям
func (r *LegalAuditRepo) GetAll() ([]entity.LegalAuditRecord, error) {
	var records []entity.LegalAuditRecord
	err := r.db.Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get legal audit summary: %w", err)
	}
	return records, nil
}

// GetByUserID возвращает сводку одного пользователя
func (r *LegalAuditRepo) GetByUserID(userID uint) (*entity.LegalAuditRecord, error) {
	var record entity.LegalAuditRecord
	err := r.db.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
