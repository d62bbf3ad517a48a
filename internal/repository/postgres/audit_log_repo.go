package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// AuditLogRepo реализует repository.AuditLogRepository
type AuditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo создает новый репозиторий журнала онбординга
func NewAuditLogRepo(db *gorm.DB) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// Append добавляет запись в журнал
func (r *AuditLogRepo) Append(entry *entity.AuditLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit log entry: %w", err)
	}
	return nil
}
