package repository

import "github.com/ezcall100/logistics-lynx-api/internal/domain/entity"

// LegalAuditRepository интерфейс для чтения сводок аудита (legal_audit_summary)
type LegalAuditRepository interface {
	// GetAll возвращает сводки по всем пользователям
	GetAll() ([]entity.LegalAuditRecord, error)

	// GetByUserID возвращает сводку одного пользователя
	GetByUserID(userID uint) (*entity.LegalAuditRecord, error)
}
