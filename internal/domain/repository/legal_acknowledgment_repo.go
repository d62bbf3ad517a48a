package repository

import "github.com/ezcall100/logistics-lynx-api/internal/domain/entity"

// LegalAcknowledgmentRepository интерфейс для работы с подтверждениями документов
type LegalAcknowledgmentRepository interface {
	// Create сохраняет новое подтверждение
	Create(ack *entity.LegalAcknowledgment) error

	// GetByID возвращает подтверждение по ID
	GetByID(id uint) (*entity.LegalAcknowledgment, error)

	// GetByUserID возвращает все подтверждения пользователя (новые первыми)
	GetByUserID(userID uint) ([]entity.LegalAcknowledgment, error)

	// GetByUserIDWithDetails возвращает подтверждения пользователя вместе с
	// документом и подписью (для детального просмотра в портале аудита)
	GetByUserIDWithDetails(userID uint) ([]entity.LegalAcknowledgment, error)

	// GetAcceptedDocumentIDs возвращает ID документов, принятых пользователем
	GetAcceptedDocumentIDs(userID uint) ([]uint, error)

	// GetAcceptedVersionsByType возвращает последнюю принятую версию для каждого
	// типа документа (тип -> версия). Используется для проверки необходимости
	// повторного принятия после публикации новой версии.
	GetAcceptedVersionsByType(userID uint) (map[string]string, error)

	// UpdateStatus обновляет статус существующего подтверждения (например, expired)
	UpdateStatus(id uint, status string) error
}
