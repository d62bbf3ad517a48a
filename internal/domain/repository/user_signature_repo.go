package repository

import "github.com/ezcall100/logistics-lynx-api/internal/domain/entity"

// UserSignatureRepository интерфейс для работы с подписями пользователей
type UserSignatureRepository interface {
	// Create сохраняет новую подпись
	Create(signature *entity.UserSignature) error

	// GetByID возвращает подпись по ID
	GetByID(id uint) (*entity.UserSignature, error)

	// Delete удаляет подпись. Используется только как компенсирующее действие,
	// когда зависимая запись подтверждения не была сохранена.
	Delete(id uint) error
}
