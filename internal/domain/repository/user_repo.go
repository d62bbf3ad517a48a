package repository

import "github.com/ezcall100/logistics-lynx-api/internal/domain/entity"

// UserRepository интерфейс для чтения профилей пользователей
type UserRepository interface {
	// GetByID возвращает пользователя по ID
	GetByID(id uint) (*entity.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(email string) (*entity.User, error)
}
