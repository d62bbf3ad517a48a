package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// UserSignatureRepo реализует repository.UserSignatureRepository
type UserSignatureRepo struct {
	db *gorm.DB
}

// NewUserSignatureRepo создает новый репозиторий подписей
func NewUserSignatureRepo(db *gorm.DB) *UserSignatureRepo {
	return &UserSignatureRepo{db: db}
}

// Create сохраняет новую подпись
func (r *UserSignatureRepo) Create(signature *entity.UserSignature) error {
	if err := r.db.Create(signature).Error; err != nil {
		return fmt.Errorf("failed to create user signature: %w", err)
	}
	return nil
}

// GetByID возвращает подпись по ID
func (r *UserSignatureRepo) GetByID(id uint) (*entity.UserSignature, error) {
	var signature entity.UserSignature
	err := r.db.First(&signature, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &signature, nil
}

// Delete удаляет подпись (компенсирующее действие при сбое зависимой записи)
func (r *UserSignatureRepo) Delete(id uint) error {
	if err := r.db.Delete(&entity.UserSignature{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user signature: %w", err)
	}
	return nil
}
