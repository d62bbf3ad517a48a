package repository

import (
	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// LegalDocumentRepository интерфейс для работы с каталогом юридических документов
type LegalDocumentRepository interface {
	// Create сохраняет новую версию документа
	Create(doc *entity.LegalDocument) error

	// GetByID возвращает документ по ID
	GetByID(id uint) (*entity.LegalDocument, error)

	// GetActive возвращает все активные документы, упорядоченные по типу
	GetActive() ([]entity.LegalDocument, error)

	// GetActiveByType возвращает активный документ данного типа
	GetActiveByType(docType string) (*entity.LegalDocument, error)

	// GetAllByType возвращает все версии документов данного типа (включая неактивные)
	GetAllByType(docType string) ([]entity.LegalDocument, error)

	// DeactivateByType снимает флаг is_active со всех документов типа.
	// Выполняется внутри переданной транзакции при публикации новой версии.
	DeactivateByType(tx *gorm.DB, docType string) error

	// CreateTx сохраняет документ внутри переданной транзакции
	CreateTx(tx *gorm.DB, doc *entity.LegalDocument) error

	// WithTransaction выполняет fn в транзакции
	WithTransaction(fn func(tx *gorm.DB) error) error
}
