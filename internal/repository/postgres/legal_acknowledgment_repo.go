package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// LegalAcknowledgmentRepo реализует repository.LegalAcknowledgmentRepository
type LegalAcknowledgmentRepo struct {
	db *gorm.DB
}

// NewLegalAcknowledgmentRepo создает новый репозиторий подтверждений
func NewLegalAcknowledgmentRepo(db *gorm.DB) *LegalAcknowledgmentRepo {
	return &LegalAcknowledgmentRepo{db: db}
}

// Create сохраняет новое подтверждение
func (r *LegalAcknowledgmentRepo) Create(ack *entity.LegalAcknowledgment) error {
	if err := r.db.Create(ack).Error; err != nil {
		return fmt.Errorf("failed to create legal acknowledgment: %w", err)
	}
	return nil
}

// GetByID возвращает подтверждение по ID
func (r *LegalAcknowledgmentRepo) GetByID(id uint) (*entity.LegalAcknowledgment, error) {
	var ack entity.LegalAcknowledgment
	err := r.db.First(&ack, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ack, nil
}

// GetByUserID возвращает все подтверждения пользователя (новые первыми)
func (r *LegalAcknowledgmentRepo) GetByUserID(userID uint) ([]entity.LegalAcknowledgment, error) {
	var acks []entity.LegalAcknowledgment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&acks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get legal acknowledgments: %w", err)
	}
	return acks, nil
}

// GetByUserIDWithDetails возвращает подтверждения пользователя вместе с документом
// и подписью. Порядок задается запросом (новые первыми) и сервисом не пересортировывается.
func (r *LegalAcknowledgmentRepo) GetByUserIDWithDetails(userID uint) ([]entity.LegalAcknowledgment, error) {
	var acks []entity.LegalAcknowledgment
	err := r.db.Where("user_id = ?", userID).
		Preload("Document").
		Preload("Signature").
		Order("created_at DESC").
		Find(&acks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get legal acknowledgments with details: %w", err)
	}
	return acks, nil
}

// GetAcceptedDocumentIDs возвращает ID документов, принятых пользователем
func (r *LegalAcknowledgmentRepo) GetAcceptedDocumentIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.LegalAcknowledgment{}).
		Where("user_id = ? AND acknowledgment_status = ?", userID, entity.AcknowledgmentStatusAccepted).
		Distinct().
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get accepted document ids: %w", err)
	}
	return ids, nil
}

// GetAcceptedVersionsByType возвращает последнюю принятую версию для каждого типа документа
func (r *LegalAcknowledgmentRepo) GetAcceptedVersionsByType(userID uint) (map[string]string, error) {
	type row struct {
		DocumentType string
		Version      string
	}
	var rows []row
	err := r.db.Model(&entity.LegalAcknowledgment{}).
		Select("legal_documents.document_type AS document_type, legal_documents.version AS version").
		Joins("JOIN legal_documents ON legal_documents.id = legal_acknowledgments.document_id").
		Where("legal_acknowledgments.user_id = ? AND legal_acknowledgments.acknowledgment_status = ?",
			userID, entity.AcknowledgmentStatusAccepted).
		Order("legal_acknowledgments.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get accepted versions: %w", err)
	}

	// Более позднее принятие перекрывает более раннее для того же типа
	versions := make(map[string]string, len(rows))
	for _, r := range rows {
		versions[r.DocumentType] = r.Version
	}
	return versions, nil
}

// UpdateStatus обновляет статус существующего подтверждения
func (r *LegalAcknowledgmentRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.LegalAcknowledgment{}).
		Where("id = ?", id).
		Update("acknowledgment_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update acknowledgment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
