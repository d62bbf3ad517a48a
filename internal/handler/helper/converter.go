package helper

import (
	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	"github.com/ezcall100/logistics-lynx-api/internal/handler/dto"
)

// ConvertAcknowledgmentToDetail разворачивает подтверждение в строку детального
// просмотра: заголовок/версия документа и имя подписанта берутся из связанных
// записей, если они загружены
func ConvertAcknowledgmentToDetail(ack *entity.LegalAcknowledgment) dto.AcknowledgmentDetailDTO {
	detail := dto.AcknowledgmentDetailDTO{
		ID:            ack.ID,
		Status:        ack.AcknowledgmentStatus,
		IPAddress:     ack.IPAddress,
		AcceptedAt:    ack.AcceptedAt,
		DeclinedAt:    ack.DeclinedAt,
		DeclineReason: ack.DeclineReason,
		CreatedAt:     ack.CreatedAt,
	}
	if ack.Document != nil {
		detail.DocumentType = ack.Document.DocumentType
		detail.DocumentTitle = ack.Document.Title
		detail.DocumentVersion = ack.Document.Version
	}
	if ack.Signature != nil {
		detail.SignerFullName = ack.Signature.FullLegalName
	}
	return detail
}

// ConvertAcknowledgmentsToDetails преобразует список подтверждений, сохраняя порядок
func ConvertAcknowledgmentsToDetails(acks []entity.LegalAcknowledgment) []dto.AcknowledgmentDetailDTO {
	details := make([]dto.AcknowledgmentDetailDTO, len(acks))
	for i := range acks {
		details[i] = ConvertAcknowledgmentToDetail(&acks[i])
	}
	return details
}
