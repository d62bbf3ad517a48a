package dto

import (
	"time"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// AcknowledgmentDetailDTO — строка детального просмотра портала аудита:
// подтверждение, развернутое заголовком/версией документа и именем подписанта
type AcknowledgmentDetailDTO struct {
	ID              uint       `json:"id"`
	DocumentType    string     `json:"document_type"`
	DocumentTitle   string     `json:"document_title"`
	DocumentVersion string     `json:"document_version"`
	Status          string     `json:"status"`
	SignerFullName  string     `json:"signer_full_name,omitempty"`
	IPAddress       string     `json:"ip_address,omitempty"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt      *time.Time `json:"declined_at,omitempty"`
	DeclineReason   string     `json:"decline_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// UserAuditDetailResponse — ответ детального просмотра по одному пользователю
type UserAuditDetailResponse struct {
	Summary         *entity.LegalAuditRecord  `json:"summary"`
	Acknowledgments []AcknowledgmentDetailDTO `json:"acknowledgments"`
}

// RollupListResponse — ответ списка сводок портала аудита
type RollupListResponse struct {
	Records []entity.LegalAuditRecord `json:"records"`
	Total   int                       `json:"total"`
}
