package entity

import "time"

// Статусы подтверждения документа
const (
	AcknowledgmentStatusPending  = "pending"
	AcknowledgmentStatusAccepted = "accepted"
	AcknowledgmentStatusDeclined = "declined"
	AcknowledgmentStatusExpired  = "expired"
)

// LegalAcknowledgment фиксирует решение пользователя (принял/отклонил) по одной
// версии юридического документа.
// Инварианты (проверяются на уровне сервиса):
//   - SignatureID установлен тогда и только тогда, когда статус accepted;
//   - DeclineReason обязателен и непуст, когда статус declined.
type LegalAcknowledgment struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;index" json:"user_id"`
	SessionID            string     `gorm:"size:64;index" json:"session_id,omitempty"`
	DocumentID           uint       `gorm:"not null;index" json:"document_id"`
	SignatureID          *uint      `gorm:"index" json:"signature_id,omitempty"`
	AcknowledgmentStatus string     `gorm:"size:20;not null;default:'pending';index" json:"acknowledgment_status"`
	IPAddress            string     `gorm:"size:50" json:"ip_address,omitempty"`
	UserAgent            string     `gorm:"type:text" json:"user_agent,omitempty"`
	AcceptedAt           *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt           *time.Time `json:"declined_at,omitempty"`
	DeclineReason        string     `gorm:"type:text" json:"decline_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Document  *LegalDocument `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Signature *UserSignature `gorm:"foreignKey:SignatureID" json:"signature,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (LegalAcknowledgment) TableName() string {
	return "legal_acknowledgments"
}

// IsAccepted проверяет, принят ли документ
func (a *LegalAcknowledgment) IsAccepted() bool {
	return a.AcknowledgmentStatus == AcknowledgmentStatusAccepted
}

// IsDeclined проверяет, отклонен ли документ
func (a *LegalAcknowledgment) IsDeclined() bool {
	return a.AcknowledgmentStatus == AcknowledgmentStatusDeclined
}
