package entity

import "time"

// Типы подписей
const (
	SignatureTypeLegalConsent          = "legal_consent"
	SignatureTypeInsuranceVerification = "insurance_verification"
	SignatureTypeComplianceAgreement   = "compliance_agreement"
)

// UserSignature хранит электронную подпись пользователя, снятую при принятии документа.
// Запись создается один раз и не изменяется; удаление возможно только как
// компенсирующее действие, если зависимая запись подтверждения не была сохранена.
type UserSignature struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	SessionID     string    `gorm:"size:64;index" json:"session_id,omitempty"`
	SignatureType string    `gorm:"size:40;not null;default:'legal_consent'" json:"signature_type"`
	FullLegalName string    `gorm:"size:200;not null" json:"full_legal_name"`
	SignatureData string    `gorm:"type:text" json:"signature_data"`
	IPAddress     string    `gorm:"size:50" json:"ip_address,omitempty"`
	UserAgent     string    `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (UserSignature) TableName() string {
	return "user_signatures"
}
