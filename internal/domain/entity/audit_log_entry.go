package entity

import "time"

// Типы записей журнала онбординга
const (
	VerificationTypeLegalAcknowledgment = "legal_acknowledgment"
	// VerificationTypeCompensation фиксирует попытку компенсирующей очистки
	// после частичного сбоя записи подтверждения.
	VerificationTypeCompensation = "legal_acknowledgment_compensation"
)

// Статусы верификации в журнале
const (
	VerificationStatusVerified = "verified"
	VerificationStatusDeclined = "declined"
	VerificationStatusFailed   = "failed"
)

// AuditLogEntry — строка журнала onboarding_audit_log. Журнал append-only:
// поток записи подтверждений его никогда не читает, потребители — внешняя отчетность.
type AuditLogEntry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	VerificationType   string    `gorm:"size:60;not null;index" json:"verification_type"`
	VerificationData   string    `gorm:"type:jsonb" json:"verification_data"`
	VerificationScore  int       `gorm:"not null;default:0" json:"verification_score"`
	VerificationStatus string    `gorm:"size:20;not null" json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (AuditLogEntry) TableName() string {
	return "onboarding_audit_log"
}
