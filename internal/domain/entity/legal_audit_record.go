package entity

import "time"

// LegalAuditRecord — строка агрегированного представления legal_audit_summary:
// сводка по юридическим согласиям одного пользователя. Представление только для
// чтения, вычисляется базой данных.
type LegalAuditRecord struct {
	UserID               uint       `gorm:"column:user_id;primaryKey" json:"user_id"`
	Email                string     `gorm:"column:email" json:"email"`
	TotalAcknowledgments int        `gorm:"column:total_acknowledgments" json:"total_acknowledgments"`
	AcceptedCount        int        `gorm:"column:accepted_count" json:"accepted_count"`
	DeclinedCount        int        `gorm:"column:declined_count" json:"declined_count"`
	PendingCount         int        `gorm:"column:pending_count" json:"pending_count"`
	LastAcceptedAt       *time.Time `gorm:"column:last_accepted_at" json:"last_accepted_at,omitempty"`
	LastUpdatedAt        *time.Time `gorm:"column:last_updated_at" json:"last_updated_at,omitempty"`
	LegalConsentScore    int        `gorm:"column:legal_consent_score" json:"legal_consent_score"`
	ConsentCompleted     bool       `gorm:"column:consent_completed" json:"consent_completed"`
}

// TableName определяет имя представления для GORM
func (LegalAuditRecord) TableName() string {
	return "legal_audit_summary"
}
