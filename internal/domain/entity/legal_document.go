package entity

import (
	"fmt"
	"regexp"
	"time"
)

// Типы юридических документов
const (
	DocumentTypeMasterAgreement       = "master_agreement"
	DocumentTypeTermsOfUse            = "terms_of_use"
	DocumentTypePrivacyPolicy         = "privacy_policy"
	DocumentTypeCommunicationsConsent = "communications_consent"
	DocumentTypeWirelessPolicy        = "wireless_policy"
)

// AllDocumentTypes перечисляет все известные типы документов в каноническом порядке
var AllDocumentTypes = []string{
	DocumentTypeMasterAgreement,
	DocumentTypeTermsOfUse,
	DocumentTypePrivacyPolicy,
	DocumentTypeCommunicationsConsent,
	DocumentTypeWirelessPolicy,
}

// versionPattern задает формат семантической версии документа (major.minor.patch)
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// LegalDocument представляет одну опубликованную версию юридического документа.
// Записи неизменяемы: новая версия — это новая запись, предыдущая деактивируется.
type LegalDocument struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DocumentType  string    `gorm:"size:50;not null;index;uniqueIndex:idx_doc_type_version" json:"document_type"`
	Version       string    `gorm:"size:20;not null;uniqueIndex:idx_doc_type_version" json:"version"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
	IsActive      bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (LegalDocument) TableName() string {
	return "legal_documents"
}

// DocumentValidationResult содержит результат проверки документа
type DocumentValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// IsKnownDocumentType проверяет, что тип документа входит в известный перечень
func IsKnownDocumentType(docType string) bool {
	for _, t := range AllDocumentTypes {
		if t == docType {
			return true
		}
	}
	return false
}

// Validate выполняет чистую проверку содержимого документа.
// Никогда не паникует и не возвращает error — все проблемы собираются в Errors.
func (d *LegalDocument) Validate() DocumentValidationResult {
	var errs []string

	if !IsKnownDocumentType(d.DocumentType) {
		errs = append(errs, fmt.Sprintf("unknown document type: %q", d.DocumentType))
	}
	if d.Title == "" {
		errs = append(errs, "title is required")
	}
	if d.Content == "" {
		errs = append(errs, "content is required")
	}
	if !versionPattern.MatchString(d.Version) {
		errs = append(errs, fmt.Sprintf("version %q does not match major.minor.patch", d.Version))
	}
	if d.EffectiveDate.IsZero() {
		errs = append(errs, "effective date is required")
	}

	return DocumentValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
