package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestDocument() *LegalDocument {
	return &LegalDocument{
		DocumentType:  DocumentTypeTermsOfUse,
		Version:       "1.0.0",
		Title:         "Terms of Use",
		Content:       "Full text of the terms.",
		EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLegalDocument_Validate_Valid(t *testing.T) {
	// Arrange
	doc := validTestDocument()

	// Act
	result := doc.Validate()

	// Assert
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestLegalDocument_Validate_CollectsAllErrors(t *testing.T) {
	// Arrange: все поля невалидны — проверка никогда не падает на первой ошибке
	doc := &LegalDocument{
		DocumentType: "side_letter",
		Version:      "one",
	}

	// Act
	result := doc.Validate()

	// Assert
	require.False(t, result.IsValid)
	assert.Len(t, result.Errors, 5, "Все проблемы собираются за один проход")
}

func TestLegalDocument_Validate_VersionFormat(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"1.0.0", true},
		{"10.25.3", true},
		{"1.0", false},
		{"v1.0.0", false},
		{"1.0.0-beta", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			doc := validTestDocument()
			doc.Version = tt.version

			result := doc.Validate()

			assert.Equal(t, tt.valid, result.IsValid, "версия %q", tt.version)
		})
	}
}

func TestIsKnownDocumentType(t *testing.T) {
	for _, docType := range AllDocumentTypes {
		assert.True(t, IsKnownDocumentType(docType), "Тип %q должен быть известен", docType)
	}
	assert.False(t, IsKnownDocumentType("side_letter"))
	assert.False(t, IsKnownDocumentType(""))
}
