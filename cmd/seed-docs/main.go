package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ezcall100/logistics-lynx-api/internal/config"
	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
	pgRepo "github.com/ezcall100/logistics-lynx-api/internal/repository/postgres"
	"github.com/ezcall100/logistics-lynx-api/pkg/database"
)

// seedDocuments — стартовый каталог: по одной версии 1.0.0 каждого типа.
// Тексты документов ведет юридический отдел; здесь заглушки для локальной разработки.
var seedDocuments = []entity.LegalDocument{
	{
		DocumentType: entity.DocumentTypeMasterAgreement,
		Version:      "1.0.0",
		Title:        "Broker-Carrier Master Agreement",
		Content:      "This Master Agreement governs the relationship between the broker and the carrier...",
	},
	{
		DocumentType: entity.DocumentTypeTermsOfUse,
		Version:      "1.0.0",
		Title:        "Terms of Use",
		Content:      "These Terms of Use govern your access to and use of the portal...",
	},
	{
		DocumentType: entity.DocumentTypePrivacyPolicy,
		Version:      "1.0.0",
		Title:        "Privacy Policy",
		Content:      "This Privacy Policy describes how we collect, use and share personal information...",
	},
	{
		DocumentType: entity.DocumentTypeCommunicationsConsent,
		Version:      "1.0.0",
		Title:        "Communications Consent",
		Content:      "By accepting you consent to receive transactional and operational communications...",
	},
	{
		DocumentType: entity.DocumentTypeWirelessPolicy,
		Version:      "1.0.0",
		Title:        "Wireless Communications Policy",
		Content:      "This policy covers SMS and mobile notifications related to dispatch and loads...",
	},
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	documentRepo := pgRepo.NewLegalDocumentRepo(db)

	now := time.Now()
	seeded := 0
	for _, doc := range seedDocuments {
		// Пропускаем типы, у которых уже есть активная версия
		if _, err := documentRepo.GetActiveByType(doc.DocumentType); err == nil {
			log.Printf("Тип %s уже имеет активную версию, пропускаем", doc.DocumentType)
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Fatalf("Failed to check active document for %s: %v", doc.DocumentType, err)
		}

		doc.EffectiveDate = now
		doc.IsActive = true
		if err := documentRepo.Create(&doc); err != nil {
			log.Fatalf("Failed to seed document %s: %v", doc.DocumentType, err)
		}
		log.Printf("Документ %s v%s добавлен", doc.DocumentType, doc.Version)
		seeded++
	}

	log.Printf("Готово: добавлено документов: %d", seeded)
}
