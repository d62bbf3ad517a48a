package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
	"github.com/ezcall100/logistics-lynx-api/internal/domain/repository"
	apperrors "github.com/ezcall100/logistics-lynx-api/internal/pkg/errors"
)

// Статусные фильтры портала аудита
const (
	AuditStatusAll       = "all"
	AuditStatusCompleted = "completed"
	AuditStatusPending   = "pending"
	AuditStatusDeclined  = "declined"
)

// AuditFilter — фильтр списка сводок: подстрока по email/userID и статус
type AuditFilter struct {
	Query  string
	Status string
}

// AuditSort — сортировка списка сводок по одному полю
type AuditSort struct {
	Field string
	Desc  bool
}

// UserAuditDetail — детальный просмотр: сводка пользователя и его подтверждения
// с документом и подписантом, новые первыми (порядок задан запросом)
type UserAuditDetail struct {
	Summary         *entity.LegalAuditRecord     `json:"summary"`
	Acknowledgments []entity.LegalAcknowledgment `json:"acknowledgments"`
}

// AuditService — поверхность чтения портала аудита: список сводок с фильтром
// и сортировкой, детальный просмотр по пользователю. Операций записи нет.
type AuditService struct {
	auditRepo repository.LegalAuditRepository
	ackRepo   repository.LegalAcknowledgmentRepository
}

// NewAuditService создает новый сервис портала аудита
func NewAuditService(
	auditRepo repository.LegalAuditRepository,
	ackRepo repository.LegalAcknowledgmentRepository,
) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		ackRepo:   ackRepo,
	}
}

// ListRollups возвращает сводки, отфильтрованные и отсортированные на стороне
// приложения: так же, как это делал клиентский портал.
func (s *AuditService) ListRollups(filter AuditFilter, sortBy AuditSort) ([]entity.LegalAuditRecord, error) {
	records, err := s.auditRepo.GetAll()
	if err != nil {
		return nil, err
	}

	filtered := filterRollups(records, filter)
	sortRollups(filtered, sortBy)
	return filtered, nil
}

// UserDetail возвращает сводку и подтверждения одного пользователя
func (s *AuditService) UserDetail(userID uint) (*UserAuditDetail, error) {
	summary, err := s.auditRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	acks, err := s.ackRepo.GetByUserIDWithDetails(userID)
	if err != nil {
		return nil, err
	}

	return &UserAuditDetail{
		Summary:         summary,
		Acknowledgments: acks,
	}, nil
}

// filterRollups применяет подстрочный фильтр по email/userID и статусный фильтр
func filterRollups(records []entity.LegalAuditRecord, filter AuditFilter) []entity.LegalAuditRecord {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	status := filter.Status
	if status == "" {
		status = AuditStatusAll
	}

	result := make([]entity.LegalAuditRecord, 0, len(records))
	for _, r := range records {
		if query != "" {
			emailMatch := strings.Contains(strings.ToLower(r.Email), query)
			idMatch := strings.Contains(strconv.FormatUint(uint64(r.UserID), 10), query)
			if !emailMatch && !idMatch {
				continue
			}
		}
		if !matchStatus(&r, status) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// matchStatus проверяет попадание сводки в статусный фильтр.
// declined — есть хотя бы одно отклонение; completed — согласие завершено;
// pending — не завершено и без отклонений.
func matchStatus(r *entity.LegalAuditRecord, status string) bool {
	switch status {
	case AuditStatusCompleted:
		return r.ConsentCompleted
	case AuditStatusDeclined:
		return r.DeclinedCount > 0
	case AuditStatusPending:
		return !r.ConsentCompleted && r.DeclinedCount == 0
	default:
		return true
	}
}

// sortRollups сортирует сводки по полю. Сравнение null-safe: отсутствующие
// значения упорядочиваются как пустая строка.
func sortRollups(records []entity.LegalAuditRecord, sortBy AuditSort) {
	if sortBy.Field == "" {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		if sortBy.Desc {
			i, j = j, i
		}
		return rollupLess(&records[i], &records[j], sortBy.Field)
	})
}

// rollupLess сравнивает две сводки по одному полю
func rollupLess(a, b *entity.LegalAuditRecord, field string) bool {
	switch field {
	case "user_id":
		return a.UserID < b.UserID
	case "email":
		return strings.ToLower(a.Email) < strings.ToLower(b.Email)
	case "total_acknowledgments":
		return a.TotalAcknowledgments < b.TotalAcknowledgments
	case "accepted_count":
		return a.AcceptedCount < b.AcceptedCount
	case "declined_count":
		return a.DeclinedCount < b.DeclinedCount
	case "pending_count":
		return a.PendingCount < b.PendingCount
	case "legal_consent_score":
		return a.LegalConsentScore < b.LegalConsentScore
	case "consent_completed":
		return !a.ConsentCompleted && b.ConsentCompleted
	case "last_accepted_at":
		return timeString(a.LastAcceptedAt) < timeString(b.LastAcceptedAt)
	case "last_updated_at":
		return timeString(a.LastUpdatedAt) < timeString(b.LastUpdatedAt)
	default:
		return false
	}
}

// timeString приводит время к сравнимой строке; nil — пустая строка
func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ValidateSortField проверяет, что поле сортировки известно
func ValidateSortField(field string) error {
	switch field {
	case "", "user_id", "email", "total_acknowledgments", "accepted_count",
		"declined_count", "pending_count", "legal_consent_score",
		"consent_completed", "last_accepted_at", "last_updated_at":
		return nil
	default:
		return fmt.Errorf("%w: unknown sort field %q", apperrors.ErrValidation, field)
	}
}
