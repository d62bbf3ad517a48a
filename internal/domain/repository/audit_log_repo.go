package repository

import "github.com/ezcall100/logistics-lynx-api/internal/domain/entity"

// AuditLogRepository интерфейс для append-only журнала онбординга
type AuditLogRepository interface {
	// Append добавляет запись в журнал. Журнал никогда не обновляется и не читается
	// потоком записи подтверждений.
	Append(entry *entity.AuditLogEntry) error
}
