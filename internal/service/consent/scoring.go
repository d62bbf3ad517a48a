package consent

import (
	"math"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// Score вычисляет итоговый балл согласия пользователя по шкале 0-10:
// доля принятых активных документов, умноженная на 10 и округленная до
// ближайшего целого. Если активных документов нет, балл равен 0.
// Отклоненные и ожидающие подтверждения документы в числитель не входят.
func Score(activeDocuments []entity.LegalDocument, acknowledgments []entity.LegalAcknowledgment) int {
	if len(activeDocuments) == 0 {
		return 0
	}

	accepted := acceptedDocumentSet(acknowledgments)

	count := 0
	for _, doc := range activeDocuments {
		if accepted[doc.ID] {
			count++
		}
	}

	return int(math.Round(10 * float64(count) / float64(len(activeDocuments))))
}

// Completed возвращает true, когда каждый активный документ принят пользователем
// (есть подтверждение со статусом accepted, ссылающееся именно на активную версию).
// При пустом каталоге активных документов согласие считается незавершенным.
func Completed(activeDocuments []entity.LegalDocument, acknowledgments []entity.LegalAcknowledgment) bool {
	if len(activeDocuments) == 0 {
		return false
	}

	accepted := acceptedDocumentSet(acknowledgments)

	for _, doc := range activeDocuments {
		if !accepted[doc.ID] {
			return false
		}
	}
	return true
}

// acceptedDocumentSet собирает множество ID документов с принятыми подтверждениями
func acceptedDocumentSet(acknowledgments []entity.LegalAcknowledgment) map[uint]bool {
	accepted := make(map[uint]bool, len(acknowledgments))
	for _, ack := range acknowledgments {
		if ack.AcknowledgmentStatus == entity.AcknowledgmentStatusAccepted {
			accepted[ack.DocumentID] = true
		}
	}
	return accepted
}
