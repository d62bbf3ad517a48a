package consent

import (
	"errors"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// ScrollBottomThreshold — допуск (в пикселях) до нижней границы документа,
// при котором прокрутка считается завершенной.
const ScrollBottomThreshold = 24.0

// Ошибки переходов мастера согласий
var (
	// ErrNoDocuments возвращается при попытке создать мастер без документов
	ErrNoDocuments = errors.New("wizard requires at least one document")

	// ErrStepIncomplete возвращается, когда текущий шаг не удовлетворяет
	// всем условиям перехода (прокрутка, подпись, имя, чекбокс)
	ErrStepIncomplete = errors.New("current step is not complete")

	// ErrSubmissionInFlight возвращается при попытке повторной отправки,
	// пока предыдущая еще выполняется
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrNotLastStep возвращается, когда отправка инициирована не на последнем документе
	ErrNotLastStep = errors.New("submission allowed only on the last document")

	// ErrWizardCompleted возвращается при попытке изменить завершенный мастер
	ErrWizardCompleted = errors.New("wizard already completed")
)

// DocumentProgress — состояние одного документа в мастере. Четыре условия
// отслеживаются независимо и перепроверяются при каждом изменении ввода.
type DocumentProgress struct {
	HasScrolled   bool   `json:"has_scrolled"`
	IsAccepted    bool   `json:"is_accepted"`
	Signature     string `json:"signature"`
	FullLegalName string `json:"full_legal_name"`
}

// Wizard — явный конечный автомат пошагового принятия документов.
// Документы проходятся строго по порядку, без пропусков; все переходы —
// чистые функции над этим состоянием, без привязки к UI.
type Wizard struct {
	Documents  []entity.LegalDocument `json:"documents"`
	Index      int                    `json:"index"`
	Progress   []DocumentProgress     `json:"progress"`
	Submitting bool                   `json:"submitting"`
	Completed  bool                   `json:"completed"`
}

// NewWizard создает мастер для упорядоченного списка документов
func NewWizard(documents []entity.LegalDocument) (*Wizard, error) {
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}
	return &Wizard{
		Documents: documents,
		Index:     0,
		Progress:  make([]DocumentProgress, len(documents)),
	}, nil
}

// Current возвращает текущий документ
func (w *Wizard) Current() *entity.LegalDocument {
	return &w.Documents[w.Index]
}

// CurrentProgress возвращает состояние текущего документа
func (w *Wizard) CurrentProgress() *DocumentProgress {
	return &w.Progress[w.Index]
}

// IsLast проверяет, что текущий документ — последний
func (w *Wizard) IsLast() bool {
	return w.Index == len(w.Documents)-1
}

// UpdateScroll пересчитывает признак полной прокрутки по позиции вьюпорта.
// Признак монотонен: однажды достигнутый низ документа не сбрасывается.
func (w *Wizard) UpdateScroll(scrollOffset, viewportHeight, contentHeight float64) {
	p := w.CurrentProgress()
	if scrollOffset+viewportHeight >= contentHeight-ScrollBottomThreshold {
		p.HasScrolled = true
	}
}

// SetSignature сохраняет данные подписи для текущего документа
func (w *Wizard) SetSignature(signatureData string) {
	w.CurrentProgress().Signature = signatureData
}

// SetFullLegalName сохраняет полное юридическое имя для текущего документа
func (w *Wizard) SetFullLegalName(name string) {
	w.CurrentProgress().FullLegalName = name
}

// SetAccepted переключает чекбокс принятия текущего документа
func (w *Wizard) SetAccepted(accepted bool) {
	w.CurrentProgress().IsAccepted = accepted
}

// CanAdvance проверяет конъюнктивное условие перехода: документ прокручен до
// конца, чекбокс отмечен, имя и подпись непусты. Это не последовательный
// переход — все четыре условия независимы.
func (w *Wizard) CanAdvance() bool {
	p := w.CurrentProgress()
	return p.HasScrolled && p.IsAccepted && p.FullLegalName != "" && p.Signature != ""
}

// Next переходит к следующему документу. На последнем документе переход
// невозможен — там инициируется отправка через BeginSubmit.
func (w *Wizard) Next() error {
	if w.Completed {
		return ErrWizardCompleted
	}
	if w.Submitting {
		return ErrSubmissionInFlight
	}
	if !w.CanAdvance() {
		return ErrStepIncomplete
	}
	if w.IsLast() {
		return ErrNotLastStep
	}
	w.Index++
	return nil
}

// Previous возвращается к уже пройденному документу. Заполненное состояние
// сохраняется и повторно не проверяется.
func (w *Wizard) Previous() {
	if w.Index > 0 && !w.Submitting {
		w.Index--
	}
}

// BeginSubmit блокирует мастер на время финальной отправки. Допустим только на
// последнем документе при выполненных условиях перехода; повторный вызов до
// FinishSubmit возвращает ErrSubmissionInFlight.
func (w *Wizard) BeginSubmit() error {
	if w.Completed {
		return ErrWizardCompleted
	}
	if w.Submitting {
		return ErrSubmissionInFlight
	}
	if !w.IsLast() {
		return ErrNotLastStep
	}
	if !w.CanAdvance() {
		return ErrStepIncomplete
	}
	w.Submitting = true
	return nil
}

// FinishSubmit снимает блокировку отправки. При успехе мастер переходит в
// терминальное состояние, при неудаче допускается повторная отправка.
func (w *Wizard) FinishSubmit(success bool) {
	w.Submitting = false
	if success {
		w.Completed = true
	}
}
