package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezcall100/logistics-lynx-api/internal/domain/entity"
)

// ============================================================================
// Тесты для конечного автомата мастера согласий
// ============================================================================

func newTestWizard(t *testing.T, docCount int) *Wizard {
	docs := make([]entity.LegalDocument, 0, docCount)
	for i := 1; i <= docCount; i++ {
		docs = append(docs, entity.LegalDocument{
			ID:           uint(i),
			DocumentType: entity.DocumentTypeTermsOfUse,
			Version:      "1.0.0",
			IsActive:     true,
		})
	}
	w, err := NewWizard(docs)
	require.NoError(t, err)
	return w
}

// completeCurrentStep выполняет все четыре условия перехода на текущем шаге
func completeCurrentStep(w *Wizard) {
	w.UpdateScroll(900, 100, 1000)
	w.SetAccepted(true)
	w.SetFullLegalName("John Freight Carrier")
	w.SetSignature("data:image/png;base64,AAAA")
}

func TestNewWizard_NoDocuments(t *testing.T) {
	w, err := NewWizard(nil)

	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestWizard_ScrollThreshold(t *testing.T) {
	w := newTestWizard(t, 1)

	// Прокрутка до 95% документа высотой 1000px: 850 + 100 = 950 < 1000 - 24
	w.UpdateScroll(850, 100, 1000)
	assert.False(t, w.CurrentProgress().HasScrolled, "95% прокрутки недостаточно")

	// В пределах допуска до низа: 880 + 100 = 980 >= 976
	w.UpdateScroll(880, 100, 1000)
	assert.True(t, w.CurrentProgress().HasScrolled, "Прокрутка в пределах допуска засчитывается")
}

func TestWizard_ScrollIsMonotonic(t *testing.T) {
	w := newTestWizard(t, 1)

	w.UpdateScroll(900, 100, 1000)
	require.True(t, w.CurrentProgress().HasScrolled)

	// Прокрутка обратно вверх не сбрасывает признак
	w.UpdateScroll(0, 100, 1000)
	assert.True(t, w.CurrentProgress().HasScrolled, "Достигнутый низ документа не сбрасывается")
}

func TestWizard_CanAdvance_RequiresAllFourConditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(w *Wizard)
	}{
		{
			name: "без прокрутки",
			setup: func(w *Wizard) {
				w.SetAccepted(true)
				w.SetFullLegalName("John Carrier")
				w.SetSignature("sig")
			},
		},
		{
			name: "без чекбокса",
			setup: func(w *Wizard) {
				w.UpdateScroll(900, 100, 1000)
				w.SetFullLegalName("John Carrier")
				w.SetSignature("sig")
			},
		},
		{
			name: "без имени",
			setup: func(w *Wizard) {
				w.UpdateScroll(900, 100, 1000)
				w.SetAccepted(true)
				w.SetSignature("sig")
			},
		},
		{
			name: "без подписи",
			setup: func(w *Wizard) {
				w.UpdateScroll(900, 100, 1000)
				w.SetAccepted(true)
				w.SetFullLegalName("John Carrier")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWizard(t, 2)
			tt.setup(w)

			assert.False(t, w.CanAdvance(), "Переход требует всех четырёх условий")
			assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
			assert.Equal(t, 0, w.Index, "Индекс не должен измениться")
		})
	}
}

func TestWizard_NextAdvancesWhenComplete(t *testing.T) {
	w := newTestWizard(t, 3)
	completeCurrentStep(w)

	err := w.Next()

	require.NoError(t, err)
	assert.Equal(t, 1, w.Index)
	assert.False(t, w.CurrentProgress().HasScrolled, "Новый шаг начинается с чистого состояния")
}

func TestWizard_NextOnLastStep(t *testing.T) {
	w := newTestWizard(t, 1)
	completeCurrentStep(w)

	err := w.Next()

	assert.ErrorIs(t, err, ErrNotLastStep, "На последнем документе Next запрещён — только отправка")
}

func TestWizard_PreviousKeepsState(t *testing.T) {
	w := newTestWizard(t, 2)
	completeCurrentStep(w)
	require.NoError(t, w.Next())

	// Возврат назад не требует валидации и сохраняет заполненное состояние
	w.Previous()

	assert.Equal(t, 0, w.Index)
	assert.True(t, w.CurrentProgress().HasScrolled)
	assert.Equal(t, "John Freight Carrier", w.CurrentProgress().FullLegalName)
	assert.True(t, w.CanAdvance(), "Пройденный шаг остаётся пройденным")
}

func TestWizard_PreviousOnFirstStep(t *testing.T) {
	w := newTestWizard(t, 2)

	w.Previous()

	assert.Equal(t, 0, w.Index, "С первого документа назад уйти нельзя")
}

func TestWizard_BeginSubmit_OnlyOnLastStep(t *testing.T) {
	w := newTestWizard(t, 2)
	completeCurrentStep(w)

	err := w.BeginSubmit()

	assert.ErrorIs(t, err, ErrNotLastStep)
	assert.False(t, w.Submitting)
}

func TestWizard_BeginSubmit_DoubleSubmitGuard(t *testing.T) {
	w := newTestWizard(t, 1)
	completeCurrentStep(w)

	require.NoError(t, w.BeginSubmit())

	// Повторная отправка до завершения первой
	err := w.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmissionInFlight, "Повторный BeginSubmit должен быть отклонён")
}

func TestWizard_PreviousBlockedWhileSubmitting(t *testing.T) {
	w := newTestWizard(t, 2)
	completeCurrentStep(w)
	require.NoError(t, w.Next())
	completeCurrentStep(w)
	require.NoError(t, w.BeginSubmit())

	w.Previous()

	assert.Equal(t, 1, w.Index, "Навигация заблокирована на время отправки")
}

func TestWizard_FinishSubmit_FailureAllowsRetry(t *testing.T) {
	w := newTestWizard(t, 1)
	completeCurrentStep(w)
	require.NoError(t, w.BeginSubmit())

	w.FinishSubmit(false)

	assert.False(t, w.Completed)
	assert.NoError(t, w.BeginSubmit(), "После неудачной отправки допустим повтор")
}

func TestWizard_FinishSubmit_SuccessIsTerminal(t *testing.T) {
	w := newTestWizard(t, 1)
	completeCurrentStep(w)
	require.NoError(t, w.BeginSubmit())

	w.FinishSubmit(true)

	assert.True(t, w.Completed)
	assert.ErrorIs(t, w.BeginSubmit(), ErrWizardCompleted)
	assert.ErrorIs(t, w.Next(), ErrWizardCompleted)
}
