package pipeline

import (
	"fmt"

	"lookup-workers/internal/lookup/report"
	"lookup-workers/internal/models"
)

const (
	personExampleDate = "Иванов Петр Петрович 06.04.1994"
	personExampleYear = "Иванов Петр Петрович 1994"
	phoneExample      = "79250000000"

	// SearchingText is shown while the lookup call is in flight.
	SearchingText = "⏳ Ищу данные…"
	// FailureText replaces any output when a turn fails unexpectedly or the
	// reply cannot be delivered. It carries no markup.
	FailureText = "Ошибка: не удалось обработать запрос. Попробуйте новый поиск."
)

// Messages renders the fixed user-facing texts with a report renderer.
type Messages struct {
	r report.Renderer
}

func NewMessages(r report.Renderer) Messages {
	return Messages{r: r}
}

// InvalidQuery is the format hint for a query rejected in mode.
func (m Messages) InvalidQuery(mode models.LookupMode) string {
	if mode == models.LookupModePhone {
		return m.r.Text("⚠️ Укажи номер как ") + m.r.Code(phoneExample) + m.r.Text(" (можно +7/8).")
	}
	return m.r.Text("⚠️ Формат не распознан. Примеры:") + "\n" +
		m.r.Code(personExampleDate) + m.r.Text(" или ") + m.r.Code(personExampleYear)
}

// HTTPError reports a non-2xx answer from the lookup service.
func (m Messages) HTTPError(statusCode int) string {
	return m.r.Text(fmt.Sprintf("HTTP ошибка: %d", statusCode))
}

// Timeout reports a lookup call that ran out of time.
func (m Messages) Timeout() string {
	return m.r.Text("⚠️ Сервис поиска не ответил вовремя. Попробуйте позже.")
}

// Failure is FailureText in the renderer's markup.
func (m Messages) Failure() string {
	return m.r.Text(FailureText)
}

// ChooseMode is the menu prompt.
func (m Messages) ChooseMode() string {
	return m.r.Text("Выберите тип поиска:")
}

// Prompt asks for the query text once a mode is chosen.
func (m Messages) Prompt(mode models.LookupMode) string {
	if mode == models.LookupModePhone {
		return m.r.Text("✍ Введите номер телефона в формате ") + m.r.Code(phoneExample) +
			m.r.Text(" (можно с +7 или 8).")
	}
	return m.r.Text("✍ Введите запрос в ОДНОЙ строке:") + "\n" +
		m.r.Text("• ") + m.r.Code(personExampleDate) + "\n" +
		m.r.Text("• ") + m.r.Code(personExampleYear)
}
