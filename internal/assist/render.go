package assist

import (
	"fmt"
	"strings"

	"github.com/pravobot/pravobot/internal/contract"
	"github.com/pravobot/pravobot/internal/registry"
	"github.com/pravobot/pravobot/internal/scenario"
	"github.com/pravobot/pravobot/internal/scoring"
)

const (
	startMessage = "Здравствуйте! Я юридический ассистент.\n\n" +
		"Пришлите ИНН, чтобы проверить контрагента, или опишите задачу: " +
		"таблица рисков по договору, ответ на претензию, правовое заключение и другое.\n\n" +
		"Команды: /help, /prompts, /status"

	helpMessage = "Что я умею:\n" +
		"• проверка контрагента по ИНН (10 или 12 цифр);\n" +
		"• таблица рисков по тексту договора или вложенному файлу (.txt, .md, .html);\n" +
		"• подбор сценария работы по описанию задачи.\n\n" +
		"Команды: /start, /help, /prompts, /status"

	unknownCommandMessage = "Не знаю такую команду. Доступны: /start, /help, /prompts, /status"

	lookupDisabledMessage = "Проверка контрагентов сейчас не настроена. " +
		"Обратитесь к администратору сервиса."

	lookupFailedMessage = "Не удалось получить данные из реестра. Попробуйте позже."

	unsupportedAttachmentMessage = "Этот формат вложения не поддерживается. " +
		"Пришлите текст договора файлом .txt, .md или .html."

	attachmentFailedMessage = "Не удалось загрузить вложение. Попробуйте ещё раз."

	statusNoMemoryMessage = "Сервис работает. Память диалога не настроена."

	accessDeniedMessage = "Доступ запрещён. Обратитесь к администратору сервиса."

	messageTooLongMessage = "Сообщение слишком длинное. " +
		"Пришлите ИНН (10 или 12 цифр) или краткое описание задачи."

	fieldMissing = "не указано"
)

var scenarioTitles = map[scenario.Scenario]string{
	scenario.CounterpartyCheck:   "Проверка контрагента",
	scenario.RiskTable:           "Таблица рисков по договору",
	scenario.ClaimResponse:       "Ответ на претензию",
	scenario.ContractAgentRF:     "Агентский договор (РФ)",
	scenario.DisputePreparation:  "Подготовка к судебному спору",
	scenario.LegalOpinion:        "Правовое заключение",
	scenario.CaseLawAnalytics:    "Аналитика судебной практики",
	scenario.DocumentStructuring: "Структурирование юридического документа",
	scenario.ClientExplanation:   "Разъяснение для клиента",
	scenario.BusinessContext:     "Бизнес-контекст задачи",
}

func scenarioTitle(sc scenario.Scenario) string {
	if title, ok := scenarioTitles[sc]; ok {
		return title
	}
	return string(sc)
}

func renderCompanyCard(rec registry.Record, a scoring.Assessment) string {
	var b strings.Builder
	b.WriteString("*Карточка контрагента*\n\n")
	writeField(&b, "ИНН", rec.TaxID)
	writeField(&b, "Наименование", rec.Name)
	writeField(&b, "ОГРН", rec.OGRN)
	writeField(&b, "КПП", rec.KPP)
	writeField(&b, "Адрес", rec.Address)
	writeField(&b, "Руководитель", rec.Director)
	writeField(&b, "Статус", rec.Status)
	writeField(&b, "Дата регистрации", rec.RegistrationDate)

	fmt.Fprintf(&b, "\n*Уровень риска:* %s\n", a.Level)
	for _, reason := range a.Reasons {
		fmt.Fprintf(&b, "• %s\n", reason)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = fieldMissing
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func renderInvalidTaxID(taxID string) string {
	return fmt.Sprintf("ИНН %s не проходит проверку контрольных цифр. "+
		"Проверьте номер и пришлите его ещё раз.", taxID)
}

func renderNotFound(taxID string) string {
	return fmt.Sprintf("Организация с ИНН %s не найдена в реестре. "+
		"Проверьте номер и пришлите его ещё раз.", taxID)
}

func renderRiskTable(res contract.Result) string {
	var b strings.Builder
	b.WriteString("*Таблица рисков*\n\n")
	b.WriteString("| № | Риск | Последствия | Вероятность | Влияние | Меры реагирования |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, item := range res.Items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, item.Risk, item.Consequence, item.Probability, item.Impact, item.Mitigation)
	}

	if len(res.MissingCategories) > 0 {
		b.WriteString("\n*Для полного анализа не хватает:*\n")
		for _, category := range res.MissingCategories {
			fmt.Fprintf(&b, "• %s\n", category)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderQuestions(sc scenario.Scenario, questions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Похоже, вам нужно: *%s*. Чтобы продолжить, уточните:\n", scenarioTitle(sc))
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderScenarioBrief acknowledges a confidently routed scenario and lists
// the inputs it needs.
func renderScenarioBrief(sc scenario.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Сценарий: *%s*.\n\nДля подготовки пришлите:\n", scenarioTitle(sc))
	for i, q := range scenario.ClarifyingQuestions(sc) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPrompts() string {
	var b strings.Builder
	b.WriteString("Доступные сценарии:\n")
	for i, sc := range scenario.All() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, scenarioTitle(sc))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStatus(historyLen int) string {
	return fmt.Sprintf("Сервис работает. Сообщений в памяти диалога: %d.", historyLen)
}
