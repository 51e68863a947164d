package contract

import "strings"

type section struct {
	name     string
	keywords []string
	item     RiskItem
}

// requiredSections are the legal sections every RF contract is expected to
// contain; the structural report checks for their absence.
var requiredSections = []section{
	{
		name:     "предмет договора",
		keywords: []string{"предмет договора", "предметом договора"},
		item: RiskItem{
			Risk:        "Не определён предмет договора",
			Consequence: "Риск признания договора незаключённым",
			Probability: LevelMedium,
			Impact:      LevelHigh,
			Mitigation:  "Добавить раздел с точным описанием предмета договора",
		},
	},
	{
		name:     "цена и порядок оплаты",
		keywords: []string{"цена", "стоимость", "порядок оплаты", "оплат"},
		item: RiskItem{
			Risk:        "Отсутствуют условия о цене и оплате",
			Consequence: "Споры о размере и сроках платежей",
			Probability: LevelMedium,
			Impact:      LevelHigh,
			Mitigation:  "Зафиксировать цену, валюту и график платежей",
		},
	},
	{
		name:     "сроки исполнения",
		keywords: []string{"срок исполнения", "сроки исполнения", "срок выполнения", "срок поставки"},
		item: RiskItem{
			Risk:        "Не согласованы сроки исполнения",
			Consequence: "Невозможно зафиксировать просрочку контрагента",
			Probability: LevelMedium,
			Impact:      LevelMedium,
			Mitigation:  "Добавить календарные сроки или порядок их определения",
		},
	},
	{
		name:     "ответственность сторон",
		keywords: []string{"ответственность"},
		item: RiskItem{
			Risk:        "Не установлена ответственность сторон",
			Consequence: "Затруднено взыскание убытков и неустойки",
			Probability: LevelMedium,
			Impact:      LevelMedium,
			Mitigation:  "Добавить раздел об ответственности и неустойках",
		},
	},
	{
		name:     "порядок расторжения",
		keywords: []string{"расторжени", "прекращени договора"},
		item: RiskItem{
			Risk:        "Не определён порядок расторжения",
			Consequence: "Выход из договора потребует суда",
			Probability: LevelLow,
			Impact:      LevelMedium,
			Mitigation:  "Согласовать основания и процедуру расторжения",
		},
	},
	{
		name:     "форс-мажор",
		keywords: []string{"форс-мажор", "непреодолим"},
		item: RiskItem{
			Risk:        "Отсутствует оговорка о форс-мажоре",
			Consequence: "Ответственность сохраняется при чрезвычайных обстоятельствах",
			Probability: LevelLow,
			Impact:      LevelMedium,
			Mitigation:  "Добавить стандартную оговорку о непреодолимой силе",
		},
	},
}

// AnalyzeStructure is the section-presence mode: it reports the absence of
// required legal sections. One row per missing section, each missing
// section name recorded in MissingCategories; a contract with no gaps
// yields a single informational row.
func AnalyzeStructure(text string) Result {
	normalized := normalize(text)

	var result Result
	for _, s := range requiredSections {
		present := false
		for _, kw := range s.keywords {
			if strings.Contains(normalized, kw) {
				present = true
				break
			}
		}
		if !present {
			result.Items = append(result.Items, s.item)
			result.MissingCategories = append(result.MissingCategories, s.name)
		}
	}

	if len(result.Items) == 0 {
		result.Items = append(result.Items, RiskItem{
			Risk:        "Структурные пробелы не обнаружены",
			Consequence: "Все обязательные разделы присутствуют",
			Probability: LevelLow,
			Impact:      LevelLow,
			Mitigation:  "Дополнительная проверка формулировок по существу",
		})
	}
	return result
}
