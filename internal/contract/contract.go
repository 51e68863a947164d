// Package contract builds deterministic risk tables from contract text.
// Both analysis modes are total functions: any input yields a well-formed
// result and item ordering always follows detector declaration order.
package contract

import "strings"

// Level grades probability and impact. Absence of a grade is an explicit
// Unknown, never an empty string standing in for null.
type Level string

const (
	LevelLow     Level = "Низкая"
	LevelMedium  Level = "Средняя"
	LevelHigh    Level = "Высокая"
	LevelUnknown Level = "TBD"
)

// RiskItem is one immutable row of the risk table.
type RiskItem struct {
	Risk        string
	Consequence string
	Probability Level
	Impact      Level
	Mitigation  string
}

// Result is the analyzer output. Items are ordered by detector declaration,
// not by position of the trigger in the input.
type Result struct {
	Items             []RiskItem
	MissingCategories []string
}

// minTextLength is the normalized length below which the input is treated
// as an excerpt rather than a contract.
const minTextLength = 200

// missingInputCategories is the fixed category list reported for short input.
var missingInputCategories = []string{
	"полный текст договора",
	"сведения о сторонах",
	"предмет договора",
	"условия оплаты",
	"сроки исполнения",
}

type detector struct {
	keywords []string
	item     RiskItem
}

// detectors run independently and in order; one firing never suppresses
// another.
var detectors = []detector{
	{
		keywords: []string{"неустойк", "штраф", "пени"},
		item: RiskItem{
			Risk:        "Высокие штрафные санкции",
			Consequence: "Рост финансовых потерь при нарушении обязательств",
			Probability: LevelMedium,
			Impact:      LevelHigh,
			Mitigation:  "Уточнить лимиты штрафов и предусмотреть сроки устранения нарушений",
		},
	},
	{
		keywords: []string{"односторонн"},
		item: RiskItem{
			Risk:        "Одностороннее расторжение",
			Consequence: "Контрагент может прекратить договор без компенсаций",
			Probability: LevelMedium,
			Impact:      LevelMedium,
			Mitigation:  "Согласовать условия уведомления и компенсации",
		},
	},
	{
		keywords: []string{"конфиденциал", "персональн", "gdpr", "152-фз"},
		item: RiskItem{
			Risk:        "Нарушение конфиденциальности/ПДн",
			Consequence: "Штрафы регуляторов и репутационные потери",
			Probability: LevelLow,
			Impact:      LevelHigh,
			Mitigation:  "Прописать меры защиты и ответственность сторон",
		},
	},
	{
		keywords: []string{"срок", "этап", "календарн"},
		item: RiskItem{
			Risk:        "Нереалистичные сроки исполнения",
			Consequence: "Срывы обязательств и штрафы",
			Probability: LevelMedium,
			Impact:      LevelMedium,
			Mitigation:  "Согласовать реалистичный график и порядок изменения сроков",
		},
	},
	{
		keywords: []string{"оплат", "аванс", "предоплат"},
		item: RiskItem{
			Risk:        "Риск невозврата предоплаты",
			Consequence: "Потеря денежных средств при расторжении",
			Probability: LevelMedium,
			Impact:      LevelMedium,
			Mitigation:  "Определить условия возврата и этапы приемки",
		},
	},
	{
		keywords: []string{"форс-мажор", "непреодолим"},
		item: RiskItem{
			Risk:        "Форс-мажор",
			Consequence: "Приостановка обязательств без ответственности сторон",
			Probability: LevelLow,
			Impact:      LevelMedium,
			Mitigation:  "Проверить порядок уведомления и подтверждения обстоятельств",
		},
	},
}

// Analyze is the canonical keyword-detector mode. Short input yields a
// single placeholder row plus the fixed missing-category list; otherwise
// every detector whose keyword occurs appends its hand-authored row, and a
// generic row is emitted when nothing fires.
func Analyze(text string) Result {
	normalized := normalize(text)
	if len([]rune(normalized)) < minTextLength {
		return Result{
			Items: []RiskItem{{
				Risk:        "Недостаточно данных для анализа",
				Consequence: "TBD",
				Probability: LevelUnknown,
				Impact:      LevelUnknown,
				Mitigation:  "TBD",
			}},
			MissingCategories: append([]string(nil), missingInputCategories...),
		}
	}

	var items []RiskItem
	for _, d := range detectors {
		for _, kw := range d.keywords {
			if strings.Contains(normalized, kw) {
				items = append(items, d.item)
				break
			}
		}
	}

	if len(items) == 0 {
		items = append(items, RiskItem{
			Risk:        "Явные рисковые условия не обнаружены",
			Consequence: "Ключевые условия договора требуют подтверждения",
			Probability: LevelUnknown,
			Impact:      LevelUnknown,
			Mitigation:  "Проверить вручную предмет, оплату, сроки, ответственность и порядок расторжения",
		})
	}
	return Result{Items: items}
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
