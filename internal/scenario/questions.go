package scenario

// genericQuestions are asked when no scenario-specific templates exist.
var genericQuestions = []string{
	"Уточните, пожалуйста, какую задачу нужно решить?",
	"Есть ли документы или дополнительный контекст по вашему вопросу?",
}

var clarifyingQuestions = map[Scenario][]string{
	CounterpartyCheck: {
		"Укажите ИНН или ОГРН контрагента.",
		"Нужна ли оценка риска по результатам проверки?",
	},
	RiskTable: {
		"Приложите полный текст договора или его ключевые разделы.",
		"Какие условия сделки вызывают наибольшие опасения?",
	},
	ClaimResponse: {
		"Приложите текст претензии, на которую нужно ответить.",
		"Признаёте ли вы требования полностью, частично или не признаёте?",
	},
	ContractAgentRF: {
		"Какой тип договора нужно проверить (поставка, аренда, подряд, услуги)?",
		"На чьей стороне вы выступаете по договору?",
	},
	DisputePreparation: {
		"Опишите предмет спора и текущую стадию (досудебная, суд).",
		"Какие доказательства и документы уже есть?",
	},
	LegalOpinion: {
		"По какому вопросу требуется заключение?",
		"Какие нормы или договорные условия нужно оценить?",
	},
	CaseLawAnalytics: {
		"По какой категории споров нужна практика?",
		"За какой период и по каким судам искать решения?",
	},
	DocumentStructuring: {
		"Какой документ нужно структурировать (иск, договор, заявление)?",
		"Какие ключевые факты должны войти в документ?",
	},
	ClientExplanation: {
		"Какую ситуацию нужно объяснить клиенту?",
		"Какой уровень детализации требуется?",
	},
	BusinessContext: {
		"С кем ведётся переписка и на каком этапе она находится?",
		"Какой результат переписки вы хотите получить?",
	},
}

// ClarifyingQuestions returns the ordered question templates for a
// scenario, falling back to two generic questions for unknown scenarios.
func ClarifyingQuestions(sc Scenario) []string {
	questions, ok := clarifyingQuestions[sc]
	if !ok {
		questions = genericQuestions
	}
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}
