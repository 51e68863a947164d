package scenario

import (
	"regexp"
	"strings"
)

const (
	// ConfidenceThreshold is the minimum confidence for automatic dispatch.
	ConfidenceThreshold = 0.75

	hardGateConfidence = 0.95
	keywordWeight      = 0.2
	contextBonus       = 0.1
	ambiguityMargin    = 0.15
	ambiguityPenalty   = 0.8
)

type hardGate struct {
	scenario Scenario
	patterns []*regexp.Regexp
}

// hardGates are evaluated in declaration order against the whole normalized
// input; the first matching pattern decides the scenario outright.
var hardGates = []hardGate{
	// NB: regexp's \b is ASCII-only and never fires next to Cyrillic
	// letters, so word starts are anchored on whitespace instead.
	{CounterpartyCheck, compileAll(
		`проверь?\s+инн`,
		`(^|\s)инн\s*[:№]?\s*\d`,
		`(^|\s)огрн(\s|$|\s*[:№]?\s*\d)`,
		`провер(ь|ка|ить)\s+(контрагент|компани)`,
	)},
	{RiskTable, compileAll(
		`таблиц\S*\s+риск`,
		`риск\S*\s+по\s+договор`,
	)},
	{ClaimResponse, compileAll(
		`ответ\S*\s+на\s+претензи`,
	)},
	{ContractAgentRF, compileAll(
		`провер(ь|ить)\s+договор`,
		`договор\S*\s+(поставки|аренды|подряда|оказания\s+услуг)`,
	)},
	{DisputePreparation, compileAll(
		`подготов\S*\s+к\s+спору`,
		`судебн\S*\s+спор`,
	)},
	{LegalOpinion, compileAll(
		`юридическ\S*\s+заключени`,
		`правов\S*\s+заключени`,
	)},
	{CaseLawAnalytics, compileAll(
		`судебн\S*\s+практик`,
	)},
	{DocumentStructuring, compileAll(
		`структур\S*\s+(документ|иск|заявлени|договор)`,
	)},
	{ClientExplanation, compileAll(
		`объясн\S*\s+клиент`,
	)},
	{BusinessContext, compileAll(
		`делов\S*\s+переписк`,
	)},
}

// keywords drive phase-two soft scoring; each distinct hit adds a fixed
// weight and is counted at most once.
var keywords = map[Scenario][]string{
	CounterpartyCheck:   {"инн", "контрагент", "компани", "огрн", "проверк"},
	RiskTable:           {"риск", "таблиц", "договор", "анализ"},
	ClaimResponse:       {"претензи", "ответ", "требовани"},
	ContractAgentRF:     {"договор", "пункт", "услови", "сторон"},
	DisputePreparation:  {"спор", "суд", "иск", "позици"},
	LegalOpinion:        {"заключени", "правов", "оценк", "норм"},
	CaseLawAnalytics:    {"практик", "судебн", "решени", "инстанци"},
	DocumentStructuring: {"структур", "документ", "шаблон", "заявлени"},
	ClientExplanation:   {"объясн", "клиент", "простыми", "ситуаци"},
	BusinessContext:     {"переписк", "письмо", "делов", "контекст"},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}

// Route classifies text into a scenario with a confidence in [0, 1].
// Hard gates win immediately; otherwise distinct keyword hits are summed
// with context bonuses, with an ambiguity penalty when the runner-up is
// close. Identical input always yields an identical classification.
func Route(text string, ctx Context) Classification {
	normalized := normalize(text)
	if normalized == "" {
		return Classification{Scenario: Default, Confidence: 0}
	}

	for _, gate := range hardGates {
		for _, pattern := range gate.patterns {
			if pattern.MatchString(normalized) {
				return Classification{
					Scenario:    gate.scenario,
					Confidence:  hardGateConfidence,
					MatchedRule: pattern.String(),
				}
			}
		}
	}

	bonus := 0.0
	if ctx.HasAttachment {
		bonus += contextBonus
	}
	if ctx.HasCounterpartyInfo {
		bonus += contextBonus
	}

	var (
		best, second Classification
		found        bool
	)
	for _, sc := range priority {
		hits := 0
		for _, kw := range keywords[sc] {
			if strings.Contains(normalized, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits)*keywordWeight + bonus
		switch {
		case !found || score > best.Confidence:
			second = best
			best = Classification{Scenario: sc, Confidence: score}
			found = true
		case score > second.Confidence:
			second = Classification{Scenario: sc, Confidence: score}
		}
	}

	if !found {
		return Classification{Scenario: Default, Confidence: 0}
	}
	if second.Scenario != "" && best.Confidence-second.Confidence < ambiguityMargin {
		best.Confidence *= ambiguityPenalty
	}
	best.Confidence = clamp01(best.Confidence)
	return best
}

// IsConfident reports whether a classification is trusted for automatic
// dispatch without a clarifying round trip.
func IsConfident(confidence float64) bool {
	return confidence >= ConfidenceThreshold
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
