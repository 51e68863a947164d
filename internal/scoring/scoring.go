// Package scoring maps a registry record to a counterparty risk level with
// human-readable reasons. The level only escalates during one evaluation
// and never downgrades once raised.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/pravobot/pravobot/internal/registry"
)

// Level is the overall risk grade, ordered Low < Medium < High.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

var levelRank = map[Level]int{LevelLow: 1, LevelMedium: 2, LevelHigh: 3}

// Assessment is the scorer output. Reasons are ordered by rule declaration.
type Assessment struct {
	Level   Level
	Reasons []string
}

// youngEntityAge is the registration age below which an entity is flagged.
const youngEntityAge = 180 * 24 * time.Hour

const noRiskFactorsReason = "Критичных факторов риска не выявлено"

// Evaluator scores registry records against the fixed rule set. The zero
// value uses the wall clock; tests inject Now.
type Evaluator struct {
	Now func() time.Time
}

// Evaluate runs every rule unconditionally in fixed order. Each triggered
// rule appends a reason and raises the level monotonically; rules after a
// High verdict still contribute reasons but never lower the level.
func (e Evaluator) Evaluate(rec registry.Record) Assessment {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	level := LevelLow
	var reasons []string

	raise := func(candidate Level) {
		if levelRank[candidate] > levelRank[level] {
			level = candidate
		}
	}

	if status := strings.TrimSpace(rec.Status); status != "" && !rec.IsActive() {
		reasons = append(reasons, fmt.Sprintf("Статус компании в реестре: %s", status))
		raise(LevelHigh)
	}

	if rec.MassAddress != nil && *rec.MassAddress {
		reasons = append(reasons, "Отмечен признак массового адреса регистрации")
		raise(LevelMedium)
	}

	if rec.MassDirector != nil && *rec.MassDirector {
		reasons = append(reasons, "Отмечен признак массового/номинального руководителя")
		raise(LevelMedium)
	}

	if missing := missingFields(rec); len(missing) > 0 {
		reasons = append(reasons, "Отсутствуют критичные реквизиты: "+strings.Join(missing, ", "))
		raise(LevelMedium)
	}

	if recentlyRegistered(rec.RegistrationDate, now()) {
		reasons = append(reasons, "Компания зарегистрирована менее 6 месяцев назад")
		raise(LevelMedium)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, noRiskFactorsReason)
	}
	return Assessment{Level: level, Reasons: reasons}
}

func missingFields(rec registry.Record) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"наименование", rec.Name},
		{"ОГРН", rec.OGRN},
		{"КПП", rec.KPP},
		{"адрес", rec.Address},
		{"руководитель", rec.Director},
		{"дата регистрации", rec.RegistrationDate},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func recentlyRegistered(isoDate string, now time.Time) bool {
	if isoDate == "" {
		return false
	}
	registered, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return false
	}
	return now.Sub(registered) < youngEntityAge
}
