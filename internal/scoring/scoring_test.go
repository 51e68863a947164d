package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/pravobot/pravobot/internal/registry"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEvaluator() Evaluator {
	return Evaluator{Now: func() time.Time { return testNow }}
}

func boolPtr(v bool) *bool { return &v }

func completeRecord() registry.Record {
	return registry.Record{
		TaxID:            "7707083893",
		Name:             "ПАО Сбербанк",
		OGRN:             "1027700132195",
		KPP:              "773601001",
		Address:          "г Москва, ул Вавилова, д 19",
		Director:         "Греф Герман Оскарович",
		Status:           registry.StatusActive,
		RegistrationDate: "1991-03-22",
		MassAddress:      boolPtr(false),
		MassDirector:     boolPtr(false),
	}
}

func TestEvaluate_NoRiskFactors(t *testing.T) {
	got := newEvaluator().Evaluate(completeRecord())
	if got.Level != LevelLow {
		t.Fatalf("Level = %q, want %q", got.Level, LevelLow)
	}
	if len(got.Reasons) != 1 || got.Reasons[0] != noRiskFactorsReason {
		t.Fatalf("Reasons = %v, want exactly the no-risk reason", got.Reasons)
	}
}

func TestEvaluate_NonActiveStatusIsHigh(t *testing.T) {
	rec := completeRecord()
	rec.Status = "LIQUIDATED"
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelHigh {
		t.Fatalf("Level = %q, want %q", got.Level, LevelHigh)
	}
	found := false
	for _, r := range got.Reasons {
		if strings.Contains(r, "LIQUIDATED") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Reasons = %v, want non-active status entry", got.Reasons)
	}
}

func TestEvaluate_HighNeverDowngrades(t *testing.T) {
	// Status rule fires first and sets High; later medium rules still
	// append reasons but must not lower the level.
	rec := completeRecord()
	rec.Status = "BANKRUPT"
	rec.MassAddress = boolPtr(true)
	rec.RegistrationDate = testNow.AddDate(0, -1, 0).Format("2006-01-02")
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelHigh {
		t.Fatalf("Level = %q, want %q", got.Level, LevelHigh)
	}
	if len(got.Reasons) < 3 {
		t.Fatalf("Reasons = %v, want entries from all triggered rules", got.Reasons)
	}
}

func TestEvaluate_MassFlags(t *testing.T) {
	rec := completeRecord()
	rec.MassAddress = boolPtr(true)
	rec.MassDirector = boolPtr(true)
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelMedium {
		t.Fatalf("Level = %q, want %q", got.Level, LevelMedium)
	}
	if len(got.Reasons) != 2 {
		t.Fatalf("Reasons = %v, want two mass-flag entries", got.Reasons)
	}
}

func TestEvaluate_NilFlagsAreNotRisky(t *testing.T) {
	rec := completeRecord()
	rec.MassAddress = nil
	rec.MassDirector = nil
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelLow {
		t.Fatalf("Level = %q, want %q for absent flags", got.Level, LevelLow)
	}
}

func TestEvaluate_MissingFields(t *testing.T) {
	rec := completeRecord()
	rec.KPP = ""
	rec.Director = "  "
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelMedium {
		t.Fatalf("Level = %q, want %q", got.Level, LevelMedium)
	}
	if len(got.Reasons) != 1 {
		t.Fatalf("Reasons = %v, want one missing-fields entry", got.Reasons)
	}
	if !strings.Contains(got.Reasons[0], "КПП") || !strings.Contains(got.Reasons[0], "руководитель") {
		t.Fatalf("Reasons[0] = %q, want both missing field names", got.Reasons[0])
	}
}

func TestEvaluate_RecentRegistration(t *testing.T) {
	tests := []struct {
		name string
		date string
		want Level
	}{
		{name: "one month old", date: testNow.AddDate(0, -1, 0).Format("2006-01-02"), want: LevelMedium},
		{name: "179 days old", date: testNow.Add(-179 * 24 * time.Hour).Format("2006-01-02"), want: LevelMedium},
		{name: "one year old", date: testNow.AddDate(-1, 0, 0).Format("2006-01-02"), want: LevelLow},
		{name: "unparseable", date: "not-a-date", want: LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			rec.RegistrationDate = tt.date
			if got := newEvaluator().Evaluate(rec); got.Level != tt.want {
				t.Fatalf("Level = %q, want %q", got.Level, tt.want)
			}
		})
	}
}

func TestEvaluate_MissingRegistrationDateIsMissingField(t *testing.T) {
	rec := completeRecord()
	rec.RegistrationDate = ""
	got := newEvaluator().Evaluate(rec)
	if got.Level != LevelMedium {
		t.Fatalf("Level = %q, want %q", got.Level, LevelMedium)
	}
}
