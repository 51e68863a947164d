package contract

import (
	"strings"
	"testing"
)

// filler pads input past the short-text cutoff without touching any
// detector keyword.
const filler = "настоящий документ содержит общие положения о взаимодействии " +
	"участников и не содержит иных условий кроме перечисленных ниже по тексту "

func longText(parts ...string) string {
	text := strings.Join(parts, " ") + " " + strings.Repeat(filler, 4)
	return text
}

func TestAnalyze_ShortInput(t *testing.T) {
	for _, text := range []string{"", "короткий текст", strings.Repeat("a", 199)} {
		got := Analyze(text)
		if len(got.Items) != 1 {
			t.Fatalf("Analyze(short) items = %d, want 1", len(got.Items))
		}
		item := got.Items[0]
		if item.Probability != LevelUnknown || item.Impact != LevelUnknown {
			t.Fatalf("placeholder grades = %q/%q, want TBD/TBD", item.Probability, item.Impact)
		}
		if len(got.MissingCategories) != 5 {
			t.Fatalf("missing categories = %d, want 5", len(got.MissingCategories))
		}
		if got.MissingCategories[0] != "полный текст договора" {
			t.Fatalf("first missing category = %q", got.MissingCategories[0])
		}
	}
}

func TestAnalyze_DetectorsFireIndependently(t *testing.T) {
	text := longText(
		"за просрочку начисляется неустойка в размере 0,1 процента",
		"подрядчик обрабатывает персональные данные заказчика",
		"аванс перечисляется в течение пяти дней",
	)
	got := Analyze(text)
	if len(got.Items) < 3 {
		t.Fatalf("items = %d, want >= 3", len(got.Items))
	}
	// Declaration order: penalties before confidentiality before payment.
	var order []string
	for _, item := range got.Items {
		order = append(order, item.Risk)
	}
	wantOrder := []string{
		"Высокие штрафные санкции",
		"Нарушение конфиденциальности/ПДн",
		"Риск невозврата предоплаты",
	}
	idx := 0
	for _, risk := range order {
		if idx < len(wantOrder) && risk == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("item order = %v, want subsequence %v", order, wantOrder)
	}
	if len(got.MissingCategories) != 0 {
		t.Fatalf("missing categories = %v, want none", got.MissingCategories)
	}
}

func TestAnalyze_OrderIsDeclarationNotInputOrder(t *testing.T) {
	// Force majeure appears first in the text, penalties last; the table
	// must still list penalties first.
	text := longText("стороны освобождаются от ответственности при форс-мажоре, далее о штрафах")
	got := Analyze(text)
	if len(got.Items) < 2 {
		t.Fatalf("items = %d, want >= 2", len(got.Items))
	}
	if got.Items[0].Risk != "Высокие штрафные санкции" {
		t.Fatalf("first item = %q, want penalties row", got.Items[0].Risk)
	}
}

func TestAnalyze_NoDetectorFires(t *testing.T) {
	got := Analyze(strings.Repeat(filler, 4))
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1 generic row", len(got.Items))
	}
	if got.Items[0].Risk != "Явные рисковые условия не обнаружены" {
		t.Fatalf("generic row = %q", got.Items[0].Risk)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := longText("неустойка, срок исполнения, аванс")
	first := Analyze(text)
	for i := 0; i < 20; i++ {
		again := Analyze(text)
		if len(again.Items) != len(first.Items) {
			t.Fatalf("run %d: items = %d, want %d", i, len(again.Items), len(first.Items))
		}
		for j := range first.Items {
			if again.Items[j] != first.Items[j] {
				t.Fatalf("run %d: item %d differs", i, j)
			}
		}
	}
}

func TestAnalyzeStructure_MissingSections(t *testing.T) {
	got := AnalyzeStructure("предметом договора является поставка оборудования, цена согласована")
	if len(got.MissingCategories) == 0 {
		t.Fatal("want missing sections for a fragment")
	}
	if len(got.Items) != len(got.MissingCategories) {
		t.Fatalf("items = %d, missing = %d, want equal", len(got.Items), len(got.MissingCategories))
	}
	for _, name := range got.MissingCategories {
		if name == "предмет договора" || name == "цена и порядок оплаты" {
			t.Fatalf("section %q reported missing but present", name)
		}
	}
}

func TestAnalyzeStructure_Complete(t *testing.T) {
	text := "предмет договора: поставка. цена и порядок оплаты определены. " +
		"срок исполнения 30 дней. ответственность сторон ограничена. " +
		"порядок расторжения согласован. форс-мажор освобождает от ответственности."
	got := AnalyzeStructure(text)
	if len(got.MissingCategories) != 0 {
		t.Fatalf("missing = %v, want none", got.MissingCategories)
	}
	if len(got.Items) != 1 || got.Items[0].Risk != "Структурные пробелы не обнаружены" {
		t.Fatalf("items = %+v, want single no-gaps row", got.Items)
	}
}
