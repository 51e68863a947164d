package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"serve", "worker", "migrate", "lookup", "route"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("%s command not registered: cmd=%v err=%v", name, cmd, err)
		}
	}
}

func TestRouteCommandConfidentClassification(t *testing.T) {
	var out bytes.Buffer
	cmd := routeCmd
	cmd.SetOut(&out)

	if err := runRoute(cmd, "нужен ответ на претензию поставщика"); err != nil {
		t.Fatalf("runRoute: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "scenario:   claim_response") {
		t.Fatalf("output=%q", got)
	}
	if strings.Contains(got, "clarifying questions") {
		t.Fatalf("confident classification should not print questions: %q", got)
	}
}

func TestRouteCommandVagueTextPrintsQuestions(t *testing.T) {
	var out bytes.Buffer
	cmd := routeCmd
	cmd.SetOut(&out)

	if err := runRoute(cmd, "помогите разобраться"); err != nil {
		t.Fatalf("runRoute: %v", err)
	}
	if !strings.Contains(out.String(), "clarifying questions") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestLookupCommandRejectsInvalidTaxID(t *testing.T) {
	err := runLookup(lookupCmd, "1234567890")
	if err == nil {
		t.Fatal("expected checksum error")
	}
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 2 {
		t.Fatalf("err=%v want exit code 2", err)
	}
}
