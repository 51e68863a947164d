package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error { return nil }, &out)
	if code != 0 {
		t.Fatalf("code=%d want 0", code)
	}
	if out.Len() != 0 {
		t.Fatalf("output=%q want empty", out.String())
	}
}

func TestRunMainPlainError(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error { return errors.New("boom") }, &out)
	if code != 1 {
		t.Fatalf("code=%d want 1", code)
	}
	if got := out.String(); got != "boom\n" {
		t.Fatalf("output=%q want %q", got, "boom\n")
	}
}

func TestRunMainCanceled(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error { return context.Canceled }, &out)
	if code != 130 {
		t.Fatalf("code=%d want 130", code)
	}
	if got := out.String(); got != "canceled\n" {
		t.Fatalf("output=%q want %q", got, "canceled\n")
	}
}

func TestRunMainExitError(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error {
		return &exitError{code: 3, err: errors.New("not found")}
	}, &out)
	if code != 3 {
		t.Fatalf("code=%d want 3", code)
	}
	if !strings.Contains(out.String(), "not found") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestRunMainSilentExitError(t *testing.T) {
	var out bytes.Buffer
	code := runMain(func() error {
		return &exitError{code: 4, silent: true}
	}, &out)
	if code != 4 {
		t.Fatalf("code=%d want 4", code)
	}
	if out.Len() != 0 {
		t.Fatalf("output=%q want empty", out.String())
	}
}

func TestExitErrorWithoutInnerError(t *testing.T) {
	ee := &exitError{code: 5}
	if got := ee.Error(); got != "exit status 5" {
		t.Fatalf("Error()=%q want %q", got, "exit status 5")
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	ee := &exitError{code: 2, err: inner}
	if !errors.Is(ee, inner) {
		t.Fatal("exitError must unwrap to the inner error")
	}
}
