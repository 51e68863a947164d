package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
)

type fakeEvents struct {
	dialogs []string
	texts   []string
	err     error
}

func (f *fakeEvents) HandleWorkspaceMessage(_ context.Context, dialogID, text string) error {
	f.dialogs = append(f.dialogs, dialogID)
	f.texts = append(f.texts, text)
	return f.err
}

func newEventContext(t *testing.T, form url.Values) (*echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/bitrix/event", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func messageAddForm(dialogID, text string) url.Values {
	form := url.Values{}
	form.Set(formEventKey, eventMessageAdd)
	form.Set(formDialogKey, dialogID)
	form.Set(formMessageKey, text)
	form.Set(formFromUserKey, "15")
	form.Set(formBotIDKey, "8")
	return form
}

func TestBitrixEventsDispatchesMessage(t *testing.T) {
	events := &fakeEvents{}
	h := &Handlers{Events: events}

	c, rec := newEventContext(t, messageAddForm("chat42", "проверь ИНН 7707083893"))
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusOK)
	}
	if len(events.dialogs) != 1 || events.dialogs[0] != "chat42" {
		t.Fatalf("dialogs=%v want [chat42]", events.dialogs)
	}
	if events.texts[0] != "проверь ИНН 7707083893" {
		t.Fatalf("text=%q", events.texts[0])
	}
}

func TestBitrixEventsIgnoresOtherEventTypes(t *testing.T) {
	events := &fakeEvents{}
	h := &Handlers{Events: events}

	form := messageAddForm("chat42", "привет")
	form.Set(formEventKey, "ONIMBOTJOINCHAT")
	c, rec := newEventContext(t, form)
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusOK)
	}
	if len(events.dialogs) != 0 {
		t.Fatalf("dialogs=%v want none", events.dialogs)
	}
}

func TestBitrixEventsIgnoresOwnMessages(t *testing.T) {
	events := &fakeEvents{}
	h := &Handlers{Events: events}

	form := messageAddForm("chat42", "эхо от бота")
	form.Set(formFromUserKey, "8")
	c, _ := newEventContext(t, form)
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if len(events.dialogs) != 0 {
		t.Fatalf("dialogs=%v want none", events.dialogs)
	}
}

func TestBitrixEventsMissingDialogIgnored(t *testing.T) {
	events := &fakeEvents{}
	h := &Handlers{Events: events}

	c, rec := newEventContext(t, messageAddForm("", "текст"))
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusOK)
	}
	if len(events.dialogs) != 0 {
		t.Fatalf("dialogs=%v want none", events.dialogs)
	}
}

func TestBitrixEventsProcessingFailureStillAcknowledges(t *testing.T) {
	events := &fakeEvents{err: errors.New("boom")}
	h := &Handlers{Events: events}

	c, rec := newEventContext(t, messageAddForm("chat42", "текст"))
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusOK)
	}
}

func TestBitrixEventsWithoutProcessorDropsEvent(t *testing.T) {
	h := &Handlers{}

	c, rec := newEventContext(t, messageAddForm("chat42", "текст"))
	if err := h.HandleBitrixEvents(c); err != nil {
		t.Fatalf("HandleBitrixEvents: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want %d", rec.Code, http.StatusOK)
	}
}
