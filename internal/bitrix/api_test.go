package bitrix

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"
)

// apiHandler serves both the token endpoint and the imbot REST method so
// one test server covers the full send path.
func apiHandler(t *testing.T, messages *[]url.Values) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token/":
			tokenHandler(t, nil, false)(w, r)
		case "/rest/imbot.message.add.json":
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			*messages = append(*messages, r.PostForm)
			fmt.Fprint(w, `{"result": 1}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestAPIClientSendMessage(t *testing.T) {
	var messages []url.Values
	store := NewMemoryStore()
	m := newTestManager(t, apiHandler(t, &messages), store)

	err := store.Put(context.Background(), Credential{
		Domain:       m.Domain(),
		AccessToken:  "at-live",
		RefreshToken: "rt-live",
		ExpiresAt:    testNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	client := &APIClient{Manager: m}
	if err := client.SendMessage(context.Background(), "chat42", "Договор проверен."); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	form := messages[0]
	if got := form.Get("auth"); got != "at-live" {
		t.Fatalf("auth = %q, want at-live", got)
	}
	if got := form.Get("DIALOG_ID"); got != "chat42" {
		t.Fatalf("DIALOG_ID = %q, want chat42", got)
	}
	if got := form.Get("MESSAGE"); got != "Договор проверен." {
		t.Fatalf("MESSAGE = %q", got)
	}
}

func TestAPIClientSendMessageRefreshesExpiredToken(t *testing.T) {
	var messages []url.Values
	store := NewMemoryStore()
	m := newTestManager(t, apiHandler(t, &messages), store)

	err := store.Put(context.Background(), Credential{
		Domain:       m.Domain(),
		AccessToken:  "at-stale",
		RefreshToken: "rt-stale",
		ExpiresAt:    testNow.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	client := &APIClient{Manager: m}
	if err := client.SendMessage(context.Background(), "chat42", "привет"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	if got := messages[0].Get("auth"); got != "at-refresh_token" {
		t.Fatalf("auth = %q, want the refreshed token", got)
	}
}

func TestAPIClientSendMessageNotConfigured(t *testing.T) {
	var messages []url.Values
	m := newTestManager(t, apiHandler(t, &messages), NewMemoryStore())

	client := &APIClient{Manager: m}
	err := client.SendMessage(context.Background(), "chat42", "привет")
	if err == nil {
		t.Fatal("expected error without a stored credential")
	}
	if len(messages) != 0 {
		t.Fatalf("messages = %d, want 0", len(messages))
	}
}

func TestAPIClientSendMessageSurfacesAPIError(t *testing.T) {
	store := NewMemoryStore()
	handler := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONG_AUTH_TYPE","error_description":"Current authorization type denied"}`)
	}
	m := newTestManager(t, handler, store)

	err := store.Put(context.Background(), Credential{
		Domain:       m.Domain(),
		AccessToken:  "at-live",
		RefreshToken: "rt-live",
		ExpiresAt:    testNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	client := &APIClient{Manager: m}
	if err := client.SendMessage(context.Background(), "chat42", "привет"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}
