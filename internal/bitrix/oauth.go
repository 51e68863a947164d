// Package bitrix manages the OAuth credential lifecycle for the Bitrix24
// workspace integration: code exchange, expiry tracking, and refresh.
//
// Concurrent callers may each trigger a refresh for the same domain; the
// provider treats refresh as idempotent and the store is last-write-wins,
// so the race is benign. No single-flight locking is attempted here.
package bitrix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pravobot/pravobot/internal/metrics"
)

// Manager drives the credential lifecycle for one OAuth application.
// Collaborators (store, HTTP client, clock) are injectable.
type Manager struct {
	cfg   Config
	store Store
	http  *http.Client
	now   func() time.Time
}

// NewManager validates cfg and builds a manager. httpClient and now may be
// nil; store is required.
func NewManager(cfg Config, store Store, httpClient *http.Client, now func() time.Time) (*Manager, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("bitrix: credential store is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{cfg: cfg, store: store, http: httpClient, now: now}, nil
}

// AuthURL returns the authorization redirect for the configured portal.
func (m *Manager) AuthURL() string {
	return m.cfg.AuthURL()
}

// Domain returns the configured portal domain.
func (m *Manager) Domain() string {
	return m.cfg.Domain
}

// ExchangeCode performs the one-shot authorization-code exchange and
// persists the resulting credential, replacing any prior one for the
// domain.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", m.cfg.ClientID)
	form.Set("client_secret", m.cfg.ClientSecret)
	form.Set("code", code)
	if m.cfg.RedirectURL != "" {
		form.Set("redirect_uri", m.cfg.RedirectURL)
	}

	cred, err := m.tokenRequest(ctx, form)
	if err != nil {
		return Credential{}, &CredentialError{Op: "exchange", Err: err}
	}
	if err := m.store.Put(ctx, cred); err != nil {
		return Credential{}, &CredentialError{Op: "exchange", Err: fmt.Errorf("persist credential: %w", err)}
	}
	return cred, nil
}

// AccessToken returns a live access token for domain. A missing credential
// is ErrAuthNotConfigured; a failed refresh is a CredentialError and the
// stale token is never returned.
func (m *Manager) AccessToken(ctx context.Context, domain string) (string, error) {
	cred, ok, err := m.store.Get(ctx, domain)
	if err != nil {
		return "", &CredentialError{Op: "load", Err: err}
	}
	if !ok {
		return "", ErrAuthNotConfigured
	}

	if !cred.IsExpired(m.now()) {
		return cred.AccessToken, nil
	}

	refreshed, err := m.Refresh(ctx, cred)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// Refresh exchanges the refresh token for a new credential and persists it
// as a full replacement. At-least-once semantics: a concurrent refresh for
// the same domain is tolerated and the last successful write wins.
func (m *Manager) Refresh(ctx context.Context, cred Credential) (Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", m.cfg.ClientID)
	form.Set("client_secret", m.cfg.ClientSecret)
	form.Set("refresh_token", cred.RefreshToken)

	refreshed, err := m.tokenRequest(ctx, form)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return Credential{}, &CredentialError{Op: "refresh", Err: err}
	}
	if refreshed.Domain == "" {
		refreshed.Domain = cred.Domain
	}
	if err := m.store.Put(ctx, refreshed); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return Credential{}, &CredentialError{Op: "refresh", Err: fmt.Errorf("persist credential: %w", err)}
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return refreshed, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Domain       string `json:"domain"`
}

func (m *Manager) tokenRequest(ctx context.Context, form url.Values) (Credential, error) {
	endpoint := m.cfg.BaseURL() + "/oauth/token/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return Credential{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Credential{}, fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Credential{}, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" || payload.RefreshToken == "" || payload.ExpiresIn <= 0 {
		return Credential{}, fmt.Errorf("token response is missing required fields")
	}

	domain := payload.Domain
	if domain == "" {
		domain = m.cfg.Domain
	}
	return Credential{
		Domain:       domain,
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    m.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}
