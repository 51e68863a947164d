package bitrix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Credential is one live OAuth token pair for a portal domain. A new
// credential fully supersedes the previous one for that domain.
type Credential struct {
	Domain       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// expiryBuffer is subtracted from ExpiresAt so a token is refreshed
// shortly before the provider would reject it.
const expiryBuffer = 60 * time.Second

// IsExpired reports whether the credential must be refreshed before use:
// now >= ExpiresAt - buffer.
func (c Credential) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt.Add(-expiryBuffer))
}

// ErrAuthNotConfigured means no credential was ever stored for the domain.
// The OAuth authorization flow must be (re)run; retrying does not help.
var ErrAuthNotConfigured = errors.New("bitrix: authorization not configured")

// CredentialError wraps a failed token exchange or refresh. The caller may
// retry with backoff but must never fall back to the stale token.
type CredentialError struct {
	Op  string
	Err error
}

func (e *CredentialError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("bitrix credential %s failed: %v", e.Op, e.Err)
}

func (e *CredentialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Store persists one credential per domain. Put is a full replace,
// last write wins.
type Store interface {
	Get(ctx context.Context, domain string) (Credential, bool, error)
	Put(ctx context.Context, cred Credential) error
}

// MemoryStore is an in-process Store used by tests and by `serve` runs
// without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]Credential)}
}

func (s *MemoryStore) Get(ctx context.Context, domain string) (Credential, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[domain]
	return cred, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, cred Credential) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.Domain] = cred
	return nil
}

// Domains lists stored domains; used by the proactive refresh worker.
func (s *MemoryStore) Domains(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.creds))
	for domain := range s.creds {
		out = append(out, domain)
	}
	return out, nil
}
