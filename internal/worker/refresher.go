package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pravobot/pravobot/internal/bitrix"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentRefreshes bounds parallel token round trips per run.
const maxConcurrentRefreshes = 4

// CredentialSource lists stored workspace credentials.
type CredentialSource interface {
	Domains(ctx context.Context) ([]string, error)
	Get(ctx context.Context, domain string) (bitrix.Credential, bool, error)
}

// TokenRefresher exchanges a refresh token for a fresh credential.
type TokenRefresher interface {
	Refresh(ctx context.Context, cred bitrix.Credential) (bitrix.Credential, error)
}

// Refresher proactively renews credentials that expire within Window, so
// inbound requests rarely pay the refresh round trip. Failures are
// per-domain; one bad credential never blocks the rest.
type Refresher struct {
	Source  CredentialSource
	Manager TokenRefresher
	Window  time.Duration
	Now     func() time.Time
	Log     *slog.Logger
}

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Refresher) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// RunOnce refreshes every stored credential that expires within the window.
// The returned error aggregates per-domain failures.
func (r *Refresher) RunOnce(ctx context.Context) error {
	domains, err := r.Source.Domains(ctx)
	if err != nil {
		return fmt.Errorf("list credential domains: %w", err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrentRefreshes)

	deadline := r.now().Add(r.Window)
	for _, domain := range domains {
		g.Go(func() error {
			cred, ok, err := r.Source.Get(ctx, domain)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("load credential for %s: %w", domain, err))
				mu.Unlock()
				return nil
			}
			if !ok || !cred.IsExpired(deadline) {
				return nil
			}

			if _, err := r.Manager.Refresh(ctx, cred); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("refresh credential for %s: %w", domain, err))
				mu.Unlock()
				return nil
			}
			r.logger().Info("credential refreshed", "domain", domain)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
