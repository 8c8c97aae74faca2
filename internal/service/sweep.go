package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ndanilov/usersweep/internal/directory"
	"github.com/ndanilov/usersweep/internal/logger"
	"github.com/ndanilov/usersweep/internal/model"
)

// Policy contains the classification knobs, passed in at construction.
type Policy struct {
	AuthMethod   string
	PurgeAfter   time.Duration
	ReservedName string
}

// Sweep classifies accounts for lifecycle transitions. It is read-only with
// respect to every data source; applying the transitions is the caller's job.
type Sweep struct {
	accounts model.AccountStore
	markers  model.MarkerStore
	archives model.ArchiveStore
	exempt   model.PrivilegePredicate
	policy   Policy
	logger   *logger.Logger
	now      func() time.Time
}

// NewSweep creates a classifier over the given stores.
func NewSweep(
	accounts model.AccountStore,
	markers model.MarkerStore,
	archives model.ArchiveStore,
	exempt model.PrivilegePredicate,
	policy Policy,
	logger *logger.Logger,
) *Sweep {
	return &Sweep{
		accounts: accounts,
		markers:  markers,
		archives: archives,
		exempt:   exempt,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// SuspendCandidates returns active accounts that are absent from the
// directory. An empty snapshot short-circuits to an empty result: an
// unreachable directory must never read as "nobody is active".
func (s *Sweep) SuspendCandidates(ctx context.Context, snap *directory.Snapshot) ([]model.ArchivedAccount, error) {
	if snap.Empty() {
		s.logger.Warn("Sweep service: empty directory snapshot, skipping suspend classification")
		return nil, nil
	}

	accounts, err := s.accounts.ListActive(ctx, s.policy.AuthMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}

	return s.walk(ctx, accounts, func(_ context.Context, a model.Account) (model.ArchivedAccount, bool, error) {
		if snap.Contains(a.Login) {
			return model.ArchivedAccount{}, false, nil
		}
		s.logger.Info("Sweep service: suspend candidate",
			"id", a.ID,
			"login", a.Login)
		return model.NewArchivedAccount(a), true, nil
	})
}

// NeverLoggedIn returns accounts that have never signed in. Reporting only:
// neither the directory nor the privilege predicate applies here.
func (s *Sweep) NeverLoggedIn(ctx context.Context) ([]model.ArchivedAccount, error) {
	accounts, err := s.accounts.ListNeverLoggedIn(ctx, s.policy.AuthMethod, s.policy.ReservedName)
	if err != nil {
		return nil, fmt.Errorf("failed to list never-logged-in accounts: %w", err)
	}

	result := make([]model.ArchivedAccount, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, model.NewArchivedAccount(a))
	}
	return result, nil
}

// PurgeCandidates returns accounts this tool suspended longer ago than the
// purge threshold. The emitted records carry the archived fields, not the
// live row's: the archive is the state of record once the live row may have
// diverged.
func (s *Sweep) PurgeCandidates(ctx context.Context) ([]model.ArchivedAccount, error) {
	accounts, err := s.accounts.ListPurgeable(ctx, s.policy.AuthMethod, s.policy.ReservedName)
	if err != nil {
		return nil, fmt.Errorf("failed to list purgeable accounts: %w", err)
	}

	return s.walk(ctx, accounts, func(ctx context.Context, a model.Account) (model.ArchivedAccount, bool, error) {
		marker, err := s.markers.Get(ctx, a.ID)
		if errors.Is(err, model.ErrNotFound) {
			// Suspended by an administrator, not by this tool.
			return model.ArchivedAccount{}, false, nil
		}
		if err != nil {
			return model.ArchivedAccount{}, false, fmt.Errorf("failed to get suspension marker for account %d: %w", a.ID, err)
		}

		if s.now().Sub(marker.SuspendedAt) <= s.policy.PurgeAfter {
			return model.ArchivedAccount{}, false, nil
		}

		archived, err := s.archives.Get(ctx, a.ID)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Sweep service: suspension marker without archive snapshot, skipping",
				"id", a.ID,
				"login", a.Login)
			return model.ArchivedAccount{}, false, nil
		}
		if err != nil {
			return model.ArchivedAccount{}, false, fmt.Errorf("failed to get archive for account %d: %w", a.ID, err)
		}

		s.logger.Info("Sweep service: purge candidate",
			"id", archived.ID,
			"login", archived.Login,
			"suspended_at", marker.SuspendedAt)
		return model.NewArchivedAccount(archived), true, nil
	})
}

// ReactivateCandidates returns tool-suspended accounts whose archived login
// is present in the directory again and no longer exists in the live table.
// Empty snapshot short-circuits: reactivation needs positive directory
// presence, which an empty snapshot can never provide.
func (s *Sweep) ReactivateCandidates(ctx context.Context, snap *directory.Snapshot) ([]model.ArchivedAccount, error) {
	if snap.Empty() {
		s.logger.Warn("Sweep service: empty directory snapshot, skipping reactivate classification")
		return nil, nil
	}

	accounts, err := s.accounts.ListSuspended(ctx, s.policy.AuthMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspended accounts: %w", err)
	}

	return s.walk(ctx, accounts, func(ctx context.Context, a model.Account) (model.ArchivedAccount, bool, error) {
		if _, err := s.markers.Get(ctx, a.ID); errors.Is(err, model.ErrNotFound) {
			return model.ArchivedAccount{}, false, nil
		} else if err != nil {
			return model.ArchivedAccount{}, false, fmt.Errorf("failed to get suspension marker for account %d: %w", a.ID, err)
		}

		archived, err := s.archives.Get(ctx, a.ID)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Sweep service: suspension marker without archive snapshot, skipping",
				"id", a.ID,
				"login", a.Login)
			return model.ArchivedAccount{}, false, nil
		}
		if err != nil {
			return model.ArchivedAccount{}, false, fmt.Errorf("failed to get archive for account %d: %w", a.ID, err)
		}

		exists, err := s.accounts.ExistsByLogin(ctx, archived.Login)
		if err != nil {
			return model.ArchivedAccount{}, false, fmt.Errorf("failed to check login %s: %w", archived.Login, err)
		}
		if exists {
			s.logger.Debug("Sweep service: archived login already present in live table, skipping",
				"id", a.ID,
				"login", archived.Login)
			return model.ArchivedAccount{}, false, nil
		}

		if !snap.Contains(archived.Login) {
			return model.ArchivedAccount{}, false, nil
		}

		s.logger.Info("Sweep service: reactivate candidate",
			"id", archived.ID,
			"login", archived.Login)
		return model.NewArchivedAccount(archived), true, nil
	})
}

// walk applies the privilege exemption and a per-operation check to each
// account, preserving repository order in the result.
func (s *Sweep) walk(
	ctx context.Context,
	accounts []model.Account,
	check func(ctx context.Context, a model.Account) (model.ArchivedAccount, bool, error),
) ([]model.ArchivedAccount, error) {
	result := make([]model.ArchivedAccount, 0, len(accounts))
	for _, a := range accounts {
		if s.exempt.Exempt(a) {
			s.logger.Debug("Sweep service: privilege-exempt account, skipping",
				"id", a.ID,
				"login", a.Login)
			continue
		}
		rec, ok, err := check(ctx, a)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, rec)
		}
	}
	return result, nil
}
