package model

import (
	"context"
	"time"
)

// AccountStore defines read access to the live account table. Every query is
// scoped to one authentication method and returns rows in stable id order.
type AccountStore interface {
	// ListActive returns not-deleted, not-suspended accounts.
	ListActive(ctx context.Context, auth string) ([]Account, error)
	// ListNeverLoggedIn returns not-deleted accounts that have never signed in,
	// excluding rows whose name equals the reserved placeholder.
	ListNeverLoggedIn(ctx context.Context, auth, reservedName string) ([]Account, error)
	// ListSuspended returns not-deleted, suspended accounts.
	ListSuspended(ctx context.Context, auth string) ([]Account, error)
	// ListPurgeable returns not-deleted, suspended accounts that have either
	// signed in at least once or carry the reserved placeholder name.
	ListPurgeable(ctx context.Context, auth, reservedName string) ([]Account, error)
	// ExistsByLogin reports whether a not-deleted account with the given login exists.
	ExistsByLogin(ctx context.Context, login string) (bool, error)
}

// Account represents a row of the live account table. The login is the
// identity key shared with the directory; a zero LastAccess means the
// account has never signed in.
type Account struct {
	ID         int64
	Auth       string
	Login      string
	Name       string
	Suspended  bool
	Deleted    bool
	LastAccess time.Time
}

// NeverLoggedIn reports whether the account has never signed in.
func (a Account) NeverLoggedIn() bool {
	return a.LastAccess.IsZero()
}

// PrivilegePredicate reports whether an account is exempt from automatic
// suspension, purge and reactivation.
type PrivilegePredicate interface {
	Exempt(account Account) bool
}
