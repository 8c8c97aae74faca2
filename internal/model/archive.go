package model

import (
	"context"
	"time"
)

// MarkerStore defines read access to the suspension marker table. A marker
// row means this tool, not an administrator, suspended the account.
type MarkerStore interface {
	Get(ctx context.Context, accountID int64) (SuspensionMarker, error)
	Exists(ctx context.Context, accountID int64) (bool, error)
}

// ArchiveStore defines read access to archived account snapshots taken at
// suspension time.
type ArchiveStore interface {
	Get(ctx context.Context, accountID int64) (Account, error)
	Exists(ctx context.Context, accountID int64) (bool, error)
}

// SuspensionMarker records that this tool suspended an account and when.
type SuspensionMarker struct {
	AccountID   int64
	SuspendedAt time.Time
}

// ArchivedAccount is the classification result unit: a read-only projection
// of an account's fields carrying enough for the caller to apply the actual
// lifecycle transition and audit it.
type ArchivedAccount struct {
	ID         int64
	Login      string
	Suspended  bool
	Deleted    bool
	LastAccess time.Time
}

// NewArchivedAccount projects an account row into a classification record.
func NewArchivedAccount(a Account) ArchivedAccount {
	return ArchivedAccount{
		ID:         a.ID,
		Login:      a.Login,
		Suspended:  a.Suspended,
		Deleted:    a.Deleted,
		LastAccess: a.LastAccess,
	}
}
