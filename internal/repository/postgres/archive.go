package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ndanilov/usersweep/internal/model"
)

var _ model.ArchiveStore = (*ArchiveRepository)(nil)

type ArchiveRepository struct {
	db *Connection
}

func NewArchiveRepository(db *Connection) *ArchiveRepository {
	return &ArchiveRepository{
		db: db,
	}
}

func (r *ArchiveRepository) Get(ctx context.Context, accountID int64) (model.Account, error) {
	var (
		account    model.Account
		lastAccess *time.Time
	)
	query := `SELECT account_id, auth, login, name, suspended, deleted, last_access
			  FROM account_archives WHERE account_id = $1`

	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&account.ID, &account.Auth, &account.Login, &account.Name,
		&account.Suspended, &account.Deleted, &lastAccess,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account archive: %w", err)
	}

	if lastAccess != nil {
		account.LastAccess = *lastAccess
	}

	return account, nil
}

func (r *ArchiveRepository) Exists(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM account_archives WHERE account_id = $1)`

	if err := r.db.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account archive existence: %w", err)
	}

	return exists, nil
}
