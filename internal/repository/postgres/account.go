package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ndanilov/usersweep/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

const accountColumns = `id, auth, login, name, suspended, deleted, last_access`

func (r *AccountRepository) ListActive(ctx context.Context, auth string) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE auth = $1 AND NOT deleted AND NOT suspended
			  ORDER BY id`

	rows, err := r.db.Query(ctx, query, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	return scanAccounts(rows)
}

func (r *AccountRepository) ListNeverLoggedIn(ctx context.Context, auth, reservedName string) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE auth = $1 AND last_access IS NULL AND NOT deleted AND name <> $2
			  ORDER BY id`

	rows, err := r.db.Query(ctx, query, auth, reservedName)
	if err != nil {
		return nil, fmt.Errorf("failed to list never-logged-in accounts: %w", err)
	}
	return scanAccounts(rows)
}

func (r *AccountRepository) ListSuspended(ctx context.Context, auth string) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + `
			  FROM accounts WHERE auth = $1 AND NOT deleted AND suspended
			  ORDER BY id`

	rows, err := r.db.Query(ctx, query, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspended accounts: %w", err)
	}
	return scanAccounts(rows)
}

func (r *AccountRepository) ListPurgeable(ctx context.Context, auth, reservedName string) ([]model.Account, error) {
	// The (last_access IS NOT NULL OR name = $2) condition keeps accounts that
	// never signed in out of this path; those are covered by the
	// never-logged-in report instead.
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE auth = $1 AND NOT deleted AND suspended
			    AND (last_access IS NOT NULL OR name = $2)
			  ORDER BY id`

	rows, err := r.db.Query(ctx, query, auth, reservedName)
	if err != nil {
		return nil, fmt.Errorf("failed to list purgeable accounts: %w", err)
	}
	return scanAccounts(rows)
}

func (r *AccountRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE login = $1 AND NOT deleted)`

	if err := r.db.QueryRow(ctx, query, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence by login: %w", err)
	}

	return exists, nil
}

func scanAccounts(rows pgx.Rows) ([]model.Account, error) {
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		account    model.Account
		lastAccess *time.Time
	)

	err := row.Scan(
		&account.ID, &account.Auth, &account.Login, &account.Name,
		&account.Suspended, &account.Deleted, &lastAccess,
	)
	if err != nil {
		return model.Account{}, err
	}

	// NULL last_access is the "never signed in" sentinel.
	if lastAccess != nil {
		account.LastAccess = *lastAccess
	}

	return account, nil
}
