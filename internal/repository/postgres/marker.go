package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ndanilov/usersweep/internal/model"
)

var _ model.MarkerStore = (*MarkerRepository)(nil)

type MarkerRepository struct {
	db *Connection
}

func NewMarkerRepository(db *Connection) *MarkerRepository {
	return &MarkerRepository{
		db: db,
	}
}

func (r *MarkerRepository) Get(ctx context.Context, accountID int64) (model.SuspensionMarker, error) {
	var marker model.SuspensionMarker
	query := `SELECT account_id, suspended_at FROM suspension_markers WHERE account_id = $1`

	err := r.db.QueryRow(ctx, query, accountID).Scan(&marker.AccountID, &marker.SuspendedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SuspensionMarker{}, model.ErrNotFound
		}
		return model.SuspensionMarker{}, fmt.Errorf("failed to get suspension marker: %w", err)
	}

	return marker, nil
}

func (r *MarkerRepository) Exists(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM suspension_markers WHERE account_id = $1)`

	if err := r.db.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check suspension marker existence: %w", err)
	}

	return exists, nil
}
