package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndanilov/usersweep/internal/logger"
	"github.com/ndanilov/usersweep/internal/model"
)

// Run is the JSON document describing one sweep run.
type Run struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	DirectorySize int       `json:"directory_size"`
	Suspend       []Entry   `json:"suspend"`
	NeverLoggedIn []Entry   `json:"never_logged_in"`
	Purge         []Entry   `json:"purge"`
	Reactivate    []Entry   `json:"reactivate"`
}

// Entry identifies one classified account.
type Entry struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// NewRun starts a report document with a fresh run id.
func NewRun(directorySize int) Run {
	return Run{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		DirectorySize: directorySize,
	}
}

// Entries projects classification records into report entries.
func Entries(records []model.ArchivedAccount) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Entry{ID: r.ID, Login: r.Login})
	}
	return entries
}

// Reporter publishes run reports to object storage.
type Reporter struct {
	storage model.ReportStorage
	logger  *logger.Logger
}

// NewReporter creates a Reporter over the given storage.
func NewReporter(storage model.ReportStorage, logger *logger.Logger) *Reporter {
	return &Reporter{
		storage: storage,
		logger:  logger,
	}
}

// Publish uploads the run report and returns its object key.
func (r *Reporter) Publish(ctx context.Context, run Run) (string, error) {
	run.FinishedAt = time.Now().UTC()

	body, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}

	key := fmt.Sprintf("sweeps/%s/%s.json", run.StartedAt.Format("2006/01/02"), run.RunID)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("failed to publish run report: %w", err)
	}

	r.logger.Info("run report published",
		"run_id", run.RunID,
		"key", key)

	return key, nil
}
