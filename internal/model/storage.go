package model

import (
	"context"
	"io"
)

// ReportStorage persists run reports in object storage.
type ReportStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}
