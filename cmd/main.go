package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ndanilov/usersweep/internal/config"
	"github.com/ndanilov/usersweep/internal/directory"
	"github.com/ndanilov/usersweep/internal/logger"
	"github.com/ndanilov/usersweep/internal/report"
	"github.com/ndanilov/usersweep/internal/repository/postgres"
	"github.com/ndanilov/usersweep/internal/service"
	storage "github.com/ndanilov/usersweep/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	markerRepo := postgres.NewMarkerRepository(db)
	archiveRepo := postgres.NewArchiveRepository(db)
	exempt := service.NewExemptLogins(cfg.Sweep.ExemptLogins)

	sweep := service.NewSweep(accountRepo, markerRepo, archiveRepo, exempt, service.Policy{
		AuthMethod:   cfg.Sweep.AuthMethod,
		PurgeAfter:   cfg.Sweep.PurgeAfter,
		ReservedName: cfg.Sweep.ReservedName,
	}, logger)

	snapshot := fetchSnapshot(cfg.LDAP, logger)
	run := report.NewRun(snapshot.Size())

	suspend, err := sweep.SuspendCandidates(ctx, snapshot)
	if err != nil {
		logger.Fatal("suspend classification failed", "error", err)
	}
	run.Suspend = report.Entries(suspend)

	neverLoggedIn, err := sweep.NeverLoggedIn(ctx)
	if err != nil {
		logger.Fatal("never-logged-in classification failed", "error", err)
	}
	run.NeverLoggedIn = report.Entries(neverLoggedIn)

	purge, err := sweep.PurgeCandidates(ctx)
	if err != nil {
		logger.Fatal("purge classification failed", "error", err)
	}
	run.Purge = report.Entries(purge)

	reactivate, err := sweep.ReactivateCandidates(ctx, snapshot)
	if err != nil {
		logger.Fatal("reactivate classification failed", "error", err)
	}
	run.Reactivate = report.Entries(reactivate)

	logger.Info("sweep finished",
		"run_id", run.RunID,
		"directory_size", snapshot.Size(),
		"suspend", len(suspend),
		"never_logged_in", len(neverLoggedIn),
		"purge", len(purge),
		"reactivate", len(reactivate))

	if cfg.Report.Enabled {
		publishReport(ctx, cfg.Report, logger, run)
	}
}

// fetchSnapshot builds the directory snapshot for this run. In skip mode, or
// when the directory returns nothing, the run proceeds with an empty snapshot
// and the directory-dependent classifications short-circuit.
func fetchSnapshot(cfg config.LDAP, logger *logger.Logger) *directory.Snapshot {
	if cfg.Skip {
		logger.Info("directory lookup disabled, running with empty snapshot")
		return directory.NewSnapshot(nil)
	}

	client, err := directory.Dial(directory.Config{
		URL:          cfg.URL,
		BindDN:       cfg.BindDN,
		BindPassword: cfg.BindPassword,
		BaseDN:       cfg.BaseDN,
		Filter:       cfg.Filter,
		LoginAttr:    cfg.LoginAttr,
		PageSize:     cfg.PageSize,
		StartTLS:     cfg.StartTLS,
		Timeout:      cfg.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to directory", "error", err)
	}
	defer client.Close()

	snapshot, err := client.FetchSnapshot()
	if err != nil {
		logger.Fatal("failed to fetch directory snapshot", "error", err)
	}

	return snapshot
}

func publishReport(ctx context.Context, cfg config.Report, logger *logger.Logger, run report.Run) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Error("failed to create minio client", "error", err)
		return
	}

	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Bucket)
	if err != nil {
		logger.Error("failed to initialize report storage", "error", err)
		return
	}

	if _, err := report.NewReporter(storageClient, logger).Publish(ctx, run); err != nil {
		logger.Error("failed to publish run report", "error", err)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
