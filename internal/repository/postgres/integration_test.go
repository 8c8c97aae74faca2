//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ndanilov/usersweep/internal/directory"
	"github.com/ndanilov/usersweep/internal/model"
	repo "github.com/ndanilov/usersweep/internal/repository/postgres"
	"github.com/ndanilov/usersweep/internal/service"
	"github.com/ndanilov/usersweep/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "usersweep_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/usersweep_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func seedAccount(t *testing.T, conn *repo.Connection, a model.Account) {
	t.Helper()
	var lastAccess *time.Time
	if !a.LastAccess.IsZero() {
		lastAccess = &a.LastAccess
	}
	_, err := conn.Exec(context.Background(),
		`INSERT INTO accounts (id, auth, login, name, suspended, deleted, last_access)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Auth, a.Login, a.Name, a.Suspended, a.Deleted, lastAccess)
	require.NoError(t, err)
}

func seedMarker(t *testing.T, conn *repo.Connection, m model.SuspensionMarker) {
	t.Helper()
	_, err := conn.Exec(context.Background(),
		`INSERT INTO suspension_markers (account_id, suspended_at) VALUES ($1, $2)`,
		m.AccountID, m.SuspendedAt)
	require.NoError(t, err)
}

func seedArchive(t *testing.T, conn *repo.Connection, a model.Account) {
	t.Helper()
	var lastAccess *time.Time
	if !a.LastAccess.IsZero() {
		lastAccess = &a.LastAccess
	}
	_, err := conn.Exec(context.Background(),
		`INSERT INTO account_archives (account_id, auth, login, name, suspended, deleted, last_access)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Auth, a.Login, a.Name, a.Suspended, a.Deleted, lastAccess)
	require.NoError(t, err)
}

func cleanTables(t *testing.T, conn *repo.Connection) {
	t.Helper()
	_, err := conn.Exec(context.Background(),
		`TRUNCATE account_archives, suspension_markers, accounts`)
	require.NoError(t, err)
}

func TestRepositories_Queries(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	cleanTables(t, conn)

	now := time.Now().UTC().Truncate(time.Second)

	seedAccount(t, conn, model.Account{ID: 1, Auth: "ldap", Login: "alice", Name: "Alice", LastAccess: now})
	seedAccount(t, conn, model.Account{ID: 2, Auth: "ldap", Login: "bob", Name: "Bob", LastAccess: now.Add(-time.Hour)})
	seedAccount(t, conn, model.Account{ID: 3, Auth: "ldap", Login: "carol", Name: "Carol", Suspended: true, LastAccess: now.Add(-48 * time.Hour)})
	seedAccount(t, conn, model.Account{ID: 4, Auth: "ldap", Login: "dora", Name: "Dora"})
	seedAccount(t, conn, model.Account{ID: 5, Auth: "ldap", Login: "ghost", Name: "unknown", Suspended: true})
	seedAccount(t, conn, model.Account{ID: 6, Auth: "manual", Login: "mallory", Name: "Mallory", LastAccess: now})
	seedAccount(t, conn, model.Account{ID: 7, Auth: "ldap", Login: "gone", Name: "Gone", Deleted: true, LastAccess: now})

	accounts := repo.NewAccountRepository(conn)

	t.Run("list_active", func(t *testing.T) {
		got, err := accounts.ListActive(ctx, "ldap")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int64{1, 2, 4}, []int64{got[0].ID, got[1].ID, got[2].ID})
		assert.Equal(t, "alice", got[0].Login)
		assert.True(t, got[0].LastAccess.Equal(now))
	})

	t.Run("list_never_logged_in", func(t *testing.T) {
		got, err := accounts.ListNeverLoggedIn(ctx, "ldap", "unknown")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(4), got[0].ID)
		assert.True(t, got[0].NeverLoggedIn())
	})

	t.Run("list_suspended", func(t *testing.T) {
		got, err := accounts.ListSuspended(ctx, "ldap")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []int64{3, 5}, []int64{got[0].ID, got[1].ID})
	})

	t.Run("list_purgeable", func(t *testing.T) {
		// Signed-in carol and the placeholder-named ghost qualify; a suspended
		// never-logged-in row with a real name would not.
		got, err := accounts.ListPurgeable(ctx, "ldap", "unknown")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []int64{3, 5}, []int64{got[0].ID, got[1].ID})
	})

	t.Run("exists_by_login", func(t *testing.T) {
		exists, err := accounts.ExistsByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = accounts.ExistsByLogin(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists, "deleted rows do not count as live")

		exists, err = accounts.ExistsByLogin(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("marker_repository", func(t *testing.T) {
		markers := repo.NewMarkerRepository(conn)

		seedMarker(t, conn, model.SuspensionMarker{AccountID: 3, SuspendedAt: now.Add(-40 * 24 * time.Hour)})

		marker, err := markers.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), marker.AccountID)
		assert.True(t, marker.SuspendedAt.Equal(now.Add(-40*24*time.Hour)))

		exists, err := markers.Exists(ctx, 3)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = markers.Get(ctx, 999)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("archive_repository", func(t *testing.T) {
		archives := repo.NewArchiveRepository(conn)

		archived := model.Account{ID: 3, Auth: "ldap", Login: "carol-original", Name: "Carol", Suspended: false, LastAccess: now.Add(-72 * time.Hour)}
		seedArchive(t, conn, archived)

		got, err := archives.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, archived.Login, got.Login)
		assert.True(t, got.LastAccess.Equal(archived.LastAccess))

		exists, err := archives.Exists(ctx, 3)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = archives.Get(ctx, 999)
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})
}

// Full classification pass against real repositories.
func TestSweep_EndToEnd(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	cleanTables(t, conn)

	now := time.Now().UTC().Truncate(time.Second)

	// alice is present in the directory, bob is not.
	seedAccount(t, conn, model.Account{ID: 1, Auth: "ldap", Login: "alice", Name: "Alice", LastAccess: now})
	seedAccount(t, conn, model.Account{ID: 2, Auth: "ldap", Login: "bob", Name: "Bob", LastAccess: now})
	// id=5: tool-suspended 40 days ago with archive, past a 30 day threshold.
	seedAccount(t, conn, model.Account{ID: 5, Auth: "ldap", Login: "frank-5", Name: "Frank", Suspended: true, LastAccess: now.Add(-60 * 24 * time.Hour)})
	seedMarker(t, conn, model.SuspensionMarker{AccountID: 5, SuspendedAt: now.Add(-40 * 24 * time.Hour)})
	seedArchive(t, conn, model.Account{ID: 5, Auth: "ldap", Login: "frank", Name: "Frank", Suspended: false, LastAccess: now.Add(-60 * 24 * time.Hour)})
	// id=7: tool-suspended, archived login "carol" is back in the directory
	// and free in the live table.
	seedAccount(t, conn, model.Account{ID: 7, Auth: "ldap", Login: "carol-7", Name: "Carol", Suspended: true, LastAccess: now.Add(-5 * 24 * time.Hour)})
	seedMarker(t, conn, model.SuspensionMarker{AccountID: 7, SuspendedAt: now.Add(-5 * 24 * time.Hour)})
	seedArchive(t, conn, model.Account{ID: 7, Auth: "ldap", Login: "carol", Name: "Carol", Suspended: true, LastAccess: now.Add(-5 * 24 * time.Hour)})

	sweep := service.NewSweep(
		repo.NewAccountRepository(conn),
		repo.NewMarkerRepository(conn),
		repo.NewArchiveRepository(conn),
		service.NewExemptLogins(nil),
		service.Policy{AuthMethod: "ldap", PurgeAfter: 30 * 24 * time.Hour, ReservedName: "unknown"},
		testutil.MakeNoopLogger(),
	)

	snap := directory.NewSnapshot([]string{"alice", "carol"})

	suspend, err := sweep.SuspendCandidates(ctx, snap)
	require.NoError(t, err)
	require.Len(t, suspend, 1)
	assert.Equal(t, "bob", suspend[0].Login)

	purge, err := sweep.PurgeCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, purge, 1)
	assert.Equal(t, "frank", purge[0].Login, "fields come from the archive row")
	assert.False(t, purge[0].Suspended)

	reactivate, err := sweep.ReactivateCandidates(ctx, snap)
	require.NoError(t, err)
	require.Len(t, reactivate, 1)
	assert.Equal(t, "carol", reactivate[0].Login)
	assert.Equal(t, int64(7), reactivate[0].ID)

	empty := directory.NewSnapshot(nil)
	suspend, err = sweep.SuspendCandidates(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, suspend)
	reactivate, err = sweep.ReactivateCandidates(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, reactivate)
}
