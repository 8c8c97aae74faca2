// Package mocks contains testify mocks for the model store interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ndanilov/usersweep/internal/model"
)

type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) ListActive(ctx context.Context, auth string) ([]model.Account, error) {
	args := m.Called(ctx, auth)
	return accountsArg(args.Get(0)), args.Error(1)
}

func (m *AccountStore) ListNeverLoggedIn(ctx context.Context, auth, reservedName string) ([]model.Account, error) {
	args := m.Called(ctx, auth, reservedName)
	return accountsArg(args.Get(0)), args.Error(1)
}

func (m *AccountStore) ListSuspended(ctx context.Context, auth string) ([]model.Account, error) {
	args := m.Called(ctx, auth)
	return accountsArg(args.Get(0)), args.Error(1)
}

func (m *AccountStore) ListPurgeable(ctx context.Context, auth, reservedName string) ([]model.Account, error) {
	args := m.Called(ctx, auth, reservedName)
	return accountsArg(args.Get(0)), args.Error(1)
}

func (m *AccountStore) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	args := m.Called(ctx, login)
	return args.Bool(0), args.Error(1)
}

func accountsArg(v any) []model.Account {
	if v == nil {
		return nil
	}
	return v.([]model.Account)
}

type MarkerStore struct {
	mock.Mock
}

func (m *MarkerStore) Get(ctx context.Context, accountID int64) (model.SuspensionMarker, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(model.SuspensionMarker), args.Error(1)
}

func (m *MarkerStore) Exists(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

type ArchiveStore struct {
	mock.Mock
}

func (m *ArchiveStore) Get(ctx context.Context, accountID int64) (model.Account, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *ArchiveStore) Exists(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

type PrivilegePredicate struct {
	mock.Mock
}

func (m *PrivilegePredicate) Exempt(account model.Account) bool {
	args := m.Called(account)
	return args.Bool(0)
}

type ReportStorage struct {
	mock.Mock
}

func (m *ReportStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *ReportStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
