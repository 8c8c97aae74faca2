package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewArchivedAccount(t *testing.T) {
	lastAccess := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	a := Account{
		ID:         42,
		Auth:       "ldap",
		Login:      "alice",
		Name:       "Alice",
		Suspended:  true,
		Deleted:    false,
		LastAccess: lastAccess,
	}

	got := NewArchivedAccount(a)
	assert.Equal(t, ArchivedAccount{
		ID:         42,
		Login:      "alice",
		Suspended:  true,
		Deleted:    false,
		LastAccess: lastAccess,
	}, got)
}

func TestAccount_NeverLoggedIn(t *testing.T) {
	assert.True(t, Account{}.NeverLoggedIn())
	assert.False(t, Account{LastAccess: time.Now()}.NeverLoggedIn())
}
