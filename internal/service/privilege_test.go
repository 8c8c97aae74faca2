package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndanilov/usersweep/internal/model"
)

func TestExemptLogins(t *testing.T) {
	e := NewExemptLogins([]string{"admin", "root"})

	assert.True(t, e.Exempt(model.Account{Login: "admin"}))
	assert.True(t, e.Exempt(model.Account{Login: "root"}))
	assert.False(t, e.Exempt(model.Account{Login: "bob"}))
	assert.False(t, e.Exempt(model.Account{Login: "Admin"}))
}

func TestExemptLogins_EmptyList(t *testing.T) {
	e := NewExemptLogins(nil)
	assert.False(t, e.Exempt(model.Account{Login: "anybody"}))
}
