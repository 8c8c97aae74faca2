package service

import (
	"github.com/ndanilov/usersweep/internal/model"
)

var _ model.PrivilegePredicate = (*ExemptLogins)(nil)

// ExemptLogins is a privilege predicate backed by a fixed login list,
// typically the configured administrator accounts.
type ExemptLogins struct {
	logins map[string]struct{}
}

// NewExemptLogins builds the predicate from a list of exempt logins.
func NewExemptLogins(logins []string) *ExemptLogins {
	e := &ExemptLogins{logins: make(map[string]struct{}, len(logins))}
	for _, l := range logins {
		e.logins[l] = struct{}{}
	}
	return e
}

// Exempt reports whether the account's login is on the exempt list.
func (e *ExemptLogins) Exempt(account model.Account) bool {
	_, ok := e.logins[account.Login]
	return ok
}
