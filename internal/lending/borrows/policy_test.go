package borrows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"library-backend/internal/platform/auth"
)

func TestCanCreateBorrow(t *testing.T) {
	assert.True(t, CanCreateBorrow(auth.Principal{UserID: 1, Role: auth.RoleMember}))
	assert.False(t, CanCreateBorrow(auth.Principal{UserID: 1, Role: auth.RoleLibrarian}))
	assert.False(t, CanCreateBorrow(auth.Principal{UserID: 1, Role: auth.RoleAdmin}))
	assert.False(t, CanCreateBorrow(auth.Principal{}))
}

func TestCanReturnBorrow(t *testing.T) {
	b := &Borrow{ID: 7, UserID: 1, BookID: 10, Status: StatusBorrowed}

	assert.True(t, CanReturnBorrow(auth.Principal{UserID: 1, Role: auth.RoleMember}, b))

	// Identity, not privilege: an admin who is not the borrower is refused.
	assert.False(t, CanReturnBorrow(auth.Principal{UserID: 2, Role: auth.RoleMember}, b))
	assert.False(t, CanReturnBorrow(auth.Principal{UserID: 2, Role: auth.RoleAdmin}, b))
	assert.False(t, CanReturnBorrow(auth.Principal{UserID: 1, Role: auth.RoleMember}, nil))
}

func TestCanMutateCatalog(t *testing.T) {
	assert.True(t, CanMutateCatalog(auth.Principal{UserID: 3, Role: auth.RoleLibrarian}))
	assert.False(t, CanMutateCatalog(auth.Principal{UserID: 1, Role: auth.RoleMember}))
	assert.False(t, CanMutateCatalog(auth.Principal{UserID: 4, Role: auth.RoleAdmin}))
}
