package borrows

import "library-backend/internal/platform/auth"

// Access policy for the ledger: pure predicates over (principal, resource).
// They never error; callers translate a false result into the appropriate
// 403-class failure.

// CanCreateBorrow: only members borrow books.
func CanCreateBorrow(p auth.Principal) bool {
	return p.Role == auth.RoleMember
}

// CanReturnBorrow: ownership, not privilege. Only the borrower themselves may
// return a borrow, whatever their role.
func CanReturnBorrow(p auth.Principal, b *Borrow) bool {
	return b != nil && p.UserID == b.UserID
}

// CanMutateCatalog: librarians maintain books, authors and categories.
func CanMutateCatalog(p auth.Principal) bool {
	return p.Role == auth.RoleLibrarian
}
