package accounts

import (
	"github.com/google/uuid"
)

// DefaultAdminUsername is the well-known username Bootstrap ensures exists.
// Override with WithAdminAccount.
const DefaultAdminUsername = "iandjuhana"

// DefaultAdminEmail is the contact address assigned to the bootstrap admin.
const DefaultAdminEmail = "admin@example.com"

// Account is the persisted profile record. Credentials live in a separate
// collection so authentication data and profile data can evolve independently.
//
// JSON tags match the document shape the store keeps on disk.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"isAdmin"`
	IsApproved   bool      `json:"isApproved"`
	WordsUsed    int       `json:"wordsUsed"`
	PaymentProof string    `json:"paymentProof,omitempty"`
}

// IsAuthorized reports whether the account may hold a session. Admins bypass
// the approval gate.
func (a *Account) IsAuthorized() bool {
	return a.IsAdmin || a.IsApproved
}

// IsPending reports whether the account is waiting on administrator approval.
func (a *Account) IsPending() bool {
	return !a.IsAdmin && !a.IsApproved
}

// Clone returns a copy so session snapshots never alias registry records.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}
