package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeDuplicateUsername marks registrations that clash with an existing username.
	TextCodeDuplicateUsername = "DUPLICATE_USERNAME"
	// TextCodeInvalidCredentials marks login failures for unknown users or wrong secrets.
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodePendingApproval marks logins blocked on administrator approval.
	TextCodePendingApproval = "PENDING_APPROVAL"
	// TextCodeAccountNotFound marks failed lookups by id or username.
	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	// TextCodeMalformedQuota marks demo usage records that did not parse.
	TextCodeMalformedQuota = "MALFORMED_QUOTA"
	// TextCodeSessionNotFound marks session reads with no active session.
	TextCodeSessionNotFound = "SESSION_NOT_FOUND"
	// TextCodeTerminalApproval marks approval transitions out of a terminal state.
	TextCodeTerminalApproval = "TERMINAL_APPROVAL_STATE"
	// TextCodeEmptySecret marks attempts to hash an empty secret.
	TextCodeEmptySecret = "EMPTY_SECRET"
	// TextCodeSessionTokenExpired marks session tokens past their expiry.
	TextCodeSessionTokenExpired = "SESSION_TOKEN_EXPIRED"
	// TextCodeSessionTokenMalformed marks session tokens that failed to parse or verify.
	TextCodeSessionTokenMalformed = "SESSION_TOKEN_MALFORMED"
)

// ErrDuplicateUsername is returned when a registration reuses a username,
// including usernames left burned by a removed account's orphaned credential.
var ErrDuplicateUsername = goerrors.New("username is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUsername).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials is the single login failure for unknown usernames and
// wrong secrets. The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials)

// ErrPendingApproval is returned when credentials check out but the account
// has not been approved by an administrator. Callers must render this
// differently from ErrInvalidCredentials.
var ErrPendingApproval = goerrors.New("account is pending administrator approval", goerrors.CategoryAuth).
	WithTextCode(TextCodePendingApproval)

// ErrAccountNotFound is returned by registry lookups that match no account.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound)

// ErrMalformedQuota describes a demo usage value that is not a non-negative
// integer. The tracker treats such values as 0 and overwrites them; this error
// is logged, never returned.
var ErrMalformedQuota = goerrors.New("demo quota record is malformed", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMalformedQuota)

// ErrNoActiveSession is returned when no session is held in memory and no
// durable copy exists.
var ErrNoActiveSession = goerrors.New("no active session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound)

// ErrTerminalApproval is returned when rejecting an account that already left
// the pending state. Approved and removed are terminal for the workflow.
var ErrTerminalApproval = goerrors.New("approval state is terminal", goerrors.CategoryConflict).
	WithTextCode(TextCodeTerminalApproval).
	WithCode(goerrors.CodeConflict)

// ErrEmptySecret is returned when hashing an empty secret.
var ErrEmptySecret = goerrors.New("secret must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptySecret)

// ErrSessionTokenExpired is returned when a session token is past its expiry.
var ErrSessionTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionTokenExpired)

// ErrSessionTokenMalformed is returned when a session token fails parsing or
// signature verification.
var ErrSessionTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionTokenMalformed)
