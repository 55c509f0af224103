package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AccountFinder is what the authenticator needs from the registry.
type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
}

// CredentialVerifier is what the authenticator needs from the credential
// store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, secret string) bool
}

// Authenticator validates credentials plus approval state and owns the
// Session: the currently authenticated account held in memory with one
// durable copy for reload survival.
//
// A login attempt moves through submitted, verified, authorized and ends in
// an active session, or exits early with ErrInvalidCredentials or
// ErrPendingApproval.
type Authenticator struct {
	registry    AccountFinder
	credentials CredentialVerifier
	store       Store
	logger      Logger

	latency      time.Duration
	activitySink ActivitySink
	tokenService *TokenService

	session       *Account
	sessionLoaded bool
}

// NewAuthenticator returns an Authenticator sharing the given Store with the
// rest of the components.
func NewAuthenticator(registry AccountFinder, credentials CredentialVerifier, store Store) *Authenticator {
	return &Authenticator{
		registry:     registry,
		credentials:  credentials,
		store:        store,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Authenticator) WithActivitySink(sink ActivitySink) *Authenticator {
	a.activitySink = normalizeActivitySink(sink)
	return a
}

// WithLatency makes Login suspend for d before resolving, reproducing the
// remote round-trip the original frontend simulated. The wait always
// completes; there is no cancellation once an attempt is submitted.
func (a *Authenticator) WithLatency(d time.Duration) *Authenticator {
	a.latency = d
	return a
}

// WithTokenService enables minting and restoring signed session tokens.
func (a *Authenticator) WithTokenService(ts *TokenService) *Authenticator {
	a.tokenService = ts
	return a
}

// Login authenticates username and secret. Unknown usernames and wrong
// secrets both resolve to ErrInvalidCredentials; a valid secret on an
// unapproved non-admin account resolves to ErrPendingApproval, which callers
// must surface as a distinct message. On success the account becomes the
// active session and its durable copy is written.
func (a *Authenticator) Login(ctx context.Context, username, secret string) (*Account, error) {
	a.wait()

	account, err := a.registry.FindByUsername(ctx, username)
	if err != nil {
		if goerrors.IsNotFound(err) {
			a.emitAuthEvent(ctx, ActivityEventLoginFailure, "", username, map[string]any{
				"reason": TextCodeInvalidCredentials,
			})
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("login account lookup error", "username", username, "error", err)
		return nil, err
	}

	if !a.credentials.Verify(ctx, username, secret) {
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, account.ID.String(), username, map[string]any{
			"reason": TextCodeInvalidCredentials,
		})
		return nil, ErrInvalidCredentials
	}

	if !account.IsAuthorized() {
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, account.ID.String(), username, map[string]any{
			"reason": TextCodePendingApproval,
		})
		return nil, ErrPendingApproval
	}

	if err := a.setSession(ctx, account); err != nil {
		return nil, err
	}

	a.emitAuthEvent(ctx, ActivityEventLoginSuccess, account.ID.String(), username, nil)
	return account.Clone(), nil
}

// Logout clears the session unconditionally. A failure to remove the durable
// copy is logged and swallowed; logout always succeeds.
func (a *Authenticator) Logout(ctx context.Context) {
	var accountID, username string
	if a.session != nil {
		accountID = a.session.ID.String()
		username = a.session.Username
	}

	a.session = nil
	a.sessionLoaded = true

	if err := a.store.Delete(ctx, CollectionSession); err != nil {
		a.logger.Warn("failed to remove durable session copy", "error", err)
	}

	a.emitAuthEvent(ctx, ActivityEventLogout, accountID, username, nil)
}

// CurrentSession returns the active account. The durable copy is loaded
// lazily on first access so a session survives a process reload.
func (a *Authenticator) CurrentSession(ctx context.Context) (*Account, error) {
	if !a.sessionLoaded {
		if err := a.loadSession(ctx); err != nil {
			return nil, err
		}
	}

	if a.session == nil {
		return nil, ErrNoActiveSession
	}

	return a.session.Clone(), nil
}

// UpdateSession overwrites the held session and its durable copy with the
// given snapshot. Authorization is not re-run: callers must already hold a
// valid, freshly authorized session, typically after a usage or approval
// change to the same account.
func (a *Authenticator) UpdateSession(ctx context.Context, account *Account) error {
	if account == nil {
		return goerrors.New("session account must not be nil", goerrors.CategoryBadInput)
	}
	return a.setSession(ctx, account)
}

// SessionToken mints a signed token for the active session. Requires a
// token service.
func (a *Authenticator) SessionToken(ctx context.Context) (string, error) {
	if a.tokenService == nil {
		return "", goerrors.New("token service is required", goerrors.CategoryBadInput)
	}

	session, err := a.CurrentSession(ctx)
	if err != nil {
		return "", err
	}

	return a.tokenService.Mint(session)
}

// SessionFromToken restores the session from a signed token, looking the
// account up by the token subject. Like UpdateSession this trusts the caller
// and does not re-run the approval gate; the signature is the credential.
func (a *Authenticator) SessionFromToken(ctx context.Context, raw string) (*Account, error) {
	if a.tokenService == nil {
		return nil, goerrors.New("token service is required", goerrors.CategoryBadInput)
	}

	claims, err := a.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrSessionTokenMalformed
	}

	account, err := a.registry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.setSession(ctx, account); err != nil {
		return nil, err
	}

	return account.Clone(), nil
}

func (a *Authenticator) setSession(ctx context.Context, account *Account) error {
	snapshot := account.Clone()
	if err := saveCollection(ctx, a.store, CollectionSession, snapshot); err != nil {
		return err
	}

	a.session = snapshot
	a.sessionLoaded = true
	return nil
}

func (a *Authenticator) loadSession(ctx context.Context) error {
	session := &Account{}
	found, err := loadCollection(ctx, a.store, CollectionSession, session)
	if err != nil {
		return err
	}

	if found {
		a.session = session
	}
	a.sessionLoaded = true
	return nil
}

func (a *Authenticator) wait() {
	if a.latency <= 0 {
		return
	}
	time.Sleep(a.latency)
}

func (a *Authenticator) emitAuthEvent(ctx context.Context, eventType ActivityEventType, accountID, username string, metadata map[string]any) {
	sink := normalizeActivitySink(a.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		AccountID: accountID,
		Username:  username,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink record error: %v", err)
	}
}
