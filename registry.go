package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// CredentialWriter is what the registry needs from the credential store to
// install the bootstrap admin's secret.
type CredentialWriter interface {
	Set(ctx context.Context, username, secret string) error
}

// Registry owns the set of accounts and enforces username uniqueness. All
// mutations rewrite the accounts collection wholesale through the shared
// Store.
type Registry struct {
	store       Store
	credentials CredentialWriter
	logger      Logger

	adminUsername string
	adminEmail    string
	adminSecret   string
}

// RegistryOption customizes registry construction.
type RegistryOption func(*Registry)

// WithAdminAccount overrides the bootstrap admin's identity and secret.
func WithAdminAccount(username, email, secret string) RegistryOption {
	return func(r *Registry) {
		if username != "" {
			r.adminUsername = username
		}
		if email != "" {
			r.adminEmail = email
		}
		if secret != "" {
			r.adminSecret = secret
		}
	}
}

// WithRegistryLogger overrides the registry logger.
func WithRegistryLogger(logger Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns a Registry persisting through store. The credential
// writer is used only by Bootstrap to install the admin secret.
func NewRegistry(store Store, credentials CredentialWriter, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:         store,
		credentials:   credentials,
		logger:        defLogger{},
		adminUsername: DefaultAdminUsername,
		adminEmail:    DefaultAdminEmail,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Bootstrap ensures exactly one admin account exists under the well-known
// username. It is idempotent and safe to call on every process start; the
// admin id is derived from the username so repeated runs agree on it.
func (r *Registry) Bootstrap(ctx context.Context) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	for _, account := range all {
		if account.Username == r.adminUsername {
			return nil
		}
	}

	admin := &Account{
		ID:         r.adminID(),
		Username:   r.adminUsername,
		Email:      r.adminEmail,
		IsAdmin:    true,
		IsApproved: true,
		WordsUsed:  0,
	}

	all = append(all, admin)
	if err := r.save(ctx, all); err != nil {
		return err
	}

	if r.adminSecret != "" {
		if err := r.credentials.Set(ctx, r.adminUsername, r.adminSecret); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to install admin credential")
		}
	}

	r.logger.Info("bootstrapped admin account", "username", r.adminUsername)
	return nil
}

// Create adds a new unapproved, non-admin account. Usernames are unique with
// a case-sensitive exact match.
func (r *Registry) Create(ctx context.Context, username, email string) (*Account, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range all {
		if account.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	account := &Account{
		ID:         uuid.New(),
		Username:   username,
		Email:      email,
		IsAdmin:    false,
		IsApproved: false,
		WordsUsed:  0,
	}

	all = append(all, account)
	if err := r.save(ctx, all); err != nil {
		return nil, err
	}

	return account.Clone(), nil
}

// List returns every account. Order is stable across reads absent mutation.
func (r *Registry) List(ctx context.Context) ([]*Account, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Account, 0, len(all))
	for _, account := range all {
		out = append(out, account.Clone())
	}
	return out, nil
}

// FindByUsername returns the account registered under username.
func (r *Registry) FindByUsername(ctx context.Context, username string) (*Account, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range all {
		if account.Username == username {
			return account.Clone(), nil
		}
	}

	return nil, ErrAccountNotFound.WithMetadata(map[string]any{"username": username})
}

// FindByID returns the account with the given id.
func (r *Registry) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range all {
		if account.ID == id {
			return account.Clone(), nil
		}
	}

	return nil, ErrAccountNotFound.WithMetadata(map[string]any{"id": id.String()})
}

// SetApproval mutates the approval flag. Setting the current value is a
// no-op that still resolves successfully.
func (r *Registry) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*Account, error) {
	return r.update(ctx, id, func(account *Account) {
		account.IsApproved = approved
	})
}

// SetWordsUsed overwrites the usage counter. Callers must guarantee the new
// total is never below the previous one; the meter is the only expected
// caller.
func (r *Registry) SetWordsUsed(ctx context.Context, id uuid.UUID, total int) (*Account, error) {
	return r.update(ctx, id, func(account *Account) {
		account.WordsUsed = total
	})
}

// AttachPaymentProof stores the advisory registration attachment. The blob is
// opaque to the registry and never validated.
func (r *Registry) AttachPaymentProof(ctx context.Context, id uuid.UUID, proof string) (*Account, error) {
	return r.update(ctx, id, func(account *Account) {
		account.PaymentProof = proof
	})
}

// Remove deletes the account. The matching credential entry is intentionally
// left behind, which keeps the username burned for future registrations.
func (r *Registry) Remove(ctx context.Context, id uuid.UUID) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]*Account, 0, len(all))
	found := false
	for _, account := range all {
		if account.ID == id {
			found = true
			continue
		}
		kept = append(kept, account)
	}

	if !found {
		return ErrAccountNotFound.WithMetadata(map[string]any{"id": id.String()})
	}

	return r.save(ctx, kept)
}

func (r *Registry) update(ctx context.Context, id uuid.UUID, mutate func(*Account)) (*Account, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range all {
		if account.ID != id {
			continue
		}

		mutate(account)
		if err := r.save(ctx, all); err != nil {
			return nil, err
		}
		return account.Clone(), nil
	}

	return nil, ErrAccountNotFound.WithMetadata(map[string]any{"id": id.String()})
}

func (r *Registry) adminID() uuid.UUID {
	if id, err := hashid.NewUUID(r.adminUsername); err == nil {
		return id
	}
	return uuid.New()
}

func (r *Registry) load(ctx context.Context) ([]*Account, error) {
	all := []*Account{}
	if _, err := loadCollection(ctx, r.store, CollectionAccounts, &all); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load accounts")
	}
	return all, nil
}

func (r *Registry) save(ctx context.Context, all []*Account) error {
	return saveCollection(ctx, r.store, CollectionAccounts, all)
}
