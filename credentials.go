package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// CredentialStore owns the username to secret-hash mapping. It is persisted
// independently of accounts; every mutating operation in the package keeps
// the two collections consistent by hand, except Remove on the registry
// which deliberately leaves the credential behind.
type CredentialStore struct {
	store  Store
	logger Logger
}

// NewCredentialStore returns a CredentialStore backed by the given Store.
func NewCredentialStore(store Store) *CredentialStore {
	return &CredentialStore{
		store:  store,
		logger: defLogger{},
	}
}

func (c *CredentialStore) WithLogger(logger Logger) *CredentialStore {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Set upserts the secret for a username. The secret is hashed before it is
// written; no strength validation happens here.
func (c *CredentialStore) Set(ctx context.Context, username, secret string) error {
	hash, err := HashSecret(secret)
	if err != nil {
		return err
	}

	entries, err := c.load(ctx)
	if err != nil {
		return err
	}

	entries[username] = hash
	return saveCollection(ctx, c.store, CollectionCredentials, entries)
}

// Verify reports whether the secret matches the stored hash for username.
// It fails closed: an unknown username verifies false.
func (c *CredentialStore) Verify(ctx context.Context, username, secret string) bool {
	entries, err := c.load(ctx)
	if err != nil {
		c.logger.Error("credential verify read error", "username", username, "error", err)
		return false
	}

	hash, ok := entries[username]
	if !ok {
		return false
	}

	return CompareSecretAndHash(secret, hash) == nil
}

// Exists reports whether a credential entry is recorded for username, even
// when the matching account is gone. Registration uses this to honor the
// burned-username behavior of removed accounts.
func (c *CredentialStore) Exists(ctx context.Context, username string) (bool, error) {
	entries, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	_, ok := entries[username]
	return ok, nil
}

func (c *CredentialStore) load(ctx context.Context) (map[string]string, error) {
	entries := map[string]string{}
	if _, err := loadCollection(ctx, c.store, CollectionCredentials, &entries); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load credentials")
	}
	return entries, nil
}
