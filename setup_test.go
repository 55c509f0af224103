package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type testEnv struct {
	store       accounts.Store
	credentials *accounts.CredentialStore
	registry    *accounts.Registry
	auth        *accounts.Authenticator
}

func newTestEnv(t *testing.T, opts ...accounts.RegistryOption) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, accounts.NewMemoryStore(), opts...)
}

func newTestEnvWithStore(t *testing.T, store accounts.Store, opts ...accounts.RegistryOption) *testEnv {
	t.Helper()

	credentials := accounts.NewCredentialStore(store)
	registry := accounts.NewRegistry(store, credentials, opts...)
	auth := accounts.NewAuthenticator(registry, credentials, store)

	return &testEnv{
		store:       store,
		credentials: credentials,
		registry:    registry,
		auth:        auth,
	}
}

func (e *testEnv) register(t *testing.T, username, email, secret string) *accounts.Account {
	t.Helper()

	handler := accounts.NewRegisterAccountHandler(e.registry, e.credentials)
	account, err := handler.Execute(context.Background(), accounts.RegisterAccountMessage{
		Username: username,
		Email:    email,
		Secret:   secret,
	})
	require.NoError(t, err)
	return account
}

func setupBunStore(t *testing.T) *accounts.BunStore {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())
	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	store := accounts.NewBunStore(bunDB)
	require.NoError(t, store.Init(context.Background()))
	return store
}
