package accounts_test

import (
	"context"
	"strings"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreSetAndVerify(t *testing.T) {
	ctx := context.Background()
	store := accounts.NewMemoryStore()
	credentials := accounts.NewCredentialStore(store)

	require.NoError(t, credentials.Set(ctx, "amina", "secret1"))

	assert.True(t, credentials.Verify(ctx, "amina", "secret1"))
	assert.False(t, credentials.Verify(ctx, "amina", "secret2"))
}

func TestCredentialStoreVerifyFailsClosed(t *testing.T) {
	ctx := context.Background()
	credentials := accounts.NewCredentialStore(accounts.NewMemoryStore())

	assert.False(t, credentials.Verify(ctx, "ghost", "anything"))
}

func TestCredentialStoreUpsertsSecret(t *testing.T) {
	ctx := context.Background()
	credentials := accounts.NewCredentialStore(accounts.NewMemoryStore())

	require.NoError(t, credentials.Set(ctx, "amina", "old-secret"))
	require.NoError(t, credentials.Set(ctx, "amina", "new-secret"))

	assert.False(t, credentials.Verify(ctx, "amina", "old-secret"))
	assert.True(t, credentials.Verify(ctx, "amina", "new-secret"))
}

func TestCredentialStoreNeverPersistsCleartext(t *testing.T) {
	ctx := context.Background()
	store := accounts.NewMemoryStore()
	credentials := accounts.NewCredentialStore(store)

	require.NoError(t, credentials.Set(ctx, "amina", "super-secret-phrase"))

	raw, err := store.Get(ctx, accounts.CollectionCredentials)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-phrase")
	assert.Contains(t, string(raw), "$2a$")
}

func TestCredentialStoreExists(t *testing.T) {
	ctx := context.Background()
	credentials := accounts.NewCredentialStore(accounts.NewMemoryStore())

	exists, err := credentials.Exists(ctx, "amina")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, credentials.Set(ctx, "amina", "secret1"))

	exists, err = credentials.Exists(ctx, "amina")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHashSecretRejectsEmptyInput(t *testing.T) {
	_, err := accounts.HashSecret("")
	assert.ErrorIs(t, err, accounts.ErrEmptySecret)
}

func TestCompareSecretAndHash(t *testing.T) {
	hash, err := accounts.HashSecret("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, accounts.CompareSecretAndHash("secret1", hash))
	assert.ErrorIs(t, accounts.CompareSecretAndHash("secret2", hash), accounts.ErrInvalidCredentials)
}
