package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalsPartitionRecomputesFromRegistryState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.registry.Bootstrap(ctx))

	alice := env.register(t, "alice", "alice@x.com", "secret1")
	bob := env.register(t, "bob", "bob@x.com", "secret2")

	workflow := accounts.NewApprovals(env.registry)

	partition, err := workflow.Partition(ctx)
	require.NoError(t, err)
	assert.Len(t, partition.Pending, 2)
	assert.Empty(t, partition.Approved)

	_, err = workflow.Approve(ctx, alice.ID)
	require.NoError(t, err)

	partition, err = workflow.Partition(ctx)
	require.NoError(t, err)
	require.Len(t, partition.Pending, 1)
	require.Len(t, partition.Approved, 1)
	assert.Equal(t, bob.ID, partition.Pending[0].ID)
	assert.Equal(t, alice.ID, partition.Approved[0].ID)

	// the admin never shows up in either bucket
	for _, account := range append(partition.Pending, partition.Approved...) {
		assert.False(t, account.IsAdmin)
	}
}

func TestApprovalsApproveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@x.com", "secret1")

	workflow := accounts.NewApprovals(env.registry)

	first, err := workflow.Approve(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, first.IsApproved)

	second, err := workflow.Approve(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, second.IsApproved)
}

func TestApprovalsRejectRemovesPendingAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@x.com", "secret1")

	workflow := accounts.NewApprovals(env.registry)
	require.NoError(t, workflow.Reject(ctx, alice.ID))

	_, err := env.registry.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestApprovalsRejectRefusesTerminalStates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.registry.Bootstrap(ctx))

	alice := env.register(t, "alice", "alice@x.com", "secret1")
	workflow := accounts.NewApprovals(env.registry)

	_, err := workflow.Approve(ctx, alice.ID)
	require.NoError(t, err)

	err = workflow.Reject(ctx, alice.ID)
	assert.ErrorIs(t, err, accounts.ErrTerminalApproval)

	admin, err := env.registry.FindByUsername(ctx, accounts.DefaultAdminUsername)
	require.NoError(t, err)
	err = workflow.Reject(ctx, admin.ID)
	assert.ErrorIs(t, err, accounts.ErrTerminalApproval)
}

func TestApprovalsRejectLeavesUsernameBurned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@x.com", "secret1")

	workflow := accounts.NewApprovals(env.registry)
	require.NoError(t, workflow.Reject(ctx, alice.ID))

	// the orphaned credential entry blocks re-registration of the username
	handler := accounts.NewRegisterAccountHandler(env.registry, env.credentials)
	_, err := handler.Execute(ctx, accounts.RegisterAccountMessage{
		Username: "alice",
		Email:    "alice2@x.com",
		Secret:   "another-secret",
	})
	assert.ErrorIs(t, err, accounts.ErrDuplicateUsername)
}

func TestApprovalsEmitActivityEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@x.com", "secret1")
	bob := env.register(t, "bob", "bob@x.com", "secret2")

	var events []accounts.ActivityEvent
	workflow := accounts.NewApprovals(env.registry).
		WithActivitySink(accounts.ActivitySinkFunc(func(_ context.Context, event accounts.ActivityEvent) error {
			events = append(events, event)
			return nil
		}))

	_, err := workflow.Approve(ctx, alice.ID)
	require.NoError(t, err)
	require.NoError(t, workflow.Reject(ctx, bob.ID))

	require.Len(t, events, 2)
	assert.Equal(t, accounts.ActivityEventAccountApproved, events[0].EventType)
	assert.Equal(t, "alice", events[0].Username)
	assert.Equal(t, accounts.ActivityEventAccountRemoved, events[1].EventType)
	assert.Equal(t, "bob", events[1].Username)
}
