package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Approvals is the admission workflow over the registry. Approval state is a
// view derived from account records, never persisted separately: every read
// recomputes the partition from current registry state.
//
// Per account the workflow runs pending to approved, or pending to removed.
// Both outcomes are terminal; there is no transition that re-rejects an
// approved account.
type Approvals struct {
	registry     *Registry
	logger       Logger
	activitySink ActivitySink
}

// NewApprovals returns the workflow bound to a registry.
func NewApprovals(registry *Registry) *Approvals {
	return &Approvals{
		registry:     registry,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (w *Approvals) WithLogger(logger Logger) *Approvals {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// WithActivitySink configures an ActivitySink for admission events.
func (w *Approvals) WithActivitySink(sink ActivitySink) *Approvals {
	w.activitySink = normalizeActivitySink(sink)
	return w
}

// Partition buckets every non-admin account for presentation.
type Partition struct {
	Pending  []*Account
	Approved []*Account
}

// Partition splits all non-admin accounts into pending and approved buckets.
func (w *Approvals) Partition(ctx context.Context) (*Partition, error) {
	all, err := w.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	p := &Partition{}
	for _, account := range all {
		switch {
		case account.IsAdmin:
			continue
		case account.IsApproved:
			p.Approved = append(p.Approved, account)
		default:
			p.Pending = append(p.Pending, account)
		}
	}

	return p, nil
}

// Approve admits the account. Approving an already approved account is a
// no-op that still resolves successfully.
func (w *Approvals) Approve(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := w.registry.SetApproval(ctx, id, true)
	if err != nil {
		return nil, err
	}

	w.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountApproved,
		AccountID: account.ID.String(),
		Username:  account.Username,
	})

	return account, nil
}

// Reject removes a pending account from the registry. Approved accounts and
// the admin cannot be rejected; their state is terminal for this workflow.
// The credential entry is left behind, so the username stays burned.
func (w *Approvals) Reject(ctx context.Context, id uuid.UUID) error {
	account, err := w.registry.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !account.IsPending() {
		return ErrTerminalApproval.WithMetadata(map[string]any{
			"id":       id.String(),
			"username": account.Username,
		})
	}

	if err := w.registry.Remove(ctx, id); err != nil {
		return err
	}

	w.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountRemoved,
		AccountID: account.ID.String(),
		Username:  account.Username,
	})

	return nil
}

func (w *Approvals) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	sink := normalizeActivitySink(w.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		w.logger.Warn("approval activity sink error: %v", err)
	}
}
