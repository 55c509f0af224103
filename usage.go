package accounts

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SessionUpdater is what the meter needs from the authenticator to keep the
// active session in step with recorded usage.
type SessionUpdater interface {
	CurrentSession(ctx context.Context) (*Account, error)
	UpdateSession(ctx context.Context, account *Account) error
}

// Meter tracks per-account word consumption. The counter only ever grows;
// the content provider reports the word count of each completed generation
// and the meter adds it to the account's running total.
type Meter struct {
	registry *Registry
	sessions SessionUpdater
	logger   Logger
}

// NewMeter returns a Meter. The session updater may be nil for hosts that
// meter accounts without an interactive session.
func NewMeter(registry *Registry, sessions SessionUpdater) *Meter {
	return &Meter{
		registry: registry,
		sessions: sessions,
		logger:   defLogger{},
	}
}

func (m *Meter) WithLogger(logger Logger) *Meter {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// RecordUsage adds words to the account's total and persists it. When the
// target account holds the active session the session snapshot is refreshed
// too, so callers read their own writes. No upper bound is enforced here;
// rate limiting belongs to the content provider.
func (m *Meter) RecordUsage(ctx context.Context, id uuid.UUID, words int) (*Account, error) {
	if words < 0 {
		return nil, goerrors.New("word count must not be negative", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"words": words})
	}

	account, err := m.registry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := m.registry.SetWordsUsed(ctx, id, account.WordsUsed+words)
	if err != nil {
		return nil, err
	}

	if err := m.refreshSession(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

func (m *Meter) refreshSession(ctx context.Context, account *Account) error {
	if m.sessions == nil {
		return nil
	}

	session, err := m.sessions.CurrentSession(ctx)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			return nil
		}
		return err
	}

	if session.ID != account.ID {
		return nil
	}

	return m.sessions.UpdateSession(ctx, account)
}

// CountWords reports the whitespace-separated word count of text, matching
// how the original surface measured generated content. Hosts whose content
// provider already reports a count do not need it.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
