package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterAccountMessage carries a registration request. The payment proof
// is an optional base64 attachment reviewed by an administrator; it is
// stored as-is and never validated.
type RegisterAccountMessage struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Secret       string `json:"secret"`
	PaymentProof string `json:"payment_proof,omitempty"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// Validate will run validation rules
func (e RegisterAccountMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Secret, validation.Required, validation.Length(6, 100)),
	)
}

// RegisterAccountHandler creates the account and installs its credential.
// Registration is all-or-nothing from the caller's view: validation and
// uniqueness are settled before the first write, so a failure never leaves a
// partial account behind.
type RegisterAccountHandler struct {
	registry     *Registry
	credentials  *CredentialStore
	activitySink ActivitySink
	logger       Logger
}

// NewRegisterAccountHandler wires the handler to a registry and credential
// store sharing one Store.
func NewRegisterAccountHandler(registry *Registry, credentials *CredentialStore) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		registry:     registry,
		credentials:  credentials,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}
}

func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithActivitySink configures an ActivitySink for registration events.
func (h *RegisterAccountHandler) WithActivitySink(sink ActivitySink) *RegisterAccountHandler {
	h.activitySink = normalizeActivitySink(sink)
	return h
}

// Execute registers the account. A username already known to either the
// registry or the credential store fails with ErrDuplicateUsername; the
// latter covers usernames burned by removed accounts whose credential entry
// was left behind.
func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) (*Account, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled before account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) (*Account, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	burned, err := h.credentials.Exists(ctx, event.Username)
	if err != nil {
		return nil, err
	}
	if burned {
		return nil, ErrDuplicateUsername.WithMetadata(map[string]any{"username": event.Username})
	}

	account, err := h.registry.Create(ctx, event.Username, event.Email)
	if err != nil {
		return nil, err
	}

	if err := h.credentials.Set(ctx, event.Username, event.Secret); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to install credential")
	}

	if event.PaymentProof != "" {
		if account, err = h.registry.AttachPaymentProof(ctx, account.ID, event.PaymentProof); err != nil {
			return nil, err
		}
	}

	h.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountRegistered,
		AccountID: account.ID.String(),
		Username:  account.Username,
	})

	return account, nil
}

func (h *RegisterAccountHandler) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	sink := normalizeActivitySink(h.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		h.logger.Warn("registration activity sink error: %v", err)
	}
}
