package accounts

import (
	"context"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
)

// loadCollection unmarshals a collection document into out. It reports
// whether the collection existed; a missing collection leaves out untouched.
func loadCollection(ctx context.Context, store Store, collection string, out any) (bool, error) {
	raw, err := store.Get(ctx, collection)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read collection").
			WithMetadata(map[string]any{"collection": collection})
	}

	if len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode collection").
			WithMetadata(map[string]any{"collection": collection})
	}

	return true, nil
}

// saveCollection replaces a collection document wholesale. Components never
// issue field-level updates; the collection is the unit of atomicity.
func saveCollection(ctx context.Context, store Store, collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode collection").
			WithMetadata(map[string]any{"collection": collection})
	}

	if err := store.Set(ctx, collection, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write collection").
			WithMetadata(map[string]any{"collection": collection})
	}

	return nil
}
