package accounts

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// CollectionRecord is the durable row backing one logical collection.
type CollectionRecord struct {
	bun.BaseModel `bun:"table:collections,alias:col"`
	Key           string `bun:"key,pk" json:"key"`
	Value         []byte `bun:"value,notnull" json:"value"`
}

// BunStore persists collections through a bun database, one row per
// collection key with the JSON document as the value.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// NewBunStore wraps an existing bun database. Call Init once to ensure the
// backing table exists.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// Init creates the collections table if it is missing. Safe to call on every
// process start.
func (s *BunStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*CollectionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create collections table")
	}
	return nil
}

func (s *BunStore) Get(ctx context.Context, collection string) ([]byte, error) {
	record := &CollectionRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.key = ?", collection).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read collection row").
			WithMetadata(map[string]any{"collection": collection})
	}

	return record.Value, nil
}

func (s *BunStore) Set(ctx context.Context, collection string, value []byte) error {
	record := &CollectionRecord{
		Key:   collection,
		Value: value,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write collection row").
			WithMetadata(map[string]any{"collection": collection})
	}

	return nil
}

func (s *BunStore) Delete(ctx context.Context, collection string) error {
	_, err := s.db.NewDelete().
		Model((*CollectionRecord)(nil)).
		Where("?TableAlias.key = ?", collection).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete collection row").
			WithMetadata(map[string]any{"collection": collection})
	}

	return nil
}
