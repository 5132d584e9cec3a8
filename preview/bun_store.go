package preview

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore persists previews through go-repository-bun.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Preview]
}

// NewBunStore constructs a preview store without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache constructs a preview store with an optional
// repository cache in front of the database.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	base := newPreviewRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunStore{db: db, repo: base}
}

func newPreviewRepository(db *bun.DB) repository.Repository[*Preview] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Preview]{
		NewRecord: func() *Preview { return &Preview{} },
		GetID: func(p *Preview) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Preview, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "nonce"
		},
		GetIdentifierValue: func(p *Preview) string {
			return p.Nonce
		},
	})
}

// Create inserts the supplied preview.
func (s *BunStore) Create(ctx context.Context, record *Preview) (*Preview, error) {
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return created, nil
}

// GetByID retrieves a preview by identifier.
func (s *BunStore) GetByID(ctx context.Context, id uuid.UUID) (*Preview, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

// Update replaces a stored preview.
func (s *BunStore) Update(ctx context.Context, record *Preview) (*Preview, error) {
	updated, err := s.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("status", "config", "report", "error", "expires_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

// Delete removes a preview.
func (s *BunStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.db.NewDelete().
		Model((*Preview)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("preview store: delete: %w", err)
	}
	return nil
}

// List returns every stored preview.
func (s *BunStore) List(ctx context.Context) ([]*Preview, error) {
	records, _, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

// DeleteExpired removes previews past their retention window.
func (s *BunStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.NewDelete().
		Model((*Preview)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("preview store: delete expired: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("preview store: %w", err)
}
