package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/model"
)

// PageRepo implements PageRepository using PostgreSQL.
type PageRepo struct{ db *DB }

// NewPageRepo constructs a page directory repository.
func NewPageRepo(db *DB) *PageRepo { return &PageRepo{db: db} }

// Create claims a username: inserts the directory row and the profile row
// (user_id, username) in one transaction. A unique violation on either the
// username or the owner maps to ErrAlreadyExists.
func (r *PageRepo) Create(ctx context.Context, p *model.Page) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insPage = `
INSERT INTO christmas_pages (username, user_id)
VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insPage, p.Username, p.OwnerID); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}

	const insProfile = `
INSERT INTO user_profiles (user_id, username)
VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insProfile, p.OwnerID, p.Username); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit(ctx)
}

// GetByUsername selects a page by its routing key.
func (r *PageRepo) GetByUsername(ctx context.Context, username string) (*model.Page, error) {
	const q = `
SELECT username, user_id, created_at
FROM christmas_pages WHERE username=$1`
	return r.scanPage(r.db.Pool.QueryRow(ctx, q, username))
}

// GetByOwner selects the page claimed by the given user.
func (r *PageRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Page, error) {
	const q = `
SELECT username, user_id, created_at
FROM christmas_pages WHERE user_id=$1`
	return r.scanPage(r.db.Pool.QueryRow(ctx, q, ownerID))
}

func (r *PageRepo) scanPage(row pgx.Row) (*model.Page, error) {
	var p model.Page
	if err := row.Scan(&p.Username, &p.OwnerID, &p.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &p, nil
}
