package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/jingleboxpro/jinglebox/internal/model"
)

// PageRepository provides access to the page directory.
type PageRepository interface {
	// Create claims a username for an owner. The directory row and the
	// profile row are written in one transaction.
	Create(ctx context.Context, p *model.Page) error
	// GetByUsername loads a page by its routing key.
	GetByUsername(ctx context.Context, username string) (*model.Page, error)
	// GetByOwner loads the page claimed by the given user, if any.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Page, error)
}
