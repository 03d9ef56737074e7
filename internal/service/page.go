package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/gofrs/uuid/v5"

	"github.com/jingleboxpro/jinglebox/internal/model"
	"github.com/jingleboxpro/jinglebox/internal/repository"
)

// Usernames become URL path segments and display strings, so the accepted
// alphabet is restricted up front.
var usernameRe = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

// ValidUsername reports whether s may be claimed as a page name.
func ValidUsername(s string) bool { return usernameRe.MatchString(s) }

// PageService defines page directory operations.
type PageService interface {
	// Claim registers a username for the given owner.
	Claim(ctx context.Context, ownerID uuid.UUID, username string) (*model.Page, error)
	// ByUsername looks up a page by its routing key.
	ByUsername(ctx context.Context, username string) (*model.Page, error)
	// ByOwner looks up the page claimed by a user.
	ByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Page, error)
}

type PageServiceImpl struct {
	repo repository.PageRepository
}

// NewPageService constructs PageService.
func NewPageService(repo repository.PageRepository) *PageServiceImpl {
	return &PageServiceImpl{repo: repo}
}

// Claim validates the username shape and inserts the directory record.
func (s *PageServiceImpl) Claim(ctx context.Context, ownerID uuid.UUID, username string) (*model.Page, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("validation: empty ownerID")
	}
	if !ValidUsername(username) {
		return nil, errors.New("validation: username must be 3-24 chars of [a-z0-9-]")
	}
	p := &model.Page{Username: username, OwnerID: ownerID}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ByUsername fetches a page by name.
func (s *PageServiceImpl) ByUsername(ctx context.Context, username string) (*model.Page, error) {
	if username == "" {
		return nil, errors.New("validation: empty username")
	}
	return s.repo.GetByUsername(ctx, username)
}

// ByOwner fetches the page claimed by a user.
func (s *PageServiceImpl) ByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Page, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("validation: empty ownerID")
	}
	return s.repo.GetByOwner(ctx, ownerID)
}
