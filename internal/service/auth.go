// Package service contains application services for authentication, the page
// directory, message boards, and the gift exchange.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/jingleboxpro/jinglebox/internal/crypto"
	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/limiter"
	"github.com/jingleboxpro/jinglebox/internal/model"
	"github.com/jingleboxpro/jinglebox/internal/repository"
)

// AuthService defines account operations.
type AuthService interface {
	// SignUp creates a new account with secure password hashing and claims
	// the chosen page username for it.
	SignUp(ctx context.Context, email, password, username string) (model.Tokens, *model.Page, error)
	// SignInWithIP applies rate-limiting and authenticates the user.
	SignInWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	pages     PageService
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, pages PageService, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, pages: pages, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// SignUp creates the user record and its page directory entry. The username is
// validated here because sign-up is the only place a page is born with its user.
func (s *AuthServiceImpl) SignUp(ctx context.Context, email, password, username string) (model.Tokens, *model.Page, error) {
	if email == "" || password == "" {
		return model.Tokens{}, nil, errors.New("empty email/password")
	}
	// Check the username before touching the users table so a rejected claim
	// does not leave an orphaned account holding the email.
	if !ValidUsername(username) {
		return model.Tokens{}, nil, errors.New("validation: username must be 3-24 chars of a-z, 0-9 or -")
	}
	if _, err := s.pages.ByUsername(ctx, username); err == nil {
		return model.Tokens{}, nil, errs.ErrAlreadyExists
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.Tokens{}, nil, err
	}
	saltAuth, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return model.Tokens{}, nil, err
	}

	u := &model.User{
		ID:       uid,
		Email:    email,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), saltAuth),
		SaltAuth: saltAuth,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.Tokens{}, nil, err
	}

	page, err := s.pages.Claim(ctx, uid, username)
	if err != nil {
		return model.Tokens{}, nil, err
	}

	access, exp, err := s.issueAccessToken(uid)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, page, nil
}

// SignInWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) SignInWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		// Record failure; if the threshold was reached, report rate-limited.
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// Lookup errors are masked so account existence is not leaked.
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}
