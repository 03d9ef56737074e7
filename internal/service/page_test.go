package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/jingleboxpro/jinglebox/internal/errs"
)

func TestValidUsername(t *testing.T) {
	t.Parallel()
	ok := []string{"frosty", "mrs-claus", "elf-42", "abc"}
	for _, s := range ok {
		if !ValidUsername(s) {
			t.Errorf("ValidUsername(%q) = false", s)
		}
	}
	bad := []string{"", "ab", "Frosty", "frosty claus", "frosty/../../etc", "имя", "a-very-long-username-way-over-limit"}
	for _, s := range bad {
		if ValidUsername(s) {
			t.Errorf("ValidUsername(%q) = true", s)
		}
	}
}

func TestPageService_ClaimAndLookup(t *testing.T) {
	t.Parallel()
	repo := &fakePages{}
	s := NewPageService(repo)
	owner := uuid.Must(uuid.NewV4())

	p, err := s.Claim(context.Background(), owner, "frosty")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if p.Username != "frosty" || p.OwnerID != owner {
		t.Fatalf("page = %+v", p)
	}

	got, err := s.ByUsername(context.Background(), "frosty")
	if err != nil || got.OwnerID != owner {
		t.Fatalf("ByUsername: %+v %v", got, err)
	}
	got, err = s.ByOwner(context.Background(), owner)
	if err != nil || got.Username != "frosty" {
		t.Fatalf("ByOwner: %+v %v", got, err)
	}

	if _, err := s.ByUsername(context.Background(), "nobody"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPageService_Claim_Conflicts(t *testing.T) {
	t.Parallel()
	repo := &fakePages{}
	s := NewPageService(repo)
	owner := uuid.Must(uuid.NewV4())

	if _, err := s.Claim(context.Background(), owner, "frosty"); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	// Same username, different owner.
	other := uuid.Must(uuid.NewV4())
	if _, err := s.Claim(context.Background(), other, "frosty"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists for taken username, got %v", err)
	}

	// Same owner, second page.
	if _, err := s.Claim(context.Background(), owner, "frosty-two"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists for second page, got %v", err)
	}

	if _, err := s.Claim(context.Background(), uuid.Nil, "frosty-three"); err == nil {
		t.Fatalf("want validation error for nil owner")
	}
}
