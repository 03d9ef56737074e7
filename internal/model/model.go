// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account stored on the server. Passwords are never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Email     string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	CreatedAt time.Time
}

// Page is a directory record mapping a claimed username to its owner.
// The username doubles as the page's routing key and is immutable once claimed.
type Page struct {
	Username  string    // unique, user-chosen
	OwnerID   uuid.UUID // FK -> users.id, unique (one page per owner)
	CreatedAt time.Time
}

// Position is a normalized point on the tree, both axes in [0,100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is one note pinned to a page's tree. Read-only once created.
type Message struct {
	ID          int64    `json:"id"` // creation-time unix millis, unique within a page
	Text        string   `json:"text"`
	SenderLabel string   `json:"sender"`
	Position    Position `json:"position"`
}

// Wrapping is the cosmetic descriptor attached to a gift.
type Wrapping struct {
	Color   WrapColor   `json:"color"`
	Pattern WrapPattern `json:"pattern"`
	Ribbon  WrapRibbon  `json:"ribbon"`
}

// Valid reports whether every wrapping component is a known value.
func (w Wrapping) Valid() bool {
	return w.Color.Valid() && w.Pattern.Valid() && w.Ribbon.Valid()
}

// ReceivedGift is one pending gift in a page's unwrap queue.
type ReceivedGift struct {
	ID        int64        `json:"id"`
	FromLabel string       `json:"from"`
	Template  GiftTemplate `json:"template"`
	Message   string       `json:"message"`
	Wrapping  Wrapping     `json:"wrapping"`
}

// PlacedOrnament is one decoration dropped on the tree in the customize screen.
type PlacedOrnament struct {
	Kind OrnamentKind `json:"kind"`
	X    float64      `json:"x"` // [0,100]
	Y    float64      `json:"y"` // [0,100]
}

// InRange reports whether the ornament coordinates are normalized.
func (p PlacedOrnament) InRange() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

// Customization is the per-page presentation state kept client-side.
type Customization struct {
	TreeColor       TreeColor        `json:"tree_color"`
	Scene           Scene            `json:"scene"`
	PlacedOrnaments []PlacedOrnament `json:"placed_ornaments"`
}

// DefaultCustomization returns the state a page starts with before any save.
func DefaultCustomization() Customization {
	return Customization{TreeColor: TreeEmerald, Scene: SceneWinterWonderland}
}

// Validate reports the first invalid field of a customization, if any.
func (c Customization) Validate() error {
	if !c.TreeColor.Valid() {
		return errBadTreeColor
	}
	if !c.Scene.Valid() {
		return errBadScene
	}
	for i := range c.PlacedOrnaments {
		if !c.PlacedOrnaments[i].Kind.Valid() {
			return errBadOrnament
		}
		if !c.PlacedOrnaments[i].InRange() {
			return errOrnamentOutOfRange
		}
	}
	return nil
}
