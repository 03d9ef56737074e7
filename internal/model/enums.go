package model

import (
	"errors"
	"fmt"
)

var (
	errBadTreeColor       = errors.New("unknown tree color")
	errBadScene           = errors.New("unknown scene")
	errBadOrnament        = errors.New("unknown ornament kind")
	errOrnamentOutOfRange = errors.New("ornament position out of range")
)

// TreeColor is one entry of the fixed tree palette.
type TreeColor string

const (
	TreeEmerald TreeColor = "emerald"
	TreeForest  TreeColor = "forest"
	TreeMint    TreeColor = "mint"
	TreePine    TreeColor = "pine"
)

// TreeColors lists the palette in display order.
var TreeColors = []TreeColor{TreeEmerald, TreeForest, TreeMint, TreePine}

// Valid reports whether c is a palette entry.
func (c TreeColor) Valid() bool {
	switch c {
	case TreeEmerald, TreeForest, TreeMint, TreePine:
		return true
	}
	return false
}

// Hex returns the CSS color value for the palette entry.
func (c TreeColor) Hex() string {
	switch c {
	case TreeEmerald:
		return "#2ecc71"
	case TreeForest:
		return "#27ae60"
	case TreeMint:
		return "#1abc9c"
	case TreePine:
		return "#16a085"
	}
	return ""
}

// ParseTreeColor converts a wire/CLI string into a TreeColor.
func ParseTreeColor(s string) (TreeColor, error) {
	c := TreeColor(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", errBadTreeColor, s)
	}
	return c, nil
}

// Scene is one of the selectable background themes.
type Scene string

const (
	SceneWinterWonderland   Scene = "winter-wonderland"
	SceneCozyCabin          Scene = "cozy-cabin"
	SceneStarryNight        Scene = "starry-night"
	SceneNorthernLights     Scene = "northern-lights"
	SceneIceRink            Scene = "ice-rink"
	SceneGingerbreadVillage Scene = "gingerbread-village"
	SceneAuroraBorealis     Scene = "aurora-borealis"
)

// Scenes lists the carousel in rotation order.
var Scenes = []Scene{
	SceneWinterWonderland,
	SceneCozyCabin,
	SceneStarryNight,
	SceneNorthernLights,
	SceneIceRink,
	SceneGingerbreadVillage,
	SceneAuroraBorealis,
}

// Valid reports whether s is a known scene.
func (s Scene) Valid() bool {
	return s.index() >= 0
}

func (s Scene) index() int {
	for i, v := range Scenes {
		if v == s {
			return i
		}
	}
	return -1
}

// Name returns the display name of the scene.
func (s Scene) Name() string {
	switch s {
	case SceneWinterWonderland:
		return "Winter Wonderland"
	case SceneCozyCabin:
		return "Cozy Cabin"
	case SceneStarryNight:
		return "Starry Night"
	case SceneNorthernLights:
		return "Northern Lights"
	case SceneIceRink:
		return "Enchanted Ice Rink"
	case SceneGingerbreadVillage:
		return "Gingerbread Village"
	case SceneAuroraBorealis:
		return "Aurora Borealis"
	}
	return string(s)
}

// Next returns the scene after s, wrapping at the end of the carousel.
func (s Scene) Next() Scene {
	i := s.index()
	if i < 0 {
		return Scenes[0]
	}
	return Scenes[(i+1)%len(Scenes)]
}

// Prev returns the scene before s, wrapping at the start of the carousel.
func (s Scene) Prev() Scene {
	i := s.index()
	if i < 0 {
		return Scenes[0]
	}
	return Scenes[(i+len(Scenes)-1)%len(Scenes)]
}

// ParseScene converts a wire/CLI string into a Scene.
func ParseScene(s string) (Scene, error) {
	sc := Scene(s)
	if !sc.Valid() {
		return "", fmt.Errorf("%w: %q", errBadScene, s)
	}
	return sc, nil
}

// OrnamentKind is one of the draggable decorations on the customize screen.
type OrnamentKind string

const (
	OrnamentRed  OrnamentKind = "red"
	OrnamentBlue OrnamentKind = "blue"
	OrnamentGold OrnamentKind = "gold"
)

// Valid reports whether k is a known ornament kind.
func (k OrnamentKind) Valid() bool {
	switch k {
	case OrnamentRed, OrnamentBlue, OrnamentGold:
		return true
	}
	return false
}

// ParseOrnamentKind converts a wire/CLI string into an OrnamentKind.
func ParseOrnamentKind(s string) (OrnamentKind, error) {
	k := OrnamentKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", errBadOrnament, s)
	}
	return k, nil
}

// GiftTemplate identifies one of the sendable e-gifts.
type GiftTemplate string

const (
	GiftVirtualTree GiftTemplate = "virtual-tree"
	GiftSnowglobe   GiftTemplate = "snowglobe"
	GiftECard       GiftTemplate = "ecard"
	GiftPlaylist    GiftTemplate = "playlist"
)

// GiftTemplates lists the catalog in display order.
var GiftTemplates = []GiftTemplate{GiftVirtualTree, GiftSnowglobe, GiftECard, GiftPlaylist}

// Valid reports whether g is a catalog entry.
func (g GiftTemplate) Valid() bool {
	switch g {
	case GiftVirtualTree, GiftSnowglobe, GiftECard, GiftPlaylist:
		return true
	}
	return false
}

// Name returns the display name of the gift.
func (g GiftTemplate) Name() string {
	switch g {
	case GiftVirtualTree:
		return "Virtual Christmas Tree"
	case GiftSnowglobe:
		return "Digital Snowglobe"
	case GiftECard:
		return "Festive E-Card"
	case GiftPlaylist:
		return "Holiday Playlist"
	}
	return string(g)
}

// Description returns the catalog blurb of the gift.
func (g GiftTemplate) Description() string {
	switch g {
	case GiftVirtualTree:
		return "A beautifully decorated virtual Christmas tree"
	case GiftSnowglobe:
		return "A magical digital snowglobe with customizable scene"
	case GiftECard:
		return "A heartwarming animated Christmas e-card"
	case GiftPlaylist:
		return "A curated playlist of holiday tunes"
	}
	return ""
}

// ParseGiftTemplate converts a wire/CLI string into a GiftTemplate.
func ParseGiftTemplate(s string) (GiftTemplate, error) {
	g := GiftTemplate(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown gift template: %q", s)
	}
	return g, nil
}

// WrapColor is the paper color of a gift wrapping.
type WrapColor string

// WrapPattern is the paper pattern of a gift wrapping.
type WrapPattern string

// WrapRibbon is the ribbon color of a gift wrapping.
type WrapRibbon string

const (
	WrapColorRed    WrapColor = "red"
	WrapColorGreen  WrapColor = "green"
	WrapColorBlue   WrapColor = "blue"
	WrapColorGold   WrapColor = "gold"
	WrapColorSilver WrapColor = "silver"

	WrapPatternStripes    WrapPattern = "stripes"
	WrapPatternDots       WrapPattern = "dots"
	WrapPatternStars      WrapPattern = "stars"
	WrapPatternSnowflakes WrapPattern = "snowflakes"
	WrapPatternPlain      WrapPattern = "plain"

	WrapRibbonGold   WrapRibbon = "gold"
	WrapRibbonSilver WrapRibbon = "silver"
	WrapRibbonRed    WrapRibbon = "red"
	WrapRibbonGreen  WrapRibbon = "green"
	WrapRibbonWhite  WrapRibbon = "white"
)

// Valid reports whether c is a known paper color.
func (c WrapColor) Valid() bool {
	switch c {
	case WrapColorRed, WrapColorGreen, WrapColorBlue, WrapColorGold, WrapColorSilver:
		return true
	}
	return false
}

// Valid reports whether p is a known paper pattern.
func (p WrapPattern) Valid() bool {
	switch p {
	case WrapPatternStripes, WrapPatternDots, WrapPatternStars, WrapPatternSnowflakes, WrapPatternPlain:
		return true
	}
	return false
}

// Valid reports whether r is a known ribbon color.
func (r WrapRibbon) Valid() bool {
	switch r {
	case WrapRibbonGold, WrapRibbonSilver, WrapRibbonRed, WrapRibbonGreen, WrapRibbonWhite:
		return true
	}
	return false
}

// DefaultWrapping returns the first entry of each wrapping option set.
func DefaultWrapping() Wrapping {
	return Wrapping{Color: WrapColorRed, Pattern: WrapPatternStripes, Ribbon: WrapRibbonGold}
}
