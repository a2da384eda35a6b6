// Package host declares the contracts stash consumes from the game client it
// overlays: drawing surfaces, screen handles, the item registry and the world
// the player is in. Implementations live with the host (see package sim for
// the simulated one used by the demo and tests).
package host

import "stash/geom"

// Color is 0xAARRGGBB.
type Color uint32

const (
	ColorWhite  Color = 0xFFFFFFFF
	ColorGray   Color = 0xFFA0A0A0
	ColorDark   Color = 0xC0101010
	ColorAccent Color = 0xFF55AAFF
	ColorGold   Color = 0xFFFFD75F
	ColorRed    Color = 0xFFFF5555
	ColorGreen  Color = 0xFF55FF55
)

// Icon is the host's visual for an ingredient. Glyph is used by text hosts,
// Texture by graphical ones; either may be empty.
type Icon struct {
	Glyph   rune
	Color   Color
	Texture string
}

// MissingIcon is drawn for ingredients that can no longer be resolved.
var MissingIcon = Icon{Glyph: '?', Color: ColorRed, Texture: "stash:missing"}

// Surface is the host's 2D drawing and text-measurement API.
type Surface interface {
	FillRect(r geom.Rect, c Color)
	DrawText(text string, x, y int, c Color)
	DrawIcon(icon Icon, x, y, size int)
	TextWidth(text string) int
	LineHeight() int
}

// Screen is an opaque handle to the currently open host screen.
type Screen interface {
	ScreenID() string
	Size() (w, h int)
}

// ItemInfo describes a registered item or fluid.
type ItemInfo struct {
	ID          string
	DisplayName string
	Icon        Icon
	MaxStack    int
}

// Registry resolves namespaced ids against the host's registries for the
// current session.
type Registry interface {
	Item(id string) (ItemInfo, bool)
	Fluid(id string) (ItemInfo, bool)
}

// WorldInfo identifies the world/session the player is in.
type WorldInfo struct {
	Multiplayer bool
	ServerName  string
	SaveDir     string // singleplayer save directory name
	Dimension   string
	SpawnX      float64
	SpawnY      float64
	SpawnZ      float64
}
