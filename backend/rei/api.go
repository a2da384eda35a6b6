// Package rei integrates the Roughly Enough Items recipe viewer.
//
// Like EMI, REI's runtime is pulled: Plugin.Runtime returns nil until REI
// has reloaded its plugins. Identity is only derived for item entries.
package rei

import (
	"stash/geom"
	"stash/host"
)

// Plugin is REI's entry point. The host passes nil when REI is not installed.
type Plugin interface {
	Runtime() Runtime
	RegisterExclusionZones(fn func(screen host.Screen) []geom.Rect)
}

// Runtime is REI's live API.
type Runtime interface {
	Entries() EntryRegistry
	Overlay() Overlay
	// OpenView opens the recipe view and reports whether REI accepted the request.
	OpenView(req ViewRequest) bool
	IsRecipeScreen(screen host.Screen) bool
	Render(s host.Surface, e Entry, x, y, size int)
	Describe(e Entry) (name string, icon host.Icon, tooltip []string)
}

type EntryRegistry interface {
	Item(id, components string) (ItemEntry, bool)
}

type Overlay interface {
	Visible() bool
	FocusedStack(x, y int) (Entry, bool)
	Bounds(screen host.Screen) (geom.Rect, bool)
}

// ViewMode picks recipes or usages.
type ViewMode int

const (
	ViewRecipes ViewMode = iota
	ViewUsages
)

type ViewRequest struct {
	Mode  ViewMode
	Entry Entry
}
