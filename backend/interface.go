// Package backend defines the contract stash uses to talk to recipe-viewer
// mods, and the registry that owns one adapter per viewer for a session.
//
// Only one recipe viewer is normally installed, but stash links against all
// three integrations (packages jei, emi and rei) and lets each probe for its
// own mod. The host tells each integration whether its mod is present by
// handing it a Plugin value (nil when absent); there is no name-based lookup.
//
// # Native ingredients
//
// Every viewer has its own ingredient model. Each integration package
// declares a sealed sum type for it (jei.Ingredient, emi.Stack, rei.Entry)
// whose variants all satisfy Native. Adapters accept any Native and reject
// another backend's values with a protocol violation.
//
// # Failure model
//
// Adapter methods never panic: calls into viewer code are guarded and any
// panic is converted into a PROTOCOL_VIOLATION error plus a log entry.
// Conversion failures are CONVERSION errors; callers degrade to a
// placeholder instead of failing.
package backend

import (
	"stash/geom"
	"stash/host"
	"stash/ingredient"
)

// ID identifies a recipe viewer backend.
type ID string

const (
	JEI ID = "jei"
	EMI ID = "emi"
	REI ID = "rei"
)

// Descriptor is the static identity of a backend.
type Descriptor struct {
	ID          ID
	DisplayName string
}

var (
	JEIDescriptor = Descriptor{ID: JEI, DisplayName: "Just Enough Items"}
	EMIDescriptor = Descriptor{ID: EMI, DisplayName: "EMI"}
	REIDescriptor = Descriptor{ID: REI, DisplayName: "Roughly Enough Items"}
)

// Descriptors lists the known backends in their default registration order.
func Descriptors() []Descriptor {
	return []Descriptor{JEIDescriptor, EMIDescriptor, REIDescriptor}
}

// DescriptorFor looks up a known backend by id.
func DescriptorFor(id ID) (Descriptor, bool) {
	for _, d := range Descriptors() {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// State is the probe/runtime lifecycle of an adapter. It only moves forward
// (Unprobed -> Unavailable|Available -> Active) until the registry cache is
// cleared.
type State int

const (
	StateUnprobed State = iota
	StateUnavailable
	StateAvailable
	// StateActive means the viewer also handed over its live runtime.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUnprobed:
		return "unprobed"
	case StateUnavailable:
		return "unavailable"
	case StateAvailable:
		return "available"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Native is a backend's own ingredient value.
type Native interface {
	Backend() ID
}

// Displayable is the minimal visual of an ingredient: what to draw and what
// to put in its tooltip.
type Displayable struct {
	Name    string
	Icon    host.Icon
	Tooltip []string
	Missing bool
}

// Placeholder is the deterministic fallback visual for ingredients that
// cannot be resolved.
func Placeholder(label string) Displayable {
	if label == "" {
		label = "Unknown ingredient"
	}
	return Displayable{
		Name:    label,
		Icon:    host.MissingIcon,
		Tooltip: []string{label, "Missing or unsupported"},
		Missing: true,
	}
}

// Adapter normalizes one recipe viewer behind a single capability set.
type Adapter interface {
	Descriptor() Descriptor
	State() State

	// IsAvailable reports the cached probe result. It never calls the viewer.
	IsAvailable() bool

	// Probe checks whether the viewer is installed. Only the first call has an effect.
	Probe() State
	// Setup performs one-time integration (listeners, exclusion providers).
	// The registry calls it once, after a successful probe.
	Setup() error
	// Shutdown detaches the adapter; late viewer callbacks are ignored afterwards.
	Shutdown()

	ToRef(n Native) (ingredient.Ref, error)
	FromRef(ref ingredient.Ref) (Native, error)

	// DisplayStackFor always returns a usable Displayable. On error it is
	// the placeholder.
	DisplayStackFor(n Native) (Displayable, error)
	Render(s host.Surface, n Native, x, y, size int)

	ShowRecipes(n Native)
	ShowUses(n Native)
	IsRecipeScreen(screen host.Screen) bool

	// OverlayVisible reports whether the viewer's ingredient list is showing.
	OverlayVisible() bool
	// IngredientUnderMouse returns the draggable ingredient at a point, if any.
	IngredientUnderMouse(x, y int) (Native, bool)
	// OverlayArea is the screen area the viewer's own overlay occupies.
	OverlayArea(screen host.Screen) (geom.Rect, bool)
}
