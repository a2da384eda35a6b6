package backend

import (
	"stash/geom"
	"stash/host"
)

// DefaultCacheSize bounds each adapter's FromRef memo.
const DefaultCacheSize = 512

// Env carries the session hooks an adapter may call. The registry passes the
// same Env to every factory; it deliberately holds no registry reference, so
// a factory cannot re-enter adapter construction.
type Env struct {
	// BeforeNavigate runs right before an adapter opens its recipe view,
	// so the overlay can save its context.
	BeforeNavigate func(id ID)

	// Exclusions reports the areas the overlay occupies on a screen. Adapters
	// forward it to their viewer so the viewer's overlay avoids them.
	Exclusions func(screen host.Screen) []geom.Rect

	CacheSize int
}

func (e *Env) beforeNavigate(id ID) {
	if e != nil && e.BeforeNavigate != nil {
		e.BeforeNavigate(id)
	}
}

// ExclusionsFor is safe to call with a nil Env or hook.
func (e *Env) ExclusionsFor(screen host.Screen) []geom.Rect {
	if e == nil || e.Exclusions == nil {
		return nil
	}
	return e.Exclusions(screen)
}

func (e *Env) cacheSize() int {
	if e == nil || e.CacheSize <= 0 {
		return DefaultCacheSize
	}
	return e.CacheSize
}
