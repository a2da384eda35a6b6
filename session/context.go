package session

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stash/backend"
	"stash/host"
	"stash/layout"
	"stash/logging"
)

// SavedContext is the overlay state captured right before a backend opens
// its recipe screen.
type SavedContext struct {
	Backend backend.ID
	// Origin is the screen the user navigated away from.
	Origin host.Screen
	// Inputs are the layout inputs at save time; bounds are refitted on restore.
	Inputs       layout.Inputs
	Snapshot     layout.Snapshot
	ActiveFolder uuid.UUID
	Page         int
}

// InputsFor returns the saved layout inputs refitted to screen's current
// size. With a nil screen the saved bounds are kept.
func (c SavedContext) InputsFor(p layout.Placement, screen host.Screen) layout.Inputs {
	in := c.Inputs
	in.Exclusions = slices.Clone(in.Exclusions)
	in.Page = c.Page
	if screen != nil {
		w, h := screen.Size()
		in = p.Fit(in, w, h)
	}
	return in
}

// Relayout recomputes the saved panel for screen's current size. The saved
// Snapshot is never reused as is: the recipe screen may have been resized.
func (c SavedContext) Relayout(m layout.Metrics, p layout.Placement, screen host.Screen) layout.Snapshot {
	return layout.Compute(m, c.InputsFor(p, screen))
}

// RecipeContexts is the per-backend NoContext / ContextSaved state machine.
// A backend with no entry is in NoContext.
type RecipeContexts struct {
	mu    sync.Mutex
	saved map[backend.ID]SavedContext
	log   *logrus.Entry
}

func NewRecipeContexts() *RecipeContexts {
	return &RecipeContexts{
		saved: make(map[backend.ID]SavedContext),
		log:   logging.NewLogger("recipe-context"),
	}
}

// Save moves id to ContextSaved, replacing any earlier context.
func (r *RecipeContexts) Save(ctx SavedContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[ctx.Backend] = ctx
	fields := logrus.Fields{"backend": ctx.Backend, "page": ctx.Page}
	if ctx.Origin != nil {
		fields["origin"] = ctx.Origin.ScreenID()
	}
	r.log.WithFields(fields).Debug("recipe context saved")
}

// Get returns the saved context for id.
func (r *RecipeContexts) Get(id backend.ID) (SavedContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, ok := r.saved[id]
	return ctx, ok
}

// Has reports whether id is in ContextSaved.
func (r *RecipeContexts) Has(id backend.ID) bool {
	_, ok := r.Get(id)
	return ok
}

// Clear returns id to NoContext.
func (r *RecipeContexts) Clear(id backend.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.saved[id]; ok {
		delete(r.saved, id)
		r.log.WithField("backend", id).Debug("recipe context cleared")
	}
}

// ClearAll drops every saved context.
func (r *RecipeContexts) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.saved)
}

// ReturnedTo clears and returns the context whose origin is screen. It is
// called when the user closes a recipe screen and lands back on the screen
// they came from. When several backends saved the same origin, the first in
// order wins; backends missing from order come after, sorted by id.
func (r *RecipeContexts) ReturnedTo(screen host.Screen, order []backend.ID) (SavedContext, bool) {
	if screen == nil {
		return SavedContext{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]backend.ID, 0, len(r.saved))
	for _, id := range order {
		if _, ok := r.saved[id]; ok && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(r.saved)) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		ctx := r.saved[id]
		if ctx.Origin != nil && ctx.Origin.ScreenID() == screen.ScreenID() {
			delete(r.saved, id)
			r.log.WithField("backend", id).Debug("returned to origin screen")
			return ctx, true
		}
	}
	return SavedContext{}, false
}
