// Package drag tracks an ingredient being dragged, from a recipe viewer's
// list or from the panel itself, and resolves where it is dropped.
package drag

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stash/backend"
	"stash/errors"
	"stash/ingredient"
	"stash/layout"
	"stash/logging"
	"stash/model"
)

// State is Idle or Dragging.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Sources lists the adapters that may own a drag, in registration order.
type Sources interface {
	Available() []backend.Adapter
}

// Store is the folder mutation surface a drop needs.
type Store interface {
	AddIngredient(id uuid.UUID, ref ingredient.Ref) (bool, error)
	Active() (model.Folder, bool)
}

// Payload describes the dragged ingredient.
type Payload struct {
	// Backend is set when the drag started in a viewer's list.
	Backend backend.ID
	Native  backend.Native
	// Ref is set for drags that started in the panel.
	Ref ingredient.Ref
	// From is the folder a panel drag started in.
	From uuid.UUID

	adapter backend.Adapter
}

// Drop is the outcome of a release that hit a target.
type Drop struct {
	Folder uuid.UUID
	Ref    ingredient.Ref
	// Added is false when the folder already held the ref.
	Added bool
}

// Coordinator is the Idle/Dragging state machine. Press, zero or more Move
// calls and exactly one Release arrive in order on the UI thread.
type Coordinator struct {
	sources Sources
	store   Store
	onAdded func(Drop)
	log     *logrus.Entry

	state   State
	payload Payload
	x, y    int
}

// New creates a coordinator. onAdded runs after every successful drop and
// may be nil.
func New(sources Sources, store Store, onAdded func(Drop)) *Coordinator {
	return &Coordinator{
		sources: sources,
		store:   store,
		onAdded: onAdded,
		log:     logging.NewLogger("drag"),
	}
}

func (c *Coordinator) State() State { return c.state }

// Payload returns the current drag; ok is false when idle.
func (c *Coordinator) Payload() (Payload, bool) {
	return c.payload, c.state == Dragging
}

// Cursor is the last pointer position seen while dragging.
func (c *Coordinator) Cursor() (x, y int) { return c.x, c.y }

// Press asks every available, visible backend for a draggable ingredient at
// (x, y). The first backend in registration order that reports one owns the
// drag. It reports whether a drag started.
func (c *Coordinator) Press(x, y int) bool {
	if c.state == Dragging || c.sources == nil {
		return false
	}
	for _, a := range c.sources.Available() {
		if !a.OverlayVisible() {
			continue
		}
		n, ok := a.IngredientUnderMouse(x, y)
		if !ok || n == nil {
			continue
		}
		c.begin(Payload{Backend: a.Descriptor().ID, Native: n, adapter: a}, x, y)
		return true
	}
	return false
}

// BeginRef starts a drag of a ref picked up from the panel.
func (c *Coordinator) BeginRef(ref ingredient.Ref, from uuid.UUID, x, y int) bool {
	if c.state == Dragging || ref.IsZero() {
		return false
	}
	c.begin(Payload{Ref: ref, From: from}, x, y)
	return true
}

func (c *Coordinator) begin(p Payload, x, y int) {
	c.state = Dragging
	c.payload = p
	c.x, c.y = x, y
	c.log.WithField("backend", p.Backend).WithField("ref", p.Ref.String()).Debug("drag started")
}

// Move tracks the pointer while dragging.
func (c *Coordinator) Move(x, y int) {
	if c.state == Dragging {
		c.x, c.y = x, y
	}
}

// Cancel drops the drag without a target.
func (c *Coordinator) Cancel() { c.reset() }

func (c *Coordinator) reset() {
	c.state = Idle
	c.payload = Payload{}
}

// Release resolves the drop against snap. folders maps folder button index
// to folder id. A release over a folder button adds to that folder, one over
// the content drop area adds to the active folder, and anything else is
// ignored. The coordinator is Idle afterwards in every case.
func (c *Coordinator) Release(x, y int, snap layout.Snapshot, folders []uuid.UUID) (Drop, bool) {
	if c.state != Dragging {
		return Drop{}, false
	}
	p := c.payload
	defer c.reset()
	c.x, c.y = x, y

	target, toActive, hit := c.target(x, y, snap, folders)
	if !hit {
		c.log.Debug("drag released outside any target")
		return Drop{}, false
	}

	ref, err := c.resolve(p)
	if err != nil {
		c.log.WithError(err).WithField("backend", p.Backend).Info("dropped ingredient cannot be stored")
		return Drop{}, false
	}

	if toActive {
		active, ok := c.store.Active()
		if !ok {
			c.log.Debug("dropped on content with no active folder")
			return Drop{}, false
		}
		target = active.ID
	}
	added, err := c.store.AddIngredient(target, ref)
	if err != nil && !errors.Is(err, errors.CodePersistence) {
		c.log.WithError(err).Warn("drop rejected")
		return Drop{}, false
	}

	drop := Drop{Folder: target, Ref: ref, Added: added}
	if added && c.onAdded != nil {
		c.onAdded(drop)
	}
	return drop, true
}

func (c *Coordinator) target(x, y int, snap layout.Snapshot, folders []uuid.UUID) (uuid.UUID, bool, bool) {
	if i, ok := snap.FolderAt(x, y); ok && i < len(folders) {
		return folders[i], false, true
	}
	if r, ok := snap.Control(layout.ControlDropArea); ok && r.Contains(x, y) {
		return uuid.Nil, true, true
	}
	return uuid.Nil, false, false
}

func (c *Coordinator) resolve(p Payload) (ingredient.Ref, error) {
	if p.adapter == nil {
		return p.Ref, p.Ref.Validate()
	}
	return p.adapter.ToRef(p.Native)
}
