// Package panel is the overlay's controller. It connects the folder store,
// the backend registry, the layout engine and the drag coordinator to the
// host's screens and input events.
package panel

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stash/backend"
	"stash/drag"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
	"stash/layout"
	"stash/logging"
	"stash/model"
	"stash/session"
	"stash/storage"
)

// DefaultDragThreshold is how far a pressed slot must move to become a drag.
const DefaultDragThreshold = 3

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// FolderTarget is a folder button as seen by the host.
type FolderTarget struct {
	ID   uuid.UUID
	Name string
	Rect geom.Rect
}

// Options configure a Panel.
type Options struct {
	Metrics       layout.Metrics
	Placement     layout.Placement
	Keymap        Keymap
	DragThreshold int
	// Copy receives the text of the copy action. It may be nil.
	Copy func(text string) error
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputRename
	inputFilter
)

type pressedSlot struct {
	index  int
	ref    ingredient.Ref
	button Button
	x, y   int
}

// Panel is the PanelController for one session.
type Panel struct {
	sess      *session.Session
	store     *storage.FolderStore
	reg       *backend.Registry
	engine    *layout.Engine
	drag      *drag.Coordinator
	placement layout.Placement
	keys      Keymap
	threshold int
	copyText  func(string) error
	log       *logrus.Entry

	snap       layout.Snapshot
	visible    []model.Folder
	active     model.Folder
	hasActive  bool
	activeRefs []ingredient.Ref
	// pagedFolder is the active folder the current page belongs to.
	pagedFolder uuid.UUID

	screen   host.Screen
	mode     inputMode
	text     []rune
	renaming uuid.UUID
	filter   string
	hidden   bool

	mouseX, mouseY int
	pressed        *pressedSlot
}

// New creates the panel for sess on screen and hooks it into the session.
func New(sess *session.Session, screen host.Screen, opts Options) *Panel {
	if opts.Keymap == nil {
		opts.Keymap = NewKeymap(nil)
	}
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = DefaultDragThreshold
	}
	p := &Panel{
		sess:      sess,
		store:     sess.Store,
		reg:       sess.Registry,
		placement: opts.Placement,
		keys:      opts.Keymap,
		threshold: opts.DragThreshold,
		copyText:  opts.Copy,
		screen:    screen,
		log:       logging.NewLogger("panel"),
	}

	in := layout.Inputs{}
	if screen != nil {
		w, h := screen.Size()
		in = opts.Placement.Fit(in, w, h)
	}
	p.engine = layout.NewEngine(opts.Metrics, in)
	p.snap = p.engine.Snapshot()
	p.engine.Subscribe(p.apply)
	p.drag = drag.New(sess.Registry, sess.Store, p.dropped)

	sess.OnNavigate(p.saveContext)
	sess.ProvideExclusions(p.exclusionsFor)
	sess.Store.OnChange(p.refresh)
	p.refresh()
	return p
}

// Engine exposes the layout engine, e.g. for hosts that subscribe to layout changes.
func (p *Panel) Engine() *layout.Engine { return p.engine }

// Drag exposes the drag coordinator.
func (p *Panel) Drag() *drag.Coordinator { return p.drag }

// Snapshot is the layout currently on screen.
func (p *Panel) Snapshot() layout.Snapshot { return p.snap }

// apply is the layout listener. It only re-applies the snapshot.
func (p *Panel) apply(snap layout.Snapshot) {
	p.snap = snap
}

// refresh pulls folder state from the store and feeds it to the layout.
func (p *Panel) refresh() {
	folders := p.store.Folders()
	p.visible = filterFolders(folders, p.filter)
	p.active, p.hasActive = model.Folder{}, false
	p.activeRefs = nil
	for _, f := range folders {
		if f.Active {
			p.active, p.hasActive = f, true
			p.activeRefs = f.Ingredients
			break
		}
	}
	err := p.engine.Update(func(in *layout.Inputs) {
		if in.ActiveFolder != p.hasActive || p.active.ID != p.pagedFolder {
			in.Page = 0
		}
		in.FolderCount = len(p.visible)
		in.ActiveFolder = p.hasActive
		in.ItemCount = len(p.activeRefs)
		in.AddMode = p.mode != inputNone
	})
	if err != nil {
		p.log.WithError(err).Warn("layout refresh skipped")
	}
	p.pagedFolder = p.active.ID
	p.snap = p.engine.Snapshot()
}

// sync refits the layout to the current screen size. It publishes only
// when the size changed.
func (p *Panel) sync() {
	if p.screen == nil {
		return
	}
	w, h := p.screen.Size()
	x, y, mw, mh := p.placement.Bounds(w, h)
	if err := p.engine.SetBounds(x, y, mw, mh); err != nil {
		p.log.WithError(err).Warn("layout resize skipped")
	}
	p.snap = p.engine.Snapshot()
}

// Resize hands the panel the open screen after the host window changed
// size. Unlike SetScreen it keeps drags, pending presses and saved recipe
// contexts; on a recipe screen the restored layout is refitted in place.
func (p *Panel) Resize(screen host.Screen) {
	if screen == nil {
		return
	}
	p.screen = screen
	p.sync()
}

// SetScreen tells the panel which host screen is open. Entering a recipe
// screen restores the context saved before navigating there; coming back to
// the origin screen restores and clears it.
func (p *Panel) SetScreen(screen host.Screen) {
	p.screen = screen
	p.pressed = nil
	p.drag.Cancel()
	if screen == nil {
		return
	}
	if owner, ok := p.reg.FindOwningBackend(screen); ok {
		if ctx, ok := p.sess.Contexts.Get(owner.Descriptor().ID); ok {
			p.restore(ctx, screen)
			return
		}
	} else if ctx, ok := p.sess.Contexts.ReturnedTo(screen, p.backendOrder()); ok {
		p.restore(ctx, screen)
		return
	}
	p.sync()
}

// backendOrder lists the registered backends in registration order.
func (p *Panel) backendOrder() []backend.ID {
	descs := p.reg.Descriptors()
	ids := make([]backend.ID, len(descs))
	for i, d := range descs {
		ids[i] = d.ID
	}
	return ids
}

func (p *Panel) restore(ctx session.SavedContext, screen host.Screen) {
	if ctx.ActiveFolder != uuid.Nil {
		if f, ok := p.store.Get(ctx.ActiveFolder); ok && !f.Active {
			if err := p.store.SetActive(f.ID); err != nil {
				p.log.WithError(err).Warn("restoring active folder")
			}
		}
	}
	p.refresh()
	in := ctx.InputsFor(p.placement, screen)
	err := p.engine.Update(func(cur *layout.Inputs) {
		cur.X, cur.Y, cur.MaxWidth, cur.MaxHeight = in.X, in.Y, in.MaxWidth, in.MaxHeight
		cur.Page = in.Page
	})
	if err != nil {
		p.log.WithError(err).Warn("restoring layout")
	}
	p.snap = p.engine.Snapshot()
	p.log.WithField("backend", ctx.Backend).WithField("screen", screen.ScreenID()).Debug("recipe context restored")
}

// saveContext runs right before a backend opens its recipe screen.
func (p *Panel) saveContext(id backend.ID) {
	origin := p.screen
	if prev, ok := p.sess.Contexts.Get(id); ok {
		if a, err := p.reg.Get(id); err == nil && p.screen != nil && a.IsRecipeScreen(p.screen) {
			// Navigating inside the recipe screen keeps the original way back.
			origin = prev.Origin
		}
	}
	snap := p.engine.Snapshot()
	p.sess.Contexts.Save(session.SavedContext{
		Backend:      id,
		Origin:       origin,
		Inputs:       p.engine.Inputs(),
		Snapshot:     snap,
		ActiveFolder: p.active.ID,
		Page:         snap.Page,
	})
}

// SetExternalExclusions records areas reserved by other panels.
func (p *Panel) SetExternalExclusions(rects []geom.Rect) {
	if err := p.engine.SetExclusions(rects); err != nil {
		p.log.WithError(err).Warn("exclusion update skipped")
	}
	p.snap = p.engine.Snapshot()
}

// SetHidden hides or shows the whole panel.
func (p *Panel) SetHidden(hidden bool) {
	p.hidden = hidden
	if hidden {
		p.drag.Cancel()
		p.pressed = nil
	}
}

func (p *Panel) Hidden() bool { return p.hidden }

// ScreenArea is the rectangle the panel occupies.
func (p *Panel) ScreenArea() geom.Rect {
	if p.hidden {
		return geom.Rect{}
	}
	return p.snap.Panel
}

// ContentDropArea is where a drop adds to the active folder.
func (p *Panel) ContentDropArea() geom.Rect {
	if p.hidden {
		return geom.Rect{}
	}
	r, _ := p.snap.Control(layout.ControlDropArea)
	return r
}

// FolderButtonTargets lists the folder buttons in display order.
func (p *Panel) FolderButtonTargets() []FolderTarget {
	if p.hidden {
		return nil
	}
	out := make([]FolderTarget, 0, len(p.visible))
	for i, f := range p.visible {
		r, _ := p.snap.Control(layout.FolderButton(i))
		out = append(out, FolderTarget{ID: f.ID, Name: f.Name, Rect: r})
	}
	return out
}

func (p *Panel) exclusionsFor(host.Screen) []geom.Rect {
	area := p.ScreenArea()
	if area.Empty() {
		return nil
	}
	return []geom.Rect{area}
}

func (p *Panel) visibleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.visible))
	for i, f := range p.visible {
		ids[i] = f.ID
	}
	return ids
}

func (p *Panel) dropped(d drag.Drop) {
	p.log.WithField("folder", d.Folder).WithField("ref", d.Ref.String()).Debug("ingredient dropped")
}

// resolve finds the first available backend that recognizes ref.
func (p *Panel) resolve(ref ingredient.Ref) (backend.Adapter, backend.Native, bool) {
	for _, a := range p.reg.Available() {
		n, err := a.FromRef(ref)
		if err == nil {
			return a, n, true
		}
	}
	return nil, nil, false
}

// HoveredRef returns the ingredient under the pointer.
func (p *Panel) HoveredRef() (ingredient.Ref, bool) {
	slot, ok := p.snap.SlotAt(p.mouseX, p.mouseY)
	if !ok || slot.Index >= len(p.activeRefs) {
		return ingredient.Ref{}, false
	}
	return p.activeRefs[slot.Index], true
}

func (p *Panel) hoveredFolder() (model.Folder, bool) {
	i, ok := p.snap.FolderAt(p.mouseX, p.mouseY)
	if !ok || i >= len(p.visible) {
		return model.Folder{}, false
	}
	return p.visible[i], true
}

// Filter returns the folder name filter.
func (p *Panel) Filter() string { return p.filter }

// InputText returns the text being typed, if an input is open.
func (p *Panel) InputText() (string, bool) {
	return string(p.text), p.mode != inputNone
}
