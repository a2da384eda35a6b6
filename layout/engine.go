package layout

import (
	"reflect"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"stash/errors"
	"stash/geom"
	"stash/logging"
)

// Listener re-applies a published snapshot. It must not call back into the engine's setters.
type Listener func(Snapshot)

type subscription struct {
	id int
	fn Listener
}

// Engine holds the current layout inputs and publishes a fresh Snapshot
// whenever they change. It is meant to be driven from the UI thread.
type Engine struct {
	metrics Metrics
	log     *logrus.Entry

	mu         sync.Mutex
	in         Inputs
	snap       Snapshot
	listeners  []subscription
	nextID     int
	publishing bool
}

// NewEngine computes the initial snapshot for in.
func NewEngine(m Metrics, in Inputs) *Engine {
	m = m.Sanitize()
	snap := Compute(m, in)
	in.Page = snap.Page
	return &Engine{
		metrics: m,
		log:     logging.NewLogger("layout"),
		in:      in,
		snap:    snap,
	}
}

func (e *Engine) Metrics() Metrics { return e.metrics }

// Snapshot returns the last published layout.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Inputs returns a copy of the current inputs.
func (e *Engine) Inputs() Inputs {
	e.mu.Lock()
	defer e.mu.Unlock()
	in := e.in
	in.Exclusions = slices.Clone(in.Exclusions)
	return in
}

// Subscribe registers fn for future snapshots and returns a function that
// removes it.
func (e *Engine) Subscribe(fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, subscription{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.listeners = slices.DeleteFunc(e.listeners, func(s subscription) bool { return s.id == id })
	}
}

// Update applies fn to the inputs, recomputes and publishes. Nothing is
// published when the inputs did not change. Calling Update from a listener
// returns a REENTRANT_LAYOUT error and leaves the layout untouched.
func (e *Engine) Update(fn func(in *Inputs)) error {
	e.mu.Lock()
	if e.publishing {
		e.mu.Unlock()
		err := errors.New(errors.CodeReentrantLayout, "layout update requested while publishing")
		e.log.WithError(err).Warn("ignoring re-entrant layout update")
		return err
	}
	next := e.in
	next.Exclusions = slices.Clone(e.in.Exclusions)
	fn(&next)
	if reflect.DeepEqual(next, e.in) {
		e.mu.Unlock()
		return nil
	}
	snap := Compute(e.metrics, next)
	next.Page = snap.Page
	e.in = next
	e.snap = snap
	e.publishing = true
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.publishing = false
		e.mu.Unlock()
	}()
	for _, l := range listeners {
		l.fn(snap)
	}
	return nil
}

// SetBounds changes the position and size constraints.
func (e *Engine) SetBounds(x, y, maxWidth, maxHeight int) error {
	return e.Update(func(in *Inputs) {
		in.X, in.Y, in.MaxWidth, in.MaxHeight = x, y, maxWidth, maxHeight
	})
}

// SetExclusions replaces the areas reserved by other panels.
func (e *Engine) SetExclusions(rects []geom.Rect) error {
	return e.Update(func(in *Inputs) { in.Exclusions = slices.Clone(rects) })
}

func (e *Engine) SetFolderCount(n int) error {
	return e.Update(func(in *Inputs) { in.FolderCount = n })
}

func (e *Engine) SetAddMode(on bool) error {
	return e.Update(func(in *Inputs) { in.AddMode = on })
}

// SetActive updates the active-folder presence and its ingredient count.
func (e *Engine) SetActive(active bool, itemCount int) error {
	return e.Update(func(in *Inputs) {
		if in.ActiveFolder != active {
			in.Page = 0
		}
		in.ActiveFolder = active
		in.ItemCount = itemCount
	})
}

func (e *Engine) SetItemCount(n int) error {
	return e.Update(func(in *Inputs) { in.ItemCount = n })
}

func (e *Engine) SetPage(page int) error {
	return e.Update(func(in *Inputs) { in.Page = page })
}

// NextPage moves forward one page, wrapping to the first.
func (e *Engine) NextPage() error {
	total := e.Snapshot().TotalPages
	return e.Update(func(in *Inputs) { in.Page = NextPage(in.Page, total) })
}

// PrevPage moves back one page, wrapping to the last.
func (e *Engine) PrevPage() error {
	total := e.Snapshot().TotalPages
	return e.Update(func(in *Inputs) { in.Page = PrevPage(in.Page, total) })
}
