package backend

import (
	"sync"

	"github.com/sirupsen/logrus"

	"stash/errors"
	"stash/host"
	"stash/logging"
)

// Factory constructs an adapter. It must not call the viewer; probing happens
// afterwards under the registry's control.
type Factory func(env *Env) Adapter

type registration struct {
	desc    Descriptor
	factory Factory
	adapter Adapter
}

// Registry owns one adapter per backend for a session.
//
// Adapters are constructed lazily on first Get, probed, and set up at most
// once. Construction is serialized by a mutex held across the factory, the
// probe and the setup call. Factories only ever see an *Env, so they have no
// way to call back into the registry.
//
// Iteration (Adapters, Available, FindOwningBackend) always follows
// registration order: when two backends claim the same screen, the one
// registered first wins.
type Registry struct {
	mu      sync.Mutex
	order   []ID
	entries map[ID]*registration
	env     *Env
	log     *logrus.Entry
}

// NewRegistry creates an empty registry. env is shared by every adapter it builds.
func NewRegistry(env *Env) *Registry {
	if env == nil {
		env = &Env{}
	}
	return &Registry{
		entries: make(map[ID]*registration),
		env:     env,
		log:     logging.NewLogger("registry"),
	}
}

// Register associates a backend with a lazy constructor.
func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if desc.ID == "" || factory == nil {
		return errors.InvalidInput("backend registration needs an id and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[desc.ID]; exists {
		return errors.InvalidInput("backend '"+string(desc.ID)+"' already registered").
			WithDetail("backend", string(desc.ID))
	}
	r.order = append(r.order, desc.ID)
	r.entries[desc.ID] = &registration{desc: desc, factory: factory}
	return nil
}

// Get returns the session's adapter for id, constructing it on first use.
func (r *Registry) Get(id ID) (Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.entries[id]
	if !ok {
		return nil, errors.UnknownBackend(string(id))
	}
	return r.ensureLocked(reg), nil
}

func (r *Registry) ensureLocked(reg *registration) Adapter {
	if reg.adapter != nil {
		return reg.adapter
	}
	a := reg.factory(r.env)
	state := safeProbe(a, r.log)
	log := r.log.WithField("backend", reg.desc.ID)
	if state >= StateAvailable {
		if err := safeSetup(a); err != nil {
			log.WithError(err).Warn("backend setup failed")
		}
		log.WithField("state", a.State()).Info("backend available")
	} else {
		log.Debug("backend not installed")
	}
	reg.adapter = a
	return a
}

func safeProbe(a Adapter, log *logrus.Entry) (state State) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("backend", a.Descriptor().ID).WithField("panic", rec).Error("probe panicked")
			state = StateUnavailable
		}
	}()
	return a.Probe()
}

func safeSetup(a Adapter) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.ProtocolViolation(string(a.Descriptor().ID), "setup", rec)
		}
	}()
	return a.Setup()
}

// Adapters returns every registered adapter, constructing as needed.
func (r *Registry) Adapters() []Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.ensureLocked(r.entries[id]))
	}
	return out
}

// Available returns the adapters whose probe succeeded.
func (r *Registry) Available() []Adapter {
	var out []Adapter
	for _, a := range r.Adapters() {
		if a.IsAvailable() {
			out = append(out, a)
		}
	}
	return out
}

// FindOwningBackend returns the first available adapter, in registration
// order, that reports screen as one of its recipe screens.
func (r *Registry) FindOwningBackend(screen host.Screen) (Adapter, bool) {
	if screen == nil {
		return nil, false
	}
	for _, a := range r.Available() {
		if isRecipeScreen(a, screen, r.log) {
			return a, true
		}
	}
	return nil, false
}

func isRecipeScreen(a Adapter, screen host.Screen, log *logrus.Entry) (owned bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("backend", a.Descriptor().ID).WithField("panic", rec).Error("isRecipeScreen panicked")
			owned = false
		}
	}()
	return a.IsRecipeScreen(screen)
}

// ClearCache shuts down and drops every constructed adapter. The next Get
// probes again.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		reg := r.entries[id]
		if reg.adapter != nil {
			reg.adapter.Shutdown()
			reg.adapter = nil
		}
	}
	r.log.Debug("adapter cache cleared")
}

// Descriptors lists registered backends in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].desc)
	}
	return out
}

// States reports each registered backend's state without constructing
// anything; unconstructed backends are Unprobed.
func (r *Registry) States() map[ID]State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[ID]State, len(r.order))
	for _, id := range r.order {
		if a := r.entries[id].adapter; a != nil {
			out[id] = a.State()
		} else {
			out[id] = StateUnprobed
		}
	}
	return out
}
