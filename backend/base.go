package backend

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"stash/errors"
	"stash/ingredient"
	"stash/logging"
)

// Base carries the bookkeeping every adapter shares: probe state, the
// one-way lifecycle, panic guarding and the FromRef memo. Integrations embed
// *Base and implement the viewer-specific methods.
type Base struct {
	desc Descriptor
	env  *Env
	log  *logrus.Entry

	mu       sync.Mutex
	state    State
	disposed bool
	cache    *lru.Cache[ingredient.Ref, Native]
}

// NewBase creates the shared adapter state for desc.
func NewBase(desc Descriptor, env *Env) *Base {
	cache, err := lru.New[ingredient.Ref, Native](env.cacheSize())
	if err != nil {
		// Only reachable with a non-positive size, which cacheSize rules out.
		panic(err)
	}
	return &Base{
		desc:  desc,
		env:   env,
		log:   logging.NewLogger("backend." + string(desc.ID)),
		cache: cache,
	}
}

func (b *Base) Descriptor() Descriptor { return b.desc }

// Env returns the session hooks.
func (b *Base) Env() *Env { return b.env }

// Log returns the adapter's logger.
func (b *Base) Log() *logrus.Entry { return b.log }

func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsAvailable reports the cached probe result.
func (b *Base) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disposed && b.state >= StateAvailable
}

// HasRuntime reports whether the viewer has handed over its runtime.
func (b *Base) HasRuntime() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disposed && b.state == StateActive
}

// SetProbed records the probe result. Later calls are ignored.
func (b *Base) SetProbed(present bool) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateUnprobed {
		return b.state
	}
	if present {
		b.state = StateAvailable
	} else {
		b.state = StateUnavailable
	}
	b.log.WithField("state", b.state).Debug("probed")
	return b.state
}

// Activate moves Available -> Active when the runtime arrives. It reports
// whether the transition happened.
func (b *Base) Activate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed || b.state != StateAvailable {
		return false
	}
	b.state = StateActive
	b.log.Info("runtime attached")
	return true
}

// Shutdown detaches the adapter and drops the memo.
func (b *Base) Shutdown() {
	b.mu.Lock()
	b.disposed = true
	b.mu.Unlock()
	b.cache.Purge()
}

// Disposed reports whether Shutdown ran.
func (b *Base) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// RequireRuntime returns a BACKEND_UNAVAILABLE error until the runtime is attached.
func (b *Base) RequireRuntime() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.disposed:
		return errors.BackendUnavailable(string(b.desc.ID), "adapter shut down")
	case b.state < StateAvailable:
		return errors.BackendUnavailable(string(b.desc.ID), "not installed")
	case b.state == StateAvailable:
		return errors.BackendUnavailable(string(b.desc.ID), "runtime not ready")
	}
	return nil
}

// ConversionUnavailable wraps a RequireRuntime error as a conversion failure.
func (b *Base) ConversionUnavailable(err error) error {
	return errors.Wrap(err, errors.CodeConversion, fmt.Sprintf("%s: cannot convert ingredient", b.desc.ID)).
		WithDetail("backend", string(b.desc.ID))
}

// Guard runs fn and turns a panic into a PROTOCOL_VIOLATION error.
func (b *Base) Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.ProtocolViolation(string(b.desc.ID), op, r)
			b.log.WithField("op", op).WithField("panic", fmt.Sprint(r)).Error("viewer call panicked")
		}
	}()
	return fn()
}

// Foreign is the error for a Native that belongs to another backend.
func (b *Base) Foreign(op string, n Native) error {
	if n == nil {
		return errors.Conversion(string(b.desc.ID), "empty ingredient")
	}
	return errors.ProtocolViolation(string(b.desc.ID), op, fmt.Sprintf("unexpected native %T from %s", n, n.Backend()))
}

// NotifyNavigate runs the BeforeNavigate hook.
func (b *Base) NotifyNavigate() {
	b.env.beforeNavigate(b.desc.ID)
}

// Memo returns the cached native for ref, resolving and caching it on a miss.
// Failures are not cached so a ref can resolve once the runtime catches up.
func (b *Base) Memo(ref ingredient.Ref, resolve func() (Native, error)) (Native, error) {
	if n, ok := b.cache.Get(ref); ok {
		return n, nil
	}
	n, err := resolve()
	if err != nil {
		return nil, err
	}
	b.cache.Add(ref, n)
	return n, nil
}

// Describe wraps a viewer description call with the placeholder fallback.
func (b *Base) Describe(n Native, describe func() (Displayable, error)) (Displayable, error) {
	if err := b.RequireRuntime(); err != nil {
		return Placeholder(""), b.ConversionUnavailable(err)
	}
	var d Displayable
	err := b.Guard("displayStackFor", func() error {
		var err error
		d, err = describe()
		return err
	})
	if err != nil {
		b.log.WithError(err).Debug("display fallback")
		return Placeholder(""), err
	}
	return d, nil
}
