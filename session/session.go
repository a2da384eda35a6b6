// Package session owns everything that lives for one world visit: the
// folder store, the backend registry and the recipe-screen contexts.
//
// A Session is created when the player joins a world and closed when they
// leave. Nothing in stash keeps per-world state outside of it, so rejoining
// always starts from a fresh probe and a fresh load.
package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stash/backend"
	"stash/geom"
	"stash/host"
	"stash/logging"
	"stash/storage"
)

// DefaultNamespace is the directory under the host config root.
const DefaultNamespace = "stash"

// Options configure Join.
type Options struct {
	// ConfigRoot is the host's config directory.
	ConfigRoot string
	Namespace  string
	World      host.WorldInfo
	// Driver selects the folder persister ("json" or "sqlite").
	Driver        string
	WriteAttempts int
	CacheSize     int

	// Register adds the backend integrations to the session's registry.
	Register func(reg *backend.Registry) error

	// Watch enables reloading when the folder file changes on disk.
	// OnExternalChange runs on the watcher goroutine and must hand off to
	// the UI thread, which then calls Session.ReloadFolders.
	Watch            bool
	WatchDebounce    time.Duration
	OnExternalChange func()
}

// Session is the per-world context object.
type Session struct {
	WorldID  string
	Store    *storage.FolderStore
	Registry *backend.Registry
	Contexts *RecipeContexts

	watcher *storage.Watcher
	log     *logrus.Entry

	mu         sync.Mutex
	navigate   func(backend.ID)
	exclusions func(host.Screen) []geom.Rect
	closed     bool
}

// Join opens the folder store for the world and builds the registry. A
// folder file that fails to load is logged and the session starts empty;
// the returned error is non-nil only when the session could not be created.
func Join(opts Options) (*Session, error) {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	worldID := storage.WorldID(opts.World)
	log := logging.NewLogger("session").WithField("world", worldID)

	p, err := storage.OpenPersister(opts.Driver, opts.ConfigRoot, opts.Namespace, worldID)
	if err != nil {
		return nil, err
	}
	store, loadErr := storage.OpenFolderStore(p)
	if loadErr != nil {
		log.WithError(loadErr).Warn("folder file unreadable, continuing with an empty collection")
	}
	if opts.WriteAttempts > 0 {
		store.SetWriteAttempts(opts.WriteAttempts)
	}

	s := &Session{
		WorldID:  worldID,
		Store:    store,
		Contexts: NewRecipeContexts(),
		log:      log,
	}
	s.Registry = backend.NewRegistry(&backend.Env{
		BeforeNavigate: s.beforeNavigate,
		Exclusions:     s.exclusionsFor,
		CacheSize:      opts.CacheSize,
	})
	if opts.Register != nil {
		if err := opts.Register(s.Registry); err != nil {
			store.Close()
			return nil, err
		}
	}

	if opts.Watch {
		notify := opts.OnExternalChange
		if notify == nil {
			notify = func() {}
		}
		w, err := storage.NewWatcher(store, opts.WatchDebounce, notify)
		if err != nil {
			log.WithError(err).Warn("folder file watcher disabled")
		}
		s.watcher = w
	}

	log.WithField("path", store.Location()).Info("session joined")
	return s, nil
}

// OnNavigate sets the hook adapters call right before opening a recipe screen.
func (s *Session) OnNavigate(fn func(backend.ID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate = fn
}

// ProvideExclusions sets the source of the overlay's own exclusion areas,
// which adapters forward to their viewers.
func (s *Session) ProvideExclusions(fn func(host.Screen) []geom.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exclusions = fn
}

func (s *Session) beforeNavigate(id backend.ID) {
	s.mu.Lock()
	fn := s.navigate
	s.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

func (s *Session) exclusionsFor(screen host.Screen) []geom.Rect {
	s.mu.Lock()
	fn := s.exclusions
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(screen)
}

// Start constructs and probes every registered backend.
func (s *Session) Start() []backend.Adapter {
	adapters := s.Registry.Available()
	for _, a := range adapters {
		s.log.WithField("backend", a.Descriptor().ID).WithField("state", a.State()).Info("backend ready")
	}
	return adapters
}

// ReloadFolders re-reads the folder file after an external edit.
func (s *Session) ReloadFolders() error {
	return s.Store.Reload()
}

// Leave tears the session down: adapters are shut down, contexts dropped,
// and the store closed after one last write if earlier writes failed. It is safe to call twice.
func (s *Session) Leave() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.navigate = nil
	s.exclusions = nil
	s.mu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.WithError(err).Warn("closing folder watcher")
		}
	}
	s.Registry.ClearCache()
	s.Contexts.ClearAll()
	var flushErr error
	if s.Store.Pending() {
		flushErr = s.Store.Flush()
	}
	closeErr := s.Store.Close()
	s.log.Info("session left")
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
