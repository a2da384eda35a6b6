// Package storage owns the folder collection of the current world and keeps
// it in step with disk.
package storage

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stash/errors"
	"stash/ingredient"
	"stash/logging"
	"stash/model"
)

// DefaultWriteAttempts is how many times a failed folder write is retried
// within one mutation before it is reported.
const DefaultWriteAttempts = 3

// FolderStore is the only mutator of a world's folder collection. Every
// mutating method updates memory and writes the full list before it returns.
//
// When a write keeps failing the mutation is still kept in memory, the error
// is logged once and returned, and the store keeps trying on later mutations.
type FolderStore struct {
	mu        sync.Mutex
	coll      *model.Collection
	persister Persister
	attempts  int
	failing   bool
	listeners []func()
	log       *logrus.Entry
}

// OpenFolderStore loads the collection through p. A missing file yields an
// empty collection; an unreadable one is logged and also yields an empty
// collection, together with the load error.
func OpenFolderStore(p Persister) (*FolderStore, error) {
	s := &FolderStore{
		persister: p,
		attempts:  DefaultWriteAttempts,
		log:       logging.NewLogger("storage"),
	}
	folders, err := p.Load()
	if err != nil {
		s.log.WithError(err).WithField("path", p.Location()).Error("failed to load folders, starting empty")
	}
	s.coll = model.NewCollection(folders)
	s.log.WithField("path", p.Location()).WithField("folders", s.coll.Len()).Debug("folders loaded")
	return s, err
}

// SetWriteAttempts overrides DefaultWriteAttempts (minimum 1).
func (s *FolderStore) SetWriteAttempts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = max(1, n)
}

// OnChange registers fn to run after every successful in-memory mutation.
// Listeners run outside the store lock.
func (s *FolderStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Location returns where the folders are persisted.
func (s *FolderStore) Location() string { return s.persister.Location() }

// Folders returns a copy of all folders in order.
func (s *FolderStore) Folders() []model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Folders()
}

// Len returns the folder count.
func (s *FolderStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Len()
}

// At returns the folder at index i.
func (s *FolderStore) At(i int) (model.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.At(i)
}

// Get returns the folder with the given id.
func (s *FolderStore) Get(id uuid.UUID) (model.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Get(id)
}

// Active returns the active folder, if any.
func (s *FolderStore) Active() (model.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Active()
}

// Create appends a new empty folder.
func (s *FolderStore) Create(name string) (model.Folder, error) {
	f, err := model.NewFolder(name)
	if err != nil {
		return model.Folder{}, err
	}
	err = s.mutate(func(c *model.Collection) (bool, error) {
		return true, c.Append(f)
	})
	if err != nil && !errors.Is(err, errors.CodePersistence) {
		return model.Folder{}, err
	}
	return f, err
}

// Rename changes a folder's name.
func (s *FolderStore) Rename(id uuid.UUID, name string) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		return true, c.Rename(id, name)
	})
}

// Delete removes a folder.
func (s *FolderStore) Delete(id uuid.UUID) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		return true, c.Delete(id)
	})
}

// SetActive activates id and deactivates every other folder.
func (s *FolderStore) SetActive(id uuid.UUID) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		if active, ok := c.Active(); ok && active.ID == id {
			return false, nil
		}
		return true, c.SetActive(id)
	})
}

// ToggleActive activates id, or deactivates it when it is already active.
func (s *FolderStore) ToggleActive(id uuid.UUID) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		if active, ok := c.Active(); ok && active.ID == id {
			c.ClearActive()
			return true, nil
		}
		return true, c.SetActive(id)
	})
}

// ClearActive deactivates all folders.
func (s *FolderStore) ClearActive() error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		if _, ok := c.Active(); !ok {
			return false, nil
		}
		c.ClearActive()
		return true, nil
	})
}

// Move shifts a folder left (negative delta) or right.
func (s *FolderStore) Move(id uuid.UUID, delta int) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		return true, c.Move(id, delta)
	})
}

// AddIngredient appends ref to a folder. Adding a ref that is already
// present changes nothing, writes nothing and returns false.
func (s *FolderStore) AddIngredient(id uuid.UUID, ref ingredient.Ref) (bool, error) {
	var added bool
	err := s.mutate(func(c *model.Collection) (bool, error) {
		var err error
		added, err = c.AddIngredient(id, ref)
		return added, err
	})
	return added, err
}

// AddToActive appends ref to the active folder.
func (s *FolderStore) AddToActive(ref ingredient.Ref) (bool, error) {
	active, ok := s.Active()
	if !ok {
		return false, errors.InvalidInput("no active folder")
	}
	return s.AddIngredient(active.ID, ref)
}

// RemoveIngredient removes ref from a folder by value.
func (s *FolderStore) RemoveIngredient(id uuid.UUID, ref ingredient.Ref) (bool, error) {
	var removed bool
	err := s.mutate(func(c *model.Collection) (bool, error) {
		var err error
		removed, err = c.RemoveIngredient(id, ref)
		return removed, err
	})
	return removed, err
}

// ClearIngredients empties a folder.
func (s *FolderStore) ClearIngredients(id uuid.UUID) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		return true, c.ClearIngredients(id)
	})
}

// Replace swaps the whole collection, e.g. after an import.
func (s *FolderStore) Replace(folders []model.Folder) error {
	return s.mutate(func(c *model.Collection) (bool, error) {
		*c = *model.NewCollection(folders)
		return true, nil
	})
}

// Reload re-reads the persisted folders, discarding in-memory state.
func (s *FolderStore) Reload() error {
	folders, err := s.persister.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.coll = model.NewCollection(folders)
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	s.log.WithField("folders", len(folders)).Info("folders reloaded from disk")
	for _, fn := range listeners {
		fn()
	}
	return nil
}

// Flush writes the current collection regardless of pending state.
func (s *FolderStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// Pending reports whether the last write failed, leaving memory ahead of disk.
func (s *FolderStore) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failing
}

// Close releases the persister.
func (s *FolderStore) Close() error {
	return s.persister.Close()
}

// mutate applies fn under the lock, persists when fn reports a change and
// notifies listeners. A validation error from fn leaves memory untouched
// because Collection methods validate before mutating.
func (s *FolderStore) mutate(fn func(c *model.Collection) (bool, error)) error {
	s.mu.Lock()
	changed, err := fn(s.coll)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	persistErr := s.persistLocked()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return persistErr
}

func (s *FolderStore) persistLocked() error {
	folders := s.coll.Folders()
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.persister.Save(folders); err == nil {
			if s.failing {
				s.log.WithField("path", s.persister.Location()).Info("folder writes recovered")
				s.failing = false
			}
			return nil
		}
		s.log.WithError(err).WithField("attempt", attempt).Debug("folder write failed")
	}

	if !s.failing {
		s.log.WithError(err).WithField("path", s.persister.Location()).
			Error("failed to persist folders; keeping in-memory state")
		s.failing = true
	}
	if errors.Is(err, errors.CodePersistence) {
		return err
	}
	return errors.Persistence(s.persister.Location(), err)
}
