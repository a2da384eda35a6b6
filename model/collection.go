package model

import (
	"slices"

	"github.com/google/uuid"

	"stash/errors"
	"stash/ingredient"
)

// Collection is the ordered folder list of one world. At most one folder is
// active at any time.
//
// Collection does no I/O and no locking; storage.FolderStore owns the only
// instance per session and persists after every mutation.
type Collection struct {
	folders []Folder
}

// NewCollection builds a collection from loaded folders, repairing a file
// that marks more than one folder active (the first one wins) and dropping
// duplicate ingredients.
func NewCollection(folders []Folder) *Collection {
	c := &Collection{folders: make([]Folder, 0, len(folders))}
	seenActive := false
	seenIDs := make(map[uuid.UUID]bool, len(folders))
	for _, f := range folders {
		if f.ID == uuid.Nil || seenIDs[f.ID] {
			f.ID = uuid.New()
		}
		seenIDs[f.ID] = true

		clean := Folder{ID: f.ID, Name: f.Name, Ingredients: []ingredient.Ref{}}
		for _, ref := range f.Ingredients {
			if ref.Validate() == nil {
				clean.Add(ref)
			}
		}
		if f.Active && !seenActive {
			clean.Active = true
			seenActive = true
		}
		c.folders = append(c.folders, clean)
	}
	return c
}

// Len returns the folder count.
func (c *Collection) Len() int { return len(c.folders) }

// Folders returns a deep copy of the folder list.
func (c *Collection) Folders() []Folder {
	out := make([]Folder, len(c.folders))
	for i, f := range c.folders {
		out[i] = f.Clone()
	}
	return out
}

// At returns a copy of the folder at index i.
func (c *Collection) At(i int) (Folder, bool) {
	if i < 0 || i >= len(c.folders) {
		return Folder{}, false
	}
	return c.folders[i].Clone(), true
}

// Index returns the position of the folder with the given id, or -1.
func (c *Collection) Index(id uuid.UUID) int {
	return slices.IndexFunc(c.folders, func(f Folder) bool { return f.ID == id })
}

// Get returns a copy of the folder with the given id.
func (c *Collection) Get(id uuid.UUID) (Folder, bool) {
	return c.At(c.Index(id))
}

// Active returns a copy of the active folder, if any.
func (c *Collection) Active() (Folder, bool) {
	for _, f := range c.folders {
		if f.Active {
			return f.Clone(), true
		}
	}
	return Folder{}, false
}

// Append adds a folder at the end.
func (c *Collection) Append(f Folder) error {
	if c.Index(f.ID) >= 0 {
		return errors.InvalidInput("duplicate folder id " + f.ID.String())
	}
	f = f.Clone()
	if f.Active {
		c.deactivateAll()
	}
	c.folders = append(c.folders, f)
	return nil
}

// Delete removes the folder with the given id.
func (c *Collection) Delete(id uuid.UUID) error {
	i := c.Index(id)
	if i < 0 {
		return errors.FolderNotFound(id.String())
	}
	c.folders = slices.Delete(c.folders, i, i+1)
	return nil
}

// Rename changes a folder's name.
func (c *Collection) Rename(id uuid.UUID, name string) error {
	i := c.Index(id)
	if i < 0 {
		return errors.FolderNotFound(id.String())
	}
	clean, err := CleanFolderName(name)
	if err != nil {
		return err
	}
	c.folders[i].Name = clean
	return nil
}

// SetActive activates one folder and deactivates all others in one step.
func (c *Collection) SetActive(id uuid.UUID) error {
	i := c.Index(id)
	if i < 0 {
		return errors.FolderNotFound(id.String())
	}
	c.deactivateAll()
	c.folders[i].Active = true
	return nil
}

// ClearActive deactivates every folder.
func (c *Collection) ClearActive() { c.deactivateAll() }

// Move shifts a folder by delta positions, clamped to the list bounds.
func (c *Collection) Move(id uuid.UUID, delta int) error {
	i := c.Index(id)
	if i < 0 {
		return errors.FolderNotFound(id.String())
	}
	j := min(max(i+delta, 0), len(c.folders)-1)
	if i == j {
		return nil
	}
	f := c.folders[i]
	c.folders = slices.Delete(c.folders, i, i+1)
	c.folders = slices.Insert(c.folders, j, f)
	return nil
}

// AddIngredient appends ref to a folder. It returns false when ref was already present.
func (c *Collection) AddIngredient(id uuid.UUID, ref ingredient.Ref) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	i := c.Index(id)
	if i < 0 {
		return false, errors.FolderNotFound(id.String())
	}
	return c.folders[i].Add(ref), nil
}

// RemoveIngredient removes ref from a folder by value.
func (c *Collection) RemoveIngredient(id uuid.UUID, ref ingredient.Ref) (bool, error) {
	i := c.Index(id)
	if i < 0 {
		return false, errors.FolderNotFound(id.String())
	}
	return c.folders[i].Remove(ref), nil
}

// ClearIngredients empties a folder.
func (c *Collection) ClearIngredients(id uuid.UUID) error {
	i := c.Index(id)
	if i < 0 {
		return errors.FolderNotFound(id.String())
	}
	c.folders[i].Ingredients = []ingredient.Ref{}
	return nil
}

func (c *Collection) deactivateAll() {
	for i := range c.folders {
		c.folders[i].Active = false
	}
}
