package model

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"stash/errors"
	"stash/ingredient"
)

// MaxFolderNameLength bounds user-entered folder names (in runes).
const MaxFolderNameLength = 32

// Folder is a named, ordered, duplicate-free list of ingredient refs.
type Folder struct {
	ID          uuid.UUID        `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Ingredients []ingredient.Ref `json:"ingredients" yaml:"ingredients"`
	Active      bool             `json:"active" yaml:"active"`
}

// NewFolder creates an inactive, empty folder with a fresh id.
func NewFolder(name string) (Folder, error) {
	clean, err := CleanFolderName(name)
	if err != nil {
		return Folder{}, err
	}
	return Folder{ID: uuid.New(), Name: clean, Ingredients: []ingredient.Ref{}}, nil
}

// CleanFolderName trims and bounds a folder name.
func CleanFolderName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\n", " "))
	if name == "" {
		return "", errors.InvalidInput("folder name cannot be empty")
	}
	if r := []rune(name); len(r) > MaxFolderNameLength {
		name = string(r[:MaxFolderNameLength])
	}
	return name, nil
}

// Contains reports whether ref is in the folder.
func (f *Folder) Contains(ref ingredient.Ref) bool {
	return slices.Contains(f.Ingredients, ref)
}

// Add appends ref if absent. Adding a duplicate is a no-op and returns false.
func (f *Folder) Add(ref ingredient.Ref) bool {
	if f.Contains(ref) {
		return false
	}
	f.Ingredients = append(f.Ingredients, ref)
	return true
}

// Remove deletes ref by value, keeping the order of the rest.
func (f *Folder) Remove(ref ingredient.Ref) bool {
	i := slices.Index(f.Ingredients, ref)
	if i < 0 {
		return false
	}
	f.Ingredients = slices.Delete(f.Ingredients, i, i+1)
	return true
}

// Clone returns a deep copy.
func (f Folder) Clone() Folder {
	f.Ingredients = slices.Clone(f.Ingredients)
	if f.Ingredients == nil {
		f.Ingredients = []ingredient.Ref{}
	}
	return f
}
