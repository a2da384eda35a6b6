// Package ingredient defines Ref, the persisted backend-agnostic identity of
// an ingredient.
//
// A Ref is a (kind, key) pair. Kind names the shape of the ingredient
// ("item", "fluid", or a backend-private kind such as "jei:mekanism_gas");
// Key is an opaque identity string unique within Kind. Refs are plain
// comparable values and can be used directly as map keys.
package ingredient

import (
	"fmt"
	"regexp"
	"strings"

	"stash/errors"
)

const (
	KindItem  = "item"
	KindFluid = "fluid"

	// DefaultNamespace is assumed for ids written without one.
	DefaultNamespace = "minecraft"
)

// Ref is the persisted identity of an ingredient.
type Ref struct {
	Kind string `json:"kind" yaml:"kind" jsonschema:"minLength=1"`
	Key  string `json:"key" yaml:"key" jsonschema:"minLength=1"`
}

var (
	namespaceRe = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	pathRe      = regexp.MustCompile(`^[a-z0-9_./-]+$`)
)

// New builds a Ref without validation.
func New(kind, key string) Ref { return Ref{Kind: kind, Key: key} }

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool { return r.Kind == "" && r.Key == "" }

func (r Ref) String() string { return r.Kind + "|" + r.Key }

// Validate checks that both halves are present. Item and fluid keys must
// also carry a well-formed namespaced id.
func (r Ref) Validate() error {
	if r.Kind == "" || r.Key == "" {
		return errors.InvalidInput(fmt.Sprintf("ingredient ref %q: kind and key are required", r.String()))
	}
	switch r.Kind {
	case KindItem:
		if _, _, err := ParseItemKey(r.Key); err != nil {
			return err
		}
	case KindFluid:
		if _, err := NormalizeID(r.Key); err != nil {
			return err
		}
	}
	return nil
}

// Parse is the inverse of String.
func Parse(s string) (Ref, error) {
	kind, key, ok := strings.Cut(s, "|")
	if !ok {
		return Ref{}, errors.InvalidInput(fmt.Sprintf("ingredient ref %q: missing separator", s))
	}
	r := Ref{Kind: kind, Key: key}
	return r, r.Validate()
}

// NormalizeID validates a namespaced id and fills in the default namespace.
func NormalizeID(id string) (string, error) {
	ns, path, found := strings.Cut(id, ":")
	if !found {
		ns, path = DefaultNamespace, id
	}
	if !namespaceRe.MatchString(ns) || !pathRe.MatchString(path) {
		return "", errors.InvalidInput(fmt.Sprintf("invalid namespaced id %q", id))
	}
	return ns + ":" + path, nil
}
