package ingredient

import (
	"fmt"
	"strings"

	"stash/errors"
)

// AirID is the item id of Minecraft's empty stack.
const AirID = DefaultNamespace + ":air"

// IsEmptyItem reports whether a stack of id and count is the empty stack:
// no id, a non-positive count, or air written with or without namespace.
func IsEmptyItem(id string, count int) bool {
	if id == "" || count <= 0 {
		return true
	}
	norm, err := NormalizeID(id)
	return err == nil && norm == AirID
}

// ItemKey builds the key for an item ingredient. Components, when present,
// is the host's serialized component/NBT blob and is appended verbatim, so
// two stacks of the same item with different data get different keys.
func ItemKey(id, components string) (string, error) {
	norm, err := NormalizeID(id)
	if err != nil {
		return "", err
	}
	if components == "" {
		return norm, nil
	}
	if !strings.HasPrefix(components, "{") || !strings.HasSuffix(components, "}") {
		return "", errors.InvalidInput(fmt.Sprintf("item %s: components blob must be a braced object", norm))
	}
	return norm + components, nil
}

// ParseItemKey splits an item key into its id and components blob.
func ParseItemKey(key string) (id, components string, err error) {
	id = key
	if i := strings.IndexByte(key, '{'); i >= 0 {
		id, components = key[:i], key[i:]
		if !strings.HasSuffix(components, "}") {
			return "", "", errors.InvalidInput(fmt.Sprintf("item key %q: unterminated components", key))
		}
	}
	id, err = NormalizeID(id)
	if err != nil {
		return "", "", err
	}
	return id, components, nil
}

// ItemRef builds a validated item Ref.
func ItemRef(id, components string) (Ref, error) {
	key, err := ItemKey(id, components)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Kind: KindItem, Key: key}, nil
}

// FluidRef builds a validated fluid Ref.
func FluidRef(id string) (Ref, error) {
	norm, err := NormalizeID(id)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Kind: KindFluid, Key: norm}, nil
}

// MustItem is ItemRef for ids known to be valid, such as test fixtures.
func MustItem(id string) Ref {
	r, err := ItemRef(id, "")
	if err != nil {
		panic(err)
	}
	return r
}
