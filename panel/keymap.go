package panel

import (
	"maps"
	"slices"
)

// Action is a keyboard-triggered panel command.
type Action string

const (
	ActionNextPage    Action = "next_page"
	ActionPrevPage    Action = "prev_page"
	ActionToggleAdd   Action = "toggle_add"
	ActionFilter      Action = "filter"
	ActionDeleteHover Action = "delete_hovered"
	ActionClearActive Action = "clear_active"
	ActionMoveLeft    Action = "move_folder_left"
	ActionMoveRight   Action = "move_folder_right"
	ActionRename      Action = "rename_folder"
	ActionClearFolder Action = "clear_folder"
	ActionCopyKey     Action = "copy_key"
	ActionCancel      Action = "cancel"
	ActionConfirm     Action = "confirm"
	ActionDeleteBack  Action = "delete_back"
)

// DefaultBindings maps each action to its default key, in the key naming
// used by the terminal host ("ctrl+x", "alt+x", "pgdown", ...).
func DefaultBindings() map[Action]string {
	return map[Action]string{
		ActionNextPage:    "pgdown",
		ActionPrevPage:    "pgup",
		ActionToggleAdd:   "ctrl+n",
		ActionFilter:      "/",
		ActionDeleteHover: "delete",
		ActionClearActive: "ctrl+x",
		ActionMoveLeft:    "alt+left",
		ActionMoveRight:   "alt+right",
		ActionRename:      "ctrl+r",
		ActionClearFolder: "ctrl+k",
		ActionCopyKey:     "ctrl+y",
		ActionCancel:      "esc",
		ActionConfirm:     "enter",
		ActionDeleteBack:  "backspace",
	}
}

// Keymap resolves a key to its action.
type Keymap map[string]Action

// NewKeymap builds a keymap from the defaults with overrides applied.
// Overrides are action name -> key; unknown actions are ignored. An override
// onto a key that another action uses by default unbinds that action. When
// two overrides name the same key, the first action in name order keeps it.
func NewKeymap(overrides map[string]string) Keymap {
	defaults := DefaultBindings()
	bindings := maps.Clone(defaults)
	overridden := make(map[Action]bool, len(overrides))
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		a, key := Action(name), overrides[name]
		if _, known := defaults[a]; !known || key == "" {
			continue
		}
		if holder, ok := boundTo(bindings, key); ok && holder != a {
			if overridden[holder] {
				continue
			}
			delete(bindings, holder)
		}
		bindings[a] = key
		overridden[a] = true
	}
	km := make(Keymap, len(bindings))
	for a, key := range bindings {
		km[key] = a
	}
	return km
}

func boundTo(bindings map[Action]string, key string) (Action, bool) {
	for a, k := range bindings {
		if k == key {
			return a, true
		}
	}
	return "", false
}

// Lookup returns the action bound to key.
func (k Keymap) Lookup(key string) (Action, bool) {
	a, ok := k[key]
	return a, ok
}
