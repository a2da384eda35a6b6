package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeymapDefaults(t *testing.T) {
	km := NewKeymap(nil)
	assert.Len(t, km, len(DefaultBindings()))
	a, ok := km.Lookup("ctrl+y")
	assert.True(t, ok)
	assert.Equal(t, ActionCopyKey, a)
}

func TestNewKeymapOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		want      map[string]Action
		unbound   []string
	}{
		{
			name:      "moves an action",
			overrides: map[string]string{"copy_key": "ctrl+c"},
			want:      map[string]Action{"ctrl+c": ActionCopyKey},
			unbound:   []string{"ctrl+y"},
		},
		{
			name:      "takes a default key",
			overrides: map[string]string{"copy_key": "ctrl+k"},
			want:      map[string]Action{"ctrl+k": ActionCopyKey},
			unbound:   []string{"ctrl+y"},
		},
		{
			name:      "swaps two actions",
			overrides: map[string]string{"copy_key": "ctrl+k", "clear_folder": "ctrl+y"},
			want:      map[string]Action{"ctrl+k": ActionCopyKey, "ctrl+y": ActionClearFolder},
		},
		{
			name:      "first override by name keeps a shared key",
			overrides: map[string]string{"rename_folder": "f2", "copy_key": "f2"},
			want:      map[string]Action{"f2": ActionCopyKey, "ctrl+r": ActionRename},
			unbound:   []string{"ctrl+y"},
		},
		{
			name:      "unknown and empty overrides are ignored",
			overrides: map[string]string{"fly": "f", "next_page": ""},
			want:      map[string]Action{"pgdown": ActionNextPage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				km := NewKeymap(tt.overrides)
				for key, want := range tt.want {
					got, ok := km.Lookup(key)
					assert.True(t, ok, key)
					assert.Equal(t, want, got, key)
				}
				for _, key := range tt.unbound {
					_, ok := km.Lookup(key)
					assert.False(t, ok, key)
				}
			}
		})
	}
}
