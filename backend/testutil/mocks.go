// Package testutil provides a configurable backend.Adapter for tests of the
// packages that consume adapters.
package testutil

import (
	"sync"

	"stash/backend"
	"stash/errors"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
)

// Native is the mock backend's ingredient value.
type Native struct {
	ID  backend.ID
	Ref ingredient.Ref
}

func (n Native) Backend() backend.ID { return n.ID }

// MockAdapter implements backend.Adapter with overridable behaviour.
type MockAdapter struct {
	// Configurable responses
	ProbeFunc                func() bool
	SetupFunc                func() error
	ToRefFunc                func(n backend.Native) (ingredient.Ref, error)
	FromRefFunc              func(ref ingredient.Ref) (backend.Native, error)
	IsRecipeScreenFunc       func(screen host.Screen) bool
	IngredientUnderMouseFunc func(x, y int) (backend.Native, bool)
	OverlayAreaFunc          func(screen host.Screen) (geom.Rect, bool)

	Visible bool

	// State
	desc  backend.Descriptor
	mu    sync.Mutex
	state backend.State
	calls map[string]int
	shown []string
}

// NewMockAdapter creates an installed mock whose conversions are identity
// mappings through Native.
func NewMockAdapter(desc backend.Descriptor) *MockAdapter {
	m := &MockAdapter{desc: desc, Visible: true, calls: make(map[string]int)}
	m.ProbeFunc = func() bool { return true }
	m.SetupFunc = func() error { return nil }
	m.ToRefFunc = m.defaultToRef
	m.FromRefFunc = m.defaultFromRef
	m.IsRecipeScreenFunc = func(host.Screen) bool { return false }
	m.IngredientUnderMouseFunc = func(int, int) (backend.Native, bool) { return nil, false }
	m.OverlayAreaFunc = func(host.Screen) (geom.Rect, bool) { return geom.Rect{}, false }
	return m
}

// Factory returns a backend.Factory that always hands out m.
func (m *MockAdapter) Factory() backend.Factory {
	return func(*backend.Env) backend.Adapter {
		m.record("factory")
		return m
	}
}

// Item wraps an item ref as this mock's native value.
func (m *MockAdapter) Item(id string) Native {
	return Native{ID: m.desc.ID, Ref: ingredient.MustItem(id)}
}

func (m *MockAdapter) defaultToRef(n backend.Native) (ingredient.Ref, error) {
	nat, ok := n.(Native)
	if !ok || nat.ID != m.desc.ID {
		return ingredient.Ref{}, errors.Conversion(string(m.desc.ID), "foreign ingredient")
	}
	return nat.Ref, nil
}

func (m *MockAdapter) defaultFromRef(ref ingredient.Ref) (backend.Native, error) {
	return Native{ID: m.desc.ID, Ref: ref}, nil
}

func (m *MockAdapter) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

// Calls returns how many times op was invoked.
func (m *MockAdapter) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Shown returns the "recipes:<key>" / "uses:<key>" navigation log.
func (m *MockAdapter) Shown() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.shown...)
}

func (m *MockAdapter) Descriptor() backend.Descriptor { return m.desc }

func (m *MockAdapter) State() backend.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockAdapter) IsAvailable() bool { return m.State() >= backend.StateAvailable }

func (m *MockAdapter) Probe() backend.State {
	m.record("probe")
	present := m.ProbeFunc()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == backend.StateUnprobed {
		if present {
			m.state = backend.StateActive
		} else {
			m.state = backend.StateUnavailable
		}
	}
	return m.state
}

func (m *MockAdapter) Setup() error {
	m.record("setup")
	return m.SetupFunc()
}

func (m *MockAdapter) Shutdown() { m.record("shutdown") }

func (m *MockAdapter) ToRef(n backend.Native) (ingredient.Ref, error) {
	m.record("toRef")
	return m.ToRefFunc(n)
}

func (m *MockAdapter) FromRef(ref ingredient.Ref) (backend.Native, error) {
	m.record("fromRef")
	return m.FromRefFunc(ref)
}

func (m *MockAdapter) DisplayStackFor(n backend.Native) (backend.Displayable, error) {
	ref, err := m.ToRef(n)
	if err != nil {
		return backend.Placeholder(""), err
	}
	return backend.Displayable{Name: ref.Key, Icon: host.Icon{Glyph: '#', Color: host.ColorWhite}}, nil
}

func (m *MockAdapter) Render(s host.Surface, n backend.Native, x, y, size int) {
	m.record("render")
	d, _ := m.DisplayStackFor(n)
	s.DrawIcon(d.Icon, x, y, size)
}

func (m *MockAdapter) navigate(kind string, n backend.Native) {
	ref, err := m.ToRef(n)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.shown = append(m.shown, kind+":"+ref.Key)
	m.mu.Unlock()
}

func (m *MockAdapter) ShowRecipes(n backend.Native) { m.navigate("recipes", n) }

func (m *MockAdapter) ShowUses(n backend.Native) { m.navigate("uses", n) }

func (m *MockAdapter) IsRecipeScreen(screen host.Screen) bool {
	return m.IsRecipeScreenFunc(screen)
}

func (m *MockAdapter) OverlayVisible() bool { return m.Visible }

func (m *MockAdapter) IngredientUnderMouse(x, y int) (backend.Native, bool) {
	return m.IngredientUnderMouseFunc(x, y)
}

func (m *MockAdapter) OverlayArea(screen host.Screen) (geom.Rect, bool) {
	return m.OverlayAreaFunc(screen)
}

// Screen is a minimal host.Screen.
type Screen struct {
	ID   string
	W, H int
}

func (s Screen) ScreenID() string { return s.ID }
func (s Screen) Size() (int, int) { return s.W, s.H }

// Surface records draw calls.
type Surface struct {
	Rects []geom.Rect
	Texts []string
	Icons []host.Icon
}

func (s *Surface) FillRect(r geom.Rect, _ host.Color)           { s.Rects = append(s.Rects, r) }
func (s *Surface) DrawText(text string, _, _ int, _ host.Color) { s.Texts = append(s.Texts, text) }
func (s *Surface) DrawIcon(icon host.Icon, _, _, _ int)         { s.Icons = append(s.Icons, icon) }
func (s *Surface) TextWidth(text string) int                    { return 6 * len([]rune(text)) }
func (s *Surface) LineHeight() int                              { return 9 }
