package sim

import (
	"sync"

	"stash/host"
)

// Screen ids used by the simulation.
const (
	ScreenInventory = "inventory"
	ScreenChest     = "chest"
)

// Screen is a simulated host screen.
type Screen struct {
	ID    string
	W, H  int
	Title string
	// Focus is the ingredient a recipe screen was opened for.
	Focus string
}

func (s Screen) ScreenID() string { return s.ID }
func (s Screen) Size() (int, int) { return s.W, s.H }

// Host is the simulated game client: a catalog, a screen stack and the world.
type Host struct {
	Catalog *Catalog
	World   host.WorldInfo
	// SlotSize is the viewers' list cell size.
	SlotSize int

	mu      sync.Mutex
	screen  Screen
	history []Screen
}

// NewHost opens the inventory screen at w x h.
func NewHost(w, h int) *Host {
	return &Host{
		Catalog:  NewCatalog(),
		SlotSize: DefaultSlotSize,
		World:    host.WorldInfo{SaveDir: "New World", Dimension: "minecraft:overworld"},
		screen:   Screen{ID: ScreenInventory, W: w, H: h, Title: "Inventory"},
	}
}

// CurrentScreen returns the open screen.
func (h *Host) CurrentScreen() Screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screen
}

// Open pushes s, sized to the current window.
func (h *Host) Open(s Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s.W, s.H = h.screen.W, h.screen.H
	h.history = append(h.history, h.screen)
	h.screen = s
}

// Back returns to the previous screen. It reports false at the bottom of the stack.
func (h *Host) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.history) == 0 {
		return false
	}
	prev := h.history[len(h.history)-1]
	h.history = h.history[:len(h.history)-1]
	prev.W, prev.H = h.screen.W, h.screen.H
	h.screen = prev
	return true
}

func (h *Host) slot() int {
	if h.SlotSize <= 0 {
		return DefaultSlotSize
	}
	return h.SlotSize
}

// Resize changes the window size; the open screen follows.
func (h *Host) Resize(w, ht int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screen.W, h.screen.H = w, ht
}
