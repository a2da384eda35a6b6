// Package sim is an in-process stand-in for the game client and the three
// recipe viewers. The demo TUI runs on it and the integration tests drive
// the real adapters against it.
package sim

import (
	"sort"
	"sync"

	"stash/host"
)

// Catalog is a simulated item/fluid/gas registry. It implements host.Registry.
type Catalog struct {
	mu     sync.RWMutex
	items  map[string]host.ItemInfo
	fluids map[string]host.ItemInfo
	gases  map[string]host.ItemInfo
}

type seed struct {
	id    string
	name  string
	glyph rune
	color host.Color
}

var defaultItems = []seed{
	{"minecraft:stone", "Stone", '■', 0xFF8A8A8A},
	{"minecraft:cobblestone", "Cobblestone", '▦', 0xFF7A7A7A},
	{"minecraft:dirt", "Dirt", '▒', 0xFF8B5A2B},
	{"minecraft:oak_log", "Oak Log", '▮', 0xFF9C7A3C},
	{"minecraft:oak_planks", "Oak Planks", '▤', 0xFFC8A165},
	{"minecraft:stick", "Stick", '/', 0xFFB08850},
	{"minecraft:crafting_table", "Crafting Table", '╬', 0xFFB5884E},
	{"minecraft:furnace", "Furnace", '▣', 0xFF6E6E6E},
	{"minecraft:coal", "Coal", '●', 0xFF303030},
	{"minecraft:iron_ore", "Iron Ore", '◘', 0xFFD8AF93},
	{"minecraft:iron_ingot", "Iron Ingot", '▬', 0xFFD8D8D8},
	{"minecraft:gold_ingot", "Gold Ingot", '▬', 0xFFFFD75F},
	{"minecraft:copper_ingot", "Copper Ingot", '▬', 0xFFE77C56},
	{"minecraft:diamond", "Diamond", '◆', 0xFF5FFFFF},
	{"minecraft:emerald", "Emerald", '◆', 0xFF17DD62},
	{"minecraft:redstone", "Redstone Dust", '∴', 0xFFFF3030},
	{"minecraft:glass", "Glass", '□', 0xFFC0F0FF},
	{"minecraft:sand", "Sand", '░', 0xFFE0D6A0},
	{"minecraft:bucket", "Bucket", 'U', 0xFFC0C0C0},
	{"minecraft:iron_pickaxe", "Iron Pickaxe", 'T', 0xFFD8D8D8},
	{"minecraft:diamond_sword", "Diamond Sword", '†', 0xFF5FFFFF},
	{"minecraft:bread", "Bread", '∩', 0xFFD9A441},
	{"minecraft:wheat", "Wheat", '¥', 0xFFDCC35A},
	{"minecraft:paper", "Paper", '▭', 0xFFF0F0F0},
	{"minecraft:book", "Book", '▯', 0xFF8B4513},
	{"minecraft:chest", "Chest", '▩', 0xFFA0702A},
	{"minecraft:torch", "Torch", 'i', 0xFFFFB040},
	{"minecraft:piston", "Piston", '╤', 0xFFA89060},
	{"minecraft:hopper", "Hopper", 'V', 0xFF505050},
	{"minecraft:ender_pearl", "Ender Pearl", 'o', 0xFF2E8B57},
	{"create:andesite_alloy", "Andesite Alloy", '▪', 0xFFA8B0A0},
	{"create:cogwheel", "Cogwheel", '✲', 0xFFB89060},
}

var defaultFluids = []seed{
	{"minecraft:water", "Water", '≈', 0xFF3F76E4},
	{"minecraft:lava", "Lava", '≈', 0xFFFF6A00},
	{"create:honey", "Honey", '≈', 0xFFFFB000},
}

var defaultGases = []seed{
	{"mekanism:hydrogen", "Hydrogen", '○', 0xFFFFFFFF},
	{"mekanism:oxygen", "Oxygen", '○', 0xFF6CE2FF},
}

// NewCatalog returns a catalog with a fixed vanilla-like item set.
func NewCatalog() *Catalog {
	c := &Catalog{
		items:  make(map[string]host.ItemInfo),
		fluids: make(map[string]host.ItemInfo),
		gases:  make(map[string]host.ItemInfo),
	}
	fill := func(m map[string]host.ItemInfo, seeds []seed, maxStack int) {
		for _, s := range seeds {
			m[s.id] = host.ItemInfo{
				ID:          s.id,
				DisplayName: s.name,
				Icon:        host.Icon{Glyph: s.glyph, Color: s.color, Texture: s.id},
				MaxStack:    maxStack,
			}
		}
	}
	fill(c.items, defaultItems, 64)
	fill(c.fluids, defaultFluids, 1000)
	fill(c.gases, defaultGases, 1000)
	return c
}

func (c *Catalog) Item(id string) (host.ItemInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.items[id]
	return info, ok
}

func (c *Catalog) Fluid(id string) (host.ItemInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.fluids[id]
	return info, ok
}

// Gas looks up a mekanism-style chemical.
func (c *Catalog) Gas(id string) (host.ItemInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.gases[id]
	return info, ok
}

// AddItem registers or replaces an item.
func (c *Catalog) AddItem(info host.ItemInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[info.ID] = info
}

// RemoveItem unregisters an item, as a removed mod would.
func (c *Catalog) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}

func sorted(m map[string]host.ItemInfo) []host.ItemInfo {
	out := make([]host.ItemInfo, 0, len(m))
	for _, info := range m {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Items lists registered items sorted by id.
func (c *Catalog) Items() []host.ItemInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.items)
}

func (c *Catalog) Fluids() []host.ItemInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.fluids)
}

func (c *Catalog) Gases() []host.ItemInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sorted(c.gases)
}

var _ host.Registry = (*Catalog)(nil)
