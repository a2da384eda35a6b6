package rei

import "stash/backend"

// Entry is REI's entry stack. The variants are ItemEntry, FluidEntry and OpaqueEntry.
type Entry interface {
	backend.Native
	isEntry()
}

type ItemEntry struct {
	ID         string
	Components string
	Count      int
}

type FluidEntry struct {
	ID     string
	Amount int
}

// OpaqueEntry is an entry of a type registered by another mod.
type OpaqueEntry struct {
	Type string
	Data string
}

func (ItemEntry) Backend() backend.ID   { return backend.REI }
func (FluidEntry) Backend() backend.ID  { return backend.REI }
func (OpaqueEntry) Backend() backend.ID { return backend.REI }

func (ItemEntry) isEntry()   {}
func (FluidEntry) isEntry()  {}
func (OpaqueEntry) isEntry() {}
