package jei

import "stash/backend"

// KindPrefix prefixes the ref kind of ingredient types other than items and fluids.
const KindPrefix = "jei:"

// Ingredient is JEI's typed ingredient. The variants are Item, Fluid and Other.
type Ingredient interface {
	backend.Native
	isIngredient()
}

// Item is an item stack. Count is not part of its identity.
type Item struct {
	ID         string
	Components string
	Count      int
}

// Fluid is a fluid stack. Amount is not part of its identity.
type Fluid struct {
	ID     string
	Amount int
}

// Other is an ingredient of any other registered type (gases, mana, ...).
type Other struct {
	TypeUID string
	UID     string
	Label   string
}

func (Item) Backend() backend.ID  { return backend.JEI }
func (Fluid) Backend() backend.ID { return backend.JEI }
func (Other) Backend() backend.ID { return backend.JEI }

func (Item) isIngredient()  {}
func (Fluid) isIngredient() {}
func (Other) isIngredient() {}
