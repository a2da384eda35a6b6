package emi

import "stash/backend"

// Stack is EMI's ingredient. The variants are ItemStack, FluidStack,
// TagIngredient and EmptyStack.
type Stack interface {
	backend.Native
	isStack()
}

type ItemStack struct {
	ID         string
	Components string
	Amount     int
}

type FluidStack struct {
	ID     string
	Amount int
}

// TagIngredient matches every item in a tag.
type TagIngredient struct {
	Tag string
}

type EmptyStack struct{}

func (ItemStack) Backend() backend.ID     { return backend.EMI }
func (FluidStack) Backend() backend.ID    { return backend.EMI }
func (TagIngredient) Backend() backend.ID { return backend.EMI }
func (EmptyStack) Backend() backend.ID    { return backend.EMI }

func (ItemStack) isStack()     {}
func (FluidStack) isStack()    {}
func (TagIngredient) isStack() {}
func (EmptyStack) isStack()    {}
