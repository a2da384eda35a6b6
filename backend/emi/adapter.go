package emi

import (
	"fmt"

	"stash/backend"
	"stash/errors"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
)

// Adapter is the backend.Adapter for EMI.
type Adapter struct {
	*backend.Base
	plugin Plugin
}

// New creates the adapter. plugin is nil when EMI is not installed.
func New(env *backend.Env, plugin Plugin) *Adapter {
	return &Adapter{Base: backend.NewBase(backend.EMIDescriptor, env), plugin: plugin}
}

// Factory binds plugin into a registry factory.
func Factory(plugin Plugin) backend.Factory {
	return func(env *backend.Env) backend.Adapter { return New(env, plugin) }
}

func (a *Adapter) Probe() backend.State {
	return a.SetProbed(a.plugin != nil)
}

func (a *Adapter) Setup() error {
	if !a.IsAvailable() {
		return errors.BackendUnavailable(string(backend.EMI), "not installed")
	}
	return a.Guard("setup", func() error {
		a.plugin.AddExclusionArea(a.Env().ExclusionsFor)
		return nil
	})
}

// rt pulls the runtime, activating the adapter the first time it is there.
func (a *Adapter) rt() (Runtime, error) {
	if a.Disposed() || !a.IsAvailable() {
		return nil, a.RequireRuntime()
	}
	var rt Runtime
	if err := a.Guard("runtime", func() error {
		rt = a.plugin.Runtime()
		return nil
	}); err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, errors.BackendUnavailable(string(backend.EMI), "reloading")
	}
	a.Activate()
	return rt, nil
}

func (a *Adapter) ToRef(n backend.Native) (ingredient.Ref, error) {
	if _, err := a.rt(); err != nil {
		return ingredient.Ref{}, a.ConversionUnavailable(err)
	}
	st, ok := n.(Stack)
	if !ok {
		return ingredient.Ref{}, a.Foreign("toRef", n)
	}
	switch v := st.(type) {
	case ItemStack:
		if ingredient.IsEmptyItem(v.ID, v.Amount) {
			return ingredient.Ref{}, errors.Conversion(string(backend.EMI), "empty item stack")
		}
		ref, err := ingredient.ItemRef(v.ID, v.Components)
		if err != nil {
			return ingredient.Ref{}, errors.Wrap(err, errors.CodeConversion, "emi: invalid item id")
		}
		return ref, nil
	case FluidStack:
		return ingredient.Ref{}, errors.Conversion(string(backend.EMI), "fluid stacks are not supported")
	case TagIngredient:
		return ingredient.Ref{}, errors.Conversion(string(backend.EMI), fmt.Sprintf("tag #%s has no single identity", v.Tag))
	case EmptyStack:
		return ingredient.Ref{}, errors.Conversion(string(backend.EMI), "empty stack")
	default:
		return ingredient.Ref{}, a.Foreign("toRef", n)
	}
}

func (a *Adapter) FromRef(ref ingredient.Ref) (backend.Native, error) {
	rt, err := a.rt()
	if err != nil {
		return nil, a.ConversionUnavailable(err)
	}
	if ref.Kind != ingredient.KindItem {
		return nil, errors.Conversion(string(backend.EMI), fmt.Sprintf("unsupported kind %q", ref.Kind))
	}
	return a.Memo(ref, func() (backend.Native, error) {
		id, components, err := ingredient.ParseItemKey(ref.Key)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConversion, "emi: malformed item key")
		}
		var (
			st    ItemStack
			found bool
		)
		if err := a.Guard("fromRef", func() error {
			st, found = rt.ItemStack(id, components)
			return nil
		}); err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Conversion(string(backend.EMI), fmt.Sprintf("%s is not registered", ref))
		}
		return st, nil
	})
}

func (a *Adapter) DisplayStackFor(n backend.Native) (backend.Displayable, error) {
	st, ok := n.(Stack)
	if !ok {
		return backend.Placeholder(""), a.Foreign("displayStackFor", n)
	}
	if _, empty := st.(EmptyStack); empty {
		return backend.Placeholder(""), errors.Conversion(string(backend.EMI), "empty stack")
	}
	rt, err := a.rt()
	if err != nil {
		return backend.Placeholder(""), a.ConversionUnavailable(err)
	}
	return a.Describe(n, func() (backend.Displayable, error) {
		name, icon, tooltip := rt.Describe(st)
		if name == "" {
			return backend.Placeholder(""), errors.Conversion(string(backend.EMI), "stack has no display name")
		}
		return backend.Displayable{Name: name, Icon: icon, Tooltip: tooltip}, nil
	})
}

func (a *Adapter) Render(s host.Surface, n backend.Native, x, y, size int) {
	st, ok := n.(Stack)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		return
	}
	if err := a.Guard("render", func() error {
		rt.Render(s, st, x, y, size)
		return nil
	}); err != nil {
		s.DrawIcon(host.MissingIcon, x, y, size)
	}
}

func (a *Adapter) ShowRecipes(n backend.Native) {
	a.display(n, func(rt Runtime, st Stack) { rt.DisplayRecipes(st) })
}

func (a *Adapter) ShowUses(n backend.Native) {
	a.display(n, func(rt Runtime, st Stack) { rt.DisplayUses(st) })
}

func (a *Adapter) display(n backend.Native, open func(Runtime, Stack)) {
	st, ok := n.(Stack)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		a.Log().WithError(err).Debug("display ignored")
		return
	}
	a.NotifyNavigate()
	_ = a.Guard("display", func() error {
		open(rt, st)
		return nil
	})
}

func (a *Adapter) IsRecipeScreen(screen host.Screen) bool {
	rt, err := a.rt()
	if err != nil || screen == nil {
		return false
	}
	var owned bool
	_ = a.Guard("isRecipeScreen", func() error {
		owned = rt.IsRecipeScreen(screen)
		return nil
	})
	return owned
}

func (a *Adapter) OverlayVisible() bool {
	rt, err := a.rt()
	if err != nil {
		return false
	}
	var visible bool
	_ = a.Guard("sidebarVisible", func() error {
		visible = rt.SidebarVisible()
		return nil
	})
	return visible
}

func (a *Adapter) IngredientUnderMouse(x, y int) (backend.Native, bool) {
	rt, err := a.rt()
	if err != nil {
		return nil, false
	}
	var (
		st Stack
		ok bool
	)
	_ = a.Guard("hoveredStack", func() error {
		st, ok = rt.HoveredStack(x, y)
		return nil
	})
	if !ok || st == nil {
		return nil, false
	}
	if _, empty := st.(EmptyStack); empty {
		return nil, false
	}
	return st, true
}

func (a *Adapter) OverlayArea(screen host.Screen) (geom.Rect, bool) {
	rt, err := a.rt()
	if err != nil {
		return geom.Rect{}, false
	}
	var (
		r  geom.Rect
		ok bool
	)
	_ = a.Guard("sidebarBounds", func() error {
		r, ok = rt.SidebarBounds(screen)
		return nil
	})
	return r, ok
}

var _ backend.Adapter = (*Adapter)(nil)
