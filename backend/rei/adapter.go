package rei

import (
	"fmt"

	"stash/backend"
	"stash/errors"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
)

// Adapter is the backend.Adapter for REI.
type Adapter struct {
	*backend.Base
	plugin Plugin
}

// New creates the adapter. plugin is nil when REI is not installed.
func New(env *backend.Env, plugin Plugin) *Adapter {
	return &Adapter{Base: backend.NewBase(backend.REIDescriptor, env), plugin: plugin}
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
		return errors.BackendUnavailable(string(backend.REI), "not installed")
	}
	return a.Guard("setup", func() error {
		a.plugin.RegisterExclusionZones(a.Env().ExclusionsFor)
		return nil
	})
}

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
		return nil, errors.BackendUnavailable(string(backend.REI), "plugins not loaded")
	}
	a.Activate()
	return rt, nil
}

func (a *Adapter) ToRef(n backend.Native) (ingredient.Ref, error) {
	if _, err := a.rt(); err != nil {
		return ingredient.Ref{}, a.ConversionUnavailable(err)
	}
	e, ok := n.(Entry)
	if !ok {
		return ingredient.Ref{}, a.Foreign("toRef", n)
	}
	switch v := e.(type) {
	case ItemEntry:
		if ingredient.IsEmptyItem(v.ID, v.Count) {
			return ingredient.Ref{}, errors.Conversion(string(backend.REI), "empty entry")
		}
		ref, err := ingredient.ItemRef(v.ID, v.Components)
		if err != nil {
			return ingredient.Ref{}, errors.Wrap(err, errors.CodeConversion, "rei: invalid item id")
		}
		return ref, nil
	case FluidEntry:
		return ingredient.Ref{}, errors.Conversion(string(backend.REI), "fluid entries are not supported")
	case OpaqueEntry:
		return ingredient.Ref{}, errors.Conversion(string(backend.REI), fmt.Sprintf("entry type %q is not supported", v.Type))
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
		return nil, errors.Conversion(string(backend.REI), fmt.Sprintf("unsupported kind %q", ref.Kind))
	}
	return a.Memo(ref, func() (backend.Native, error) {
		id, components, err := ingredient.ParseItemKey(ref.Key)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConversion, "rei: malformed item key")
		}
		var (
			entry ItemEntry
			found bool
		)
		if err := a.Guard("fromRef", func() error {
			entry, found = rt.Entries().Item(id, components)
			return nil
		}); err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Conversion(string(backend.REI), fmt.Sprintf("%s is not registered", ref))
		}
		return entry, nil
	})
}

func (a *Adapter) DisplayStackFor(n backend.Native) (backend.Displayable, error) {
	e, ok := n.(Entry)
	if !ok {
		return backend.Placeholder(""), a.Foreign("displayStackFor", n)
	}
	rt, err := a.rt()
	if err != nil {
		return backend.Placeholder(""), a.ConversionUnavailable(err)
	}
	return a.Describe(n, func() (backend.Displayable, error) {
		name, icon, tooltip := rt.Describe(e)
		if name == "" {
			return backend.Placeholder(""), errors.Conversion(string(backend.REI), "entry has no display name")
		}
		return backend.Displayable{Name: name, Icon: icon, Tooltip: tooltip}, nil
	})
}

func (a *Adapter) Render(s host.Surface, n backend.Native, x, y, size int) {
	e, ok := n.(Entry)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		return
	}
	if err := a.Guard("render", func() error {
		rt.Render(s, e, x, y, size)
		return nil
	}); err != nil {
		s.DrawIcon(host.MissingIcon, x, y, size)
	}
}

func (a *Adapter) ShowRecipes(n backend.Native) { a.open(ViewRecipes, n) }

func (a *Adapter) ShowUses(n backend.Native) { a.open(ViewUsages, n) }

func (a *Adapter) open(mode ViewMode, n backend.Native) {
	e, ok := n.(Entry)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		a.Log().WithError(err).Debug("open view ignored")
		return
	}
	a.NotifyNavigate()
	_ = a.Guard("openView", func() error {
		if !rt.OpenView(ViewRequest{Mode: mode, Entry: e}) {
			a.Log().WithField("mode", mode).Debug("view request declined")
		}
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
	_ = a.Guard("overlayVisible", func() error {
		visible = rt.Overlay().Visible()
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
		e  Entry
		ok bool
	)
	_ = a.Guard("focusedStack", func() error {
		e, ok = rt.Overlay().FocusedStack(x, y)
		return nil
	})
	if !ok || e == nil {
		return nil, false
	}
	return e, true
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
	_ = a.Guard("overlayBounds", func() error {
		r, ok = rt.Overlay().Bounds(screen)
		return nil
	})
	return r, ok
}

var _ backend.Adapter = (*Adapter)(nil)
