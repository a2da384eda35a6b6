package jei

import (
	"fmt"
	"strings"
	"sync"

	"stash/backend"
	"stash/errors"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
)

// Adapter is the backend.Adapter for JEI.
type Adapter struct {
	*backend.Base
	plugin Plugin

	mu      sync.Mutex
	runtime Runtime
}

// New creates the adapter. plugin is nil when JEI is not installed.
func New(env *backend.Env, plugin Plugin) *Adapter {
	return &Adapter{Base: backend.NewBase(backend.JEIDescriptor, env), plugin: plugin}
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
		return errors.BackendUnavailable(string(backend.JEI), "not installed")
	}
	return a.Guard("setup", func() error {
		a.plugin.RegisterGuiExtraAreas(a.Env().ExclusionsFor)
		a.plugin.OnRuntimeAvailable(a.attach)
		return nil
	})
}

func (a *Adapter) attach(rt Runtime) {
	if rt == nil || a.Disposed() {
		return
	}
	a.mu.Lock()
	a.runtime = rt
	a.mu.Unlock()
	a.Activate()
}

func (a *Adapter) rt() (Runtime, error) {
	if err := a.RequireRuntime(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runtime, nil
}

func (a *Adapter) Shutdown() {
	a.Base.Shutdown()
	a.mu.Lock()
	a.runtime = nil
	a.mu.Unlock()
}

func (a *Adapter) ToRef(n backend.Native) (ingredient.Ref, error) {
	if _, err := a.rt(); err != nil {
		return ingredient.Ref{}, a.ConversionUnavailable(err)
	}
	ing, ok := n.(Ingredient)
	if !ok {
		return ingredient.Ref{}, a.Foreign("toRef", n)
	}
	switch v := ing.(type) {
	case Item:
		if ingredient.IsEmptyItem(v.ID, v.Count) {
			return ingredient.Ref{}, errors.Conversion(string(backend.JEI), "empty item stack")
		}
		return convert(ingredient.ItemRef(v.ID, v.Components))
	case Fluid:
		if v.ID == "" {
			return ingredient.Ref{}, errors.Conversion(string(backend.JEI), "empty fluid stack")
		}
		return convert(ingredient.FluidRef(v.ID))
	case Other:
		if v.TypeUID == "" || v.UID == "" {
			return ingredient.Ref{}, errors.Conversion(string(backend.JEI), "ingredient has no uid")
		}
		return ingredient.New(KindPrefix+v.TypeUID, v.UID), nil
	default:
		return ingredient.Ref{}, a.Foreign("toRef", n)
	}
}

func convert(ref ingredient.Ref, err error) (ingredient.Ref, error) {
	if err != nil {
		return ingredient.Ref{}, errors.Wrap(err, errors.CodeConversion, "jei: invalid ingredient id")
	}
	return ref, nil
}

func (a *Adapter) FromRef(ref ingredient.Ref) (backend.Native, error) {
	rt, err := a.rt()
	if err != nil {
		return nil, a.ConversionUnavailable(err)
	}
	return a.Memo(ref, func() (backend.Native, error) {
		var out backend.Native
		err := a.Guard("fromRef", func() error {
			n, err := a.lookup(rt.Ingredients(), ref)
			out = n
			return err
		})
		return out, err
	})
}

func (a *Adapter) lookup(m IngredientManager, ref ingredient.Ref) (backend.Native, error) {
	switch {
	case ref.Kind == ingredient.KindItem:
		id, components, err := ingredient.ParseItemKey(ref.Key)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConversion, "jei: malformed item key")
		}
		if item, ok := m.ItemStack(id, components); ok {
			return item, nil
		}
	case ref.Kind == ingredient.KindFluid:
		if fluid, ok := m.FluidStack(ref.Key); ok {
			return fluid, nil
		}
	case strings.HasPrefix(ref.Kind, KindPrefix):
		if other, ok := m.ByUID(strings.TrimPrefix(ref.Kind, KindPrefix), ref.Key); ok {
			return other, nil
		}
	default:
		return nil, errors.Conversion(string(backend.JEI), fmt.Sprintf("unsupported kind %q", ref.Kind))
	}
	return nil, errors.Conversion(string(backend.JEI), fmt.Sprintf("%s is not registered", ref))
}

func (a *Adapter) DisplayStackFor(n backend.Native) (backend.Displayable, error) {
	ing, ok := n.(Ingredient)
	if !ok {
		return backend.Placeholder(""), a.Foreign("displayStackFor", n)
	}
	return a.Describe(n, func() (backend.Displayable, error) {
		rt, err := a.rt()
		if err != nil {
			return backend.Displayable{}, err
		}
		name, icon, tooltip := rt.Ingredients().Display(ing)
		if name == "" {
			return backend.Placeholder(""), errors.Conversion(string(backend.JEI), "ingredient has no display name")
		}
		return backend.Displayable{Name: name, Icon: icon, Tooltip: tooltip}, nil
	})
}

func (a *Adapter) Render(s host.Surface, n backend.Native, x, y, size int) {
	ing, ok := n.(Ingredient)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		return
	}
	if err := a.Guard("render", func() error {
		rt.Renderer().Render(s, ing, x, y, size)
		return nil
	}); err != nil {
		s.DrawIcon(host.MissingIcon, x, y, size)
	}
}

func (a *Adapter) show(role FocusRole, n backend.Native) {
	ing, ok := n.(Ingredient)
	if !ok {
		return
	}
	rt, err := a.rt()
	if err != nil {
		a.Log().WithError(err).Debug("show ignored")
		return
	}
	a.NotifyNavigate()
	_ = a.Guard("show", func() error {
		rt.RecipesGUI().Show(Focus{Role: role, Ingredient: ing})
		return nil
	})
}

func (a *Adapter) ShowRecipes(n backend.Native) { a.show(RoleOutput, n) }

func (a *Adapter) ShowUses(n backend.Native) { a.show(RoleInput, n) }

func (a *Adapter) IsRecipeScreen(screen host.Screen) bool {
	rt, err := a.rt()
	if err != nil || screen == nil {
		return false
	}
	var owned bool
	_ = a.Guard("isRecipeScreen", func() error {
		owned = rt.RecipesGUI().IsRecipesScreen(screen)
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
		visible = rt.ListOverlay().IsListDisplayed()
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
		ing Ingredient
		ok  bool
	)
	_ = a.Guard("ingredientUnderMouse", func() error {
		ing, ok = rt.ListOverlay().IngredientUnderMouse(x, y)
		return nil
	})
	if !ok || ing == nil {
		return nil, false
	}
	return ing, true
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
	_ = a.Guard("overlayArea", func() error {
		r, ok = rt.ListOverlay().Area(screen)
		return nil
	})
	return r, ok
}

var _ backend.Adapter = (*Adapter)(nil)
