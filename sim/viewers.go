package sim

import (
	"slices"

	"stash/backend"
	"stash/backend/emi"
	"stash/backend/jei"
	"stash/backend/rei"
	"stash/errors"
	"stash/host"
)

// Viewers holds the simulated recipe viewers that are "installed". Absent
// viewers are nil.
type Viewers struct {
	JEI *JEI
	EMI *EMI
	REI *REI
}

// Install creates simulated viewers for the given backends.
func Install(h *Host, ids ...backend.ID) Viewers {
	var v Viewers
	for _, id := range ids {
		switch id {
		case backend.JEI:
			v.JEI = NewJEI(h)
		case backend.EMI:
			v.EMI = NewEMI(h)
		case backend.REI:
			v.REI = NewREI(h)
		}
	}
	return v
}

// Register adds all three integrations to reg in the default order, handing
// each its plugin or nil when the viewer is absent.
func (v Viewers) Register(reg *backend.Registry) error {
	return v.RegisterOrder(nil)(reg)
}

// RegisterOrder returns a registration func that adds the integrations in
// order. Backends missing from order are appended in the default order.
func (v Viewers) RegisterOrder(order []backend.ID) func(reg *backend.Registry) error {
	return func(reg *backend.Registry) error {
		var (
			jp jei.Plugin
			ep emi.Plugin
			rp rei.Plugin
		)
		if v.JEI != nil {
			jp = v.JEI
		}
		if v.EMI != nil {
			ep = v.EMI
		}
		if v.REI != nil {
			rp = v.REI
		}
		factories := map[backend.ID]backend.Factory{
			backend.JEI: jei.Factory(jp),
			backend.EMI: emi.Factory(ep),
			backend.REI: rei.Factory(rp),
		}
		order := slices.Clone(order)
		for _, d := range backend.Descriptors() {
			if !slices.Contains(order, d.ID) {
				order = append(order, d.ID)
			}
		}
		for _, id := range order {
			d, ok := backend.DescriptorFor(id)
			if !ok {
				return errors.UnknownBackend(string(id))
			}
			if err := reg.Register(d, factories[id]); err != nil {
				return err
			}
		}
		return nil
	}
}

// Start brings every installed viewer to its ready state.
func (v Viewers) Start() {
	if v.JEI != nil {
		v.JEI.Start()
	}
	if v.EMI != nil {
		v.EMI.Reload()
	}
	if v.REI != nil {
		v.REI.Reload()
	}
}

// DrawLists renders every installed viewer's ingredient list.
func (v Viewers) DrawLists(s host.Surface) {
	if v.JEI != nil {
		v.JEI.DrawList(s)
	}
	if v.EMI != nil {
		v.EMI.DrawList(s)
	}
	if v.REI != nil {
		v.REI.DrawList(s)
	}
}
