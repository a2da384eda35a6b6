package panel

import (
	"unicode"

	"github.com/google/uuid"

	"stash/drag"
	"stash/errors"
	"stash/ingredient"
	"stash/layout"
	"stash/model"
)

// MouseClicked handles a press. It returns true when the panel consumed it.
// A press outside the panel may still start a drag from a recipe viewer
// overlay; that press is left for the host.
func (p *Panel) MouseClicked(x, y int, button Button) bool {
	p.sync()
	p.mouseX, p.mouseY = x, y
	if p.hidden {
		return false
	}
	if !p.snap.Panel.Contains(x, y) {
		if button == ButtonLeft {
			p.drag.Press(x, y)
		}
		return false
	}

	if hit(p.snap, layout.ControlAddButton, x, y) {
		p.toggleAdd()
		return true
	}
	if i, ok := p.snap.FolderAt(x, y); ok && i < len(p.visible) {
		p.clickFolder(p.visible[i], button)
		return true
	}
	if hit(p.snap, layout.ControlPrevPage, x, y) {
		p.page(p.engine.PrevPage)
		return true
	}
	if hit(p.snap, layout.ControlNextPage, x, y) {
		p.page(p.engine.NextPage)
		return true
	}
	if slot, ok := p.snap.SlotAt(x, y); ok && slot.Index < len(p.activeRefs) {
		ref := p.activeRefs[slot.Index]
		if button == ButtonMiddle {
			p.removeRef(ref)
			return true
		}
		p.pressed = &pressedSlot{index: slot.Index, ref: ref, button: button, x: x, y: y}
	}
	return true
}

// MouseMoved tracks the pointer. A pressed slot that moves far enough
// becomes a drag.
func (p *Panel) MouseMoved(x, y int) {
	p.mouseX, p.mouseY = x, y
	if pr := p.pressed; pr != nil && pr.button == ButtonLeft {
		if abs(x-pr.x) > p.threshold || abs(y-pr.y) > p.threshold {
			p.pressed = nil
			p.drag.BeginRef(pr.ref, p.active.ID, x, y)
		}
	}
	p.drag.Move(x, y)
}

// MouseReleased ends a press. It returns true when the panel consumed the
// release: a drop on one of its targets, or a release that finished a
// press inside the panel.
func (p *Panel) MouseReleased(x, y int, button Button) bool {
	p.sync()
	p.mouseX, p.mouseY = x, y
	if p.drag.State() == drag.Dragging {
		_, ok := p.drag.Release(x, y, p.snap, p.visibleIDs())
		return ok
	}
	if pr := p.pressed; pr != nil {
		p.pressed = nil
		if slot, ok := p.snap.SlotAt(x, y); ok && slot.Index == pr.index && pr.button == button {
			p.openRecipes(pr.ref, button == ButtonRight)
		}
		return true
	}
	return !p.hidden && p.snap.Panel.Contains(x, y)
}

// Scrolled pages the content block when the wheel turns over the panel.
func (p *Panel) Scrolled(x, y, delta int) bool {
	p.sync()
	if p.hidden || !p.snap.Panel.Contains(x, y) || !p.hasActive {
		return false
	}
	switch {
	case delta < 0:
		p.page(p.engine.NextPage)
	case delta > 0:
		p.page(p.engine.PrevPage)
	}
	return true
}

// KeyPressed handles a named key such as "pgdown" or "ctrl+n". While an
// input row is open every key goes to it.
func (p *Panel) KeyPressed(key string) bool {
	if p.hidden {
		return false
	}
	action, bound := p.keys.Lookup(key)
	if p.mode != inputNone {
		switch {
		case bound && action == ActionConfirm:
			p.commitInput()
		case bound && action == ActionCancel:
			p.cancelInput()
		case bound && action == ActionDeleteBack:
			if n := len(p.text); n > 0 {
				p.text = p.text[:n-1]
				p.inputChanged()
			}
		}
		return true
	}
	if !bound {
		return false
	}

	switch action {
	case ActionNextPage:
		if !p.hasActive {
			return false
		}
		p.page(p.engine.NextPage)
	case ActionPrevPage:
		if !p.hasActive {
			return false
		}
		p.page(p.engine.PrevPage)
	case ActionToggleAdd:
		p.toggleAdd()
	case ActionFilter:
		p.openInput(inputFilter, []rune(p.filter))
	case ActionDeleteHover:
		return p.deleteHovered()
	case ActionClearActive:
		p.report("clear active", p.store.ClearActive())
	case ActionClearFolder:
		if !p.hasActive {
			return false
		}
		p.report("clear folder", p.store.ClearIngredients(p.active.ID))
	case ActionMoveLeft, ActionMoveRight:
		if !p.hasActive {
			return false
		}
		delta := 1
		if action == ActionMoveLeft {
			delta = -1
		}
		p.report("move folder", p.store.Move(p.active.ID, delta))
	case ActionRename:
		if !p.hasActive {
			return false
		}
		p.beginRename(p.active)
	case ActionCopyKey:
		ref, ok := p.HoveredRef()
		if !ok || p.copyText == nil {
			return false
		}
		p.report("copy", p.copyText(ref.String()))
	case ActionCancel:
		if p.filter == "" {
			return false
		}
		p.filter = ""
		p.refresh()
	default:
		return false
	}
	return true
}

// CharTyped feeds a character to the open input row.
func (p *Panel) CharTyped(r rune) bool {
	if p.hidden || p.mode == inputNone {
		return false
	}
	if !unicode.IsPrint(r) {
		return true
	}
	if p.mode != inputFilter && len(p.text) >= model.MaxFolderNameLength {
		return true
	}
	p.text = append(p.text, r)
	p.inputChanged()
	return true
}

func (p *Panel) clickFolder(f model.Folder, button Button) {
	switch button {
	case ButtonLeft:
		p.report("toggle folder", p.store.ToggleActive(f.ID))
	case ButtonRight:
		p.beginRename(f)
	}
}

func (p *Panel) deleteHovered() bool {
	if ref, ok := p.HoveredRef(); ok {
		p.removeRef(ref)
		return true
	}
	if f, ok := p.hoveredFolder(); ok {
		p.report("delete folder", p.store.Delete(f.ID))
		return true
	}
	return false
}

func (p *Panel) removeRef(ref ingredient.Ref) {
	if !p.hasActive {
		return
	}
	_, err := p.store.RemoveIngredient(p.active.ID, ref)
	p.report("remove ingredient", err)
}

func (p *Panel) openRecipes(ref ingredient.Ref, uses bool) {
	a, n, ok := p.resolve(ref)
	if !ok {
		p.log.WithField("ref", ref.String()).Debug("no backend recognizes ingredient")
		return
	}
	if uses {
		a.ShowUses(n)
		return
	}
	a.ShowRecipes(n)
}

func (p *Panel) page(step func() error) {
	if err := step(); err != nil {
		p.log.WithError(err).Warn("page change skipped")
	}
	p.snap = p.engine.Snapshot()
}

func (p *Panel) toggleAdd() {
	if p.mode == inputAdd {
		p.cancelInput()
		return
	}
	p.openInput(inputAdd, nil)
}

func (p *Panel) beginRename(f model.Folder) {
	p.renaming = f.ID
	p.openInput(inputRename, []rune(f.Name))
}

func (p *Panel) openInput(mode inputMode, text []rune) {
	p.mode = mode
	p.text = append([]rune(nil), text...)
	p.refresh()
}

func (p *Panel) inputChanged() {
	if p.mode == inputFilter {
		p.filter = string(p.text)
		p.refresh()
	}
}

func (p *Panel) commitInput() {
	text := string(p.text)
	switch p.mode {
	case inputAdd:
		f, err := p.store.Create(text)
		if errors.Is(err, errors.CodeInvalidInput) {
			// Nothing typed yet; keep the row open.
			return
		}
		p.report("create folder", err)
		if err == nil {
			p.log.WithField("folder", f.Name).Debug("folder created")
		}
	case inputRename:
		err := p.store.Rename(p.renaming, text)
		if errors.Is(err, errors.CodeInvalidInput) {
			return
		}
		p.report("rename folder", err)
	case inputFilter:
		p.filter = text
	}
	p.closeInput()
}

func (p *Panel) cancelInput() {
	if p.mode == inputFilter {
		p.filter = ""
	}
	p.closeInput()
}

func (p *Panel) closeInput() {
	p.mode = inputNone
	p.text = nil
	p.renaming = uuid.Nil
	p.refresh()
}

// report logs a failed operation. Persistence failures keep the in-memory
// change, so they only warn.
func (p *Panel) report(op string, err error) {
	if err == nil {
		return
	}
	entry := p.log.WithError(err).WithField("op", op)
	if errors.Is(err, errors.CodePersistence) {
		entry.Warn("change kept in memory, save failed")
		return
	}
	entry.Error("operation failed")
}

func hit(s layout.Snapshot, id layout.ControlID, x, y int) bool {
	r, ok := s.Control(id)
	return ok && r.Contains(x, y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
