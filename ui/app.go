// Package ui is the terminal demo host: a bubbletea program that plays the
// game client, with simulated screens and recipe viewers, and hosts the
// panel on top of them.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"stash/backend"
	"stash/config"
	"stash/geom"
	"stash/host"
	"stash/layout"
	"stash/logging"
	"stash/panel"
	"stash/session"
	"stash/sim"
)

// Options configure the demo host.
type Options struct {
	Host      *sim.Host
	Viewers   sim.Viewers
	Session   *session.Session
	Metrics   layout.Metrics
	Placement layout.Placement
	Keys      *config.KeyBindingsConfig
	// Changes signals external edits of the folder file.
	Changes <-chan struct{}
}

type foldersChangedMsg struct{}

type App struct {
	host    *sim.Host
	viewers sim.Viewers
	sess    *session.Session
	panel   *panel.Panel
	keys    *config.KeyBindingsConfig
	actions map[string]string
	changes <-chan struct{}
	log     *logrus.Entry

	width, height  int
	mouseX, mouseY int
	pressed        panel.Button
	screenID       string
	screenW        int
	screenH        int
	listsHidden    bool
	showHelp       bool
	help           viewport.Model
	status         string
	statusErr      bool
}

func New(opts Options) *App {
	if opts.Keys == nil {
		opts.Keys = config.DefaultKeybindings()
	}
	a := &App{
		host:    opts.Host,
		viewers: opts.Viewers,
		sess:    opts.Session,
		keys:    opts.Keys,
		actions: opts.Keys.HostActions(),
		changes: opts.Changes,
		log:     logging.NewLogger("ui"),
	}
	a.host.SlotSize = CellSlotSize
	screen := a.host.CurrentScreen()
	a.screenID, a.screenW, a.screenH = screen.ID, screen.W, screen.H
	a.panel = panel.New(opts.Session, screen, panel.Options{
		Metrics:   opts.Metrics,
		Placement: opts.Placement,
		Keymap:    opts.Keys.PanelKeymap(),
		Copy:      a.copy,
	})
	return a
}

// Panel exposes the hosted panel.
func (a *App) Panel() *panel.Panel { return a.panel }

func (a *App) Init() tea.Cmd {
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return foldersChangedMsg{}
	}
}

func (a *App) copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		a.setError("clipboard unavailable")
		return err
	}
	a.setStatus("Copied " + text)
	return nil
}

func (a *App) setStatus(s string) { a.status, a.statusErr = s, false }
func (a *App) setError(s string)  { a.status, a.statusErr = s, true }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.host.Resize(a.width, max(a.height-1, 0))
		if a.showHelp {
			a.sizeHelp()
		}

	case foldersChangedMsg:
		if err := a.sess.ReloadFolders(); err != nil {
			a.log.WithError(err).Warn("external folder reload failed")
			a.setError("reload failed: " + err.Error())
		} else {
			a.setStatus("Folders reloaded from disk")
		}
		cmd = a.waitForChange()

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.KeyMsg:
		if quit := a.handleKey(msg); quit {
			return a, tea.Quit
		}
	}
	a.syncScreen()
	return a, cmd
}

// syncScreen tells the panel when the simulated host switched screens or
// the window changed size.
func (a *App) syncScreen() {
	screen := a.host.CurrentScreen()
	switch {
	case screen.ID != a.screenID:
		a.panel.SetScreen(screen)
	case screen.W != a.screenW || screen.H != a.screenH:
		a.panel.Resize(screen)
	default:
		return
	}
	a.screenID, a.screenW, a.screenH = screen.ID, screen.W, screen.H
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	a.mouseX, a.mouseY = msg.X, msg.Y
	switch msg.Action {
	case tea.MouseActionMotion:
		a.panel.MouseMoved(msg.X, msg.Y)
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.panel.Scrolled(msg.X, msg.Y, 1)
		case tea.MouseButtonWheelDown:
			a.panel.Scrolled(msg.X, msg.Y, -1)
		default:
			a.pressed = mouseButton(msg.Button)
			a.panel.MouseClicked(msg.X, msg.Y, a.pressed)
		}
	case tea.MouseActionRelease:
		// Most terminals do not say which button was released.
		a.panel.MouseReleased(msg.X, msg.Y, a.pressed)
	}
}

func mouseButton(b tea.MouseButton) panel.Button {
	switch b {
	case tea.MouseButtonRight:
		return panel.ButtonRight
	case tea.MouseButtonMiddle:
		return panel.ButtonMiddle
	default:
		return panel.ButtonLeft
	}
}

// handleKey routes a key the way the game does: typed characters first,
// then the panel's bindings, then the host's own shortcuts.
func (a *App) handleKey(msg tea.KeyMsg) (quit bool) {
	if a.showHelp {
		switch msg.String() {
		case "up", "down", "k", "j", "pgup", "pgdown":
			a.help, _ = a.help.Update(msg)
		default:
			a.showHelp = false
		}
		return false
	}
	if !msg.Alt && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
		consumed := false
		for _, r := range msg.Runes {
			consumed = a.panel.CharTyped(r) || consumed
		}
		if consumed {
			return false
		}
	}
	if a.panel.KeyPressed(msg.String()) {
		return false
	}
	if msg.Type == tea.KeyCtrlC {
		return true
	}

	switch a.actions[msg.String()] {
	case "quit":
		return true
	case "help":
		a.openHelp()
	case "toggle_overlay":
		a.panel.SetHidden(!a.panel.Hidden())
	case "toggle_viewer_list":
		a.listsHidden = !a.listsHidden
		a.setListsHidden(a.listsHidden)
	case "open_chest":
		a.host.Open(sim.Screen{ID: sim.ScreenChest, Title: "Chest"})
	case "back":
		if !a.host.Back() {
			a.setStatus("Already at the inventory")
		}
	case "reload_viewers":
		a.viewers.Start()
		a.setStatus("Recipe viewers reloaded")
	}
	return false
}

func (a *App) setListsHidden(hidden bool) {
	if a.viewers.JEI != nil {
		a.viewers.JEI.SetHidden(hidden)
	}
	if a.viewers.EMI != nil {
		a.viewers.EMI.SetHidden(hidden)
	}
	if a.viewers.REI != nil {
		a.viewers.REI.SetHidden(hidden)
	}
}

func (a *App) View() string {
	if a.width < 40 || a.height < 12 {
		return "Terminal too small"
	}
	if a.showHelp {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.help.View())
	}

	screen := a.host.CurrentScreen()
	s := newCellSurface(screen.W, screen.H)
	drawScreen(s, screen)
	a.viewers.DrawLists(s)
	a.panel.Render(s, a.mouseX, a.mouseY)

	return s.Render() + "\n" + a.statusBar()
}

// drawScreen paints the simulated game screen behind the overlays.
func drawScreen(s *cellSurface, screen sim.Screen) {
	w, h := screen.Size()
	bw, bh := min(30, w/3), min(10, h/2)
	box := geom.R((w-bw)/2, (h-bh)/2, bw, bh)
	s.FillRect(box, 0xFF3A3A3A)
	title := screen.Title
	if screen.Focus != "" {
		title += ": " + screen.Focus
	}
	s.DrawText(title, box.X+1, box.Y, host.ColorGold)
	if screen.ID == sim.ScreenInventory || screen.ID == sim.ScreenChest {
		for row := 2; row < box.H-1; row += 2 {
			for col := 1; col+1 < box.W; col += 3 {
				s.DrawText("[]", box.X+col, box.Y+row, host.ColorGray)
			}
		}
	}
}

func (a *App) statusBar() string {
	var states []string
	current := a.sess.Registry.States()
	for _, d := range a.sess.Registry.Descriptors() {
		state := current[d.ID]
		label := string(d.ID) + ":" + state.String()
		if state >= backend.Available {
			label = lipgloss.NewStyle().Foreground(successColor).Render(label)
		}
		states = append(states, label)
	}
	left := StatusStyle.Render(fmt.Sprintf("world %s  ", a.sess.WorldID)) + strings.Join(states, " ")
	footer := FormatFooter(
		a.keys.DisplayActionKey("help"), "Help",
		a.keys.DisplayActionKey("quit"), "Quit",
	)
	msg := a.status
	if msg != "" {
		if a.statusErr {
			msg = ErrorStyle.Render(msg)
		} else {
			msg = WarningStyle.Render(msg)
		}
	}
	return left + "  " + msg + "  " + footer
}
