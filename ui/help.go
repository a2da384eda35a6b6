package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

const helpWidth = 92

func (a *App) openHelp() {
	a.help = viewport.New(0, 0)
	a.help.SetContent(a.renderHelp())
	a.sizeHelp()
	a.showHelp = true
}

// sizeHelp fits the help viewport into the window, scrolling when short.
func (a *App) sizeHelp() {
	a.help.Width = min(helpWidth, a.width)
	a.help.Height = max(min(a.help.TotalLineCount(), a.height-2), 1)
}

func (a *App) renderHelp() string {
	kb := a.keys

	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	host := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Host"),
		fmt.Sprintf("• %-13s Open a chest", kb.DisplayActionKey("open_chest")),
		fmt.Sprintf("• %-13s Back", kb.DisplayActionKey("back")),
		fmt.Sprintf("• %-13s Toggle overlay", kb.DisplayActionKey("toggle_overlay")),
		fmt.Sprintf("• %-13s Toggle viewer list", kb.DisplayActionKey("toggle_viewer_list")),
		fmt.Sprintf("• %-13s Reload viewers", kb.DisplayActionKey("reload_viewers")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	folders := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Folders"),
		"• Click         Open / close a folder",
		"• Right click   Rename a folder",
		"• Click slot    Show recipes (right: uses)",
		"• Drag          Add to a folder",
		"• Ctrl+N        New folder",
		"• /             Filter folders",
		"• PgDn / PgUp   Page",
		"• Delete        Remove hovered",
		"• Ctrl+Y        Copy ingredient key",
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(44).PaddingLeft(2).Render(host),
		lipgloss.NewStyle().Width(46).PaddingLeft(2).Render(folders),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		green.Render("Stash - Keyboard and Mouse"),
		"",
		body,
		"",
		DimStyle.Render("↑/↓ scroll · any other key closes"),
	)
}
