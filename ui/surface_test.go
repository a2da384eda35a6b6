package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stash/geom"
	"stash/host"
)

func TestCellSurfaceText(t *testing.T) {
	s := newCellSurface(6, 2)
	s.DrawText("ab", 1, 0, host.ColorWhite)
	s.DrawText("界x", 0, 1, host.ColorWhite)
	s.DrawText("clipped", 4, 0, host.ColorWhite)

	assert.Equal(t, []string{" ab cl", "界x   "}, s.Lines())
	assert.Equal(t, 2, s.TextWidth("界"))
	assert.Equal(t, 1, s.LineHeight())
}

func TestCellSurfaceFillClips(t *testing.T) {
	s := newCellSurface(4, 3)
	s.DrawText("xxxx", 0, 1, host.ColorWhite)
	s.FillRect(geom.R(2, -1, 10, 3), host.ColorDark)

	assert.Equal(t, []string{"    ", "xx  ", "    "}, s.Lines())
	assert.Equal(t, host.ColorDark, s.at(3, 1).bg)
	assert.Zero(t, s.at(1, 1).bg)
}

func TestCellSurfaceIcon(t *testing.T) {
	s := newCellSurface(3, 1)
	s.DrawIcon(host.Icon{Glyph: '/', Color: host.ColorGold}, 1, 0, 2)
	s.DrawIcon(host.Icon{}, 2, 0, 2)
	assert.Equal(t, []string{" /?"}, s.Lines())
	assert.Equal(t, host.ColorGold, s.at(1, 0).fg)
}

func TestCellSurfaceRender(t *testing.T) {
	s := newCellSurface(2, 2)
	s.DrawText("hi", 0, 0, host.ColorWhite)
	out := s.Render()
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "\n")
}
