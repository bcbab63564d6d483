package ui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"arcview/internal/edit"
	"arcview/internal/viewer"
)

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.lastInput = "key:" + msg.String()
	if r.helpOpen {
		switch {
		case key.Matches(msg, r.keys.Help), msg.String() == "esc", msg.String() == "q":
			r.helpOpen = false
		case msg.String() == "ctrl+c":
			return r, tea.Quit
		}
		return r, nil
	}

	if c, ok := colorKey(msg); ok {
		return r, r.dispatch(viewer.SelectColor{Color: c})
	}

	s := r.session()
	switch {
	case key.Matches(msg, r.keys.Quit):
		return r, tea.Quit
	case key.Matches(msg, r.keys.Help):
		r.helpOpen = true
		return r, nil
	case msg.String() == "esc":
		return r, r.dispatch(viewer.PointerCancel{})
	case key.Matches(msg, r.keys.NextTab):
		next := viewer.TabTest
		if s.Tab == viewer.TabTest {
			next = viewer.TabExamples
		}
		return r, r.activateTab(next)
	case key.Matches(msg, r.keys.ExamplesTab):
		return r, r.activateTab(viewer.TabExamples)
	case key.Matches(msg, r.keys.TestTab):
		return r, r.activateTab(viewer.TabTest)
	case key.Matches(msg, r.keys.PrevExample):
		return r, r.dispatch(viewer.NavigateExample{Delta: -1})
	case key.Matches(msg, r.keys.NextExample):
		return r, r.dispatch(viewer.NavigateExample{Delta: 1})
	case key.Matches(msg, r.keys.PrevPuzzle):
		return r, r.dispatch(viewer.NavigatePuzzle{Delta: -1})
	case key.Matches(msg, r.keys.NextPuzzle):
		return r, r.dispatch(viewer.NavigatePuzzle{Delta: 1})
	case key.Matches(msg, r.keys.Back):
		return r, r.dispatch(viewer.HistoryStep{Delta: -1})
	case key.Matches(msg, r.keys.Forward):
		return r, r.dispatch(viewer.HistoryStep{Delta: 1})
	case key.Matches(msg, r.keys.Stamp):
		return r, r.dispatch(viewer.ToggleStamp{})
	case key.Matches(msg, r.keys.CopyInput):
		return r, r.dispatch(viewer.CopyInput{})
	case key.Matches(msg, r.keys.CopyScaled):
		return r, r.dispatch(viewer.CopyInputScaled{})
	case key.Matches(msg, r.keys.Clear):
		return r, r.dispatch(viewer.Clear{})
	case key.Matches(msg, r.keys.Submit):
		return r, r.dispatch(viewer.Submit{})
	case key.Matches(msg, r.keys.Reveal):
		return r, r.dispatch(viewer.Reveal{})
	case key.Matches(msg, r.keys.ScrollLeft):
		r.scrollBy(-1)
	case key.Matches(msg, r.keys.ScrollRight):
		r.scrollBy(1)
	case key.Matches(msg, r.keys.ScrollUp):
		r.scrollRowsBy(-1)
	case key.Matches(msg, r.keys.ScrollDown):
		r.scrollRowsBy(1)
	}
	return r, nil
}

func colorKey(msg tea.KeyPressMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

func (r *Root) activateTab(tab viewer.Tab) tea.Cmd {
	r.hovering = false
	r.scroll, r.scrollRows = 0, 0
	return r.dispatch(viewer.TabActivated{Tab: tab})
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	r.lastInput = fmt.Sprintf("click:%d,%d", m.X, m.Y)
	if r.helpOpen {
		r.helpOpen = false
		return r, nil
	}
	if m.Button != tea.MouseLeft || r.layout == LayoutTooSmall {
		return r, nil
	}
	geo := r.geometry()
	if tab, ok := geo.tabAt(m.X, m.Y); ok {
		return r, r.activateTab(tab)
	}
	if c, ok := geo.swatchAt(m.X, m.Y); ok {
		return r, r.dispatch(viewer.SelectColor{Color: c})
	}
	v, ok := r.canvasView()
	if !ok {
		return r, nil
	}
	cell, in := v.hit(m.X, m.Y)
	if !in {
		return r, nil
	}
	if r.session().Edit.Mode() == edit.ModeStamp {
		return r, r.dispatch(viewer.PointerClick{Pos: v.point(m.X, m.Y)})
	}
	return r, r.dispatch(viewer.PointerDown{Cell: cell})
}

// handleMouseMotion tracks the pointer over the canvas, synthesizing enter
// and leave as it crosses the grid edge.
func (r *Root) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if r.helpOpen || r.layout == LayoutTooSmall {
		return r, nil
	}
	m := msg.Mouse()
	v, ok := r.canvasView()
	if !ok {
		return r, nil
	}
	cell, in := v.hit(m.X, m.Y)
	if !in {
		if !r.hovering {
			return r, nil
		}
		r.hovering = false
		return r, r.dispatch(viewer.PointerLeave{})
	}
	var cmds []tea.Cmd
	if !r.hovering {
		r.hovering = true
		cmds = append(cmds, r.dispatch(viewer.PointerEnter{}))
	}
	cmds = append(cmds, r.dispatch(viewer.PointerMove{Cell: cell, Pos: v.point(m.X, m.Y)}))
	return r, tea.Batch(cmds...)
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	// The vertical wheel pans columns only when no rows are hidden.
	vertical := r.rowLimit() > 0
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		if vertical {
			r.scrollRowsBy(-1)
		} else {
			r.scrollBy(-1)
		}
	case tea.MouseWheelDown:
		if vertical {
			r.scrollRowsBy(1)
		} else {
			r.scrollBy(1)
		}
	case tea.MouseWheelLeft:
		r.scrollBy(-1)
	case tea.MouseWheelRight:
		r.scrollBy(1)
	}
	return r, nil
}
