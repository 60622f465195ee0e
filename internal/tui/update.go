package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/view"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		cmd := m.handleLoaded(msg)
		return m, cmd

	case DatasetChangedMsg:
		if m.current.CP == 0 || msg.CP != m.current.CP {
			return m, nil
		}
		m.logger.Info("dataset changed on disk, reloading", zap.Int("cp", msg.CP), zap.Stringer("kind", msg.Kind))
		cmd := m.submit(strconv.Itoa(msg.CP))
		return m, cmd

	case tea.KeyMsg:
		switch m.focus {
		case focusCP:
			return m.updateCP(msg)
		case focusFilter:
			return m.updateFilter(msg)
		case focusExport:
			return m.updateExport(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m Model) updateCP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.submit(m.cpInput.Value())
		if m.errMsg == "" {
			m.focusTable()
		}
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.focusTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.cpInput, cmd = m.cpInput.Update(msg)
	return m, cmd
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.export(m.exportInput.Value())
		m.focusTable()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.focusTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	ctl, ok := m.bar.current()
	switch {
	case !ok || key.Matches(msg, m.keys.Cancel):
		m.focusTable()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.bar.move(1)
		return m, nil
	case key.Matches(msg, m.keys.BackTab):
		m.bar.move(-1)
		return m, nil
	}

	if ctl.Options != nil {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.setFilter(ctl.ID, m.bar.cycle(ctl, -1))
		case key.Matches(msg, m.keys.Right):
			m.setFilter(ctl.ID, m.bar.cycle(ctl, 1))
		case key.Matches(msg, m.keys.Confirm):
			m.focusTable()
		}
		return m, nil
	}

	switch {
	case ctl.Suggest && key.Matches(msg, m.keys.NextSuggestion):
		m.bar.moveSuggestion(1)
		return m, nil
	case ctl.Suggest && key.Matches(msg, m.keys.PrevSuggestion):
		m.bar.moveSuggestion(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.bar.selected >= 0 && m.bar.selected < len(m.bar.suggestions) {
			choice := m.bar.suggestions[m.bar.selected]
			ti := m.bar.inputs[ctl.ID]
			ti.SetValue(choice)
			ti.CursorEnd()
			m.bar.inputs[ctl.ID] = ti
			m.setFilter(ctl.ID, choice)
			m.bar.clearSuggestions()
			return m, nil
		}
		m.focusTable()
		return m, nil
	}

	ti := m.bar.inputs[ctl.ID]
	before := ti.Value()
	var cmd tea.Cmd
	ti, cmd = ti.Update(msg)
	m.bar.inputs[ctl.ID] = ti
	if value := ti.Value(); value != before {
		m.setFilter(ctl.ID, value)
		if ctl.Suggest {
			m.bar.setSuggestions(m.active().Suggestions(value))
		}
	}
	return m, cmd
}

func (m *Model) setFilter(id, value string) {
	c := m.active()
	var err error
	if id == quickSearchID {
		err = c.QuickSearch(value)
	} else {
		err = c.SetFilter(id, value)
	}
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.bar.values[id] = value
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.String() == "ctrl+z":
		return m, tea.Suspend
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.EnterCP):
		m.focusCP()
	case key.Matches(msg, m.keys.Reload):
		if m.current.CP > 0 {
			cmd := m.submit(strconv.Itoa(m.current.CP))
			return m, cmd
		}
	case key.Matches(msg, m.keys.ToggleMode):
		cmd := m.toggleMode()
		return m, cmd
	case key.Matches(msg, m.keys.QuickSearch):
		if c.State() == view.Bound {
			m.focus = focusFilter
			m.bar.index = 0
			m.bar.clearSuggestions()
			m.bar.focus()
		}
	case key.Matches(msg, m.keys.Filter):
		if c.State() == view.Bound {
			m.focus = focusFilter
			if m.bar.index == 0 && len(m.bar.controls) > 1 {
				m.bar.index = 1
			}
			m.bar.focus()
		}
	case key.Matches(msg, m.keys.ResetFilters):
		m.clearFilters()
	case key.Matches(msg, m.keys.Uncollected):
		m.setToggle(filter.UncollectedOnly)
	case key.Matches(msg, m.keys.ShadowEligible):
		m.setToggle(filter.ShadowEligible)
	case key.Matches(msg, m.keys.Export):
		m.startExport()
	case key.Matches(msg, m.keys.Yank):
		m.yank()
	case key.Matches(msg, m.keys.Up):
		c.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		c.MoveCursor(1)
	case key.Matches(msg, m.keys.Left):
		c.ScrollColumns(-1)
	case key.Matches(msg, m.keys.Right):
		c.ScrollColumns(1)
	case key.Matches(msg, m.keys.PageUp):
		c.PrevPage()
	case key.Matches(msg, m.keys.PageDown):
		c.NextPage()
	case key.Matches(msg, m.keys.PageLength):
		n := m.normal.CyclePageLength()
		m.shadow.CyclePageLength()
		m.status = "Showing " + strconv.Itoa(n) + " entries per page"
	}
	return m, nil
}
