package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/view"
)

// quickSearchID names the bar's first control, a free-text search across
// every column of the table.
const quickSearchID = "quick-search"

var quickSearch = view.Control{ID: quickSearchID, Title: "Quick Search", Kind: filter.Text}

// filterBar holds the quick search plus one control per filterable column of
// the active view. Free-text controls own a text input; selector controls
// cycle through their options, with "" meaning no constraint.
type filterBar struct {
	controls    []view.Control
	values      map[string]string
	inputs      map[string]textinput.Model
	index       int
	focused     bool
	suggestions []string
	selected    int
	styles      uiStyles
}

func (b *filterBar) reset() {
	b.controls = nil
	b.values = nil
	b.inputs = nil
	b.index = 0
	b.focused = false
	b.clearSuggestions()
}

// sync rebuilds the bar from the controller's controls and current values.
func (b *filterBar) sync(c *view.Controller) {
	index, focused := b.index, b.focused
	b.reset()
	if c.State() != view.Bound {
		return
	}
	b.controls = append([]view.Control{quickSearch}, c.Controls()...)
	b.values = make(map[string]string, len(b.controls))
	b.inputs = make(map[string]textinput.Model)
	for _, ctl := range b.controls {
		if ctl.ID == quickSearchID {
			b.values[ctl.ID] = c.QuickSearchTerm()
		} else {
			b.values[ctl.ID] = c.FilterValue(ctl.ID)
		}
		if ctl.Options == nil {
			ti := newInput(ctl.Title)
			ti.Prompt = ""
			ti.SetValue(b.values[ctl.ID])
			b.inputs[ctl.ID] = ti
		}
	}
	b.index = max(0, min(index, len(b.controls)-1))
	if focused {
		b.focus()
	}
}

func (b *filterBar) current() (view.Control, bool) {
	if b.index < 0 || b.index >= len(b.controls) {
		return view.Control{}, false
	}
	return b.controls[b.index], true
}

func (b *filterBar) focus() {
	b.focused = true
	for id, ti := range b.inputs {
		ti.Blur()
		b.inputs[id] = ti
	}
	if ctl, ok := b.current(); ok {
		if ti, ok := b.inputs[ctl.ID]; ok {
			ti.Focus()
			ti.CursorEnd()
			b.inputs[ctl.ID] = ti
		}
	}
}

func (b *filterBar) blur() {
	b.focused = false
	for id, ti := range b.inputs {
		ti.Blur()
		b.inputs[id] = ti
	}
	b.clearSuggestions()
}

func (b *filterBar) move(delta int) {
	if len(b.controls) == 0 {
		return
	}
	b.index = (b.index + delta + len(b.controls)) % len(b.controls)
	b.clearSuggestions()
	b.focus()
}

// cycle returns the option delta steps away from the current value of a
// selector control.
func (b *filterBar) cycle(ctl view.Control, delta int) string {
	opts := append([]string{""}, ctl.Options...)
	i := max(0, slices.Index(opts, b.values[ctl.ID]))
	return opts[(i+delta+len(opts))%len(opts)]
}

func (b *filterBar) setSuggestions(s []string) {
	b.suggestions = s
	b.selected = -1
}

func (b *filterBar) clearSuggestions() {
	b.setSuggestions(nil)
}

func (b *filterBar) moveSuggestion(delta int) {
	if len(b.suggestions) == 0 {
		return
	}
	b.selected = (b.selected + delta + len(b.suggestions)) % len(b.suggestions)
}

func (b *filterBar) View() string {
	if len(b.controls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(b.controls))
	for i, ctl := range b.controls {
		var value string
		if ti, ok := b.inputs[ctl.ID]; ok {
			value = ti.View()
		} else {
			v := b.values[ctl.ID]
			if v == "" {
				v = "All"
			}
			value = "‹" + v + "›"
		}
		label := b.styles.label.Render(ctl.Title + ":")
		if b.focused && i == b.index {
			label = b.styles.focused.Render(ctl.Title + ":")
		}
		parts = append(parts, label+" "+value)
	}
	out := strings.Join(parts, "  ")

	if len(b.suggestions) > 0 {
		items := make([]string, len(b.suggestions))
		for i, s := range b.suggestions {
			if i == b.selected {
				items[i] = b.styles.focused.Render(s)
			} else {
				items[i] = b.styles.dim.Render(s)
			}
		}
		out += "\n↳ " + strings.Join(items, " | ")
	}
	return out
}
