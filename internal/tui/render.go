package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/session"
	"pokecp/pokecp/internal/view"
)

type uiStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	dim     lipgloss.Style
	badgeOn lipgloss.Style
	err     lipgloss.Style
	status  lipgloss.Style
}

func newUIStyles(renderer *lipgloss.Renderer) uiStyles {
	base := renderer.NewStyle()
	return uiStyles{
		title:   base.Foreground(lipgloss.Color("#F6AE2D")).Bold(true),
		label:   base.Foreground(lipgloss.Color("252")),
		focused: base.Foreground(lipgloss.Color("#01BE85")).Bold(true),
		dim:     base.Foreground(lipgloss.Color("245")),
		badgeOn: base.Foreground(lipgloss.Color("#00432F")).Background(lipgloss.Color("#01BE85")).Padding(0, 1),
		err:     base.Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		status:  base.Foreground(lipgloss.Color("245")).Italic(true),
	}
}

func (m Model) header() string {
	cpLabel := m.styles.label.Render("CP")
	if m.focus == focusCP {
		cpLabel = m.styles.focused.Render("CP")
	}

	mode := "normal"
	if m.mode == session.ModeShadow {
		mode = "shadow/purified"
	}

	parts := []string{
		m.styles.title.Render("pokecp"),
		cpLabel + " " + m.cpInput.View(),
		m.styles.label.Render("mode: ") + mode,
	}
	for _, t := range []filter.Toggle{filter.UncollectedOnly, filter.ShadowEligible} {
		if m.toggles[t] {
			parts = append(parts, m.styles.badgeOn.Render(t.String()))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) placeholder() string {
	switch {
	case m.errMsg != "":
		return ""
	case m.current.CP == 0:
		return m.styles.dim.Render("Enter a CP value and press enter.")
	case m.mode == session.ModeShadow && m.shadowPending:
		return m.styles.dim.Render(fmt.Sprintf("Loading shadow/purified data for CP %d…", m.current.CP))
	case m.mode == session.ModeShadow && m.normalData != nil:
		return m.styles.dim.Render("Shadow/purified data not loaded.")
	default:
		return m.styles.dim.Render(fmt.Sprintf("Loading CP %d…", m.current.CP))
	}
}

func (m Model) footer(c *view.Controller) string {
	var lines []string
	if c.State() == view.Bound {
		lines = append(lines,
			c.InfoText(),
			c.Schema().Name+" view | "+m.theme.Legend(),
		)
	}

	switch m.focus {
	case focusExport:
		lines = append(lines,
			"Save filtered CSV as: "+m.exportInput.View(),
			"Enter to save, Esc to cancel",
		)
	case focusFilter:
		lines = append(lines, m.styles.status.Render("FILTER MODE - Tab to switch fields, ←/→ to change selectors, Enter to accept, Esc to leave"))
	default:
		if m.status != "" {
			lines = append(lines, m.styles.status.Render(m.status))
		}
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	c := m.active()

	top := []string{m.header()}
	if m.errMsg != "" {
		top = append(top, m.styles.err.Render(m.errMsg))
	}
	if bar := m.bar.View(); bar != "" {
		top = append(top, m.renderer.NewStyle().Width(m.width).Render(bar))
	}
	header := strings.Join(top, "\n")
	footer := m.footer(c)

	body := m.placeholder()
	if c.State() == view.Bound {
		height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
		body = c.Render(m.width, height)
	}

	parts := []string{header}
	if body != "" {
		parts = append(parts, body)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}
