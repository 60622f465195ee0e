package tui

import "github.com/charmbracelet/bubbles/key"

// DefaultHotkeys maps every action to its default keys. Config files
// override entries by action name.
func DefaultHotkeys() map[string][]string {
	return map[string][]string{
		"Up":             {"up", "k"},
		"Down":           {"down", "j"},
		"Left":           {"left", "h"},
		"Right":          {"right", "l"},
		"PageUp":         {"pgup", "["},
		"PageDown":       {"pgdown", "]"},
		"PageLength":     {"p"},
		"EnterCP":        {"c"},
		"Reload":         {"r"},
		"ToggleMode":     {"m"},
		"Filter":         {"/"},
		"QuickSearch":    {"f"},
		"ResetFilters":   {"="},
		"Uncollected":    {"u"},
		"ShadowEligible": {"s"},
		"Export":         {"x"},
		"Yank":           {"y"},
		"Help":           {"?"},
		"Quit":           {"q", "ctrl+c"},
		"Confirm":        {"enter"},
		"Cancel":         {"esc"},
		"Tab":            {"tab"},
		"BackTab":        {"shift+tab"},
		"NextSuggestion": {"ctrl+n"},
		"PrevSuggestion": {"ctrl+p"},
	}
}

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	PageLength     key.Binding
	EnterCP        key.Binding
	Reload         key.Binding
	ToggleMode     key.Binding
	Filter         key.Binding
	QuickSearch    key.Binding
	ResetFilters   key.Binding
	Uncollected    key.Binding
	ShadowEligible key.Binding
	Export         key.Binding
	Yank           key.Binding
	Help           key.Binding
	Quit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	Tab            key.Binding
	BackTab        key.Binding
	NextSuggestion key.Binding
	PrevSuggestion key.Binding
}

func binding(hotkeys map[string][]string, action, desc string) key.Binding {
	keys := hotkeys[action]
	helpKey := ""
	if len(keys) > 0 {
		helpKey = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

func newKeyMap(hotkeys map[string][]string) keyMap {
	return keyMap{
		Up:             binding(hotkeys, "Up", "row up"),
		Down:           binding(hotkeys, "Down", "row down"),
		Left:           binding(hotkeys, "Left", "scroll left"),
		Right:          binding(hotkeys, "Right", "scroll right"),
		PageUp:         binding(hotkeys, "PageUp", "prev page"),
		PageDown:       binding(hotkeys, "PageDown", "next page"),
		PageLength:     binding(hotkeys, "PageLength", "page length"),
		EnterCP:        binding(hotkeys, "EnterCP", "enter CP"),
		Reload:         binding(hotkeys, "Reload", "reload"),
		ToggleMode:     binding(hotkeys, "ToggleMode", "normal/shadow"),
		Filter:         binding(hotkeys, "Filter", "filters"),
		QuickSearch:    binding(hotkeys, "QuickSearch", "quick search"),
		ResetFilters:   binding(hotkeys, "ResetFilters", "clear filters"),
		Uncollected:    binding(hotkeys, "Uncollected", "uncollected only"),
		ShadowEligible: binding(hotkeys, "ShadowEligible", "shadow-eligible only"),
		Export:         binding(hotkeys, "Export", "save filtered CSV"),
		Yank:           binding(hotkeys, "Yank", "copy row"),
		Help:           binding(hotkeys, "Help", "toggle help"),
		Quit:           binding(hotkeys, "Quit", "quit"),
		Confirm:        binding(hotkeys, "Confirm", "confirm"),
		Cancel:         binding(hotkeys, "Cancel", "cancel"),
		Tab:            binding(hotkeys, "Tab", "next filter"),
		BackTab:        binding(hotkeys, "BackTab", "prev filter"),
		NextSuggestion: binding(hotkeys, "NextSuggestion", "next suggestion"),
		PrevSuggestion: binding(hotkeys, "PrevSuggestion", "prev suggestion"),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.EnterCP, k.Filter, k.ToggleMode, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},                                            // Navigation
		{k.PageUp, k.PageDown, k.PageLength},                                       // Paging
		{k.EnterCP, k.Reload, k.ToggleMode},                                        // Data
		{k.QuickSearch, k.Filter, k.ResetFilters, k.Uncollected, k.ShadowEligible}, // Filters
		{k.Tab, k.BackTab, k.NextSuggestion, k.PrevSuggestion},                     // Filter bar
		{k.Export, k.Yank, k.Help, k.Quit},                                         // General
	}
}
