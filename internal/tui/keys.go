package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the TUI.
type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Filter    key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Preview   key.Binding
	Yes       key.Binding
	No        key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space/x", "toggle"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all/none"),
	),
	Preview: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "preview"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "no"),
	),
}

// ---------------------------------------------------------------------------
// Per-view help keymaps for the help.Model component.
// Each implements help.KeyMap (ShortHelp + FullHelp).
// ---------------------------------------------------------------------------

// cursorHelpKeyMap is shown in the kind and target selection views.
type cursorHelpKeyMap struct{ canGoBack bool }

func (k cursorHelpKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{keys.Up, keys.Down, keys.Enter}
	if k.canGoBack {
		bindings = append(bindings, keys.Back)
	}
	return append(bindings, keys.Quit)
}

func (k cursorHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// pathHelpKeyMap is shown while entering a custom path.
type pathHelpKeyMap struct{}

func (k pathHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Enter, keys.Back}
}

func (k pathHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// pickerHelpKeyMap is shown in the multi-select picker.
type pickerHelpKeyMap struct{}

func (k pickerHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Toggle, keys.ToggleAll,
		keys.Preview, keys.Filter, keys.Enter, keys.Back,
	}
}

func (k pickerHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// previewHelpKeyMap is shown in the description preview.
type previewHelpKeyMap struct{}

func (k previewHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Back}
}

func (k previewHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// summaryHelpKeyMap is shown on the final summary screen.
type summaryHelpKeyMap struct{ asking bool }

func (k summaryHelpKeyMap) ShortHelp() []key.Binding {
	if k.asking {
		return []key.Binding{keys.Yes, keys.No}
	}
	return []key.Binding{keys.Enter, keys.Quit}
}

func (k summaryHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// emptyHelpKeyMap suppresses the help bar (loading, applying).
type emptyHelpKeyMap struct{}

func (k emptyHelpKeyMap) ShortHelp() []key.Binding  { return nil }
func (k emptyHelpKeyMap) FullHelp() [][]key.Binding { return nil }
