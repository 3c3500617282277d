package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/magpie-sh/magpie/internal/core"
)

// ---------------------------------------------------------------------------
// Catalog items (multi-select picker)
// ---------------------------------------------------------------------------

// catalogItem wraps a catalog entry for the picker list. Checked state
// lives on the item itself so it survives filtering.
type catalogItem struct {
	descriptor core.ItemDescriptor
	checked    bool
	installed  bool
	hasUpdate  bool
	desc       string // Lazily fetched description, "" until loaded.
}

func (i catalogItem) FilterValue() string { return i.descriptor.ID }

// catalogDelegate renders catalog entries as single checkbox rows:
//
//	> [x] code-review  (update available)  Reviews pull requests
type catalogDelegate struct{}

func (d catalogDelegate) Height() int                             { return 1 }
func (d catalogDelegate) Spacing() int                            { return 0 }
func (d catalogDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d catalogDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(catalogItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	indicator := "    "
	if isSelected {
		indicator = "  > "
	}

	check := "[ ] "
	if ci.checked {
		check = "[x] "
	}

	name := ci.descriptor.ID
	var line string
	if isSelected {
		line = indicator + selectedItemStyle.Render(check+name)
	} else {
		line = indicator + normalItemStyle.Render(check+name)
	}

	var badges []string
	if ci.hasUpdate {
		badges = append(badges, warningStyle.Render("(update available)"))
	} else if ci.installed {
		badges = append(badges, installedStyle.Render("(installed)"))
	}
	if ci.desc != "" {
		badges = append(badges, mutedStyle.Render(ci.desc))
	}
	if len(badges) > 0 {
		line += "  " + strings.Join(badges, "  ")
	}

	// Keep each row on one line: truncation instead of wrapping.
	_, _ = fmt.Fprint(w, ansi.Truncate(line, m.Width(), "…"))
}

// descriptorsToItems converts catalog descriptors to picker items,
// pre-checking the installed set and flagging pending updates.
func descriptorsToItems(descriptors []core.ItemDescriptor, installed map[string]bool, updates map[string]bool) []list.Item {
	items := make([]list.Item, len(descriptors))
	for i, d := range descriptors {
		items[i] = catalogItem{
			descriptor: d,
			checked:    installed[d.ID],
			installed:  installed[d.ID],
			hasUpdate:  updates[d.ID],
		}
	}
	return items
}

// ---------------------------------------------------------------------------
// Target choices (install location selection)
// ---------------------------------------------------------------------------

// targetChoice is one row in the target selection view: an existing
// installation, a conventional fresh location, or the custom path
// entry.
type targetChoice struct {
	path      string
	installed *core.Installation // nil for fresh locations
	custom    bool               // "enter a custom path" row
}

func (c targetChoice) label() string {
	if c.custom {
		return "Custom path…"
	}
	return c.path
}

// renderTargetChoice renders one target row with its status badge.
func renderTargetChoice(c targetChoice, selected bool) string {
	prefix := "    "
	if selected {
		prefix = "  > "
	}

	label := c.label()
	var line string
	if selected {
		line = prefix + selectedItemStyle.Render(label)
	} else {
		line = prefix + normalItemStyle.Render(label)
	}

	switch {
	case c.custom:
	case c.installed != nil:
		n := len(c.installed.Identifiers)
		line += "  " + installedStyle.Render(fmt.Sprintf("(installed, %d %s)", n, pluralize(n, "item")))
	default:
		line += "  " + badgeStyle.Render("(new)")
	}
	return line
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
