package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/magpie-sh/magpie/internal/core"
)

// appView represents the active wizard screen.
type appView int

const (
	viewKind     appView = iota // Resource kind selection
	viewTarget                  // Install location selection
	viewPath                    // Custom path entry
	viewLoading                 // Catalog fetch in flight
	viewPicker                  // Multi-select catalog picker
	viewPreview                 // Descriptor markdown preview overlay
	viewApplying                // Apply in progress
	viewSummary                 // Result summary + gitignore prompt
)

// Deps carries the core collaborators the wizard drives. The TUI owns
// no domain logic of its own: every decision is delegated here.
type Deps struct {
	Catalog   *core.CatalogClient
	Inspector *core.Inspector
	Applier   *core.Applier
	Updates   *core.UpdateChecker
	Config    *core.Config
	WorkDir   string

	// InitialKind, when non-nil, skips the kind selection step.
	InitialKind *core.ResourceKind
}

// App is the root Bubbletea model for the install wizard.
type App struct {
	deps Deps

	// View state.
	activeView appView
	width      int
	height     int
	ready      bool

	// Kind selection.
	kind       core.ResourceKind
	kindCursor int

	// Target selection.
	targets      []targetChoice
	targetCursor int
	target       core.InstallationTarget
	installation core.Installation

	// Custom path entry.
	pathInput textinput.Model
	pathErr   string

	// Catalog data.
	descriptors []core.ItemDescriptor
	updates     map[string]bool

	// Multi-select picker.
	list   list.Model
	notice string

	// Descriptor preview.
	previewViewport viewport.Model
	previewTitle    string
	previewLoading  bool
	descCache       map[string]string

	// Cached glamour renderer (lazy-initialized on first preview).
	glamourRenderer *glamour.TermRenderer

	// Apply state.
	op       core.Operation
	diff     core.SelectionDiff
	phase    string
	phaseCh  chan string
	applyErr error

	// Summary / gitignore prompt.
	askIgnore   bool
	ignoreEntry string
	ignoreNote  string

	spinner spinner.Model
	help    help.Model

	// Outcome reported by Run. Quitting before anything is applied
	// counts as cancellation.
	finalErr error
}

// NewApp creates the wizard model.
func NewApp(deps Deps) App {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	ti := textinput.New()
	ti.Placeholder = "path/to/directory"
	ti.CharLimit = 512

	l := list.New(nil, catalogDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetShowPagination(false)

	h := help.New()
	h.ShortSeparator = "  |  "

	a := App{
		deps:      deps,
		spinner:   s,
		pathInput: ti,
		list:      l,
		help:      h,
		descCache: make(map[string]string),
		finalErr:  core.ErrUserCancelled,
	}
	if deps.InitialKind != nil {
		a.kind = *deps.InitialKind
		a.buildTargetChoices()
		a.activeView = viewTarget
	}
	return a
}

// Run drives the wizard to completion and reports its outcome:
// nil on a successful apply, ErrUserCancelled if the user backed out,
// or the apply error otherwise.
func Run(deps Deps) error {
	p := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return err
	}
	final, ok := m.(App)
	if !ok {
		return fmt.Errorf("unexpected model type %T", m)
	}
	return final.finalErr
}

// --- Messages ---

type catalogLoadedMsg struct {
	descriptors []core.ItemDescriptor
	err         error
}

type updatesCheckedMsg struct {
	updates map[string]bool
}

// previewRenderedMsg is sent when background glamour rendering
// completes.
type previewRenderedMsg struct {
	id       string
	raw      string
	content  string
	err      error
	renderer *glamour.TermRenderer
}

type applyPhaseMsg struct {
	name string
}

type applyDoneMsg struct {
	err error
}

type gitignoreDoneMsg struct {
	changed bool
	err     error
}

// --- Init / Update / View ---

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		w, h := a.innerContentSize()
		a.list.SetSize(w, max(1, h-2))
		a.pathInput.Width = max(20, w-8)
		if a.activeView == viewPreview {
			a.previewViewport.Width = w
			a.previewViewport.Height = max(0, h-4)
		}
		return a, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			a.finalErr = msg.err
			return a, tea.Quit
		}
		a.descriptors = msg.descriptors
		if len(a.descriptors) == 0 {
			a.finalErr = fmt.Errorf("the %s catalog lists nothing installable", a.kind.Plural())
			return a, tea.Quit
		}
		a.activeView = viewPicker
		a.refreshPickerItems()
		return a, nil

	case updatesCheckedMsg:
		a.updates = msg.updates
		if a.activeView == viewPicker {
			a.refreshPickerItems()
		}
		return a, nil

	case previewRenderedMsg:
		if msg.raw != "" {
			a.descCache[msg.id] = msg.raw
		}
		if a.activeView != viewPreview {
			return a, nil
		}
		a.previewLoading = false
		if msg.renderer != nil {
			a.glamourRenderer = msg.renderer
		}
		if msg.err != nil {
			a.previewViewport.SetContent(errorStyle.Render(fmt.Sprintf("Could not load description: %v", msg.err)))
			return a, nil
		}
		a.previewViewport.SetContent(msg.content)
		return a, nil

	case applyPhaseMsg:
		a.phase = msg.name
		return a, a.waitPhase()

	case applyDoneMsg:
		a.applyErr = msg.err
		a.finalErr = msg.err
		a.activeView = viewSummary
		if msg.err == nil {
			a.prepareIgnorePrompt()
		}
		return a, nil

	case gitignoreDoneMsg:
		switch {
		case msg.err != nil:
			a.ignoreNote = errorStyle.Render(fmt.Sprintf("Could not update .gitignore: %v", msg.err))
		case msg.changed:
			a.ignoreNote = installedStyle.Render(fmt.Sprintf("Added %s to .gitignore", a.ignoreEntry))
		default:
			a.ignoreNote = mutedStyle.Render(fmt.Sprintf("%s is already ignored", a.ignoreEntry))
		}
		return a, nil

	case spinner.TickMsg:
		if a.activeView == viewLoading || a.activeView == viewApplying || a.previewLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.delegate(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The apply must not be interrupted mid-transaction.
	if a.activeView == viewApplying {
		return a, nil
	}

	// Global quit, except while a text input or filter owns the keys.
	if key.Matches(msg, keys.Quit) {
		if a.activeView == viewPath {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
		} else if a.activeView == viewPicker && a.list.SettingFilter() {
			// Let the filter input consume plain "q".
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
		} else {
			if a.activeView == viewSummary {
				// Outcome already decided by applyDoneMsg.
				return a, tea.Quit
			}
			return a, tea.Quit
		}
	}

	switch a.activeView {
	case viewKind:
		return a.updateKindSelect(msg)
	case viewTarget:
		return a.updateTargetSelect(msg)
	case viewPath:
		return a.updatePathEntry(msg)
	case viewPicker:
		return a.updatePicker(msg)
	case viewPreview:
		return a.updatePreview(msg)
	case viewSummary:
		return a.updateSummary(msg)
	}
	return a, nil
}

// delegate forwards non-key messages to whichever component needs them.
func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPath:
		a.pathInput, cmd = a.pathInput.Update(msg)
	case viewPicker:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

// --- Kind selection ---

var kindChoices = []core.ResourceKind{core.KindSkill, core.KindSubagent}

func (a App) updateKindSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.kindCursor > 0 {
			a.kindCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.kindCursor < len(kindChoices)-1 {
			a.kindCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.kind = kindChoices[a.kindCursor]
		a.buildTargetChoices()
		a.activeView = viewTarget
	}
	return a, nil
}

// --- Target selection ---

// buildTargetChoices assembles the target rows: every discovered
// installation first, then the conventional locations that hold
// nothing yet, then the custom path escape hatch.
func (a *App) buildTargetChoices() {
	a.targets = a.targets[:0]
	a.targetCursor = 0

	found := a.deps.Inspector.Discover(a.deps.WorkDir, a.kind)
	seen := make(map[string]bool, len(found))
	for i := range found {
		seen[found[i].Path] = true
		a.targets = append(a.targets, targetChoice{path: found[i].Path, installed: &found[i]})
	}
	for _, rel := range a.kind.LocalPaths() {
		abs := filepath.Join(a.deps.WorkDir, rel)
		if !seen[abs] {
			a.targets = append(a.targets, targetChoice{path: abs})
		}
	}
	a.targets = append(a.targets, targetChoice{custom: true})
}

func (a App) updateTargetSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.targetCursor > 0 {
			a.targetCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.targetCursor < len(a.targets)-1 {
			a.targetCursor++
		}
	case key.Matches(msg, keys.Back):
		a.activeView = viewKind
	case key.Matches(msg, keys.Enter):
		choice := a.targets[a.targetCursor]
		if choice.custom {
			a.pathInput.SetValue("")
			a.pathInput.Placeholder = a.kind.DefaultLocalPath()
			a.pathErr = ""
			a.activeView = viewPath
			return a, a.pathInput.Focus()
		}
		return a.chooseTarget(choice.path)
	}
	return a, nil
}

func (a App) updatePathEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		a.pathInput.Blur()
		a.activeView = viewTarget
		return a, nil
	case key.Matches(msg, keys.Enter):
		raw := strings.TrimSpace(a.pathInput.Value())
		if raw == "" {
			a.pathErr = "Enter a directory path"
			return a, nil
		}
		path := core.ExpandPath(raw)
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.deps.WorkDir, path)
		}
		a.pathInput.Blur()
		return a.chooseTarget(path)
	}

	var cmd tea.Cmd
	a.pathInput, cmd = a.pathInput.Update(msg)
	return a, cmd
}

// chooseTarget locks in the install location and kicks off the catalog
// fetch, plus the update check when there is something installed to
// check.
func (a App) chooseTarget(path string) (tea.Model, tea.Cmd) {
	a.installation = a.deps.Inspector.Detect(path, a.kind)
	a.target = core.InstallationTarget{
		Path:   path,
		Kind:   a.kind,
		Exists: pathIsDir(path),
		IsRepo: pathIsDir(filepath.Join(path, ".git")),
	}
	a.activeView = viewLoading

	cmds := []tea.Cmd{a.spinner.Tick, a.loadCatalogCmd()}
	if a.installation.Present && !a.deps.Config.Settings.DisableUpdateCheck {
		cmds = append(cmds, a.checkUpdatesCmd())
	}
	return a, tea.Batch(cmds...)
}

func (a App) loadCatalogCmd() tea.Cmd {
	catalog := a.deps.Catalog
	kind := a.kind
	return func() tea.Msg {
		descriptors, err := catalog.ListAvailable(context.Background(), kind)
		return catalogLoadedMsg{descriptors: descriptors, err: err}
	}
}

func (a App) checkUpdatesCmd() tea.Cmd {
	updates := a.deps.Updates
	path := a.installation.Path
	kind := a.kind
	ids := a.installation.Identifiers
	return func() tea.Msg {
		return updatesCheckedMsg{updates: updates.Check(context.Background(), path, kind, ids)}
	}
}

// --- Picker ---

// refreshPickerItems rebuilds the list items from the catalog,
// preserving any toggles the user has already made.
func (a *App) refreshPickerItems() {
	prior := make(map[string]bool)
	hadItems := len(a.list.Items()) > 0
	for _, it := range a.list.Items() {
		if ci, ok := it.(catalogItem); ok && ci.checked {
			prior[ci.descriptor.ID] = true
		}
	}

	installed := make(map[string]bool, len(a.installation.Identifiers))
	for _, id := range a.installation.Identifiers {
		installed[id] = true
	}

	items := descriptorsToItems(a.descriptors, installed, a.updates)
	if hadItems {
		for i := range items {
			ci := items[i].(catalogItem)
			ci.checked = prior[ci.descriptor.ID]
			items[i] = ci
		}
	}
	a.list.SetItems(items)
}

func (a App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't intercept keys while filtering.
	if a.list.SettingFilter() {
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, keys.Toggle):
		if ci, ok := a.list.SelectedItem().(catalogItem); ok {
			ci.checked = !ci.checked
			a.notice = ""
			return a, a.list.SetItem(a.list.GlobalIndex(), ci)
		}
		return a, nil

	case key.Matches(msg, keys.ToggleAll):
		return a, a.toggleAll()

	case key.Matches(msg, keys.Preview):
		if ci, ok := a.list.SelectedItem().(catalogItem); ok {
			return a.openPreview(ci.descriptor.ID)
		}
		return a, nil

	case key.Matches(msg, keys.Back):
		a.activeView = viewTarget
		return a, nil

	case key.Matches(msg, keys.Enter):
		selected := a.checkedIDs()
		if err := core.ValidateSelection(selected); err != nil {
			// Re-prompt in place: an empty selection is never applied.
			a.notice = "Select at least one item (space to toggle)"
			return a, nil
		}
		return a.startApply(selected)
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

// toggleAll checks every item unless any is already checked, in which
// case it unchecks everything.
func (a *App) toggleAll() tea.Cmd {
	items := a.list.Items()
	anyChecked := false
	for _, it := range items {
		if ci, ok := it.(catalogItem); ok && ci.checked {
			anyChecked = true
			break
		}
	}
	for i, it := range items {
		if ci, ok := it.(catalogItem); ok {
			ci.checked = !anyChecked
			items[i] = ci
		}
	}
	a.notice = ""
	return a.list.SetItems(items)
}

// checkedIDs returns the checked identifiers in catalog listing order.
func (a App) checkedIDs() []string {
	var ids []string
	for _, it := range a.list.Items() {
		if ci, ok := it.(catalogItem); ok && ci.checked {
			ids = append(ids, ci.descriptor.ID)
		}
	}
	return ids
}

// --- Preview ---

func (a App) openPreview(id string) (tea.Model, tea.Cmd) {
	a.activeView = viewPreview
	a.previewTitle = id
	a.previewLoading = true

	w, h := a.innerContentSize()
	// -4 for the preview's own header, separator, footer, and separator.
	a.previewViewport = viewport.New(w, max(0, h-4))

	catalog := a.deps.Catalog
	kind := a.kind
	cached, haveCached := a.descCache[id]
	cachedRenderer := a.glamourRenderer
	renderCmd := func() tea.Msg {
		content := cached
		if !haveCached {
			var err error
			content, err = catalog.FetchDescriptor(context.Background(), kind, id)
			if err != nil {
				return previewRenderedMsg{id: id, err: err}
			}
		}

		r := cachedRenderer
		if r == nil {
			var err error
			r, err = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(w),
			)
			if err != nil {
				return previewRenderedMsg{id: id, raw: content, content: content}
			}
		}
		rendered, err := r.Render(content)
		if err != nil {
			rendered = content
		}
		return previewRenderedMsg{
			id:       id,
			raw:      content,
			content:  strings.TrimRight(rendered, "\n"),
			renderer: r,
		}
	}
	return a, tea.Batch(a.spinner.Tick, renderCmd)
}

func (a App) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		a.previewLoading = false
		a.activeView = viewPicker
		return a, nil
	}
	var cmd tea.Cmd
	a.previewViewport, cmd = a.previewViewport.Update(msg)
	return a, cmd
}

// --- Apply ---

// startApply computes the transaction and launches it. Progress phases
// stream through a channel so the view can show what the applier is
// doing.
func (a App) startApply(selected []string) (tea.Model, tea.Cmd) {
	a.op = core.DecideOperation(a.installation.Present)
	a.diff = core.ComputeDiff(a.catalogOrdered(a.installation.Identifiers), selected)
	a.activeView = viewApplying
	a.phase = "preparing"
	a.phaseCh = make(chan string, 8)

	applier := a.deps.Applier
	op := a.op
	target := a.target
	ch := a.phaseCh
	applyCmd := func() tea.Msg {
		err := applier.Apply(context.Background(), op, target, selected, core.ProgressFunc(func(name string) {
			ch <- name
		}))
		close(ch)
		return applyDoneMsg{err: err}
	}
	return a, tea.Batch(a.spinner.Tick, applyCmd, a.waitPhase())
}

// waitPhase blocks on the next progress phase. Returns nil once the
// applier closes the channel.
func (a App) waitPhase() tea.Cmd {
	ch := a.phaseCh
	return func() tea.Msg {
		name, ok := <-ch
		if !ok {
			return nil
		}
		return applyPhaseMsg{name: name}
	}
}

// catalogOrdered reorders ids to match the catalog listing, appending
// any ids the catalog no longer lists in their original order.
func (a App) catalogOrdered(ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var ordered []string
	listed := make(map[string]bool, len(a.descriptors))
	for _, d := range a.descriptors {
		listed[d.ID] = true
		if want[d.ID] {
			ordered = append(ordered, d.ID)
		}
	}
	for _, id := range ids {
		if !listed[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// --- Summary ---

// prepareIgnorePrompt decides whether to offer adding the install
// location to the project's .gitignore: only when the project itself
// is a repository and the target sits inside it.
func (a *App) prepareIgnorePrompt() {
	if !pathIsDir(filepath.Join(a.deps.WorkDir, ".git")) {
		return
	}
	rel, err := filepath.Rel(a.deps.WorkDir, a.target.Path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return
	}
	a.ignoreEntry = filepath.ToSlash(rel) + "/"
	a.askIgnore = true
}

func (a App) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.askIgnore {
		switch {
		case key.Matches(msg, keys.Yes):
			a.askIgnore = false
			workDir := a.deps.WorkDir
			entry := a.ignoreEntry
			return a, func() tea.Msg {
				changed, err := core.EnsureIgnored(workDir, entry)
				return gitignoreDoneMsg{changed: changed, err: err}
			}
		case key.Matches(msg, keys.No):
			a.askIgnore = false
			return a, nil
		}
		return a, nil
	}

	if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Quit) {
		return a, tea.Quit
	}
	return a, nil
}

// --- View ---

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.renderHeader()
	helpBar := a.renderHelpBar()

	separators := 2
	chromeH := lipgloss.Height(header) + lipgloss.Height(helpBar) + separators

	frameV := contentStyle.GetVerticalFrameSize()
	frameH := contentStyle.GetHorizontalFrameSize()
	borderV := contentStyle.GetVerticalBorderSize()
	borderH := contentStyle.GetHorizontalBorderSize()

	innerW := max(0, a.width-borderH)
	innerH := max(0, a.height-chromeH-borderV)
	textW := max(0, a.width-frameH)
	textH := max(0, a.height-chromeH-frameV)

	var content string
	switch a.activeView {
	case viewKind:
		content = a.renderKindSelect()
	case viewTarget:
		content = a.renderTargetSelect()
	case viewPath:
		content = a.renderPathEntry()
	case viewLoading:
		content = a.spinner.View() + " Fetching catalog..."
	case viewPicker:
		content = a.renderPicker(textH)
	case viewPreview:
		content = a.renderPreview()
	case viewApplying:
		content = a.renderApplying()
	case viewSummary:
		content = a.renderSummary()
	}

	content = clampWidth(content, textW)
	content = clampHeight(content, textH)

	styled := contentStyle.
		Width(innerW).
		Height(innerH).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, styled, helpBar)
}

func (a App) renderHeader() string {
	logo := logoStyle.Render("magpie")

	var hint string
	switch a.activeView {
	case viewKind:
		hint = "What do you want to install?"
	case viewTarget:
		hint = fmt.Sprintf("Where should %s go?", a.kind.Plural())
	case viewPath:
		hint = "Custom path"
	case viewLoading:
		hint = "Loading"
	case viewPicker:
		hint = fmt.Sprintf("Select %s", a.kind.Plural())
	case viewPreview:
		hint = a.previewTitle
	case viewApplying:
		hint = "Applying"
	case viewSummary:
		hint = "Done"
	}

	indent := " "
	left := indent + logo
	hints := headerHintStyle.Render(hint)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(hints) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hints
}

func (a App) renderHelpBar() string {
	var km help.KeyMap
	switch a.activeView {
	case viewKind:
		km = cursorHelpKeyMap{}
	case viewTarget:
		km = cursorHelpKeyMap{canGoBack: true}
	case viewPath:
		km = pathHelpKeyMap{}
	case viewPicker:
		km = pickerHelpKeyMap{}
	case viewPreview:
		km = previewHelpKeyMap{}
	case viewSummary:
		km = summaryHelpKeyMap{asking: a.askIgnore}
	default:
		km = emptyHelpKeyMap{}
	}
	return " " + helpStyle.Render(a.help.View(km))
}

func (a App) renderKindSelect() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  INSTALL"))
	b.WriteString("\n\n")
	for i, kind := range kindChoices {
		prefix := "    "
		if i == a.kindCursor {
			prefix = "  > "
		}
		label := capitalize(kind.Plural())
		if i == a.kindCursor {
			b.WriteString(prefix + selectedItemStyle.Render(label))
		} else {
			b.WriteString(prefix + normalItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderTargetSelect() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  SELECT TARGET"))
	b.WriteString("\n\n")
	for i, choice := range a.targets {
		b.WriteString(renderTargetChoice(choice, i == a.targetCursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderPathEntry() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("  CUSTOM PATH"))
	b.WriteString("\n\n")
	b.WriteString("  " + a.pathInput.View())
	b.WriteString("\n")
	if a.pathErr != "" {
		b.WriteString("\n  " + errorStyle.Render(a.pathErr))
	}
	return b.String()
}

func (a App) renderPicker(textH int) string {
	sectionHeader := sectionHeaderStyle.Render("  SELECT "+strings.ToUpper(a.kind.Plural())) + "\n"

	var noticeLine string
	if a.notice != "" {
		noticeLine = "  " + warningStyle.Render(a.notice) + "\n"
	}

	chromeH := lipgloss.Height(sectionHeader)
	if noticeLine != "" {
		chromeH += lipgloss.Height(noticeLine)
	}
	listH := textH - chromeH
	if listH < 1 {
		listH = 1
	}
	l := a.list
	l.SetSize(a.list.Width(), listH)

	return sectionHeader + noticeLine + l.View()
}

func (a App) renderPreview() string {
	w, _ := a.innerContentSize()
	title := viewportTitleStyle.Render(" " + a.previewTitle + " ")
	line := strings.Repeat("─", max(0, w-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, mutedStyle.Render(line))

	if a.previewLoading {
		return header + "\n\n" + a.spinner.View() + " Loading description..."
	}

	pct := fmt.Sprintf(" %3.0f%% ", a.previewViewport.ScrollPercent()*100)
	footer := previewPctStyle.Render(pct)

	return header + "\n\n" + a.previewViewport.View() + "\n\n" + footer
}

func (a App) renderApplying() string {
	verb := "Installing"
	if a.op == core.OpReconcile {
		verb = "Updating"
	}
	return fmt.Sprintf("%s %s %s... (%s)", a.spinner.View(), verb, a.kind.Plural(), a.phase)
}

func (a App) renderSummary() string {
	var b strings.Builder

	if a.applyErr != nil {
		b.WriteString(errorStyle.Render("✗ Failed"))
		b.WriteString("\n\n")
		b.WriteString("  " + errorStyle.Render(a.applyErr.Error()))
		for _, hint := range core.GitErrorHints(a.applyErr) {
			b.WriteString("\n  " + mutedStyle.Render("• "+hint))
		}
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("  Press enter to exit"))
		return b.String()
	}

	verb := "Installed"
	if a.op == core.OpReconcile {
		verb = "Updated"
	}
	b.WriteString(installedStyle.Render(fmt.Sprintf("✓ %s %s at %s", verb, a.kind.Plural(), a.target.Path)))
	b.WriteString("\n\n")

	writeGroup := func(label string, ids []string, style lipgloss.Style) {
		if len(ids) == 0 {
			return
		}
		b.WriteString(fmt.Sprintf("  %s (%d)\n", style.Render(label), len(ids)))
		for _, id := range ids {
			b.WriteString("    " + normalItemStyle.Render(id) + "\n")
		}
		b.WriteString("\n")
	}
	if a.diff.Empty() {
		b.WriteString(mutedStyle.Render("  Nothing selected changed; upstream updates were pulled.") + "\n\n")
	}
	writeGroup("Added", a.diff.Added, installedStyle)
	writeGroup("Removed", a.diff.Removed, errorStyle)
	writeGroup("Kept", a.diff.Unchanged, mutedStyle)

	if a.askIgnore {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  Add %s to .gitignore? [y/n]", a.ignoreEntry)))
		return b.String()
	}
	if a.ignoreNote != "" {
		b.WriteString("  " + a.ignoreNote + "\n\n")
	}
	b.WriteString(mutedStyle.Render("  Press enter to exit"))
	return b.String()
}

// innerContentSize computes the text content area available inside
// contentStyle after border and padding are removed.
func (a App) innerContentSize() (width, height int) {
	header := a.renderHeader()
	helpBar := a.renderHelpBar()

	separators := 2
	chromeH := lipgloss.Height(header) + lipgloss.Height(helpBar) + separators

	frameV := contentStyle.GetVerticalFrameSize()
	frameH := contentStyle.GetHorizontalFrameSize()

	return max(0, a.width-frameH), max(0, a.height-chromeH-frameV)
}

func pathIsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// clampHeight truncates content to at most maxLines lines so an
// oversized view cannot push the chrome off-screen.
func clampHeight(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// clampWidth truncates each line to at most maxWidth visible
// characters (ANSI-escape aware) to stop lipgloss from wrapping long
// lines inside a Width()-constrained box.
func clampWidth(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > maxWidth {
			lines[i] = ansi.Truncate(line, maxWidth, "")
		}
	}
	return strings.Join(lines, "\n")
}
