package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/wardrobe-go/internal/look"
	"github.com/raphaelgruber/wardrobe-go/internal/metrics"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
	"github.com/spf13/cobra"
)

const studioName = "studio"

var studioCmd = &cobra.Command{
	Use:   studioName,
	Short: "Interactive look builder",
	Long: `Open the interactive look builder.

Browse the catalog, assemble a look, pick target categories and ask the
service for suggestions or completions; results can be added straight
into the look. The look lives only for the session.

Logs go to WARDROBE_LOG_FILE while the studio is open.`,
	Args: cobra.NoArgs,
	RunE: runStudio,
}

// pane identifies a focusable list.
type pane int

const (
	paneCatalog pane = iota
	paneLook
	paneResults
	paneCount
)

// inputMode is the active prompt, if any.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeTarget
	modeForm
	modeConfirmDelete
)

// formFields are prompted in order by the manual garment form.
var formFields = []struct {
	label string
	set   func(*look.ManualForm, string)
}{
	{"nome*", func(f *look.ManualForm, v string) { f.Name = v }},
	{"categoria*", func(f *look.ManualForm, v string) { f.Category = v }},
	{"cor*", func(f *look.ManualForm, v string) { f.Color = v }},
	{"padrao", func(f *look.ManualForm, v string) { f.Pattern = v }},
	{"material", func(f *look.ManualForm, v string) { f.Material = v }},
	{"estilo", func(f *look.ManualForm, v string) { f.Style = v }},
	{"ocasion", func(f *look.ManualForm, v string) { f.Occasion = v }},
	{"clima", func(f *look.ManualForm, v string) { f.Climate = v }},
}

// resultEntry is one actionable line of the results pane.
type resultEntry struct {
	category string // set for completion results
	item     models.ScoredItem
	canAdd   bool
}

// Messages produced by service commands.
type (
	catalogMsg  struct{ err error }
	suggestMsg  struct{ err error }
	completeMsg struct{ err error }
	resolveMsg  struct {
		res look.Resolution
		err error
	}
	saveMsg struct {
		saved *models.Garment
		err   error
	}
	deleteMsg struct {
		name string
		err  error
	}
	rebuildMsg struct{ err error }
)

// studioModel is the bubbletea model of the look builder.
type studioModel struct {
	store *look.Store
	stats *metrics.Collector
	theme Theme

	focus  pane
	cursor [paneCount]int
	width  int

	mode          inputMode
	input         textinput.Model
	formStep      int
	form          look.ManualForm
	pendingDelete models.Garment

	notice    string
	noticeErr bool
	busy      int
}

func newStudioModel(store *look.Store, stats *metrics.Collector) studioModel {
	ti := textinput.New()
	ti.Prompt = "> "
	return studioModel{
		store: store,
		stats: stats,
		theme: defaultTheme,
		input: ti,
	}
}

// Init loads the catalog.
func (m studioModel) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages and returns the updated model.
func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeSearch || m.mode == modeTarget || m.mode == modeForm {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg.String())

	case catalogMsg:
		m.done()
		if msg.err != nil {
			m.setError(msg.err)
		}
		m.clampCursors()
		return m, nil

	case suggestMsg:
		m.done()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.cursor[paneResults] = 0
		m.setNotice(fmt.Sprintf("%d suggestions", len(m.resultEntries())))
		return m, nil

	case completeMsg:
		m.done()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.cursor[paneResults] = 0
		m.setNotice("look completion ready")
		return m, nil

	case resolveMsg:
		m.done()
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.res.Added:
			m.setNotice("added " + msg.res.Garment.Name)
		default:
			m.setNotice(msg.res.Garment.Name + " is already in the look")
		}
		return m, nil

	case saveMsg:
		m.done()
		if msg.saved == nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setNotice("saved " + msg.saved.Name)
		if msg.err != nil {
			m.setError(msg.err)
		}
		m.clampCursors()
		return m, nil

	case deleteMsg:
		m.done()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setNotice("deleted " + msg.name)
		m.clampCursors()
		return m, nil

	case rebuildMsg:
		m.done()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setNotice("graph rebuilt")
		return m, nil
	}

	return m, nil
}

// handleKey handles a key while browsing (or confirming a delete).
func (m studioModel) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirmDelete {
		g := m.pendingDelete
		m.mode = modeBrowse
		m.pendingDelete = models.Garment{}
		if key != "y" {
			m.setNotice("delete cancelled")
			return m, nil
		}
		cmd := m.deleteCmd(g)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % paneCount
	case "shift+tab":
		m.focus = (m.focus + paneCount - 1) % paneCount
	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case "down", "j":
		if m.cursor[m.focus] < m.paneLen(m.focus)-1 {
			m.cursor[m.focus]++
		}
	case "enter", "a":
		return m.activate()
	case "x":
		if m.focus == paneLook {
			if g, ok := m.selectedLook(); ok {
				m.store.RemoveFromLook(g)
				m.clampCursors()
				m.setNotice("removed " + g.Name)
			}
		}
	case "d":
		if m.focus == paneCatalog {
			if g, ok := m.selectedCatalog(); ok {
				if !g.HasID() {
					m.setError(look.ErrNotPersisted)
					return m, nil
				}
				m.pendingDelete = g
				m.mode = modeConfirmDelete
			}
		}
	case "/":
		return m.startInput(modeSearch, "buscar no guarda-roupa...", m.store.Query())
	case "t":
		return m.startInput(modeTarget, "target (prefix - to remove)", "")
	case "n":
		m.form = look.ManualForm{}
		m.formStep = 0
		return m.startInput(modeForm, formFields[0].label, "")
	case "s":
		if m.store.Loading() {
			return m, nil
		}
		cmd := m.suggestCmd()
		return m, cmd
	case "c":
		if m.store.Loading() {
			return m, nil
		}
		cmd := m.completeCmd()
		return m, cmd
	case "r":
		cmd := m.rebuildCmd()
		return m, cmd
	case "R":
		cmd := m.refreshCmd()
		return m, cmd
	case "C":
		m.store.ClearLook()
		m.clampCursors()
		m.setNotice("look cleared")
	case "+", "=":
		m.store.AdjustThreshold(look.ThresholdStep)
	case "-":
		m.store.AdjustThreshold(-look.ThresholdStep)
	}
	return m, nil
}

// activate runs the primary action of the focused pane.
func (m studioModel) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneCatalog:
		if g, ok := m.selectedCatalog(); ok {
			if m.store.AddToLook(g) {
				m.setNotice("added " + g.Name)
			} else if !models.IsValid(g) {
				m.setError(look.ErrInvalidGarment)
			} else {
				m.setNotice(g.Name + " is already in the look")
			}
		}
	case paneLook:
		if g, ok := m.selectedLook(); ok {
			m.store.RemoveFromLook(g)
			m.clampCursors()
			m.setNotice("removed " + g.Name)
		}
	case paneResults:
		entries := m.resultEntries()
		if i := m.cursor[paneResults]; i < len(entries) {
			if !entries[i].canAdd {
				m.setNotice("this candidate cannot be added")
				return m, nil
			}
			cmd := m.resolveCmd(entries[i].item)
			return m, cmd
		}
	}
	return m, nil
}

// startInput opens a prompt.
func (m studioModel) startInput(mode inputMode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	cmd := m.input.Focus()
	return m, cmd
}

func (m *studioModel) stopInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

// handleInputKey feeds a key to the active prompt.
func (m studioModel) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		m.setNotice("cancelled")
		return m, nil
	case "enter":
		return m.submitInput(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput applies the value of the active prompt.
func (m studioModel) submitInput(value string) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		m.stopInput()
		cmd := m.searchCmd(value)
		return m, cmd

	case modeTarget:
		m.stopInput()
		if rest, ok := strings.CutPrefix(strings.TrimSpace(value), "-"); ok {
			m.store.RemoveTarget(rest)
			return m, nil
		}
		if _, err := m.store.AddTarget(value); err != nil {
			m.setError(err)
		}
		return m, nil

	case modeForm:
		formFields[m.formStep].set(&m.form, value)
		m.formStep++
		if m.formStep < len(formFields) {
			m.input.Placeholder = formFields[m.formStep].label
			m.input.SetValue("")
			return m, nil
		}
		m.stopInput()
		cmd := m.saveCmd(m.form)
		return m, cmd
	}
	return m, nil
}

// done marks one service command as finished.
func (m *studioModel) done() {
	if m.busy > 0 {
		m.busy--
	}
}

func (m *studioModel) setNotice(s string) {
	m.notice = s
	m.noticeErr = false
}

func (m *studioModel) setError(err error) {
	m.notice = err.Error()
	m.noticeErr = true
}

// =============================================================================
// SELECTION
// =============================================================================

func (m studioModel) paneLen(p pane) int {
	switch p {
	case paneCatalog:
		return len(m.store.Catalog())
	case paneLook:
		return len(m.store.Look())
	default:
		return len(m.resultEntries())
	}
}

func (m *studioModel) clampCursors() {
	for p := pane(0); p < paneCount; p++ {
		n := m.paneLen(p)
		if m.cursor[p] >= n {
			m.cursor[p] = max(n-1, 0)
		}
	}
}

func (m studioModel) selectedCatalog() (models.Garment, bool) {
	items := m.store.Catalog()
	if i := m.cursor[paneCatalog]; i < len(items) {
		return items[i], true
	}
	return models.Garment{}, false
}

func (m studioModel) selectedLook() (models.Garment, bool) {
	items := m.store.Look()
	if i := m.cursor[paneLook]; i < len(items) {
		return items[i], true
	}
	return models.Garment{}, false
}

// resultEntries flattens the current result block into selectable lines.
func (m studioModel) resultEntries() []resultEntry {
	block := m.store.Results()
	if block == nil {
		return nil
	}
	var entries []resultEntry
	switch block.Kind {
	case models.ResultSuggest:
		for _, item := range block.Suggestions {
			entries = append(entries, resultEntry{item: item, canAdd: true})
		}
	case models.ResultComplete:
		if block.Completion == nil {
			return nil
		}
		for _, cat := range block.Completion.Categories() {
			best, ok := block.Completion.Best(cat)
			if !ok {
				continue
			}
			entries = append(entries, resultEntry{
				category: cat,
				item:     best,
				canAdd:   m.store.CanAddCompletion(cat, best),
			})
		}
	}
	return entries
}

// =============================================================================
// SERVICE COMMANDS
// =============================================================================
// Each command runs on its own goroutine; the store applies whichever
// response arrives last.

func (m *studioModel) refreshCmd() tea.Cmd {
	m.busy++
	store := m.store
	return func() tea.Msg {
		return catalogMsg{err: store.RefreshCatalog(context.Background())}
	}
}

func (m *studioModel) searchCmd(query string) tea.Cmd {
	m.busy++
	store := m.store
	return func() tea.Msg {
		return catalogMsg{err: store.Search(context.Background(), query)}
	}
}

func (m *studioModel) suggestCmd() tea.Cmd {
	if len(m.store.Look()) == 0 {
		m.setError(look.ErrEmptyLook)
		return nil
	}
	m.busy++
	store := m.store
	return func() tea.Msg {
		_, err := store.Suggest(context.Background())
		return suggestMsg{err: err}
	}
}

func (m *studioModel) completeCmd() tea.Cmd {
	if len(m.store.Look()) == 0 {
		m.setError(look.ErrEmptyLook)
		return nil
	}
	if len(m.store.Targets()) == 0 {
		m.setError(look.ErrNoTargets)
		return nil
	}
	m.busy++
	store := m.store
	return func() tea.Msg {
		_, err := store.Complete(context.Background())
		return completeMsg{err: err}
	}
}

func (m *studioModel) resolveCmd(item models.ScoredItem) tea.Cmd {
	m.busy++
	store := m.store
	return func() tea.Msg {
		res, err := store.AddFromResult(context.Background(), item)
		return resolveMsg{res: res, err: err}
	}
}

func (m *studioModel) saveCmd(form look.ManualForm) tea.Cmd {
	if missing := form.Missing(); len(missing) > 0 {
		m.setError(fmt.Errorf("%w: missing %s", look.ErrMissingFields, strings.Join(missing, ", ")))
		return nil
	}
	m.busy++
	store := m.store
	return func() tea.Msg {
		store.SetForm(form)
		saved, err := store.SaveManual(context.Background())
		return saveMsg{saved: saved, err: err}
	}
}

func (m *studioModel) deleteCmd(g models.Garment) tea.Cmd {
	m.busy++
	store := m.store
	return func() tea.Msg {
		// Confirmation already happened in the prompt.
		err := store.DeleteFromCatalog(context.Background(), g, func(models.Garment) bool { return true })
		return deleteMsg{name: g.Name, err: err}
	}
}

func (m *studioModel) rebuildCmd() tea.Cmd {
	m.busy++
	store := m.store
	return func() tea.Msg {
		_, err := store.RebuildGraph(context.Background())
		return rebuildMsg{err: err}
	}
}

// RunStudio runs the interactive look builder until the user quits.
func RunStudio(store *look.Store, stats *metrics.Collector) error {
	p := tea.NewProgram(newStudioModel(store, stats))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("studio UI error: %w", err)
	}
	return nil
}

func runStudio(cmd *cobra.Command, args []string) error {
	err := RunStudio(newStore(), stats)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
