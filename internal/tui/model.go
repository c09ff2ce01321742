// Package tui is the interactive review surface: a thin shim over the
// engine session that renders scan results and drives the selection
// reconciler from keystrokes.
package tui

import (
	"context"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
	"github.com/lakshaymaurya-felt/winsweep/internal/disk"
	"github.com/lakshaymaurya-felt/winsweep/internal/engine"
	"github.com/lakshaymaurya-felt/winsweep/internal/scan"
	"github.com/lakshaymaurya-felt/winsweep/internal/selection"
)

// itemListLimit caps drill-down listings; HasMore signals truncation.
const itemListLimit = 200

// ─── Modes ───────────────────────────────────────────────────────────────────

type mode int

const (
	modeScanning mode = iota
	modeCategories
	modeItems
	modeLarge
	modeConfirm
	modeCleaning
	modeDone
)

// ─── Messages ────────────────────────────────────────────────────────────────

type scanDoneMsg struct {
	vol  disk.VolumeInfo
	cats []scan.Category
	err  error
}

type itemsMsg struct {
	id    string
	items scan.CategoryItems
	err   error
}

type largeDoneMsg struct {
	items []scan.LargeItem
	err   error
}

type cleanDoneMsg struct {
	result clean.Result
	err    error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the cleanup review screen.
type Model struct {
	session *engine.Session
	sel     *selection.State
	spinner spinner.Model

	mode mode

	vol  disk.VolumeInfo
	cats []scan.Category

	catCursor int

	itemsFor   string
	itemsTitle string
	items      scan.CategoryItems
	itemCursor int

	large       []scan.LargeItem
	largeCursor int
	largeLoaded bool

	result clean.Result

	width    int
	height   int
	offset   int
	err      error
	quitting bool
}

// New creates the review model over an engine session.
func New(session *engine.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		session: session,
		spinner: sp,
		mode:    modeScanning,
		width:   80,
		height:  24,
	}
}

// Run launches the full-screen review TUI.
func Run(session *engine.Session) error {
	p := tea.NewProgram(New(session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ─── Commands ────────────────────────────────────────────────────────────────

func (m Model) scanCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		vol, err := session.DiskInfo()
		if err != nil {
			return scanDoneMsg{err: err}
		}
		cats, err := session.ScanCategories(context.Background())
		if err != nil {
			return scanDoneMsg{err: err}
		}
		// Descending size is a presentation choice; the engine returns
		// an unordered set.
		sort.SliceStable(cats, func(i, j int) bool {
			return cats[i].SizeBytes > cats[j].SizeBytes
		})
		return scanDoneMsg{vol: vol, cats: cats}
	}
}

func (m Model) itemsCmd(id string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		items, err := session.ListCategoryItems(context.Background(), id, itemListLimit)
		return itemsMsg{id: id, items: items, err: err}
	}
}

func (m Model) largeCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		items, err := session.ScanLargeItems(context.Background(), scan.LargeScanOptions{})
		return largeDoneMsg{items: items, err: err}
	}
}

func (m Model) cleanCmd() tea.Cmd {
	session := m.session
	ids := m.sel.SelectedCategoryIDs()
	excluded := m.sel.ExcludedPaths()
	included := m.sel.IncludedPaths()
	standalone := m.sel.StandalonePaths()
	return func() tea.Msg {
		var total clean.Result
		if len(ids) > 0 || len(included) > 0 {
			res, err := session.CleanCategories(context.Background(), ids, excluded, included)
			if err != nil {
				return cleanDoneMsg{err: err}
			}
			total.DeletedBytes += res.DeletedBytes
			total.DeletedCount += res.DeletedCount
			total.Failed = append(total.Failed, res.Failed...)
		}
		if len(standalone) > 0 {
			res, err := session.CleanLargeItems(context.Background(), standalone)
			if err != nil {
				return cleanDoneMsg{err: err}
			}
			total.DeletedBytes += res.DeletedBytes
			total.DeletedCount += res.DeletedCount
			total.Failed = append(total.Failed, res.Failed...)
		}
		return cleanDoneMsg{result: total}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.mode == modeScanning || m.mode == modeCleaning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case scanDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeCategories
			return m, nil
		}
		m.vol = msg.vol
		m.cats = msg.cats
		m.sel = selection.NewState(msg.cats)
		m.large = nil
		m.largeLoaded = false
		m.err = nil
		m.mode = modeCategories
		m.catCursor = 0
		m.offset = 0
		return m, nil

	case itemsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.itemsFor = msg.id
		m.items = msg.items
		m.itemCursor = 0
		m.offset = 0
		m.mode = modeItems
		return m, nil

	case largeDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeCategories
			return m, nil
		}
		m.large = msg.items
		m.largeLoaded = true
		m.largeCursor = 0
		m.offset = 0
		m.mode = modeLarge
		return m, nil

	case cleanDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = modeCategories
			return m, nil
		}
		m.result = msg.result
		m.mode = modeDone
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Key handling ────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case modeScanning, modeCleaning:
		// Walks finish on their own; only quit is honored.
		return m, nil

	case modeCategories:
		return m.handleCategoriesKey(key)

	case modeItems:
		return m.handleItemsKey(key)

	case modeLarge:
		return m.handleLargeKey(key)

	case modeConfirm:
		switch key {
		case "enter":
			m.mode = modeCleaning
			return m, tea.Batch(m.spinner.Tick, m.cleanCmd())
		default:
			m.mode = modeCategories
			return m, nil
		}

	case modeDone:
		switch key {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		default:
			m.mode = modeScanning
			return m, tea.Batch(m.spinner.Tick, m.scanCmd())
		}
	}

	return m, nil
}

func (m Model) handleCategoriesKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}

	case "down", "j":
		if m.catCursor < len(m.cats)-1 {
			m.catCursor++
		}

	case " ":
		if m.catCursor >= 0 && m.catCursor < len(m.cats) {
			m.sel.ToggleCategory(m.cats[m.catCursor].ID)
		}

	case "enter", "right", "l":
		if m.catCursor >= 0 && m.catCursor < len(m.cats) {
			cat := m.cats[m.catCursor]
			m.itemsTitle = cat.Title
			return m, m.itemsCmd(cat.ID)
		}

	case "L":
		if m.largeLoaded {
			m.mode = modeLarge
			m.largeCursor = 0
			m.offset = 0
			return m, nil
		}
		m.mode = modeScanning
		return m, tea.Batch(m.spinner.Tick, m.largeCmd())

	case "r":
		m.mode = modeScanning
		return m, tea.Batch(m.spinner.Tick, m.scanCmd())

	case "c":
		if m.sel != nil && m.sel.EntryCount() > 0 {
			m.mode = modeConfirm
		}
	}
	return m, nil
}

func (m Model) handleItemsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "left", "h", "q":
		m.mode = modeCategories
		m.offset = 0
		return m, nil

	case "up", "k":
		if m.itemCursor > 0 {
			m.itemCursor--
		}
		m.offset = scrollTo(m.itemCursor, m.offset, m.listRows())

	case "down", "j":
		if m.itemCursor < len(m.items.Items)-1 {
			m.itemCursor++
		}
		m.offset = scrollTo(m.itemCursor, m.offset, m.listRows())

	case " ":
		if m.itemCursor >= 0 && m.itemCursor < len(m.items.Items) {
			item := m.items.Items[m.itemCursor]
			checked := m.sel.IsSelected(m.itemsFor, item.Path)
			m.sel.ToggleItem(m.itemsFor, item.Path, item.SizeBytes, !checked)
		}

	case "o":
		if m.itemCursor >= 0 && m.itemCursor < len(m.items.Items) {
			_ = m.session.Reveal(m.items.Items[m.itemCursor].Path)
		}
	}
	return m, nil
}

func (m Model) handleLargeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "left", "h", "q":
		m.mode = modeCategories
		m.offset = 0
		return m, nil

	case "up", "k":
		if m.largeCursor > 0 {
			m.largeCursor--
		}
		m.offset = scrollTo(m.largeCursor, m.offset, m.listRows())

	case "down", "j":
		if m.largeCursor < len(m.large)-1 {
			m.largeCursor++
		}
		m.offset = scrollTo(m.largeCursor, m.offset, m.listRows())

	case " ":
		if m.largeCursor >= 0 && m.largeCursor < len(m.large) {
			item := m.large[m.largeCursor]
			// Items owned by a category follow that category's
			// include/exclude overrides; only true standalones get
			// their own toggle.
			checked := m.sel.IsSelected(item.CategoryID, item.Path)
			m.sel.ToggleItem(item.CategoryID, item.Path, item.SizeBytes, !checked)
		}

	case "o":
		if m.largeCursor >= 0 && m.largeCursor < len(m.large) {
			_ = m.session.Reveal(m.large[m.largeCursor].Path)
		}

	case "c":
		if m.sel != nil && m.sel.EntryCount() > 0 {
			m.mode = modeConfirm
		}
	}
	return m, nil
}
