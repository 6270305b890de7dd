package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RecordTab ViewState = iota
	ArtistTab
	GenreTab
	StoreTab
	ReportTab
	DetailView
	ConfirmDeleteView
)

// tabCount is the number of browsable tabs.
const tabCount = 5

var tabNames = [tabCount]string{"Records", "Artists", "Genres", "Stores", "Report"}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	catalog  services.Catalog
	view     ViewState
	tab      ViewState
	width    int
	height   int
	lists    [tabCount]list.Model
	loaded   [tabCount]bool
	report   *models.Report
	selected *models.RecordView
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model browsing the given catalog.
func NewModel(ctx context.Context, catalog services.Catalog) *Model {
	return &Model{
		ctx:     ctx,
		catalog: catalog,
		view:    RecordTab,
		tab:     RecordTab,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the four collections and the
// unfiltered report.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchRecords(), m.fetchArtists(), m.fetchGenres(), m.fetchStores(), m.fetchReport())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleTabKeys(msg)
		}

	case recordsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.records))
		for i, view := range msg.records {
			items[i] = recordItem{view: view}
		}
		m.setTabItems(RecordTab, items)
		return m, nil

	case artistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.artists))
		for i, artist := range msg.artists {
			items[i] = artistItem{artist: artist}
		}
		m.setTabItems(ArtistTab, items)
		return m, nil

	case genresLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.genres))
		for i, genre := range msg.genres {
			items[i] = genreItem{genre: genre}
		}
		m.setTabItems(GenreTab, items)
		return m, nil

	case storesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.stores))
		for i, store := range msg.stores {
			items[i] = storeItem{store: store}
		}
		m.setTabItems(StoreTab, items)
		return m, nil

	case reportLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		m.loaded[ReportTab] = true
		return m, nil

	case recordDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = m.tab
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted record #%d", msg.id)
		m.selected = nil
		m.view = RecordTab
		m.tab = RecordTab
		return m, tea.Batch(m.fetchRecords(), m.fetchArtists(), m.fetchReport())
	}

	return m.updateActiveList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to refresh, q to quit", m.err))
	}

	switch m.view {
	case DetailView:
		return m.renderDetail()
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return m.renderTab()
	}
}

func (m *Model) setTabItems(tab ViewState, items []list.Item) {
	if !m.loaded[tab] {
		m.lists[tab] = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.lists[tab].Title = tabNames[tab]
		m.lists[tab].SetSize(m.width-4, m.height-8)
		m.loaded[tab] = true
		return
	}
	m.lists[tab].SetItems(items)
}

func (m *Model) handleTabKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.view = m.tab
		m.status = ""
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.view = m.tab
		m.status = ""
		return m, nil
	case "r":
		m.err = nil
		m.status = ""
		return m, m.refreshTab()
	case "enter":
		if m.tab == RecordTab {
			if item, ok := m.lists[RecordTab].SelectedItem().(recordItem); ok {
				view := item.view
				m.selected = &view
				m.view = DetailView
			}
		}
		return m, nil
	case "d":
		if m.tab == RecordTab {
			if item, ok := m.lists[RecordTab].SelectedItem().(recordItem); ok {
				view := item.view
				m.selected = &view
				m.view = ConfirmDeleteView
			}
		}
		return m, nil
	}

	return m.updateActiveList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = m.tab
		m.selected = nil
		return m, nil
	case "d":
		m.view = ConfirmDeleteView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = m.tab
		return m, nil
	case "y":
		if m.selected != nil {
			return m, m.deleteRecord(m.selected.RecordID)
		}
		m.view = m.tab
		return m, nil
	}
	return m, nil
}

func (m *Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view >= tabCount || m.view == ReportTab || !m.loaded[m.view] {
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.view], cmd = m.lists[m.view].Update(msg)
	return m, cmd
}

func (m *Model) refreshTab() tea.Cmd {
	switch m.tab {
	case ArtistTab:
		return m.fetchArtists()
	case GenreTab:
		return m.fetchGenres()
	case StoreTab:
		return m.fetchStores()
	case ReportTab:
		return m.fetchReport()
	default:
		return m.fetchRecords()
	}
}

func (m *Model) fetchRecords() tea.Cmd {
	return func() tea.Msg {
		records, err := m.catalog.Records(m.ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

func (m *Model) fetchArtists() tea.Cmd {
	return func() tea.Msg {
		artists, err := m.catalog.Artists(m.ctx)
		return artistsLoadedMsg{artists: artists, err: err}
	}
}

func (m *Model) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.catalog.Genres(m.ctx)
		return genresLoadedMsg{genres: genres, err: err}
	}
}

func (m *Model) fetchStores() tea.Cmd {
	return func() tea.Msg {
		stores, err := m.catalog.Stores(m.ctx)
		return storesLoadedMsg{stores: stores, err: err}
	}
}

func (m *Model) fetchReport() tea.Cmd {
	return func() tea.Msg {
		report, err := m.catalog.Report(m.ctx, models.ReportPayload{})
		return reportLoadedMsg{report: report, err: err}
	}
}

func (m *Model) deleteRecord(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.catalog.DeleteRecord(m.ctx, id)
		return recordDeletedMsg{id: id, err: err}
	}
}

func (m *Model) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if ViewState(i) == m.tab {
			tabs = append(tabs, styles.activeTab.Render(name))
		} else {
			tabs = append(tabs, styles.tab.Render(name))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderTab() string {
	if !m.loaded[m.tab] {
		return fmt.Sprintf("%s\n\nLoading...", m.renderTabBar())
	}

	if m.tab == ReportTab {
		return m.renderReport()
	}

	helpKeys := []key.Binding{m.keys.nextTab, m.keys.enter, m.keys.refresh, m.keys.quit}
	if m.tab == RecordTab {
		helpKeys = []key.Binding{m.keys.nextTab, m.keys.enter, m.keys.delete, m.keys.refresh, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	var status string
	if m.status != "" {
		status = fmt.Sprintf("%s\n", styles.ok.Render(m.status))
	}

	return fmt.Sprintf("%s\n\n%s\n%s%s", m.renderTabBar(), m.lists[m.tab].View(), status, helpView)
}

func (m *Model) renderReport() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Collection Report"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Records: %d\n", m.report.Stats.Count))

	writeStat := func(label string, value *float64) {
		if value != nil {
			b.WriteString(fmt.Sprintf("%s: %.2f\n", label, *value))
		}
	}
	writeStat("Average price", m.report.Stats.AvgPrice)
	writeStat("Min price", m.report.Stats.MinPrice)
	writeStat("Max price", m.report.Stats.MaxPrice)
	if m.report.Stats.AvgYear != nil {
		b.WriteString(fmt.Sprintf("Average year: %.0f\n", *m.report.Stats.AvgYear))
	}

	if len(m.report.ByArtist) > 0 {
		b.WriteString("\nBy artist:\n")
		for _, stat := range m.report.ByArtist {
			name := "Unknown Artist"
			if stat.Name != nil {
				name = *stat.Name
			}
			line := fmt.Sprintf("  %s: %d", name, stat.Count)
			if stat.AvgPrice != nil {
				line += fmt.Sprintf(" (avg %.2f)", *stat.AvgPrice)
			}
			b.WriteString(line + "\n")
		}
	}

	helpKeys := []key.Binding{m.keys.nextTab, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n%s", m.renderTabBar(), b.String(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}

	title := styles.title.Render(m.selected.Title)

	var b strings.Builder
	writeField := func(label string, value *string) {
		if value != nil {
			b.WriteString(fmt.Sprintf("%s: %s\n", label, *value))
		}
	}

	writeField("Artist", m.selected.Artist)
	writeField("Genre", m.selected.Genre)
	if m.selected.Year != nil {
		b.WriteString(fmt.Sprintf("Year: %d\n", *m.selected.Year))
	}
	writeField("Condition", m.selected.Condition)
	if m.selected.Price != nil {
		b.WriteString(fmt.Sprintf("Price: %.2f\n", *m.selected.Price))
	}
	writeField("Purchased", m.selected.PurchaseDate)
	writeField("Stores", m.selected.Store)

	helpKeys := []key.Binding{m.keys.back, m.keys.delete, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}

	title := styles.warn.Render(fmt.Sprintf("Delete '%s'?", m.selected.Title))
	info := "\nThe record and its store links are removed. An artist with no\nremaining records is removed as well.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
