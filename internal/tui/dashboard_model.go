package tui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/nutriscan/internal/nutrition"
	"github.com/rshade/nutriscan/internal/report"
)

// SortField selects the dashboard row order.
type SortField int

// Sort fields, cycled with 's'.
const (
	SortByName SortField = iota
	SortByCalories
	SortByBalance
	numSortFields = 3
)

// DashboardModel is the Bubble Tea model for the household dashboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type DashboardModel struct {
	state   ViewState
	allRows []report.PetReport // source of truth
	rows    []report.PetReport // filtered and sorted

	table     table.Model
	textInput textinput.Model
	selected  int

	width      int
	height     int
	sortBy     SortField
	showFilter bool

	err error
}

// NewDashboardModel creates a dashboard over reports, sorted by name.
func NewDashboardModel(reports []report.PetReport) DashboardModel {
	m := DashboardModel{
		state:     ViewStateList,
		allRows:   reports,
		width:     defaultWidth,
		height:    defaultHeight,
		sortBy:    SortByName,
		textInput: newTextInput(),
	}
	if len(reports) == 0 {
		m.state = ViewStateError
		m.err = report.ErrNoPets
	}
	m.applyFilter("")
	return m
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "pet name or species"
	ti.CharLimit = 64
	return ti
}

// Init initializes the model (Bubble Tea interface).
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateError:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && isQuitKey(keyMsg) {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func isQuitKey(k tea.KeyMsg) bool {
	s := k.String()
	return s == keyQuit || s == keyCtrlC
}

func (m DashboardModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m DashboardModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyS:
		m.sortBy = (m.sortBy + 1) % numSortFields
		m.refreshTable()
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

// handleDetailUpdate returns to the list on esc or enter.
func (m DashboardModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyEnter:
			m.state = ViewStateList
			m.table.Focus()
			return m, nil
		}
	}
	return m, nil
}

// applyFilter keeps rows whose pet name or species contains filterText.
func (m *DashboardModel) applyFilter(filterText string) {
	query := strings.ToLower(strings.TrimSpace(filterText))
	if query == "" {
		m.rows = append([]report.PetReport(nil), m.allRows...)
	} else {
		m.rows = m.rows[:0:0]
		for _, r := range m.allRows {
			if strings.Contains(strings.ToLower(r.Pet.Name), query) ||
				strings.Contains(string(r.Pet.Species), query) {
				m.rows = append(m.rows, r)
			}
		}
	}
	m.refreshTable()
}

// refreshTable re-sorts and rebuilds the table.
func (m *DashboardModel) refreshTable() {
	switch m.sortBy {
	case SortByName:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return strings.ToLower(m.rows[i].Pet.Name) < strings.ToLower(m.rows[j].Pet.Name)
		})
	case SortByCalories:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].Requirements.DailyCalories > m.rows[j].Requirements.DailyCalories
		})
	case SortByBalance:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return balanceRank(m.rows[i].Breakdown) > balanceRank(m.rows[j].Breakdown)
		})
	}
	m.rebuildTable()
}

// balanceRank orders breakdowns worst first when sorted descending.
// Insufficient data ranks below every computed status.
func balanceRank(b nutrition.NutritionalBreakdown) int {
	if b.Summary == nil {
		return 0
	}
	switch b.Summary.Status {
	case nutrition.BalanceCritical:
		return 4
	case nutrition.BalanceNeedsAttention:
		return 3
	case nutrition.BalanceGood:
		return 2
	default:
		return 1
	}
}

func (m *DashboardModel) rebuildTable() {
	m.table = m.buildTable()
}

func (m *DashboardModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Pet", Width: 16},     //nolint:mnd // Column width.
		{Title: "Species", Width: 7},  //nolint:mnd // Column width.
		{Title: "Stage", Width: 9},    //nolint:mnd // Column width.
		{Title: "Target", Width: 11},  //nolint:mnd // Column width.
		{Title: "Intake", Width: 11},  //nolint:mnd // Column width.
		{Title: "Balance", Width: 17}, //nolint:mnd // Column width.
		{Title: "Driver", Width: 14},  //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		intake := "-"
		if r.Intake.DaysWithRecords > 0 {
			intake = nutrition.FormatCalories(r.Intake.AvgDailyCalories)
		}
		balance := "insufficient data"
		driver := "-"
		if s := r.Breakdown.Summary; s != nil {
			balance = string(s.Status)
			driver = s.PrimaryDriver.Label() + " " + strconv.Itoa(int(s.PrimaryDriverPercentage+0.5)) + "%"
		}
		rows[i] = table.Row{
			r.Pet.Name,
			string(r.Pet.Species),
			string(r.Requirements.LifeStage),
			nutrition.FormatCalories(r.Requirements.DailyCalories),
			intake,
			balance,
			driver,
		}
	}

	availableHeight := max(m.height-summaryHeight-1, minHeight)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(availableHeight),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// State returns the current screen.
func (m DashboardModel) State() ViewState {
	return m.state
}

// Rows returns the filtered and sorted rows in display order.
func (m DashboardModel) Rows() []report.PetReport {
	return m.rows
}

// Selected returns the report shown in the detail view.
func (m DashboardModel) Selected() (report.PetReport, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return report.PetReport{}, false
	}
	return m.rows[m.selected], true
}
