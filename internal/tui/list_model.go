package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/balkashynov/taskboard/internal/models"
	"github.com/balkashynov/taskboard/internal/taskview"
	"github.com/balkashynov/taskboard/internal/validation"
)

// Sortable columns in table order; number keys 1-7 toggle them
var sortColumns = []taskview.SortKey{
	taskview.SortID,
	taskview.SortCategory,
	taskview.SortName,
	taskview.SortDescription,
	taskview.SortDueDate,
	taskview.SortStatus,
	taskview.SortOwner,
}

var columnTitles = []string{"ID", "CATEGORY", "NAME", "DESCRIPTION", "DUE", "STATUS", "OWNER"}

type (
	tasksLoadedMsg struct {
		tasks []models.Task
		err   error
	}
	categoriesLoadedMsg struct {
		categories []models.Category
		err        error
	}
	statusChangedMsg struct{ err error }
	categorySavedMsg struct{ err error }
)

// ListModel is the task table screen: the raw list fetched from the
// server plus the filter/sort configuration, with the visible rows
// recomputed whenever either changes.
type ListModel struct {
	deps   Deps
	width  int
	height int

	tasks   []models.Task // raw list, never mutated by the view pipeline
	view    []models.Task // derived rows
	options taskview.Options

	filter  taskview.Filter
	sortCfg taskview.Sort

	categories []models.Category
	username   string

	cursor    int
	loading   bool
	spin      spinner.Model
	errMsg    string
	searching bool
	search    textinput.Model
	addingCat bool
	catInput  textinput.Model
}

// NewListModel creates the task table screen
func NewListModel(deps Deps) ListModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	search := textinput.New()
	search.Placeholder = "Search name or description..."
	search.Width = 40
	search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	catInput := textinput.New()
	catInput.Placeholder = "New category name"
	catInput.Width = 24
	catInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	catInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	return ListModel{
		deps:     deps,
		username: deps.Session.Username(),
		loading:  true,
		spin:     spin,
		search:   search,
		catInput: catInput,
	}
}

func (m *ListModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// Init kicks off the initial load
func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.reload(), m.loadCategories())
}

// reload fetches the raw task list from the server
func (m ListModel) reload() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		tasks, err := client.ListTasks()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m ListModel) loadCategories() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		categories, err := client.ListCategories()
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// createCategory submits a new category to the server
func (m ListModel) createCategory(name string) tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		_, err := client.CreateCategory(name)
		return categorySavedMsg{err: err}
	}
}

// changeStatus issues a status-only update for the selected task
func (m ListModel) changeStatus(id uint, status string) tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		_, err := client.UpdateTaskStatus(id, status)
		return statusChangedMsg{err: err}
	}
}

// recompute re-runs the filter/sort pipeline over the raw list
func (m *ListModel) recompute() {
	m.view = taskview.Apply(m.tasks, m.filter, m.sortCfg)
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the task under the cursor
func (m ListModel) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return models.Task{}, false
	}
	return m.view[m.cursor], true
}

// canModify reports whether the row's edit/close/delete actions are
// enabled: the viewer must own the task and the task must not be CLOSED.
func (m ListModel) canModify(t models.Task) bool {
	return t.Owner == m.username && t.Status != models.StatusClosed
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = "Error fetching tasks: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.tasks = msg.tasks
		// Dropdown options always derive from the raw list, independent
		// of whatever filters are active
		m.options = taskview.FilterOptions(m.tasks)
		m.recompute()
		return m, nil

	case categoriesLoadedMsg:
		if msg.err == nil {
			m.categories = msg.categories
		}
		return m, nil

	case statusChangedMsg:
		if msg.err != nil {
			m.errMsg = "Error updating task: " + msg.err.Error()
			m.loading = false
			return m, nil
		}
		return m, m.reload()

	case categorySavedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = "Error creating category: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.loadCategories()

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		if m.addingCat {
			return m.handleCategoryKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

// handleSearchKeys routes input while the search field has focus. The
// filter is live: every keystroke recomputes the view.
func (m ListModel) handleSearchKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.recompute()
		return m, nil

	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	m.recompute()
	return m, cmd
}

// handleCategoryKeys routes input while the category name field has
// focus. The name is checked locally before going to the server.
func (m ListModel) handleCategoryKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.addingCat = false
		m.catInput.Blur()
		m.catInput.SetValue("")
		m.errMsg = ""
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.catInput.Value())
		if errs := validation.ValidateCategory(name); errs != nil {
			m.errMsg = errs["name"]
			return m, nil
		}
		m.addingCat = false
		m.catInput.Blur()
		m.catInput.SetValue("")
		m.errMsg = ""
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.createCategory(name))
	}

	var cmd tea.Cmd
	m.catInput, cmd = m.catInput.Update(msg)
	return m, cmd
}

func (m ListModel) handleKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	key := msg.String()

	// Number keys toggle the sort column: same column ascending flips to
	// descending, anything else resets to ascending on that column.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '7' {
		m.sortCfg = taskview.Toggle(m.sortCfg, sortColumns[key[0]-'1'])
		m.recompute()
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.view)-1 {
			m.cursor++
		}
		return m, nil

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "c":
		m.filter.Category = cycleOption(m.filter.Category, m.options.Categories)
		m.recompute()
		return m, nil

	case "s":
		m.filter.Status = cycleOption(m.filter.Status, m.options.Statuses)
		m.recompute()
		return m, nil

	case "o":
		m.filter.Owner = cycleOption(m.filter.Owner, m.options.Owners)
		m.recompute()
		return m, nil

	case "x":
		m.filter = taskview.Filter{}
		m.search.SetValue("")
		m.sortCfg = taskview.Sort{}
		m.recompute()
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.reload(), m.loadCategories())

	case "C":
		m.addingCat = true
		m.errMsg = ""
		m.catInput.Focus()
		return m, textinput.Blink

	case "n":
		categories := m.categories
		return m, func() tea.Msg {
			return openFormMsg{task: nil, categories: categories}
		}

	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.canModify(task) {
			m.errMsg = "You can only edit your own open tasks."
			return m, nil
		}
		m.errMsg = ""
		categories := m.categories
		return m, func() tea.Msg {
			return openFormMsg{task: &task, categories: categories}
		}

	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.canModify(task) {
			m.errMsg = "You can only close your own open tasks."
			return m, nil
		}
		m.errMsg = ""
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.changeStatus(task.ID, models.StatusClosed))

	case "D":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.canModify(task) {
			m.errMsg = "You can only delete your own open tasks."
			return m, nil
		}
		m.errMsg = ""
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.changeStatus(task.ID, models.StatusDeleted))

	case "L":
		m.deps.Gate.Logout()
		_ = m.deps.Session.SetUsername("")
		return m, func() tea.Msg { return logoutMsg{} }
	}

	return m, nil
}

// cycleOption steps through "" -> opts[0] -> ... -> opts[n-1] -> ""
func cycleOption(current string, opts []string) string {
	if len(opts) == 0 {
		return ""
	}
	if current == "" {
		return opts[0]
	}
	for i, o := range opts {
		if o == current {
			if i == len(opts)-1 {
				return ""
			}
			return opts[i+1]
		}
	}
	return ""
}

// View renders the task table
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render("Your Tasks"))

	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	b.WriteString(userStyle.Render(fmt.Sprintf("  —  logged in as %s", m.username)))
	b.WriteString("\n\n")

	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(" loading..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	switch {
	case m.searching:
		b.WriteString("Search: ")
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case m.addingCat:
		b.WriteString("Category: ")
		b.WriteString(m.catInput.View())
		b.WriteString("\n")
	default:
		helpStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Italic(true)
		b.WriteString(helpStyle.Render("↑/↓ nav · 1-7 sort · / search · c/s/o filter · x clear · n new · C category · e edit · d close · D delete · r refresh · L logout · q quit"))
	}

	return b.String()
}

// renderFilterLine shows the active filter and sort configuration
func (m ListModel) renderFilterLine() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	var parts []string
	if m.filter.Category != "" {
		parts = append(parts, "category="+m.filter.Category)
	}
	if m.filter.Status != "" {
		parts = append(parts, "status="+m.filter.Status)
	}
	if m.filter.Owner != "" {
		parts = append(parts, "owner="+m.filter.Owner)
	}
	if m.filter.Search != "" {
		parts = append(parts, "search="+m.filter.Search)
	}
	if m.filter.IsZero() {
		parts = append(parts, "no filter")
	}

	line := "Filter: " + strings.Join(parts, " · ")
	line += fmt.Sprintf("   (%d of %d tasks)", len(m.view), len(m.tasks))
	return style.Render(line)
}

// renderTable renders the column headers and visible rows
func (m ListModel) renderTable() string {
	var b strings.Builder

	// Column widths; name and description flex with the terminal
	idW, catW, dueW, statusW, ownerW := 4, 14, 10, 12, 12
	flex := m.width - idW - catW - dueW - statusW - ownerW - 12
	nameW := flex / 2
	descW := flex - nameW
	if nameW < 10 {
		nameW = 10
	}
	if descW < 10 {
		descW = 10
	}

	widths := []int{idW, catW, nameW, descW, dueW, statusW, ownerW}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	var headers []string
	for i, title := range columnTitles {
		label := fmt.Sprintf("%d:%s", i+1, title)
		if m.sortCfg.Key == sortColumns[i] {
			if m.sortCfg.Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers = append(headers, pad(label, widths[i]))
	}
	b.WriteString(headerStyle.Render(strings.Join(headers, " ")))
	b.WriteString("\n")

	if len(m.view) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks found"))
		return b.String()
	}

	for i, task := range m.view {
		cells := []string{
			pad(fmt.Sprintf("#%d", task.ID), idW),
			pad(task.CategoryName(), catW),
			pad(task.Name, nameW),
			pad(task.Description, descW),
			pad(task.DueDate.Format("02/01/2006"), dueW),
			pad(task.Status, statusW),
			pad(task.Owner, ownerW),
		}
		row := strings.Join(cells, " ")

		style := lipgloss.NewStyle()
		switch {
		case i == m.cursor:
			style = style.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
		case task.Status == models.StatusClosed:
			// Closed rows read as done, like the green rows in a web table
			style = style.Foreground(lipgloss.Color(ColorSuccess)).Italic(true)
		case task.Status == models.StatusDeleted:
			style = style.Foreground(lipgloss.Color(ColorError)).Strikethrough(true)
		case dueSoon(task.DueDate):
			style = style.Foreground(lipgloss.Color(ColorWarning))
		case !m.canModify(task):
			style = style.Foreground(lipgloss.Color(ColorDisabledText))
		default:
			style = style.Foreground(lipgloss.Color(ColorPrimaryText))
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + style.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

// dueSoon reports whether a due date falls within the next two days
func dueSoon(due time.Time) bool {
	return due.Before(time.Now().AddDate(0, 0, 2))
}

// pad truncates or right-pads a cell to the column width, measuring in
// display cells so multibyte names keep the columns aligned
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
