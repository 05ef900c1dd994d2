package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskboard/internal/apiclient"
	"github.com/balkashynov/taskboard/internal/models"
	"github.com/balkashynov/taskboard/internal/validation"
)

const (
	fieldName = iota
	fieldDescription
	fieldDueDate
	fieldCategory
	fieldStatus
	fieldCount
)

type taskSavedMsg struct {
	err error
}

// FormModel is the create/edit screen. Create always produces an OPEN
// task; edit overwrites the full field set, with the status choices
// restricted to what the current status allows.
type FormModel struct {
	deps   Deps
	width  int
	height int

	isEdit bool
	taskID uint
	owner  string

	inputs [3]textinput.Model // name, description, due date
	focus  int

	categories []models.Category
	catIndex   int

	statusChoices []string
	statusIndex   int

	errs       map[string]string
	errMsg     string
	submitting bool
	spin       spinner.Model
}

// NewFormModel builds the form. A nil task means create; otherwise the
// fields are pre-filled from the task being edited.
func NewFormModel(deps Deps, task *models.Task, categories []models.Category) FormModel {
	var inputs [3]textinput.Model
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 48
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[fieldName].Placeholder = "Task name"
	inputs[fieldName].CharLimit = validation.MaxNameLen
	inputs[fieldName].Focus()

	inputs[fieldDescription].Placeholder = "Description"

	inputs[fieldDueDate].Placeholder = "dd/mm/yyyy"

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := FormModel{
		deps:       deps,
		owner:      deps.Session.Username(),
		inputs:     inputs,
		categories: categories,
		spin:       spin,
		errs:       make(map[string]string),
	}

	if task == nil {
		// New tasks always start OPEN; the status row is display only
		m.statusChoices = []string{models.StatusOpen}
		return m
	}

	m.isEdit = true
	m.taskID = task.ID
	m.owner = task.Owner
	m.inputs[fieldName].SetValue(task.Name)
	m.inputs[fieldDescription].SetValue(task.Description)
	m.inputs[fieldDueDate].SetValue(task.DueDate.Format("02/01/2006"))

	for i, c := range categories {
		if c.ID == task.CategoryID {
			m.catIndex = i
			break
		}
	}

	// A task that has left OPEN cannot be sent back
	if task.Status == models.StatusOpen {
		m.statusChoices = []string{models.StatusOpen, models.StatusInProgress, models.StatusClosed}
	} else {
		m.statusChoices = []string{models.StatusInProgress, models.StatusClosed}
	}
	for i, s := range m.statusChoices {
		if s == task.Status {
			m.statusIndex = i
			break
		}
	}

	return m
}

func (m *FormModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the cursor blink
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case taskSavedMsg:
		m.submitting = false
		if msg.err != nil {
			var verr *apiclient.ValidationError
			if errors.As(msg.err, &verr) {
				m.errs = verr.Fields
				return m, nil
			}
			m.errMsg = "Error saving task: " + msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return formClosedMsg{saved: true} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m FormModel) handleKeys(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		return m, func() tea.Msg { return formClosedMsg{saved: false} }

	case "ctrl+s":
		return m.submit()

	case "tab", "down":
		return m.moveFocus(1)

	case "shift+tab", "up":
		return m.moveFocus(-1)

	case "enter":
		if m.focus == fieldCount-1 {
			return m.submit()
		}
		return m.moveFocus(1)

	case "left":
		switch m.focus {
		case fieldCategory:
			if m.catIndex > 0 {
				m.catIndex--
			}
			return m, nil
		case fieldStatus:
			if m.statusIndex > 0 {
				m.statusIndex--
			}
			return m, nil
		}

	case "right":
		switch m.focus {
		case fieldCategory:
			if m.catIndex < len(m.categories)-1 {
				m.catIndex++
			}
			return m, nil
		case fieldStatus:
			if !m.isEdit {
				return m, nil
			}
			if m.statusIndex < len(m.statusChoices)-1 {
				m.statusIndex++
			}
			return m, nil
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m FormModel) moveFocus(delta int) (FormModel, tea.Cmd) {
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// submit validates locally first so the user gets field errors without a
// round trip, then sends the payload to the server.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	categoryID := ""
	if m.catIndex >= 0 && m.catIndex < len(m.categories) {
		categoryID = strconv.FormatUint(uint64(m.categories[m.catIndex].ID), 10)
	}

	_, errs := validation.ValidateTask(validation.TaskPayload{
		Name:        m.inputs[fieldName].Value(),
		Description: m.inputs[fieldDescription].Value(),
		DueDate:     m.inputs[fieldDueDate].Value(),
		Owner:       m.owner,
		CategoryID:  categoryID,
	})
	if errs != nil {
		m.errs = errs
		return m, nil
	}

	m.errs = make(map[string]string)
	m.errMsg = ""
	m.submitting = true

	payload := apiclient.TaskPayload{
		Name:        strings.TrimSpace(m.inputs[fieldName].Value()),
		Description: m.inputs[fieldDescription].Value(),
		DueDate:     m.inputs[fieldDueDate].Value(),
		Owner:       m.owner,
		CategoryID:  m.categories[m.catIndex].ID,
	}

	client := m.deps.Client
	if m.isEdit {
		payload.Status = m.statusChoices[m.statusIndex]
		id := m.taskID
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			_, err := client.UpdateTask(id, payload)
			return taskSavedMsg{err: err}
		})
	}

	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		_, err := client.CreateTask(payload)
		return taskSavedMsg{err: err}
	})
}

// View renders the form
func (m FormModel) View() string {
	var b strings.Builder

	title := "New Task"
	if m.isEdit {
		title = fmt.Sprintf("Edit Task #%d", m.taskID)
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	labels := []string{"Name:", "Description:", "Due date:"}
	errKeys := []string{"name", "description", "duedate"}
	for i := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := m.errs[errKeys[i]]; ok {
			b.WriteString(errStyle.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Category:"))
	b.WriteString("\n")
	b.WriteString(m.renderChooser(m.categoryName(), m.focus == fieldCategory))
	b.WriteString("\n")
	if msg, ok := m.errs["categoryId"]; ok {
		b.WriteString(errStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Status:"))
	b.WriteString("\n")
	b.WriteString(m.renderChooser(m.statusChoices[m.statusIndex], m.focus == fieldStatus && m.isEdit))
	b.WriteString("\n\n")

	if msg, ok := m.errs["owner"]; ok {
		b.WriteString(errStyle.Render(msg))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(m.spin.View())
		b.WriteString(labelStyle.Render(" saving..."))
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("ctrl+s save · tab next field · ←/→ choose · esc cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

func (m FormModel) categoryName() string {
	if m.catIndex >= 0 && m.catIndex < len(m.categories) {
		return m.categories[m.catIndex].Name
	}
	return "No Category"
}

func (m FormModel) renderChooser(value string, active bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if active {
		style = style.Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
		return style.Render("< " + value + " >")
	}
	return style.Render("  " + value)
}
