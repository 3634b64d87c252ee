// Package ui implements the terminal interface: a single scrolling task list
// with live search, inline add/edit, completion toggling and delete
// confirmation. All state mutations go through the presenter; the view only
// renders what the presenter currently holds.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acrane/todo/internal/models"
	"github.com/acrane/todo/internal/presenter"
	"github.com/acrane/todo/internal/ui/keys"
	"github.com/acrane/todo/internal/ui/styles"
)

// mode is the current input mode of the task list
type mode int

const (
	modeNormal mode = iota
	modeSearching
	modeAdding
	modeEditing
	modeConfirmDelete
)

// App is the root bubbletea model
type App struct {
	presenter *presenter.Presenter
	styles    *styles.Styles
	keys      keys.KeyMap

	width  int
	height int

	mode    mode
	cursor  int
	scrollY int

	searchInput textinput.Model
	addInput    textinput.Model
	editInput   textinput.Model
	editIndex   int

	count   int
	loaded  bool
	loadErr error
}

// NewApp creates the root model and registers it as the presenter's
// notification target.
func NewApp(p *presenter.Presenter) *App {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	add := textinput.New()
	add.Placeholder = "New task"
	add.CharLimit = 200

	edit := textinput.New()
	edit.Placeholder = "Task title"
	edit.CharLimit = 200

	a := &App{
		presenter:   p,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
		addInput:    add,
		editInput:   edit,
	}
	p.SetListener(a)
	return a
}

// TasksReplaced implements presenter.Listener.
func (a *App) TasksReplaced(tasks []models.Task) {
	a.count = len(tasks)
	a.cursor = 0
	a.scrollY = 0
}

// TasksChanged implements presenter.Listener.
func (a *App) TasksChanged(count int) {
	a.count = count
}

type tasksLoadedMsg struct{}

type loadFailedMsg struct{ err error }

func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		if err := a.presenter.Load(context.Background()); err != nil {
			return loadFailedMsg{err: err}
		}
		return tasksLoadedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(a.width)-8, 20, 60)
		a.searchInput.Width = inputWidth
		a.addInput.Width = inputWidth
		a.editInput.Width = inputWidth
		return a, nil

	case tasksLoadedMsg:
		a.loaded = true
		return a, nil

	case loadFailedMsg:
		a.loaded = true
		a.loadErr = msg.err
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case modeSearching:
			return a.updateSearching(msg)
		case modeAdding:
			return a.updateAdding(msg)
		case modeEditing:
			return a.updateEditing(msg)
		case modeConfirmDelete:
			return a.updateConfirmDelete(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := a.presenter.Current()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Back):
		if a.presenter.Searching() {
			a.presenter.ClearSearch()
			a.searchInput.SetValue("")
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
			a.ensureVisible()
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(tasks)-1 {
			a.cursor++
			a.ensureVisible()
		}
		return a, nil

	case key.Matches(msg, a.keys.Toggle):
		a.presenter.ToggleCompletion(a.cursor)
		return a, nil

	case key.Matches(msg, a.keys.Add):
		a.mode = modeAdding
		a.addInput.SetValue("")
		a.addInput.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Edit):
		if a.cursor < len(tasks) {
			a.mode = modeEditing
			a.editIndex = a.cursor
			a.editInput.SetValue(tasks[a.cursor].Todo)
			a.editInput.CursorEnd()
			a.editInput.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if a.cursor < len(tasks) {
			a.mode = modeConfirmDelete
		}
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearching
		a.searchInput.Focus()
		return a, textinput.Blink
	}

	return a, nil
}

func (a *App) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.presenter.ClearSearch()
		a.mode = modeNormal
		a.clampCursor()
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		a.searchInput.Blur()
		a.mode = modeNormal
		return a, nil

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.presenter.SetSearch(strings.TrimSpace(a.searchInput.Value()))
		a.clampCursor()
		return a, cmd
	}
}

func (a *App) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.addInput.Blur()
		a.mode = modeNormal
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		// Blank titles are rejected by the presenter; just stay in the
		// input so the user can type something or escape out.
		if err := a.presenter.AddTask(a.addInput.Value()); err != nil {
			return a, nil
		}
		a.addInput.Blur()
		a.mode = modeNormal
		a.cursor = len(a.presenter.Current()) - 1
		a.ensureVisible()
		return a, nil

	default:
		var cmd tea.Cmd
		a.addInput, cmd = a.addInput.Update(msg)
		return a, cmd
	}
}

func (a *App) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.editInput.Blur()
		a.mode = modeNormal
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		if title := strings.TrimSpace(a.editInput.Value()); title != "" {
			a.presenter.UpdateTaskTitle(a.editIndex, title)
		}
		a.editInput.Blur()
		a.mode = modeNormal
		return a, nil

	default:
		var cmd tea.Cmd
		a.editInput, cmd = a.editInput.Update(msg)
		return a, cmd
	}
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.presenter.DeleteTask(a.cursor)
		a.clampCursor()
		a.mode = modeNormal
	case "n", "N", "esc":
		a.mode = modeNormal
	}
	return a, nil
}

// clampCursor keeps the cursor inside the currently displayed list
func (a *App) clampCursor() {
	if n := len(a.presenter.Current()); a.cursor >= n {
		a.cursor = max(0, n-1)
	}
	a.ensureVisible()
}

// ensureVisible scrolls the list so that the cursor stays on screen
func (a *App) ensureVisible() {
	visible := a.listHeight()
	if visible <= 0 {
		return
	}
	if a.cursor < a.scrollY {
		a.scrollY = a.cursor
	}
	if a.cursor >= a.scrollY+visible {
		a.scrollY = a.cursor - visible + 1
	}
}

// listHeight is the number of task rows that fit between the header and the
// status bar
func (a *App) listHeight() int {
	return max(1, a.height-6)
}

func (a *App) View() string {
	if !a.loaded {
		return a.styles.Help.Render("Loading tasks...")
	}

	var b strings.Builder

	title := a.styles.Title.Render("todo")
	count := a.styles.TitleMuted.Render(fmt.Sprintf(" %d tasks", a.count))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, title, count))
	b.WriteString("\n")

	if a.loadErr != nil {
		b.WriteString(a.styles.Err.Render(fmt.Sprintf("Could not load tasks: %v", a.loadErr)))
		b.WriteString("\n")
		b.WriteString(a.styles.Help.Render("q quit"))
		return b.String()
	}

	if a.mode == modeSearching || a.presenter.Searching() {
		style := a.styles.Input
		if a.mode == modeSearching {
			style = a.styles.InputFocused
		}
		b.WriteString(style.Render(a.searchInput.View()))
		b.WriteString("\n")
	}

	b.WriteString(a.renderList())

	switch a.mode {
	case modeAdding:
		b.WriteString(a.styles.InputFocused.Render(a.addInput.View()))
		b.WriteString("\n")
	case modeEditing:
		b.WriteString(a.styles.InputFocused.Render(a.editInput.View()))
		b.WriteString("\n")
	case modeConfirmDelete:
		tasks := a.presenter.Current()
		if a.cursor < len(tasks) {
			prompt := fmt.Sprintf("Delete %q? (y/n)", tasks[a.cursor].Todo)
			b.WriteString(a.styles.Confirm.Render(prompt))
			b.WriteString("\n")
		}
	}

	b.WriteString(a.statusBar())
	return b.String()
}

func (a *App) renderList() string {
	tasks := a.presenter.Current()
	if len(tasks) == 0 {
		if a.presenter.Searching() {
			return a.styles.Help.Render("No tasks match the search.") + "\n"
		}
		return a.styles.Help.Render("No tasks. Press 'a' to add one.") + "\n"
	}

	var b strings.Builder
	visible := a.listHeight()
	end := min(len(tasks), a.scrollY+visible)

	for i := a.scrollY; i < end; i++ {
		t := tasks[i]
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		title := t.Todo
		if t.Completed {
			title = a.styles.TaskDone.Render(title)
		}
		row := fmt.Sprintf("%s %s", check, title)

		if i == a.cursor && a.mode != modeAdding {
			b.WriteString(a.styles.ListSelected.Render(row))
		} else {
			b.WriteString(a.styles.ListItem.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) statusBar() string {
	help := []string{
		a.styles.HelpKey.Render("a") + " add",
		a.styles.HelpKey.Render("e") + " edit",
		a.styles.HelpKey.Render("space") + " toggle",
		a.styles.HelpKey.Render("d") + " delete",
		a.styles.HelpKey.Render("/") + " search",
		a.styles.HelpKey.Render("q") + " quit",
	}
	return a.styles.StatusBar.Render(strings.Join(help, "  "))
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
