// Package presenter holds the UI-facing working list of tasks and mirrors
// every mutation to the durable store.
//
// Mutations are applied to the in-memory list synchronously, the UI is
// notified synchronously, and the durable write is dispatched asynchronously.
// A user gesture is never blocked on the store. The working list and the
// store can therefore diverge briefly; with a single UI actor issuing
// mutations serially they reconcile once the writes land. Same-id writes
// dispatched back to back may complete out of order; the store's
// last-writer-wins upsert bounds the damage and this race is accepted.
package presenter

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/acrane/todo/internal/models"
)

// ErrBlankTitle is returned when a task would be created with empty or
// whitespace-only text.
var ErrBlankTitle = errors.New("task title is blank")

// Writer is the durable-write seam. The production implementation is the
// SQLite store; a stricter one could await and roll back on failure without
// touching any call site here.
type Writer interface {
	UpsertOne(task models.Task) error
	DeleteOne(id int64) error
}

// IDSource allocates ids for locally created tasks.
type IDSource interface {
	Next() int64
}

// Loader produces the initial task list (local read or remote bootstrap).
type Loader interface {
	Load(ctx context.Context) ([]models.Task, error)
}

// Listener receives UI refresh notifications.
type Listener interface {
	// TasksReplaced fires when the whole list changes (initial load).
	TasksReplaced(tasks []models.Task)
	// TasksChanged fires after any single mutation, with the new count
	// of the full working list.
	TasksChanged(count int)
}

// Presenter is the mutation gateway between the UI and the store.
type Presenter struct {
	writer   Writer
	ids      IDSource
	loader   Loader
	listener Listener
	logger   *log.Logger

	todos     []models.Task
	filtered  []models.Task
	searching bool

	writes sync.WaitGroup
}

// New creates a Presenter. listener may be nil. If logger is nil, a default
// logger writing to stderr is used.
func New(writer Writer, ids IDSource, loader Loader, listener Listener, logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.New(os.Stderr, "[presenter] ", log.LstdFlags)
	}
	return &Presenter{
		writer:   writer,
		ids:      ids,
		loader:   loader,
		listener: listener,
		logger:   logger,
	}
}

// SetListener replaces the UI notification target. Called by the TUI, which
// cannot exist before the presenter it observes.
func (p *Presenter) SetListener(l Listener) { p.listener = l }

// Load populates the working list via the loader and notifies the listener.
func (p *Presenter) Load(ctx context.Context) error {
	tasks, err := p.loader.Load(ctx)
	if err != nil {
		return err
	}
	p.todos = tasks
	p.notifyReplaced()
	return nil
}

// Tasks returns the full working list.
func (p *Presenter) Tasks() []models.Task { return p.todos }

// Current returns the list the UI is displaying: the filtered view while a
// search is active, the full list otherwise.
func (p *Presenter) Current() []models.Task {
	if p.searching {
		return p.filtered
	}
	return p.todos
}

// Count returns the number of tasks in the full working list.
func (p *Presenter) Count() int { return len(p.todos) }

// Searching reports whether a search filter is active.
func (p *Presenter) Searching() bool { return p.searching }

// AddTask creates a task with the given title, appends it to the working
// list and persists it. Blank titles are rejected.
func (p *Presenter) AddTask(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrBlankTitle
	}

	task := models.Task{
		ID:        p.ids.Next(),
		Todo:      title,
		Completed: false,
		UserID:    models.DefaultUserID,
	}
	p.todos = append(p.todos, task)
	p.saveAsync(task)
	p.notifyChanged()
	return nil
}

// ToggleCompletion flips the completed flag of the task at index in the
// currently displayed list and persists the result.
func (p *Presenter) ToggleCompletion(index int) {
	current := p.Current()
	if index < 0 || index >= len(current) {
		return
	}

	id := current[index].ID
	if p.searching {
		p.filtered[index].Completed = !p.filtered[index].Completed
		if i := p.indexByID(id); i >= 0 {
			p.todos[i].Completed = p.filtered[index].Completed
			p.saveAsync(p.todos[i])
		}
	} else {
		p.todos[index].Completed = !p.todos[index].Completed
		p.saveAsync(p.todos[index])
	}
	p.notifyChanged()
}

// UpdateTaskTitle replaces the title of the task at index in the currently
// displayed list. While a search is active the matching entry in the full
// list is updated too, resolved by id rather than position.
func (p *Presenter) UpdateTaskTitle(index int, title string) {
	current := p.Current()
	if index < 0 || index >= len(current) {
		return
	}

	if p.searching {
		p.filtered[index].Todo = title
		if i := p.indexByID(p.filtered[index].ID); i >= 0 {
			p.todos[i].Todo = title
			p.saveAsync(p.todos[i])
		}
	} else {
		p.todos[index].Todo = title
		p.saveAsync(p.todos[index])
	}
	p.notifyChanged()
}

// DeleteTask removes the task at index in the currently displayed list.
// While a search is active the task is removed from both views, matched by
// id. Exactly one durable delete is issued per call.
func (p *Presenter) DeleteTask(index int) {
	current := p.Current()
	if index < 0 || index >= len(current) {
		return
	}

	id := current[index].ID
	if p.searching {
		p.filtered = append(p.filtered[:index], p.filtered[index+1:]...)
		if i := p.indexByID(id); i >= 0 {
			p.todos = append(p.todos[:i], p.todos[i+1:]...)
		}
	} else {
		p.todos = append(p.todos[:index], p.todos[index+1:]...)
	}
	p.deleteAsync(id)
	p.notifyChanged()
}

// FilterTasks returns the tasks whose title contains query, case
// insensitively. Pure projection, no state is touched.
func (p *Presenter) FilterTasks(query string) []models.Task {
	q := strings.ToLower(query)
	var out []models.Task
	for _, t := range p.todos {
		if strings.Contains(strings.ToLower(t.Todo), q) {
			out = append(out, t)
		}
	}
	return out
}

// SetSearch activates the filter for query. An empty query clears it.
func (p *Presenter) SetSearch(query string) {
	if query == "" {
		p.ClearSearch()
		return
	}
	p.filtered = p.FilterTasks(query)
	p.searching = true
}

// ClearSearch drops the filtered view.
func (p *Presenter) ClearSearch() {
	p.filtered = nil
	p.searching = false
}

// Wait blocks until all dispatched durable writes have completed. Used on
// shutdown and in tests; UI mutations never wait.
func (p *Presenter) Wait() {
	p.writes.Wait()
}

func (p *Presenter) indexByID(id int64) int {
	for i, t := range p.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (p *Presenter) saveAsync(task models.Task) {
	p.writes.Add(1)
	go func() {
		defer p.writes.Done()
		if err := p.writer.UpsertOne(task); err != nil {
			p.logger.Printf("save task %d: %v", task.ID, err)
		}
	}()
}

func (p *Presenter) deleteAsync(id int64) {
	p.writes.Add(1)
	go func() {
		defer p.writes.Done()
		if err := p.writer.DeleteOne(id); err != nil {
			p.logger.Printf("delete task %d: %v", id, err)
		}
	}()
}

func (p *Presenter) notifyReplaced() {
	if p.listener != nil {
		p.listener.TasksReplaced(p.todos)
	}
}

func (p *Presenter) notifyChanged() {
	if p.listener != nil {
		p.listener.TasksChanged(len(p.todos))
	}
}
