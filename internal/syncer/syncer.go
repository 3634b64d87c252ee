// Package syncer decides, once per session, whether the task list comes from
// the local store or from the remote seed endpoint.
//
// A non-empty store is always served locally; the remote source is only ever
// used to bootstrap an empty store, never merged against local edits.
package syncer

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"

	"github.com/acrane/todo/internal/models"
)

// State is the load phase of the current session.
type State int

const (
	// Bootstrapping is the initial state, before the local-or-remote
	// decision has completed.
	Bootstrapping State = iota
	// Ready means the session's task list has been produced.
	Ready
)

// ErrAlreadyLoaded is returned by Load after the session has reached Ready.
var ErrAlreadyLoaded = errors.New("task list already loaded this session")

// Manager implements the startup sync policy.
type Manager struct {
	store  TaskStore
	remote Fetcher
	logger *log.Logger

	mu      sync.Mutex
	state   State
	persist sync.WaitGroup
}

// New creates a Manager. If logger is nil, a default logger writing to
// stderr is used.
func New(store TaskStore, remote Fetcher, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Manager{store: store, remote: remote, logger: logger}
}

// State reports the current load phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Load produces the session's task list.
//
// With a non-empty store it reads the store and never touches the network.
// With an empty store it fetches the remote list, returns it immediately,
// and persists it to the store in the background; callers are not blocked on
// the persist. A remote failure is terminal for the session: the error is
// returned, nothing is stored, and no retry is scheduled.
func (m *Manager) Load(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	if m.state == Ready {
		m.mu.Unlock()
		return nil, ErrAlreadyLoaded
	}
	m.mu.Unlock()

	if !m.store.IsEmpty() {
		tasks, err := m.store.FetchAll()
		if err != nil {
			m.logger.Printf("local load: %v", err)
			return nil, err
		}
		m.setReady()
		m.logger.Printf("loaded %d tasks from local store", len(tasks))
		return tasks, nil
	}

	tasks, err := m.remote.GetTodos(ctx)
	if err != nil {
		m.logger.Printf("remote bootstrap: %v", err)
		return nil, err
	}

	m.persist.Add(1)
	go func() {
		defer m.persist.Done()
		if err := m.store.InsertMany(tasks); err != nil {
			m.logger.Printf("persist remote seed: %v", err)
			return
		}
		m.logger.Printf("persisted %d seeded tasks", len(tasks))
	}()

	m.setReady()
	return tasks, nil
}

// Wait blocks until any in-flight background persist has finished. The UI
// never calls this; it exists for orderly shutdown and tests.
func (m *Manager) Wait() {
	m.persist.Wait()
}

func (m *Manager) setReady() {
	m.mu.Lock()
	m.state = Ready
	m.mu.Unlock()
}
