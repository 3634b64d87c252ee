// Package store implements the durable task store on SQLite.
//
// Each exported method is a single transaction; there is no cross-call
// transaction visible to callers. Rows are keyed by task id and writes are
// last-writer-wins upserts, matching the storage model the app was built
// around.
package store

import (
	"database/sql"
	_ "embed"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/acrane/todo/internal/models"
)

//go:embed schema.sql
var schema string

// Store wraps the database connection for task persistence.
type Store struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// Open creates a store at path, initializing the schema if needed.
// If logger is nil, a default logger writing to stderr is used.
// The caller must Close the store when done.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the location of the database file.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// InsertMany inserts every task in one transaction. It is intended for
// seeding an empty store and performs plain inserts, no upsert check; on any
// failure the whole batch is rolled back and the store is left unchanged.
func (s *Store) InsertMany(tasks []models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &WriteError{Op: "begin bulk insert", Err: err}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO todos (id, todo, completed, user_id) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return &WriteError{Op: "prepare bulk insert", Err: err}
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.Exec(t.ID, t.Todo, t.Completed, t.UserID); err != nil {
			tx.Rollback()
			return &WriteError{Op: "bulk insert", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Op: "commit bulk insert", Err: err}
	}
	return nil
}

// UpsertOne writes a task by id: an existing row has its todo, completed and
// user_id columns overwritten, otherwise a new row is inserted.
func (s *Store) UpsertOne(task models.Task) error {
	_, err := s.db.Exec(`
		INSERT INTO todos (id, todo, completed, user_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			todo = excluded.todo,
			completed = excluded.completed,
			user_id = excluded.user_id
	`, task.ID, task.Todo, task.Completed, task.UserID)
	if err != nil {
		return &WriteError{Op: "upsert task", Err: err}
	}
	return nil
}

// DeleteOne removes every row with the given id. Deleting an id that is not
// present is a no-op success.
func (s *Store) DeleteOne(id int64) error {
	if _, err := s.db.Exec("DELETE FROM todos WHERE id = ?", id); err != nil {
		return &WriteError{Op: "delete task", Err: err}
	}
	return nil
}

// DeleteAll removes every task. Best-effort: failures are logged, not
// returned. Used by the reset command and tests.
func (s *Store) DeleteAll() {
	if _, err := s.db.Exec("DELETE FROM todos"); err != nil {
		s.logger.Printf("delete all tasks: %v", err)
	}
}

// FetchAll returns every persisted task. Row order carries no meaning.
func (s *Store) FetchAll() ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(todo, ''), completed, user_id FROM todos
	`)
	if err != nil {
		return nil, &ReadError{Op: "fetch tasks", Err: err}
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Todo, &t.Completed, &t.UserID); err != nil {
			return nil, &ReadError{Op: "scan task", Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "fetch tasks", Err: err}
	}
	return tasks, nil
}

// IsEmpty reports whether the store holds no tasks. A read failure is logged
// and reported as empty, which steers startup toward the remote seed path.
func (s *Store) IsEmpty() bool {
	var exists int
	err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM todos)").Scan(&exists)
	if err != nil {
		s.logger.Printf("emptiness check: %v", err)
		return true
	}
	return exists == 0
}

// NextID returns one more than the highest id currently stored, or 1 for an
// empty store.
func (s *Store) NextID() (int64, error) {
	var next int64
	err := s.db.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM todos").Scan(&next)
	if err != nil {
		return 0, &ReadError{Op: "next id", Err: err}
	}
	return next, nil
}
