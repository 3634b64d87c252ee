package syncer

import (
	"context"

	"github.com/acrane/todo/internal/models"
)

// TaskStore is the slice of the local store the sync policy needs.
type TaskStore interface {
	IsEmpty() bool
	FetchAll() ([]models.Task, error)
	InsertMany(tasks []models.Task) error
}

// Fetcher retrieves the seed task list from the remote source.
type Fetcher interface {
	GetTodos(ctx context.Context) ([]models.Task, error)
}
