package models

// DefaultUserID is assigned to tasks created locally. Remote tasks carry
// whatever user the endpoint reports; the field is opaque to this app.
const DefaultUserID = 1

// Task represents a single to-do item. JSON tags match the remote endpoint's
// field names so the same type serves both the wire and the domain.
type Task struct {
	ID        int64  `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// TodosResponse is the envelope returned by the remote todos endpoint.
// Only Todos is consumed; the paging fields are decoded and ignored.
type TodosResponse struct {
	Todos []Task `json:"todos"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}
