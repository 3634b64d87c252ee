package store

// WriteError wraps the failure of a store mutation (insert, upsert, delete).
// The presenter logs these and moves on; nothing in the app retries them.
//
// Use errors.As to distinguish write from read failures:
//
//	var werr *store.WriteError
//	if errors.As(err, &werr) {
//	    // a transaction failed and was rolled back
//	}
type WriteError struct {
	Op  string // the operation that failed, e.g. "upsert task 7"
	Err error
}

func (e *WriteError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError wraps the failure of a store query. Callers at the boundary treat
// these fail-open: IsEmpty reports empty, the ID allocator falls back to 1.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }
