package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for backend operations.
var (
	ErrUnsupportedScheme = errors.New("backend: unsupported url scheme")
	ErrUnknownTable      = errors.New("backend: unknown table")
	ErrClosed            = errors.New("backend: driver closed")
)

// HTTPError is a non-2xx response from a REST backend.
type HTTPError struct {
	Status  int
	Code    string // PostgREST / Postgres error code, e.g. "23505"
	Message string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend http %d (%s): %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend http %d: %s", e.Status, http.StatusText(e.Status))
}

// Temporary reports whether retrying later might succeed.
func (e *HTTPError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// OpError wraps a driver failure with the operation and table.
type OpError struct {
	Driver string
	Op     string // select, insert, upsert, delete, ping
	Table  string
	Err    error
}

func (e *OpError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s %s [%s]: %v", e.Driver, e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Driver, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// WrapError attaches driver, op and table context to err. A nil err stays nil.
func WrapError(driver, op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Driver: driver, Op: op, Table: table, Err: err}
}
