// internal/errors/errors.go
package appErrors

import (
    "fmt"
    "strings"
)

// ErrEmptySourceList is returned when a targeting submission references a list
// with zero members. No partial enrollment is created.
type ErrEmptySourceList struct {
    ListID int
}

func (e *ErrEmptySourceList) Error() string {
    return fmt.Sprintf("target list %d has no members", e.ListID)
}

func NewEmptySourceList(listID int) error {
    return &ErrEmptySourceList{ListID: listID}
}

// ErrNotFound covers both a missing row and a row owned by someone else, so
// the API never reveals whether another user's resource exists.
type ErrNotFound struct {
    Resource string
    ID       string
}

func (e *ErrNotFound) Error() string {
    return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) error {
    return &ErrNotFound{Resource: resource, ID: id}
}

// ErrTypeMismatch is returned when a list's type is incompatible with the
// requested targeting method.
type ErrTypeMismatch struct {
    ListID   int
    ListType string
    Method   string
}

func (e *ErrTypeMismatch) Error() string {
    return fmt.Sprintf("target list %d has type %q, incompatible with targeting method %q",
        e.ListID, e.ListType, e.Method)
}

func NewTypeMismatch(listID int, listType, method string) error {
    return &ErrTypeMismatch{ListID: listID, ListType: listType, Method: method}
}

// ErrContactInactive rejects scheduling operations against a paused or
// unsubscribed contact.
type ErrContactInactive struct {
    ContactID string
}

func (e *ErrContactInactive) Error() string {
    return fmt.Sprintf("enrolled contact %s is inactive", e.ContactID)
}

func NewContactInactive(contactID string) error {
    return &ErrContactInactive{ContactID: contactID}
}

// ErrTransientTransport reports a queue/network failure. It carries the
// correlation ids that were not delivered so the caller can retry exactly
// those. Never fatal for the enrollment that triggered the dispatch.
type ErrTransientTransport struct {
    FailedIDs []string
    Cause     error
}

func (e *ErrTransientTransport) Error() string {
    return fmt.Sprintf("transport failure, %d undelivered [%s]: %v",
        len(e.FailedIDs), strings.Join(e.FailedIDs, ","), e.Cause)
}

func (e *ErrTransientTransport) Unwrap() error { return e.Cause }

func NewTransientTransport(failedIDs []string, cause error) error {
    return &ErrTransientTransport{FailedIDs: failedIDs, Cause: cause}
}

// ErrInvariantViolation marks an internal bug class, e.g. a transition against
// a contact whose enrollment was concurrently deleted. Logged and surfaced,
// never silently ignored.
type ErrInvariantViolation struct {
    Detail string
}

func (e *ErrInvariantViolation) Error() string {
    return "invariant violation: " + e.Detail
}

func NewInvariantViolation(format string, args ...any) error {
    return &ErrInvariantViolation{Detail: fmt.Sprintf(format, args...)}
}
