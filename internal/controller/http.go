// internal/controller/http.go
package controller

import (
    "errors"
    "net/http"
    "strconv"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
)

// actorID pulls the acting principal from the X-User-ID header. The auth
// collaborator that validates the session lives upstream; by the time a
// request gets here the header is trusted.
func actorID(r *http.Request) (int, bool) {
    id, err := strconv.Atoi(r.Header.Get("X-User-ID"))
    if err != nil || id <= 0 {
        return 0, false
    }
    return id, true
}

func writeError(w http.ResponseWriter, err error) {
    var notFound *appErrors.ErrNotFound
    var emptyList *appErrors.ErrEmptySourceList
    var typeMismatch *appErrors.ErrTypeMismatch
    var inactive *appErrors.ErrContactInactive

    switch {
    case errors.As(err, &notFound):
        http.Error(w, err.Error(), http.StatusNotFound)
    case errors.As(err, &emptyList), errors.As(err, &typeMismatch):
        http.Error(w, err.Error(), http.StatusUnprocessableEntity)
    case errors.As(err, &inactive):
        http.Error(w, err.Error(), http.StatusConflict)
    default:
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}
