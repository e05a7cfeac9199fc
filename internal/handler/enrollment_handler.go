// internal/handler/enrollment_handler.go
package handler

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/service"
)

// EnrollmentHandler serves read-side enrollment views.
type EnrollmentHandler struct {
    Service *service.EnrollmentService
}

// GetEnrollmentWithStats returns the campaign's current enrollment plus
// outreach progress counts grouped by delivery and response status.
func (h *EnrollmentHandler) GetEnrollmentWithStats(w http.ResponseWriter, r *http.Request) {
    actor, err := strconv.Atoi(r.Header.Get("X-User-ID"))
    if err != nil || actor <= 0 {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    idStr := chi.URLParam(r, "id")
    id, err := strconv.Atoi(idStr)
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    details, err := h.Service.GetEnrollmentDetails(r.Context(), actor, id)
    if err != nil {
        var notFound *appErrors.ErrNotFound
        if errors.As(err, &notFound) {
            http.Error(w, err.Error(), http.StatusNotFound)
            return
        }
        log.Println("❌ Error fetching enrollment:", err)
        http.Error(w, "failed to fetch enrollment: "+err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(details)
}
