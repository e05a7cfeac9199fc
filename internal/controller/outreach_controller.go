// internal/controller/outreach_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"

    "github.com/leadloop/outreach-backend/internal/model"
    "github.com/leadloop/outreach-backend/internal/service"
)

type OutreachController struct {
    OutreachService *service.OutreachService
}

// RecordEvent handles POST /contacts/{id}/events/{event} for delivery and
// engagement feedback.
func (c *OutreachController) RecordEvent(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    contactID := chi.URLParam(r, "id")
    event := chi.URLParam(r, "event")

    var st *model.OutreachState
    var err error
    switch event {
    case "sent":
        st, err = c.OutreachService.RecordEmailSent(r.Context(), actor, contactID)
    case "bounce":
        st, err = c.OutreachService.RecordBounce(r.Context(), actor, contactID)
    case "failed":
        st, err = c.OutreachService.RecordFailed(r.Context(), actor, contactID)
    case "open":
        st, err = c.OutreachService.RecordOpen(r.Context(), actor, contactID)
    case "click":
        st, err = c.OutreachService.RecordClick(r.Context(), actor, contactID)
    case "reply":
        st, err = c.OutreachService.RecordReply(r.Context(), actor, contactID)
    default:
        http.Error(w, "unknown event: "+event, http.StatusBadRequest)
        return
    }
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(st)
}

func (c *OutreachController) Pause(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    contactID := chi.URLParam(r, "id")

    var body struct {
        Reason string `json:"reason"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    st, err := c.OutreachService.Pause(r.Context(), actor, contactID, body.Reason)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(st)
}

func (c *OutreachController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    contactID := chi.URLParam(r, "id")

    st, err := c.OutreachService.Unsubscribe(r.Context(), actor, contactID)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(st)
}

func (c *OutreachController) AdvanceSequence(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    contactID := chi.URLParam(r, "id")

    var body struct {
        NextContactAt time.Time `json:"next_contact_at"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if body.NextContactAt.IsZero() {
        http.Error(w, "next_contact_at is required", http.StatusBadRequest)
        return
    }

    st, err := c.OutreachService.AdvanceSequence(r.Context(), actor, contactID, body.NextContactAt)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(st)
}
