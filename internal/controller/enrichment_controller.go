// internal/controller/enrichment_controller.go
package controller

import (
    "encoding/json"
    "net/http"

    "github.com/leadloop/outreach-backend/internal/enrich"
)

type EnrichmentController struct {
    Dispatcher *enrich.Dispatcher
}

// Dispatch queues a batch of enrichment messages and returns the per-message
// delivery report. Partial failure is a 200: the report tells the caller which
// correlation ids to retry.
func (c *EnrichmentController) Dispatch(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    var body struct {
        Messages []enrich.Message `json:"messages"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    for i := range body.Messages {
        body.Messages[i].UserID = actor
    }

    report, err := c.Dispatcher.DispatchBatch(r.Context(), body.Messages)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "delivered": len(report.Succeeded),
        "failed":    report.Failed,
        "skipped":   report.Skipped,
    })
}
