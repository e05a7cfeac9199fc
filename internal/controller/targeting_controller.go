// internal/controller/targeting_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/leadloop/outreach-backend/internal/model"
    "github.com/leadloop/outreach-backend/internal/service"
)

type TargetingController struct {
    EnrollmentService *service.EnrollmentService
}

func (c *TargetingController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    var body struct {
        Name string `json:"name"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.EnrollmentService.CreateCampaign(r.Context(), actor, body.Name)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(campaign)
}

// SetTargeting replaces the campaign's entire targeting with a new snapshot of
// the given list.
func (c *TargetingController) SetTargeting(w http.ResponseWriter, r *http.Request) {
    actor, ok := actorID(r)
    if !ok {
        http.Error(w, "missing X-User-ID", http.StatusUnauthorized)
        return
    }

    campaignID, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil {
        http.Error(w, "invalid campaign id", http.StatusBadRequest)
        return
    }

    var body struct {
        Method       string `json:"method"`
        SourceListID int    `json:"source_list_id"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }
    if body.Method == "" {
        body.Method = model.TargetingMethodProfileList
    }

    result, err := c.EnrollmentService.SetTargeting(r.Context(), actor, campaignID, body.Method, body.SourceListID)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(result)
}
