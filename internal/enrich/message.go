// internal/enrich/message.go
package enrich

// Message channels. Each maps to its own queue destination.
const (
    TypeEmailEnrichment   = "EMAIL_ENRICHMENT"
    TypeProfileEnrichment = "PROFILE_ENRICHMENT"
)

const (
    PriorityHigh   = "high"
    PriorityMedium = "medium"
    PriorityLow    = "low"
)

// Message is the wire artifact handed to external enrichment workers. It is
// never persisted here. It carries every id the consumer needs to process it
// idempotently without a second lookup.
type Message struct {
    Type string `json:"type"`

    EnrolledContactID    string `json:"enrolled_contact_id"`
    CampaignEnrollmentID string `json:"campaign_enrollment_id"`
    CampaignID           int    `json:"campaign_id"`
    ProfileID            string `json:"profile_id"`

    Priority string `json:"priority"`

    // Tenant context.
    AccountID int `json:"account_id"`
    UserID    int `json:"user_id"`
}
