// internal/model/enrollment.go
package model

import "time"

const (
    EnrollmentStatusActive    = "active"
    EnrollmentStatusPaused    = "paused"
    EnrollmentStatusCompleted = "completed"
)

// Targeting methods. Only profile lists are supported today; the column is a
// string so other source kinds can be added without a schema change.
const (
    TargetingMethodProfileList = "profile_list"
)

type CampaignEnrollment struct {
    ID              string    `db:"id" json:"id"`
    CampaignID      int       `db:"campaign_id" json:"campaign_id"`
    SourceListID    int       `db:"source_list_id" json:"source_list_id"`
    TargetingMethod string    `db:"targeting_method" json:"targeting_method"`
    Status          string    `db:"status" json:"status"`
    EnrolledAt      time.Time `db:"enrolled_at" json:"enrolled_at"`

    // Snapshot metadata, denormalized from the source list at enrollment time.
    ListName        string `db:"list_name" json:"list_name"`
    ListDescription string `db:"list_description" json:"list_description"`
    MemberCount     int    `db:"member_count" json:"member_count"`
}
