// internal/model/enrolled_contact.go
package model

import "time"

// EnrolledContact is a point-in-time copy of a target list member, frozen when
// the campaign enrolls the list. It is immutable after insert: later edits to
// the source list never touch in-flight campaigns.
type EnrolledContact struct {
    ID           string    `db:"id" json:"id"`
    EnrollmentID string    `db:"campaign_enrollment_id" json:"campaign_enrollment_id"`
    EnrolledAt   time.Time `db:"enrolled_at" json:"enrolled_at"`

    ProfileID     string `db:"profile_id" json:"profile_id"`
    FirstName     string `db:"first_name" json:"first_name"`
    LastName      string `db:"last_name" json:"last_name"`
    Title         string `db:"title" json:"title"`
    CompanyName   string `db:"company_name" json:"company_name"`
    CompanyDomain string `db:"company_domain" json:"company_domain"`
    Location      string `db:"location" json:"location"`
    Email         string `db:"email" json:"email"`
    LinkedinURL   string `db:"linkedin_url" json:"linkedin_url"`
}
