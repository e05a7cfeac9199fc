// internal/model/target_list.go
package model

import "time"

// List types are fixed at creation and never change.
const (
    ListTypeProfile  = "profile"
    ListTypeProspect = "prospect"
    ListTypeCompany  = "company"
)

type TargetList struct {
    ID              int       `db:"id" json:"id"`
    OwnerID         int       `db:"owner_id" json:"owner_id"`
    Name            string    `db:"name" json:"name"`
    Description     string    `db:"description" json:"description"`
    ListType        string    `db:"list_type" json:"list_type"`
    UsedInCampaigns bool      `db:"used_in_campaigns" json:"used_in_campaigns"`
    CampaignCount   int       `db:"campaign_count" json:"campaign_count"`
    CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TargetListMember rows must match the list's type.
type TargetListMember struct {
    ID            int    `db:"id" json:"id"`
    ListID        int    `db:"list_id" json:"list_id"`
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

// TargetListWithMembers is the consistent snapshot returned by the list store:
// the list row plus every member, never a partial member set.
type TargetListWithMembers struct {
    TargetList
    Members []TargetListMember `json:"members"`
}
