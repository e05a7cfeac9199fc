// internal/repository/enrollment_repository.go
package repository

import (
    "context"
    "database/sql"
    "strconv"
    "time"

    "github.com/google/uuid"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
)

type EnrollmentRepositoryInterface interface {
    DeleteByCampaign(ctx context.Context, q Querier, campaignID int) (int64, error)
    Create(ctx context.Context, q Querier, e *model.CampaignEnrollment) error
    GetByCampaign(ctx context.Context, q Querier, campaignID int) (*model.CampaignEnrollment, error)
    InsertContact(ctx context.Context, q Querier, c *model.EnrolledContact) error
}

type EnrollmentRepository struct{}

// DeleteByCampaign removes every enrollment for the campaign. EnrolledContacts
// and their OutreachStates go with them via ON DELETE CASCADE.
func (r *EnrollmentRepository) DeleteByCampaign(ctx context.Context, q Querier, campaignID int) (int64, error) {
    res, err := q.ExecContext(ctx, `DELETE FROM campaign_enrollments WHERE campaign_id=$1`, campaignID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

func (r *EnrollmentRepository) Create(ctx context.Context, q Querier, e *model.CampaignEnrollment) error {
    if e.ID == "" {
        e.ID = uuid.NewString()
    }
    if e.Status == "" {
        e.Status = model.EnrollmentStatusActive
    }
    if e.EnrolledAt.IsZero() {
        e.EnrolledAt = time.Now()
    }
    query := `
        INSERT INTO campaign_enrollments
        (id, campaign_id, source_list_id, targeting_method, status, enrolled_at,
         list_name, list_description, member_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
    _, err := q.ExecContext(ctx, query,
        e.ID, e.CampaignID, e.SourceListID, e.TargetingMethod, e.Status, e.EnrolledAt,
        e.ListName, e.ListDescription, e.MemberCount,
    )
    return err
}

func (r *EnrollmentRepository) GetByCampaign(ctx context.Context, q Querier, campaignID int) (*model.CampaignEnrollment, error) {
    query := `
        SELECT id, campaign_id, source_list_id, targeting_method, status, enrolled_at,
               list_name, list_description, member_count
        FROM campaign_enrollments
        WHERE campaign_id=$1
        ORDER BY enrolled_at DESC
        LIMIT 1
    `
    var e model.CampaignEnrollment
    err := q.QueryRowContext(ctx, query, campaignID).Scan(
        &e.ID, &e.CampaignID, &e.SourceListID, &e.TargetingMethod, &e.Status, &e.EnrolledAt,
        &e.ListName, &e.ListDescription, &e.MemberCount,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewNotFound("enrollment for campaign", strconv.Itoa(campaignID))
        }
        return nil, err
    }
    return &e, nil
}

func (r *EnrollmentRepository) InsertContact(ctx context.Context, q Querier, c *model.EnrolledContact) error {
    if c.ID == "" {
        c.ID = uuid.NewString()
    }
    query := `
        INSERT INTO enrolled_contacts
        (id, campaign_enrollment_id, enrolled_at, profile_id, first_name, last_name,
         title, company_name, company_domain, location, email, linkedin_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
    _, err := q.ExecContext(ctx, query,
        c.ID, c.EnrollmentID, c.EnrolledAt, c.ProfileID, c.FirstName, c.LastName,
        c.Title, c.CompanyName, c.CompanyDomain, c.Location, c.Email, c.LinkedinURL,
    )
    return err
}

var _ EnrollmentRepositoryInterface = (*EnrollmentRepository)(nil)
