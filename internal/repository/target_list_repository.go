// internal/repository/target_list_repository.go
package repository

import (
    "context"
    "database/sql"
    "strconv"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
)

type TargetListRepositoryInterface interface {
    GetWithMembers(ctx context.Context, q Querier, id int) (*model.TargetListWithMembers, error)
    IncrementUsage(ctx context.Context, q Querier, id int) error
}

type TargetListRepository struct{}

// GetWithMembers returns the list row plus every member in one consistent
// read. Inside a transaction this is the snapshot the enrollment copies from.
func (r *TargetListRepository) GetWithMembers(ctx context.Context, q Querier, id int) (*model.TargetListWithMembers, error) {
    query := `
        SELECT id, owner_id, name, description, list_type, used_in_campaigns, campaign_count, created_at
        FROM target_lists WHERE id=$1
    `
    var list model.TargetListWithMembers
    err := q.QueryRowContext(ctx, query, id).Scan(
        &list.ID, &list.OwnerID, &list.Name, &list.Description, &list.ListType,
        &list.UsedInCampaigns, &list.CampaignCount, &list.CreatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewNotFound("target list", strconv.Itoa(id))
        }
        return nil, err
    }

    memberQuery := `
        SELECT id, list_id, profile_id, first_name, last_name, title,
               company_name, company_domain, location, email, linkedin_url
        FROM target_list_members
        WHERE list_id=$1
        ORDER BY id
    `
    rows, err := q.QueryContext(ctx, memberQuery, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    list.Members = []model.TargetListMember{}
    for rows.Next() {
        var m model.TargetListMember
        if err := rows.Scan(
            &m.ID, &m.ListID, &m.ProfileID, &m.FirstName, &m.LastName, &m.Title,
            &m.CompanyName, &m.CompanyDomain, &m.Location, &m.Email, &m.LinkedinURL,
        ); err != nil {
            return nil, err
        }
        list.Members = append(list.Members, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    return &list, nil
}

// IncrementUsage bumps the cumulative usage counter in the store so concurrent
// enrollments never lose an update. The counter is historical and monotonic:
// it only ever goes up through this path.
func (r *TargetListRepository) IncrementUsage(ctx context.Context, q Querier, id int) error {
    query := `
        UPDATE target_lists
        SET campaign_count = campaign_count + 1, used_in_campaigns = TRUE
        WHERE id=$1
    `
    res, err := q.ExecContext(ctx, query, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appErrors.NewNotFound("target list", strconv.Itoa(id))
    }
    return nil
}

var _ TargetListRepositoryInterface = (*TargetListRepository)(nil)
