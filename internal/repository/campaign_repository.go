// internal/repository/campaign_repository.go
package repository

import (
    "context"
    "database/sql"
    "strconv"
    "time"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(ctx context.Context, q Querier, c *model.Campaign) error
    GetByID(ctx context.Context, q Querier, id int) (*model.Campaign, error)
    GetOwned(ctx context.Context, q Querier, id, ownerID int) (*model.Campaign, error)
    GetOwnedForUpdate(ctx context.Context, q Querier, id, ownerID int) (*model.Campaign, error)
    UpdateStatus(ctx context.Context, q Querier, campaignID int, status string) error
}

type CampaignRepository struct{}

func (r *CampaignRepository) Create(ctx context.Context, q Querier, c *model.Campaign) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = "draft"
    }
    query := `
        INSERT INTO campaigns (owner_id, name, status, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
    return q.QueryRowContext(ctx, query, c.OwnerID, c.Name, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(ctx context.Context, q Querier, id int) (*model.Campaign, error) {
    query := `
        SELECT id, owner_id, name, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
    var c model.Campaign
    err := q.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
        }
        return nil, err
    }
    return &c, nil
}

// GetOwned resolves a campaign only if ownerID owns it. A campaign that exists
// but belongs to someone else looks exactly like a missing one.
func (r *CampaignRepository) GetOwned(ctx context.Context, q Querier, id, ownerID int) (*model.Campaign, error) {
    c, err := r.GetByID(ctx, q, id)
    if err != nil {
        return nil, err
    }
    if c.OwnerID != ownerID {
        return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
    }
    return c, nil
}

// GetOwnedForUpdate is GetOwned plus a row lock held until the transaction
// ends. Targeting replaces a campaign's whole enrollment set, so concurrent
// submissions for the same campaign serialize on this lock; without it, READ
// COMMITTED lets two delete-then-recreate sequences both commit.
func (r *CampaignRepository) GetOwnedForUpdate(ctx context.Context, q Querier, id, ownerID int) (*model.Campaign, error) {
    query := `
        SELECT id, owner_id, name, status, created_at, updated_at
        FROM campaigns WHERE id=$1
        FOR UPDATE
    `
    var c model.Campaign
    err := q.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
        }
        return nil, err
    }
    if c.OwnerID != ownerID {
        return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
    }
    return &c, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, q Querier, campaignID int, status string) error {
    query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
    _, err := q.ExecContext(ctx, query, status, time.Now(), campaignID)
    return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
