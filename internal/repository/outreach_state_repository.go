// internal/repository/outreach_state_repository.go
package repository

import (
    "context"
    "database/sql"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
)

type OutreachStateRepositoryInterface interface {
    Create(ctx context.Context, q Querier, s *model.OutreachState) error
    GetForUpdate(ctx context.Context, q Querier, contactID string) (*model.OutreachState, error)
    Save(ctx context.Context, q Querier, s *model.OutreachState) error
    GetContactOwner(ctx context.Context, q Querier, contactID string) (int, error)
    StatsByEnrollment(ctx context.Context, q Querier, enrollmentID string) (map[string]int, error)
}

type OutreachStateRepository struct{}

func (r *OutreachStateRepository) Create(ctx context.Context, q Querier, s *model.OutreachState) error {
    query := `
        INSERT INTO outreach_states
        (enrolled_contact_id, email_status, response_status, emails_sent_count,
         open_count, click_count, reply_count, current_sequence_step,
         next_scheduled_contact, is_active, paused_at, pause_reason, unsubscribed_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
    _, err := q.ExecContext(ctx, query,
        s.EnrolledContactID, s.EmailStatus, s.ResponseStatus, s.EmailsSentCount,
        s.OpenCount, s.ClickCount, s.ReplyCount, s.CurrentSequenceStep,
        s.NextScheduledAt, s.IsActive, s.PausedAt, s.PauseReason, s.UnsubscribedAt, s.UpdatedAt,
    )
    return err
}

// GetForUpdate locks the state row for the rest of the transaction. Concurrent
// transitions on the same contact serialize here; different contacts do not
// contend.
func (r *OutreachStateRepository) GetForUpdate(ctx context.Context, q Querier, contactID string) (*model.OutreachState, error) {
    query := `
        SELECT enrolled_contact_id, email_status, response_status, emails_sent_count,
               open_count, click_count, reply_count, current_sequence_step,
               next_scheduled_contact, is_active, paused_at, pause_reason, unsubscribed_at, updated_at
        FROM outreach_states
        WHERE enrolled_contact_id=$1
        FOR UPDATE
    `
    var s model.OutreachState
    var pauseReason sql.NullString
    err := q.QueryRowContext(ctx, query, contactID).Scan(
        &s.EnrolledContactID, &s.EmailStatus, &s.ResponseStatus, &s.EmailsSentCount,
        &s.OpenCount, &s.ClickCount, &s.ReplyCount, &s.CurrentSequenceStep,
        &s.NextScheduledAt, &s.IsActive, &s.PausedAt, &pauseReason, &s.UnsubscribedAt, &s.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewNotFound("enrolled contact", contactID)
        }
        return nil, err
    }
    s.PauseReason = pauseReason.String
    return &s, nil
}

func (r *OutreachStateRepository) Save(ctx context.Context, q Querier, s *model.OutreachState) error {
    query := `
        UPDATE outreach_states
        SET email_status=$1, response_status=$2, emails_sent_count=$3,
            open_count=$4, click_count=$5, reply_count=$6, current_sequence_step=$7,
            next_scheduled_contact=$8, is_active=$9, paused_at=$10, pause_reason=$11,
            unsubscribed_at=$12, updated_at=$13
        WHERE enrolled_contact_id=$14
    `
    res, err := q.ExecContext(ctx, query,
        s.EmailStatus, s.ResponseStatus, s.EmailsSentCount,
        s.OpenCount, s.ClickCount, s.ReplyCount, s.CurrentSequenceStep,
        s.NextScheduledAt, s.IsActive, s.PausedAt, s.PauseReason,
        s.UnsubscribedAt, s.UpdatedAt, s.EnrolledContactID,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // The locked row vanished mid transaction; the enrollment was deleted
        // under us.
        return appErrors.NewInvariantViolation("outreach state for contact %s disappeared during update", s.EnrolledContactID)
    }
    return nil
}

// GetContactOwner walks contact → enrollment → campaign to find who owns the
// campaign the contact is enrolled in.
func (r *OutreachStateRepository) GetContactOwner(ctx context.Context, q Querier, contactID string) (int, error) {
    query := `
        SELECT c.owner_id
        FROM enrolled_contacts ec
        JOIN campaign_enrollments ce ON ce.id = ec.campaign_enrollment_id
        JOIN campaigns c ON c.id = ce.campaign_id
        WHERE ec.id=$1
    `
    var ownerID int
    err := q.QueryRowContext(ctx, query, contactID).Scan(&ownerID)
    if err != nil {
        if err == sql.ErrNoRows {
            return 0, appErrors.NewNotFound("enrolled contact", contactID)
        }
        return 0, err
    }
    return ownerID, nil
}

// StatsByEnrollment aggregates outreach progress for one enrollment.
func (r *OutreachStateRepository) StatsByEnrollment(ctx context.Context, q Querier, enrollmentID string) (map[string]int, error) {
    stats := map[string]int{
        "total":   0,
        "pending": 0, "sent": 0, "bounced": 0, "failed": 0,
        "opened": 0, "clicked": 0, "replied": 0,
        "active": 0, "inactive": 0, "unsubscribed": 0,
    }

    query := `
        SELECT os.email_status, os.response_status, os.is_active, os.unsubscribed_at IS NOT NULL, COUNT(*)
        FROM outreach_states os
        JOIN enrolled_contacts ec ON ec.id = os.enrolled_contact_id
        WHERE ec.campaign_enrollment_id=$1
        GROUP BY os.email_status, os.response_status, os.is_active, os.unsubscribed_at IS NOT NULL
    `
    rows, err := q.QueryContext(ctx, query, enrollmentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    for rows.Next() {
        var emailStatus, responseStatus string
        var isActive, unsubscribed bool
        var count int
        if err := rows.Scan(&emailStatus, &responseStatus, &isActive, &unsubscribed, &count); err != nil {
            return nil, err
        }
        stats["total"] += count
        if _, ok := stats[emailStatus]; ok {
            stats[emailStatus] += count
        }
        if responseStatus != model.ResponseStatusNone {
            stats[responseStatus] += count
        }
        if isActive {
            stats["active"] += count
        } else {
            stats["inactive"] += count
        }
        if unsubscribed {
            stats["unsubscribed"] += count
        }
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return stats, nil
}

var _ OutreachStateRepositoryInterface = (*OutreachStateRepository)(nil)
