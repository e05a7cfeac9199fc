// internal/service/snapshot_builder.go
package service

import (
    "context"
    "time"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
    "github.com/leadloop/outreach-backend/internal/repository"
)

// methodListTypes maps each targeting method to the list type it can consume.
var methodListTypes = map[string]string{
    model.TargetingMethodProfileList: model.ListTypeProfile,
}

// SnapshotBuilder copies the members of a target list into immutable
// campaign-scoped rows. It only inserts; usage accounting stays with the
// enrollment manager so the copy is composable and testable on its own.
type SnapshotBuilder struct {
    Enrollments repository.EnrollmentRepositoryInterface
}

// Build inserts one EnrolledContact per list member inside the caller's
// transaction and returns the frozen contacts. The row count always equals the
// member count at the instant of the read, or nothing persists.
func (b *SnapshotBuilder) Build(ctx context.Context, q repository.Querier, enrollment *model.CampaignEnrollment, list *model.TargetListWithMembers) ([]model.EnrolledContact, error) {
    wantType, ok := methodListTypes[enrollment.TargetingMethod]
    if !ok || list.ListType != wantType {
        return nil, appErrors.NewTypeMismatch(list.ID, list.ListType, enrollment.TargetingMethod)
    }
    if len(list.Members) == 0 {
        return nil, appErrors.NewEmptySourceList(list.ID)
    }

    now := time.Now()
    contacts := make([]model.EnrolledContact, 0, len(list.Members))
    for _, m := range list.Members {
        c := model.EnrolledContact{
            EnrollmentID:  enrollment.ID,
            EnrolledAt:    now,
            ProfileID:     m.ProfileID,
            FirstName:     m.FirstName,
            LastName:      m.LastName,
            Title:         m.Title,
            CompanyName:   m.CompanyName,
            CompanyDomain: m.CompanyDomain,
            Location:      m.Location,
            Email:         m.Email,
            LinkedinURL:   m.LinkedinURL,
        }
        if err := b.Enrollments.InsertContact(ctx, q, &c); err != nil {
            return nil, err
        }
        contacts = append(contacts, c)
    }
    return contacts, nil
}
