// internal/service/enrollment_service.go
package service

import (
    "context"
    "log"
    "strconv"
    "time"

    "github.com/leadloop/outreach-backend/internal/enrich"
    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
    "github.com/leadloop/outreach-backend/internal/repository"
)

type EnrollmentService struct {
    DB           repository.Querier
    Runner       repository.TxRunner
    CampaignRepo repository.CampaignRepositoryInterface
    ListRepo     repository.TargetListRepositoryInterface
    EnrollRepo   repository.EnrollmentRepositoryInterface
    StateRepo    repository.OutreachStateRepositoryInterface
    Snapshot     *SnapshotBuilder
    Dispatcher   *enrich.Dispatcher
}

// TargetingResult reports what a targeting submission did.
type TargetingResult struct {
    EnrollmentID        string `json:"enrollment_id"`
    ContactsEnrolled    int    `json:"contacts_enrolled"`
    ReplacedEnrollments int64  `json:"replaced_enrollments"`
}

// EnrollmentDetails is the active enrollment plus outreach progress counts.
type EnrollmentDetails struct {
    Enrollment *model.CampaignEnrollment `json:"enrollment"`
    Stats      map[string]int            `json:"stats"`
}

// SetTargeting replaces a campaign's entire targeting in one transaction:
// delete the prior enrollment set, create the new enrollment, freeze the
// snapshot, initialize outreach state per contact, bump the source list's
// usage counter. All five steps commit together or none do. The counter is
// cumulative: retargeting with the same list bumps it again, because every
// call is a distinct enrollment event.
func (s *EnrollmentService) SetTargeting(ctx context.Context, actorID, campaignID int, method string, sourceListID int) (*TargetingResult, error) {
    result := &TargetingResult{}
    var contacts []model.EnrolledContact
    var campaign *model.Campaign

    err := s.Runner.RunInTx(ctx, func(q repository.Querier) error {
        // The row lock serializes concurrent targeting of the same campaign;
        // the delete-then-recreate below is only safe single file.
        c, err := s.CampaignRepo.GetOwnedForUpdate(ctx, q, campaignID, actorID)
        if err != nil {
            return err
        }
        campaign = c

        deleted, err := s.EnrollRepo.DeleteByCampaign(ctx, q, campaignID)
        if err != nil {
            return err
        }
        result.ReplacedEnrollments = deleted

        list, err := s.ListRepo.GetWithMembers(ctx, q, sourceListID)
        if err != nil {
            return err
        }
        if list.OwnerID != actorID {
            return appErrors.NewNotFound("target list", strconv.Itoa(sourceListID))
        }

        enrollment := &model.CampaignEnrollment{
            CampaignID:      campaignID,
            SourceListID:    sourceListID,
            TargetingMethod: method,
            ListName:        list.Name,
            ListDescription: list.Description,
            MemberCount:     len(list.Members),
        }
        if err := s.EnrollRepo.Create(ctx, q, enrollment); err != nil {
            return err
        }

        contacts, err = s.Snapshot.Build(ctx, q, enrollment, list)
        if err != nil {
            return err
        }

        now := time.Now()
        for i := range contacts {
            state := model.NewOutreachState(contacts[i].ID, now)
            if err := s.StateRepo.Create(ctx, q, state); err != nil {
                return err
            }
        }

        if err := s.ListRepo.IncrementUsage(ctx, q, sourceListID); err != nil {
            return err
        }

        if err := s.CampaignRepo.UpdateStatus(ctx, q, campaignID, "targeted"); err != nil {
            return err
        }

        result.EnrollmentID = enrollment.ID
        result.ContactsEnrolled = len(contacts)
        return nil
    })
    if err != nil {
        return nil, err
    }

    // Best effort, after commit: the enrollment stands regardless of what
    // happens to these messages.
    s.dispatchEnrichment(ctx, campaign.OwnerID, actorID, campaignID, contacts)

    return result, nil
}

// dispatchEnrichment queues email discovery for contacts missing an address
// and low-priority profile enrichment for everyone else. Failures are logged
// and retried out of band, never surfaced to the targeting caller.
func (s *EnrollmentService) dispatchEnrichment(ctx context.Context, accountID, actorID, campaignID int, contacts []model.EnrolledContact) {
    if s.Dispatcher == nil || len(contacts) == 0 {
        return
    }

    msgs := make([]enrich.Message, 0, len(contacts))
    for _, c := range contacts {
        msg := enrich.Message{
            EnrolledContactID:    c.ID,
            CampaignEnrollmentID: c.EnrollmentID,
            CampaignID:           campaignID,
            ProfileID:            c.ProfileID,
            AccountID:            accountID,
            UserID:               actorID,
        }
        if c.Email == "" {
            msg.Type = enrich.TypeEmailEnrichment
            msg.Priority = enrich.PriorityHigh
        } else {
            msg.Type = enrich.TypeProfileEnrichment
            msg.Priority = enrich.PriorityLow
        }
        msgs = append(msgs, msg)
    }

    report, err := s.Dispatcher.DispatchBatch(ctx, msgs)
    if err != nil {
        log.Println("⚠️ enrichment dispatch failed:", err)
        return
    }
    if len(report.Failed) > 0 {
        log.Printf("⚠️ %d enrichment messages undelivered for campaign %d, will retry out of band\n", len(report.Failed), campaignID)
    }
}

func (s *EnrollmentService) CreateCampaign(ctx context.Context, ownerID int, name string) (*model.Campaign, error) {
    c := &model.Campaign{
        OwnerID: ownerID,
        Name:    name,
        Status:  "draft",
    }
    if err := s.CampaignRepo.Create(ctx, s.DB, c); err != nil {
        return nil, err
    }
    return c, nil
}

// GetEnrollmentDetails returns the campaign's current enrollment with
// aggregated outreach stats.
func (s *EnrollmentService) GetEnrollmentDetails(ctx context.Context, actorID, campaignID int) (*EnrollmentDetails, error) {
    if _, err := s.CampaignRepo.GetOwned(ctx, s.DB, campaignID, actorID); err != nil {
        return nil, err
    }

    enrollment, err := s.EnrollRepo.GetByCampaign(ctx, s.DB, campaignID)
    if err != nil {
        return nil, err
    }

    stats, err := s.StateRepo.StatsByEnrollment(ctx, s.DB, enrollment.ID)
    if err != nil {
        return nil, err
    }

    return &EnrollmentDetails{Enrollment: enrollment, Stats: stats}, nil
}
