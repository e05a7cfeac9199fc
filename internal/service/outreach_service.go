// internal/service/outreach_service.go
package service

import (
    "context"
    "log"
    "time"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
    "github.com/leadloop/outreach-backend/internal/model"
    "github.com/leadloop/outreach-backend/internal/repository"
)

// OutreachService applies state machine transitions to enrolled contacts.
// Every transition runs in its own transaction with the state row locked, so
// concurrent callbacks for the same contact serialize and counters are never
// lost to a race. Transitions on different contacts run in parallel.
type OutreachService struct {
    Runner    repository.TxRunner
    StateRepo repository.OutreachStateRepositoryInterface
}

// transition loads the contact's state under lock, checks ownership, applies
// fn, and saves. fn errors roll the whole thing back.
func (s *OutreachService) transition(ctx context.Context, actorID int, contactID string, fn func(st *model.OutreachState) error) (*model.OutreachState, error) {
    var result *model.OutreachState
    err := s.Runner.RunInTx(ctx, func(q repository.Querier) error {
        ownerID, err := s.StateRepo.GetContactOwner(ctx, q, contactID)
        if err != nil {
            return err
        }
        if ownerID != actorID {
            return appErrors.NewNotFound("enrolled contact", contactID)
        }

        st, err := s.StateRepo.GetForUpdate(ctx, q, contactID)
        if err != nil {
            return err
        }

        if err := fn(st); err != nil {
            return err
        }

        if err := s.StateRepo.Save(ctx, q, st); err != nil {
            return err
        }
        result = st
        return nil
    })
    if err != nil {
        return nil, err
    }
    return result, nil
}

func (s *OutreachService) RecordEmailSent(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        if err := st.RecordEmailSent(time.Now()); err != nil {
            log.Println("⚠️ rejected email transition:", err)
            return appErrors.NewInvariantViolation("%v", err)
        }
        return nil
    })
}

func (s *OutreachService) RecordBounce(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        if err := st.RecordBounce(time.Now()); err != nil {
            log.Println("⚠️ rejected email transition:", err)
            return appErrors.NewInvariantViolation("%v", err)
        }
        return nil
    })
}

func (s *OutreachService) RecordFailed(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        if err := st.RecordFailed(time.Now()); err != nil {
            log.Println("⚠️ rejected email transition:", err)
            return appErrors.NewInvariantViolation("%v", err)
        }
        return nil
    })
}

func (s *OutreachService) RecordOpen(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        st.RecordOpen(time.Now())
        return nil
    })
}

func (s *OutreachService) RecordClick(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        st.RecordClick(time.Now())
        return nil
    })
}

func (s *OutreachService) RecordReply(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        st.RecordReply(time.Now())
        return nil
    })
}

func (s *OutreachService) Pause(ctx context.Context, actorID int, contactID, reason string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        st.Pause(reason, time.Now())
        return nil
    })
}

func (s *OutreachService) Unsubscribe(ctx context.Context, actorID int, contactID string) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        st.Unsubscribe(time.Now())
        return nil
    })
}

// AdvanceSequence schedules the next touch. Rejected for inactive contacts so
// a pause or unsubscribe really does stop the sequence.
func (s *OutreachService) AdvanceSequence(ctx context.Context, actorID int, contactID string, nextContactAt time.Time) (*model.OutreachState, error) {
    return s.transition(ctx, actorID, contactID, func(st *model.OutreachState) error {
        if !st.IsActive {
            return appErrors.NewContactInactive(contactID)
        }
        return st.AdvanceSequence(nextContactAt, time.Now())
    })
}
