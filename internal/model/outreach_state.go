// internal/model/outreach_state.go
package model

import (
    "fmt"
    "time"
)

const (
    EmailStatusPending = "pending"
    EmailStatusSent    = "sent"
    EmailStatusBounced = "bounced"
    EmailStatusFailed  = "failed"
)

const (
    ResponseStatusNone    = "none"
    ResponseStatusOpened  = "opened"
    ResponseStatusClicked = "clicked"
    ResponseStatusReplied = "replied"
)

// emailTransitions enumerates the legal emailStatus moves. sent→sent covers
// follow-up sends in multi-step sequences.
var emailTransitions = map[string][]string{
    EmailStatusPending: {EmailStatusSent},
    EmailStatusSent:    {EmailStatusSent, EmailStatusBounced, EmailStatusFailed},
    EmailStatusBounced: {},
    EmailStatusFailed:  {},
}

// responseRank orders engagement so a late-arriving lower event can never
// regress responseStatus. Merging always takes the max.
var responseRank = map[string]int{
    ResponseStatusNone:    0,
    ResponseStatusOpened:  1,
    ResponseStatusClicked: 2,
    ResponseStatusReplied: 3,
}

// OutreachState tracks delivery, engagement, and sequencing for one enrolled
// contact. One row per contact, created alongside it, mutated only through the
// transition methods below.
type OutreachState struct {
    EnrolledContactID   string     `db:"enrolled_contact_id" json:"enrolled_contact_id"`
    EmailStatus         string     `db:"email_status" json:"email_status"`
    ResponseStatus      string     `db:"response_status" json:"response_status"`
    EmailsSentCount     int        `db:"emails_sent_count" json:"emails_sent_count"`
    OpenCount           int        `db:"open_count" json:"open_count"`
    ClickCount          int        `db:"click_count" json:"click_count"`
    ReplyCount          int        `db:"reply_count" json:"reply_count"`
    CurrentSequenceStep int        `db:"current_sequence_step" json:"current_sequence_step"`
    NextScheduledAt     *time.Time `db:"next_scheduled_contact" json:"next_scheduled_contact,omitempty"`
    IsActive            bool       `db:"is_active" json:"is_active"`
    PausedAt            *time.Time `db:"paused_at" json:"paused_at,omitempty"`
    PauseReason         string     `db:"pause_reason" json:"pause_reason,omitempty"`
    UnsubscribedAt      *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
    UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// NewOutreachState returns the defaults a contact starts with at enrollment.
func NewOutreachState(contactID string, now time.Time) *OutreachState {
    return &OutreachState{
        EnrolledContactID:   contactID,
        EmailStatus:         EmailStatusPending,
        ResponseStatus:      ResponseStatusNone,
        CurrentSequenceStep: 1,
        IsActive:            true,
        UpdatedAt:           now,
    }
}

func (s *OutreachState) transitionEmail(to string) error {
    for _, allowed := range emailTransitions[s.EmailStatus] {
        if allowed == to {
            s.EmailStatus = to
            return nil
        }
    }
    return fmt.Errorf("illegal email status transition %s -> %s", s.EmailStatus, to)
}

// RecordEmailSent marks one delivered send. Legal from pending or sent.
func (s *OutreachState) RecordEmailSent(now time.Time) error {
    if err := s.transitionEmail(EmailStatusSent); err != nil {
        return err
    }
    s.EmailsSentCount++
    s.UpdatedAt = now
    return nil
}

func (s *OutreachState) RecordBounce(now time.Time) error {
    if err := s.transitionEmail(EmailStatusBounced); err != nil {
        return err
    }
    s.UpdatedAt = now
    return nil
}

func (s *OutreachState) RecordFailed(now time.Time) error {
    if err := s.transitionEmail(EmailStatusFailed); err != nil {
        return err
    }
    s.UpdatedAt = now
    return nil
}

// mergeResponse advances responseStatus to the max of current and incoming.
// Out-of-order events (a reply recorded before its open) still count, but can
// never move the status backward.
func (s *OutreachState) mergeResponse(incoming string) {
    if responseRank[incoming] > responseRank[s.ResponseStatus] {
        s.ResponseStatus = incoming
    }
}

func (s *OutreachState) RecordOpen(now time.Time) {
    s.OpenCount++
    s.mergeResponse(ResponseStatusOpened)
    s.UpdatedAt = now
}

func (s *OutreachState) RecordClick(now time.Time) {
    s.ClickCount++
    s.mergeResponse(ResponseStatusClicked)
    s.UpdatedAt = now
}

func (s *OutreachState) RecordReply(now time.Time) {
    s.ReplyCount++
    s.mergeResponse(ResponseStatusReplied)
    s.UpdatedAt = now
}

// Pause takes the contact out of scheduling. No automatic resume; repeated
// pauses keep the first timestamp and reason.
func (s *OutreachState) Pause(reason string, now time.Time) {
    if !s.IsActive {
        return
    }
    s.IsActive = false
    s.PausedAt = &now
    s.PauseReason = reason
    s.NextScheduledAt = nil
    s.UpdatedAt = now
}

func (s *OutreachState) Unsubscribe(now time.Time) {
    if s.UnsubscribedAt == nil {
        s.UnsubscribedAt = &now
    }
    s.IsActive = false
    s.NextScheduledAt = nil
    s.UpdatedAt = now
}

// AdvanceSequence moves the cursor to the next touch. Rejected for inactive
// contacts so a paused or unsubscribed contact never gets rescheduled.
func (s *OutreachState) AdvanceSequence(nextContactAt time.Time, now time.Time) error {
    if !s.IsActive {
        return fmt.Errorf("contact %s is inactive, sequence cannot advance", s.EnrolledContactID)
    }
    s.CurrentSequenceStep++
    s.NextScheduledAt = &nextContactAt
    s.UpdatedAt = now
    return nil
}
