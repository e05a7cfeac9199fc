// internal/service/store_mock_test.go
package service_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/leadloop/outreach-backend/internal/errors"
	"github.com/leadloop/outreach-backend/internal/model"
	"github.com/leadloop/outreach-backend/internal/repository"
)

// memStore is an in-memory stand-in for Postgres. RunInTx holds one big lock
// and restores a pre-transaction snapshot on error, which mimics both the
// isolation and the rollback the real store gives us.
type memStore struct {
	mu sync.Mutex

	nextCampaignID int
	nextListID     int

	lockedCampaigns []int

	campaigns   map[int]*model.Campaign
	lists       map[int]*model.TargetListWithMembers
	enrollments map[string]*model.CampaignEnrollment
	contacts    map[string]*model.EnrolledContact
	states      map[string]*model.OutreachState
}

func newMemStore() *memStore {
	return &memStore{
		campaigns:   make(map[int]*model.Campaign),
		lists:       make(map[int]*model.TargetListWithMembers),
		enrollments: make(map[string]*model.CampaignEnrollment),
		contacts:    make(map[string]*model.EnrolledContact),
		states:      make(map[string]*model.OutreachState),
	}
}

func (s *memStore) addCampaign(ownerID int, name string) *model.Campaign {
	s.nextCampaignID++
	c := &model.Campaign{ID: s.nextCampaignID, OwnerID: ownerID, Name: name, Status: "draft", CreatedAt: time.Now()}
	s.campaigns[c.ID] = c
	return c
}

func (s *memStore) addList(ownerID int, listType string, memberCount int) *model.TargetListWithMembers {
	s.nextListID++
	list := &model.TargetListWithMembers{
		TargetList: model.TargetList{
			ID:       s.nextListID,
			OwnerID:  ownerID,
			Name:     fmt.Sprintf("list-%d", s.nextListID),
			ListType: listType,
		},
	}
	for i := 0; i < memberCount; i++ {
		m := model.TargetListMember{
			ID:        i + 1,
			ListID:    list.ID,
			ProfileID: fmt.Sprintf("p-%d-%d", list.ID, i+1),
			FirstName: fmt.Sprintf("First%d", i+1),
			LastName:  fmt.Sprintf("Last%d", i+1),
		}
		if i%2 == 0 {
			m.Email = fmt.Sprintf("contact%d@example.com", i+1)
		}
		list.Members = append(list.Members, m)
	}
	s.lists[list.ID] = list
	return list
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	clone.nextCampaignID = s.nextCampaignID
	clone.nextListID = s.nextListID
	for id, c := range s.campaigns {
		cc := *c
		clone.campaigns[id] = &cc
	}
	for id, l := range s.lists {
		ll := *l
		ll.Members = append([]model.TargetListMember(nil), l.Members...)
		clone.lists[id] = &ll
	}
	for id, e := range s.enrollments {
		ee := *e
		clone.enrollments[id] = &ee
	}
	for id, c := range s.contacts {
		cc := *c
		clone.contacts[id] = &cc
	}
	for id, st := range s.states {
		ss := *st
		clone.states[id] = &ss
	}
	return clone
}

func (s *memStore) restore(from *memStore) {
	s.nextCampaignID = from.nextCampaignID
	s.nextListID = from.nextListID
	s.campaigns = from.campaigns
	s.lists = from.lists
	s.enrollments = from.enrollments
	s.contacts = from.contacts
	s.states = from.states
}

func (s *memStore) RunInTx(ctx context.Context, fn func(q repository.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

var _ repository.TxRunner = (*memStore)(nil)

// ---- campaign repo ----

type memCampaignRepo struct{ s *memStore }

func (r *memCampaignRepo) Create(ctx context.Context, q repository.Querier, c *model.Campaign) error {
	r.s.nextCampaignID++
	c.ID = r.s.nextCampaignID
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = "draft"
	}
	cc := *c
	r.s.campaigns[c.ID] = &cc
	return nil
}

func (r *memCampaignRepo) GetByID(ctx context.Context, q repository.Querier, id int) (*model.Campaign, error) {
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
	}
	cc := *c
	return &cc, nil
}

func (r *memCampaignRepo) GetOwned(ctx context.Context, q repository.Querier, id, ownerID int) (*model.Campaign, error) {
	c, err := r.GetByID(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, appErrors.NewNotFound("campaign", strconv.Itoa(id))
	}
	return c, nil
}

func (r *memCampaignRepo) GetOwnedForUpdate(ctx context.Context, q repository.Querier, id, ownerID int) (*model.Campaign, error) {
	c, err := r.GetOwned(ctx, q, id, ownerID)
	if err != nil {
		return nil, err
	}
	r.s.lockedCampaigns = append(r.s.lockedCampaigns, id)
	return c, nil
}

func (r *memCampaignRepo) UpdateStatus(ctx context.Context, q repository.Querier, campaignID int, status string) error {
	c, ok := r.s.campaigns[campaignID]
	if !ok {
		return appErrors.NewNotFound("campaign", strconv.Itoa(campaignID))
	}
	c.Status = status
	return nil
}

var _ repository.CampaignRepositoryInterface = (*memCampaignRepo)(nil)

// ---- target list repo ----

type memListRepo struct{ s *memStore }

func (r *memListRepo) GetWithMembers(ctx context.Context, q repository.Querier, id int) (*model.TargetListWithMembers, error) {
	l, ok := r.s.lists[id]
	if !ok {
		return nil, appErrors.NewNotFound("target list", strconv.Itoa(id))
	}
	ll := *l
	ll.Members = append([]model.TargetListMember(nil), l.Members...)
	return &ll, nil
}

func (r *memListRepo) IncrementUsage(ctx context.Context, q repository.Querier, id int) error {
	l, ok := r.s.lists[id]
	if !ok {
		return appErrors.NewNotFound("target list", strconv.Itoa(id))
	}
	l.CampaignCount++
	l.UsedInCampaigns = true
	return nil
}

var _ repository.TargetListRepositoryInterface = (*memListRepo)(nil)

// ---- enrollment repo ----

type memEnrollRepo struct{ s *memStore }

func (r *memEnrollRepo) DeleteByCampaign(ctx context.Context, q repository.Querier, campaignID int) (int64, error) {
	var deleted int64
	for id, e := range r.s.enrollments {
		if e.CampaignID != campaignID {
			continue
		}
		for cid, c := range r.s.contacts {
			if c.EnrollmentID == id {
				delete(r.s.contacts, cid)
				delete(r.s.states, cid)
			}
		}
		delete(r.s.enrollments, id)
		deleted++
	}
	return deleted, nil
}

func (r *memEnrollRepo) Create(ctx context.Context, q repository.Querier, e *model.CampaignEnrollment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = model.EnrollmentStatusActive
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	ee := *e
	r.s.enrollments[e.ID] = &ee
	return nil
}

func (r *memEnrollRepo) GetByCampaign(ctx context.Context, q repository.Querier, campaignID int) (*model.CampaignEnrollment, error) {
	for _, e := range r.s.enrollments {
		if e.CampaignID == campaignID {
			ee := *e
			return &ee, nil
		}
	}
	return nil, appErrors.NewNotFound("enrollment for campaign", strconv.Itoa(campaignID))
}

func (r *memEnrollRepo) InsertContact(ctx context.Context, q repository.Querier, c *model.EnrolledContact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cc := *c
	r.s.contacts[c.ID] = &cc
	return nil
}

var _ repository.EnrollmentRepositoryInterface = (*memEnrollRepo)(nil)

// ---- outreach state repo ----

type memStateRepo struct {
	s *memStore

	// failCreate makes Create error, to force a rollback mid setTargeting.
	failCreate bool
}

func (r *memStateRepo) Create(ctx context.Context, q repository.Querier, st *model.OutreachState) error {
	if r.failCreate {
		return fmt.Errorf("simulated storage failure")
	}
	ss := *st
	r.s.states[st.EnrolledContactID] = &ss
	return nil
}

func (r *memStateRepo) GetForUpdate(ctx context.Context, q repository.Querier, contactID string) (*model.OutreachState, error) {
	st, ok := r.s.states[contactID]
	if !ok {
		return nil, appErrors.NewNotFound("enrolled contact", contactID)
	}
	ss := *st
	return &ss, nil
}

func (r *memStateRepo) Save(ctx context.Context, q repository.Querier, st *model.OutreachState) error {
	if _, ok := r.s.states[st.EnrolledContactID]; !ok {
		return appErrors.NewInvariantViolation("outreach state for contact %s disappeared during update", st.EnrolledContactID)
	}
	ss := *st
	r.s.states[st.EnrolledContactID] = &ss
	return nil
}

func (r *memStateRepo) GetContactOwner(ctx context.Context, q repository.Querier, contactID string) (int, error) {
	c, ok := r.s.contacts[contactID]
	if !ok {
		return 0, appErrors.NewNotFound("enrolled contact", contactID)
	}
	e, ok := r.s.enrollments[c.EnrollmentID]
	if !ok {
		return 0, appErrors.NewInvariantViolation("contact %s has no enrollment", contactID)
	}
	camp, ok := r.s.campaigns[e.CampaignID]
	if !ok {
		return 0, appErrors.NewInvariantViolation("enrollment %s has no campaign", e.ID)
	}
	return camp.OwnerID, nil
}

func (r *memStateRepo) StatsByEnrollment(ctx context.Context, q repository.Querier, enrollmentID string) (map[string]int, error) {
	stats := map[string]int{"total": 0, "active": 0, "inactive": 0}
	for cid, c := range r.s.contacts {
		if c.EnrollmentID != enrollmentID {
			continue
		}
		st, ok := r.s.states[cid]
		if !ok {
			continue
		}
		stats["total"]++
		stats[st.EmailStatus]++
		if st.IsActive {
			stats["active"]++
		} else {
			stats["inactive"]++
		}
	}
	return stats, nil
}

var _ repository.OutreachStateRepositoryInterface = (*memStateRepo)(nil)
