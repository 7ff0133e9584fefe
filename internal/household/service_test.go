package household

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmasri/hometab/pkg/apperrors"
)

type fakeStore struct {
	nextID     int64
	households map[int64]*Household
	members    map[int64]map[int64]*Member
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		households: make(map[int64]*Household),
		members:    make(map[int64]map[int64]*Member),
	}
}

func (s *fakeStore) Create(ctx context.Context, req *CreateHouseholdRequest) (*Household, error) {
	s.nextID++
	h := &Household{ID: s.nextID, Name: req.Name, Description: req.Description}
	s.households[h.ID] = h
	return h, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*Household, error) {
	return s.households[id], nil
}

func (s *fakeStore) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Household, int, error) {
	var out []*Household
	for id, byUser := range s.members {
		if _, ok := byUser[userID]; ok {
			out = append(out, s.households[id])
		}
	}
	return out, len(out), nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, req *UpdateHouseholdRequest) (*Household, error) {
	h := s.households[id]
	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = req.Description
	}
	return h, nil
}

func (s *fakeStore) AddMember(ctx context.Context, householdID int64, req *AddMemberRequest) (*Member, error) {
	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}
	m := &Member{HouseholdID: householdID, UserID: req.UserID, Role: role}
	if s.members[householdID] == nil {
		s.members[householdID] = make(map[int64]*Member)
	}
	s.members[householdID][req.UserID] = m
	return m, nil
}

func (s *fakeStore) GetMembers(ctx context.Context, householdID int64) ([]*Member, error) {
	var out []*Member
	for _, m := range s.members[householdID] {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeStore) GetMember(ctx context.Context, householdID, userID int64) (*Member, error) {
	return s.members[householdID][userID], nil
}

func (s *fakeStore) RemoveMember(ctx context.Context, householdID, userID int64) error {
	delete(s.members[householdID], userID)
	return nil
}

func TestCreate_AddsCreatorAsAdmin(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	h, err := svc.Create(context.Background(), 7, &CreateHouseholdRequest{Name: "flat 12"})
	require.NoError(t, err)

	member, err := store.GetMember(context.Background(), h.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, MemberRoleAdmin, member.Role)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Create(context.Background(), 1, &CreateHouseholdRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestAddMember_DuplicateRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	h, err := svc.Create(context.Background(), 1, &CreateHouseholdRequest{Name: "flat"})
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), h.ID, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), h.ID, &AddMemberRequest{UserID: 2})
	assert.ErrorIs(t, err, ErrMemberAlreadyExists)
}

func TestAddMember_UnknownHousehold(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.AddMember(context.Background(), 42, &AddMemberRequest{UserID: 2})
	assert.ErrorIs(t, err, ErrHouseholdNotFound)
}

func TestUpdate_OnlyAdmins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	h, err := svc.Create(context.Background(), 1, &CreateHouseholdRequest{Name: "flat"})
	require.NoError(t, err)
	_, err = svc.AddMember(context.Background(), h.ID, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)

	name := "renamed"
	_, err = svc.Update(context.Background(), h.ID, 2, &UpdateHouseholdRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(context.Background(), h.ID, 1, &UpdateHouseholdRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestRemoveMember_NotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	h, err := svc.Create(context.Background(), 1, &CreateHouseholdRequest{Name: "flat"})
	require.NoError(t, err)

	err = svc.RemoveMember(context.Background(), h.ID, 99)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	err = svc.RemoveMember(context.Background(), h.ID, 1)
	require.NoError(t, err)
}
