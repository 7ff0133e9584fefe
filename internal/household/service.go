package household

import (
	"context"
	"fmt"

	"github.com/tmasri/hometab/pkg/apperrors"
	"github.com/tmasri/hometab/pkg/validate"
)

// Common errors
var (
	ErrHouseholdNotFound   = fmt.Errorf("%w: household not found", apperrors.ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("%w: member not found", apperrors.ErrNotFound)
	ErrMemberAlreadyExists = fmt.Errorf("%w: user is already a member of this household", apperrors.ErrInvalidRequest)
	ErrNotAdmin            = fmt.Errorf("%w: only a household admin can do this", apperrors.ErrForbidden)
)

// Store is the persistence surface the household service needs.
type Store interface {
	Create(ctx context.Context, req *CreateHouseholdRequest) (*Household, error)
	GetByID(ctx context.Context, id int64) (*Household, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Household, int, error)
	Update(ctx context.Context, id int64, req *UpdateHouseholdRequest) (*Household, error)
	AddMember(ctx context.Context, householdID int64, req *AddMemberRequest) (*Member, error)
	GetMembers(ctx context.Context, householdID int64) ([]*Member, error)
	GetMember(ctx context.Context, householdID, userID int64) (*Member, error)
	RemoveMember(ctx context.Context, householdID, userID int64) error
}

// Service handles household business logic
type Service struct {
	store Store
}

// NewService creates a new household service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create creates a new household and adds the creator as admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateHouseholdRequest) (*Household, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	household, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	_, err = s.store.AddMember(ctx, household.ID, &AddMemberRequest{
		UserID: creatorID,
		Role:   MemberRoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	return household, nil
}

// GetByID retrieves a household by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Household, error) {
	household, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, ErrHouseholdNotFound
	}
	return household, nil
}

// GetByIDWithMembers retrieves a household with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*HouseholdWithMembers, error) {
	household, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &HouseholdWithMembers{Household: household, Members: members}, nil
}

// ListByUserID retrieves all households for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Household, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing household; only admins may update
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateHouseholdRequest) (*Household, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrHouseholdNotFound
	}

	member, err := s.store.GetMember(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Role != MemberRoleAdmin {
		return nil, ErrNotAdmin
	}

	return s.store.Update(ctx, id, req)
}

// AddMember adds a user to a household
func (s *Service) AddMember(ctx context.Context, householdID int64, req *AddMemberRequest) (*Member, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	household, err := s.store.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, ErrHouseholdNotFound
	}

	existing, err := s.store.GetMember(ctx, householdID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	return s.store.AddMember(ctx, householdID, req)
}

// GetMembers retrieves all members of a household
func (s *Service) GetMembers(ctx context.Context, householdID int64) ([]*Member, error) {
	household, err := s.store.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, ErrHouseholdNotFound
	}

	return s.store.GetMembers(ctx, householdID)
}

// RemoveMember removes a user from a household
func (s *Service) RemoveMember(ctx context.Context, householdID, userID int64) error {
	member, err := s.store.GetMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	return s.store.RemoveMember(ctx, householdID, userID)
}
