package household

// CreateHouseholdRequest represents the request to create a household
type CreateHouseholdRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateHouseholdRequest represents the request to update a household
type UpdateHouseholdRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// AddMemberRequest represents the request to add a member to a household
type AddMemberRequest struct {
	UserID int64      `json:"user_id" validate:"required,gt=0"`
	Role   MemberRole `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MEMBER"`
}

// HouseholdWithMembers combines a household with its member list
type HouseholdWithMembers struct {
	Household *Household `json:"household"`
	Members   []*Member  `json:"members"`
}
