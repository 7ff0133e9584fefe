package household

import "time"

// MemberRole represents the role of a household member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// Household represents a household: the tenancy boundary every expense,
// participant, and payment row is partitioned by.
type Household struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member represents a user's membership in a household
type Member struct {
	ID          int64      `json:"id"`
	HouseholdID int64      `json:"household_id"`
	UserID      int64      `json:"user_id"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`

	// Populated from JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
