package household

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmasri/hometab/internal/database"
)

// Repository handles household data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new household repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// exec returns the ambient transaction when the context carries one, so the
// method joins whatever transactional scope the caller opened.
func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// Create inserts a new household into the database
func (r *Repository) Create(ctx context.Context, req *CreateHouseholdRequest) (*Household, error) {
	query := `
		INSERT INTO households (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`

	household := &Household{}
	err := r.exec(ctx).QueryRowContext(ctx, query, req.Name, req.Description).Scan(
		&household.ID,
		&household.Name,
		&household.Description,
		&household.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	return household, nil
}

// GetByID retrieves a household by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Household, error) {
	query := `
		SELECT id, name, description, created_at
		FROM households
		WHERE id = $1
	`

	household := &Household{}
	err := r.exec(ctx).QueryRowContext(ctx, query, id).Scan(
		&household.ID,
		&household.Name,
		&household.Description,
		&household.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	return household, nil
}

// ListByUserID retrieves all households a user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Household, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT h.id)
		FROM households h
		JOIN household_members hm ON h.id = hm.household_id
		WHERE hm.user_id = $1
	`
	if err := r.exec(ctx).QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count households: %w", err)
	}

	query := `
		SELECT h.id, h.name, h.description, h.created_at
		FROM households h
		JOIN household_members hm ON h.id = hm.household_id
		WHERE hm.user_id = $1
		ORDER BY h.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var households []*Household
	for rows.Next() {
		household := &Household{}
		if err := rows.Scan(
			&household.ID,
			&household.Name,
			&household.Description,
			&household.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan household: %w", err)
		}
		households = append(households, household)
	}

	return households, total, nil
}

// Update modifies an existing household
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateHouseholdRequest) (*Household, error) {
	query := `
		UPDATE households
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_at
	`

	household := &Household{}
	err := r.exec(ctx).QueryRowContext(ctx, query, id, req.Name, req.Description).Scan(
		&household.ID,
		&household.Name,
		&household.Description,
		&household.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update household: %w", err)
	}

	return household, nil
}

// AddMember adds a user to a household
func (r *Repository) AddMember(ctx context.Context, householdID int64, req *AddMemberRequest) (*Member, error) {
	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	query := `
		INSERT INTO household_members (household_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, household_id, user_id, role, joined_at
	`

	member := &Member{}
	err := r.exec(ctx).QueryRowContext(ctx, query, householdID, req.UserID, role).Scan(
		&member.ID,
		&member.HouseholdID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a household
func (r *Repository) GetMembers(ctx context.Context, householdID int64) ([]*Member, error) {
	query := `
		SELECT hm.id, hm.household_id, hm.user_id, hm.role, hm.joined_at, u.username, u.email
		FROM household_members hm
		JOIN users u ON hm.user_id = u.id
		WHERE hm.household_id = $1
		ORDER BY hm.joined_at
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.ID,
			&member.HouseholdID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// GetMember retrieves a specific member of a household
func (r *Repository) GetMember(ctx context.Context, householdID, userID int64) (*Member, error) {
	query := `
		SELECT hm.id, hm.household_id, hm.user_id, hm.role, hm.joined_at, u.username, u.email
		FROM household_members hm
		JOIN users u ON hm.user_id = u.id
		WHERE hm.household_id = $1 AND hm.user_id = $2
	`

	member := &Member{}
	err := r.exec(ctx).QueryRowContext(ctx, query, householdID, userID).Scan(
		&member.ID,
		&member.HouseholdID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
		&member.Username,
		&member.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from a household
func (r *Repository) RemoveMember(ctx context.Context, householdID, userID int64) error {
	query := `DELETE FROM household_members WHERE household_id = $1 AND user_id = $2`

	result, err := r.exec(ctx).ExecContext(ctx, query, householdID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}
