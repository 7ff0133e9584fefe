package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmasri/hometab/internal/database"
)

// Repository handles expense and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// exec returns the ambient transaction when the context carries one, so the
// method joins whatever transactional scope the caller opened.
func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// CreateWithParticipants inserts an expense and all its participant rows in
// a single transaction, so validation-passed writes are atomic with respect
// to other writers on the same household. A transaction already carried by
// the context is joined instead of starting a new one.
func (r *Repository) CreateWithParticipants(ctx context.Context, expense *Expense, participants []*Participant) error {
	return database.InTx(ctx, r.db, func(ctx context.Context) error {
		expenseQuery := `
			INSERT INTO expenses (household_id, payer_id, description, amount, date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		err := r.exec(ctx).QueryRowContext(ctx, expenseQuery,
			expense.HouseholdID,
			expense.PayerID,
			expense.Description,
			expense.Amount,
			expense.Date,
		).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		participantQuery := `
			INSERT INTO expense_participants (expense_id, user_id, share)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		for _, p := range participants {
			p.ExpenseID = expense.ID
			if err := r.exec(ctx).QueryRowContext(ctx, participantQuery, p.ExpenseID, p.UserID, p.Share).Scan(&p.ID); err != nil {
				return fmt.Errorf("failed to create participant: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.household_id, e.payer_id, e.description, e.amount, e.date, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.exec(ctx).QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.HouseholdID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.Date,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetParticipants retrieves all participant shares for an expense
func (r *Repository) GetParticipants(ctx context.Context, expenseID int64) ([]*Participant, error) {
	query := `
		SELECT p.id, p.expense_id, p.user_id, p.share, u.username
		FROM expense_participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.expense_id = $1
		ORDER BY p.id
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.UserID, &p.Share, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// ListByHousehold retrieves expenses for a household with pagination
func (r *Repository) ListByHousehold(ctx context.Context, householdID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE household_id = $1`
	if err := r.exec(ctx).QueryRowContext(ctx, countQuery, householdID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.household_id, e.payer_id, e.description, e.amount, e.date, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.household_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.HouseholdID,
			&expense.PayerID,
			&expense.Description,
			&expense.Amount,
			&expense.Date,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// ListAllByHousehold retrieves every expense in a household, unpaginated.
// Used by the balance calculation, which always folds the full ledger.
func (r *Repository) ListAllByHousehold(ctx context.Context, householdID int64) ([]*Expense, error) {
	query := `
		SELECT id, household_id, payer_id, description, amount, date, created_at, updated_at
		FROM expenses
		WHERE household_id = $1
		ORDER BY id
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.HouseholdID,
			&expense.PayerID,
			&expense.Description,
			&expense.Amount,
			&expense.Date,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, nil
}

// ListParticipantsByHousehold retrieves every participant share tied to a
// household's expenses, unpaginated, for balance calculation.
func (r *Repository) ListParticipantsByHousehold(ctx context.Context, householdID int64) ([]*Participant, error) {
	query := `
		SELECT p.id, p.expense_id, p.user_id, p.share
		FROM expense_participants p
		JOIN expenses e ON p.expense_id = e.id
		WHERE e.household_id = $1
		ORDER BY p.id
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.UserID, &p.Share); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}
