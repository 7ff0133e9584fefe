package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmasri/hometab/internal/database"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// exec returns the ambient transaction when the context carries one, so the
// method joins whatever transactional scope the caller opened.
func (r *Repository) exec(ctx context.Context) database.Executor {
	return database.FromContext(ctx, r.db)
}

// Create inserts a new payment into the database
func (r *Repository) Create(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (household_id, from_user_id, to_user_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.exec(ctx).QueryRowContext(ctx, query,
		payment.HouseholdID,
		payment.FromUserID,
		payment.ToUserID,
		payment.Amount,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// ListByHousehold retrieves payments for a household with pagination
func (r *Repository) ListByHousehold(ctx context.Context, householdID int64, limit, offset int) ([]*Payment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payments WHERE household_id = $1`
	if err := r.exec(ctx).QueryRowContext(ctx, countQuery, householdID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `
		SELECT p.id, p.household_id, p.from_user_id, p.to_user_id, p.amount, p.created_at,
		       uf.username, ut.username
		FROM payments p
		JOIN users uf ON p.from_user_id = uf.id
		JOIN users ut ON p.to_user_id = ut.id
		WHERE p.household_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		payment := &Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.HouseholdID,
			&payment.FromUserID,
			&payment.ToUserID,
			&payment.Amount,
			&payment.CreatedAt,
			&payment.FromUsername,
			&payment.ToUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, total, nil
}

// ListAllByHousehold retrieves every payment in a household, unpaginated,
// for balance calculation.
func (r *Repository) ListAllByHousehold(ctx context.Context, householdID int64) ([]*Payment, error) {
	query := `
		SELECT id, household_id, from_user_id, to_user_id, amount, created_at
		FROM payments
		WHERE household_id = $1
		ORDER BY id
	`

	rows, err := r.exec(ctx).QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		payment := &Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.HouseholdID,
			&payment.FromUserID,
			&payment.ToUserID,
			&payment.Amount,
			&payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}
