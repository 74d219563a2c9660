package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/database"
	apperrors "github.com/allisson/codepool/internal/errors"
)

// MySQLPlanRepository handles plan persistence for MySQL.
type MySQLPlanRepository struct {
	db *sql.DB
}

// NewMySQLPlanRepository creates a new MySQLPlanRepository.
func NewMySQLPlanRepository(db *sql.DB) *MySQLPlanRepository {
	return &MySQLPlanRepository{db: db}
}

// Create inserts a plan. Matching attributes fail with ErrPlanAlreadyExists.
func (r *MySQLPlanRepository) Create(ctx context.Context, plan *codesDomain.Plan) error {
	querier := database.GetTx(ctx, r.db)

	id, err := plan.ID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, plan.Name, plan.Kind, plan.PriceCents,
		plan.DataAllowance, plan.DurationDays, plan.CreatedAt)
	if database.IsUniqueViolation(err) {
		return codesDomain.ErrPlanAlreadyExists
	}
	return database.Classify(err)
}

// Get retrieves a plan by id.
func (r *MySQLPlanRepository) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := planID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	return scanMySQLPlan(querier.QueryRowContext(ctx, query, id))
}

// GetByAttributes finds the plan whose attributes all match.
func (r *MySQLPlanRepository) GetByAttributes(
	ctx context.Context,
	attrs codesDomain.PlanAttributes,
) (*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + planColumns + `
			  FROM plans
			  WHERE name = ? AND kind = ? AND data_allowance = ? AND duration_days = ? AND price_cents = ?`

	return scanMySQLPlan(querier.QueryRowContext(ctx, query, attrs.Name, attrs.Kind,
		attrs.DataAllowance, attrs.DurationDays, attrs.PriceCents))
}

// Delete removes a plan.
func (r *MySQLPlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	id, err := planID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return database.Classify(err)
	}
	return requirePlanRow(result)
}

// List returns plans ordered by creation time.
func (r *MySQLPlanRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	plans := make([]*codesDomain.Plan, 0)
	for rows.Next() {
		plan, err := scanMySQLPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return plans, nil
}

func scanMySQLPlan(row rowScanner) (*codesDomain.Plan, error) {
	var plan codesDomain.Plan
	var id []byte

	err := row.Scan(&id, &plan.Name, &plan.Kind, &plan.PriceCents,
		&plan.DataAllowance, &plan.DurationDays, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, codesDomain.ErrPlanNotFound
		}
		return nil, database.Classify(err)
	}
	if err := plan.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(codesDomain.ErrInvalidRecord, err.Error())
	}
	if err := plan.Validate(); err != nil {
		return nil, apperrors.Wrapf(err, "plan %s", plan.ID)
	}
	return &plan, nil
}
