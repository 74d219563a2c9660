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

const planColumns = `id, name, kind, price_cents, data_allowance, duration_days, created_at`

// PostgreSQLPlanRepository handles plan persistence for PostgreSQL.
type PostgreSQLPlanRepository struct {
	db *sql.DB
}

// NewPostgreSQLPlanRepository creates a new PostgreSQLPlanRepository.
func NewPostgreSQLPlanRepository(db *sql.DB) *PostgreSQLPlanRepository {
	return &PostgreSQLPlanRepository{db: db}
}

// Create inserts a plan. Matching attributes fail with ErrPlanAlreadyExists.
func (r *PostgreSQLPlanRepository) Create(ctx context.Context, plan *codesDomain.Plan) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO plans (` + planColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, plan.ID, plan.Name, plan.Kind, plan.PriceCents,
		plan.DataAllowance, plan.DurationDays, plan.CreatedAt)
	if database.IsUniqueViolation(err) {
		return codesDomain.ErrPlanAlreadyExists
	}
	return database.Classify(err)
}

// Get retrieves a plan by id.
func (r *PostgreSQLPlanRepository) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	return scanPostgreSQLPlan(querier.QueryRowContext(ctx, query, planID))
}

// GetByAttributes finds the plan whose attributes all match.
func (r *PostgreSQLPlanRepository) GetByAttributes(
	ctx context.Context,
	attrs codesDomain.PlanAttributes,
) (*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + planColumns + `
			  FROM plans
			  WHERE name = $1 AND kind = $2 AND data_allowance = $3 AND duration_days = $4 AND price_cents = $5`

	return scanPostgreSQLPlan(querier.QueryRowContext(ctx, query, attrs.Name, attrs.Kind,
		attrs.DataAllowance, attrs.DurationDays, attrs.PriceCents))
}

// Delete removes a plan.
func (r *PostgreSQLPlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, planID)
	if err != nil {
		return database.Classify(err)
	}
	return requirePlanRow(result)
}

// List returns plans ordered by creation time.
func (r *PostgreSQLPlanRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	plans := make([]*codesDomain.Plan, 0)
	for rows.Next() {
		plan, err := scanPostgreSQLPlan(rows)
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

func scanPostgreSQLPlan(row rowScanner) (*codesDomain.Plan, error) {
	var plan codesDomain.Plan
	err := row.Scan(&plan.ID, &plan.Name, &plan.Kind, &plan.PriceCents,
		&plan.DataAllowance, &plan.DurationDays, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, codesDomain.ErrPlanNotFound
		}
		return nil, database.Classify(err)
	}
	if err := plan.Validate(); err != nil {
		return nil, apperrors.Wrapf(err, "plan %s", plan.ID)
	}
	return &plan, nil
}

func requirePlanRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return database.Classify(err)
	}
	if affected == 0 {
		return codesDomain.ErrPlanNotFound
	}
	return nil
}
