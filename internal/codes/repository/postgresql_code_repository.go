// Package repository provides the PostgreSQL and MySQL implementations of the code pool
// repositories.
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

const codeRecordColumns = `id, plan_id, secret_hash, secret_mask, ciphertext, created_at`

// PostgreSQLCodeRepository handles code record persistence for PostgreSQL.
type PostgreSQLCodeRepository struct {
	db *sql.DB
}

// NewPostgreSQLCodeRepository creates a new PostgreSQLCodeRepository.
func NewPostgreSQLCodeRepository(db *sql.DB) *PostgreSQLCodeRepository {
	return &PostgreSQLCodeRepository{db: db}
}

// Create inserts a code record. A second record with the same hash in the same plan
// fails with ErrDuplicateSecret.
func (r *PostgreSQLCodeRepository) Create(ctx context.Context, record *codesDomain.CodeRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO code_records (` + codeRecordColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query, record.ID, record.PlanID, record.SecretHash,
		record.SecretMask, record.Ciphertext, record.CreatedAt)
	if database.IsUniqueViolation(err) {
		return codesDomain.ErrDuplicateSecret
	}
	return database.Classify(err)
}

// GetByPlanAndHash finds a record by secret hash within a plan.
func (r *PostgreSQLCodeRepository) GetByPlanAndHash(
	ctx context.Context,
	planID uuid.UUID,
	secretHash string,
) (*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + codeRecordColumns + ` FROM code_records WHERE plan_id = $1 AND secret_hash = $2`

	record, err := scanPostgreSQLCodeRecord(querier.QueryRowContext(ctx, query, planID, secretHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, codesDomain.ErrCodeNotFound
	}
	return record, err
}

// LockOldest selects the oldest record of the plan with FOR UPDATE SKIP LOCKED, so
// concurrent claims each lock a different row.
func (r *PostgreSQLCodeRepository) LockOldest(
	ctx context.Context,
	planID uuid.UUID,
) (*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + codeRecordColumns + `
			  FROM code_records
			  WHERE plan_id = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT 1
			  FOR UPDATE SKIP LOCKED`

	record, err := scanPostgreSQLCodeRecord(querier.QueryRowContext(ctx, query, planID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, codesDomain.ErrPoolExhausted
	}
	return record, err
}

// Delete removes a record by id.
func (r *PostgreSQLCodeRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM code_records WHERE id = $1`, recordID)
	if err != nil {
		return database.Classify(err)
	}
	return requireOneRow(result)
}

// CountByPlan returns the number of unclaimed records of the plan.
func (r *PostgreSQLCodeRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, r.db)

	var count int
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM code_records WHERE plan_id = $1`, planID).
		Scan(&count)
	return count, database.Classify(err)
}

// DeleteByPlan removes every record of the plan.
func (r *PostgreSQLCodeRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM code_records WHERE plan_id = $1`, planID)
	if err != nil {
		return 0, database.Classify(err)
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// ListByPlan lists records of the plan in claim order.
func (r *PostgreSQLCodeRepository) ListByPlan(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + codeRecordColumns + `
			  FROM code_records
			  WHERE plan_id = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, planID, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	records := make([]*codesDomain.CodeRecord, 0)
	for rows.Next() {
		record, err := scanPostgreSQLCodeRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLCodeRecord(row rowScanner) (*codesDomain.CodeRecord, error) {
	var record codesDomain.CodeRecord
	err := row.Scan(&record.ID, &record.PlanID, &record.SecretHash, &record.SecretMask,
		&record.Ciphertext, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, database.Classify(err)
	}
	if err := record.Validate(); err != nil {
		return nil, apperrors.Wrapf(err, "code record %s", record.ID)
	}
	return &record, nil
}

// requireOneRow maps a delete that matched nothing to ErrCodeAlreadyClaimed.
func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return database.Classify(err)
	}
	if affected == 0 {
		return codesDomain.ErrCodeAlreadyClaimed
	}
	return nil
}
