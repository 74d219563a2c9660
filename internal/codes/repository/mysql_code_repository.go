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

// MySQLCodeRepository handles code record persistence for MySQL. UUIDs are stored as
// BINARY(16).
type MySQLCodeRepository struct {
	db *sql.DB
}

// NewMySQLCodeRepository creates a new MySQLCodeRepository.
func NewMySQLCodeRepository(db *sql.DB) *MySQLCodeRepository {
	return &MySQLCodeRepository{db: db}
}

// Create inserts a code record.
func (r *MySQLCodeRepository) Create(ctx context.Context, record *codesDomain.CodeRecord) error {
	querier := database.GetTx(ctx, r.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return err
	}
	planID, err := record.PlanID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `INSERT INTO code_records (` + codeRecordColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, planID, record.SecretHash,
		record.SecretMask, record.Ciphertext, record.CreatedAt)
	if database.IsUniqueViolation(err) {
		return codesDomain.ErrDuplicateSecret
	}
	return database.Classify(err)
}

// GetByPlanAndHash finds a record by secret hash within a plan.
func (r *MySQLCodeRepository) GetByPlanAndHash(
	ctx context.Context,
	planID uuid.UUID,
	secretHash string,
) (*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	planIDBytes, err := planID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + codeRecordColumns + ` FROM code_records WHERE plan_id = ? AND secret_hash = ?`

	record, err := scanMySQLCodeRecord(querier.QueryRowContext(ctx, query, planIDBytes, secretHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, codesDomain.ErrCodeNotFound
	}
	return record, err
}

// LockOldest selects the oldest record of the plan with FOR UPDATE SKIP LOCKED.
func (r *MySQLCodeRepository) LockOldest(ctx context.Context, planID uuid.UUID) (*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	planIDBytes, err := planID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + codeRecordColumns + `
			  FROM code_records
			  WHERE plan_id = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT 1
			  FOR UPDATE SKIP LOCKED`

	record, err := scanMySQLCodeRecord(querier.QueryRowContext(ctx, query, planIDBytes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, codesDomain.ErrPoolExhausted
	}
	return record, err
}

// Delete removes a record by id.
func (r *MySQLCodeRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM code_records WHERE id = ?`, id)
	if err != nil {
		return database.Classify(err)
	}
	return requireOneRow(result)
}

// CountByPlan returns the number of unclaimed records of the plan.
func (r *MySQLCodeRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, r.db)

	planIDBytes, err := planID.MarshalBinary()
	if err != nil {
		return 0, err
	}

	var count int
	err = querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM code_records WHERE plan_id = ?`, planIDBytes).
		Scan(&count)
	return count, database.Classify(err)
}

// DeleteByPlan removes every record of the plan.
func (r *MySQLCodeRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, r.db)

	planIDBytes, err := planID.MarshalBinary()
	if err != nil {
		return 0, err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM code_records WHERE plan_id = ?`, planIDBytes)
	if err != nil {
		return 0, database.Classify(err)
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// ListByPlan lists records of the plan in claim order.
func (r *MySQLCodeRepository) ListByPlan(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	querier := database.GetTx(ctx, r.db)

	planIDBytes, err := planID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + codeRecordColumns + `
			  FROM code_records
			  WHERE plan_id = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, planIDBytes, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	records := make([]*codesDomain.CodeRecord, 0)
	for rows.Next() {
		record, err := scanMySQLCodeRecord(rows)
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

func scanMySQLCodeRecord(row rowScanner) (*codesDomain.CodeRecord, error) {
	var record codesDomain.CodeRecord
	var id, planID []byte

	err := row.Scan(&id, &planID, &record.SecretHash, &record.SecretMask,
		&record.Ciphertext, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, database.Classify(err)
	}
	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(codesDomain.ErrInvalidRecord, err.Error())
	}
	if err := record.PlanID.UnmarshalBinary(planID); err != nil {
		return nil, apperrors.Wrap(codesDomain.ErrInvalidRecord, err.Error())
	}
	if err := record.Validate(); err != nil {
		return nil, apperrors.Wrapf(err, "code record %s", record.ID)
	}
	return &record, nil
}
