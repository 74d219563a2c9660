package repository

import (
	"context"
	"database/sql"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/database"
)

// MySQLRedemptionRepository handles the claim ledger for MySQL.
type MySQLRedemptionRepository struct {
	db *sql.DB
}

// NewMySQLRedemptionRepository creates a new MySQLRedemptionRepository.
func NewMySQLRedemptionRepository(db *sql.DB) *MySQLRedemptionRepository {
	return &MySQLRedemptionRepository{db: db}
}

// Create appends a ledger entry.
func (r *MySQLRedemptionRepository) Create(ctx context.Context, redemption *codesDomain.Redemption) error {
	querier := database.GetTx(ctx, r.db)

	id, err := redemption.ID.MarshalBinary()
	if err != nil {
		return err
	}
	planID, err := redemption.PlanID.MarshalBinary()
	if err != nil {
		return err
	}
	recordID, err := redemption.CodeRecordID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `INSERT INTO redemptions (` + redemptionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, planID, recordID,
		redemption.SecretMask, redemption.PlanName, redemption.PlanKind, redemption.PriceCents,
		redemption.Customer, redemption.ClaimedAt)
	return database.Classify(err)
}

// List returns ledger entries, most recent first.
func (r *MySQLRedemptionRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + redemptionColumns + ` FROM redemptions ORDER BY claimed_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]*codesDomain.Redemption, 0)
	for rows.Next() {
		var e codesDomain.Redemption
		var id, planID, recordID []byte
		err := rows.Scan(&id, &planID, &recordID, &e.SecretMask, &e.PlanName,
			&e.PlanKind, &e.PriceCents, &e.Customer, &e.ClaimedAt)
		if err != nil {
			return nil, database.Classify(err)
		}
		if err := e.ID.UnmarshalBinary(id); err != nil {
			return nil, err
		}
		if err := e.PlanID.UnmarshalBinary(planID); err != nil {
			return nil, err
		}
		if err := e.CodeRecordID.UnmarshalBinary(recordID); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return entries, nil
}
