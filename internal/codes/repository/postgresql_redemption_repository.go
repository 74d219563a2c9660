package repository

import (
	"context"
	"database/sql"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/database"
)

const redemptionColumns = `id, plan_id, code_record_id, secret_mask, plan_name, plan_kind, price_cents, customer, claimed_at`

// PostgreSQLRedemptionRepository handles the claim ledger for PostgreSQL.
type PostgreSQLRedemptionRepository struct {
	db *sql.DB
}

// NewPostgreSQLRedemptionRepository creates a new PostgreSQLRedemptionRepository.
func NewPostgreSQLRedemptionRepository(db *sql.DB) *PostgreSQLRedemptionRepository {
	return &PostgreSQLRedemptionRepository{db: db}
}

// Create appends a ledger entry.
func (r *PostgreSQLRedemptionRepository) Create(ctx context.Context, redemption *codesDomain.Redemption) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO redemptions (` + redemptionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(ctx, query, redemption.ID, redemption.PlanID, redemption.CodeRecordID,
		redemption.SecretMask, redemption.PlanName, redemption.PlanKind, redemption.PriceCents,
		redemption.Customer, redemption.ClaimedAt)
	return database.Classify(err)
}

// List returns ledger entries, most recent first.
func (r *PostgreSQLRedemptionRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*codesDomain.Redemption, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + redemptionColumns + ` FROM redemptions ORDER BY claimed_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]*codesDomain.Redemption, 0)
	for rows.Next() {
		var e codesDomain.Redemption
		err := rows.Scan(&e.ID, &e.PlanID, &e.CodeRecordID, &e.SecretMask, &e.PlanName,
			&e.PlanKind, &e.PriceCents, &e.Customer, &e.ClaimedAt)
		if err != nil {
			return nil, database.Classify(err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return entries, nil
}
