package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/database"
	"github.com/allisson/codepool/internal/testutil"
)

var codeRecordRowColumns = []string{"id", "plan_id", "secret_hash", "secret_mask", "ciphertext", "created_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestRecord(planID uuid.UUID, n int) *codesDomain.CodeRecord {
	return &codesDomain.CodeRecord{
		ID:         uuid.Must(uuid.NewV7()),
		PlanID:     planID,
		SecretHash: fmt.Sprintf("%064x", n),
		SecretMask: fmt.Sprintf("****%04d", n),
		Ciphertext: "bm9uY2U.dGFn.Y3Q",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgreSQLCodeRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLCodeRepository(db)
	record := newTestRecord(uuid.Must(uuid.NewV7()), 1)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO code_records")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), record)
	assert.ErrorIs(t, err, codesDomain.ErrDuplicateSecret)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCodeRepository_LockOldest(t *testing.T) {
	planID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)
		record := newTestRecord(planID, 1)

		rows := sqlmock.NewRows(codeRecordRowColumns).AddRow(record.ID.String(), planID.String(),
			record.SecretHash, record.SecretMask, record.Ciphertext, record.CreatedAt)
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, id ASC")).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(rows)

		got, err := repo.LockOldest(context.Background(), planID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.Ciphertext, got.Ciphertext)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_PoolExhausted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
			WillReturnRows(sqlmock.NewRows(codeRecordRowColumns))

		_, err := repo.LockOldest(context.Background(), planID)
		assert.ErrorIs(t, err, codesDomain.ErrPoolExhausted)
	})

	t.Run("Error_InvalidRow", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)
		record := newTestRecord(planID, 1)

		rows := sqlmock.NewRows(codeRecordRowColumns).AddRow(record.ID.String(), planID.String(),
			"not-a-hash", record.SecretMask, record.Ciphertext, record.CreatedAt)
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).WillReturnRows(rows)

		_, err := repo.LockOldest(context.Background(), planID)
		assert.ErrorIs(t, err, codesDomain.ErrInvalidRecord)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
			WillReturnError(&pq.Error{Code: "08006"})

		_, err := repo.LockOldest(context.Background(), planID)
		assert.ErrorIs(t, err, database.ErrStoreUnavailable)
	})
}

func TestPostgreSQLCodeRepository_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM code_records WHERE id = $1")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), uuid.Must(uuid.NewV7())))
	})

	t.Run("Error_AlreadyClaimed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLCodeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM code_records WHERE id = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, codesDomain.ErrCodeAlreadyClaimed)
	})
}

func TestPostgreSQLCodeRepository_DeleteByPlan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLCodeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM code_records WHERE plan_id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteByPlan(context.Background(), uuid.Must(uuid.NewV7()))
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
}

func TestPostgreSQLCodeRepository_GetByPlanAndHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLCodeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE plan_id = $1 AND secret_hash = $2")).
		WillReturnRows(sqlmock.NewRows(codeRecordRowColumns))

	_, err := repo.GetByPlanAndHash(context.Background(), uuid.Must(uuid.NewV7()), fmt.Sprintf("%064x", 1))
	assert.ErrorIs(t, err, codesDomain.ErrCodeNotFound)
}

func TestPostgreSQLCodeRepository_Integration(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	ctx := context.Background()
	repo := NewPostgreSQLCodeRepository(db)
	txManager := database.NewTxManager(db)
	planID := testutil.CreateTestPlan(t, db, "postgres", "Weekly 5GB")

	base := time.Now().UTC().Truncate(time.Microsecond)
	var records []*codesDomain.CodeRecord
	for i := range 3 {
		record := newTestRecord(planID, i)
		record.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, record))
		records = append(records, record)
	}

	t.Run("Error_DuplicateSecret", func(t *testing.T) {
		dup := newTestRecord(planID, 0)
		assert.ErrorIs(t, repo.Create(ctx, dup), codesDomain.ErrDuplicateSecret)
	})

	t.Run("Success_ListInClaimOrder", func(t *testing.T) {
		listed, err := repo.ListByPlan(ctx, planID, 0, 10)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		for i := range records {
			assert.Equal(t, records[i].ID, listed[i].ID)
		}
	})

	t.Run("Success_LockedRowIsSkipped", func(t *testing.T) {
		locked := make(chan uuid.UUID, 1)
		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = txManager.WithTx(ctx, func(ctx context.Context) error {
				first, err := repo.LockOldest(ctx, planID)
				if err != nil {
					locked <- uuid.Nil
					return err
				}
				locked <- first.ID
				<-release
				return errors.New("rollback")
			})
		}()

		require.Equal(t, records[0].ID, <-locked)
		err := txManager.WithTx(ctx, func(ctx context.Context) error {
			next, err := repo.LockOldest(ctx, planID)
			require.NoError(t, err)
			assert.Equal(t, records[1].ID, next.ID)
			return nil
		})
		close(release)
		wg.Wait()
		require.NoError(t, err)
	})

	t.Run("Success_CountAndDelete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, records[0].ID))
		assert.ErrorIs(t, repo.Delete(ctx, records[0].ID), codesDomain.ErrCodeAlreadyClaimed)

		count, err := repo.CountByPlan(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		deleted, err := repo.DeleteByPlan(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)
	})
}
