package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(gdb), mock
}

func TestFindUserByID_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND "users"."is_deleted" = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindUserByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViews_SingleUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "advertisements" SET "views"=views \+ \$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.IncrementViews(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementClicks_MissingAd(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "advertisements" SET "clicks"=clicks \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.IncrementClicks(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSoftDeleteRecommendation_CascadesInTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recommendations" SET "is_deleted"=\$1 WHERE kind = \$2 AND id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET "is_deleted"=\$1 WHERE owner_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, s.SoftDeleteRecommendation(context.Background(), models.KindBase, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteRecommendation_MissingRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recommendations" SET "is_deleted"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SoftDeleteRecommendation(context.Background(), models.KindInformative, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCard_RewritesBackReference(t *testing.T) {
	s, mock := newMockStore(t)
	cardID := uuid.New()
	target := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "recommendations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), 0\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_kind", "owner_id", "position", "title"}).
			AddRow(cardID.String(), models.KindInformative, target.String(), 3, "Ventilate"))

	card, err := s.MoveCard(context.Background(), cardID, models.KindInformative, target)
	require.NoError(t, err)
	assert.Equal(t, target, card.OwnerID)
	assert.Equal(t, 3, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCard_UnknownTarget(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "recommendations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := s.MoveCard(context.Background(), uuid.New(), models.KindBase, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkInactive(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()
	at := time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "subscriptions" SET "is_active"=\$1,"marked_expired_at"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.MarkInactive(context.Background(), id, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginateAdvertisements(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "advertisements"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(`SELECT \* FROM "advertisements" .* ORDER BY priority DESC, created_at DESC LIMIT \$\d+ OFFSET \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "priority"}).
			AddRow(uuid.New().String(), "spring", 9))

	res, err := s.PaginateAdvertisements(context.Background(), store.Page{Page: 3, Limit: 20, Sort: store.SortPriority})
	require.NoError(t, err)
	assert.Equal(t, int64(45), res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "spring", res.Items[0].Name)
}

func TestDeleteRemoteConfig_Missing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "remote_configs" WHERE key = \$1`).
		WithArgs("maintenance_mode").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteRemoteConfig(context.Background(), "maintenance_mode")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestByTransactionID_MatchesEitherColumn(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE transaction_id = \$1 OR original_transaction_id = \$2 ORDER BY purchase_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_id", "original_transaction_id", "receipt"}).
			AddRow(uuid.New(), "t2", "o1", "stored-receipt"))

	sub, err := s.FindLatestByTransactionID(context.Background(), "t2")
	require.NoError(t, err)
	assert.Equal(t, "o1", sub.OriginalTransactionID)
	assert.Equal(t, "stored-receipt", sub.Receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
