package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// Getters return (nil, nil) for absent rows; callers rely on that to decide
// whether to create.

func TestBudgetGetByMonthAbsentRecord(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "budget_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	record, err := NewBudgetRepository(db).GetByMonth(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordGetByKeywordIDAbsentRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "keywords"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	keyword, err := NewKeywordRepository(db).GetByKeywordID("k-missing")
	require.NoError(t, err)
	assert.Nil(t, keyword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordGetByCampaignAndTextAbsentRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "keywords"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	keyword, err := NewKeywordRepository(db).GetByCampaignAndText("c1", "garden tools")
	require.NoError(t, err)
	assert.Nil(t, keyword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordGetByKeywordIDFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "keywords"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "keyword_id", "campaign_id", "keyword_text", "bid"}).
			AddRow("row-1", "k1", "c1", "garden tools", 0.75))

	keyword, err := NewKeywordRepository(db).GetByKeywordID("k1")
	require.NoError(t, err)
	require.NotNil(t, keyword)
	assert.Equal(t, "garden tools", keyword.KeywordText)
	assert.Equal(t, 0.75, keyword.Bid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
