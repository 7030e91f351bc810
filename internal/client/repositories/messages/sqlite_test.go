package messages

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/magicletters/internal/client/store"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.DB().Exec(`
		INSERT INTO local_letters (local_id, child_code, status, created_at, updated_at)
		VALUES ('L1', 'HN-1', 'DRAFT', '2020-01-01T00:00:00.000Z', '2020-01-01T00:00:00.000Z')`)
	require.NoError(t, err)
	return s.DB()
}

func TestGet_EmptyOrMissing_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	m, err := r.Get(ctx, "L1")
	require.NoError(t, err)
	require.Nil(t, m)

	m, err = r.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestUpsert_ReplacesBody(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, "L1", "primera"))
	require.NoError(t, r.Upsert(ctx, "L1", "segunda versión"))

	m, err := r.Get(ctx, "L1")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, "segunda versión", m.Text)
	require.Equal(t, "L1", m.LetterID)
	require.Greater(t, m.UpdatedAt.Year(), 2020)
}

func TestUpsert_MissingLetter(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	require.ErrorIs(t, r.Upsert(context.Background(), "missing", "hola"), common.ErrNotFound)
}

func TestUpsert_DBErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE local_letters SET message_content`).
		WithArgs("hola", sqlmock.AnyArg(), "L1").
		WillReturnError(sql.ErrConnDone)

	r := NewSQLiteRepository(db)
	err = r.Upsert(context.Background(), "L1", "hola")
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.Contains(t, err.Error(), "failed to upsert message[L1]")
	require.NoError(t, mock.ExpectationsWereMet())
}
