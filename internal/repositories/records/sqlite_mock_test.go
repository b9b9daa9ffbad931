package records

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_ErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT value FROM records WHERE key = \?`).WithArgs(KeyAppData).WillReturnError(boom)
	_, err = r.Get(ctx, KeyAppData)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to get record[app_data]")

	mock.ExpectExec(`INSERT INTO records`).WillReturnError(boom)
	err = r.Set(ctx, KeySession, []byte("{}"))
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to set record[session]")

	mock.ExpectExec(`DELETE FROM records WHERE key = \?`).WithArgs(KeyLockState).WillReturnError(boom)
	err = r.Delete(ctx, KeyLockState)
	require.Contains(t, err.Error(), "failed to delete record[lock_state]")

	mock.ExpectExec(`DELETE FROM records`).WillReturnError(boom)
	require.Contains(t, r.Clear(ctx).Error(), "failed to clear records")

	mock.ExpectQuery(`SELECT key, value FROM records`).WillReturnError(boom)
	_, err = r.List(ctx)
	require.Contains(t, err.Error(), "failed to list records")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_UpdateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	conflict := errors.New("version conflict")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT value FROM records WHERE key = \?`).
		WithArgs(KeyAppData).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"version":2}`)))
	mock.ExpectRollback()

	err = r.Update(context.Background(), KeyAppData, func(cur []byte) ([]byte, error) {
		require.Equal(t, []byte(`{"version":2}`), cur)
		return nil, conflict
	})
	require.Equal(t, conflict, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_UpdateCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT value FROM records WHERE key = \?`).
		WithArgs(KeyAppData).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(`INSERT INTO records`).
		WithArgs(KeyAppData, []byte(`{"version":1}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = r.Update(context.Background(), KeyAppData, func(cur []byte) ([]byte, error) {
		require.Nil(t, cur)
		return []byte(`{"version":1}`), nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_UpdateWrapsStorageErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err = r.Update(context.Background(), KeyAppData, func(cur []byte) ([]byte, error) {
		t.Fatal("fn must not run when the transaction cannot start")
		return nil, nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to update record[app_data]")
}
