package records

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/mj36/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) Repository {
	t.Helper()
	db, err := database.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func newMemory(t *testing.T) Repository {
	t.Helper()
	return NewMemoryRepository()
}

var implementations = map[string]func(t *testing.T) Repository{
	"sqlite": newSQLite,
	"memory": newMemory,
}

func TestRepository_Contract(t *testing.T) {
	for name, mk := range implementations {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing key returns nil, nil", func(t *testing.T) {
				r := mk(t)
				v, err := r.Get(ctx, KeySession)
				require.NoError(t, err)
				assert.Nil(t, v)
			})

			t.Run("set then get, upsert overwrites", func(t *testing.T) {
				r := mk(t)
				require.NoError(t, r.Set(ctx, KeyAppData, []byte("old")))
				require.NoError(t, r.Set(ctx, KeyAppData, []byte("new")))

				v, err := r.Get(ctx, KeyAppData)
				require.NoError(t, err)
				assert.Equal(t, []byte("new"), v)
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				r := mk(t)
				require.NoError(t, r.Set(ctx, KeyLockState, []byte("{}")))
				require.NoError(t, r.Delete(ctx, KeyLockState))
				require.NoError(t, r.Delete(ctx, KeyLockState))

				v, err := r.Get(ctx, KeyLockState)
				require.NoError(t, err)
				assert.Nil(t, v)
			})

			t.Run("list and clear", func(t *testing.T) {
				r := mk(t)
				require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
				require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

				m, err := r.List(ctx)
				require.NoError(t, err)
				assert.Equal(t, map[string][]byte{"a": {0xAA}, "b": {0xBB, 0xCC}}, m)

				require.NoError(t, r.Clear(ctx))
				m, err = r.List(ctx)
				require.NoError(t, err)
				assert.Empty(t, m)
			})

			t.Run("update sees current value", func(t *testing.T) {
				r := mk(t)

				require.NoError(t, r.Update(ctx, "n", func(cur []byte) ([]byte, error) {
					assert.Nil(t, cur)
					return []byte("1"), nil
				}))
				require.NoError(t, r.Update(ctx, "n", func(cur []byte) ([]byte, error) {
					assert.Equal(t, []byte("1"), cur)
					return []byte("2"), nil
				}))

				v, err := r.Get(ctx, "n")
				require.NoError(t, err)
				assert.Equal(t, []byte("2"), v)
			})

			t.Run("update error leaves value and is returned as is", func(t *testing.T) {
				r := mk(t)
				stale := errors.New("stale")
				require.NoError(t, r.Set(ctx, "n", []byte("keep")))

				err := r.Update(ctx, "n", func([]byte) ([]byte, error) { return nil, stale })
				require.ErrorIs(t, err, stale)
				assert.Equal(t, stale, err)

				v, err := r.Get(ctx, "n")
				require.NoError(t, err)
				assert.Equal(t, []byte("keep"), v)
			})
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	in := []byte("abc")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	out[0] = 'y'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}
