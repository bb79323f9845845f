package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"evolv-store/internal/database"
	"evolv-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeCartItemRow implements pgx.Row for the cart_items queries.
type fakeCartItemRow struct {
	scanErr error
	item    *model.CartItem
}

func (r *fakeCartItemRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	i := r.item
	*dest[0].(*int) = i.ID
	*dest[1].(*int) = i.UserID
	*dest[2].(*int) = i.ProductID
	*dest[3].(*int) = i.Quantity
	*dest[4].(*time.Time) = i.CreatedAt
	*dest[5].(*time.Time) = i.UpdatedAt
	return nil
}

// fakeCartRows implements pgx.Rows for the cart listing join.
type fakeCartRows struct {
	data    []model.CartLine
	idx     int
	scanErr error
	err     error
}

func (r *fakeCartRows) Close()                                       {}
func (r *fakeCartRows) Err() error                                   { return r.err }
func (r *fakeCartRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeCartRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeCartRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeCartRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	l := r.data[r.idx]
	r.idx++
	*dest[0].(*int) = l.ID
	*dest[1].(*int) = l.Quantity
	*dest[2].(*int) = l.Product.ID
	*dest[3].(*string) = l.Product.Name
	*dest[4].(*float64) = l.Product.Price
	*dest[5].(**string) = l.Product.ImageURL
	*dest[6].(*int) = l.Product.StockQuantity
	return nil
}
func (r *fakeCartRows) Values() ([]any, error) { return nil, nil }
func (r *fakeCartRows) RawValues() [][]byte    { return nil }
func (r *fakeCartRows) Conn() *pgx.Conn        { return nil }

func TestListCartItems(t *testing.T) {
	t.Run("totals rounded to cents", func(t *testing.T) {
		lines := []model.CartLine{
			{ID: 1, Quantity: 3, Product: model.CartProduct{ID: 5, Name: "Whey", Price: 19.99}},
			{ID: 2, Quantity: 1, Product: model.CartProduct{ID: 6, Name: "Creatine", Price: 0.1}},
		}
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				require.Equal(t, []any{3}, args)
				return &fakeCartRows{data: lines}, nil
			},
		}
		got, total, err := ListCartItems(context.Background(), db, 3)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, 60.07, total)
	})

	t.Run("empty cart", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return &fakeCartRows{}, nil
			},
		}
		got, total, err := ListCartItems(context.Background(), db, 3)
		require.NoError(t, err)
		require.Empty(t, got)
		require.Zero(t, total)
	})

	t.Run("query error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return nil, errors.New("db")
			},
		}
		_, _, err := ListCartItems(context.Background(), db, 3)
		require.Error(t, err)
	})
}

func TestUpsertCartItem(t *testing.T) {
	now := time.Now().UTC()

	t.Run("ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "ON CONFLICT (user_id, product_id)")
				require.Equal(t, []any{3, 5, 2}, args)
				return &fakeCartItemRow{item: &model.CartItem{
					ID: 1, UserID: 3, ProductID: 5, Quantity: 4, CreatedAt: now, UpdatedAt: now,
				}}
			},
		}
		got, err := UpsertCartItem(context.Background(), db, 3, 5, 2)
		require.NoError(t, err)
		require.Equal(t, 4, got.Quantity)
	})

	t.Run("err", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeCartItemRow{scanErr: errors.New("db")}
			},
		}
		_, err := UpsertCartItem(context.Background(), db, 3, 5, 2)
		require.Error(t, err)
	})
}

func TestGetCartItem(t *testing.T) {
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{8, 3}, args)
			return &fakeCartItemRow{item: &model.CartItem{ID: 8, UserID: 3}}
		},
	}
	got, err := GetCartItem(context.Background(), db, 8, 3)
	require.NoError(t, err)
	require.Equal(t, 8, got.ID)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{4, 8, 3}, args)
				return &fakeCartItemRow{item: &model.CartItem{ID: 8, UserID: 3, Quantity: 4}}
			},
		}
		got, err := UpdateCartItemQuantity(context.Background(), db, 8, 3, 4)
		require.NoError(t, err)
		require.Equal(t, 4, got.Quantity)
	})

	t.Run("not owned", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeCartItemRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := UpdateCartItemQuantity(context.Background(), db, 8, 99, 4)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestDeleteCartItem(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, []any{8, 3}, args)
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		}
		require.NoError(t, DeleteCartItem(context.Background(), db, 8, 3))
	})

	t.Run("missing", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			},
		}
		require.ErrorIs(t, DeleteCartItem(context.Background(), db, 8, 3), ErrNotFound)
	})
}

func TestClearCart(t *testing.T) {
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			require.Equal(t, []any{3}, args)
			return pgconn.NewCommandTag("DELETE 2"), nil
		},
	}
	require.NoError(t, ClearCart(context.Background(), db, 3))
}
