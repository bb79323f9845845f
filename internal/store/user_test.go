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

// fakeUserRow implements pgx.Row for the user queries.
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 8:
		// full user row
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(**string) = u.FitnessGoals
		*dest[5].(*bool) = u.IsAdmin
		*dest[6].(*time.Time) = u.CreatedAt
		*dest[7].(*time.Time) = u.UpdatedAt
	case 3:
		// CreateUser: id, created_at, updated_at
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
		*dest[2].(*time.Time) = u.UpdatedAt
	default:
		panic("fakeUserRow.Scan: unexpected number of dest")
	}
	return nil
}

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	goals := "hypertrophy"
	sample := model.User{
		ID:           3,
		Name:         "Ana",
		Email:        "ana@b.com",
		PasswordHash: "h",
		FitnessGoals: &goals,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("GetUserByID ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{3}, args)
				return &fakeUserRow{user: &sample}
			},
		}
		got, err := GetUserByID(context.Background(), db, 3)
		require.NoError(t, err)
		require.Equal(t, sample.Email, got.Email)
		require.Equal(t, &goals, got.FitnessGoals)
	})

	t.Run("GetUserByID err", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByID(context.Background(), db, 3)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("GetUserByEmail ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{"ana@b.com"}, args)
				return &fakeUserRow{user: &sample}
			},
		}
		got, err := GetUserByEmail(context.Background(), db, "ana@b.com")
		require.NoError(t, err)
		require.Equal(t, 3, got.ID)
	})

	t.Run("CreateUser ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Len(t, args, 5)
				return &fakeUserRow{user: &sample}
			},
		}
		in := model.User{Name: "Ana", Email: "ana@b.com", PasswordHash: "h"}
		got, err := CreateUser(context.Background(), db, &in)
		require.NoError(t, err)
		require.Equal(t, 3, got.ID)
		require.Equal(t, now, got.CreatedAt)
	})

	t.Run("CreateUser err", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		require.Equal(t, "23505", pgErr.Code)
	})

	t.Run("UpdateUserProfile ok", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, "Ana", args[0])
				require.Equal(t, 3, args[2])
				return &fakeUserRow{user: &sample}
			},
		}
		got, err := UpdateUserProfile(context.Background(), db, 3, "Ana", &goals)
		require.NoError(t, err)
		require.Equal(t, sample.Name, got.Name)
	})

	t.Run("UpdateUserPassword ok", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, []any{"h2", 3}, args)
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		require.NoError(t, UpdateUserPassword(context.Background(), db, 3, "h2"))
	})

	t.Run("UpdateUserPassword err", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("db")
			},
		}
		require.Error(t, UpdateUserPassword(context.Background(), db, 3, "h2"))
	})
}
