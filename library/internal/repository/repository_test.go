package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/database"
)

func newTestRepo(t *testing.T) (*repository, *sqlx.DB) {
	t.Helper()
	db, err := database.NewDB(context.Background(), &database.DB{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1&_txlock=immediate", uuid.NewString()),
	}, migrations.MigrationFiles, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r, err := NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	return r, db
}

func TestNewRepository(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		driver     string
		wantErr    bool
		wantSuffix string
	}{
		{name: "sqlite", driver: "sqlite3"},
		{name: "postgres", driver: "pgx", wantSuffix: "FOR UPDATE"},
		{name: "unsupported", driver: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := NewRepository(sqlx.NewDb(nil, tt.driver), zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSuffix, r.lockSuffix)

			query, _, err := r.qb.Select("id").From(booksTableName).Where("id = ?", 1).ToSql()
			require.NoError(t, err)
			if tt.driver == "pgx" {
				require.Equal(t, "SELECT id FROM books WHERE id = $1", query)
			} else {
				require.Equal(t, "SELECT id FROM books WHERE id = ?", query)
			}
		})
	}
}

func seed(t *testing.T, r *repository, copies int) (userID, bookID int64) {
	t.Helper()
	ctx := context.Background()
	userID, err := r.CreateUser(ctx, model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: auth.RoleBorrower})
	require.NoError(t, err)
	bookID, err = r.CreateBook(ctx, model.Book{Title: "Dune", Author: "Herbert", ISBN: "isbn-dune", Category: model.DefaultCategory, TotalCopies: copies})
	require.NoError(t, err)
	return userID, bookID
}

func TestRepository_OpenLoanIndex(t *testing.T) {
	r, db := newTestRepo(t)
	userID, bookID := seed(t, r, 2)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	_, err := r.Borrow(context.Background(), userID, bookID, now, now.Add(model.LoanPeriod))
	require.NoError(t, err)

	// a second open row for the same pair is refused by the partial unique index
	_, err = db.Exec(`INSERT INTO borrowings (user_id, book_id, borrowed_date, due_date, status) VALUES (?, ?, ?, ?, 'borrowed')`,
		userID, bookID, now, now)
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))

	// closed rows do not count
	_, err = db.Exec(`INSERT INTO borrowings (user_id, book_id, borrowed_date, due_date, status) VALUES (?, ?, ?, ?, 'returned')`,
		userID, bookID, now, now)
	require.NoError(t, err)
}

func TestRepository_ReturnCapped(t *testing.T) {
	ctx := context.Background()
	r, db := newTestRepo(t)
	userID, bookID := seed(t, r, 1)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	borrowing, err := r.Borrow(ctx, userID, bookID, now, now.Add(model.LoanPeriod))
	require.NoError(t, err)
	require.Equal(t, bookID, *borrowing.BookID)

	// counter drifted back to full; returning must not push it past total_copies
	_, err = db.Exec(`UPDATE books SET available_copies = total_copies WHERE id = ?`, bookID)
	require.NoError(t, err)

	returned, err := r.Return(ctx, userID, bookID, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, borrowing.ID, returned.ID)
	require.Equal(t, model.StatusReturned, returned.Status)
	require.WithinDuration(t, now.Add(time.Hour), *returned.ReturnedDate, 0)
	require.WithinDuration(t, now.Add(model.LoanPeriod), returned.DueDate, 0)

	book, err := r.GetBook(ctx, bookID)
	require.NoError(t, err)
	require.Equal(t, 1, book.AvailableCopies)

	_, err = r.Return(ctx, userID, bookID, now)
	require.ErrorIs(t, err, errs.ErrNoActiveLoan)
}

func TestRepository_CountOverdue(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)
	userID, bookID := seed(t, r, 1)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	_, err := r.Borrow(ctx, userID, bookID, now, now.Add(model.LoanPeriod))
	require.NoError(t, err)

	n, err := r.CountOverdue(ctx, now.Add(model.LoanPeriod))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = r.CountOverdue(ctx, now.Add(model.LoanPeriod+time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	users, err := r.CountUsers(ctx, auth.RoleBorrower)
	require.NoError(t, err)
	require.Equal(t, 1, users)
	librarians, err := r.CountUsers(ctx, auth.RoleLibrarian)
	require.NoError(t, err)
	require.Zero(t, librarians)
}

func TestRepository_GetUserByUsername(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)
	userID, _ := seed(t, r, 1)

	u, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, userID, u.ID)
	require.Equal(t, auth.RoleBorrower, u.Role)

	_, err = r.GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
