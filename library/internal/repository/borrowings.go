package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var borrowingColumns = []string{
	"br.id", "br.user_id", "br.book_id", "br.borrowed_date", "br.due_date", "br.returned_date", "br.status",
	"COALESCE(bk.title, '') AS title", "COALESCE(bk.author, '') AS author",
}

// Borrow checks the book, the copy count and the caller's open loans in that order,
// then decrements the counter and appends the ledger row in the same transaction.
func (r *repository) Borrow(ctx context.Context, userID, bookID int64, borrowedAt, dueAt time.Time) (model.Borrowing, error) {
	borrowing := model.Borrowing{
		UserID:       userID,
		BookID:       &bookID,
		BorrowedDate: borrowedAt,
		DueDate:      dueAt,
		Status:       model.StatusBorrowed,
	}
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := r.qb.Select("available_copies").From(booksTableName).Where(sq.Eq{"id": bookID})
		if r.lockSuffix != "" {
			q = q.Suffix(r.lockSuffix)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return err
		}
		var available int
		if err := tx.GetContext(ctx, &available, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrBookNotFound
			}
			return errors.Wrap(err, "select book")
		}
		if available <= 0 {
			return errs.ErrUnavailable
		}

		query, args, err = r.qb.Select("COUNT(*)").From(borrowingsTableName).
			Where(sq.Eq{"user_id": userID, "book_id": bookID, "status": string(model.StatusBorrowed)}).
			ToSql()
		if err != nil {
			return err
		}
		var open int
		if err := tx.GetContext(ctx, &open, query, args...); err != nil {
			return errors.Wrap(err, "count open loans")
		}
		if open > 0 {
			return errs.ErrDuplicateBorrow
		}

		query, args, err = r.qb.Update(booksTableName).
			Set("available_copies", sq.Expr("available_copies - 1")).
			Where(sq.Eq{"id": bookID}).
			Where(sq.Gt{"available_copies": 0}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "decrement available_copies")
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.ErrUnavailable
		}

		query, args, err = r.qb.Insert(borrowingsTableName).
			Columns("user_id", "book_id", "borrowed_date", "due_date", "status").
			Values(userID, bookID, borrowedAt.UTC(), dueAt.UTC(), string(model.StatusBorrowed)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&borrowing.ID); err != nil {
			if isUniqueViolation(err) {
				return errs.ErrDuplicateBorrow
			}
			return errors.Wrap(err, "insert borrowing")
		}
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	r.log.Debug("Borrow", zap.Int64("user_id", userID), zap.Int64("book_id", bookID), zap.Int64("borrowing_id", borrowing.ID))
	return borrowing, nil
}

// Return closes the caller's open loan and gives the copy back, never beyond total_copies.
func (r *repository) Return(ctx context.Context, userID, bookID int64, returnedAt time.Time) (model.Borrowing, error) {
	var borrowing model.Borrowing
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.qb.Update(borrowingsTableName).
			Set("status", string(model.StatusReturned)).
			Set("returned_date", returnedAt.UTC()).
			Where(sq.Eq{"user_id": userID, "book_id": bookID, "status": string(model.StatusBorrowed)}).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		var id int64
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNoActiveLoan
			}
			return errors.Wrap(err, "close borrowing")
		}

		query, args, err = r.qb.Select("id", "user_id", "book_id", "borrowed_date", "due_date", "returned_date", "status").
			From(borrowingsTableName).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &borrowing, query, args...); err != nil {
			return errors.Wrap(err, "select borrowing")
		}

		query, args, err = r.qb.Update(booksTableName).
			Set("available_copies", sq.Expr("available_copies + 1")).
			Where(sq.Eq{"id": bookID}).
			Where(sq.Expr("available_copies < total_copies")).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "increment available_copies")
		}
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	query, args, err := r.qb.Select(append(borrowingColumns, "COALESCE(bk.isbn, '') AS isbn")...).
		From(borrowingsTableName+" br").
		LeftJoin(booksTableName+" bk ON bk.id = br.book_id").
		Where(sq.Eq{"br.user_id": userID}).
		OrderBy("br.borrowed_date DESC", "br.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectBorrowings(ctx, query, args)
}

func (r *repository) ListAll(ctx context.Context) ([]model.Borrowing, error) {
	query, args, err := r.qb.Select(append(borrowingColumns, "u.username")...).
		From(borrowingsTableName+" br").
		Join(usersTableName+" u ON u.id = br.user_id").
		LeftJoin(booksTableName+" bk ON bk.id = br.book_id").
		OrderBy("br.borrowed_date DESC", "br.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectBorrowings(ctx, query, args)
}

func (r *repository) selectBorrowings(ctx context.Context, query string, args []interface{}) ([]model.Borrowing, error) {
	items := make([]model.Borrowing, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.log.Error("selectBorrowings", zap.String("q", query), zap.Error(err))
		return nil, errors.Wrap(err, "select borrowings")
	}
	return items, nil
}

func (r *repository) CountOpen(ctx context.Context) (int, error) {
	return r.count(ctx, r.qb.Select("COUNT(*)").From(borrowingsTableName).
		Where(sq.Eq{"status": string(model.StatusBorrowed)}))
}

func (r *repository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, r.qb.Select("COUNT(*)").From(borrowingsTableName).
		Where(sq.Eq{"status": string(model.StatusBorrowed)}).
		Where(sq.Lt{"due_date": now.UTC()}))
}
