package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "category", "total_copies", "available_copies", "published_year", "description",
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (int64, error) {
	query, args, err := r.qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "category", "total_copies", "available_copies", "published_year", "description").
		Values(book.Title, book.Author, book.ISBN, book.Category, book.TotalCopies, book.TotalCopies, book.PublishedYear, book.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrDuplicateISBN
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return 0, errors.Wrap(err, "CreateBook")
	}
	return id, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := r.qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, errors.Wrap(err, "GetBook")
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := r.qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListBooks")
	}
	return books, nil
}

// UpdateBook shifts available_copies by the change in total_copies so open loans stay accounted for.
func (r *repository) UpdateBook(ctx context.Context, id int64, req model.BookRequest) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.qb.Update(booksTableName).
			Set("title", req.Title).
			Set("author", req.Author).
			Set("isbn", req.ISBN).
			Set("category", req.Category).
			Set("published_year", req.PublishedYear).
			Set("description", req.Description).
			Set("available_copies", sq.Expr("available_copies + (? - total_copies)", req.TotalCopies)).
			Set("total_copies", req.TotalCopies).
			Where(sq.Eq{"id": id}).
			Where(sq.Expr("available_copies + (? - total_copies) >= 0", req.TotalCopies)).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return errs.ErrDuplicateISBN
			}
			return errors.Wrap(err, "UpdateBook")
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		exists, err := r.bookExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.ErrBookNotFound
		}
		return errs.ErrCopiesBelowBorrowed
	})
}

// DeleteBook refuses to remove a book while any copy is on loan.
func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.qb.Delete(booksTableName).
			Where(sq.Eq{"id": id}).
			Where(sq.Expr("NOT EXISTS (SELECT 1 FROM "+borrowingsTableName+" WHERE book_id = ? AND status = ?)", id, string(model.StatusBorrowed))).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "DeleteBook")
		}
		n, err := affected(res)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		exists, err := r.bookExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.ErrBookNotFound
		}
		return errs.ErrBookHasOpenLoans
	})
}

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, r.qb.Select("COUNT(*)").From(booksTableName))
}

func (r *repository) bookExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	query, args, err := r.qb.Select("COUNT(*)").From(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return false, errors.Wrap(err, "bookExists")
	}
	return n > 0, nil
}
