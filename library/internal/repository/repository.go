package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

// CatalogStore holds books and their copy accounting.
type CatalogStore interface {
	CreateBook(ctx context.Context, book model.Book) (int64, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) error
	DeleteBook(ctx context.Context, id int64) error
	CountBooks(ctx context.Context) (int, error)
}

// MembershipStore holds users.
type MembershipStore interface {
	CreateUser(ctx context.Context, user model.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CountUsers(ctx context.Context, role auth.Role) (int, error)
}

// Ledger holds borrowings. Borrow and Return keep books.available_copies in step within one transaction.
type Ledger interface {
	Borrow(ctx context.Context, userID, bookID int64, borrowedAt, dueAt time.Time) (model.Borrowing, error)
	Return(ctx context.Context, userID, bookID int64, returnedAt time.Time) (model.Borrowing, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Borrowing, error)
	ListAll(ctx context.Context) ([]model.Borrowing, error)
	CountOpen(ctx context.Context) (int, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}

type Repository interface {
	CatalogStore
	MembershipStore
	Ledger
}

type repository struct {
	db         *sqlx.DB
	qb         sq.StatementBuilderType
	lockSuffix string
	log        *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	r := &repository{
		db:  db,
		qb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log: log.Named("repo"),
	}
	switch db.DriverName() {
	case "sqlite3":
		// sqlite takes the write lock at BEGIN IMMEDIATE (_txlock=immediate), no row locks
		r.qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	case "pgx", "postgres":
		r.lockSuffix = "FOR UPDATE"
	default:
		return nil, errors.Errorf("unsupported driver %q", db.DriverName())
	}
	return r, nil
}

const (
	usersTableName      = `users`
	booksTableName      = `books`
	borrowingsTableName = `borrowings`
)

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "BeginTxx")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Warn("tx.Rollback", zap.Error(rbErr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "tx.Commit")
}

func (r *repository) count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "RowsAffected")
}
