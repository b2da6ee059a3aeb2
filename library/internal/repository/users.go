package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (int64, error) {
	query, args, err := r.qb.Insert(usersTableName).
		Columns("username", "email", "password_hash", "role").
		Values(user.Username, user.Email, user.PasswordHash, string(user.Role)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrDuplicateUser
		}
		return 0, errors.Wrap(err, "CreateUser")
	}
	return id, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := r.qb.Select("id", "username", "email", "password_hash", "role").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, errors.Wrap(err, "GetUserByUsername")
	}
	return user, nil
}

func (r *repository) CountUsers(ctx context.Context, role auth.Role) (int, error) {
	return r.count(ctx, r.qb.Select("COUNT(*)").From(usersTableName).Where(sq.Eq{"role": string(role)}))
}
