package service

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

// Register creates a borrower account. Self-registration never grants the librarian role.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (int64, error) {
	req.Normalize()
	id, err := s.createUser(ctx, req, auth.RoleBorrower)
	if err != nil {
		return 0, err
	}
	s.log.Info("user registered", zap.Int64("user_id", id), zap.String("username", req.Username))
	return id, nil
}

// CreateLibrarian is the administrative path for staff accounts.
func (s *Service) CreateLibrarian(ctx context.Context, req model.RegisterRequest) (int64, error) {
	return s.createUser(ctx, req, auth.RoleLibrarian)
}

func (s *Service) createUser(ctx context.Context, req model.RegisterRequest, role auth.Role) (int64, error) {
	req.Normalize()
	if utf8.RuneCountInString(req.Username) < model.MinUsernameLength {
		return 0, errs.ErrInvalidUsername
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, errors.Wrap(err, "bcrypt")
	}
	return s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	req.Normalize()
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errs.ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errs.ErrInvalidCredentials
	}

	principal := auth.Principal{ID: user.ID, Username: user.Username, Role: user.Role}
	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		return model.LoginResponse{}, errors.Wrap(err, "issue token")
	}
	return model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: model.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}
