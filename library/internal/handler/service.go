package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	AddBook(ctx context.Context, req model.BookRequest) (int64, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) error
	DeleteBook(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (int64, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
}

type BorrowingService interface {
	Borrow(ctx context.Context, userID, bookID int64) (model.Borrowing, error)
	Return(ctx context.Context, userID, bookID int64) (model.Borrowing, error)
	ListUserBorrowings(ctx context.Context, userID int64) ([]model.Borrowing, error)
	ListAllBorrowings(ctx context.Context) ([]model.Borrowing, error)
}

type StatsService interface {
	DashboardStats(ctx context.Context) (model.Stats, error)
}

var (
	_ BookService      = (*service.Service)(nil)
	_ AuthService      = (*service.Service)(nil)
	_ BorrowingService = (*service.Service)(nil)
	_ StatsService     = (*service.Service)(nil)
)
