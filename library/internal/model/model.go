package model

import (
	"math"
	"strings"
	"time"

	"github.com/Astemirdum/library-management/pkg/auth"
)

// LoanPeriod is the fixed borrowing policy: dueDate = borrowedDate + 14 days.
const LoanPeriod = 14 * 24 * time.Hour

const (
	DefaultCategory   = "General"
	MinPublishedYear  = 1000
	MinUsernameLength = 3
)

type Book struct {
	ID              int64  `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	ISBN            string `json:"isbn" db:"isbn"`
	Category        string `json:"category" db:"category"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
	PublishedYear   *int   `json:"publishedYear" db:"published_year"`
	Description     string `json:"description" db:"description"`
	IsAvailable     bool   `json:"isAvailable" db:"-"`
}

// BookRequest carries the librarian-editable fields; availableCopies is not among them.
type BookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	ISBN          string `json:"isbn" validate:"required"`
	Category      string `json:"category"`
	TotalCopies   int    `json:"totalCopies" validate:"required,min=1"`
	PublishedYear *int   `json:"publishedYear" validate:"omitempty,min=1000"`
	Description   string `json:"description"`
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         auth.Role `json:"role" db:"role"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the identity fields so validation sees what will be stored.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

type UserInfo struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	// StatusOverdue is a read-time label, it is never stored.
	StatusOverdue Status = "overdue"
)

type Borrowing struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	BookID       *int64     `json:"bookId" db:"book_id"`
	BorrowedDate time.Time  `json:"borrowedDate" db:"borrowed_date"`
	DueDate      time.Time  `json:"dueDate" db:"due_date"`
	ReturnedDate *time.Time `json:"returnedDate" db:"returned_date"`
	Status       Status     `json:"status" db:"status"`

	Username string `json:"username,omitempty" db:"username"`
	Title    string `json:"title" db:"title"`
	Author   string `json:"author" db:"author"`
	ISBN     string `json:"isbn,omitempty" db:"isbn"`

	IsOverdue     bool   `json:"isOverdue" db:"-"`
	DaysRemaining int    `json:"daysRemaining" db:"-"`
	DisplayStatus Status `json:"displayStatus" db:"-"`
}

// Overdue reports whether the loan is open and past its due date.
func (b Borrowing) Overdue(now time.Time) bool {
	return b.Status == StatusBorrowed && b.DueDate.Before(now)
}

// Decorate fills the derived read-time fields relative to now.
func (b *Borrowing) Decorate(now time.Time) {
	b.IsOverdue = b.Overdue(now)
	b.DisplayStatus = b.Status
	if b.IsOverdue {
		b.DisplayStatus = StatusOverdue
	}
	b.DaysRemaining = 0
	if b.Status == StatusBorrowed {
		days := int(math.Ceil(b.DueDate.Sub(now).Hours() / 24))
		if days > 0 {
			b.DaysRemaining = days
		}
	}
}

type BorrowRequest struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
}

type BorrowResponse struct {
	Message     string    `json:"message"`
	BorrowingID int64     `json:"borrowingId"`
	DueDate     time.Time `json:"dueDate"`
}

type Stats struct {
	TotalBooks       int `json:"totalBooks"`
	TotalUsers       int `json:"totalUsers"`
	ActiveBorrowings int `json:"activeBorrowings"`
	OverdueBooks     int `json:"overdueBooks"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId,omitempty"`
	BookID  int64  `json:"bookId,omitempty"`
}
