package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBookNotFound        = fmt.Errorf("book %w", ErrNotFound)
	ErrUnavailable         = errors.New("book is not available for borrowing")
	ErrDuplicateBorrow     = errors.New("you have already borrowed this book")
	ErrNoActiveLoan        = errors.New("you have not borrowed this book")
	ErrDuplicateISBN       = errors.New("book with this ISBN already exists")
	ErrDuplicateUser       = errors.New("username or email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidUsername     = errors.New("username must be at least 3 characters")
	ErrBookHasOpenLoans    = errors.New("book has copies on loan")
	ErrCopiesBelowBorrowed = errors.New("total copies cannot be less than copies on loan")
	ErrInvalidYear         = errors.New("published year is out of range")
	ErrMissingBookFields   = errors.New("title, author and isbn are required")
)
