package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

type Bootstrap struct {
	LibrarianUsername string `yaml:"librarianUsername" envconfig:"LIBRARIAN_USERNAME" default:"librarian"`
	LibrarianEmail    string `yaml:"librarianEmail" envconfig:"LIBRARIAN_EMAIL" default:"librarian@library.com"`
	LibrarianPassword string `yaml:"librarianPassword" envconfig:"LIBRARIAN_PASSWORD" default:"librarian123" json:"-"`
	SeedSampleBooks   bool   `yaml:"seedSampleBooks" envconfig:"SEED_SAMPLE_BOOKS" default:"true"`
}

func year(y int) *int { return &y }

var sampleBooks = []model.BookRequest{
	{
		Title:         "The Great Gatsby",
		Author:        "F. Scott Fitzgerald",
		ISBN:          "978-0743273565",
		Category:      "Fiction",
		TotalCopies:   3,
		PublishedYear: year(1925),
		Description:   "A story of the fabulously wealthy Jay Gatsby and his love for the beautiful Daisy Buchanan.",
	},
	{
		Title:         "To Kill a Mockingbird",
		Author:        "Harper Lee",
		ISBN:          "978-0446310789",
		Category:      "Fiction",
		TotalCopies:   2,
		PublishedYear: year(1960),
		Description:   "The story of young Scout Finch and her father Atticus in a racially divided Alabama town.",
	},
	{
		Title:         "1984",
		Author:        "George Orwell",
		ISBN:          "978-0451524935",
		Category:      "Science Fiction",
		TotalCopies:   4,
		PublishedYear: year(1949),
		Description:   "A dystopian novel about totalitarianism and surveillance society.",
	},
}

// Bootstrap seeds the default librarian and, when enabled, the sample catalog.
// Rows that already exist are left untouched, so it is safe on every start.
func (s *Service) Bootstrap(ctx context.Context, cfg Bootstrap) error {
	if cfg.LibrarianUsername != "" {
		_, err := s.CreateLibrarian(ctx, model.RegisterRequest{
			Username: cfg.LibrarianUsername,
			Email:    cfg.LibrarianEmail,
			Password: cfg.LibrarianPassword,
		})
		switch {
		case err == nil:
			s.log.Info("librarian created", zap.String("username", cfg.LibrarianUsername))
		case errors.Is(err, errs.ErrDuplicateUser):
		default:
			return errors.Wrap(err, "create librarian")
		}
	}
	if !cfg.SeedSampleBooks {
		return nil
	}
	return s.SeedSampleBooks(ctx)
}

func (s *Service) SeedSampleBooks(ctx context.Context) error {
	for _, b := range sampleBooks {
		if _, err := s.AddBook(ctx, b); err != nil && !errors.Is(err, errs.ErrDuplicateISBN) {
			return errors.Wrapf(err, "seed %q", b.Title)
		}
	}
	return nil
}
