package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].IsAvailable = books[i].AvailableCopies > 0
	}
	return books, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	book.IsAvailable = book.AvailableCopies > 0
	return book, nil
}

// AddBook stores a new title with every copy on the shelf.
func (s *Service) AddBook(ctx context.Context, req model.BookRequest) (int64, error) {
	req, err := s.normalizeBook(req)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateBook(ctx, model.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		PublishedYear:   req.PublishedYear,
		Description:     req.Description,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("book added", zap.Int64("book_id", id), zap.String("isbn", req.ISBN))
	return id, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) error {
	req, err := s.normalizeBook(req)
	if err != nil {
		return err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int64("book_id", id))
	return nil
}

func (s *Service) normalizeBook(req model.BookRequest) (model.BookRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Author == "" || req.ISBN == "" {
		return req, errs.ErrMissingBookFields
	}
	if req.Category == "" {
		req.Category = model.DefaultCategory
	}
	if req.PublishedYear != nil {
		if y := *req.PublishedYear; y < model.MinPublishedYear || y > s.now().Year() {
			return req, errs.ErrInvalidYear
		}
	}
	return req, nil
}
