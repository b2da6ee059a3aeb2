package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/kafka"
)

// Borrow lends one copy of bookID to userID for model.LoanPeriod.
func (s *Service) Borrow(ctx context.Context, userID, bookID int64) (model.Borrowing, error) {
	now := s.clock()
	borrowing, err := s.repo.Borrow(ctx, userID, bookID, now, now.Add(model.LoanPeriod))
	if err != nil {
		return model.Borrowing{}, err
	}
	borrowing.Decorate(now)
	s.publish(ctx, kafka.LoanBorrowed, borrowing, now)
	return borrowing, nil
}

func (s *Service) Return(ctx context.Context, userID, bookID int64) (model.Borrowing, error) {
	now := s.clock()
	borrowing, err := s.repo.Return(ctx, userID, bookID, now)
	if err != nil {
		return model.Borrowing{}, err
	}
	borrowing.Decorate(now)
	s.publish(ctx, kafka.LoanReturned, borrowing, now)
	return borrowing, nil
}

func (s *Service) ListUserBorrowings(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decorate(items), nil
}

func (s *Service) ListAllBorrowings(ctx context.Context) ([]model.Borrowing, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(items), nil
}

func (s *Service) decorate(items []model.Borrowing) []model.Borrowing {
	now := s.clock()
	for i := range items {
		items[i].Decorate(now)
	}
	return items
}

// publish runs after commit; delivery failures are logged and never reach the caller.
func (s *Service) publish(ctx context.Context, typ kafka.LoanEventType, b model.Borrowing, at time.Time) {
	event := kafka.LoanEvent{
		Type:        typ,
		BorrowingID: b.ID,
		UserID:      b.UserID,
		OccurredAt:  at,
		DueDate:     b.DueDate,
	}
	if b.BookID != nil {
		event.BookID = *b.BookID
	}
	if err := s.publisher.PublishLoan(ctx, event); err != nil {
		s.log.Warn("publish loan event",
			zap.String("type", string(typ)),
			zap.Int64("borrowing_id", b.ID),
			zap.Error(err))
	}
}
