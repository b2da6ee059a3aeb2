package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
}

// EventPublisher delivers loan events after the ledger commit.
type EventPublisher interface {
	PublishLoan(ctx context.Context, event kafka.LoanEvent) error
}

type nopPublisher struct{}

func (nopPublisher) PublishLoan(context.Context, kafka.LoanEvent) error { return nil }

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	tokens    TokenIssuer
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock replaces time.Now, used by tests to move across due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, tokens TokenIssuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		tokens:    tokens,
		publisher: nopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns the current time in UTC at second precision, the resolution stored by the ledger.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
