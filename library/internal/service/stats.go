package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

// DashboardStats counts books, borrower accounts, open loans and overdue loans.
func (s *Service) DashboardStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	now := s.clock()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBooks, err = s.repo.CountBooks(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repo.CountUsers(gCtx, auth.RoleBorrower)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveBorrowings, err = s.repo.CountOpen(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueBooks, err = s.repo.CountOverdue(gCtx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
