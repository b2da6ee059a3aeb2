package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func TestBorrowing_Decorate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	returned := now.Add(-time.Hour)

	tests := []struct {
		name          string
		borrowing     model.Borrowing
		wantOverdue   bool
		wantDays      int
		wantDisplayed model.Status
	}{
		{
			name:          "open, due in 14 days",
			borrowing:     model.Borrowing{Status: model.StatusBorrowed, DueDate: now.Add(model.LoanPeriod)},
			wantDays:      14,
			wantDisplayed: model.StatusBorrowed,
		},
		{
			name:          "open, partial day rounds up",
			borrowing:     model.Borrowing{Status: model.StatusBorrowed, DueDate: now.Add(25 * time.Hour)},
			wantDays:      2,
			wantDisplayed: model.StatusBorrowed,
		},
		{
			name:          "open, due exactly now",
			borrowing:     model.Borrowing{Status: model.StatusBorrowed, DueDate: now},
			wantDisplayed: model.StatusBorrowed,
		},
		{
			name:          "open, past due",
			borrowing:     model.Borrowing{Status: model.StatusBorrowed, DueDate: now.Add(-time.Second)},
			wantOverdue:   true,
			wantDisplayed: model.StatusOverdue,
		},
		{
			name:          "returned after due date",
			borrowing:     model.Borrowing{Status: model.StatusReturned, DueDate: now.Add(-72 * time.Hour), ReturnedDate: &returned},
			wantDisplayed: model.StatusReturned,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := tt.borrowing
			b.Decorate(now)
			require.Equal(t, tt.wantOverdue, b.IsOverdue)
			require.Equal(t, tt.wantDays, b.DaysRemaining)
			require.Equal(t, tt.wantDisplayed, b.DisplayStatus)
			require.Equal(t, tt.borrowing.Status, b.Status)
		})
	}
}
