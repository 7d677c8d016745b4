package domain_test

import (
	"testing"
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPeriodStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.PeriodStatus
		to   domain.PeriodStatus
		want bool
	}{
		{"open to soft closed", domain.StatusOpen, domain.StatusSoftClosed, true},
		{"open to closed", domain.StatusOpen, domain.StatusClosed, true},
		{"open to open", domain.StatusOpen, domain.StatusOpen, false},
		{"soft closed to open", domain.StatusSoftClosed, domain.StatusOpen, true},
		{"soft closed to closed", domain.StatusSoftClosed, domain.StatusClosed, true},
		{"soft closed to soft closed", domain.StatusSoftClosed, domain.StatusSoftClosed, false},
		{"closed to soft closed", domain.StatusClosed, domain.StatusSoftClosed, true},
		{"closed to open is never allowed", domain.StatusClosed, domain.StatusOpen, false},
		{"closed to closed", domain.StatusClosed, domain.StatusClosed, false},
		{"unknown status transitions nowhere", domain.PeriodStatus("BOGUS"), domain.StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAccountingPeriod_Covers(t *testing.T) {
	period := domain.AccountingPeriod{
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Covers(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), "start date is inclusive")
	assert.True(t, period.Covers(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)), "end date is inclusive")
	assert.True(t, period.Covers(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Covers(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Covers(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}
