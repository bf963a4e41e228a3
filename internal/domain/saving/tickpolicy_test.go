package saving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsim/internal/shared/biztime"
)

func TestTickPolicy_Dates(t *testing.T) {
	var p TickPolicy
	start := biztime.Date(2025, 1, 7)

	ticks, err := p.ToTotalTicks(12)
	require.NoError(t, err)
	assert.Equal(t, 12, ticks)

	_, err = p.ToTotalTicks(0)
	assert.ErrorIs(t, err, ErrInvalidPolicyInput)

	assert.Equal(t, start, p.FirstDueDate(start))

	maturity, err := p.MaturityDate(start, 12)
	require.NoError(t, err)
	assert.Equal(t, biztime.Date(2025, 1, 19), maturity)

	next, err := p.NextDueDate(start, 3)
	require.NoError(t, err)
	assert.Equal(t, biztime.Date(2025, 1, 10), next)

	_, err = p.NextDueDate(start, -1)
	assert.ErrorIs(t, err, ErrInvalidPolicyInput)
}

func TestTickPolicy_EstimateCurrentTick(t *testing.T) {
	var p TickPolicy
	start := biztime.Date(2025, 1, 7)

	tests := []struct {
		name  string
		today int
		want  int
	}{
		{"before start", -2, 0},
		{"on start", 0, 0},
		{"mid term", 4, 4},
		{"last due date", 9, 9},
		{"on maturity", 10, 10},
		{"long after maturity", 40, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := biztime.AddDays(start, tt.today)
			assert.Equal(t, tt.want, p.EstimateCurrentTick(start, today, 10))
		})
	}
}

func TestTickPolicy_CrossesMonthBoundary(t *testing.T) {
	var p TickPolicy
	start := biztime.Date(2024, 2, 27)

	maturity, err := p.MaturityDate(start, 3)
	require.NoError(t, err)
	assert.Equal(t, biztime.Date(2024, 3, 1), maturity)
}
