package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"", WindowAll, false},
		{"all", WindowAll, false},
		{"24h", WindowDay, false},
		{"1D", WindowDay, false},
		{"7d", WindowWeek, false},
		{"30d", WindowMonth, false},
		{"6m", WindowSixMonths, false},
		{"1y", WindowYear, false},
		{"2w", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowSince(t *testing.T) {
	now := time.Date(2024, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 8, 30, 12, 0, 0, 0, time.UTC), WindowDay.Since(now))
	assert.Equal(t, time.Date(2024, 8, 24, 12, 0, 0, 0, time.UTC), WindowWeek.Since(now))
	assert.Equal(t, time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC), WindowMonth.Since(now))
	assert.True(t, WindowAll.Since(now).IsZero())

	// Feb 31 2024 carries into March
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), WindowSixMonths.Since(now))
}

func TestWindowSince_LeapDay(t *testing.T) {
	leap := time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC), WindowYear.Since(leap))
}
