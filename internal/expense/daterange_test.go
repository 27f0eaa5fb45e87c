package expense

import (
	"errors"
	"testing"
	"time"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantStart string
		wantEnd   string
	}{
		{"leap february", NewDate(2024, time.February, 10), "2024-02-01", "2024-02-29"},
		{"common february", NewDate(2023, time.February, 10), "2023-02-01", "2023-02-28"},
		{"thirty days", NewDate(2024, time.April, 30), "2024-04-01", "2024-04-30"},
		{"thirty one days", NewDate(2024, time.December, 1), "2024-12-01", "2024-12-31"},
		{"century non leap", NewDate(1900, time.February, 3), "1900-02-01", "1900-02-28"},
		{"clock part ignored", time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC), "2024-03-01", "2024-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MonthRange(tt.ref)
			require.Equal(t, tt.wantStart, r.StartString())
			require.Equal(t, tt.wantEnd, r.EndString())
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2024-03-01", "2024-03-15")
	require.NoError(t, err)
	require.Equal(t, NewDate(2024, time.March, 1), r.Start)
	require.Equal(t, NewDate(2024, time.March, 15), r.End)
	require.Equal(t, "2024-03-01 to 2024-03-15", r.String())

	reversed, err := ParseRange("2024-03-15", "2024-03-01")
	require.NoError(t, err)
	require.False(t, reversed.Contains(NewDate(2024, time.March, 10)))

	for _, tokens := range [][2]string{
		{"2024-03-01", "tomorrow"},
		{"03/01/2024", "2024-03-02"},
		{"2024-02-30", "2024-03-01"},
		{"2024-3-1", "2024-03-01"},
	} {
		_, err := ParseRange(tokens[0], tokens[1])
		require.Error(t, err, tokens)
		require.True(t, errors.Is(err, appErrors.FormatError), tokens)
	}
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	r := DateRange{Start: NewDate(2024, time.March, 1), End: NewDate(2024, time.March, 31)}

	require.True(t, r.Contains(NewDate(2024, time.March, 1)))
	require.True(t, r.Contains(NewDate(2024, time.March, 31)))
	require.True(t, r.Contains(time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC)))
	require.False(t, r.Contains(NewDate(2024, time.February, 29)))
	require.False(t, r.Contains(NewDate(2024, time.April, 1)))
}
