package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func entry(amount string, category string) Entry {
	return Entry{Amount: decimal.RequireFromString(amount), Category: category}
}

func TestAggregateKeepsFirstSeenOrder(t *testing.T) {
	totals := Aggregate([]Entry{
		entry("10.00", "Food"),
		entry("5.00", "Food"),
		entry("3.00", "Travel"),
	})

	require.Len(t, totals, 2)
	require.Equal(t, "Food", totals[0].Category)
	require.Equal(t, "15.00", totals[0].Amount.StringFixed(2))
	require.Equal(t, "Travel", totals[1].Category)
	require.Equal(t, "3.00", totals[1].Amount.StringFixed(2))
}

func TestAggregateIsNotAlphabetical(t *testing.T) {
	totals := Aggregate([]Entry{
		entry("1", "Zoo"),
		entry("2", "Apple"),
		entry("3", "Zoo"),
	})

	require.Equal(t, []string{"Zoo", "Apple"}, []string{totals[0].Category, totals[1].Category})
	zoo, ok := totals.Get("Zoo")
	require.True(t, ok)
	require.True(t, zoo.Equal(decimal.NewFromInt(4)))
}

func TestAggregateExactLabelMatch(t *testing.T) {
	totals := Aggregate([]Entry{
		entry("1.10", "Food"),
		entry("2.20", "food"),
	})
	require.Len(t, totals, 2)
}

func TestAggregateDecimalPrecision(t *testing.T) {
	entries := make([]Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, entry("0.10", "Coffee"))
	}

	total, ok := Aggregate(entries).Get("Coffee")
	require.True(t, ok)
	require.Equal(t, "1.00", total.StringFixed(2))
	require.True(t, total.Equal(decimal.NewFromInt(1)))
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	require.NotNil(t, totals)
	require.Empty(t, totals)

	_, ok := totals.Get("Food")
	require.False(t, ok)
}
