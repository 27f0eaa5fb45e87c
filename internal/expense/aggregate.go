package expense

// Aggregate sums amounts per category in the order the entries are given.
// Category labels are compared exactly.
func Aggregate(entries []Entry) CategoryTotals {
	totals := CategoryTotals{}
	index := make(map[string]int, len(entries))

	for _, entry := range entries {
		i, ok := index[entry.Category]
		if !ok {
			index[entry.Category] = len(totals)
			totals = append(totals, CategoryTotal{
				Category: entry.Category,
				Amount:   entry.Amount,
			})
			continue
		}
		totals[i].Amount = totals[i].Amount.Add(entry.Amount)
	}

	return totals
}
