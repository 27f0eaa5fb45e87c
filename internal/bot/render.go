package bot

import (
	"fmt"
	"strings"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a currency amount with exactly two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func renderHeader(dateRange expense.DateRange) string {
	return fmt.Sprintf(RangeHeaderFormat, dateRange.StartString(), dateRange.EndString())
}

// RenderSummary lists entries as "n. date: category - $amount" under the
// range header.
func RenderSummary(dateRange expense.DateRange, entries []expense.Entry) string {
	var b strings.Builder
	b.WriteString(renderHeader(dateRange))
	for i, e := range entries {
		fmt.Fprintf(&b, "\n%d. %s: %s - %s", i+1, e.Date.Format(expense.DateLayout), e.Category, FormatAmount(e.Amount))
	}
	return b.String()
}

func RenderTotals(dateRange expense.DateRange, totals expense.CategoryTotals) string {
	var b strings.Builder
	b.WriteString(renderHeader(dateRange))
	for i, t := range totals {
		fmt.Fprintf(&b, "\n%d. %s - %s", i+1, t.Category, FormatAmount(t.Amount))
	}
	return b.String()
}

func RenderAdded(entry expense.Entry) string {
	return fmt.Sprintf(AddedMessageFormat, FormatAmount(entry.Amount), entry.Category)
}

func HelpEmbed() Embed {
	return Embed{
		Title:  HelpTitle,
		Colour: HelpColour,
		Fields: []EmbedField{
			{Name: helpPersonalName, Value: helpPersonalValue},
			{Name: helpMiscName, Value: helpMiscValue},
		},
	}
}
