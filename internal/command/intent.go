package command

import (
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/shopspring/decimal"
)

const (
	KeywordAdd     = "!add"
	KeywordSummary = "!summary"
	KeywordTotal   = "!total"
	KeywordRemove  = "!remove"
	KeywordHelp    = "!help"
)

// Intent is one of AddIntent, SummaryIntent, TotalIntent, RemoveIntent,
// HelpIntent or Unrecognized.
type Intent interface {
	Name() string
	isIntent()
}

type AddIntent struct {
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

// RangeArg is either an explicit range from the command line or a request
// for the default range, resolved when the command runs.
type RangeArg struct {
	Explicit bool
	Range    expense.DateRange
}

func (r RangeArg) Resolve(defaultRange func() expense.DateRange) expense.DateRange {
	if r.Explicit {
		return r.Range
	}
	return defaultRange()
}

type SummaryIntent struct {
	Range RangeArg
}

type TotalIntent struct {
	Range RangeArg
}

type RemoveIntent struct {
	Range RangeArg
}

type HelpIntent struct{}

type Unrecognized struct{}

func (AddIntent) Name() string     { return KeywordAdd }
func (SummaryIntent) Name() string { return KeywordSummary }
func (TotalIntent) Name() string   { return KeywordTotal }
func (RemoveIntent) Name() string  { return KeywordRemove }
func (HelpIntent) Name() string    { return KeywordHelp }
func (Unrecognized) Name() string  { return "" }

func (AddIntent) isIntent()     {}
func (SummaryIntent) isIntent() {}
func (TotalIntent) isIntent()   {}
func (RemoveIntent) isIntent()  {}
func (HelpIntent) isIntent()    {}
func (Unrecognized) isIntent()  {}
