package expense

import (
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
)

const WrongDateFormatMessage = "You have entered the wrong format for the date. Please try again in the correct format yyyy-mm-dd!"

func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(token string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, appErrors.Feedback(appErrors.ErrFormat, WrongDateFormatMessage)
	}
	return date, nil
}

// MonthRange returns the first and last day of the month containing ref.
func MonthRange(ref time.Time) DateRange {
	start := NewDate(ref.Year(), ref.Month(), 1)
	return DateRange{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// ParseRange does not check that start <= end; a reversed range simply
// matches nothing.
func ParseRange(startToken, endToken string) (DateRange, error) {
	start, err := ParseDate(startToken)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(endToken)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}

func (r DateRange) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

func (r DateRange) StartString() string {
	return r.Start.Format(DateLayout)
}

func (r DateRange) EndString() string {
	return r.End.Format(DateLayout)
}

func (r DateRange) String() string {
	return r.StartString() + " to " + r.EndString()
}
