package command

import (
	"strings"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
)

const MissingArgumentsMessage = "Please add an expense as `!add amount category date`, for example `!add 12.50 Food 2024-03-01`."

// Parse turns a chat line into an intent. Validation failures come back as
// appErrors.ErrorResponse values with IsFeedBack set; lines that do not start
// with a known keyword yield Unrecognized and no error.
func Parse(line string) (Intent, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Unrecognized{}, nil
	}

	switch tokens[0] {
	case KeywordAdd:
		return parseAdd(tokens)
	case KeywordSummary:
		arg, err := parseRange(tokens)
		if err != nil {
			return nil, err
		}
		return SummaryIntent{Range: arg}, nil
	case KeywordTotal:
		arg, err := parseRange(tokens)
		if err != nil {
			return nil, err
		}
		return TotalIntent{Range: arg}, nil
	case KeywordRemove:
		arg, err := parseRange(tokens)
		if err != nil {
			return nil, err
		}
		return RemoveIntent{Range: arg}, nil
	case KeywordHelp:
		return HelpIntent{}, nil
	default:
		return Unrecognized{}, nil
	}
}

// parseAdd reads amount and category from the first two arguments and the
// date from the last one. The date is checked first, then the amount, then
// the category.
func parseAdd(tokens []string) (Intent, error) {
	if len(tokens) < 4 {
		return nil, appErrors.Feedback(appErrors.ErrMissingArguments, MissingArgumentsMessage)
	}

	date, err := expense.ParseDate(tokens[len(tokens)-1])
	if err != nil {
		return nil, err
	}

	amount, err := expense.ParseAmount(tokens[1])
	if err != nil {
		return nil, err
	}

	category := tokens[2]
	if err := expense.ValidateCategory(category); err != nil {
		return nil, err
	}

	return AddIntent{
		Amount:   amount,
		Category: category,
		Date:     date,
	}, nil
}

// parseRange uses the first and last argument, so a single date means a
// one-day range. Malformed dates never fall back to the default range.
func parseRange(tokens []string) (RangeArg, error) {
	if len(tokens) < 2 {
		return RangeArg{}, nil
	}

	dateRange, err := expense.ParseRange(tokens[1], tokens[len(tokens)-1])
	if err != nil {
		return RangeArg{}, err
	}
	return RangeArg{Explicit: true, Range: dateRange}, nil
}
