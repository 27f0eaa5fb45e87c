// Package bot turns chat messages into ledger operations and replies.
package bot

import (
	"context"
	"errors"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/fatali-fataliyev/thriftier/internal/command"
	"github.com/fatali-fataliyev/thriftier/internal/contextutil"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/fatali-fataliyev/thriftier/internal/removal"
	"github.com/fatali-fataliyev/thriftier/logging"
)

// Message is an incoming chat message, independent of the transport.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
	FromSelf  bool
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Colour      int
	Fields      []EmbedField
}

// Responder delivers replies to a channel.
type Responder interface {
	SendText(ctx context.Context, channelID string, text string) error
	SendEmbed(ctx context.Context, channelID string, embed Embed) error
}

type Bot struct {
	tracker  *expense.ExpenseTracker
	removals *removal.Registry
}

func New(tracker *expense.ExpenseTracker, removals *removal.Registry) *Bot {
	return &Bot{
		tracker:  tracker,
		removals: removals,
	}
}

// HandleMessage processes one message to completion. A !remove blocks until
// its selection arrives, the flow times out or ctx is done, so transports
// should call it from its own goroutine.
func (b *Bot) HandleMessage(ctx context.Context, msg Message, out Responder) {
	if msg.FromSelf {
		return
	}

	key := removal.Key{ChannelID: msg.ChannelID, UserID: msg.AuthorID}
	if b.removals.Offer(key, msg.Content) {
		return
	}

	intent, err := command.Parse(msg.Content)
	if _, ignored := intent.(command.Unrecognized); ignored && err == nil {
		return
	}

	ctx = contextutil.WithTraceID(ctx, "")
	ctx = contextutil.WithUserID(ctx, msg.AuthorID)
	traceID := contextutil.TraceIDFromContext(ctx)

	if err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	logging.Logger.Debugf("[TraceID=%s] | %s from user %s in channel %s", traceID, intent.Name(), msg.AuthorID, msg.ChannelID)

	switch in := intent.(type) {
	case command.AddIntent:
		b.handleAdd(ctx, msg, out, in)
	case command.SummaryIntent:
		b.handleSummary(ctx, msg, out, in)
	case command.TotalIntent:
		b.handleTotal(ctx, msg, out, in)
	case command.RemoveIntent:
		b.handleRemove(ctx, msg, out, in)
	case command.HelpIntent:
		if err := out.SendEmbed(ctx, msg.ChannelID, HelpEmbed()); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to send help in Bot.HandleMessage() function | Error: %v", traceID, err)
		}
	}
}

func (b *Bot) handleAdd(ctx context.Context, msg Message, out Responder, in command.AddIntent) {
	entry, err := b.tracker.AddExpense(ctx, msg.AuthorID, expense.AddExpenseRequest{
		Amount:   in.Amount,
		Category: in.Category,
		Date:     in.Date,
	})
	if err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	b.reply(ctx, msg, out, RenderAdded(entry))
}

func (b *Bot) handleSummary(ctx context.Context, msg Message, out Responder, in command.SummaryIntent) {
	dateRange := in.Range.Resolve(b.tracker.CurrentMonth)
	entries, err := b.tracker.ListExpenses(ctx, msg.AuthorID, dateRange)
	if err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	b.reply(ctx, msg, out, RenderSummary(dateRange, entries))
}

func (b *Bot) handleTotal(ctx context.Context, msg Message, out Responder, in command.TotalIntent) {
	dateRange := in.Range.Resolve(b.tracker.CurrentMonth)
	totals, err := b.tracker.TotalsByCategory(ctx, msg.AuthorID, dateRange)
	if err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	b.reply(ctx, msg, out, RenderTotals(dateRange, totals))
}

func (b *Bot) handleRemove(ctx context.Context, msg Message, out Responder, in command.RemoveIntent) {
	traceID := contextutil.TraceIDFromContext(ctx)

	dateRange := in.Range.Resolve(b.tracker.CurrentMonth)
	entries, err := b.tracker.ListExpenses(ctx, msg.AuthorID, dateRange)
	if err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	if len(entries) == 0 {
		b.reply(ctx, msg, out, RenderSummary(dateRange, entries))
		b.reply(ctx, msg, out, NothingToRemoveMessage)
		return
	}

	// registered before the prompt goes out so a quick answer is not lost
	flow := b.removals.Begin(removal.Key{ChannelID: msg.ChannelID, UserID: msg.AuthorID}, entries)
	b.reply(ctx, msg, out, RenderSummary(dateRange, entries))
	b.reply(ctx, msg, out, RemovePromptMessage)

	selected, err := flow.Await(ctx)
	switch {
	case errors.Is(err, removal.ErrTimeout):
		b.reply(ctx, msg, out, RemovalTimeoutMessage)
		return
	case err != nil:
		logging.Logger.Debugf("[TraceID=%s] | removal for user %s ended: %v", traceID, msg.AuthorID, err)
		return
	}

	if _, err := b.tracker.RemoveExpense(ctx, msg.AuthorID, selected); err != nil {
		b.reportError(ctx, msg, out, err)
		return
	}
	b.reply(ctx, msg, out, RemovedMessage)
}

func (b *Bot) reply(ctx context.Context, msg Message, out Responder, text string) {
	if err := out.SendText(ctx, msg.ChannelID, text); err != nil {
		traceID := contextutil.TraceIDFromContext(ctx)
		logging.Logger.Errorf("[TraceID=%s] | failed to send reply to channel %s | Error: %v", traceID, msg.ChannelID, err)
	}
}

// reportError shows feedback errors to the user as is and hides everything
// else behind a generic reply.
func (b *Bot) reportError(ctx context.Context, msg Message, out Responder, err error) {
	var errResp appErrors.ErrorResponse
	if errors.As(err, &errResp) && errResp.IsFeedBack {
		b.reply(ctx, msg, out, errResp.Message)
		return
	}

	traceID := contextutil.TraceIDFromContext(ctx)
	logging.Logger.Errorf("[TraceID=%s] | command from user %s failed | Error: %v", traceID, msg.AuthorID, err)
	b.reply(ctx, msg, out, SomethingWentWrong)
}
