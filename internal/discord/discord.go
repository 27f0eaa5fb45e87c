// Package discord connects the bot to a Discord gateway session.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fatali-fataliyev/thriftier/internal/bot"
	"github.com/fatali-fataliyev/thriftier/logging"
)

// MaxMessageLength is the longest text Discord accepts in one message.
const MaxMessageLength = 2000

type Handler interface {
	HandleMessage(ctx context.Context, msg bot.Message, out bot.Responder)
}

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Client struct {
	session *discordgo.Session
	sender  messageSender
	handler Handler
}

func New(token string, handler Handler) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Client{
		session: session,
		sender:  session,
		handler: handler,
	}, nil
}

// Run opens the gateway connection and blocks until ctx is done. Handlers
// receive ctx, so pending removals are cancelled on shutdown.
func (c *Client) Run(ctx context.Context) error {
	removeHandler := c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		selfID := ""
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		msg, ok := toMessage(m, selfID)
		if !ok {
			return
		}
		c.handler.HandleMessage(ctx, msg, c)
	})
	defer removeHandler()

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	logging.Logger.Info("discord session opened, listening for commands")

	<-ctx.Done()

	logging.Logger.Info("closing discord session...")
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, channelID string, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		// Discord rejects blank messages
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if _, err := c.sender.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) SendEmbed(ctx context.Context, channelID string, embed bot.Embed) error {
	_, err := c.sender.ChannelMessageSendEmbed(channelID, toEmbed(embed), discordgo.WithContext(ctx))
	return err
}

func toMessage(m *discordgo.MessageCreate, selfID string) (bot.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return bot.Message{}, false
	}
	return bot.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
		FromSelf:  m.Author.ID == selfID,
	}, true
}

func toEmbed(e bot.Embed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Colour,
		Fields:      fields,
	}
}

// SplitMessage breaks text into pieces of at most limit characters, cutting
// on line breaks where it can. Joining the pieces with "\n" gives back the
// text unless a single line had to be cut.
func SplitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var chunks []string
	var current []rune
	// open is set once a line, even an empty one, belongs to current
	open := false
	flush := func() {
		if open {
			chunks = append(chunks, string(current))
			current = current[:0]
			open = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}

		extra := len(runes)
		if open {
			extra++
		}
		if len(current)+extra > limit {
			flush()
		}
		if open {
			current = append(current, '\n')
		}
		current = append(current, runes...)
		open = true
	}
	flush()
	return chunks
}
