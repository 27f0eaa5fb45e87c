package discord

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/fatali-fataliyev/thriftier/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (r *recordingSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.texts = append(r.texts, content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (r *recordingSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"fits", "a\nb", 10, []string{"a\nb"}},
		{"splits on lines", "aaaa\nbbbb\ncc", 9, []string{"aaaa\nbbbb", "cc"}},
		{"long line is cut", "abcdefgh\nij", 3, []string{"abc", "def", "gh", "ij"}},
		{"counts runes", "ééé\néé", 4, []string{"ééé", "éé"}},
		{"blank line on boundary", "aaaa\n\nbbbb", 4, []string{"aaaa", "", "bbbb"}},
		{"blank line kept in chunk", "aa\n\nbb", 3, []string{"aa\n", "bb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMessage(tt.text, tt.limit))
		})
	}
}

func TestSplitMessageKeepsEveryLine(t *testing.T) {
	var lines []string
	for i := 0; i < 300; i++ {
		lines = append(lines, "1. 2024-03-01: Groceries - $12.50")
	}
	text := strings.Join(lines, "\n")

	chunks := SplitMessage(text, MaxMessageLength)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), MaxMessageLength)
	}
	assert.Equal(t, text, strings.Join(chunks, "\n"))
}

func TestSendText(t *testing.T) {
	sender := &recordingSender{}
	c := &Client{sender: sender}

	require.NoError(t, c.SendText(context.Background(), "c1", strings.Repeat("x\n", 1500)))
	assert.Len(t, sender.texts, 2)
}

func TestSplitMessageKeepsBlankLines(t *testing.T) {
	text := strings.Repeat("x", 1999) + "\n\n\n" + strings.Repeat("y", 10)

	chunks := SplitMessage(text, MaxMessageLength)
	assert.Equal(t, text, strings.Join(chunks, "\n"))
}

func TestSendTextSkipsBlankChunks(t *testing.T) {
	sender := &recordingSender{}
	c := &Client{sender: sender}

	first := strings.Repeat("a", MaxMessageLength)
	second := strings.Repeat("b", MaxMessageLength)
	require.NoError(t, c.SendText(context.Background(), "c1", first+"\n\n"+second))
	assert.Equal(t, []string{first, second}, sender.texts)
}

func TestSendEmbed(t *testing.T) {
	sender := &recordingSender{}
	c := &Client{sender: sender}

	require.NoError(t, c.SendEmbed(context.Background(), "c1", bot.HelpEmbed()))
	require.Len(t, sender.embeds, 1)
	assert.Equal(t, bot.HelpTitle, sender.embeds[0].Title)
	assert.Equal(t, bot.HelpColour, sender.embeds[0].Color)
	assert.Len(t, sender.embeds[0].Fields, 2)
}

func TestToMessage(t *testing.T) {
	create := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   "!total",
		Author:    &discordgo.User{ID: "u1"},
	}}

	msg, ok := toMessage(create, "self")
	require.True(t, ok)
	assert.Equal(t, bot.Message{ID: "m1", ChannelID: "c1", AuthorID: "u1", Content: "!total"}, msg)

	msg, ok = toMessage(create, "u1")
	require.True(t, ok)
	assert.True(t, msg.FromSelf)

	create.Author.Bot = true
	msg, ok = toMessage(create, "self")
	require.True(t, ok)
	assert.False(t, msg.FromSelf, "other bots are answered like users")

	_, ok = toMessage(&discordgo.MessageCreate{Message: &discordgo.Message{}}, "self")
	assert.False(t, ok)
}
