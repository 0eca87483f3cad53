package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lingofolio/internal/models"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

var testMessage = models.ContactMessage{
	Name:    "Ann <Lee>",
	Email:   "ann@example.com",
	Message: "Hello\nthere",
}

func TestEmailNotifierDisabledWithoutAddresses(t *testing.T) {
	n := NewEmailNotifier(aws.Config{Region: "eu-west-1"}, "", "", "me@example.com", zap.NewNop())

	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifyContact(context.Background(), testMessage))
}

func TestEmailNotifierSends(t *testing.T) {
	ses := &fakeSES{}
	n := newEmailNotifier(ses, "site@example.com", "Portfolio", "me@example.com", zap.NewNop())

	require.NoError(t, n.NotifyContact(context.Background(), testMessage))

	require.NotNil(t, ses.input)
	assert.Equal(t, "Portfolio <site@example.com>", aws.ToString(ses.input.FromEmailAddress))
	assert.Equal(t, []string{"me@example.com"}, ses.input.Destination.ToAddresses)
	assert.Equal(t, []string{"ann@example.com"}, ses.input.ReplyToAddresses)
	htmlBody := aws.ToString(ses.input.Content.Simple.Body.Html.Data)
	assert.Contains(t, htmlBody, "Ann &lt;Lee&gt;")
	assert.Contains(t, htmlBody, "Hello<br>there")
}

func TestEmailNotifierWrapsErrors(t *testing.T) {
	errThrottled := errors.New("throttled")
	n := newEmailNotifier(&fakeSES{err: errThrottled}, "site@example.com", "", "me@example.com", zap.NewNop())

	err := n.NotifyContact(context.Background(), testMessage)

	assert.ErrorIs(t, err, errThrottled)
}

func TestTelegramNotifier(t *testing.T) {
	disabled, err := NewTelegramNotifier("", 0, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.NotifyContact(context.Background(), testMessage))

	bot := &fakeBot{}
	n := newTelegramNotifier(bot, 12345, zap.NewNop())
	require.NoError(t, n.NotifyContact(context.Background(), testMessage))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(12345), msg.ChatID)
	assert.Contains(t, msg.Text, "ann@example.com")
	assert.True(t, msg.DisableWebPagePreview)
}

func TestTelegramNotifierHonoursContext(t *testing.T) {
	bot := &fakeBot{}
	n := newTelegramNotifier(bot, 1, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.NotifyContact(ctx, testMessage), context.Canceled)
	assert.Empty(t, bot.sent)
}
