package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"lingofolio/internal/models"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailNotifier sends contact messages through Amazon SES
type EmailNotifier struct {
	client    sesAPI
	fromEmail string
	fromName  string
	recipient string
	enabled   bool
	logger    *zap.Logger
}

// NewEmailNotifier creates an SES notifier. Without a sender or recipient address the notifier
// is disabled and silently skips every message.
func NewEmailNotifier(awsCfg aws.Config, fromEmail, fromName, recipient string, logger *zap.Logger) *EmailNotifier {
	if fromEmail == "" || recipient == "" {
		logger.Info("Email notifications disabled: ses.from_email or contact.recipient not configured")
		return &EmailNotifier{logger: logger}
	}

	logger.Info("Email notifications enabled",
		zap.String("from", fromEmail),
		zap.String("region", awsCfg.Region),
	)
	return newEmailNotifier(sesv2.NewFromConfig(awsCfg), fromEmail, fromName, recipient, logger)
}

func newEmailNotifier(client sesAPI, fromEmail, fromName, recipient string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		recipient: recipient,
		enabled:   true,
		logger:    logger,
	}
}

func (n *EmailNotifier) Name() string  { return "email" }
func (n *EmailNotifier) Enabled() bool { return n.enabled }

// NotifyContact emails msg to the configured recipient, with Reply-To set to the sender
func (n *EmailNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if !n.enabled {
		n.logger.Debug("Skipping email notification (disabled)", zap.String("from", msg.Email))
		return nil
	}

	fromAddress := n.fromEmail
	if n.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}

	subject := fmt.Sprintf("New message from %s", msg.Name)
	textBody := fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Message)
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p><strong>From:</strong> %s &lt;%s&gt;</p>
	<p>%s</p>
</body>
</html>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{n.recipient},
		},
		ReplyToAddresses: []string{msg.Email},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", n.recipient, err)
	}

	if result.MessageId != nil {
		n.logger.Debug("Contact email sent", zap.String("message_id", *result.MessageId))
	}
	return nil
}
