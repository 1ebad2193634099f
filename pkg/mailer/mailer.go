// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends email through the SESv2 API.
type SESMailer struct {
	client  sesAPI
	from    string
	replyTo string
	logger  *zap.Logger
}

// NewSESMailer loads the default AWS credential chain for the configured region.
func NewSESMailer(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (*SESMailer, error) {
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("SES_FROM_EMAIL is required when mail is enabled")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESMailer(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

func newSESMailer(client sesAPI, cfg config.MailConfig, logger *zap.Logger) *SESMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SESMailer{client: client, from: cfg.FromEmail, replyTo: cfg.ReplyTo, logger: logger}
}

// Send delivers msg as a simple HTML + text email.
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	body := &sestypes.Body{}
	if msg.HTML != "" {
		body.Html = &sestypes.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		body.Text = &sestypes.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &sestypes.Destination{ToAddresses: []string{msg.To}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}
	if m.replyTo != "" {
		input.ReplyToAddresses = []string{m.replyTo}
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when mail delivery is disabled
// in development.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message text.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email delivery disabled, logging message", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("text", msg.Text))
	return nil
}
