package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
)

//go:generate mockgen -destination=../mocks/mock_ses_client.go -package=mocks github.com/Notifuse/emailbuilder/pkg/mailer SESClient

// SESClient is the part of the SES API the mailer uses
type SESClient interface {
	SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error)
}

// SESConfig holds the Amazon SES settings
type SESConfig struct {
	Region           string
	AccessKey        string
	SecretKey        string
	ConfigurationSet string
}

// SESMailer sends through the Amazon SES SendEmail API
type SESMailer struct {
	client           SESClient
	configurationSet string
}

// NewSESMailer builds a client from static credentials
func NewSESMailer(config SESConfig) (*SESMailer, error) {
	if config.AccessKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("SES access key and secret key are required")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewSESMailerWithClient(ses.New(sess), config.ConfigurationSet), nil
}

func NewSESMailerWithClient(client SESClient, configurationSet string) *SESMailer {
	return &SESMailer{client: client, configurationSet: configurationSet}
}

func (m *SESMailer) Send(ctx context.Context, message Message) error {
	if message.To.Email == "" {
		return ErrNoRecipient
	}

	body := &ses.Body{
		Html: &ses.Content{
			Charset: aws.String("UTF-8"),
			Data:    aws.String(message.HTML),
		},
	}
	if message.Text != "" {
		body.Text = &ses.Content{
			Charset: aws.String("UTF-8"),
			Data:    aws.String(message.Text),
		}
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(message.To.String())},
		},
		Message: &ses.Message{
			Body: body,
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(message.Subject),
			},
		},
		Source: aws.String(message.From.String()),
	}
	if m.configurationSet != "" {
		input.ConfigurationSetName = aws.String(m.configurationSet)
	}
	if message.MessageID != "" {
		input.Tags = []*ses.MessageTag{
			{
				Name:  aws.String("message_id"),
				Value: aws.String(message.MessageID),
			},
		}
	}

	if _, err := m.client.SendEmailWithContext(ctx, input); err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return fmt.Errorf("SES error: %s", aerr.Error())
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
