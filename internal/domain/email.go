package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_email_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain EmailService

const MaxRecipientsPerRequest = 1000

type SendStatus string

const (
	SendStatusSent   SendStatus = "sent"
	SendStatusFailed SendStatus = "failed"
)

type Recipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type SendEmailRequest struct {
	TemplateID string `json:"template_id"`
	// Subject overrides the template subject when set
	Subject    string      `json:"subject,omitempty"`
	Recipients []Recipient `json:"recipients"`
}

func (r *SendEmailRequest) Validate() error {
	if !govalidator.IsUUID(r.TemplateID) {
		return NewValidationError("invalid send email request: template_id must be a valid UUID")
	}
	if len(r.Subject) > 255 {
		return NewValidationError("invalid send email request: subject length must be at most 255")
	}
	if len(r.Recipients) == 0 {
		return NewValidationError("invalid send email request: at least one recipient is required")
	}
	if len(r.Recipients) > MaxRecipientsPerRequest {
		return NewValidationError(fmt.Sprintf("invalid send email request: at most %d recipients are allowed", MaxRecipientsPerRequest))
	}
	for i := range r.Recipients {
		r.Recipients[i].Email = strings.TrimSpace(r.Recipients[i].Email)
		if !govalidator.IsEmail(r.Recipients[i].Email) {
			return NewValidationError(fmt.Sprintf("invalid send email request: recipient %d has an invalid email", i))
		}
	}
	return nil
}

type SendResult struct {
	Email  string     `json:"email"`
	LogID  string     `json:"log_id"`
	Status SendStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

type SendEmailResponse struct {
	Results []SendResult `json:"results"`
	Sent    int          `json:"sent"`
	Failed  int          `json:"failed"`
}

// EmailService renders a template per recipient and hands it to the mail provider
type EmailService interface {
	SendTemplate(ctx context.Context, req SendEmailRequest) (*SendEmailResponse, error)
}
