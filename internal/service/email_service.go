package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/mailer"
	"github.com/Notifuse/emailbuilder/pkg/render"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

// EmailServiceConfig holds the sender identity and the per-recipient links
type EmailServiceConfig struct {
	FromEmail      string
	FromName       string
	OpenTrackerURL string
	// UnsubscribeURL is personalized per recipient before it is bound to unsubscribe_url
	UnsubscribeURL string
	Concurrency    int
}

type EmailService struct {
	templates    domain.TemplateService
	mailer       mailer.Mailer
	renderer     *render.Renderer
	personalizer *render.Personalizer
	config       EmailServiceConfig
	logger       logger.Logger
	tracer       tracing.Tracer
}

func NewEmailService(templates domain.TemplateService, m mailer.Mailer, renderer *render.Renderer, config EmailServiceConfig, logger logger.Logger) *EmailService {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &EmailService{
		templates:    templates,
		mailer:       m,
		renderer:     renderer,
		personalizer: render.NewPersonalizer(),
		config:       config,
		logger:       logger,
		tracer:       tracing.NewTracer(),
	}
}

// SendTemplate sends one message per recipient. A failed recipient does not
// stop the others; its error is reported in its result.
func (s *EmailService) SendTemplate(ctx context.Context, req domain.SendEmailRequest) (resp *domain.SendEmailResponse, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EmailService", "SendTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "template_id", req.TemplateID)
	s.tracer.AddAttribute(ctx, "recipients", len(req.Recipients))

	if err := req.Validate(); err != nil {
		return nil, err
	}

	template, err := s.templates.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	html, err := s.templateHTML(ctx, template)
	if err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == "" {
		subject = template.Subject
	}
	from := s.fromAddress(template)

	results := make([]domain.SendResult, len(req.Recipients))
	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, recipient := range req.Recipients {
		i, recipient := i, recipient
		g.Go(func() error {
			results[i] = s.sendOne(ctx, from, subject, html, recipient)
			return nil
		})
	}
	_ = g.Wait()

	resp = &domain.SendEmailResponse{Results: results}
	for _, r := range results {
		if r.Status == domain.SendStatusSent {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"template_id": req.TemplateID,
		"sent":        resp.Sent,
		"failed":      resp.Failed,
	}).Info("Template sent")
	return resp, nil
}

// templateHTML returns the stored body, or renders one from the document
// when the template was saved without it
func (s *EmailService) templateHTML(ctx context.Context, template *domain.Template) (string, error) {
	if template.HTMLBody != "" {
		return template.HTMLBody, nil
	}
	if err := blocktree.Validate(template.EditorJSON); err != nil {
		return "", err
	}
	html, err := s.renderer.HTML(ctx, template.EditorJSON, blocktree.ResolveRootID(template.EditorJSON))
	if err != nil {
		return "", err
	}
	return render.FinalHTML(html, s.config.OpenTrackerURL), nil
}

func (s *EmailService) fromAddress(template *domain.Template) mailer.Address {
	from := mailer.Address{Name: s.config.FromName, Email: s.config.FromEmail}
	if template.FromEmailUsername == nil || *template.FromEmailUsername == "" {
		return from
	}
	if at := strings.LastIndex(s.config.FromEmail, "@"); at >= 0 {
		from.Email = *template.FromEmailUsername + s.config.FromEmail[at:]
	}
	return from
}

func (s *EmailService) sendOne(ctx context.Context, from mailer.Address, subject, html string, recipient domain.Recipient) domain.SendResult {
	logID := uuid.New().String()
	result := domain.SendResult{Email: recipient.Email, LogID: logID, Status: domain.SendStatusSent}

	msg, err := s.personalize(ctx, logID, from, subject, html, recipient)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	tracing.RecordSend(ctx, err)

	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"log_id": logID,
			"email":  recipient.Email,
			"error":  err.Error(),
		}).Warn("Failed to send email")
		result.Status = domain.SendStatusFailed
		result.Error = err.Error()
	}
	return result
}

func (s *EmailService) personalize(ctx context.Context, logID string, from mailer.Address, subject, html string, recipient domain.Recipient) (mailer.Message, error) {
	contact := render.Recipient{Name: recipient.Name, Email: recipient.Email}

	unsubscribeURL := s.config.UnsubscribeURL
	if unsubscribeURL != "" {
		var err error
		unsubscribeURL, err = s.personalizer.Personalize(ctx, unsubscribeURL, render.Vars(logID, contact, ""))
		if err != nil {
			return mailer.Message{}, fmt.Errorf("failed to build unsubscribe url: %w", err)
		}
	}
	vars := render.Vars(logID, contact, unsubscribeURL)

	body, err := s.personalizer.Personalize(ctx, html, vars)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to personalize body: %w", err)
	}
	personalizedSubject, err := s.personalizer.Personalize(ctx, subject, vars)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to personalize subject: %w", err)
	}
	text, err := render.PlainText(body)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to build plain text: %w", err)
	}

	return mailer.Message{
		From:      from,
		To:        mailer.Address{Name: recipient.Name, Email: recipient.Email},
		Subject:   personalizedSubject,
		HTML:      body,
		Text:      text,
		MessageID: logID,
	}, nil
}
