package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

type TemplateService struct {
	repo   domain.TemplateRepository
	logger logger.Logger
	tracer tracing.Tracer
}

func NewTemplateService(repo domain.TemplateRepository, logger logger.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
		tracer: tracing.NewTracer(),
	}
}

func isTemplateNotFound(err error) bool {
	var notFound *domain.ErrTemplateNotFound
	return errors.As(err, &notFound)
}

func (s *TemplateService) CreateTemplate(ctx context.Context, template *domain.Template) (err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "TemplateService", "CreateTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()

	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	s.tracer.AddAttribute(ctx, "template_id", template.ID)

	if err := template.Validate(); err != nil {
		return err
	}

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		s.logger.WithField("template_id", template.ID).WithField("error", err.Error()).Error("Failed to create template")
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (template *domain.Template, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "TemplateService", "GetTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "template_id", id)

	template, err = s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		if isTemplateNotFound(err) {
			return nil, err
		}
		s.logger.WithField("template_id", id).WithField("error", err.Error()).Error("Failed to get template")
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context, filter domain.TemplateFilter) (templates []*domain.Template, total int, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "TemplateService", "ListTemplates")
	defer func() { s.tracer.EndSpan(span, err) }()

	templates, total, err = s.repo.ListTemplates(ctx, filter)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to list templates")
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	s.tracer.AddAttribute(ctx, "total", total)
	return templates, total, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, template *domain.Template) (err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "TemplateService", "UpdateTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "template_id", template.ID)

	if err := template.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		if isTemplateNotFound(err) {
			return err
		}
		s.logger.WithField("template_id", template.ID).WithField("error", err.Error()).Error("Failed to update template")
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "TemplateService", "DeleteTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "template_id", id)

	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		if isTemplateNotFound(err) {
			return err
		}
		s.logger.WithField("template_id", id).WithField("error", err.Error()).Error("Failed to delete template")
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
