package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

//go:generate mockgen -destination mocks/mock_template_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain TemplateService
//go:generate mockgen -destination mocks/mock_template_repository.go -package mocks github.com/Notifuse/emailbuilder/internal/domain TemplateRepository

const (
	DefaultTemplatesLimit = 20
	MaxTemplatesLimit     = 100
)

// Template is a saved email document. Components are templates holding a
// reusable subtree, grafted into other documents by the editor.
type Template struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Subject           string         `json:"subject"`
	HTMLBody          string         `json:"html_body"`
	EditorJSON        blocktree.Tree `json:"editor_json"`
	FromEmailUsername *string        `json:"from_email_username,omitempty"`
	IsComponent       bool           `json:"is_component"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (t *Template) Validate() error {
	if !govalidator.IsUUID(t.ID) {
		return NewValidationError("invalid template: id must be a valid UUID")
	}
	return validateTemplateFields("invalid template", t.Name, t.Subject, t.EditorJSON, t.FromEmailUsername, t.IsComponent)
}

func validateTemplateFields(prefix, name, subject string, doc blocktree.Tree, fromUsername *string, isComponent bool) error {
	if name == "" {
		return NewValidationError(prefix + ": name is required")
	}
	if !govalidator.StringLength(name, "1", "255") {
		return NewValidationError(prefix + ": name length must be between 1 and 255")
	}
	if !isComponent && subject == "" {
		return NewValidationError(prefix + ": subject is required")
	}
	if len(subject) > 255 {
		return NewValidationError(prefix + ": subject length must be at most 255")
	}
	if fromUsername != nil && *fromUsername != "" && !govalidator.IsEmail(*fromUsername+"@example.com") {
		return NewValidationError(prefix + ": from_email_username is not a valid mailbox name")
	}
	if len(doc) == 0 {
		return NewValidationError(prefix + ": editor_json is required")
	}
	if err := blocktree.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}

type CreateTemplateRequest struct {
	Name              string         `json:"name"`
	Subject           string         `json:"subject"`
	HTMLBody          string         `json:"html_body"`
	EditorJSON        blocktree.Tree `json:"editor_json"`
	FromEmailUsername *string        `json:"from_email_username,omitempty"`
	IsComponent       bool           `json:"is_component"`
}

// Validate checks the request and returns the template to store. The id is
// left empty for the service to assign.
func (r *CreateTemplateRequest) Validate() (*Template, error) {
	if err := validateTemplateFields("invalid create template request", r.Name, r.Subject, r.EditorJSON, r.FromEmailUsername, r.IsComponent); err != nil {
		return nil, err
	}
	return &Template{
		Name:              r.Name,
		Subject:           r.Subject,
		HTMLBody:          r.HTMLBody,
		EditorJSON:        r.EditorJSON,
		FromEmailUsername: r.FromEmailUsername,
		IsComponent:       r.IsComponent,
	}, nil
}

type UpdateTemplateRequest struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Subject           string         `json:"subject"`
	HTMLBody          string         `json:"html_body"`
	EditorJSON        blocktree.Tree `json:"editor_json"`
	FromEmailUsername *string        `json:"from_email_username,omitempty"`
	IsComponent       bool           `json:"is_component"`
}

func (r *UpdateTemplateRequest) Validate() (*Template, error) {
	if !govalidator.IsUUID(r.ID) {
		return nil, NewValidationError("invalid update template request: id must be a valid UUID")
	}
	if err := validateTemplateFields("invalid update template request", r.Name, r.Subject, r.EditorJSON, r.FromEmailUsername, r.IsComponent); err != nil {
		return nil, err
	}
	return &Template{
		ID:                r.ID,
		Name:              r.Name,
		Subject:           r.Subject,
		HTMLBody:          r.HTMLBody,
		EditorJSON:        r.EditorJSON,
		FromEmailUsername: r.FromEmailUsername,
		IsComponent:       r.IsComponent,
	}, nil
}

type GetTemplateRequest struct {
	ID string `json:"id"`
}

func (r *GetTemplateRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	if !govalidator.IsUUID(r.ID) {
		return NewValidationError("invalid get template request: id must be a valid UUID")
	}
	return nil
}

type DeleteTemplateRequest struct {
	ID string `json:"id"`
}

func (r *DeleteTemplateRequest) Validate() error {
	if !govalidator.IsUUID(r.ID) {
		return NewValidationError("invalid delete template request: id must be a valid UUID")
	}
	return nil
}

// TemplateFilter narrows a template listing
type TemplateFilter struct {
	Query       string
	IsComponent *bool
	Limit       int
	Offset      int
}

type ListTemplatesRequest struct {
	Page        int
	Limit       int
	Query       string
	IsComponent *bool
}

func (r *ListTemplatesRequest) FromURLParams(queryParams url.Values) error {
	r.Page = 1
	r.Limit = DefaultTemplatesLimit
	r.Query = queryParams.Get("query")

	if v := queryParams.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return NewValidationError("invalid list templates request: page must be a positive integer")
		}
		r.Page = page
	}
	if v := queryParams.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return NewValidationError("invalid list templates request: limit must be a positive integer")
		}
		if limit > MaxTemplatesLimit {
			limit = MaxTemplatesLimit
		}
		r.Limit = limit
	}
	if v := queryParams.Get("is_component"); v != "" {
		isComponent, err := strconv.ParseBool(v)
		if err != nil {
			return NewValidationError("invalid list templates request: is_component must be a boolean")
		}
		r.IsComponent = &isComponent
	}
	if len(r.Query) > 255 {
		return NewValidationError("invalid list templates request: query is too long")
	}
	return nil
}

func (r *ListTemplatesRequest) Filter() TemplateFilter {
	return TemplateFilter{
		Query:       r.Query,
		IsComponent: r.IsComponent,
		Limit:       r.Limit,
		Offset:      (r.Page - 1) * r.Limit,
	}
}

type ListTemplatesResponse struct {
	Templates []*Template `json:"templates"`
	Total     int         `json:"total"`
}

// TemplateService provides operations for managing templates
type TemplateService interface {
	CreateTemplate(ctx context.Context, template *Template) error
	GetTemplate(ctx context.Context, id string) (*Template, error)
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]*Template, int, error)
	UpdateTemplate(ctx context.Context, template *Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplateRepository provides database operations for templates
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template *Template) error
	GetTemplateByID(ctx context.Context, id string) (*Template, error)
	// ListTemplates returns one page and the total count for the filter
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]*Template, int, error)
	UpdateTemplate(ctx context.Context, template *Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// ErrTemplateNotFound is returned when a template is not found
type ErrTemplateNotFound struct {
	Message string
}

func (e *ErrTemplateNotFound) Error() string {
	return e.Message
}
