package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Notifuse/emailbuilder/internal/domain"
)

var templateColumns = []string{
	"id",
	"name",
	"subject",
	"html_body",
	"editor_json",
	"from_email_username",
	"is_component",
	"created_at",
	"updated_at",
}

type templateRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewTemplateRepository creates a new PostgreSQL template repository
func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *templateRepository) CreateTemplate(ctx context.Context, template *domain.Template) error {
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	query, args, err := r.psql.Insert("templates").
		Columns(templateColumns...).
		Values(
			template.ID,
			template.Name,
			template.Subject,
			template.HTMLBody,
			template.EditorJSON,
			nullableString(template.FromEmailUsername),
			template.IsComponent,
			template.CreatedAt,
			template.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetTemplateByID(ctx context.Context, id string) (*domain.Template, error) {
	query, args, err := r.psql.Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrTemplateNotFound{Message: "template not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

func applyTemplateFilter(b sq.SelectBuilder, filter domain.TemplateFilter) sq.SelectBuilder {
	if filter.Query != "" {
		b = b.Where(sq.ILike{"name": "%" + escapeLike(filter.Query) + "%"})
	}
	if filter.IsComponent != nil {
		b = b.Where(sq.Eq{"is_component": *filter.IsComponent})
	}
	return b
}

func (r *templateRepository) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]*domain.Template, int, error) {
	countQuery, countArgs, err := applyTemplateFilter(r.psql.Select("COUNT(*)").From("templates"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultTemplatesLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query, args, err := applyTemplateFilter(r.psql.Select(templateColumns...).From("templates"), filter).
		OrderBy("updated_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*domain.Template{}
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, total, nil
}

// UpdateTemplate overwrites the editable fields. created_at is read back
// from the stored row.
func (r *templateRepository) UpdateTemplate(ctx context.Context, template *domain.Template) error {
	template.UpdatedAt = time.Now().UTC()

	query, args, err := r.psql.Update("templates").
		Set("name", template.Name).
		Set("subject", template.Subject).
		Set("html_body", template.HTMLBody).
		Set("editor_json", template.EditorJSON).
		Set("from_email_username", nullableString(template.FromEmailUsername)).
		Set("is_component", template.IsComponent).
		Set("updated_at", template.UpdatedAt).
		Where(sq.Eq{"id": template.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&template.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ErrTemplateNotFound{Message: "template not found"}
	}
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

func (r *templateRepository) DeleteTemplate(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("templates").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return &domain.ErrTemplateNotFound{Message: "template not found"}
	}
	return nil
}

// scanTemplate scans a template from a database row
func scanTemplate(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Template, error) {
	var (
		template     domain.Template
		fromUsername sql.NullString
	)

	err := scanner.Scan(
		&template.ID,
		&template.Name,
		&template.Subject,
		&template.HTMLBody,
		&template.EditorJSON,
		&fromUsername,
		&template.IsComponent,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fromUsername.Valid {
		template.FromEmailUsername = &fromUsername.String
	}
	return &template, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
