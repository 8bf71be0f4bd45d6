// Package schema defines the database schema.
package schema

// TableDefinitions contains the statements creating the tables and indexes.
// They are idempotent and run at every start.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL DEFAULT '',
		html_body TEXT NOT NULL DEFAULT '',
		editor_json JSONB NOT NULL,
		from_email_username VARCHAR(64),
		is_component BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_is_component_updated_at ON templates (is_component, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_name ON templates (lower(name))`,
}
