package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/asaskevich/govalidator"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/editor"
)

//go:generate mockgen -destination mocks/mock_editor_service.go -package mocks github.com/Notifuse/emailbuilder/internal/domain EditorService

// ErrRequestSuperseded is returned when a newer request of the same kind
// started on the session before this one completed
var ErrRequestSuperseded = errors.New("request superseded by a newer one")

// EditorSession is the client view of one editor
type EditorSession struct {
	ID     string       `json:"id"`
	RootID string       `json:"root_id"`
	State  editor.State `json:"state"`
	// UnsavedChanges is true when the document differs from the last loaded or saved one
	UnsavedChanges bool `json:"unsaved_changes"`
}

// CatalogEntry describes one block type of the "add block" menu
type CatalogEntry struct {
	Type     blocktree.BlockType `json:"type"`
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Block    blocktree.Block     `json:"block"`
}

type BlockResponse struct {
	Session *EditorSession `json:"session"`
	BlockID string         `json:"block_id"`
}

type OrphansResponse struct {
	Session *EditorSession `json:"session"`
	Removed []string       `json:"removed"`
}

func validateSessionID(prefix, id string) error {
	if id == "" {
		return NewValidationError(prefix + ": session_id is required")
	}
	if !govalidator.IsUUID(id) {
		return NewValidationError(prefix + ": session_id must be a valid UUID")
	}
	return nil
}

type CreateSessionRequest struct {
	// TemplateID optionally opens the template in preview mode
	TemplateID string `json:"template_id,omitempty"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.TemplateID != "" && !govalidator.IsUUID(r.TemplateID) {
		return NewValidationError("invalid create session request: template_id must be a valid UUID")
	}
	return nil
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

func (r *SessionRequest) FromURLParams(queryParams url.Values) error {
	r.SessionID = queryParams.Get("session_id")
	return r.Validate()
}

func (r *SessionRequest) Validate() error {
	return validateSessionID("invalid session request", r.SessionID)
}

type AppendBlockRequest struct {
	SessionID string `json:"session_id"`
	ParentID  string `json:"parent_id"`
	Column    int    `json:"column,omitempty"`
	// Type selects the catalogue defaults; Block, when set, is inserted as is
	Type  blocktree.BlockType `json:"type,omitempty"`
	Block *blocktree.Block    `json:"block,omitempty"`
}

func (r *AppendBlockRequest) Validate() error {
	if err := validateSessionID("invalid append block request", r.SessionID); err != nil {
		return err
	}
	if r.ParentID == "" {
		return NewValidationError("invalid append block request: parent_id is required")
	}
	if r.Column < 0 {
		return NewValidationError("invalid append block request: column must not be negative")
	}
	if r.Block == nil {
		if r.Type == "" {
			return NewValidationError("invalid append block request: type or block is required")
		}
		if !blocktree.IsKnownType(r.Type) {
			return NewValidationError("invalid append block request: unknown block type " + string(r.Type))
		}
	}
	return nil
}

func (r *AppendBlockRequest) Slot() blocktree.Slot {
	return blocktree.Slot{ParentID: r.ParentID, Column: r.Column}
}

type InsertBlockRequest struct {
	AppendBlockRequest
	// Index is clamped to the children list
	Index int `json:"index"`
}

type InsertComponentRequest struct {
	SessionID  string `json:"session_id"`
	ParentID   string `json:"parent_id"`
	Column     int    `json:"column,omitempty"`
	Index      int    `json:"index"`
	TemplateID string `json:"template_id"`
}

func (r *InsertComponentRequest) Validate() error {
	if err := validateSessionID("invalid insert component request", r.SessionID); err != nil {
		return err
	}
	if r.ParentID == "" {
		return NewValidationError("invalid insert component request: parent_id is required")
	}
	if !govalidator.IsUUID(r.TemplateID) {
		return NewValidationError("invalid insert component request: template_id must be a valid UUID")
	}
	return nil
}

type MoveBlockRequest struct {
	SessionID string              `json:"session_id"`
	BlockID   string              `json:"block_id"`
	Direction blocktree.Direction `json:"direction"`
}

func (r *MoveBlockRequest) Validate() error {
	if err := validateSessionID("invalid move block request", r.SessionID); err != nil {
		return err
	}
	if r.BlockID == "" {
		return NewValidationError("invalid move block request: block_id is required")
	}
	if r.Direction != blocktree.DirectionUp && r.Direction != blocktree.DirectionDown {
		return NewValidationError("invalid move block request: direction must be up or down")
	}
	return nil
}

// BlockRequest targets one block. An empty BlockID clears the selection
// when selecting.
type BlockRequest struct {
	SessionID string `json:"session_id"`
	BlockID   string `json:"block_id"`
}

func (r *BlockRequest) Validate() error {
	return validateSessionID("invalid block request", r.SessionID)
}

type UpdateBlockRequest struct {
	SessionID string          `json:"session_id"`
	BlockID   string          `json:"block_id"`
	Block     blocktree.Block `json:"block"`
}

func (r *UpdateBlockRequest) Validate() error {
	if err := validateSessionID("invalid update block request", r.SessionID); err != nil {
		return err
	}
	if r.BlockID == "" {
		return NewValidationError("invalid update block request: block_id is required")
	}
	if r.Block.Data == nil {
		return NewValidationError("invalid update block request: block is required")
	}
	return nil
}

// SetViewRequest changes the panels. Nil fields are left as they are;
// unknown enum values fall back to their defaults.
type SetViewRequest struct {
	SessionID           string  `json:"session_id"`
	MainTab             *string `json:"selected_main_tab,omitempty"`
	SidebarTab          *string `json:"selected_sidebar_tab,omitempty"`
	ScreenSize          *string `json:"selected_screen_size,omitempty"`
	InspectorDrawerOpen *bool   `json:"inspector_drawer_open,omitempty"`
	SamplesDrawerOpen   *bool   `json:"samples_drawer_open,omitempty"`
}

func (r *SetViewRequest) Validate() error {
	return validateSessionID("invalid set view request", r.SessionID)
}

type ImportDocumentRequest struct {
	SessionID string          `json:"session_id"`
	Document  json.RawMessage `json:"document"`
}

func (r *ImportDocumentRequest) Validate() error {
	if err := validateSessionID("invalid import document request", r.SessionID); err != nil {
		return err
	}
	if len(r.Document) == 0 {
		return NewValidationError("invalid import document request: document is required")
	}
	return nil
}

type LoadTemplateRequest struct {
	SessionID  string `json:"session_id"`
	TemplateID string `json:"template_id"`
}

func (r *LoadTemplateRequest) Validate() error {
	if err := validateSessionID("invalid load template request", r.SessionID); err != nil {
		return err
	}
	if !govalidator.IsUUID(r.TemplateID) {
		return NewValidationError("invalid load template request: template_id must be a valid UUID")
	}
	return nil
}

// SaveTemplateRequest updates the current template in edit mode and creates
// a new one otherwise
type SaveTemplateRequest struct {
	SessionID         string  `json:"session_id"`
	Name              string  `json:"name"`
	Subject           string  `json:"subject"`
	FromEmailUsername *string `json:"from_email_username,omitempty"`
}

func (r *SaveTemplateRequest) Validate() error {
	return validateSessionID("invalid save template request", r.SessionID)
}

type SaveComponentRequest struct {
	SessionID string `json:"session_id"`
	BlockID   string `json:"block_id"`
	Name      string `json:"name"`
}

func (r *SaveComponentRequest) Validate() error {
	if err := validateSessionID("invalid save component request", r.SessionID); err != nil {
		return err
	}
	if r.BlockID == "" {
		return NewValidationError("invalid save component request: block_id is required")
	}
	if r.Name == "" {
		return NewValidationError("invalid save component request: name is required")
	}
	return nil
}

// EditorService drives editor sessions
type EditorService interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*EditorSession, error)
	GetSession(ctx context.Context, sessionID string) (*EditorSession, error)
	CloseSession(ctx context.Context, sessionID string) error
	Catalog() []CatalogEntry

	AppendBlock(ctx context.Context, req AppendBlockRequest) (*BlockResponse, error)
	InsertBlock(ctx context.Context, req InsertBlockRequest) (*BlockResponse, error)
	InsertComponent(ctx context.Context, req InsertComponentRequest) (*BlockResponse, error)
	MoveBlock(ctx context.Context, req MoveBlockRequest) (*EditorSession, error)
	DeleteBlock(ctx context.Context, req BlockRequest) (*EditorSession, error)
	UpdateBlock(ctx context.Context, req UpdateBlockRequest) (*EditorSession, error)
	SelectBlock(ctx context.Context, req BlockRequest) (*EditorSession, error)
	SetView(ctx context.Context, req SetViewRequest) (*EditorSession, error)

	ImportDocument(ctx context.Context, req ImportDocumentRequest) (*EditorSession, error)
	ExportDocument(ctx context.Context, sessionID string) (blocktree.Tree, error)
	ResetDocument(ctx context.Context, sessionID string) (*EditorSession, error)
	CollectOrphans(ctx context.Context, sessionID string) (*OrphansResponse, error)

	LoadTemplate(ctx context.Context, req LoadTemplateRequest) (*EditorSession, error)
	ExitPreview(ctx context.Context, sessionID string) (*EditorSession, error)

	RenderHTML(ctx context.Context, sessionID string) (string, error)
	SaveTemplate(ctx context.Context, req SaveTemplateRequest) (*Template, error)
	SaveComponent(ctx context.Context, req SaveComponentRequest) (*Template, error)
}
