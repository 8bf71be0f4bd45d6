package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/cache"
	"github.com/Notifuse/emailbuilder/pkg/editor"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/render"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

const (
	loadTemplateRequest = "loadTemplate"
	saveTemplateRequest = "saveTemplate"

	sessionCleanupInterval = time.Minute
)

// EditorServiceConfig holds the settings of the editor service
type EditorServiceConfig struct {
	SessionTTL     time.Duration
	OpenTrackerURL string
	// IDGenerator allocates block ids, ULIDs when nil
	IDGenerator blocktree.IDGenerator
}

// editorSession pairs a store with the lock that serializes document edits:
// an edit reads the document, computes the next tree and writes it back as
// one step.
type editorSession struct {
	id    string
	mu    sync.Mutex
	store *editor.Store

	// saved is the document last loaded from or written to storage. unsaved
	// is kept current by a document subscription on the store.
	trackMu     sync.Mutex
	saved       blocktree.Tree
	unsaved     bool
	unsubscribe func()
}

func newEditorSession(id string, log logger.Logger) *editorSession {
	sess := &editorSession{
		id:    id,
		store: editor.NewStore(editor.WithLogger(log)),
	}
	sess.saved = sess.store.Document()
	sess.unsubscribe = sess.store.SubscribeDocument(sess.documentChanged)
	return sess
}

func (sess *editorSession) documentChanged(doc blocktree.Tree) {
	sess.trackMu.Lock()
	defer sess.trackMu.Unlock()
	sess.unsaved = !blocktree.SameTree(sess.saved, doc)
}

// markSaved records doc as the stored version; current is the live document
func (sess *editorSession) markSaved(doc, current blocktree.Tree) {
	sess.trackMu.Lock()
	defer sess.trackMu.Unlock()
	sess.saved = doc
	sess.unsaved = !blocktree.SameTree(doc, current)
}

func (sess *editorSession) hasUnsavedChanges() bool {
	sess.trackMu.Lock()
	defer sess.trackMu.Unlock()
	return sess.unsaved
}

type EditorService struct {
	sessions  *cache.InMemoryCache[*editorSession]
	templates domain.TemplateService
	renderer  *render.Renderer
	engine    *blocktree.Engine
	config    EditorServiceConfig
	logger    logger.Logger
	tracer    tracing.Tracer
}

func NewEditorService(templates domain.TemplateService, renderer *render.Renderer, config EditorServiceConfig, logger logger.Logger) *EditorService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 30 * time.Minute
	}
	return &EditorService{
		sessions: cache.NewInMemoryCache[*editorSession](sessionCleanupInterval,
			cache.WithEvictionCallback(func(_ string, sess *editorSession) { sess.unsubscribe() }),
		),
		templates: templates,
		renderer:  renderer,
		engine:    blocktree.NewEngine(config.IDGenerator),
		config:    config,
		logger:    logger,
		tracer:    tracing.NewTracer(),
	}
}

// Close stops the session sweeper
func (s *EditorService) Close() {
	s.sessions.Stop()
}

func (s *EditorService) session(id string) (*editorSession, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.sessions.Touch(id, s.config.SessionTTL)
	return sess, nil
}

func (s *EditorService) view(sess *editorSession) *domain.EditorSession {
	st := sess.store.Snapshot()
	return &domain.EditorSession{
		ID:             sess.id,
		RootID:         editor.RootID(st),
		State:          st,
		UnsavedChanges: sess.hasUnsavedChanges(),
	}
}

func (s *EditorService) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (view *domain.EditorSession, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", "CreateSession")
	defer func() { s.tracer.EndSpan(span, err) }()

	id := uuid.New().String()
	sess := newEditorSession(id, s.logger.WithField("session_id", id))
	s.sessions.Set(id, sess, s.config.SessionTTL)
	s.tracer.AddAttribute(ctx, "session_id", id)
	s.logger.WithField("session_id", id).Debug("Editor session created")

	if req.TemplateID != "" {
		if err := s.loadTemplate(ctx, sess, req.TemplateID); err != nil {
			s.sessions.Delete(id)
			return nil, err
		}
	}
	return s.view(sess), nil
}

func (s *EditorService) GetSession(ctx context.Context, sessionID string) (*domain.EditorSession, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *EditorService) CloseSession(ctx context.Context, sessionID string) error {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions.Delete(sessionID)
	s.logger.WithField("session_id", sessionID).Debug("Editor session closed")
	return nil
}

// Catalog lists the blocks that can be added to a document
func (s *EditorService) Catalog() []domain.CatalogEntry {
	types := blocktree.InsertableTypes()
	entries := make([]domain.CatalogEntry, 0, len(types))
	for _, t := range types {
		block, err := blocktree.DefaultBlock(t)
		if err != nil {
			continue
		}
		entries = append(entries, domain.CatalogEntry{
			Type:     t,
			Name:     blocktree.DisplayName(t),
			Category: blocktree.Category(t),
			Block:    block,
		})
	}
	return entries
}

// edit runs fn on a session that is not in preview mode, holding the session
// lock, and records the outcome under op.
func (s *EditorService) edit(ctx context.Context, sessionID, op string, fn func(ctx context.Context, store *editor.Store) error) (view *domain.EditorSession, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", op)
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "session_id", sessionID)

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.store.PreviewMode() {
		return nil, domain.ErrPreviewReadOnly
	}

	err = fn(ctx, sess.store)
	tracing.RecordMutation(ctx, op, err)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func newBlock(req domain.AppendBlockRequest) (blocktree.Block, error) {
	if req.Block != nil {
		return *req.Block, nil
	}
	return blocktree.DefaultBlock(req.Type)
}

func (s *EditorService) AppendBlock(ctx context.Context, req domain.AppendBlockRequest) (*domain.BlockResponse, error) {
	var blockID string
	view, err := s.edit(ctx, req.SessionID, "AppendBlock", func(_ context.Context, store *editor.Store) error {
		block, err := newBlock(req)
		if err != nil {
			return err
		}
		doc := store.Document()
		next, id, err := s.engine.AppendChild(doc, req.Slot(), block)
		if err != nil {
			return err
		}
		store.SetDocumentAndSelect(blocktree.ChangedEntries(doc, next), id)
		blockID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.BlockResponse{Session: view, BlockID: blockID}, nil
}

func (s *EditorService) InsertBlock(ctx context.Context, req domain.InsertBlockRequest) (*domain.BlockResponse, error) {
	var blockID string
	view, err := s.edit(ctx, req.SessionID, "InsertBlock", func(_ context.Context, store *editor.Store) error {
		block, err := newBlock(req.AppendBlockRequest)
		if err != nil {
			return err
		}
		doc := store.Document()
		next, id, err := s.engine.InsertChildAt(doc, req.Slot(), req.Index, block)
		if err != nil {
			return err
		}
		store.SetDocumentAndSelect(blocktree.ChangedEntries(doc, next), id)
		blockID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.BlockResponse{Session: view, BlockID: blockID}, nil
}

// InsertComponent grafts a copy of a saved component and selects it in a
// single store transition
func (s *EditorService) InsertComponent(ctx context.Context, req domain.InsertComponentRequest) (*domain.BlockResponse, error) {
	var blockID string
	view, err := s.edit(ctx, req.SessionID, "InsertComponent", func(ctx context.Context, store *editor.Store) error {
		component, err := s.templates.GetTemplate(ctx, req.TemplateID)
		if err != nil {
			return err
		}
		if err := blocktree.Validate(component.EditorJSON); err != nil {
			return err
		}
		rootID, err := blocktree.ComponentRootID(component.EditorJSON)
		if err != nil {
			return err
		}

		doc := store.Document()
		slot := blocktree.Slot{ParentID: req.ParentID, Column: req.Column}
		next, id, err := s.engine.GraftSubtree(doc, slot, req.Index, component.EditorJSON, rootID)
		if err != nil {
			return err
		}
		store.SetDocumentAndSelect(blocktree.ChangedEntries(doc, next), id)
		blockID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.BlockResponse{Session: view, BlockID: blockID}, nil
}

func (s *EditorService) MoveBlock(ctx context.Context, req domain.MoveBlockRequest) (*domain.EditorSession, error) {
	return s.edit(ctx, req.SessionID, "MoveBlock", func(_ context.Context, store *editor.Store) error {
		doc := store.Document()
		next, err := blocktree.MoveChild(doc, req.BlockID, req.Direction)
		if err != nil {
			return err
		}
		if blocktree.SameTree(doc, next) {
			store.SetSelectedBlockID(req.BlockID)
			return nil
		}
		store.SetDocumentAndSelect(blocktree.ChangedEntries(doc, next), req.BlockID)
		return nil
	})
}

func (s *EditorService) DeleteBlock(ctx context.Context, req domain.BlockRequest) (*domain.EditorSession, error) {
	return s.edit(ctx, req.SessionID, "DeleteBlock", func(_ context.Context, store *editor.Store) error {
		next, err := blocktree.DeleteSubtreeRoot(store.Document(), req.BlockID)
		if err != nil {
			return err
		}
		store.ResetDocument(next)
		return nil
	})
}

func (s *EditorService) UpdateBlock(ctx context.Context, req domain.UpdateBlockRequest) (*domain.EditorSession, error) {
	return s.edit(ctx, req.SessionID, "UpdateBlock", func(_ context.Context, store *editor.Store) error {
		doc := store.Document()
		next, err := blocktree.UpdateBlock(doc, req.BlockID, req.Block)
		if err != nil {
			return err
		}
		store.SetDocument(blocktree.ChangedEntries(doc, next))
		return nil
	})
}

// SelectBlock also works in preview mode. An empty block id clears the selection.
func (s *EditorService) SelectBlock(ctx context.Context, req domain.BlockRequest) (*domain.EditorSession, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if req.BlockID != "" {
		if _, ok := sess.store.Document()[req.BlockID]; !ok {
			return nil, fmt.Errorf("%w: %q", blocktree.ErrNotFound, req.BlockID)
		}
	}
	sess.store.SetSelectedBlockID(req.BlockID)
	return s.view(sess), nil
}

func (s *EditorService) SetView(ctx context.Context, req domain.SetViewRequest) (*domain.EditorSession, error) {
	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, err
	}

	store := sess.store
	if req.MainTab != nil {
		store.SetSelectedMainTab(editor.MainTab(*req.MainTab))
	}
	if req.SidebarTab != nil {
		store.SetSelectedSidebarTab(editor.SidebarTab(*req.SidebarTab))
	}
	if req.ScreenSize != nil {
		store.SetSelectedScreenSize(editor.ScreenSize(*req.ScreenSize))
	}
	if req.InspectorDrawerOpen != nil {
		store.SetInspectorDrawerOpen(*req.InspectorDrawerOpen)
	}
	if req.SamplesDrawerOpen != nil {
		store.SetSamplesDrawerOpen(*req.SamplesDrawerOpen)
	}
	return s.view(sess), nil
}

// ImportDocument replaces the document with an uploaded one. The raw JSON is
// shape checked before it is decoded and validated.
func (s *EditorService) ImportDocument(ctx context.Context, req domain.ImportDocumentRequest) (*domain.EditorSession, error) {
	return s.edit(ctx, req.SessionID, "ImportDocument", func(_ context.Context, store *editor.Store) error {
		if err := blocktree.CheckShape(req.Document); err != nil {
			return err
		}
		doc, err := blocktree.Decode(req.Document)
		if err != nil {
			return err
		}
		store.ResetDocument(doc)
		return nil
	})
}

func (s *EditorService) ExportDocument(ctx context.Context, sessionID string) (blocktree.Tree, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	st := sess.store.Snapshot()
	if !editor.CanExport(st) {
		return nil, domain.ErrPreviewReadOnly
	}
	return st.Document, nil
}

// ResetDocument starts over with an empty layout that is not linked to any template
func (s *EditorService) ResetDocument(ctx context.Context, sessionID string) (*domain.EditorSession, error) {
	return s.edit(ctx, sessionID, "ResetDocument", func(_ context.Context, store *editor.Store) error {
		store.ResetDocument(blocktree.EmptyDocument())
		store.SetCurrentTemplate("")
		return nil
	})
}

func (s *EditorService) CollectOrphans(ctx context.Context, sessionID string) (*domain.OrphansResponse, error) {
	var removed []string
	view, err := s.edit(ctx, sessionID, "CollectOrphans", func(_ context.Context, store *editor.Store) error {
		next, ids := blocktree.CollectOrphans(store.Document())
		if len(ids) > 0 {
			store.ReplaceDocument(next)
		}
		removed = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	if removed == nil {
		removed = []string{}
	}
	return &domain.OrphansResponse{Session: view, Removed: removed}, nil
}

// LoadTemplate opens a template in preview mode. When another load starts on
// the session before this one completes, this result is discarded and
// ErrRequestSuperseded is returned.
func (s *EditorService) LoadTemplate(ctx context.Context, req domain.LoadTemplateRequest) (view *domain.EditorSession, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", "LoadTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "session_id", req.SessionID)
	s.tracer.AddAttribute(ctx, "template_id", req.TemplateID)

	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.loadTemplate(ctx, sess, req.TemplateID); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *EditorService) loadTemplate(ctx context.Context, sess *editorSession, templateID string) error {
	ticket := sess.store.BeginRequest(loadTemplateRequest)

	template, err := s.templates.GetTemplate(ctx, templateID)
	if err == nil {
		err = blocktree.Validate(template.EditorJSON)
	}
	if err != nil {
		sess.store.CancelRequest(ticket)
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	loaded := editor.PreviewLoaded(template.EditorJSON, template.ID)
	if !sess.store.ApplyIfCurrent(ticket, func(st *editor.State) {
		loaded(st)
		sess.markSaved(template.EditorJSON, st.Document)
	}) {
		return domain.ErrRequestSuperseded
	}
	return nil
}

// ExitPreview makes the previewed template editable. Saving then updates it.
func (s *EditorService) ExitPreview(ctx context.Context, sessionID string) (*domain.EditorSession, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.store.PreviewMode() {
		sess.store.ExitPreviewToEditMode()
	}
	return s.view(sess), nil
}

// RenderHTML returns the final HTML of the whole document
func (s *EditorService) RenderHTML(ctx context.Context, sessionID string) (html string, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", "RenderHTML")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "session_id", sessionID)

	sess, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	return s.finalHTML(ctx, sess.store.Document())
}

func (s *EditorService) finalHTML(ctx context.Context, doc blocktree.Tree) (string, error) {
	html, err := s.renderTree(ctx, doc, blocktree.ResolveRootID(doc))
	if err != nil {
		return "", err
	}
	return render.FinalHTML(html, s.config.OpenTrackerURL), nil
}

func (s *EditorService) renderTree(ctx context.Context, doc blocktree.Tree, rootID string) (string, error) {
	start := time.Now()
	html, err := s.renderer.HTML(ctx, doc, rootID)
	if err != nil {
		return "", err
	}
	tracing.RecordRender(ctx, time.Since(start))
	return html, nil
}

// SaveTemplate updates the current template when the session is in edit mode
// and creates a new template otherwise. The new template becomes current.
func (s *EditorService) SaveTemplate(ctx context.Context, req domain.SaveTemplateRequest) (template *domain.Template, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", "SaveTemplate")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "session_id", req.SessionID)

	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, err
	}

	st := sess.store.Snapshot()
	if st.IsPreviewMode {
		return nil, domain.ErrPreviewReadOnly
	}

	ticket := sess.store.BeginRequest(saveTemplateRequest)
	template, err = s.saveTemplate(ctx, st, req)
	if err != nil {
		sess.store.CancelRequest(ticket)
		return nil, err
	}

	templateID := template.ID
	sess.store.ApplyIfCurrent(ticket, func(cur *editor.State) {
		cur.CurrentTemplateID = templateID
		cur.IsEditMode = true
		sess.markSaved(st.Document, cur.Document)
	})
	return template, nil
}

func (s *EditorService) saveTemplate(ctx context.Context, st editor.State, req domain.SaveTemplateRequest) (*domain.Template, error) {
	html, err := s.finalHTML(ctx, st.Document)
	if err != nil {
		return nil, err
	}

	if st.IsEditMode && st.CurrentTemplateID != "" {
		template, err := s.templates.GetTemplate(ctx, st.CurrentTemplateID)
		if err != nil {
			return nil, err
		}
		if req.Name != "" {
			template.Name = req.Name
		}
		if req.Subject != "" {
			template.Subject = req.Subject
		}
		if req.FromEmailUsername != nil {
			template.FromEmailUsername = req.FromEmailUsername
		}
		template.HTMLBody = html
		template.EditorJSON = st.Document
		if err := s.templates.UpdateTemplate(ctx, template); err != nil {
			return nil, err
		}
		return template, nil
	}

	template := &domain.Template{
		Name:              req.Name,
		Subject:           req.Subject,
		HTMLBody:          html,
		EditorJSON:        st.Document,
		FromEmailUsername: req.FromEmailUsername,
	}
	if err := s.templates.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// SaveComponent stores the subtree under a block as a reusable component
func (s *EditorService) SaveComponent(ctx context.Context, req domain.SaveComponentRequest) (template *domain.Template, err error) {
	ctx, span := s.tracer.StartServiceSpan(ctx, "EditorService", "SaveComponent")
	defer func() { s.tracer.EndSpan(span, err) }()
	s.tracer.AddAttribute(ctx, "session_id", req.SessionID)
	s.tracer.AddAttribute(ctx, "block_id", req.BlockID)

	sess, err := s.session(req.SessionID)
	if err != nil {
		return nil, err
	}

	subtree, err := blocktree.ExtractSubtree(sess.store.Document(), req.BlockID)
	if err != nil {
		return nil, err
	}
	rootID, err := blocktree.ComponentRootID(subtree)
	if err != nil {
		return nil, err
	}
	html, err := s.renderTree(ctx, subtree, rootID)
	if err != nil {
		return nil, err
	}

	template = &domain.Template{
		Name:        req.Name,
		HTMLBody:    html,
		EditorJSON:  subtree,
		IsComponent: true,
	}
	if err := s.templates.CreateTemplate(ctx, template); err != nil {
		var validationErr domain.ValidationError
		if !errors.As(err, &validationErr) {
			s.logger.WithField("session_id", req.SessionID).WithField("error", err.Error()).Error("Failed to save component")
		}
		return nil, err
	}
	return template, nil
}
