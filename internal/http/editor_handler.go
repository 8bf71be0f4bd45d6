package http

import (
	"encoding/json"
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// EditorHandler exposes editor sessions over RPC-style endpoints
type EditorHandler struct {
	service   domain.EditorService
	logger    logger.Logger
	jwtSecret []byte
}

func NewEditorHandler(service domain.EditorService, jwtSecret []byte, logger logger.Logger) *EditorHandler {
	return &EditorHandler{
		service:   service,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

func (h *EditorHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.jwtSecret)
	requireAuth := authMiddleware.RequireAuth()

	routes := map[string]http.HandlerFunc{
		// sessions
		"/api/editor.create":  h.handleCreate,
		"/api/editor.get":     h.handleGet,
		"/api/editor.close":   h.handleClose,
		"/api/editor.catalog": h.handleCatalog,
		// structure
		"/api/editor.appendBlock":     h.handleAppendBlock,
		"/api/editor.insertBlock":     h.handleInsertBlock,
		"/api/editor.insertComponent": h.handleInsertComponent,
		"/api/editor.moveBlock":       h.handleMoveBlock,
		"/api/editor.deleteBlock":     h.handleDeleteBlock,
		"/api/editor.updateBlock":     h.handleUpdateBlock,
		"/api/editor.selectBlock":     h.handleSelectBlock,
		"/api/editor.setView":         h.handleSetView,
		// document
		"/api/editor.importDocument": h.handleImportDocument,
		"/api/editor.exportDocument": h.handleExportDocument,
		"/api/editor.reset":          h.handleReset,
		"/api/editor.collectOrphans": h.handleCollectOrphans,
		"/api/editor.loadTemplate":   h.handleLoadTemplate,
		"/api/editor.exitPreview":    h.handleExitPreview,
		// output
		"/api/editor.html":          h.handleHTML,
		"/api/editor.save":          h.handleSave,
		"/api/editor.saveComponent": h.handleSaveComponent,
	}
	for pattern, handler := range routes {
		mux.Handle(pattern, requireAuth(handler))
	}
}

// decodePost checks the method and decodes the JSON body into req
func (h *EditorHandler) decodePost(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sessionFromQuery reads the session id of a GET endpoint
func sessionFromQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req domain.SessionRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return req.SessionID, true
}

// decodeSession decodes a POST body that only carries the session id
func (h *EditorHandler) decodeSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req domain.SessionRequest
	if !h.decodePost(w, r, &req) {
		return "", false
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return req.SessionID, true
}

func writeSession(w http.ResponseWriter, session *domain.EditorSession) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

func (h *EditorHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.CreateSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create editor session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
	})
}

func (h *EditorHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get editor session")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	if err := h.service.CloseSession(r.Context(), sessionID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to close editor session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *EditorHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blocks": h.service.Catalog(),
	})
}

func (h *EditorHandler) handleAppendBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.AppendBlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.AppendBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to append block")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleInsertBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.InsertBlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.InsertBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to insert block")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleInsertComponent(w http.ResponseWriter, r *http.Request) {
	var req domain.InsertComponentRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.InsertComponent(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to insert component")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.MoveBlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.MoveBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to move block")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.BlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.BlockID == "" {
		WriteJSONError(w, "invalid block request: block_id is required", http.StatusBadRequest)
		return
	}

	session, err := h.service.DeleteBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete block")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.UpdateBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update block")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleSelectBlock(w http.ResponseWriter, r *http.Request) {
	var req domain.BlockRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.SelectBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to select block")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req domain.SetViewRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.SetView(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update view")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleImportDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportDocumentRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.ImportDocument(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to import document")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	doc, err := h.service.ExportDocument(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to export document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document": doc,
	})
}

func (h *EditorHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	session, err := h.service.ResetDocument(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to reset document")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleCollectOrphans(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	resp, err := h.service.CollectOrphans(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to collect orphans")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EditorHandler) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	var req domain.LoadTemplateRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.LoadTemplate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load template")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleExitPreview(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	session, err := h.service.ExitPreview(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to exit preview")
		return
	}
	writeSession(w, session)
}

func (h *EditorHandler) handleHTML(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromQuery(w, r)
	if !ok {
		return
	}

	html, err := h.service.RenderHTML(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to render document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"html": html,
	})
}

func (h *EditorHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveTemplateRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	template, err := h.service.SaveTemplate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save template")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"template": template,
	})
}

func (h *EditorHandler) handleSaveComponent(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveComponentRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	template, err := h.service.SaveComponent(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save component")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"template": template,
	})
}
