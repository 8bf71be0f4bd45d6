package http

import (
	"encoding/json"
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// EmailHandler handles HTTP requests for email operations
type EmailHandler struct {
	emailService domain.EmailService
	jwtSecret    []byte
	logger       logger.Logger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService domain.EmailService, jwtSecret []byte, logger logger.Logger) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

func (h *EmailHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.jwtSecret)
	requireAuth := authMiddleware.RequireAuth()

	mux.Handle("/api/emails.send", requireAuth(http.HandlerFunc(h.handleSend)))
}

func (h *EmailHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.emailService.SendTemplate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
