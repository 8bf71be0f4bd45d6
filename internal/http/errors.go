package http

import (
	"errors"
	"net/http"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// statusForError maps service errors to a status code. ok is false for
// errors that are not part of the API contract.
func statusForError(err error) (status int, ok bool) {
	var validationErr domain.ValidationError
	var templateNotFound *domain.ErrTemplateNotFound
	var notFound *domain.ErrNotFound

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, true
	case errors.As(err, &templateNotFound), errors.As(err, &notFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, blocktree.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, blocktree.ErrInvalidParent), errors.Is(err, blocktree.ErrInvalidBlock):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrPreviewReadOnly), errors.Is(err, domain.ErrRequestSuperseded):
		return http.StatusConflict, true
	case errors.Is(err, blocktree.ErrCorrupt):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, blocktree.ErrUnavailable):
		return http.StatusBadGateway, true
	}
	return http.StatusInternalServerError, false
}

// writeServiceError writes the error returned by a service call. Unexpected
// errors are logged and hidden behind message.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, message string) {
	status, ok := statusForError(err)
	if !ok {
		log.WithField("error", err.Error()).Error(message)
		WriteJSONError(w, message, status)
		return
	}
	WriteJSONError(w, err.Error(), status)
}
