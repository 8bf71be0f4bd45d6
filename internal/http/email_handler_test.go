package http_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/domain/mocks"
	apphttp "github.com/Notifuse/emailbuilder/internal/http"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

func setupEmailHandlerTest(t *testing.T) (*mocks.MockEmailService, *http.ServeMux, string) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockEmailService(ctrl)

	handler := apphttp.NewEmailHandler(mockService, testJWTSecret, logger.NewMockLogger(t))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return mockService, mux, createTestToken(t)
}

func TestEmailHandler_HandleSend(t *testing.T) {
	validRequest := domain.SendEmailRequest{
		TemplateID: testTemplateID,
		Recipients: []domain.Recipient{{Name: "Ada", Email: "ada@example.com"}},
	}

	t.Run("success", func(t *testing.T) {
		mockService, mux, token := setupEmailHandlerTest(t)
		mockService.EXPECT().SendTemplate(gomock.Any(), validRequest).Return(&domain.SendEmailResponse{
			Results: []domain.SendResult{{Email: "ada@example.com", LogID: "log-1", Status: domain.SendStatusSent}},
			Sent:    1,
		}, nil)

		w := sendRequest(t, mux, http.MethodPost, "/api/emails.send", token, validRequest)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["sent"])
		assert.Equal(t, float64(0), body["failed"])
	})

	t.Run("no recipients", func(t *testing.T) {
		_, mux, token := setupEmailHandlerTest(t)

		w := sendRequest(t, mux, http.MethodPost, "/api/emails.send", token, domain.SendEmailRequest{TemplateID: testTemplateID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		_, mux, token := setupEmailHandlerTest(t)

		w := sendRequest(t, mux, http.MethodPost, "/api/emails.send", token, domain.SendEmailRequest{
			TemplateID: testTemplateID,
			Recipients: []domain.Recipient{{Email: "not-an-email"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("template not found", func(t *testing.T) {
		mockService, mux, token := setupEmailHandlerTest(t)
		mockService.EXPECT().SendTemplate(gomock.Any(), gomock.Any()).Return(nil, &domain.ErrTemplateNotFound{Message: "template not found"})

		w := sendRequest(t, mux, http.MethodPost, "/api/emails.send", token, validRequest)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		mockService, mux, token := setupEmailHandlerTest(t)
		mockService.EXPECT().SendTemplate(gomock.Any(), gomock.Any()).Return(nil, errors.New("pq: connection refused"))

		w := sendRequest(t, mux, http.MethodPost, "/api/emails.send", token, validRequest)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send email", decodeBody(t, w)["error"])
	})

	t.Run("wrong method", func(t *testing.T) {
		_, mux, token := setupEmailHandlerTest(t)

		w := sendRequest(t, mux, http.MethodGet, "/api/emails.send", token, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
