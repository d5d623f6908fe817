package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authservice "github.com/magabrotheeeer/taskflow/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) VerifyUser(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func TestVerifyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	body := `{"email":"alice@example.com","code":"123456"}`

	tests := []struct {
		name           string
		body           string
		callService    bool
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           body,
			callService:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"message":"account verified"}}`,
		},
		{
			name:           "broken json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing code",
			body:           `{"email":"alice@example.com"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Code is a required field"}`,
		},
		{
			name:           "unknown user",
			body:           body,
			callService:    true,
			mockErr:        fmt.Errorf("auth.VerifyUser: %w", authservice.ErrUserNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:           "already verified",
			body:           body,
			callService:    true,
			mockErr:        fmt.Errorf("auth.VerifyUser: %w", authservice.ErrAlreadyVerified),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"account already verified"}`,
		},
		{
			name:           "wrong code",
			body:           body,
			callService:    true,
			mockErr:        fmt.Errorf("auth.VerifyUser: %w", authservice.ErrInvalidCode),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid verification code"}`,
		},
		{
			name:           "expired code",
			body:           body,
			callService:    true,
			mockErr:        fmt.Errorf("auth.VerifyUser: %w", authservice.ErrCodeExpired),
			expectedStatus: http.StatusGone,
			expectedBody:   `{"status":"Error","error":"verification code expired"}`,
		},
		{
			name:           "db failure",
			body:           body,
			callService:    true,
			mockErr:        errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("VerifyUser", mock.Anything, "alice@example.com", "123456").Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
