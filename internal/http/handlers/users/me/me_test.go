package me

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/taskflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskflow/internal/models"
	"github.com/magabrotheeeer/taskflow/internal/services/users"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Me(ctx context.Context, userUID string) (*models.UserResponse, error) {
	args := m.Called(ctx, userUID)
	u, _ := args.Get(0).(*models.UserResponse)
	return u, args.Error(1)
}

func TestMeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		uid            string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "profile",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "uid-1").Return(&models.UserResponse{
					UUID: "uid-1", Username: "alice", Email: "alice@example.com", Enabled: true, Role: "user",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","data":{"id":"uid-1","username":"alice",
				"email":"alice@example.com","enabled":true,"role":"user"}}`,
		},
		{
			name:           "no identity",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name: "user deleted",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "uid-1").Return(nil, fmt.Errorf("users.Me: %w", users.ErrUserNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "db error",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "uid-1").Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.uid))
			}
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
