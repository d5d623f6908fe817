package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/taskflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskflow/internal/models"
	taskservice "github.com/magabrotheeeer/taskflow/internal/services/tasks"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Add(ctx context.Context, ownerUID, title string) (*models.Task, error) {
	args := m.Called(ctx, ownerUID, title)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		owner          string
		body           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "created",
			owner: "uid-1",
			body:  `{"title":"buy milk"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Add", mock.Anything, "uid-1", "buy milk").
					Return(&models.Task{ID: 7, Title: "buy milk", OwnerUID: "uid-1"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"id":7,"title":"buy milk","status":false}}`,
		},
		{
			name:  "blank title",
			owner: "uid-1",
			body:  `{"title":"   "}`,
			setupMock: func(m *ServiceMock) {
				m.On("Add", mock.Anything, "uid-1", "   ").
					Return(nil, fmt.Errorf("tasks.Add: %w", taskservice.ErrInvalidTitle)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"title must not be empty"}`,
		},
		{
			name:           "missing title",
			owner:          "uid-1",
			body:           `{}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Title is a required field"}`,
		},
		{
			name:           "broken json",
			owner:          "uid-1",
			body:           `title`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "no identity",
			body:           `{"title":"buy milk"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:  "storage error",
			owner: "uid-1",
			body:  `{"title":"buy milk"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Add", mock.Anything, "uid-1", "buy milk").Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.owner != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.owner)
			}
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
