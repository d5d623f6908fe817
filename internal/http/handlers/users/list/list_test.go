package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/taskflow/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListAll(ctx context.Context) ([]models.UserResponse, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.UserResponse)
	return list, args.Error(1)
}

func TestListUsersHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("all users", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListAll", mock.Anything).Return([]models.UserResponse{
			{UUID: "uid-1", Username: "alice", Email: "alice@example.com", Enabled: true, Role: "admin"},
			{UUID: "uid-2", Username: "bob", Email: "bob@example.com", Role: "user"},
		}, nil).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","data":[
			{"id":"uid-1","username":"alice","email":"alice@example.com","enabled":true,"role":"admin"},
			{"id":"uid-2","username":"bob","email":"bob@example.com","enabled":false,"role":"user"}]}`,
			rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("db error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListAll", mock.Anything).Return(nil, errors.New("db down")).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"internal error"}`, rec.Body.String())
	})
}
