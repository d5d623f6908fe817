package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/taskflow/internal/migrations"
	"github.com/magabrotheeeer/taskflow/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	s, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))

	return s
}

func createUnverified(t *testing.T, s *Storage, email, code string, expires time.Time) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Username:                  "user",
		Email:                     email,
		PasswordHash:              "hash",
		Role:                      models.RoleUser,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expires,
	})
	require.NoError(t, err)
	return u
}

func TestStorageIntegration_UserLifecycle(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	u := createUnverified(t, s, "alice@example.com", "123456", now.Add(10*time.Minute))
	assert.NotEmpty(t, u.UUID)

	_, err := s.CreateUser(ctx, models.User{
		Username: "dup", Email: "alice@example.com", PasswordHash: "h", Role: models.RoleUser,
	})
	require.ErrorIs(t, err, ErrEmailExists)

	ok, err := s.MarkVerified(ctx, u.UUID, "000000", now)
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must not verify")

	ok, err = s.UpdateVerificationCode(ctx, u.UUID, "222222", now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.MarkVerified(ctx, u.UUID, "123456", now)
	require.NoError(t, err)
	assert.False(t, ok, "old code is invalidated by resend")

	ok, err = s.MarkVerified(ctx, u.UUID, "222222", now)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.Nil(t, got.VerificationCode)
	assert.Nil(t, got.VerificationCodeExpiresAt)

	ok, err = s.UpdateVerificationCode(ctx, u.UUID, "333333", now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "code is never reissued after verification")

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestStorageIntegration_ConcurrentVerify(t *testing.T) {
	s := setupTestDatabase(t)
	now := time.Now().UTC()
	u := createUnverified(t, s, "race@example.com", "123456", now.Add(10*time.Minute))

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.MarkVerified(context.Background(), u.UUID, "123456", now)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestStorageIntegration_ExpiredCode(t *testing.T) {
	s := setupTestDatabase(t)
	now := time.Now().UTC()
	u := createUnverified(t, s, "late@example.com", "123456", now.Add(-time.Minute))

	ok, err := s.MarkVerified(context.Background(), u.UUID, "123456", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageIntegration_TaskOwnership(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	alice := createUnverified(t, s, "alice@example.com", "111111", exp)
	bob := createUnverified(t, s, "bob@example.com", "222222", exp)

	first, err := s.CreateTask(ctx, alice.UUID, "first")
	require.NoError(t, err)
	second, err := s.CreateTask(ctx, alice.UUID, "second")
	require.NoError(t, err)
	assert.False(t, first.Status)

	tasks, err := s.ListTasks(ctx, alice.UUID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	bobTasks, err := s.ListTasks(ctx, bob.UUID)
	require.NoError(t, err)
	assert.Empty(t, bobTasks)

	_, err = s.ToggleTask(ctx, bob.UUID, first.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, s.DeleteTask(ctx, bob.UUID, first.ID), ErrTaskNotFound)

	toggled, err := s.ToggleTask(ctx, alice.UUID, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Status)
	toggled, err = s.ToggleTask(ctx, alice.UUID, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Status)

	require.NoError(t, s.DeleteTask(ctx, alice.UUID, first.ID))
	require.ErrorIs(t, s.DeleteTask(ctx, alice.UUID, first.ID), ErrTaskNotFound)

	_, err = s.ToggleTask(ctx, alice.UUID, 999999)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
