// Package tasks реализует работу со списком задач владельца.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/metrics"
	"github.com/magabrotheeeer/taskflow/internal/models"
	"github.com/magabrotheeeer/taskflow/internal/storage"
)

// Ошибки сервиса задач.
var (
	ErrInvalidTitle = errors.New("title must not be empty")
	ErrTaskNotFound = errors.New("task not found")
)

// Repository хранилище задач. Все методы ограничены владельцем.
type Repository interface {
	ListTasks(ctx context.Context, ownerUID string) ([]models.Task, error)
	CreateTask(ctx context.Context, ownerUID, title string) (*models.Task, error)
	ToggleTask(ctx context.Context, ownerUID string, id int) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerUID string, id int) error
}

// Cache кеш списков задач.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Invalidate(ctx context.Context, key string) error
}

// Service сервис задач.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт сервис. cache может быть nil, тогда список всегда читается из базы.
func New(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, log: log}
}

// GenerationKey ключ счётчика поколений списка задач владельца.
// Каждое изменение задач увеличивает счётчик.
func GenerationKey(ownerUID string) string {
	return "tasks:gen:" + ownerUID
}

// CacheKey ключ кеша со списком задач владельца в поколении gen.
// Список, прочитанный из базы до изменения, записывается под старым
// поколением и больше не читается.
func CacheKey(ownerUID string, gen int64) string {
	return fmt.Sprintf("tasks:%s:%d", ownerUID, gen)
}

// List возвращает задачи владельца в порядке создания.
func (s *Service) List(ctx context.Context, ownerUID string) ([]models.Task, error) {
	const op = "tasks.List"
	log := s.log.With(sl.Op(op), slog.String("owner_uid", ownerUID))

	useCache := s.cache != nil
	var gen int64
	if useCache {
		// поколение читается до базы, иначе запись после изменения не отличить от устаревшей
		if _, err := s.cache.Get(ctx, GenerationKey(ownerUID), &gen); err != nil {
			metrics.TaskCacheRequests.WithLabelValues("error").Inc()
			log.Warn("failed to read task list generation", sl.Err(err))
			useCache = false
		}
	}

	if useCache {
		var cached []models.Task
		found, err := s.cache.Get(ctx, CacheKey(ownerUID, gen), &cached)
		switch {
		case err != nil:
			metrics.TaskCacheRequests.WithLabelValues("error").Inc()
			log.Warn("failed to read task list from cache", sl.Err(err))
		case found:
			metrics.TaskCacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.TaskCacheRequests.WithLabelValues("miss").Inc()
		}
	}

	list, err := s.repo.ListTasks(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if useCache {
		if err := s.cache.Set(ctx, CacheKey(ownerUID, gen), list, s.ttl); err != nil {
			log.Warn("failed to store task list in cache", sl.Err(err))
		}
	}
	return list, nil
}

// Add создаёт невыполненную задачу. Пустой заголовок отклоняется.
func (s *Service) Add(ctx context.Context, ownerUID, title string) (*models.Task, error) {
	const op = "tasks.Add"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTitle)
	}

	task, err := s.repo.CreateTask(ctx, ownerUID, title)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, ownerUID)
	return task, nil
}

// Toggle инвертирует статус задачи владельца.
// Чужая и несуществующая задача неразличимы: обе дают ErrTaskNotFound.
func (s *Service) Toggle(ctx context.Context, ownerUID string, id int) (*models.Task, error) {
	const op = "tasks.Toggle"

	task, err := s.repo.ToggleTask(ctx, ownerUID, id)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, ownerUID)
	return task, nil
}

// Delete удаляет задачу владельца.
func (s *Service) Delete(ctx context.Context, ownerUID string, id int) error {
	const op = "tasks.Delete"

	if err := s.repo.DeleteTask(ctx, ownerUID, id); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, ownerUID)
	return nil
}

// invalidate переводит владельца на новое поколение и удаляет список предыдущего.
func (s *Service) invalidate(ctx context.Context, op, ownerUID string) {
	if s.cache == nil {
		return
	}
	log := s.log.With(sl.Op(op), slog.String("owner_uid", ownerUID))

	gen, err := s.cache.Incr(ctx, GenerationKey(ownerUID))
	if err != nil {
		log.Warn("failed to bump task list generation", sl.Err(err))
		return
	}
	if err := s.cache.Invalidate(ctx, CacheKey(ownerUID, gen-1)); err != nil {
		log.Warn("failed to invalidate task list cache", sl.Err(err))
	}
}
