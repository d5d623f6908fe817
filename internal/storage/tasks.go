package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/taskflow/internal/models"
)

// ListTasks возвращает задачи владельца в порядке создания.
func (s *Storage) ListTasks(ctx context.Context, ownerUID string) ([]models.Task, error) {
	const op = "storage.ListTasks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, title, status, owner_uid, created_at
			  FROM tasks
			  WHERE owner_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.OwnerUID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// CreateTask создаёт невыполненную задачу владельца.
func (s *Storage) CreateTask(ctx context.Context, ownerUID, title string) (*models.Task, error) {
	const op = "storage.CreateTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	t := models.Task{Title: title, OwnerUID: ownerUID}
	query := `INSERT INTO tasks (title, status, owner_uid)
			  VALUES ($1, FALSE, $2)
			  RETURNING id, status, created_at`
	if err := s.DB.QueryRowContext(ctx, query, title, ownerUID).
		Scan(&t.ID, &t.Status, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// ToggleTask инвертирует статус задачи владельца и возвращает её новое состояние.
func (s *Storage) ToggleTask(ctx context.Context, ownerUID string, id int) (*models.Task, error) {
	const op = "storage.ToggleTask"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE tasks SET status = NOT status
			  WHERE id = $1 AND owner_uid = $2
			  RETURNING id, title, status, owner_uid, created_at`
	var t models.Task
	err := s.DB.QueryRowContext(ctx, query, id, ownerUID).
		Scan(&t.ID, &t.Title, &t.Status, &t.OwnerUID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// DeleteTask удаляет задачу владельца.
func (s *Storage) DeleteTask(ctx context.Context, ownerUID string, id int) error {
	const op = "storage.DeleteTask"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_uid = $2`, id, ownerUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
	}
	return nil
}
