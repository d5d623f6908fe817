package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/taskflow/internal/models"
)

const userColumns = `uid, username, email, password_hash, role, enabled,
	verification_code, verification_code_expires_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		code      sql.NullString
		expiresAt sql.NullTime
	)
	if err := row.Scan(&u.UUID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Enabled, &code, &expiresAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	if code.Valid {
		u.VerificationCode = &code.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		u.VerificationCodeExpiresAt = &t
	}
	return &u, nil
}

// CreateUser сохраняет пользователя и возвращает его с присвоенными uid и created_at.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (username, email, password_hash, role, enabled,
			      verification_code, verification_code_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid, created_at`
	err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Enabled,
		user.VerificationCode, user.VerificationCodeExpiresAt,
	).Scan(&user.UUID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя по uid. Некорректный uid считается отсутствующим.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateVerificationCode заменяет код и срок его действия у неподтверждённого пользователя.
// false означает, что пользователь не найден или уже подтверждён.
func (s *Storage) UpdateVerificationCode(ctx context.Context, userUID, code string, expiresAt time.Time) (bool, error) {
	const op = "storage.UpdateVerificationCode"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `UPDATE users
			  SET verification_code = $2, verification_code_expires_at = $3
			  WHERE uid = $1 AND enabled = FALSE`
	res, err := s.DB.ExecContext(ctx, query, userUID, code, expiresAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// MarkVerified включает аккаунт и стирает код, если код совпадает и ещё действует на момент now.
// Проверка и запись выполняются одним UPDATE, поэтому из двух конкурентных
// подтверждений успешным будет только одно.
func (s *Storage) MarkVerified(ctx context.Context, userUID, code string, now time.Time) (bool, error) {
	const op = "storage.MarkVerified"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `UPDATE users
			  SET enabled = TRUE, verification_code = NULL, verification_code_expires_at = NULL
			  WHERE uid = $1 AND enabled = FALSE
			    AND verification_code = $2 AND verification_code_expires_at >= $3`
	res, err := s.DB.ExecContext(ctx, query, userUID, code, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, uid`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
