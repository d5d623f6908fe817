// Package auth содержит регистрацию, вход и подтверждение аккаунта по коду из письма.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/taskflow/internal/lib/jwt"
	"github.com/magabrotheeeer/taskflow/internal/lib/password"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/metrics"
	"github.com/magabrotheeeer/taskflow/internal/models"
	"github.com/magabrotheeeer/taskflow/internal/storage"
)

// UserRepository описывает хранилище учётных записей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateVerificationCode(ctx context.Context, userUID, code string, expiresAt time.Time) (bool, error)
	MarkVerified(ctx context.Context, userUID, code string, now time.Time) (bool, error)
}

// Notifier доставляет код подтверждения на почту.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// CodeIssuer выпускает код подтверждения и момент его истечения.
type CodeIssuer interface {
	Issue() (string, time.Time, error)
}

// Token выпущенный JWT и момент его истечения.
type Token struct {
	Value     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// Service реализует жизненный цикл аккаунта: Unverified -> Verified.
type Service struct {
	users    UserRepository
	notifier Notifier
	codes    CodeIssuer
	jwtMaker jwt.Maker
	admins   map[string]struct{}
	now      func() time.Time
	log      *slog.Logger
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAdminEmails задаёт адреса, которые получают роль admin при регистрации.
func WithAdminEmails(emails []string) Option {
	return func(s *Service) {
		for _, e := range emails {
			if e = NormalizeEmail(e); e != "" {
				s.admins[e] = struct{}{}
			}
		}
	}
}

// New создаёт сервис аутентификации.
func New(log *slog.Logger, users UserRepository, notifier Notifier, codes CodeIssuer, jwtMaker jwt.Maker, opts ...Option) *Service {
	s := &Service{
		users:    users,
		notifier: notifier,
		codes:    codes,
		jwtMaker: jwtMaker,
		admins:   make(map[string]struct{}),
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail приводит адрес к нижнему регистру и обрезает пробелы.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup регистрирует неподтверждённого пользователя и отправляет ему код.
// Пользователь сохраняется до отправки письма: при ошибке доставки
// возвращается ErrNotificationFailure, а код можно запросить повторно.
func (s *Service) Signup(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	const op = "auth.Signup"
	email = NormalizeEmail(email)

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.AuthEvents.WithLabelValues("signup", "duplicate").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	code, expiresAt, err := s.codes.Issue()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	role := models.RoleUser
	if _, ok := s.admins[email]; ok {
		role = models.RoleAdmin
	}

	created, err := s.users.CreateUser(ctx, models.User{
		Username:                  strings.TrimSpace(username),
		Email:                     email,
		PasswordHash:              hash,
		Role:                      role,
		Enabled:                   false,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			metrics.AuthEvents.WithLabelValues("signup", "duplicate").Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		s.log.Error("failed to send verification code",
			sl.Op(op), slog.String("user_uid", created.UUID), sl.Err(err))
		metrics.AuthEvents.WithLabelValues("signup", "notification_failure").Inc()
		return nil, fmt.Errorf("%s: %w: %w", op, ErrNotificationFailure, err)
	}

	metrics.AuthEvents.WithLabelValues("signup", "ok").Inc()
	return created, nil
}

// Authenticate проверяет пароль, затем статус подтверждения.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "auth.Authenticate"

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.Enabled {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotVerified)
	}
	return user, nil
}

// Login аутентифицирует пользователя и выпускает токен сессии.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*Token, error) {
	const op = "auth.Login"

	user, err := s.Authenticate(ctx, email, rawPassword)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("login", outcome(err)).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	value, expiresAt, err := s.jwtMaker.GenerateToken(user.UUID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.AuthEvents.WithLabelValues("login", "ok").Inc()
	return &Token{Value: value, ExpiresAt: expiresAt, TTL: s.jwtMaker.TTL()}, nil
}

// VerifyUser подтверждает аккаунт кодом из письма.
// Код сравнивается как строка, истёкший код отклоняется.
func (s *Service) VerifyUser(ctx context.Context, email, code string) error {
	const op = "auth.VerifyUser"

	user, err := s.getUser(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now := s.now().UTC()
	if err := checkCode(user, code, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.users.MarkVerified(ctx, user.UUID, code, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		// строка изменилась между чтением и UPDATE: причину берём из свежего состояния
		fresh, err := s.getUser(ctx, email)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := checkCode(fresh, code, now); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}

	metrics.AuthEvents.WithLabelValues("verify", "ok").Inc()
	return nil
}

// ResendVerificationCode выпускает новый код взамен старого и отправляет его.
func (s *Service) ResendVerificationCode(ctx context.Context, email string) error {
	const op = "auth.ResendVerificationCode"

	user, err := s.getUser(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Enabled {
		return fmt.Errorf("%s: %w", op, ErrAlreadyVerified)
	}

	code, expiresAt, err := s.codes.Issue()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ok, err := s.users.UpdateVerificationCode(ctx, user.UUID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrAlreadyVerified)
	}

	if err := s.notifier.SendVerificationCode(ctx, user.Email, code); err != nil {
		s.log.Error("failed to resend verification code",
			sl.Op(op), slog.String("user_uid", user.UUID), sl.Err(err))
		metrics.AuthEvents.WithLabelValues("resend", "notification_failure").Inc()
		return fmt.Errorf("%s: %w: %w", op, ErrNotificationFailure, err)
	}

	metrics.AuthEvents.WithLabelValues("resend", "ok").Inc()
	return nil
}

// checkCode проверяет состояние аккаунта в порядке: подтверждён, код, срок.
func checkCode(user *models.User, code string, now time.Time) error {
	if user.Enabled {
		return ErrAlreadyVerified
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		metrics.AuthEvents.WithLabelValues("verify", "invalid_code").Inc()
		return ErrInvalidCode
	}
	if user.VerificationCodeExpiresAt == nil || now.After(*user.VerificationCodeExpiresAt) {
		metrics.AuthEvents.WithLabelValues("verify", "expired").Inc()
		return ErrCodeExpired
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountNotVerified):
		return "not_verified"
	default:
		return "error"
	}
}
