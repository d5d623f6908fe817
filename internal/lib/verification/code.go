// Package verification выпускает одноразовые коды подтверждения email.
package verification

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const (
	// DefaultTTL срок действия кода по умолчанию.
	DefaultTTL = 10 * time.Minute

	codeMin = 100000
	codeMax = 999999
)

// Issuer генерирует шестизначные коды и срок их действия.
type Issuer struct {
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

// Option настраивает Issuer.
type Option func(*Issuer)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithRandom подменяет источник случайности.
func WithRandom(r io.Reader) Option {
	return func(i *Issuer) { i.random = r }
}

// NewIssuer создает Issuer с заданным TTL. Неположительный TTL заменяется на DefaultTTL.
func NewIssuer(ttl time.Duration, opts ...Option) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		ttl:    ttl,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue возвращает новый код из диапазона [100000, 999999] и момент его истечения.
func (i *Issuer) Issue() (string, time.Time, error) {
	const op = "verification.Issue"
	n, err := rand.Int(i.random, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+codeMin)
	return code, i.now().Add(i.ttl).UTC(), nil
}

// TTL срок действия выпускаемых кодов.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
