package otp

//go:generate go run go.uber.org/mock/mockgen -source=./otp.go -destination=./mocks/otp_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"innkeeper/config"
	"innkeeper/shared/cache"
	"innkeeper/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	PurposeRegistration  = "registration"
	PurposePasswordReset = "password_reset"
)

const (
	keyPrefix  = "otp"
	codeDigits = 6
)

var (
	ErrExpired         = errors.New("otp has expired or was never issued")
	ErrMismatch        = errors.New("otp does not match")
	ErrTooManyAttempts = errors.New("too many failed otp attempts")
)

var codeSpace = big.NewInt(1_000_000)

// Store issues and verifies one-time passwords. Codes are single-use: a
// successful Verify consumes the code, a new Issue for the same purpose and
// email supersedes any outstanding one, and the attempt budget is enforced
// here rather than in the callers.
type Store interface {
	Issue(ctx context.Context, purpose, email string) (string, error)
	Verify(ctx context.Context, purpose, email, code string) error
}

type record struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

type storeImpl struct {
	cache  cache.RedisCache
	config *config.Config
}

func New(cacheClient cache.RedisCache, config *config.Config) Store {
	return &storeImpl{
		cache:  cacheClient,
		config: config,
	}
}

func (s *storeImpl) Issue(ctx context.Context, purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := buildKey(purpose, email)

	// Invalidate first so a failed save never leaves the previous code and
	// its remaining attempts behind.
	if err = s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("purpose", purpose).Msg("failed to invalidate previous otp")
	}

	expireSeconds := s.config.OTP.ExpireSeconds
	rec := record{
		Code:      code,
		ExpiresAt: timezone.Now().Add(time.Duration(expireSeconds) * time.Second),
	}

	if err = s.cache.Save(ctx, key, rec, expireSeconds); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	return code, nil
}

func (s *storeImpl) Verify(ctx context.Context, purpose, email, code string) error {
	key := buildKey(purpose, email)

	var rec record
	if err := s.cache.Get(ctx, key, &rec); err != nil {
		if errors.Is(err, cache.Nil) {
			return ErrExpired
		}

		return fmt.Errorf("failed to load otp: %w", err)
	}

	now := timezone.Now()
	if now.After(rec.ExpiresAt) {
		// Redis eviction should have removed the key already.
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("purpose", purpose).Msg("failed to drop expired otp")
		}

		return ErrExpired
	}

	if rec.Code != code {
		rec.Attempts++
		if rec.Attempts >= s.config.OTP.MaxAttempts {
			if err := s.cache.Delete(ctx, key); err != nil {
				log.Warn().Err(err).Str("purpose", purpose).Msg("failed to drop exhausted otp")
			}

			return ErrTooManyAttempts
		}

		// Keep the original window: re-save with the remaining TTL only.
		remaining := int(rec.ExpiresAt.Sub(now).Seconds())
		if remaining < 1 {
			remaining = 1
		}

		if err := s.cache.Save(ctx, key, rec, remaining); err != nil {
			return fmt.Errorf("failed to store otp attempt: %w", err)
		}

		return ErrMismatch
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	return nil
}

func buildKey(purpose, email string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, purpose, email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
