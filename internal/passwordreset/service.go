// Package passwordreset issues short-lived verification codes by email and
// exchanges them for a new password.
package passwordreset

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"campusconnect/internal/accounts"
	"campusconnect/internal/domain"
	"campusconnect/internal/kv"
	"campusconnect/internal/mail"
)

const (
	keyPrefix      = "reset:"
	attemptsPrefix = "reset:attempts:"
	codeDigits     = 6
	DefaultTTL     = 15 * time.Minute
	// MaxAttempts wrong codes invalidate the outstanding code.
	MaxAttempts    = 5
)

// Accounts is the subset of the accounts service the flow needs.
type Accounts interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SetPassword(ctx context.Context, userID, password string) error
}

type Service struct {
	accounts Accounts
	codes    kv.Store
	mailer   mail.Sender
	ttl      time.Duration
	logger   zerolog.Logger
	newCode  func() (string, error)
}

func NewService(accts Accounts, codes kv.Store, mailer mail.Sender, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		accounts: accts,
		codes:    codes,
		mailer:   mailer,
		ttl:      ttl,
		logger:   logger,
		newCode:  randomCode,
	}
}

// Request stores a fresh code for email and mails it. Unknown addresses
// return nil so callers cannot probe which accounts exist.
func (s *Service) Request(ctx context.Context, email, locale string) error {
	email = accounts.NormalizeEmail(email)
	if email == "" {
		return domain.InvalidInput("email is required")
	}
	user, err := s.accounts.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info().Str("email", email).Msg("password reset: unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("password reset: generate code: %w", err)
	}
	if err := s.codes.Set(ctx, keyPrefix+email, code, s.ttl); err != nil {
		return &domain.StorageError{Op: "store_reset_code", Err: err}
	}
	if err := s.codes.Delete(ctx, attemptsPrefix+email); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password reset: attempt counter reset failed")
	}
	if err := s.mailer.Send(ctx, codeMessage(user, code, s.ttl, locale)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("password reset: mail failed")
		_ = s.codes.Delete(ctx, keyPrefix+email)
		return fmt.Errorf("password reset: send code: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset: code sent")
	return nil
}

// Confirm checks code and sets the new password. The code is single use.
func (s *Service) Confirm(ctx context.Context, email, code, newPassword string) error {
	email = accounts.NormalizeEmail(email)
	stored, err := s.codes.Get(ctx, keyPrefix+email)
	if errors.Is(err, kv.ErrMissing) {
		return domain.ErrCodeExpired
	}
	if err != nil {
		return &domain.StorageError{Op: "load_reset_code", Err: err}
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.recordMismatch(ctx, email)
		return domain.ErrInvalidCode
	}

	user, err := s.accounts.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.accounts.SetPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	for _, key := range []string{keyPrefix + email, attemptsPrefix + email} {
		if err := s.codes.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password reset: code cleanup failed")
		}
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset: password changed")
	return nil
}

// recordMismatch counts a wrong code and drops the code once MaxAttempts is
// reached, so the next confirm reports it as expired.
func (s *Service) recordMismatch(ctx context.Context, email string) {
	n, err := s.codes.Incr(ctx, attemptsPrefix+email, s.ttl)
	if err != nil {
		s.logger.Warn().Err(err).Msg("password reset: attempt counter failed")
		return
	}
	if n < MaxAttempts {
		return
	}
	for _, key := range []string{keyPrefix + email, attemptsPrefix + email} {
		if err := s.codes.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Msg("password reset: code cleanup failed")
		}
	}
	s.logger.Info().Int64("attempts", n).Msg("password reset: too many wrong codes, code dropped")
}

func randomCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func codeMessage(user *domain.User, code string, ttl time.Duration, locale string) mail.Message {
	minutes := int(ttl.Minutes())
	if locale == "en" {
		return mail.Message{
			To:      user.Email,
			Subject: "Campus Connect verification code",
			Body:    fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in %d minutes.\n", user.Name, code, minutes),
		}
	}
	return mail.Message{
		To:      user.Email,
		Subject: "Código de verificación de Campus Connect",
		Body:    fmt.Sprintf("Hola %s,\n\nTu código de verificación es %s. Expira en %d minutos.\n", user.Name, code, minutes),
	}
}
