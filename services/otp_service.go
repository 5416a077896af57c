// services/otp_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
	"github.com/freshers-portal/backend/utils"
)

const otpLength = 6

// OTPService runs the signup challenge state machine. Per email:
// no challenge -> pending -> verified, expired, or a failed attempt.
// A mismatched code keeps the challenge alive so the user can retry;
// an expired code removes it so a stale code can never validate.
type OTPService struct {
	challenges repositories.ChallengeStore
	dispatcher OTPDispatcher
	redis      *redis.Client
	window     time.Duration
}

func NewOTPService(challenges repositories.ChallengeStore, dispatcher OTPDispatcher, rdb *redis.Client, window time.Duration) *OTPService {
	return &OTPService{
		challenges: challenges,
		dispatcher: dispatcher,
		redis:      rdb,
		window:     window,
	}
}

// Issue generates a fresh challenge for the signup payload and emails the
// code. Any earlier challenge for the same email is replaced. If the email
// cannot be delivered the challenge is removed again before the error is
// returned, so no undeliverable code stays pending.
func (s *OTPService) Issue(ctx context.Context, req *models.SignupRequest) (*models.EmailOTP, error) {
	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &models.EmailOTP{
		Email:      req.Email,
		OTP:        code,
		SignupData: req,
		ExpiresAt:  time.Now().Add(s.window),
		CreatedAt:  time.Now(),
	}

	if err := s.challenges.Put(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.dispatcher.SendSignupOTP(req.Email, req.Name, code); err != nil {
		s.challenges.Delete(ctx, req.Email)
		return nil, fmt.Errorf("failed to dispatch otp: %w", err)
	}

	return otp, nil
}

// Reissue replaces the pending challenge for an email with a fresh code and
// window, reusing the original signup payload. ErrOTPNotFound when no signup
// is pending.
func (s *OTPService) Reissue(ctx context.Context, email string) (*models.EmailOTP, error) {
	pending, err := s.challenges.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.Issue(ctx, pending.SignupData)
}

// Verify checks a submitted code against the pending challenge and, on
// success, consumes the challenge and hands back the signup payload for the
// credential store to persist.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*models.SignupRequest, error) {
	if err := utils.ValidateOTPAttempts(email, s.redis); err != nil {
		return nil, err
	}

	otp, err := s.challenges.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	if time.Now().After(otp.ExpiresAt) {
		// Expired codes are consumed so they can never validate later.
		if err := s.challenges.Delete(ctx, email); err != nil {
			return nil, err
		}
		return nil, repositories.ErrOTPExpired
	}

	if otp.OTP != code {
		// Challenge stays pending; the user may retype the code.
		return nil, repositories.ErrOTPInvalid
	}

	if err := s.challenges.Delete(ctx, email); err != nil {
		return nil, err
	}
	utils.ClearOTPAttempts(email, s.redis)

	return otp.SignupData, nil
}

// StartCleanupRoutine sweeps expired challenges every interval until the
// context is cancelled. The Mongo TTL index is the backstop; this keeps the
// collection small between TTL monitor passes.
func (s *OTPService) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.challenges.DeleteExpired(ctx)
			}
		}
	}()
}
