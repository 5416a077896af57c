package repositories

import "errors"

// Account errors
var (
	ErrEmailExists     = errors.New("email already registered")
	ErrPhoneExists     = errors.New("phone number already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserNotVerified = errors.New("email not verified")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("no pending verification for this email")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("too many otp attempts")
)

// Voting errors
var (
	ErrAlreadyVoted     = errors.New("already voted")
	ErrUnknownCandidate = errors.New("candidate not found")
)
