package models

import (
	"time"
)

// EmailOTP represents a pending signup challenge. The signup payload travels
// with the challenge so no user record exists until the code is verified.
// At most one live challenge per email (upsert keyed on email).
type EmailOTP struct {
	Email      string         `bson:"email"`
	OTP        string         `bson:"otp"`
	SignupData *SignupRequest `bson:"signupData,omitempty"`
	ExpiresAt  time.Time      `bson:"expiresAt"`
	CreatedAt  time.Time      `bson:"createdAt"`
}
