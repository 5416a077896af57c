// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/freshers-portal/backend/repositories"
)

// GenerateOTP returns a uniformly random numeric code of the given length.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// ValidateOTPAttempts counts verification attempts per email in Redis and
// rejects after 5 within an hour. A nil client disables the limit (the portal
// still works when Redis is down, it just loses brute-force protection).
func ValidateOTPAttempts(email string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	key := "otp_attempts:" + email
	attempts, err := rdb.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return repositories.ErrOTPMaxAttempts
	}

	return nil
}

// ClearOTPAttempts resets the attempt counter after a successful verify.
func ClearOTPAttempts(email string, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.Del(context.Background(), "otp_attempts:"+email)
}
