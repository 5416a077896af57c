// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model. One record per registered student; the email is the identity
// used across the portal (login, vote ledger).
type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"password,omitempty" bson:"password"`
	Name          string             `json:"name" bson:"name"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	EnrollmentNum string             `json:"enrollmentnum,omitempty" bson:"enrollmentnum,omitempty"`
	Imgsrc        string             `json:"imgsrc,omitempty" bson:"imgsrc,omitempty"`
	IsVerified    bool               `json:"isVerified" bson:"isVerified"`
	OTPInfo       *OTPInfo           `json:"otpInfo,omitempty" bson:"otpInfo,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type OTPInfo struct {
	OTP       string    `json:"otp" bson:"otp"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

// Response is the uniform JSON envelope returned by every handler.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
