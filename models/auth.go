// models/auth.go

package models

type SignupRequest struct {
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"password" bson:"password"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse mirrors what the frontend expects after a successful login.
type LoginResponse struct {
	Token         string `json:"token"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EnrollmentNum string `json:"enrollmentnum,omitempty"`
	Imgsrc        string `json:"imgsrc,omitempty"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
