package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshers-portal/backend/middleware"
	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
	"github.com/freshers-portal/backend/services"
	"github.com/freshers-portal/backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	users         repositories.CredentialStore
	otp           *services.OTPService
	logger        *log.Logger
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(users repositories.CredentialStore, otp *services.OTPService) *AuthController {
	ac := &AuthController{
		users:  users,
		otp:    otp,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Signup starts the OTP-gated signup: validates the payload, issues a
// challenge and emails the code. No user record exists until VerifyOTP.
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "All fields required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Email = email

	if req.Phone != "" {
		phone, err := utils.SanitizePhone(req.Phone)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid phone number format",
			})
		}
		req.Phone = phone
	}

	req.Name = utils.SanitizeInput(req.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Advisory pre-check; the unique index in the credential store is what
	// actually closes the race at VerifyOTP time.
	if _, err := ac.users.FindByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already exists",
		})
	} else if err != repositories.ErrUserNotFound {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}

	otpDoc, err := ac.otp.Issue(ctx, &req)
	if err != nil {
		ac.logger.Printf("Failed to issue signup OTP for %s: %v", utils.MaskEmail(req.Email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send OTP",
		})
	}

	ac.logger.Printf("Signup OTP issued for %s", utils.MaskEmail(req.Email))

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP sent successfully. Please verify your email.",
		Data: map[string]interface{}{
			"email":     utils.MaskEmail(req.Email),
			"expiresAt": otpDoc.ExpiresAt,
		},
	})
}

// SendOTP reissues the challenge for a pending signup. The previous code is
// invalidated by the reissue.
func (ac *AuthController) SendOTP(c echo.Context) error {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	otpDoc, err := ac.otp.Reissue(ctx, email)
	if err != nil {
		if err == repositories.ErrOTPNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No pending signup for this email",
			})
		}
		ac.logger.Printf("Failed to reissue OTP for %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send OTP",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP sent successfully",
		Data: map[string]interface{}{
			"email":     utils.MaskEmail(email),
			"expiresAt": otpDoc.ExpiresAt,
		},
	})
}

// VerifyOTP completes the signup: consumes the challenge and persists the
// user with a bcrypt password hash and isVerified set.
func (ac *AuthController) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.OTP = utils.SanitizeInput(req.OTP)

	if req.OTP == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "OTP is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	signupData, err := ac.otp.Verify(ctx, email, req.OTP)
	if err != nil {
		switch err {
		case repositories.ErrOTPNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No pending verification for this email",
			})
		case repositories.ErrOTPExpired:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "OTP expired",
			})
		case repositories.ErrOTPInvalid:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid OTP",
			})
		case repositories.ErrOTPMaxAttempts:
			return c.JSON(http.StatusTooManyRequests, models.Response{
				Status:  http.StatusTooManyRequests,
				Message: "Too many OTP attempts. Please try again later.",
			})
		}
		ac.logger.Printf("OTP verification failed for %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Verification failed",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupData.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error hashing password",
		})
	}

	user := &models.User{
		Email:      signupData.Email,
		Password:   string(hashedPassword),
		Name:       signupData.Name,
		Phone:      signupData.Phone,
		IsVerified: true,
	}

	if err := ac.users.CreateUser(ctx, user); err != nil {
		switch err {
		case repositories.ErrEmailExists:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Email already exists",
			})
		case repositories.ErrPhoneExists:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Phone number already registered",
			})
		}
		ac.logger.Printf("Failed to create user %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user account",
		})
	}

	ac.logger.Printf("User created for %s", utils.MaskEmail(email))

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Signup successful",
	})
}

// Login validates credentials and issues a session token.
func (ac *AuthController) Login(c echo.Context) error {
	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	loginReq.Email = email

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := ac.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			// Same message as a bad password, no user enumeration
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if !user.IsVerified {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email not verified",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		ac.recordFailedLogin(email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, email)
	ac.loginAttemptsMu.Unlock()

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	imgsrc := user.Imgsrc
	if imgsrc == "" {
		imgsrc = "/images/fresher.jpg"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:         token,
			Name:          user.Name,
			Email:         user.Email,
			EnrollmentNum: user.EnrollmentNum,
			Imgsrc:        imgsrc,
		},
	})
}

func (ac *AuthController) recordFailedLogin(email string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	attempts := ac.loginAttempts[email]
	ac.loginAttempts[email] = struct {
		count       int
		lastAttempt time.Time
	}{count: attempts.count + 1, lastAttempt: time.Now()}
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(1 * time.Hour)
		ac.loginAttemptsMu.Lock()
		now := time.Now()
		for email, attempts := range ac.loginAttempts {
			if now.Sub(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, email)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}
