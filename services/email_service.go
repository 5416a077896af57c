// services/email_service.go
package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// OTPDispatcher delivers a one-time code out of band. The SMTP implementation
// below is the only production one; tests substitute a recorder.
type OTPDispatcher interface {
	SendSignupOTP(email, name, otp string) error
}

// EmailService sends portal mail over SMTP using gomail.
type EmailService struct{}

func NewEmailService() *EmailService {
	return &EmailService{}
}

// SendSignupOTP sends the signup verification code to the user's email.
func (s *EmailService) SendSignupOTP(email, name, otp string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	subject := "Freshers Portal Signup Verification"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Verify Your Email</h2>
			<p>Hello %s,</p>
			<p>Use the following code to finish creating your freshers portal account:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 10 minutes.</p>
			<p>If you did not sign up, you can ignore this email.</p>
			<p>Thank you,<br>The Freshers Portal Team</p>
		</body>
		</html>
	`, name, otp)

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
