package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/config"
	"hostelgrievance/internal/core/domain"
	"hostelgrievance/internal/pkg/jwt"

	"gorm.io/gorm"
)

const (
	// InstituteEmailSuffix restricts registration to institute accounts
	InstituteEmailSuffix = "@students.vnit.ac.in"

	otpLength      = 6
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
)

// AuthService handles the OTP identity-verification protocol
type AuthService struct {
	studentRepo repositories.StudentRepository
	mailer      Mailer
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(studentRepo repositories.StudentRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// RequestAccessInput represents a login/registration request
type RequestAccessInput struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// RequestAccessResult tells the handler whether a session was issued
// directly (already-verified identity) or a code was dispatched.
type RequestAccessResult struct {
	Token    string
	Student  *models.Student
	CodeSent bool
}

// RequestAccess looks up the identity for an email. Verified identities
// log in immediately without a new code; unverified or unknown ones get
// a fresh code by email. The OTP write is a single upsert so two
// concurrent requests for the same email cannot lose updates.
func (s *AuthService) RequestAccess(ctx context.Context, input *RequestAccessInput) (*RequestAccessResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.HasSuffix(email, InstituteEmailSuffix) {
		return nil, domain.ErrNonInstituteEmail
	}

	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if student != nil && student.Verified {
		token, err := s.issueSession(email)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Verified student logged in: %s", email)
		return &RequestAccessResult{Token: token, Student: student}, nil
	}

	otp, err := generateOTP(otpLength)
	if err != nil {
		return nil, fmt.Errorf("generate OTP: %w", err)
	}

	if err := s.studentRepo.UpsertOTP(ctx, email, strings.TrimSpace(input.Name), otp); err != nil {
		return nil, err
	}

	// Code dispatch failure surfaces to the caller; the identity stays
	// unverified so nothing is silently granted.
	if err := s.mailer.SendOTP(ctx, email, input.Name, otp); err != nil {
		log.Printf("❌ OTP mail to %s failed: %v", email, err)
		return nil, fmt.Errorf("send OTP mail: %w", err)
	}

	log.Printf("✅ OTP sent to %s", email)
	return &RequestAccessResult{CodeSent: true}, nil
}

// ConfirmAccessInput represents an OTP verification request
type ConfirmAccessInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ConfirmAccess checks the supplied code against the stored one. On
// match the identity becomes verified, the code is cleared (single
// use), and a session token is issued.
func (s *AuthService) ConfirmAccess(ctx context.Context, input *ConfirmAccessInput) (string, *models.Student, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrStudentNotFound
		}
		return "", nil, err
	}

	if student.OTP == nil || student.OTPIssuedAt == nil {
		return "", nil, domain.ErrInvalidOTP
	}
	if time.Since(*student.OTPIssuedAt) > otpTTL {
		return "", nil, domain.ErrOTPExpired
	}
	if student.OTPAttempts >= otpMaxAttempts {
		return "", nil, domain.ErrOTPAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(*student.OTP), []byte(input.OTP)) != 1 {
		if err := s.studentRepo.RecordFailedAttempt(ctx, student.ID); err != nil {
			log.Printf("❌ Failed to record OTP attempt for %s: %v", email, err)
		}
		return "", nil, domain.ErrInvalidOTP
	}

	if err := s.studentRepo.MarkVerified(ctx, student.ID); err != nil {
		return "", nil, err
	}

	token, err := s.issueSession(email)
	if err != nil {
		return "", nil, err
	}

	student.Verified = true
	student.OTP = nil

	log.Printf("✅ Student verified: %s", email)
	return token, student, nil
}

// CurrentStudent resolves a session token back to the identity row
func (s *AuthService) CurrentStudent(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// issueSession signs a multi-day session token bound to the email
func (s *AuthService) issueSession(email string) (string, error) {
	return jwt.GenerateSessionToken(email, s.cfg.JWT.Secret, s.cfg.JWT.SessionDays)
}

// generateOTP generates a cryptographically secure numeric code
func generateOTP(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String(), nil
}
