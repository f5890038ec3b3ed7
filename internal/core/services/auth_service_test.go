package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/core/domain"

	"gorm.io/gorm"
)

const testEmail = "bt21cse001@students.vnit.ac.in"

func newAuthFixture(t *testing.T) (*AuthService, *fakeMailer, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewAuthService(repositories.NewStudentRepository(db), mailer, testConfig())
	return svc, mailer, db
}

func loadStudent(t *testing.T, db *gorm.DB, email string) *models.Student {
	t.Helper()
	var student models.Student
	if err := db.Where("email = ?", email).First(&student).Error; err != nil {
		t.Fatalf("load student %s: %v", email, err)
	}
	return &student
}

func TestRequestAccessRejectsOutsideEmail(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)

	tests := []struct {
		name  string
		email string
	}{
		{"gmail address", "someone@gmail.com"},
		{"empty", ""},
		{"suffix in local part", "students.vnit.ac.in@gmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: tt.email})
			if !errors.Is(err, domain.ErrNonInstituteEmail) {
				t.Fatalf("expected ErrNonInstituteEmail, got %v", err)
			}
		})
	}

	if len(mailer.otps) != 0 {
		t.Fatalf("no mail should be sent, got %d", len(mailer.otps))
	}
	var count int64
	db.Model(&models.Student{}).Count(&count)
	if count != 0 {
		t.Fatalf("no identity row should exist, got %d", count)
	}
}

func TestRequestAccessSendsSingleActiveCode(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)

	for i := 0; i < 2; i++ {
		result, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail, Name: "Asha"})
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !result.CodeSent {
			t.Fatalf("request %d: expected a code dispatch", i)
		}
	}

	if len(mailer.otps) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(mailer.otps))
	}

	var count int64
	db.Model(&models.Student{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one identity row, got %d", count)
	}

	// Only the latest code is live
	student := loadStudent(t, db, testEmail)
	if student.OTP == nil || *student.OTP != mailer.otps[1].OTP {
		t.Fatalf("stored code should match the latest mail")
	}
	if len(*student.OTP) != 6 {
		t.Fatalf("expected 6-digit code, got %q", *student.OTP)
	}

	// The superseded code no longer verifies
	_, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: mailer.otps[0].OTP})
	if mailer.otps[0].OTP != mailer.otps[1].OTP && !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("superseded code should be rejected, got %v", err)
	}
}

func TestRequestAccessSurfacesMailFailure(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)
	mailer.failOTP = true

	_, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail})
	if err == nil {
		t.Fatal("expected an error when the code cannot be delivered")
	}

	student := loadStudent(t, db, testEmail)
	if student.Verified {
		t.Fatal("identity must stay unverified when mail fails")
	}
}

func TestConfirmAccessVerifiesAndBurnsCode(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)

	if _, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail, Name: "Asha"}); err != nil {
		t.Fatalf("request access: %v", err)
	}
	otp := mailer.otps[0].OTP

	token, student, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: otp})
	if err != nil {
		t.Fatalf("confirm access: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if !student.Verified {
		t.Fatal("expected a verified identity")
	}

	row := loadStudent(t, db, testEmail)
	if !row.Verified || row.OTP != nil || row.OTPIssuedAt != nil {
		t.Fatal("verification must clear the stored code")
	}

	// Replay of the burnt code fails
	_, _, err = svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: otp})
	if !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("replayed code should be rejected, got %v", err)
	}
}

func TestConfirmAccessWrongCode(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)

	if _, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail}); err != nil {
		t.Fatalf("request access: %v", err)
	}
	otp := mailer.otps[0].OTP
	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}

	for i := 0; i < otpMaxAttempts; i++ {
		_, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: wrong})
		if !errors.Is(err, domain.ErrInvalidOTP) {
			t.Fatalf("attempt %d: expected ErrInvalidOTP, got %v", i, err)
		}
	}

	// Attempt budget exhausted: even the right code is rejected now
	_, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: otp})
	if !errors.Is(err, domain.ErrOTPAttemptsExceeded) {
		t.Fatalf("expected ErrOTPAttemptsExceeded, got %v", err)
	}

	row := loadStudent(t, db, testEmail)
	if row.Verified {
		t.Fatal("identity must stay unverified")
	}
}

func TestConfirmAccessExpiredCode(t *testing.T) {
	svc, mailer, db := newAuthFixture(t)

	if _, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail}); err != nil {
		t.Fatalf("request access: %v", err)
	}

	stale := time.Now().Add(-otpTTL - time.Minute)
	if err := db.Model(&models.Student{}).Where("email = ?", testEmail).
		Update("otp_issued_at", stale).Error; err != nil {
		t.Fatalf("age the code: %v", err)
	}

	_, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: mailer.otps[0].OTP})
	if !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestConfirmAccessUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: "123456"})
	if !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestVerifiedStudentLogsInWithoutCode(t *testing.T) {
	svc, mailer, _ := newAuthFixture(t)

	if _, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail, Name: "Asha"}); err != nil {
		t.Fatalf("request access: %v", err)
	}
	if _, _, err := svc.ConfirmAccess(context.Background(), &ConfirmAccessInput{Email: testEmail, OTP: mailer.otps[0].OTP}); err != nil {
		t.Fatalf("confirm access: %v", err)
	}
	mailsBefore := len(mailer.otps)

	result, err := svc.RequestAccess(context.Background(), &RequestAccessInput{Email: testEmail})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if result.CodeSent {
		t.Fatal("verified identity must not trigger a new code")
	}
	if result.Token == "" {
		t.Fatal("expected an immediate session token")
	}
	if len(mailer.otps) != mailsBefore {
		t.Fatal("no additional mail should be sent")
	}
}
