package repositories

import (
	"context"
	"time"

	"hostelgrievance/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// studentRepository implements StudentRepository interface
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// GetByEmail gets a student by email
func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// UpsertOTP creates the student row on first contact or replaces the
// active code on an existing unverified row. A single upsert statement
// keeps concurrent requests for the same email from losing updates.
func (r *studentRepository) UpsertOTP(ctx context.Context, email, name, otp string) error {
	now := time.Now()
	student := models.Student{
		Email:       email,
		Name:        name,
		OTP:         &otp,
		OTPIssuedAt: &now,
		OTPAttempts: 0,
		Verified:    false,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"otp", "otp_issued_at", "otp_attempts", "verified",
		}),
	}).Create(&student).Error
}

// RecordFailedAttempt increments the wrong-code counter atomically
func (r *studentRepository) RecordFailedAttempt(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1")).Error
}

// MarkVerified flips the verified flag and clears the code (single use)
func (r *studentRepository) MarkVerified(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified":      true,
			"otp":           nil,
			"otp_issued_at": nil,
			"otp_attempts":  0,
		}).Error
}
