package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintService handles the complaint lifecycle
type ComplaintService struct {
	db            *gorm.DB
	complaintRepo repositories.ComplaintRepository
	studentRepo   repositories.StudentRepository
	classifier    Classifier
	mailer        Mailer
	uploader      Uploader
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	db *gorm.DB,
	complaintRepo repositories.ComplaintRepository,
	studentRepo repositories.StudentRepository,
	classifier Classifier,
	mailer Mailer,
	uploader Uploader,
) *ComplaintService {
	return &ComplaintService{
		db:            db,
		complaintRepo: complaintRepo,
		studentRepo:   studentRepo,
		classifier:    classifier,
		mailer:        mailer,
		uploader:      uploader,
	}
}

// SubmitInput represents a new complaint submission
type SubmitInput struct {
	Type        string
	Description string
	HostelName  string
	RoomNo      string
	FloorNo     string
	PhoneNumber string

	// Optional photo evidence from the multipart form
	Photo            io.Reader
	PhotoFilename    string
	PhotoContentType string
}

// Submit classifies and persists a new complaint for the identity
// bound to email. Classification completes (or degrades to normal)
// before the row is written, so a visible complaint always carries a
// priority.
func (s *ComplaintService) Submit(ctx context.Context, email string, input *SubmitInput) (*models.Complaint, error) {
	if input.Type == "" || input.Description == "" || input.HostelName == "" || input.RoomNo == "" {
		return nil, domain.ErrInvalidInput
	}

	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}

	var photoURL string
	if input.Photo != nil {
		name := uuid.New().String() + filepath.Ext(input.PhotoFilename)
		photoURL, err = s.uploader.Upload(ctx, "complaints", name, input.PhotoContentType, input.Photo)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
	}

	priority := s.classifier.Classify(ctx, input.Description)

	complaint := &models.Complaint{
		StudentID:   student.ID,
		Type:        input.Type,
		Description: input.Description,
		HostelName:  input.HostelName,
		RoomNo:      input.RoomNo,
		FloorNo:     input.FloorNo,
		PhoneNumber: input.PhoneNumber,
		PhotoURL:    photoURL,
		Status:      models.StatusPending,
		Priority:    priority,
	}

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}

	log.Printf("✅ Complaint #%d created by %s [%s/%s, priority=%s]",
		complaint.ID, email, complaint.HostelName, complaint.RoomNo, complaint.Priority)
	return complaint, nil
}

// ListOwn returns the caller's complaints, newest first
func (s *ComplaintService) ListOwn(ctx context.Context, email string) ([]models.Complaint, error) {
	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return s.complaintRepo.ListByStudent(ctx, student.ID)
}

// ListForHostel returns the admin triage queue for a hostel
func (s *ComplaintService) ListForHostel(ctx context.Context, hostel string) ([]models.Complaint, error) {
	if hostel == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.complaintRepo.ListPendingByHostel(ctx, hostel)
}

// UpdateStatus moves a complaint to a new lifecycle state, authorized
// by hostel match. Resolving releases the assigned worker in the same
// transaction and then sends one resolution email to the owner.
// Resolved is terminal: reopening is rejected.
func (s *ComplaintService) UpdateStatus(ctx context.Context, complaintID uint, hostel, newStatus string) (*models.Complaint, error) {
	if !models.ValidStatus(newStatus) {
		return nil, domain.ErrInvalidStatus
	}

	complaint, err := s.complaintRepo.GetByIDAndHostel(ctx, complaintID, hostel)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, err
	}

	if complaint.Status == models.StatusResolved {
		return nil, domain.ErrComplaintResolved
	}

	if err := s.applyStatus(ctx, complaint, newStatus); err != nil {
		return nil, err
	}

	complaint.Status = newStatus

	if newStatus == models.StatusResolved && complaint.Student != nil {
		// Best effort: the resolution itself is already durable
		if err := s.mailer.SendResolutionNotice(ctx, complaint.Student.Email, complaint); err != nil {
			log.Printf("❌ Resolution mail for complaint #%d failed: %v", complaint.ID, err)
		}
	}

	log.Printf("✅ Complaint #%d status → %s [%s]", complaint.ID, newStatus, hostel)
	return complaint, nil
}

// applyStatus writes the transition transactionally. complaint is the
// caller's pre-loaded snapshot; the write re-checks the live row so a
// resolve landing between the read and this transaction cannot be
// overwritten (and cannot trigger a second resolution email).
func (s *ComplaintService) applyStatus(ctx context.Context, complaint *models.Complaint, newStatus string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND status <> ?", complaint.ID, models.StatusResolved).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrComplaintResolved
		}

		if newStatus == models.StatusResolved && complaint.WorkerID != nil {
			if err := tx.Model(&models.Worker{}).
				Where("id = ?", *complaint.WorkerID).
				Update("status", models.WorkerAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
