package services

import (
	"context"
	"errors"
	"log"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/core/domain"

	"gorm.io/gorm"
)

// AssignmentService binds workers to complaints
type AssignmentService struct {
	db            *gorm.DB
	complaintRepo repositories.ComplaintRepository
	workerRepo    repositories.WorkerRepository
	chat          ChatSender
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	db *gorm.DB,
	complaintRepo repositories.ComplaintRepository,
	workerRepo repositories.WorkerRepository,
	chat ChatSender,
) *AssignmentService {
	return &AssignmentService{
		db:            db,
		complaintRepo: complaintRepo,
		workerRepo:    workerRepo,
		chat:          chat,
	}
}

// AvailableWorkers returns free workers for a hostel and work type
func (s *AssignmentService) AvailableWorkers(ctx context.Context, hostel, workType string) ([]models.Worker, error) {
	if hostel == "" || workType == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.workerRepo.ListAvailable(ctx, hostel, workType)
}

// Assign atomically binds workerName to the complaint: the worker's
// availability flips Available→Busy through a guarded update and the
// complaint moves to In Progress, or neither happens. Assigning over
// an existing assignment releases the replaced worker in the same
// transaction. Two concurrent assignments on the same worker cannot
// both succeed; the loser gets ErrWorkerConflict. The WhatsApp notice
// goes out only after commit and never rolls the assignment back.
func (s *AssignmentService) Assign(ctx context.Context, complaintID uint, hostel, workerName string) (*models.Complaint, error) {
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

	worker, err := s.workerRepo.GetByNameAndHostel(ctx, workerName, hostel)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}

	if err := s.claim(ctx, complaint, worker); err != nil {
		return nil, err
	}

	complaint.WorkerID = &worker.ID
	complaint.Worker = worker
	complaint.Status = models.StatusInProgress

	// Best effort: the assignment is the authoritative action
	if err := s.chat.SendAssignmentNotice(ctx, worker.Phone, complaint); err != nil {
		log.Printf("❌ Assignment notice to %s (complaint #%d) failed: %v", worker.Phone, complaint.ID, err)
	}

	log.Printf("✅ Complaint #%d assigned to %s [%s]", complaint.ID, worker.Name, hostel)
	return complaint, nil
}

// claim applies the assignment transactionally. complaint and worker
// are the caller's pre-loaded snapshots; every write re-checks the
// live row so a concurrent assignment or resolve cannot be clobbered.
func (s *AssignmentService) claim(ctx context.Context, complaint *models.Complaint, worker *models.Worker) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-set on the availability flag. Zero rows means a
		// concurrent assignment won the race (or the worker already
		// holds this complaint).
		res := tx.Model(&models.Worker{}).
			Where("id = ? AND status = ?", worker.ID, models.WorkerAvailable).
			Update("status", models.WorkerBusy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrWorkerConflict
		}

		// Reassignment frees the worker being replaced, otherwise they
		// stay Busy with no complaint referencing them.
		if complaint.WorkerID != nil && *complaint.WorkerID != worker.ID {
			if err := tx.Model(&models.Worker{}).
				Where("id = ?", *complaint.WorkerID).
				Update("status", models.WorkerAvailable).Error; err != nil {
				return err
			}
		}

		// Guarded like the worker claim: a resolve landing between the
		// caller's read and this write must not be reopened.
		res = tx.Model(&models.Complaint{}).
			Where("id = ? AND status <> ?", complaint.ID, models.StatusResolved).
			Updates(map[string]interface{}{
				"worker_id": worker.ID,
				"status":    models.StatusInProgress,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrComplaintResolved
		}
		return nil
	})
}
