package repositories

import (
	"context"

	"hostelgrievance/internal/adapters/persistence/models"
)

// StudentRepository defines the identity store interface
type StudentRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	UpsertOTP(ctx context.Context, email, name, otp string) error
	RecordFailedAttempt(ctx context.Context, id uint) error
	MarkVerified(ctx context.Context, id uint) error
}

// ComplaintRepository defines the complaint store interface
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	GetByIDAndHostel(ctx context.Context, id uint, hostel string) (*models.Complaint, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Complaint, error)
	ListPendingByHostel(ctx context.Context, hostel string) ([]models.Complaint, error)
	LatestAssignedToWorker(ctx context.Context, workerID uint) (*models.Complaint, error)
	SetWorkerProof(ctx context.Context, id uint, proofURL string) error
}

// WorkerRepository defines the worker registry interface
type WorkerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Worker, error)
	GetByNameAndHostel(ctx context.Context, name, hostel string) (*models.Worker, error)
	GetByPhone(ctx context.Context, phone string) (*models.Worker, error)
	ListAvailable(ctx context.Context, hostel, workType string) ([]models.Worker, error)
}

// AdminRepository defines the admin account interface
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	ListAll(ctx context.Context) ([]models.Admin, error)
}
