package repositories

import (
	"context"

	"hostelgrievance/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// workerRepository implements WorkerRepository interface
type workerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

// GetByID gets a worker by ID
func (r *workerRepository) GetByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetByNameAndHostel gets a worker by name within a hostel
func (r *workerRepository) GetByNameAndHostel(ctx context.Context, name, hostel string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).Where("name = ? AND hostel_name = ?", name, hostel).First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetByPhone gets a worker by phone number (webhook sender resolution)
func (r *workerRepository) GetByPhone(ctx context.Context, phone string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// ListAvailable returns available workers for a hostel and work type,
// ordered by name
func (r *workerRepository) ListAvailable(ctx context.Context, hostel, workType string) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Where("hostel_name = ? AND work_type = ? AND status = ?", hostel, workType, models.WorkerAvailable).
		Order("name ASC").
		Find(&workers).Error
	return workers, err
}
