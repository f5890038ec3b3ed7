package repositories

import (
	"context"
	"errors"

	"hostelgrievance/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// complaintRepository implements ComplaintRepository interface
type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

// Create creates a new complaint
func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// GetByID gets a complaint by ID
func (r *complaintRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).Preload("Student").Preload("Worker").
		Where("id = ?", id).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetByIDAndHostel gets a complaint scoped to a hostel. The hostel
// filter lives in the query so callers cannot learn whether a
// complaint exists in another hostel.
func (r *complaintRepository) GetByIDAndHostel(ctx context.Context, id uint, hostel string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).Preload("Student").Preload("Worker").
		Where("id = ? AND hostel_name = ?", id, hostel).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListByStudent returns all complaints owned by a student, newest first
func (r *complaintRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).Preload("Worker").
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&complaints).Error
	return complaints, err
}

// ListPendingByHostel returns the admin triage queue: open complaints
// for a hostel, critical first, then newest first. The id tiebreak
// makes the ordering total.
func (r *complaintRepository) ListPendingByHostel(ctx context.Context, hostel string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).Preload("Student").Preload("Worker").
		Where("hostel_name = ? AND status IN ?", hostel, []string{models.StatusPending, models.StatusInProgress}).
		Order("CASE WHEN priority = 'critical' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Order("id DESC").
		Find(&complaints).Error
	return complaints, err
}

// LatestAssignedToWorker returns the worker's most recent assignment,
// or nil when the worker holds none.
func (r *complaintRepository) LatestAssignedToWorker(ctx context.Context, workerID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC, id DESC").
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &complaint, nil
}

// SetWorkerProof attaches a proof-of-completion URL to a complaint
func (r *complaintRepository) SetWorkerProof(ctx context.Context, id uint, proofURL string) error {
	return r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("worker_proof", proofURL).Error
}
