package services

import (
	"context"
	"errors"
	"log"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/core/domain"
	"hostelgrievance/internal/pkg/password"

	"gorm.io/gorm"
)

// AdminService handles hostel administrator login. Admins do not get
// a session cookie: the client keeps the returned hostel locally and
// admin queries are hostel-scoped.
type AdminService struct {
	adminRepo repositories.AdminRepository
}

// NewAdminService creates a new admin service
func NewAdminService(adminRepo repositories.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// AdminLoginInput represents admin login credentials
type AdminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginResult is returned to the admin client
type AdminLoginResult struct {
	Username   string `json:"username"`
	HostelName string `json:"hostel"`
}

// Login checks admin credentials against the seeded accounts
func (s *AdminService) Login(ctx context.Context, input *AdminLoginInput) (*AdminLoginResult, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, admin.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("✅ Admin logged in: %s (%s)", admin.Username, admin.HostelName)

	return &AdminLoginResult{
		Username:   admin.Username,
		HostelName: admin.HostelName,
	}, nil
}

// ListAll returns all admin accounts (used by the escalation cron)
func (s *AdminService) ListAll(ctx context.Context) ([]models.Admin, error) {
	return s.adminRepo.ListAll(ctx)
}
