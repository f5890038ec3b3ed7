package config

import (
	"log"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdmins(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedWorkers(); err != nil {
		log.Printf("⚠️ Worker seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdmins seeds one admin account per hostel.
// Default passwords are for development only; rotate them before production.
func (s *Seeder) seedAdmins() error {
	admins := []struct {
		Username string
		Password string
		Hostel   string
		Email    string
	}{
		{"admin_hb1", "hb1admin123", "HB1", "warden.hb1@vnit.ac.in"},
		{"admin_hb2", "hb2admin123", "HB2", "warden.hb2@vnit.ac.in"},
		{"admin_hb3", "hb3admin123", "HB3", "warden.hb3@vnit.ac.in"},
		{"admin_hb4", "hb4admin123", "HB4", "warden.hb4@vnit.ac.in"},
	}

	for _, a := range admins {
		var count int64
		s.db.Model(&models.Admin{}).Where("username = ?", a.Username).Count(&count)
		if count > 0 {
			continue
		}

		hashed, err := password.Hash(a.Password)
		if err != nil {
			return err
		}

		admin := &models.Admin{
			Username:   a.Username,
			Password:   hashed,
			HostelName: a.Hostel,
			Email:      a.Email,
		}
		if err := s.db.Create(admin).Error; err != nil {
			return err
		}
		log.Printf("✅ Admin created: %s (%s)", admin.Username, admin.HostelName)
	}

	return nil
}

// seedWorkers seeds the maintenance roster. Workers are administrative
// data and have no self-service flow, so they are provisioned here.
func (s *Seeder) seedWorkers() error {
	var count int64
	s.db.Model(&models.Worker{}).Count(&count)
	if count > 0 {
		return nil
	}

	workers := []models.Worker{
		{Name: "Raju", Phone: "+919800000001", HostelName: "HB1", WorkType: "Electrical"},
		{Name: "Mahesh", Phone: "+919800000002", HostelName: "HB1", WorkType: "Plumbing"},
		{Name: "Suresh", Phone: "+919800000003", HostelName: "HB1", WorkType: "Carpentry"},
		{Name: "Dinesh", Phone: "+919800000004", HostelName: "HB2", WorkType: "Electrical"},
		{Name: "Ramesh", Phone: "+919800000005", HostelName: "HB2", WorkType: "Plumbing"},
		{Name: "Ganesh", Phone: "+919800000006", HostelName: "HB3", WorkType: "Electrical"},
		{Name: "Naresh", Phone: "+919800000007", HostelName: "HB3", WorkType: "Cleaning"},
		{Name: "Rajesh", Phone: "+919800000008", HostelName: "HB4", WorkType: "Plumbing"},
	}

	for i := range workers {
		workers[i].Status = models.WorkerAvailable
	}

	if err := s.db.Create(&workers).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d maintenance workers", len(workers))
	return nil
}
