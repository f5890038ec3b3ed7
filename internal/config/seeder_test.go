package config

import (
	"testing"

	"hostelgrievance/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeederIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	seeder := NewSeeder(db)
	for i := 0; i < 2; i++ {
		if err := seeder.Run(); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var admins, workers int64
	db.Model(&models.Admin{}).Count(&admins)
	db.Model(&models.Worker{}).Count(&workers)

	if admins != 4 {
		t.Fatalf("expected 4 admin accounts, got %d", admins)
	}
	if workers != 8 {
		t.Fatalf("expected 8 workers, got %d", workers)
	}

	var admin models.Admin
	if err := db.Where("username = ?", "admin_hb1").First(&admin).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if admin.HostelName != "HB1" {
		t.Fatalf("unexpected hostel: %q", admin.HostelName)
	}
	if admin.Password == "hb1admin123" {
		t.Fatal("seeded password must be stored hashed")
	}
}
