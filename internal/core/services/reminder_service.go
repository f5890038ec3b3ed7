package services

import (
	"context"
	"log"
	"time"

	"hostelgrievance/internal/adapters/persistence/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService runs the daily escalation cron: each morning it
// counts unresolved critical complaints per hostel and mails that
// hostel's admin.
type ReminderService struct {
	db     *gorm.DB
	mailer Mailer
	cron   *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(db *gorm.DB, mailer Mailer) *ReminderService {
	return &ReminderService{
		db:     db,
		mailer: mailer,
		cron:   cron.New(),
	}
}

// Start schedules the daily escalation job (08:30)
func (s *ReminderService) Start() {
	_, err := s.cron.AddFunc("30 8 * * *", s.sendEscalations)
	if err != nil {
		log.Printf("❌ Failed to schedule escalation job: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily 08:30)")
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 ReminderService stopped")
}

// sendEscalations mails each hostel admin the open critical count
func (s *ReminderService) sendEscalations() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var admins []models.Admin
	if err := s.db.WithContext(ctx).Find(&admins).Error; err != nil {
		log.Printf("❌ Escalation query error: %v", err)
		return
	}

	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}

		var count int64
		err := s.db.WithContext(ctx).Model(&models.Complaint{}).
			Where("hostel_name = ? AND priority = ? AND status <> ?",
				admin.HostelName, models.PriorityCritical, models.StatusResolved).
			Count(&count).Error
		if err != nil {
			log.Printf("❌ Escalation count error for %s: %v", admin.HostelName, err)
			continue
		}
		if count == 0 {
			continue
		}

		if err := s.mailer.SendEscalationSummary(ctx, admin.Email, admin.HostelName, count); err != nil {
			log.Printf("❌ Escalation mail to %s failed: %v", admin.Email, err)
			continue
		}
		log.Printf("✅ Escalation summary sent to %s (%d critical open)", admin.Email, count)
	}
}
