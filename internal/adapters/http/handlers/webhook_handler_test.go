package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"
	"hostelgrievance/internal/core/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubChat struct{}

func (stubChat) SendAssignmentNotice(context.Context, string, *models.Complaint) error {
	return nil
}

func (stubChat) FetchMedia(context.Context, string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("jpeg-bytes")), "image/jpeg", nil
}

type stubUploader struct {
	count int
}

func (u *stubUploader) Upload(_ context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	io.Copy(io.Discard, r)
	u.count++
	return "https://cdn.test/" + folder + "/" + filename, nil
}

func newWebhookApp(t *testing.T) (*fiber.App, *gorm.DB, *stubUploader) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	uploader := &stubUploader{}
	proofService := services.NewProofService(
		repositories.NewComplaintRepository(db),
		repositories.NewWorkerRepository(db),
		stubChat{},
		uploader,
	)

	app := fiber.New()
	app.Post("/whatsapp/webhook", NewWebhookHandler(proofService).Incoming)
	return app, db, uploader
}

func postWebhook(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	app, _, uploader := newWebhookApp(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"empty payload", url.Values{}},
		{"text only", url.Values{
			"From":     {"whatsapp:+919800000001"},
			"Body":     {"on my way"},
			"NumMedia": {"0"},
		}},
		{"unknown sender with media", url.Values{
			"From":              {"whatsapp:+910000000000"},
			"Body":              {"#1"},
			"NumMedia":          {"1"},
			"MediaUrl0":         {"https://api.twilio.test/media/1"},
			"MediaContentType0": {"image/jpeg"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postWebhook(t, app, tt.form)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
		})
	}

	if uploader.count != 0 {
		t.Fatalf("no payload should reach storage, got %d uploads", uploader.count)
	}
}

func TestWebhookAttachesProof(t *testing.T) {
	app, db, uploader := newWebhookApp(t)

	student := &models.Student{Email: "bt21cse001@students.vnit.ac.in", Verified: true}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	worker := &models.Worker{Name: "Raju", Phone: "+919800000001", HostelName: "HB1", WorkType: "Electrical", Status: models.WorkerBusy}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	complaint := &models.Complaint{
		StudentID: student.ID, Type: "Electrical", Description: "sparking socket",
		HostelName: "HB1", RoomNo: "204", Status: models.StatusInProgress,
		Priority: models.PriorityCritical, WorkerID: &worker.ID,
	}
	if err := db.Create(complaint).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}

	resp := postWebhook(t, app, url.Values{
		"From":              {"whatsapp:+919800000001"},
		"Body":              {"#1 done"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.test/media/1"},
		"MediaContentType0": {"image/jpeg"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var row models.Complaint
	if err := db.First(&row, complaint.ID).Error; err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	if row.WorkerProof == "" {
		t.Fatal("proof URL must be attached")
	}
	if row.Status != models.StatusInProgress {
		t.Fatalf("status must not change, got %q", row.Status)
	}
	if uploader.count != 1 {
		t.Fatalf("expected one upload, got %d", uploader.count)
	}
}
