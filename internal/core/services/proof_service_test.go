package services

import (
	"context"
	"testing"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

func TestParseCaptionComplaintID(t *testing.T) {
	tests := []struct {
		caption string
		want    uint
		ok      bool
	}{
		{"#42", 42, true},
		{"#42 done", 42, true},
		{"fixed complaint 7", 7, true},
		{"done", 0, false},
		{"", 0, false},
		{"#0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got, ok := ParseCaptionComplaintID(tt.caption)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseCaptionComplaintID(%q) = (%d, %v), want (%d, %v)", tt.caption, got, ok, tt.want, tt.ok)
			}
		})
	}
}

type proofFixture struct {
	svc      *ProofService
	db       *gorm.DB
	chat     *fakeChat
	uploader *fakeUploader
	student  *models.Student
	worker   *models.Worker
}

func newProofFixture(t *testing.T) *proofFixture {
	t.Helper()
	db := newTestDB(t)
	chat := &fakeChat{media: "jpeg-bytes", mediaType: "image/jpeg"}
	uploader := &fakeUploader{}

	student := &models.Student{Email: testEmail, Name: "Asha", Verified: true}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	worker := &models.Worker{Name: "Raju", Phone: "+919800000001", HostelName: "HB1", WorkType: "Electrical", Status: models.WorkerBusy}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}

	svc := NewProofService(
		repositories.NewComplaintRepository(db),
		repositories.NewWorkerRepository(db),
		chat,
		uploader,
	)
	return &proofFixture{svc: svc, db: db, chat: chat, uploader: uploader, student: student, worker: worker}
}

func (fx *proofFixture) seedAssigned(t *testing.T) *models.Complaint {
	t.Helper()
	c := &models.Complaint{
		StudentID: fx.student.ID, Type: "Electrical", Description: "sparking socket",
		HostelName: "HB1", RoomNo: "204", Status: models.StatusInProgress,
		Priority: models.PriorityCritical, WorkerID: &fx.worker.ID,
	}
	if err := fx.db.Create(c).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}
	return c
}

func TestReceiveWithoutMediaIsNoOp(t *testing.T) {
	fx := newProofFixture(t)
	fx.seedAssigned(t)

	err := fx.svc.ReceiveWorkerMedia(context.Background(), &WorkerMediaInput{
		SenderPhone: "whatsapp:+919800000001",
		Caption:     "on my way",
	})
	if err != nil {
		t.Fatalf("text-only message must be ignored cleanly: %v", err)
	}
	if len(fx.uploader.uploads) != 0 {
		t.Fatal("nothing may be uploaded for a text-only message")
	}
}

func TestReceiveFromUnknownSenderIsNoOp(t *testing.T) {
	fx := newProofFixture(t)
	fx.seedAssigned(t)

	err := fx.svc.ReceiveWorkerMedia(context.Background(), &WorkerMediaInput{
		SenderPhone: "whatsapp:+910000000000",
		MediaURL:    "https://api.twilio.test/media/1",
		Caption:     "#1",
	})
	if err != nil {
		t.Fatalf("unknown sender must be ignored cleanly: %v", err)
	}
	if len(fx.uploader.uploads) != 0 {
		t.Fatal("nothing may be uploaded for an unknown sender")
	}
}

func TestReceiveCaptionTargetsComplaint(t *testing.T) {
	fx := newProofFixture(t)
	older := fx.seedAssigned(t)
	fx.seedAssigned(t) // newer assignment, must NOT win over the caption

	err := fx.svc.ReceiveWorkerMedia(context.Background(), &WorkerMediaInput{
		SenderPhone:      "whatsapp:+919800000001",
		MediaURL:         "https://api.twilio.test/media/1",
		MediaContentType: "image/jpeg",
		Caption:          "#1 replaced the socket",
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	var row models.Complaint
	if err := fx.db.First(&row, older.ID).Error; err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	if row.WorkerProof == "" {
		t.Fatal("proof URL must be attached to the captioned complaint")
	}
	if row.Status != models.StatusInProgress {
		t.Fatalf("proof intake must not change status, got %q", row.Status)
	}

	if len(fx.uploader.uploads) != 1 || fx.uploader.uploads[0].Folder != "proofs" {
		t.Fatalf("expected one upload into proofs, got %+v", fx.uploader.uploads)
	}
}

func TestReceiveFallsBackToLatestAssignment(t *testing.T) {
	fx := newProofFixture(t)
	fx.seedAssigned(t)
	latest := fx.seedAssigned(t)

	err := fx.svc.ReceiveWorkerMedia(context.Background(), &WorkerMediaInput{
		SenderPhone:      "whatsapp:+919800000001",
		MediaURL:         "https://api.twilio.test/media/1",
		MediaContentType: "image/jpeg",
		Caption:          "all done sir",
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	var row models.Complaint
	if err := fx.db.First(&row, latest.ID).Error; err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	if row.WorkerProof == "" {
		t.Fatal("proof must land on the latest assignment")
	}
}

func TestReceiveWithNoAssignmentIsNoOp(t *testing.T) {
	fx := newProofFixture(t)

	err := fx.svc.ReceiveWorkerMedia(context.Background(), &WorkerMediaInput{
		SenderPhone: "whatsapp:+919800000001",
		MediaURL:    "https://api.twilio.test/media/1",
		Caption:     "done",
	})
	if err != nil {
		t.Fatalf("unassigned worker must be ignored cleanly: %v", err)
	}
	if len(fx.uploader.uploads) != 0 {
		t.Fatal("nothing may be uploaded without an assignment")
	}
}
