package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			SessionDays: 7,
		},
	}
}

// sentMail records one outbound message from the fake mailer
type sentMail struct {
	To  string
	OTP string
}

// fakeMailer records outbound mail instead of talking SMTP
type fakeMailer struct {
	otps        []sentMail
	resolutions []sentMail
	escalations []sentMail
	failOTP     bool
}

func (m *fakeMailer) SendOTP(_ context.Context, toEmail, _, otp string) error {
	if m.failOTP {
		return errors.New("smtp unavailable")
	}
	m.otps = append(m.otps, sentMail{To: toEmail, OTP: otp})
	return nil
}

func (m *fakeMailer) SendResolutionNotice(_ context.Context, toEmail string, _ *models.Complaint) error {
	m.resolutions = append(m.resolutions, sentMail{To: toEmail})
	return nil
}

func (m *fakeMailer) SendEscalationSummary(_ context.Context, toEmail, _ string, _ int64) error {
	m.escalations = append(m.escalations, sentMail{To: toEmail})
	return nil
}

// fakeChat records assignment notices and serves canned media bytes
type fakeChat struct {
	notices    []string
	media      string
	mediaType  string
	failNotice bool
}

func (c *fakeChat) SendAssignmentNotice(_ context.Context, toPhone string, _ *models.Complaint) error {
	if c.failNotice {
		return errors.New("provider down")
	}
	c.notices = append(c.notices, toPhone)
	return nil
}

func (c *fakeChat) FetchMedia(_ context.Context, _ string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader(c.media)), c.mediaType, nil
}

// fakeClassifier returns a fixed label
type fakeClassifier struct {
	label string
}

func (c *fakeClassifier) Classify(context.Context, string) string {
	if c.label == "" {
		return models.PriorityNormal
	}
	return c.label
}

// storedUpload records one object handed to the fake uploader
type storedUpload struct {
	Folder      string
	Filename    string
	ContentType string
	Bytes       []byte
}

// fakeUploader captures uploads and hands back deterministic URLs
type fakeUploader struct {
	uploads []storedUpload
	fail    bool
}

func (u *fakeUploader) Upload(_ context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	if u.fail {
		return "", errors.New("storage unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.uploads = append(u.uploads, storedUpload{
		Folder:      folder,
		Filename:    filename,
		ContentType: contentType,
		Bytes:       b,
	})
	return "https://cdn.test/" + folder + "/" + filename, nil
}
