package services

import (
	"context"
	"io"

	"hostelgrievance/internal/adapters/persistence/models"
)

// The external collaborators below are injected into workflow services
// so tests can substitute fakes for the real transports.

// Mailer sends outbound email (OTP codes, resolution notices)
type Mailer interface {
	SendOTP(ctx context.Context, toEmail, name, otp string) error
	SendResolutionNotice(ctx context.Context, toEmail string, complaint *models.Complaint) error
	SendEscalationSummary(ctx context.Context, toEmail, hostel string, criticalOpen int64) error
}

// ChatSender sends messages over the WhatsApp transport and fetches
// inbound media with transport credentials
type ChatSender interface {
	SendAssignmentNotice(ctx context.Context, toPhone string, complaint *models.Complaint) error
	FetchMedia(ctx context.Context, mediaURL string) (io.ReadCloser, string, error)
}

// Classifier labels complaint urgency. Implementations must never
// fail a submission: any internal error degrades to PriorityNormal.
type Classifier interface {
	Classify(ctx context.Context, description string) string
}

// Uploader persists evidence bytes to the object store and returns a
// durable URL
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
}
