package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/config"
)

const mailDialTimeout = 10 * time.Second

// MailerService sends portal email over SMTP
type MailerService struct {
	cfg config.MailConfig
}

// NewMailerService creates a new mailer service
func NewMailerService(cfg config.MailConfig) *MailerService {
	return &MailerService{cfg: cfg}
}

// SendOTP mails a one-time code to a student
func (s *MailerService) SendOTP(ctx context.Context, toEmail, name, otp string) error {
	subject := "Your OTP for Hostel Grievance Portal"
	body := fmt.Sprintf("Your OTP is %s. It will expire in 10 minutes.", otp)
	return s.send(ctx, toEmail, subject, body)
}

// SendResolutionNotice mails the owning student when their complaint
// is resolved
func (s *MailerService) SendResolutionNotice(ctx context.Context, toEmail string, complaint *models.Complaint) error {
	subject := fmt.Sprintf("Complaint #%d resolved", complaint.ID)
	body := fmt.Sprintf(
		"Your complaint has been resolved.\n\n"+
			"Complaint ID: %d\n"+
			"Category: %s\n"+
			"Description: %s\n"+
			"Hostel: %s\n"+
			"Room: %s\n\n"+
			"Hostel Grievance Portal",
		complaint.ID, complaint.Type, complaint.Description,
		complaint.HostelName, complaint.RoomNo,
	)
	return s.send(ctx, toEmail, subject, body)
}

// SendEscalationSummary mails a hostel admin the daily count of open
// critical complaints
func (s *MailerService) SendEscalationSummary(ctx context.Context, toEmail, hostel string, criticalOpen int64) error {
	subject := fmt.Sprintf("[%s] %d critical complaints still open", hostel, criticalOpen)
	body := fmt.Sprintf(
		"Hostel %s has %d unresolved critical complaints.\n"+
			"Please review the pending queue.\n\n"+
			"Hostel Grievance Portal",
		hostel, criticalOpen,
	)
	return s.send(ctx, toEmail, subject, body)
}

// send delivers one message over SMTP with STARTTLS. The dial is
// bounded so a slow mail relay never hangs the triggering request.
func (s *MailerService) send(ctx context.Context, to, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: \"Hostel Grievance System\" <%s>\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: mailDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
