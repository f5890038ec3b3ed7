package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/config"
)

// WhatsAppService sends assignment notices and fetches inbound media
// over the Twilio WhatsApp transport
type WhatsAppService struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppService creates a new WhatsApp service
func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	return &WhatsAppService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// SendAssignmentNotice pushes the work order to a worker's phone
func (s *WhatsAppService) SendAssignmentNotice(ctx context.Context, toPhone string, complaint *models.Complaint) error {
	floor := complaint.FloorNo
	if floor == "" {
		floor = "-"
	}
	phone := complaint.PhoneNumber
	if phone == "" {
		phone = "-"
	}

	body := fmt.Sprintf(
		"🔧 New work assignment #%d\n"+
			"Hostel: %s\n"+
			"Floor: %s\n"+
			"Room: %s\n"+
			"Contact: %s\n"+
			"Issue: %s\n\n"+
			"Reply with a photo when done (caption #%d).",
		complaint.ID, complaint.HostelName, floor, complaint.RoomNo,
		phone, complaint.Description, complaint.ID,
	)

	data := url.Values{}
	data.Set("From", "whatsapp:"+s.cfg.FromNumber)
	data.Set("To", "whatsapp:"+toPhone)
	data.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.APIBase, s.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp send error: %s", string(respBody))
	}

	return nil
}

// FetchMedia downloads webhook-delivered media using the transport
// credentials. The caller owns the returned reader.
func (s *WhatsAppService) FetchMedia(ctx context.Context, mediaURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", fmt.Errorf("media fetch error: %s", string(respBody))
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}
