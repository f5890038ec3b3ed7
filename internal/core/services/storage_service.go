package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"hostelgrievance/internal/config"
)

// StorageService uploads evidence photos to the object store and
// returns durable URLs. Student evidence and worker proofs live in
// separate folders.
type StorageService struct {
	cfg    config.StorageConfig
	client *http.Client
}

// NewStorageService creates a new storage service
func NewStorageService(cfg config.StorageConfig) *StorageService {
	return &StorageService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// uploadResponse is the store's reply to a successful upload
type uploadResponse struct {
	URL string `json:"url"`
}

// Upload streams one object to the store under folder/filename
func (s *StorageService) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("folder", folder); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.UploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("storage upload error: %s", string(body))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("storage upload returned no url")
	}

	return parsed.URL, nil
}
