package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/config"

	"github.com/ollama/ollama/api"
)

const classifyPrompt = `You are a maintenance-complaint triage assistant for a student hostel.
Classify the urgency of the complaint below. Answer with exactly one word:
"critical" if the issue risks safety, fire, electric shock, flooding or loss of
essential services, otherwise "normal".

Complaint: %s

Answer:`

// ClassifierService adapts complaint text to the external LLM call.
// Unavailability never blocks a submission: every failure path
// degrades to PriorityNormal.
type ClassifierService struct {
	client *api.Client
	cfg    config.ClassifierConfig
}

// NewClassifierService creates a new classifier gateway
func NewClassifierService(cfg config.ClassifierConfig) (*ClassifierService, error) {
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier host: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &ClassifierService{
		client: api.NewClient(base, httpClient),
		cfg:    cfg,
	}, nil
}

// Classify labels a description as normal or critical. Single attempt,
// bounded by the configured timeout; errors are logged and swallowed.
func (s *ClassifierService) Classify(ctx context.Context, description string) string {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  s.cfg.Model,
		Prompt: fmt.Sprintf(classifyPrompt, description),
		Stream: &stream,
	}

	var out strings.Builder
	err := s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		log.Printf("⚠️ Classifier call failed, defaulting to normal: %v", err)
		return models.PriorityNormal
	}

	return NormalizePriority(out.String())
}

// NormalizePriority maps arbitrary model output onto the closed label
// set. Anything that does not clearly contain the critical token is
// normal, so the classifier can never spuriously escalate.
func NormalizePriority(raw string) string {
	if strings.Contains(strings.ToLower(raw), models.PriorityCritical) {
		return models.PriorityCritical
	}
	return models.PriorityNormal
}
