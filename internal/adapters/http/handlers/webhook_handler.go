package handlers

import (
	"log"

	"hostelgrievance/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives inbound WhatsApp messages from workers
type WebhookHandler struct {
	proofService *services.ProofService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(proofService *services.ProofService) *WebhookHandler {
	return &WebhookHandler{
		proofService: proofService,
	}
}

// Incoming handles a Twilio webhook POST. The endpoint always returns
// 200 so the provider never retries; failures only get logged.
func (h *WebhookHandler) Incoming(c *fiber.Ctx) error {
	input := &services.WorkerMediaInput{
		SenderPhone:      c.FormValue("From"),
		Caption:          c.FormValue("Body"),
		MediaURL:         c.FormValue("MediaUrl0"),
		MediaContentType: c.FormValue("MediaContentType0"),
	}
	if c.FormValue("NumMedia") == "0" {
		input.MediaURL = ""
	}

	if err := h.proofService.ReceiveWorkerMedia(c.Context(), input); err != nil {
		log.Printf("⚠️ Webhook processing failed: %v", err)
	}

	c.Set("Content-Type", "text/xml")
	return c.Status(fiber.StatusOK).SendString(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`)
}
