package handlers

import (
	"errors"
	"strings"

	"hostelgrievance/internal/adapters/http/middleware"
	"hostelgrievance/internal/adapters/persistence/models"
	"hostelgrievance/internal/core/domain"
	"hostelgrievance/internal/core/services"
	"hostelgrievance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplaintHandler handles student complaint endpoints
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// Submit files a new complaint from a multipart form. The photo part
// is optional.
func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	email := middleware.StudentEmail(c)

	input := &services.SubmitInput{
		Type:        strings.TrimSpace(c.FormValue("type")),
		Description: strings.TrimSpace(c.FormValue("description")),
		HostelName:  strings.TrimSpace(c.FormValue("hostel_name")),
		RoomNo:      strings.TrimSpace(c.FormValue("room_no")),
		FloorNo:     strings.TrimSpace(c.FormValue("floor_no")),
		PhoneNumber: strings.TrimSpace(c.FormValue("phone_number")),
	}

	if file, err := c.FormFile("photo"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return response.BadRequest(c, "Unreadable photo upload")
		}
		defer f.Close()
		input.Photo = f
		input.PhotoFilename = file.Filename
		input.PhotoContentType = file.Header.Get("Content-Type")
	}

	complaint, err := h.complaintService.Submit(c.Context(), email, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Type, description, hostel and room are required")
		case errors.Is(err, domain.ErrStudentNotFound):
			return response.Forbidden(c, "Session is no longer valid")
		default:
			return response.InternalServerError(c, "Failed to submit complaint")
		}
	}

	return response.Created(c, "Complaint submitted successfully", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// ListOwn returns the authenticated student's complaints, newest first.
func (h *ComplaintHandler) ListOwn(c *fiber.Ctx) error {
	email := middleware.StudentEmail(c)

	complaints, err := h.complaintService.ListOwn(c.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return response.Forbidden(c, "Session is no longer valid")
		}
		return response.InternalServerError(c, "Failed to load complaints")
	}

	return response.Success(c, "Complaints retrieved", fiber.Map{
		"complaints": toComplaintResponses(complaints),
		"count":      len(complaints),
	})
}

func toComplaintResponses(complaints []models.Complaint) []*models.ComplaintResponse {
	out := make([]*models.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, complaints[i].ToResponse())
	}
	return out
}
