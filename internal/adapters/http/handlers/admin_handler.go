package handlers

import (
	"errors"
	"strconv"
	"strings"

	"hostelgrievance/internal/core/domain"
	"hostelgrievance/internal/core/services"
	"hostelgrievance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles warden/admin endpoints
type AdminHandler struct {
	adminService      *services.AdminService
	complaintService  *services.ComplaintService
	assignmentService *services.AssignmentService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminService *services.AdminService,
	complaintService *services.ComplaintService,
	assignmentService *services.AssignmentService,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		complaintService:  complaintService,
		assignmentService: assignmentService,
	}
}

// Login authenticates a warden against the seeded credentials.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req services.AdminLoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	result, err := h.adminService.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.InternalServerError(c, "Failed to process login")
	}

	return response.Success(c, "Logged in successfully", fiber.Map{
		"admin": result,
	})
}

// PendingComplaints returns the triage queue for a hostel, critical
// complaints first.
func (h *AdminHandler) PendingComplaints(c *fiber.Ctx) error {
	hostel := strings.TrimSpace(c.Query("hostel"))
	if hostel == "" {
		return response.BadRequest(c, "Hostel is required")
	}

	complaints, err := h.complaintService.ListForHostel(c.Context(), hostel)
	if err != nil {
		return response.InternalServerError(c, "Failed to load complaints")
	}

	return response.Success(c, "Complaints retrieved", fiber.Map{
		"complaints": toComplaintResponses(complaints),
		"count":      len(complaints),
	})
}

// AvailableWorkers lists workers of a trade free to take a job.
func (h *AdminHandler) AvailableWorkers(c *fiber.Ctx) error {
	hostel := strings.TrimSpace(c.Query("hostel"))
	if hostel == "" {
		return response.BadRequest(c, "Hostel is required")
	}
	workType := strings.TrimSpace(c.Query("work_type"))
	if workType == "" {
		return response.BadRequest(c, "Work type is required")
	}

	workers, err := h.assignmentService.AvailableWorkers(c.Context(), hostel, workType)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Hostel and work type are required")
		}
		return response.InternalServerError(c, "Failed to load workers")
	}

	return response.Success(c, "Workers retrieved", fiber.Map{
		"workers": workers,
		"count":   len(workers),
	})
}

// UpdateStatusRequest represents a status change request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a complaint through its lifecycle. Resolving a
// complaint frees its worker and notifies the reporter.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseComplaintID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint id")
	}
	hostel := strings.TrimSpace(c.Query("hostel"))
	if hostel == "" {
		return response.BadRequest(c, "Hostel is required")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	complaint, err := h.complaintService.UpdateStatus(c.Context(), id, hostel, strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Unknown complaint status")
		case errors.Is(err, domain.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, domain.ErrComplaintResolved):
			return response.Conflict(c, "Complaint is already resolved")
		default:
			return response.InternalServerError(c, "Failed to update complaint")
		}
	}

	return response.Success(c, "Complaint updated successfully", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

// AssignWorkerRequest represents a worker assignment request body
type AssignWorkerRequest struct {
	Worker string `json:"worker"`
}

// AssignWorker hands a complaint to a worker. The worker is claimed
// atomically, so two wardens racing for the same worker cannot both
// win.
func (h *AdminHandler) AssignWorker(c *fiber.Ctx) error {
	id, err := parseComplaintID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint id")
	}
	hostel := strings.TrimSpace(c.Query("hostel"))
	if hostel == "" {
		return response.BadRequest(c, "Hostel is required")
	}

	var req AssignWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Worker) == "" {
		return response.BadRequest(c, "Worker name is required")
	}

	complaint, err := h.assignmentService.Assign(c.Context(), id, hostel, strings.TrimSpace(req.Worker))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, domain.ErrComplaintResolved):
			return response.Conflict(c, "Complaint is already resolved")
		case errors.Is(err, domain.ErrWorkerNotFound):
			return response.NotFound(c, "Worker not found in this hostel")
		case errors.Is(err, domain.ErrWorkerConflict):
			return response.Conflict(c, "Worker is no longer available, try another worker")
		default:
			return response.InternalServerError(c, "Failed to assign worker")
		}
	}

	return response.Success(c, "Worker assigned successfully", fiber.Map{
		"complaint": complaint.ToResponse(),
	})
}

func parseComplaintID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}
