package handlers

import (
	"errors"

	"hostelgrievance/internal/adapters/http/middleware"
	"hostelgrievance/internal/config"
	"hostelgrievance/internal/core/domain"
	"hostelgrievance/internal/core/services"
	"hostelgrievance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles student authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Login starts (or completes) a student session. A verified email is
// logged in straight away; anyone else gets a one-time code by mail.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.RequestAccessInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	result, err := h.authService.RequestAccess(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNonInstituteEmail):
			return response.BadRequest(c, "Only institute student emails are allowed")
		default:
			return response.InternalServerError(c, "Failed to process login")
		}
	}

	if result.CodeSent {
		return response.Success(c, "OTP sent to your email", fiber.Map{
			"otp_sent": true,
		})
	}

	middleware.SetSessionCookie(c, h.cfg, result.Token)
	return response.Success(c, "Logged in successfully", fiber.Map{
		"student": result.Student.ToResponse(),
	})
}

// VerifyOTP completes registration by checking the one-time code.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req services.ConfirmAccessInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.OTP == "" {
		return response.BadRequest(c, "OTP is required")
	}

	token, student, err := h.authService.ConfirmAccess(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStudentNotFound):
			return response.NotFound(c, "No pending verification for this email")
		case errors.Is(err, domain.ErrOTPExpired):
			return response.Unauthorized(c, "OTP has expired, please request a new one")
		case errors.Is(err, domain.ErrOTPAttemptsExceeded):
			return response.Unauthorized(c, "Too many wrong attempts, please request a new OTP")
		case errors.Is(err, domain.ErrInvalidOTP):
			return response.Unauthorized(c, "Invalid OTP")
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	middleware.SetSessionCookie(c, h.cfg, token)
	return response.Success(c, "Email verified successfully", fiber.Map{
		"student": student.ToResponse(),
	})
}

// Me returns the authenticated student's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	email := middleware.StudentEmail(c)

	student, err := h.authService.CurrentStudent(c.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			middleware.ClearSessionCookie(c, h.cfg)
			return response.Forbidden(c, "Session is no longer valid")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, "Profile retrieved", fiber.Map{
		"student": student.ToResponse(),
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, h.cfg)
	return response.Success(c, "Logged out successfully", nil)
}
