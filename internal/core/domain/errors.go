package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Identity errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrNonInstituteEmail   = errors.New("use your institute email only")
	ErrInvalidOTP          = errors.New("invalid OTP")
	ErrOTPExpired          = errors.New("OTP expired, please request a new one")
	ErrOTPAttemptsExceeded = errors.New("too many wrong attempts, please request a new OTP")
)

// Complaint errors
var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidStatus     = errors.New("invalid complaint status")
	ErrComplaintResolved = errors.New("complaint already resolved")
)

// Worker errors
var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrWorkerConflict = errors.New("worker is no longer available, try another worker")
)

// Admin errors
var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
