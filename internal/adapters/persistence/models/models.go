package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity & Auth Tables
// ============================================================

// Student represents the students table (identity store).
// OTP holds the single active one-time code; it is cleared on
// successful verification so a code can never be replayed.
type Student struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name        string     `gorm:"size:100" json:"name"`
	OTP         *string    `gorm:"size:10" json:"-"`
	OTPIssuedAt *time.Time `json:"-"`
	OTPAttempts int        `gorm:"default:0" json:"-"`
	Verified    bool       `gorm:"default:false" json:"verified"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// StudentResponse DTO
type StudentResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Student) ToResponse() *StudentResponse {
	return &StudentResponse{
		Email: s.Email,
		Name:  s.Name,
	}
}

// Admin represents hostel administrator accounts (seeded, one per hostel).
type Admin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	HostelName string    `gorm:"size:20;not null" json:"hostel_name"`
	Email      string    `gorm:"size:100" json:"email"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// ============================================================
// Complaint Tables
// ============================================================

// Complaint statuses
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Complaint priorities (assigned once, at creation)
const (
	PriorityNormal   = "normal"
	PriorityCritical = "critical"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

// Complaint represents the complaints table.
type Complaint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;index" json:"student_id"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	HostelName  string    `gorm:"size:20;not null;index" json:"hostel_name"`
	RoomNo      string    `gorm:"size:20;not null" json:"room_no"`
	FloorNo     string    `gorm:"size:20" json:"floor_no"`
	PhoneNumber string    `gorm:"size:20" json:"phone_number"`
	PhotoURL    string    `gorm:"size:500" json:"photo_url"`
	Status      string    `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Priority    string    `gorm:"size:10;not null;default:'normal'" json:"priority"`
	WorkerID    *uint     `gorm:"index" json:"worker_id"`
	WorkerProof string    `gorm:"size:500" json:"worker_proof"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Worker  *Worker  `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintResponse DTO (admin queue rows carry reporter info)
type ComplaintResponse struct {
	ID           uint      `json:"id"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	HostelName   string    `json:"hostel_name"`
	RoomNo       string    `json:"room_no"`
	FloorNo      string    `json:"floor_no,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	WorkerName   string    `json:"worker_name,omitempty"`
	WorkerProof  string    `json:"worker_proof,omitempty"`
	ReporterName string    `json:"reporter_name,omitempty"`
	ReporterMail string    `json:"reporter_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Complaint) ToResponse() *ComplaintResponse {
	resp := &ComplaintResponse{
		ID:          c.ID,
		Type:        c.Type,
		Description: c.Description,
		HostelName:  c.HostelName,
		RoomNo:      c.RoomNo,
		FloorNo:     c.FloorNo,
		PhoneNumber: c.PhoneNumber,
		PhotoURL:    c.PhotoURL,
		Status:      c.Status,
		Priority:    c.Priority,
		WorkerProof: c.WorkerProof,
		CreatedAt:   c.CreatedAt,
	}

	if c.Student != nil {
		resp.ReporterName = c.Student.Name
		resp.ReporterMail = c.Student.Email
	}
	if c.Worker != nil {
		resp.WorkerName = c.Worker.Name
	}

	return resp
}

// ============================================================
// Worker Table
// ============================================================

// Worker availability
const (
	WorkerAvailable = "Available"
	WorkerBusy      = "Busy"
)

// Worker represents maintenance staff, provisioned by the seeder.
// Status is Busy exactly while an unresolved assignment is held.
type Worker struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Phone      string    `gorm:"size:20;not null;index" json:"phone"`
	HostelName string    `gorm:"size:20;not null;index" json:"hostel_name"`
	WorkType   string    `gorm:"size:50;not null" json:"work_type"`
	Status     string    `gorm:"size:20;not null;default:'Available'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Worker) TableName() string {
	return "workers"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Student{},
		&Admin{},
		&Worker{},
		&Complaint{},
	)
}
