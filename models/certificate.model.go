package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate statuses
const (
	StatusActive  = "ACTIVE"
	StatusRevoked = "REVOKED"
)

// Certificate represents an issued certificate
type Certificate struct {
	gorm.Model
	CertificateID    string     `json:"certificate_id" gorm:"uniqueIndex;not null"` // CERT-XXXX-XXXX
	RecipientName    string     `json:"recipient_name" gorm:"not null"`
	RecipientEmail   string     `json:"recipient_email" gorm:"index"`
	CourseName       string     `json:"course_name"`
	AchievementTitle string     `json:"achievement_title"`
	CompletionDate   *time.Time `json:"completion_date"`
	IssuerName       string     `json:"issuer_name"`
	InstructorName   string     `json:"instructor_name"`
	IssuedDate       time.Time  `json:"issued_date"`
	FilePath         string     `json:"file_path"`
	QRCodePath       string     `json:"qr_code_path"`
	EmailRequested   bool       `json:"email_requested" gorm:"default:false"`
	EmailSent        bool       `json:"email_sent" gorm:"default:false"`
	EmailSentDate    *time.Time `json:"email_sent_date"`
	Status           string     `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, REVOKED
	TemplateID       *uint      `json:"template_id" gorm:"index"`
}

// CertificateRequest is the transient input for issuing a single certificate.
// Batch import produces one of these per usable row.
type CertificateRequest struct {
	RecipientName    string     `json:"recipient_name"`
	RecipientEmail   string     `json:"recipient_email"`
	CourseName       string     `json:"course_name"`
	AchievementTitle string     `json:"achievement_title"`
	CompletionDate   *time.Time `json:"completion_date"`
	IssuerName       string     `json:"issuer_name"`
	InstructorName   string     `json:"instructor_name"`
	TemplateID       *uint      `json:"template_id"`
	SendEmail        bool       `json:"send_email"`
}
