package models

import "gorm.io/gorm"

// Template background types
const (
	BackgroundPDF  = "PDF"
	BackgroundSVG  = "SVG"
	BackgroundPNG  = "PNG"
	BackgroundJPEG = "JPEG"
)

// CertificateTemplate represents a certificate layout with an optional background asset.
// At most one template is flagged as default at any time.
type CertificateTemplate struct {
	gorm.Model
	Name               string `json:"name" gorm:"not null"`
	Description        string `json:"description"`
	BackgroundPath     string `json:"background_path"`
	BackgroundType     string `json:"background_type"` // PDF, SVG, PNG, JPEG
	FieldConfiguration string `json:"field_configuration"`
	IsDefault          bool   `json:"is_default" gorm:"default:false"`
}
