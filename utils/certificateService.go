package utils

import (
	"certgen/database"
	"certgen/models"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// sendCertificateMail is swappable so tests can stub SMTP delivery.
var sendCertificateMail = SendCertificateEmail

// GenerateCertificate runs the full issuance workflow for one request:
// template resolution, entity build, ID allocation, QR + PDF rendering,
// persistence, then fire-and-forget email delivery when requested. The call
// returns once the record is durable; email_sent is updated out-of-band.
func GenerateCertificate(request models.CertificateRequest) (*models.Certificate, error) {
	db := database.Database.Db
	log.Printf("Generating certificate for %s", request.RecipientName)

	template := resolveTemplate(db, request.TemplateID)

	var cert *models.Certificate
	// A duplicate-key error on save means another issuance won the race for the
	// same candidate ID; re-allocate and re-render under a fresh one.
	for attempt := 0; ; attempt++ {
		cert = buildCertificate(request, template)

		certificateID, err := GenerateUniqueCertificateID(func(id string) (bool, error) {
			var count int64
			if err := db.Model(&models.Certificate{}).Where("certificate_id = ?", id).Count(&count).Error; err != nil {
				return false, err
			}
			return count > 0, nil
		})
		if err != nil {
			return nil, err
		}
		cert.CertificateID = certificateID

		// QR code first; the document embeds it only when generation succeeded
		cert.QRCodePath = GenerateQRCode(certificateID)

		filePath, err := GenerateCertificatePDF(cert, template)
		if err != nil {
			return nil, err
		}
		cert.FilePath = filePath

		err = db.Create(cert).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 2 {
			log.Printf("Certificate ID %s collided on save, retrying allocation", certificateID)
			continue
		}
		return nil, fmt.Errorf("failed to save certificate: %w", err)
	}

	// Send email if requested
	if request.SendEmail && request.RecipientEmail != "" {
		go deliverCertificateEmail(cert.ID)
	}

	log.Printf("Certificate generated successfully: %s", cert.CertificateID)
	return cert, nil
}

// GenerateBatchCertificates issues certificates for each request in order.
// A failed request is logged and dropped; the batch itself never fails.
func GenerateBatchCertificates(requests []models.CertificateRequest) []*models.Certificate {
	var issued []*models.Certificate
	for _, request := range requests {
		cert, err := GenerateCertificate(request)
		if err != nil {
			log.Printf("Failed to generate certificate for %s: %v", request.RecipientName, err)
			continue
		}
		issued = append(issued, cert)
	}
	return issued
}

// VerifyCertificate returns the certificate only while it is ACTIVE. A revoked
// certificate is indistinguishable from one that was never issued.
func VerifyCertificate(certificateID string) (*models.Certificate, bool) {
	var cert models.Certificate
	err := database.Database.Db.
		Where("certificate_id = ? AND status = ?", certificateID, models.StatusActive).
		First(&cert).Error
	if err != nil {
		return nil, false
	}
	return &cert, true
}

// RevokeCertificate flips the certificate to REVOKED. Unknown IDs are a no-op.
func RevokeCertificate(certificateID string) {
	db := database.Database.Db
	var cert models.Certificate
	if err := db.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		return
	}
	cert.Status = models.StatusRevoked
	if err := db.Save(&cert).Error; err != nil {
		log.Printf("Failed to revoke certificate %s: %v", certificateID, err)
		return
	}
	log.Printf("Certificate revoked: %s", certificateID)
}

// RetryPendingEmails re-attempts delivery for certificates that requested
// email but were never sent. Used by the retry scheduler.
func RetryPendingEmails(limit int) {
	db := database.Database.Db
	var pending []models.Certificate
	err := db.Where("email_requested = ? AND email_sent = ? AND recipient_email <> ?", true, false, "").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		log.Printf("Failed to load pending certificate emails: %v", err)
		return
	}

	for _, cert := range pending {
		deliverCertificateEmail(cert.ID)
	}
}

// deliverCertificateEmail sends the certificate mail and records success.
// Failures are logged only; they never roll back issuance.
func deliverCertificateEmail(id uint) {
	db := database.Database.Db

	var cert models.Certificate
	if err := db.First(&cert, id).Error; err != nil {
		log.Printf("Could not load certificate %d for email delivery: %v", id, err)
		return
	}

	if err := sendCertificateMail(&cert); err != nil {
		log.Printf("Failed to send email for certificate %s: %v", cert.CertificateID, err)
		return
	}

	sentAt := time.Now()
	cert.EmailSent = true
	cert.EmailSentDate = &sentAt
	if err := db.Save(&cert).Error; err != nil {
		log.Printf("Failed to record email delivery for certificate %s: %v", cert.CertificateID, err)
	}
}

// resolveTemplate prefers the explicitly requested template, then the default,
// then none (the renderer skips the background in that case).
func resolveTemplate(db *gorm.DB, templateID *uint) *models.CertificateTemplate {
	if templateID != nil {
		var template models.CertificateTemplate
		if err := db.First(&template, *templateID).Error; err == nil {
			return &template
		}
	}

	var defaultTemplate models.CertificateTemplate
	if err := db.Where("is_default = ?", true).First(&defaultTemplate).Error; err == nil {
		return &defaultTemplate
	}
	return nil
}

// buildCertificate maps a request onto a fresh entity. An explicit completion
// date is pinned to the start of that day; otherwise the current time is used.
func buildCertificate(request models.CertificateRequest, template *models.CertificateTemplate) *models.Certificate {
	var completion time.Time
	if request.CompletionDate != nil {
		completion = now.New(*request.CompletionDate).BeginningOfDay()
	} else {
		completion = time.Now()
	}

	cert := &models.Certificate{
		RecipientName:    request.RecipientName,
		RecipientEmail:   request.RecipientEmail,
		CourseName:       request.CourseName,
		AchievementTitle: request.AchievementTitle,
		CompletionDate:   &completion,
		IssuerName:       request.IssuerName,
		InstructorName:   request.InstructorName,
		IssuedDate:       time.Now(),
		EmailRequested:   request.SendEmail && request.RecipientEmail != "",
		EmailSent:        false,
		Status:           models.StatusActive,
	}
	if template != nil {
		templateID := template.ID
		cert.TemplateID = &templateID
	}
	return cert
}
