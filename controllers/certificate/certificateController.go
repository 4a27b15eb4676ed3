package certificateController

import (
	"certgen/config"
	"certgen/database"
	"certgen/middleware"
	"certgen/models"
	"certgen/utils"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate issues a single certificate from a validated request
func GenerateCertificate(c *fiber.Ctx) error {
	request, ok := c.Locals("validatedCertificate").(*models.CertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cert, err := utils.GenerateCertificate(*request)
	if err != nil {
		log.Printf("Certificate generation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate generated successfully!", certificateResponse(cert))
}

// GetAllCertificates lists every issued certificate
func GetAllCertificates(c *fiber.Ctx) error {
	var certificates []models.Certificate
	if err := database.Database.Db.Order("issued_date desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]fiber.Map, len(certificates))
	for i := range certificates {
		result[i] = certificateResponse(&certificates[i])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// GetCertificateByID fetches one certificate by its numeric ID
func GetCertificateByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID!", nil)
	}

	var cert models.Certificate
	if err := database.Database.Db.First(&cert, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificateResponse(&cert))
}

// GetCertificatesByEmail lists certificates issued to a recipient address
func GetCertificatesByEmail(c *fiber.Ctx) error {
	email := c.Params("email")

	var certificates []models.Certificate
	if err := database.Database.Db.Where("recipient_email = ?", email).Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]fiber.Map, len(certificates))
	for i := range certificates {
		result[i] = certificateResponse(&certificates[i])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// DownloadCertificate streams the rendered PDF
func DownloadCertificate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID!", nil)
	}

	var cert models.Certificate
	if err := database.Database.Db.First(&cert, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if cert.FilePath == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate file not available!", nil)
	}

	return c.Download(cert.FilePath, cert.CertificateID+".pdf")
}

// VerifyCertificate is the public verification lookup. Revoked and unknown
// IDs are both reported as not found.
func VerifyCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificateId")

	cert, found := utils.VerifyCertificate(certificateID)
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found or revoked!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate_id":  cert.CertificateID,
		"recipient_name":  cert.RecipientName,
		"course_name":     cert.CourseName,
		"completion_date": cert.CompletionDate,
		"issued_date":     cert.IssuedDate,
		"status":          cert.Status,
	})
}

// RevokeCertificate flips a certificate to REVOKED. Unknown IDs are a no-op.
func RevokeCertificate(c *fiber.Ctx) error {
	certificateID := c.Params("certificateId")

	utils.RevokeCertificate(certificateID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked!", nil)
}

// certificateResponse shapes a certificate for API output
func certificateResponse(cert *models.Certificate) fiber.Map {
	return fiber.Map{
		"id":                cert.ID,
		"certificate_id":    cert.CertificateID,
		"recipient_name":    cert.RecipientName,
		"recipient_email":   cert.RecipientEmail,
		"course_name":       cert.CourseName,
		"achievement_title": cert.AchievementTitle,
		"completion_date":   cert.CompletionDate,
		"issuer_name":       cert.IssuerName,
		"instructor_name":   cert.InstructorName,
		"issued_date":       cert.IssuedDate,
		"email_sent":        cert.EmailSent,
		"status":            cert.Status,
		"download_url":      fmt.Sprintf("/api/certificates/%d/download", cert.ID),
		"verification_url":  config.AppConfig.VerificationBaseURL + "/" + cert.CertificateID,
	}
}
