package certificateRoutes

import (
	certificateController "certgen/controllers/certificate"
	"certgen/middleware"
	certificateValidator "certgen/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up all certificate issuance and lookup routes
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/api/certificates")

	// Issuance
	certGroup.Post("/generate", middleware.JWTMiddleware, certificateValidator.GenerateCertificate(), certificateController.GenerateCertificate)
	certGroup.Post("/batch/csv", middleware.JWTMiddleware, certificateController.BatchImportCSV)
	certGroup.Post("/batch/excel", middleware.JWTMiddleware, certificateController.BatchImportExcel)

	// Public verification and download
	certGroup.Get("/verify/:certificateId", certificateController.VerifyCertificate)
	certGroup.Get("/:id/download", certificateController.DownloadCertificate)

	// Lookup
	certGroup.Get("/list", middleware.JWTMiddleware, certificateController.GetAllCertificates)
	certGroup.Get("/recipient/:email", middleware.JWTMiddleware, certificateController.GetCertificatesByEmail)
	certGroup.Get("/:id", middleware.JWTMiddleware, certificateController.GetCertificateByID)

	// Revocation (admin only)
	certGroup.Post("/:certificateId/revoke", middleware.JWTMiddleware, middleware.AdminOnly, certificateController.RevokeCertificate)
}
