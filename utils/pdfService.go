package utils

import (
	"certgen/config"
	"certgen/models"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrCodeSize   = 150 // pixel size of the generated QR PNG
	qrCodeSizeMM = 40  // rendered size on the certificate page
)

// GenerateQRCode renders the verification URL for a certificate ID into a PNG
// under <storage>/qr. Failures are logged and yield an empty path; the
// certificate document is still generated without an embedded code.
func GenerateQRCode(certificateID string) string {
	qrDir := filepath.Join(config.AppConfig.StoragePath, "qr")
	if err := os.MkdirAll(qrDir, 0755); err != nil {
		log.Printf("Error creating QR code directory: %v", err)
		return ""
	}

	verificationURL := config.AppConfig.VerificationBaseURL + "/" + certificateID
	qrFilePath := filepath.Join(qrDir, certificateID+"_qr.png")

	if err := qrcode.WriteFile(verificationURL, qrcode.Medium, qrCodeSize, qrFilePath); err != nil {
		log.Printf("Error generating QR code for certificate %s: %v", certificateID, err)
		return ""
	}

	log.Printf("QR code generated: %s", qrFilePath)
	return qrFilePath
}

// GenerateCertificatePDF renders the certificate document as a single A4
// landscape page at <storage>/<certificateID>.pdf. The template background is
// optional; a missing or unreadable asset is skipped with a warning. The QR
// code at cert.QRCodePath is embedded when present.
func GenerateCertificatePDF(cert *models.Certificate, template *models.CertificateTemplate) (string, error) {
	if err := os.MkdirAll(config.AppConfig.StoragePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create certificate storage directory: %w", err)
	}

	filePath := filepath.Join(config.AppConfig.StoragePath, cert.CertificateID+".pdf")

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Background (skip if the asset is missing or not an embeddable image)
	if template != nil && template.BackgroundPath != "" {
		addBackgroundImage(pdf, template.BackgroundPath, pageW, pageH)
	}

	addCertificateContent(pdf, cert)

	if cert.QRCodePath != "" {
		pdf.ImageOptions(cert.QRCodePath, 15, pageH-15-qrCodeSizeMM, qrCodeSizeMM, qrCodeSizeMM,
			false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		log.Printf("Error generating PDF for certificate %s: %v", cert.CertificateID, err)
		return "", fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("Certificate PDF generated: %s", filePath)
	return filePath, nil
}

// addBackgroundImage stretches the template background to the page bounds.
// Anything that cannot be decoded as PNG/JPEG is skipped, not fatal.
func addBackgroundImage(pdf *fpdf.Fpdf, backgroundPath string, pageW, pageH float64) {
	file, err := os.Open(backgroundPath)
	if err != nil {
		log.Printf("Warning: could not add background image, continuing without it: %v", err)
		return
	}
	_, _, err = image.DecodeConfig(file)
	file.Close()
	if err != nil {
		log.Printf("Warning: background %s is not an embeddable image, continuing without it: %v", backgroundPath, err)
		return
	}

	pdf.ImageOptions(backgroundPath, 0, 0, pageW, pageH, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
}

// addCertificateContent lays out the fixed text stack, top to bottom.
func addCertificateContent(pdf *fpdf.Fpdf, cert *models.Certificate) {
	// Certificate Title
	pdf.SetY(35)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "CERTIFICATE OF ACHIEVEMENT", "", 1, "C", false, 0, "")

	// Presented to
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "This certificate is proudly presented to", "", 1, "C", false, 0, "")

	// Recipient Name
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 16, cert.RecipientName, "", 1, "C", false, 0, "")

	// Achievement
	achievementText := cert.AchievementTitle
	if achievementText == "" {
		achievementText = "For successfully completing " + cert.CourseName
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, achievementText, "", 1, "C", false, 0, "")

	// Completion Date
	if cert.CompletionDate != nil {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 14)
		pdf.CellFormat(0, 7, "Completed on "+cert.CompletionDate.Format("January 02, 2006"), "", 1, "C", false, 0, "")
	}

	// Issuer/Instructor (instructor preferred when both are set)
	if cert.IssuerName != "" || cert.InstructorName != "" {
		signer := cert.InstructorName
		if signer == "" {
			signer = cert.IssuerName
		}
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 6, "___________________", "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 6, signer, "", 1, "C", false, 0, "")
	}

	// Certificate ID
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Certificate ID: "+cert.CertificateID, "", 1, "C", false, 0, "")
}

// CertificatePDFPath returns where the rendered document for a certificate ID
// lives. The path is a pure function of the ID.
func CertificatePDFPath(certificateID string) string {
	return filepath.Join(config.AppConfig.StoragePath, certificateID+".pdf")
}
