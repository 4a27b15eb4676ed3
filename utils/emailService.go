package utils

import (
	"certgen/config"
	"certgen/models"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

// SendEmail sends an HTML email, optionally attaching the file at attachmentPath.
func SendEmail(to []string, subject, htmlBody, attachmentPath string) error {
	cfg := config.AppConfig

	from := cfg.EmailSender
	password := cfg.Password

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Certificate Service <%s>\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ",")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-version: 1.0;\r\n")

	if attachmentPath == "" {
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
		msg.WriteString(htmlBody)
	} else {
		attachment, err := os.ReadFile(attachmentPath)
		if err != nil {
			return fmt.Errorf("failed to read attachment %s: %w", attachmentPath, err)
		}
		filename := filepath.Base(attachmentPath)

		boundary := "certificate-mail-boundary"
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", boundary))

		// HTML part
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
		msg.WriteString(htmlBody)
		msg.WriteString("\r\n")

		// Attachment part
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: application/pdf\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", filename))

		encoded := base64.StdEncoding.EncodeToString(attachment)
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76] + "\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded + "\r\n")
		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	}

	auth := smtp.PlainAuth("", from, password, cfg.SMTPHost)

	// Debug Logs
	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\nFrom: %s\n", to, subject, from)

	err := smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, from, to, []byte(msg.String()))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	fmt.Println("--- Email Sent Successfully ---")
	return nil
}

// SendCertificateEmail delivers a rendered certificate to its recipient with
// the PDF attached.
func SendCertificateEmail(cert *models.Certificate) error {
	subject := "Your Certificate - " + cert.CourseName

	completedOn := ""
	if cert.CompletionDate != nil {
		completedOn = cert.CompletionDate.Format("January 02, 2006")
	}

	issuer := cert.IssuerName
	if issuer == "" {
		issuer = "Certificate Authority"
	}

	body := fmt.Sprintf(`
		<p>We are pleased to inform you that you have successfully completed:</p>
		<div class="info-box">
			<strong>Course:</strong> %s<br>
			<strong>Completion Date:</strong> %s<br>
			<strong>Certificate ID:</strong> %s
		</div>
		<p>Your official certificate is attached to this email. You can also verify your certificate
		   online at any time.</p>
		<p>Keep this certificate safe as proof of your achievement!</p>
		<p style="margin-top: 30px;">
			<strong>Best regards,</strong><br>
			%s
		</p>
	`, cert.CourseName, completedOn, cert.CertificateID, issuer)

	title := fmt.Sprintf("Congratulations, %s!", cert.RecipientName)
	return SendEmail([]string{cert.RecipientEmail}, subject, getEmailTemplate(title, body, cert.CertificateID), cert.FilePath)
}

// SendBatchNotificationEmail reports a batch run summary to the admin address.
func SendBatchNotificationEmail(adminEmail string, totalCertificates, successCount int) error {
	subject := "Batch Certificate Generation Complete"
	body := fmt.Sprintf(`
		<p><strong>Total Certificates Requested:</strong> %d</p>
		<p><strong>Successfully Generated:</strong> %d</p>
		<p><strong>Failed:</strong> %d</p>
		<p>All generated certificates have been emailed to their respective recipients.</p>
	`, totalCertificates, successCount, totalCertificates-successCount)

	return SendEmail([]string{adminEmail}, subject, getEmailTemplate("Batch Certificate Generation Summary", body, ""), "")
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title, bodyContent, certificateID string) string {
	footer := "This is an automated message. Please do not reply to this email."
	if certificateID != "" {
		footer += "<br>Certificate ID: " + certificateID
	}

	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0066cc; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #333; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #0066cc; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				%s
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent, footer)
}
