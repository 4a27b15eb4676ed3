package certificateValidator

import (
	"certgen/middleware"
	"certgen/models"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func GenerateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RecipientName    string `json:"recipient_name"`
			RecipientEmail   string `json:"recipient_email"`
			CourseName       string `json:"course_name"`
			AchievementTitle string `json:"achievement_title"`
			CompletionDate   string `json:"completion_date"`
			IssuerName       string `json:"issuer_name"`
			InstructorName   string `json:"instructor_name"`
			TemplateID       *uint  `json:"template_id"`
			SendEmail        bool   `json:"send_email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Recipient Name
		if strings.TrimSpace(reqData.RecipientName) == "" {
			errors["recipient_name"] = "Recipient name is required!"
		}

		// Validate Course Name
		if strings.TrimSpace(reqData.CourseName) == "" {
			errors["course_name"] = "Course name is required!"
		}

		// Validate Email when delivery is requested
		if reqData.SendEmail && strings.TrimSpace(reqData.RecipientEmail) == "" {
			errors["recipient_email"] = "Recipient email is required when send_email is set!"
		}
		if reqData.RecipientEmail != "" && !strings.Contains(reqData.RecipientEmail, "@") {
			errors["recipient_email"] = "Recipient email is not valid!"
		}

		// Validate Completion Date
		var completionDate *time.Time
		if strings.TrimSpace(reqData.CompletionDate) != "" {
			parsed, err := time.Parse("2006-01-02", strings.TrimSpace(reqData.CompletionDate))
			if err != nil {
				errors["completion_date"] = "Completion date must be in YYYY-MM-DD format!"
			} else {
				completionDate = &parsed
			}
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		request := &models.CertificateRequest{
			RecipientName:    strings.TrimSpace(reqData.RecipientName),
			RecipientEmail:   strings.TrimSpace(reqData.RecipientEmail),
			CourseName:       strings.TrimSpace(reqData.CourseName),
			AchievementTitle: strings.TrimSpace(reqData.AchievementTitle),
			CompletionDate:   completionDate,
			IssuerName:       strings.TrimSpace(reqData.IssuerName),
			InstructorName:   strings.TrimSpace(reqData.InstructorName),
			TemplateID:       reqData.TemplateID,
			SendEmail:        reqData.SendEmail,
		}

		c.Locals("validatedCertificate", request)
		return c.Next()
	}
}
