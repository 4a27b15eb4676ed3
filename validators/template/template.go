package templateValidator

import (
	"certgen/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func CreateTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IsDefault   bool   `json:"is_default"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Name
		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		} else if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTemplate", reqData)
		return c.Next()
	}
}

func BackgroundURL() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			URL string `json:"url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.URL) == "" {
			errors["url"] = "URL is required!"
		} else if !strings.HasPrefix(reqData.URL, "http://") && !strings.HasPrefix(reqData.URL, "https://") {
			errors["url"] = "URL must start with http:// or https://!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBackgroundURL", reqData)
		return c.Next()
	}
}

func UpdateConfiguration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			FieldConfiguration string `json:"field_configuration"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.FieldConfiguration) == "" {
			errors["field_configuration"] = "Field configuration is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConfiguration", reqData)
		return c.Next()
	}
}
