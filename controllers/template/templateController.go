package templateController

import (
	"bytes"
	"certgen/database"
	"certgen/middleware"
	"certgen/models"
	"certgen/utils"
	"errors"
	"log"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// GetAllTemplates lists every certificate template
func GetAllTemplates(c *fiber.Ctx) error {
	var templates []models.CertificateTemplate
	if err := database.Database.Db.Find(&templates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch templates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates fetched successfully!", fiber.Map{
		"templates": templates,
		"total":     len(templates),
	})
}

// GetTemplateByID fetches one template
func GetTemplateByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	var template models.CertificateTemplate
	if err := database.Database.Db.First(&template, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template fetched successfully!", template)
}

// CreateTemplate creates a new certificate template
func CreateTemplate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTemplate").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsDefault   bool   `json:"is_default"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	template, err := utils.CreateTemplate(reqData.Name, reqData.Description, reqData.IsDefault)
	if err != nil {
		log.Printf("Failed to create template: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create template!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template created successfully!", template)
}

// UploadBackground stores a multipart background asset on a template
func UploadBackground(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer file.Close()

	template, err := utils.SaveTemplateBackground(uint(id), fileHeader.Filename, file)
	if err != nil {
		return templateErrorResponse(c, err, "Failed to upload background!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Background uploaded successfully!", template)
}

// UploadBackgroundFromURL fetches a background asset from a remote URL and
// stores it on a template
func UploadBackgroundFromURL(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	reqData, ok := c.Locals("validatedBackgroundURL").(*struct {
		URL string `json:"url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	client := resty.New()
	resp, err := client.R().Get(reqData.URL)
	if err != nil || !resp.IsSuccess() {
		log.Printf("Failed to fetch background from %s: %v", reqData.URL, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to fetch background from URL!", nil)
	}

	template, err := utils.SaveTemplateBackground(uint(id), reqData.URL, bytes.NewReader(resp.Body()))
	if err != nil {
		return templateErrorResponse(c, err, "Failed to store background!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Background uploaded successfully!", template)
}

// UpdateConfiguration replaces a template's field layout configuration
func UpdateConfiguration(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	reqData, ok := c.Locals("validatedConfiguration").(*struct {
		FieldConfiguration string `json:"field_configuration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	template, err := utils.UpdateTemplateConfiguration(uint(id), reqData.FieldConfiguration)
	if err != nil {
		return templateErrorResponse(c, err, "Failed to update template!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template updated successfully!", template)
}

// SetDefault makes a template the single default
func SetDefault(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	template, err := utils.SetDefaultTemplate(uint(id))
	if err != nil {
		return templateErrorResponse(c, err, "Failed to set default template!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Default template updated!", template)
}

// DeleteTemplate removes a template and its background asset
func DeleteTemplate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid template ID!", nil)
	}

	if err := utils.DeleteTemplate(uint(id)); err != nil {
		return templateErrorResponse(c, err, "Failed to delete template!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template deleted successfully!", nil)
}

func templateErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, utils.ErrTemplateNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Template not found!", nil)
	case errors.Is(err, utils.ErrUnsupportedBackground):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported background file type!", nil)
	default:
		log.Printf("Template operation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}
