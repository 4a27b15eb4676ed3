package certificateController

import (
	"certgen/config"
	"certgen/middleware"
	"certgen/models"
	"certgen/utils"
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
)

// BatchImportCSV issues certificates for every usable row of an uploaded CSV
func BatchImportCSV(c *fiber.Ctx) error {
	return batchImport(c, utils.ImportFromCSV)
}

// BatchImportExcel issues certificates for every usable row of an uploaded xlsx workbook
func BatchImportExcel(c *fiber.Ctx) error {
	return batchImport(c, utils.ImportFromExcel)
}

func batchImport(c *fiber.Ctx, parse func(io.Reader) ([]models.CertificateRequest, error)) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer file.Close()

	log.Printf("Importing certificates from file: %s", fileHeader.Filename)

	requests, err := parse(file)
	if err != nil {
		if errors.Is(err, utils.ErrEmptyFile) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Uploaded file is empty!", nil)
		}
		log.Printf("Batch import failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Uploaded file could not be parsed!", nil)
	}

	issued := utils.GenerateBatchCertificates(requests)

	result := make([]fiber.Map, len(issued))
	for i := range issued {
		result[i] = certificateResponse(issued[i])
	}

	// Summary mail for the operator, fire-and-forget
	if config.AppConfig.AdminEmail != "" {
		go utils.SendBatchNotificationEmail(config.AppConfig.AdminEmail, len(requests), len(issued))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Batch import completed!", fiber.Map{
		"imported":     len(requests),
		"issued":       len(issued),
		"certificates": result,
	})
}
