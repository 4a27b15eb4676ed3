package templateRoutes

import (
	templateController "certgen/controllers/template"
	"certgen/middleware"
	templateValidator "certgen/validators/template"

	"github.com/gofiber/fiber/v2"
)

// SetupTemplateRoutes sets up template management routes
func SetupTemplateRoutes(app *fiber.App) {
	templateGroup := app.Group("/api/templates", middleware.JWTMiddleware)

	templateGroup.Get("/list", templateController.GetAllTemplates)
	templateGroup.Get("/:id", templateController.GetTemplateByID)

	// Mutations are admin only
	templateGroup.Post("/create", middleware.AdminOnly, templateValidator.CreateTemplate(), templateController.CreateTemplate)
	templateGroup.Post("/:id/background", middleware.AdminOnly, templateController.UploadBackground)
	templateGroup.Post("/:id/background-url", middleware.AdminOnly, templateValidator.BackgroundURL(), templateController.UploadBackgroundFromURL)
	templateGroup.Put("/:id/configuration", middleware.AdminOnly, templateValidator.UpdateConfiguration(), templateController.UpdateConfiguration)
	templateGroup.Post("/:id/default", middleware.AdminOnly, templateController.SetDefault)
	templateGroup.Delete("/:id", middleware.AdminOnly, templateController.DeleteTemplate)
}
