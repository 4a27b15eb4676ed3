package main

import (
	"certgen/config"
	"certgen/database"
	authRoutes "certgen/routers/authRoutes"
	certificateRoutes "certgen/routers/certificateRoutes"
	templateRoutes "certgen/routers/templateRoutes"
	"certgen/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Seed the default template on first boot
	utils.InitializeDefaultTemplate()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve rendered certificates and QR codes
	app.Static("/files", config.AppConfig.StoragePath)

	authRoutes.SetupAuthRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	templateRoutes.SetupTemplateRoutes(app)

	// Re-attempt certificate deliveries that never went out
	utils.StartEmailRetryScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
