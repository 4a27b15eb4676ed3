package utils

import (
	"certgen/config"
	"certgen/database"
	"certgen/models"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned by operations addressing a template by ID
// that does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// ErrUnsupportedBackground is returned for background uploads with an
// unrecognized file extension.
var ErrUnsupportedBackground = errors.New("unsupported background file type")

// CreateTemplate stores a new template. When isDefault is set, the default
// flag is cleared from every other template in the same transaction.
func CreateTemplate(name, description string, isDefault bool) (*models.CertificateTemplate, error) {
	template := &models.CertificateTemplate{
		Name:        name,
		Description: description,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		if isDefault {
			return makeDefault(tx, template)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// SetDefaultTemplate makes the given template the single default.
func SetDefaultTemplate(templateID uint) (*models.CertificateTemplate, error) {
	var template models.CertificateTemplate

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&template, templateID).Error; err != nil {
			return ErrTemplateNotFound
		}
		return makeDefault(tx, &template)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Template %d set as default", templateID)
	return &template, nil
}

// makeDefault clears the default flag everywhere, then sets it on one
// template. Always runs inside the caller's transaction so the "at most one
// default" invariant holds at every commit point.
func makeDefault(tx *gorm.DB, template *models.CertificateTemplate) error {
	if err := tx.Model(&models.CertificateTemplate{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error; err != nil {
		return err
	}
	template.IsDefault = true
	return tx.Save(template).Error
}

// SaveTemplateBackground writes an uploaded background asset under the
// template asset directory and records its path and type on the template.
func SaveTemplateBackground(templateID uint, originalFilename string, content io.Reader) (*models.CertificateTemplate, error) {
	db := database.Database.Db

	var template models.CertificateTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		return nil, ErrTemplateNotFound
	}

	// Strip URL query/fragment suffixes so remote filenames resolve cleanly
	name, _, _ := strings.Cut(originalFilename, "?")
	name, _, _ = strings.Cut(name, "#")
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	backgroundType, err := backgroundTypeForExtension(extension)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(config.AppConfig.TemplatePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}

	filename := uuid.New().String() + "." + extension
	filePath := filepath.Join(config.AppConfig.TemplatePath, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create background file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return nil, fmt.Errorf("failed to write background file: %w", err)
	}

	template.BackgroundPath = filePath
	template.BackgroundType = backgroundType
	if err := db.Save(&template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	log.Printf("Template background uploaded: %s", filename)
	return &template, nil
}

// UpdateTemplateConfiguration replaces the opaque field layout hint.
func UpdateTemplateConfiguration(templateID uint, fieldConfiguration string) (*models.CertificateTemplate, error) {
	db := database.Database.Db

	var template models.CertificateTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		return nil, ErrTemplateNotFound
	}

	template.FieldConfiguration = fieldConfiguration
	if err := db.Save(&template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return &template, nil
}

// DeleteTemplate removes a template and its background asset. Certificates
// issued against it keep their (now dangling) template reference; they are
// immutable history and never dereference the template again.
func DeleteTemplate(templateID uint) error {
	db := database.Database.Db

	var template models.CertificateTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		return ErrTemplateNotFound
	}

	if template.BackgroundPath != "" {
		if err := os.Remove(template.BackgroundPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to delete template background file: %v", err)
		}
	}

	if err := db.Delete(&template).Error; err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	log.Printf("Template deleted: %d", templateID)
	return nil
}

// InitializeDefaultTemplate seeds a default template on first boot.
func InitializeDefaultTemplate() {
	db := database.Database.Db

	var count int64
	if err := db.Model(&models.CertificateTemplate{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	template := models.CertificateTemplate{
		Name:        "Classic Certificate",
		Description: "Professional classic certificate design",
		IsDefault:   true,
	}
	if err := db.Create(&template).Error; err != nil {
		log.Printf("Failed to initialize default template: %v", err)
		return
	}
	log.Println("Default template initialized")
}

func backgroundTypeForExtension(extension string) (string, error) {
	switch extension {
	case "pdf":
		return models.BackgroundPDF, nil
	case "svg":
		return models.BackgroundSVG, nil
	case "png":
		return models.BackgroundPNG, nil
	case "jpg", "jpeg":
		return models.BackgroundJPEG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBackground, extension)
	}
}
