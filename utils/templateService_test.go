package utils

import (
	"certgen/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemplate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	template, err := CreateTemplate("Classic", "Classic design", false)
	require.NoError(t, err)
	assert.False(t, template.IsDefault)

	var stored models.CertificateTemplate
	require.NoError(t, db.First(&stored, template.ID).Error)
	assert.Equal(t, "Classic", stored.Name)
}

func TestCreateTemplate_DefaultClearsOthers(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	first, err := CreateTemplate("First", "", true)
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := CreateTemplate("Second", "", true)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var stored models.CertificateTemplate
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.False(t, stored.IsDefault)
}

func TestSetDefaultTemplate_ExactlyOneDefault(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	// Two templates wrongly flagged default at once (the invariant was
	// violated out-of-band); setting a third must repair it.
	require.NoError(t, db.Create(&models.CertificateTemplate{Name: "A", IsDefault: true}).Error)
	require.NoError(t, db.Create(&models.CertificateTemplate{Name: "B", IsDefault: true}).Error)
	third := models.CertificateTemplate{Name: "C"}
	require.NoError(t, db.Create(&third).Error)

	updated, err := SetDefaultTemplate(third.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	var defaults []models.CertificateTemplate
	require.NoError(t, db.Where("is_default = ?", true).Find(&defaults).Error)
	require.Len(t, defaults, 1)
	assert.Equal(t, third.ID, defaults[0].ID)
}

func TestSetDefaultTemplate_UnknownID(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	_, err := SetDefaultTemplate(9999)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSaveTemplateBackground(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	template, err := CreateTemplate("Classic", "", false)
	require.NoError(t, err)

	updated, err := SaveTemplateBackground(template.ID, "art.png", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, models.BackgroundPNG, updated.BackgroundType)
	assert.FileExists(t, updated.BackgroundPath)
}

func TestSaveTemplateBackground_TypeFromExtension(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	tests := []struct {
		filename string
		want     string
	}{
		{"bg.pdf", models.BackgroundPDF},
		{"bg.svg", models.BackgroundSVG},
		{"bg.PNG", models.BackgroundPNG},
		{"bg.jpg", models.BackgroundJPEG},
		{"bg.jpeg", models.BackgroundJPEG},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			template, err := CreateTemplate("T "+tt.filename, "", false)
			require.NoError(t, err)

			updated, err := SaveTemplateBackground(template.ID, tt.filename, strings.NewReader("bytes"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.BackgroundType)
		})
	}
}

func TestSaveTemplateBackground_UnsupportedExtension(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	template, err := CreateTemplate("Classic", "", false)
	require.NoError(t, err)

	_, err = SaveTemplateBackground(template.ID, "bg.gif", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, ErrUnsupportedBackground)
}

func TestSaveTemplateBackground_UnknownTemplate(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	_, err := SaveTemplateBackground(9999, "bg.png", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUpdateTemplateConfiguration(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	template, err := CreateTemplate("Classic", "", false)
	require.NoError(t, err)

	updated, err := UpdateTemplateConfiguration(template.ID, `{"title":{"y":120}}`)
	require.NoError(t, err)
	assert.Equal(t, `{"title":{"y":120}}`, updated.FieldConfiguration)
}

func TestDeleteTemplate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	template, err := CreateTemplate("Classic", "", false)
	require.NoError(t, err)
	withBackground, err := SaveTemplateBackground(template.ID, "bg.png", strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, DeleteTemplate(template.ID))

	assert.NoFileExists(t, withBackground.BackgroundPath)
	var count int64
	require.NoError(t, db.Model(&models.CertificateTemplate{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteTemplate_UnknownID(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	assert.ErrorIs(t, DeleteTemplate(9999), ErrTemplateNotFound)
}

func TestDeleteTemplate_CertificateReferenceSurvives(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	template, err := CreateTemplate("Classic", "", true)
	require.NoError(t, err)

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Alice",
		CourseName:    "Intro to X",
	})
	require.NoError(t, err)
	require.NotNil(t, cert.TemplateID)

	require.NoError(t, DeleteTemplate(template.ID))

	// The issued certificate keeps its reference and stays verifiable
	var stored models.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	require.NotNil(t, stored.TemplateID)
	assert.Equal(t, template.ID, *stored.TemplateID)

	_, ok := VerifyCertificate(cert.CertificateID)
	assert.True(t, ok)
}

func TestInitializeDefaultTemplate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	InitializeDefaultTemplate()

	var defaults []models.CertificateTemplate
	require.NoError(t, db.Where("is_default = ?", true).Find(&defaults).Error)
	require.Len(t, defaults, 1)
	assert.Equal(t, "Classic Certificate", defaults[0].Name)

	// Second boot is a no-op
	InitializeDefaultTemplate()
	var count int64
	require.NoError(t, db.Model(&models.CertificateTemplate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
