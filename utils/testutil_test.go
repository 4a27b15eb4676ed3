package utils

import (
	"certgen/config"
	"certgen/database"
	"certgen/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestConfig points storage at a throwaway directory
func setupTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		StoragePath:         t.TempDir(),
		TemplatePath:        t.TempDir(),
		VerificationBaseURL: "http://localhost:3000/api/certificates/verify",
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

// setupTestDB swaps the global database for a sqlite file under t.TempDir
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "certgen_test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CertificateTemplate{},
		&models.Certificate{},
	))

	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })

	return db
}

// breakStoragePath points certificate storage at a regular file so directory
// creation (and with it, rendering) fails
func breakStoragePath(t *testing.T) {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	config.AppConfig.StoragePath = blocker
}

// stubMailSender replaces SMTP delivery for the duration of a test
func stubMailSender(t *testing.T, fn func(cert *models.Certificate) error) {
	t.Helper()
	prev := sendCertificateMail
	sendCertificateMail = fn
	t.Cleanup(func() { sendCertificateMail = prev })
}
