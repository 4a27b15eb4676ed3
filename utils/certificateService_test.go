package utils

import (
	"certgen/models"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertificate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)
	stubMailSender(t, func(*models.Certificate) error { return nil })

	completion := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName:  "Alice Example",
		RecipientEmail: "alice@x.com",
		CourseName:     "Intro to X",
		CompletionDate: &completion,
	})
	require.NoError(t, err)

	assert.Regexp(t, certificateIDPattern, cert.CertificateID)
	assert.Equal(t, models.StatusActive, cert.Status)
	assert.FileExists(t, cert.FilePath)
	assert.FileExists(t, cert.QRCodePath)
	require.NotNil(t, cert.CompletionDate)
	assert.Equal(t, completion, *cert.CompletionDate)
	assert.False(t, cert.EmailSent)

	// The record is durable and queryable once the call returns
	var stored models.Certificate
	require.NoError(t, db.Where("certificate_id = ?", cert.CertificateID).First(&stored).Error)
}

func TestGenerateCertificate_NoDefaultTemplate(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	// No template exists at all; the document is still rendered
	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Bob",
		CourseName:    "Intro to Y",
	})
	require.NoError(t, err)

	assert.Nil(t, cert.TemplateID)
	assert.FileExists(t, cert.FilePath)
}

func TestGenerateCertificate_FallsBackToDefaultTemplate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	def := models.CertificateTemplate{Name: "Default", IsDefault: true}
	require.NoError(t, db.Create(&def).Error)

	// Unknown explicit template falls back to the default
	missing := uint(9999)
	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Carol",
		CourseName:    "Intro to Z",
		TemplateID:    &missing,
	})
	require.NoError(t, err)

	require.NotNil(t, cert.TemplateID)
	assert.Equal(t, def.ID, *cert.TemplateID)
}

func TestGenerateCertificate_ExplicitTemplatePreferred(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	def := models.CertificateTemplate{Name: "Default", IsDefault: true}
	require.NoError(t, db.Create(&def).Error)
	other := models.CertificateTemplate{Name: "Fancy"}
	require.NoError(t, db.Create(&other).Error)

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Dave",
		CourseName:    "Intro to W",
		TemplateID:    &other.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, cert.TemplateID)
	assert.Equal(t, other.ID, *cert.TemplateID)
}

func TestGenerateCertificate_DefaultsCompletionToNow(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	before := time.Now()
	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Eve",
		CourseName:    "Intro to V",
	})
	require.NoError(t, err)

	require.NotNil(t, cert.CompletionDate)
	assert.False(t, cert.CompletionDate.Before(before.Truncate(time.Second)))
}

func TestGenerateCertificate_EmailIsEventuallyMarkedSent(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	var sent atomic.Int32
	stubMailSender(t, func(cert *models.Certificate) error {
		sent.Add(1)
		return nil
	})

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName:  "Alice",
		RecipientEmail: "alice@x.com",
		CourseName:     "Intro to X",
		SendEmail:      true,
	})
	require.NoError(t, err)

	// Dispatch is fire-and-forget: the issuance response never waits on it
	require.Eventually(t, func() bool {
		var stored models.Certificate
		if err := db.First(&stored, cert.ID).Error; err != nil {
			return false
		}
		return stored.EmailSent && stored.EmailSentDate != nil
	}, 2*time.Second, 20*time.Millisecond)

	assert.EqualValues(t, 1, sent.Load())
}

func TestGenerateCertificate_EmailFailureDoesNotRollBack(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	stubMailSender(t, func(*models.Certificate) error { return errors.New("smtp down") })

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName:  "Alice",
		RecipientEmail: "alice@x.com",
		CourseName:     "Intro to X",
		SendEmail:      true,
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	var stored models.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.False(t, stored.EmailSent)
	assert.Nil(t, stored.EmailSentDate)
	assert.True(t, stored.EmailRequested)
}

func TestGenerateCertificate_NoEmailWithoutAddress(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	called := false
	stubMailSender(t, func(*models.Certificate) error {
		called = true
		return nil
	})

	_, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Bob",
		CourseName:    "Intro to Y",
		SendEmail:     true, // but no address
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.False(t, called)
}

func TestGenerateBatchCertificates(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	requests := []models.CertificateRequest{
		{RecipientName: "Alice", CourseName: "Intro to X"},
		{RecipientName: "Bob", CourseName: "Intro to Y"},
		{RecipientName: "Carol", CourseName: "Intro to Z"},
	}

	issued := GenerateBatchCertificates(requests)
	require.Len(t, issued, 3)
	assert.Equal(t, "Alice", issued[0].RecipientName)
	assert.Equal(t, "Bob", issued[1].RecipientName)
	assert.Equal(t, "Carol", issued[2].RecipientName)

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestGenerateBatchCertificates_DropsFailedRequests(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	// Issue one certificate, then close the storage path out from under the
	// renderer by swapping it for a regular file. Every later request fails
	// but the batch still returns the issued subset.
	issued := GenerateBatchCertificates([]models.CertificateRequest{
		{RecipientName: "Alice", CourseName: "Intro to X"},
	})
	require.Len(t, issued, 1)

	breakStoragePath(t)

	batch := GenerateBatchCertificates([]models.CertificateRequest{
		{RecipientName: "Bob", CourseName: "Intro to Y"},
		{RecipientName: "Carol", CourseName: "Intro to Z"},
	})
	assert.Empty(t, batch)
}

func TestVerifyCertificate(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Alice",
		CourseName:    "Intro to X",
	})
	require.NoError(t, err)

	found, ok := VerifyCertificate(cert.CertificateID)
	require.True(t, ok)
	assert.Equal(t, cert.CertificateID, found.CertificateID)
}

func TestVerifyCertificate_UnknownID(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	_, ok := VerifyCertificate("CERT-0000-0000")
	assert.False(t, ok)
}

func TestRevokeCertificate(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName: "Alice",
		CourseName:    "Intro to X",
	})
	require.NoError(t, err)

	RevokeCertificate(cert.CertificateID)

	// A revoked certificate verifies exactly like one that never existed
	_, ok := VerifyCertificate(cert.CertificateID)
	assert.False(t, ok)

	// But the record survives with REVOKED status
	var stored models.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.Equal(t, models.StatusRevoked, stored.Status)
}

func TestRevokeCertificate_UnknownIDIsNoOp(t *testing.T) {
	setupTestConfig(t)
	setupTestDB(t)

	// Must not panic or create anything
	RevokeCertificate("CERT-0000-0000")
}

func TestRetryPendingEmails(t *testing.T) {
	setupTestConfig(t)
	db := setupTestDB(t)

	// First attempt fails, leaving the certificate requested-but-unsent
	stubMailSender(t, func(*models.Certificate) error { return errors.New("smtp down") })
	cert, err := GenerateCertificate(models.CertificateRequest{
		RecipientName:  "Alice",
		RecipientEmail: "alice@x.com",
		CourseName:     "Intro to X",
		SendEmail:      true,
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	// SMTP recovers; the retry pass delivers synchronously
	stubMailSender(t, func(*models.Certificate) error { return nil })
	RetryPendingEmails(10)

	var stored models.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.True(t, stored.EmailSent)
}
