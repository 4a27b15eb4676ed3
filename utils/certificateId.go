package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// maxIDAttempts caps the collision-retry loop. With 8 hex characters
// (~4.3 billion combinations) hitting this means the existence check is
// broken, not that we are unlucky.
const maxIDAttempts = 25

// GenerateUniqueCertificateID produces a certificate ID of the form CERT-XXXX-XXXX
// that the exists check reports as unused. The caller is expected to back this up
// with a uniqueness constraint at the storage layer.
func GenerateUniqueCertificateID(exists func(certificateID string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
		certificateID := fmt.Sprintf("CERT-%s-%s", raw[0:4], raw[4:8])

		taken, err := exists(certificateID)
		if err != nil {
			return "", fmt.Errorf("certificate ID existence check failed: %w", err)
		}
		if !taken {
			return certificateID, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique certificate ID after %d attempts", maxIDAttempts)
}
