package structure

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSystemStructure separates system structure fingerprints from any
// other hash computed over canonical JSON.
const DomainSystemStructure = "ospsys/system-structure/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content address of s: equal structures, however
// they were built, have equal fingerprints.
func Fingerprint(s *SystemStructure) (string, error) {
	data, err := MarshalCanonical(s.ToDict())
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainSystemStructure, data), nil
}
