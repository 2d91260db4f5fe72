package content

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainContentID separates derived content ids from any other hash use.
const DomainContentID = "atelier/content-id/v1"

// DerivedID returns a deterministic id for a content path such as
// "about/paragraph/2". The same path always maps to the same id.
//
// Format: "c-" followed by the first 16 hex digits of
// SHA256(domain + 0x00 + NFC(path)).
func DerivedID(path string) string {
	return "c-" + hashWithDomain(DomainContentID, []byte(Normalize(path)))[:16]
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
