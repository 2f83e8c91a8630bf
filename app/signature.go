package app

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// SignatureFields is the fixed, ordered set of fields covered by a
// transaction signature. PIN and Password are the member's stored secrets,
// never values taken from the request: a client cannot forge a signature
// without knowing the stored credentials.
type SignatureFields struct {
	MemberID string
	Product  string
	Dest     string
	RefID    string
	PIN      string
	Password string
}

// SignatureService computes and verifies transaction signatures in the legacy
// OtomaX convention: SHA-1 over the pipe-joined canonical string
// "OtomaX|memberid|product|dest|refid|pin|password", encoded as URL-safe
// base64 without padding.
type SignatureService struct{}

// NewSignatureService creates a signature service.
func NewSignatureService() *SignatureService {
	return &SignatureService{}
}

// GenerateTransactionSignature computes the canonical signature.
func (s *SignatureService) GenerateTransactionSignature(f SignatureFields) string {
	canonical := strings.Join([]string{
		"OtomaX", f.MemberID, f.Product, f.Dest, f.RefID, f.PIN, f.Password,
	}, "|")
	sum := sha1.Sum([]byte(canonical))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Verify compares a client-supplied signature against the expected one.
// The comparison is constant-time so partial matches reveal nothing.
func (s *SignatureService) Verify(f SignatureFields, provided string) bool {
	expected := s.GenerateTransactionSignature(f)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
