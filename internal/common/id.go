package common

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewReportID generates a unique report ID with the "rpt_" prefix.
func NewReportID() string {
	return "rpt_" + uuid.New().String()
}

// ContentID derives a stable, content-addressed identifier from a set of
// parts (category, location, value, ...). Findings reuse the same parts
// across an analyze/clean pair and must keep the same ID both times, so
// this hashes the parts directly instead of generating a random UUID.
func ContentID(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return prefix + "_" + hex.EncodeToString(h.Sum(nil))[:16]
}
