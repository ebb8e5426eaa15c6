package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// strips surrounding spaces and normalizes to NFC so visually identical
// titles compare equal
func CleanupString(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
