package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document number for use in file names and object
// keys. Replaces non-alphanumeric chars (except - _) with _, collapses
// consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a Content-Disposition file name.
// Format: {po}_vs_{invoice}_{YYYY-MM-DD}.{ext}
func BuildFilename(poID, invoiceID string, f Format, at time.Time) string {
	po := SanitizeFilename(poID)
	if po == "" {
		po = "PO"
	}
	inv := SanitizeFilename(invoiceID)
	if inv == "" {
		inv = "PI"
	}
	return fmt.Sprintf("%s_vs_%s_%s.%s", po, inv, at.Format("2006-01-02"), f)
}
