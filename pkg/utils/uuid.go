package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// receiptDigits is the number of random hex digits in a receipt number
const receiptDigits = 12

// GenerateReceiptNo returns "RCPT-" followed by twelve random upper-case hex digits
func GenerateReceiptNo() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RCPT-" + strings.ToUpper(id[:receiptDigits])
}

// ReceiptBarcode is the barcode payload printed under a receipt
func ReceiptBarcode(receiptNo string, at time.Time) string {
	return "RECEIPT-" + receiptNo + "-" + at.Format("20060102")
}
