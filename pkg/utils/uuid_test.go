package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReceiptNo(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^RCPT-[0-9A-F]{12}$`)
	a, b := GenerateReceiptNo(), GenerateReceiptNo()
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}

func TestReceiptBarcode(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "RECEIPT-RCPT-00C0FFEE-20260307", ReceiptBarcode("RCPT-00C0FFEE", at))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mama-mboga-stores", Slugify("  Mama Mboga  Store's! "))
	assert.Equal(t, "duka", Slugify("--Duka--"))
}
