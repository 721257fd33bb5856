package printer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLayout(t *testing.T) {
	t.Parallel()

	doc := NewDocument(20)
	doc.KeyValue("Total:", "261.00").
		ItemLine("2.5", "A very long product name", "87.50")

	out := doc.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
	assert.Contains(t, string(out), "Total:        261.00\n")
	assert.Contains(t, string(out), "2.5x A very l. 87.50\n")
}

func TestDocumentBarcode(t *testing.T) {
	t.Parallel()

	doc := NewDocument(0)
	assert.Equal(t, DefaultWidth, doc.Width())

	doc.Barcode("RECEIPT-RCPT-1A2B3C4D-20260101")
	out := doc.Bytes()
	payload := "{BRECEIPT-RCPT-1A2B3C4D-20260101"
	assert.True(t, bytes.Contains(out, append([]byte{GS, 'k', barcodeCode128, byte(len(payload))}, payload...)))

	before := len(doc.Bytes())
	doc.Barcode("")
	assert.Equal(t, before, len(doc.Bytes()))
}

func TestNewSelectsPrinter(t *testing.T) {
	t.Parallel()

	p, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, p.IsConnected())
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = New(Options{Type: TypeUSB})
	assert.Error(t, err)
	_, err = New(Options{Type: TypeNetwork})
	assert.Error(t, err)
	_, err = New(Options{Type: "bluetooth"})
	assert.Error(t, err)
}

func TestFilePrinterAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "receipts.bin")
	p, err := New(Options{Type: TypeFile, Path: path})
	require.NoError(t, err)

	require.NoError(t, p.Print(context.Background(), []byte("one")))
	require.NoError(t, p.Print(context.Background(), []byte("two")))
	assert.True(t, p.IsConnected())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", string(data))
}
