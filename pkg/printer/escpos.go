package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// barcodeCode128 selects CODE128 for GS k in function B form
const barcodeCode128 = 73

// DefaultWidth is the character width of 58mm paper
const DefaultWidth = 32

// Document accumulates an ESC/POS byte stream for one receipt.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for paper that fits width characters per line.
// 32 suits 58mm rolls, 48 suits 80mm rolls.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = DefaultWidth
	}
	d := &Document{width: width}
	d.Init()
	return d
}

// Width is the number of characters per line
func (d *Document) Width() int {
	return d.width
}

// Init resets the printer with ESC @.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed ends the current line.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines advances the paper by n lines.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment to AlignLeft, AlignCenter or AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold turns emphasised printing on or off.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize selects the character size, one of the Font constants.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and ends the line
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF formats a line the way fmt.Sprintf does and ends it.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator fills one line with char
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue prints key flush left and value flush right on one line.
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(d.justify(key, value))
}

// ItemLine prints "qty x name" with the line total flush right. Names that would
// push the total off the line are cut short.
func (d *Document) ItemLine(qty, name, total string) *Document {
	prefix := qty + "x "
	room := d.width - len(prefix) - len(total) - 1
	if room < 1 {
		room = 1
	}
	return d.Text(d.justify(prefix+truncate(name, room), total))
}

// Barcode prints data as a centred CODE128 barcode with its text underneath.
func (d *Document) Barcode(data string) *Document {
	if data == "" || len(data) > 255 {
		return d
	}
	d.SetAlign(AlignCenter)
	// HRI characters below the bars
	d.buf.Write([]byte{GS, 'H', 2})
	d.buf.Write([]byte{GS, 'h', 60})
	d.buf.Write([]byte{GS, 'w', 2})
	// {B selects code set B
	payload := "{B" + data
	d.buf.Write([]byte{GS, 'k', barcodeCode128, byte(len(payload))})
	d.buf.WriteString(payload)
	d.buf.WriteByte(LF)
	return d
}

// Cut feeds and fully cuts the paper.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut cuts the paper leaving a small hinge.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset discards everything written so far
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

func (d *Document) justify(left, right string) string {
	spaces := d.width - len(left) - len(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "."
}
