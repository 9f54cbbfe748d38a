package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers. Every printed
// line is also kept as plain text so a layout can be previewed without a printer.
type Document struct {
	buf   bytes.Buffer
	lines []string
	width int
	align int
}

// NewDocument creates a new ESC/POS document with the given character width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the line width in characters
func (d *Document) Width() int {
	return d.width
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.align = AlignLeft
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	return d.FeedLines(1)
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
		d.lines = append(d.lines, "")
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	d.align = align
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed. Text longer than the
// paper width wraps onto the next lines.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.writeLine(line)
	}
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Title prints a bold, double-size centered line and restores the previous style.
func (d *Document) Title(s string) *Document {
	prev := d.align
	d.SetAlign(AlignCenter).SetBold(true).SetFontSize(FontDouble)
	d.Text(s)
	return d.SetFontSize(FontNormal).SetBold(false).SetAlign(prev)
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	d.writeLine(strings.Repeat(string(char), d.width))
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal                 100.00"
func (d *Document) KeyValue(key, value string) *Document {
	d.writeLine(justify(key, value, d.width))
	return d
}

// ItemLine prints a receipt item line: qty x name, then right-aligned total.
// A name too long for one line continues on the following lines.
// Example: "2x Shirt press            20.00"
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(total) - 1
	if room < 1 {
		room = 1
	}
	parts := wrap(name, room)
	d.writeLine(justify(prefix+parts[0], total, d.width))
	indent := strings.Repeat(" ", utf8.RuneCountInString(prefix))
	for _, p := range parts[1:] {
		d.writeLine(indent + p)
	}
	return d
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Lines returns the printed text without control codes, one entry per paper line.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.lines = nil
	return d.Init()
}

func (d *Document) writeLine(s string) {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	switch d.align {
	case AlignCenter:
		pad := (d.width - utf8.RuneCountInString(s)) / 2
		if pad > 0 {
			s = strings.Repeat(" ", pad) + s
		}
	case AlignRight:
		pad := d.width - utf8.RuneCountInString(s)
		if pad > 0 {
			s = strings.Repeat(" ", pad) + s
		}
	}
	d.lines = append(d.lines, s)
}

func justify(left, right string, width int) string {
	spaces := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// wrap splits s on word boundaries into lines of at most width runes.
// Words longer than width are hard-split. Always returns at least one line.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || width < 1 {
		return []string{s}
	}

	var lines []string
	current := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case current == "":
			current = w
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
