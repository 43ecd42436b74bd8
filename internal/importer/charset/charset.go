// Package charset converts bank exports of unknown encoding to UTF-8.
package charset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Fallback is assumed when nothing else can be established.
const Fallback = "windows-1252"

var boms = []struct {
	prefix []byte
	name   string
	enc    encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8", nil},
	{[]byte{0xFF, 0xFE}, "UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// decoders maps chardet charset names to decoders. A nil encoding means UTF-8.
var decoders = map[string]encoding.Encoding{
	"UTF-8":        nil,
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// NewUTF8Reader returns a reader decoding r to UTF-8 and the name of the
// charset it was read as.
//
// A BOM wins, then valid UTF-8, then chardet's best guess, then Fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.enc == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.name, nil
		}

		return transform.NewReader(br, b.enc.NewDecoder()), b.name, nil
	}

	if validPrefix(buf) {
		return br, "UTF-8", nil
	}

	name := Fallback

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if _, ok := decoders[result.Charset]; ok {
			name = result.Charset
		}
	}

	enc := decoders[name]
	if enc == nil {
		return br, name, nil
	}

	return transform.NewReader(br, enc.NewDecoder()), name, nil
}

// validPrefix reports whether buf is valid UTF-8, ignoring a rune cut off by
// the sniff window.
func validPrefix(buf []byte) bool {
	for i := 1; i <= utf8.UTFMax && i <= len(buf); i++ {
		if !utf8.RuneStart(buf[len(buf)-i]) {
			continue
		}

		if !utf8.FullRune(buf[len(buf)-i:]) {
			buf = buf[:len(buf)-i]
		}

		break
	}

	return utf8.Valid(buf)
}
