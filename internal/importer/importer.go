package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Format names a statement layout.
type Format string

const (
	FormatCGD Format = "cgd"
	FormatOFX Format = "ofx"
)

// ParseFormat accepts format names and common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "cgd", "csv":
		return FormatCGD, nil
	case "ofx", "qfx":
		return FormatOFX, nil
	}

	return "", fmt.Errorf("unknown statement format: %q", s)
}

// Parser turns a statement into uncategorized transaction params.
type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
