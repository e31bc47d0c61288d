// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
)

// bom makes Excel open the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// NewWriter writes the UTF-8 BOM to w and returns a CRLF csv.Writer on it.
func NewWriter(w io.Writer) (*csv.Writer, error) {
	if _, err := w.Write(bom); err != nil {
		return nil, fmt.Errorf("write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw, nil
}

// SanitizeField prevents CSV formula injection.
func SanitizeField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
