package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Numeric lists headers whose values should be written as
// numbers by formats that distinguish them.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Numeric map[string]bool
}

// Format identifies an export encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a query value onto a Format, defaulting to XLSX.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename appends the format extension to base.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}
