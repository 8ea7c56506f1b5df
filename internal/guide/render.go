package guide

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects a renderer.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively; empty means PDF.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported guide format %q", raw)
}

// FileName is the download name, e.g. borough-botanicals-grow-guide.pdf.
func (f Format) FileName() string {
	return baseFileName + "." + string(f)
}

// ContentType is the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}
	return "application/pdf"
}

// Render writes g in the requested format.
func Render(w io.Writer, format Format, g Guide) error {
	switch format {
	case FormatPDF:
		return RenderPDF(w, g)
	case FormatXLSX:
		return RenderXLSX(w, g)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	}
	return fmt.Errorf("unsupported guide format %q", format)
}
