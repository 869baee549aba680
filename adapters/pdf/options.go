package exportpdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
)

const defaultPDFScale = 1.0

var pdfLengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// PageOptions controls page geometry for the HTML engines.
type PageOptions struct {
	PageSize          string
	Landscape         *bool
	PrintBackground   *bool
	Scale             float64
	MarginTop         string
	MarginBottom      string
	MarginLeft        string
	MarginRight       string
	PreferCSSPageSize *bool
	BaseURL           string
	// BlockExternalAssets stops the engine from fetching http(s) resources.
	BlockExternalAssets bool
}

// Merge returns o with every non-zero field of override applied.
func (o PageOptions) Merge(override PageOptions) PageOptions {
	merged := o
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	if override.Landscape != nil {
		merged.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.MarginTop != "" {
		merged.MarginTop = override.MarginTop
	}
	if override.MarginBottom != "" {
		merged.MarginBottom = override.MarginBottom
	}
	if override.MarginLeft != "" {
		merged.MarginLeft = override.MarginLeft
	}
	if override.MarginRight != "" {
		merged.MarginRight = override.MarginRight
	}
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.PreferCSSPageSize != nil {
		merged.PreferCSSPageSize = override.PreferCSSPageSize
	}
	if override.BlockExternalAssets {
		merged.BlockExternalAssets = true
	}
	return merged
}

func (o PageOptions) landscape() bool {
	return o.Landscape == nil || *o.Landscape
}

// paperSizesMM lists the ISO and US sizes both engines accept, portrait.
var paperSizesMM = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// paperInches returns the portrait width and height for the page size.
func (o PageOptions) paperInches() (float64, float64, error) {
	size, ok := paperSizesMM[o.pageSize()]
	if !ok {
		return 0, 0, export.NewError(export.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", o.PageSize), nil)
	}
	return size[0] / 25.4, size[1] / 25.4, nil
}

func (o PageOptions) pageSize() string {
	if strings.TrimSpace(o.PageSize) == "" {
		return "A4"
	}
	return strings.ToUpper(strings.TrimSpace(o.PageSize))
}

// parseLengthInches converts CSS-like lengths ("10mm", "1in", "72pt") to inches.
func parseLengthInches(value string) (float64, error) {
	matches := pdfLengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, export.NewError(export.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, export.NewError(export.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	switch unit := strings.ToLower(matches[2]); unit {
	case "", "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "px":
		return amount / 96.0, nil
	default:
		return 0, export.NewError(export.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
}

func boolPtr(value bool) *bool {
	return &value
}
