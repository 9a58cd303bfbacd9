package render

import "strconv"

// Page geometry, in PDF points with the origin at the top-left corner.
// The column table below is part of the engine's public contract: golden
// tests compare rendered output against these exact offsets, so any change
// here is a visual-regression change.
const (
	PageWidth  = 595.0
	PageHeight = 842.0
	Margin     = 50.0

	// ContentWidth is the usable width between the side margins.
	ContentWidth = PageWidth - 2*Margin

	// AccentBarHeight is the brand bar drawn across the very top and
	// bottom of every page.
	AccentBarHeight = 6.0

	// HeaderBandBottom is the hairline under the white header band;
	// ContentTop is where the cursor lands after chrome is drawn.
	HeaderBandBottom = 96.0
	ContentTop       = 120.0

	// TableBottom is the last cursor position at which another table row
	// may start; a row starting exactly here still ends above the
	// continuation band. The threshold sits higher than SummaryBottom
	// because the table region reserves space for that band.
	TableBottom   = PageHeight - 100.0
	SummaryBottom = PageHeight - 44.0

	// ContinuedBandY is the top of the "Continued on next page" band,
	// below the lowest possible row bottom.
	ContinuedBandY = TableBottom + RowHeight + 4.0

	// FooterTextY is the baseline of the footer disclaimer.
	FooterTextY = PageHeight - 18.0
)

// Line-item table layout.
const (
	TableHeaderHeight = 20.0
	RowHeight         = 28.0
	ThumbSize         = 22.0

	ColThumbX = 50.0
	ColThumbW = 30.0
	ColPartX  = 84.0
	ColPartW  = 96.0
	ColDescX  = 184.0
	ColDescW  = 146.0
	ColMOQX   = 334.0
	ColMOQW   = 48.0
	ColQtyX   = 386.0
	ColQtyW   = 42.0
	ColPriceX = 432.0
	ColPriceW = 54.0
	ColTotalX = 490.0
	ColTotalW = 55.0

	// DescCharBudget is the hard truncation limit for descriptions; the
	// description column never wraps.
	DescCharBudget = 38
)

// Summary block layout.
const (
	TotalsBoxHeight   = 56.0
	SummaryLabelH     = 14.0
	SummaryLineH      = 12.0
	SummaryGap        = 10.0
	ContactCardHeight = 64.0
	ContactCardGutter = 12.0
	AvatarRadius      = 18.0

	// SummaryCharsPerLine is the estimate used only for the single
	// page-break decision before the summary is drawn; final positioning
	// always follows the surface's actual wrapped height.
	SummaryCharsPerLine = 98

	// NotesMaxChars caps the notes paragraph before wrapping.
	NotesMaxChars = 600
)

// DefaultAccentColor is used when the document carries no accent color or
// an unparsable one.
const DefaultAccentColor = "#0F6CBD"

// ParseHexColor parses "#RRGGBB" (or "RRGGBB") into RGB components.
// Malformed input falls back to DefaultAccentColor.
func ParseHexColor(s string) (r, g, b int) {
	h := s
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	if len(h) != 6 {
		return ParseHexColor(DefaultAccentColor)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return ParseHexColor(DefaultAccentColor)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
