package render

// appendBanner appends one trailing full-bleed page when the banner image
// resolved. The page carries only the accent bars, no header or footer
// chrome, and does not participate in page numbering. A missing or failed
// banner is skipped silently, leaving the page count untouched.
func (d *document) appendBanner() {
	name := d.imageFor(d.in.Banner)
	if name == "" {
		return
	}

	d.pdf.AddPage()
	d.pdf.SetFillColor(d.accentR, d.accentG, d.accentB)
	d.pdf.Rect(0, 0, PageWidth, AccentBarHeight, "F")
	d.pdf.Rect(0, PageHeight-AccentBarHeight, PageWidth, AccentBarHeight, "F")

	d.drawImageFit(name,
		Margin, AccentBarHeight+Margin,
		ContentWidth, PageHeight-2*(AccentBarHeight+Margin))
}
