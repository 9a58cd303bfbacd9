package render

import "fmt"

// dateLayout is the display format for issue and expiry dates.
const dateLayout = "Jan 2, 2006"

// Neutral palette shared by chrome and content.
var (
	colorText      = [3]int{31, 41, 55}
	colorMuted     = [3]int{107, 114, 128}
	colorHairline  = [3]int{229, 231, 235}
	colorRowStripe = [3]int{248, 249, 251}
	colorCardFill  = [3]int{246, 247, 249}
	colorDisc      = [3]int{209, 213, 219}
)

// startPage begins a new surface page and draws its chrome: the accent bars,
// the header band with logos and title, and the proposal metadata line. It
// leaves the cursor at ContentTop. The orchestrator and the paginator are
// the only callers, and each calls it exactly once per page.
func (d *document) startPage() {
	d.pdf.AddPage()

	// Accent bars at the very top and bottom.
	d.pdf.SetFillColor(d.accentR, d.accentG, d.accentB)
	d.pdf.Rect(0, 0, PageWidth, AccentBarHeight, "F")
	d.pdf.Rect(0, PageHeight-AccentBarHeight, PageWidth, AccentBarHeight, "F")

	// Rep logo left, distributor logo right.
	if d.in.Rep != nil {
		d.drawImageFit(d.imageFor(d.in.Rep.Logo), Margin, 16, 120, 40)
	}
	if d.in.Distributor != nil {
		d.drawImageFit(d.imageFor(d.in.Distributor.Logo), PageWidth-Margin-120, 16, 120, 40)
	}

	// Centered title.
	d.pdf.SetFont("Helvetica", "B", 16)
	d.setTextColor(colorText)
	d.pdf.SetXY(Margin, 30)
	d.pdf.CellFormat(ContentWidth, 20, d.tr("SALES PROPOSAL"), "", 0, "C", false, 0, "")

	// Right-aligned metadata line. The "of N" value is the page number
	// current at draw time, not the true final count; see renderState.
	meta := fmt.Sprintf("Proposal #%s · Issued %s · Valid until %s · Page %d of %d",
		d.in.Number,
		d.in.IssuedAt.Format(dateLayout),
		d.in.ExpiresAt.Format(dateLayout),
		d.st.page, d.st.pageEstimate)
	d.pdf.SetFont("Helvetica", "", 8)
	d.setTextColor(colorMuted)
	d.pdf.SetXY(Margin, 72)
	d.pdf.CellFormat(ContentWidth, 12, d.tr(meta), "", 0, "R", false, 0, "")

	// Hairline under the header band.
	d.setDrawColor(colorHairline)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(0, HeaderBandBottom, PageWidth, HeaderBandBottom)

	d.st.y = ContentTop
}

// drawFooter draws the disclaimer for the page currently being finished.
// The paginator calls it on every break; the orchestrator calls it once
// more for the last content page.
func (d *document) drawFooter() {
	d.pdf.SetFont("Helvetica", "", 7)
	d.setTextColor(colorMuted)
	d.pdf.SetXY(Margin, FooterTextY-8)
	d.pdf.CellFormat(ContentWidth, 10,
		d.tr("Pricing is valid until the date shown above and subject to the referenced terms. This document is not an invoice."),
		"", 0, "C", false, 0, "")
}

// drawContinuedBand marks a mid-table page break. Only the paginator's
// tableRow path ever draws it.
func (d *document) drawContinuedBand() {
	d.setFillColor(colorRowStripe)
	d.pdf.Rect(Margin, ContinuedBandY, ContentWidth, 16, "F")
	d.pdf.SetFont("Helvetica", "I", 8)
	d.setTextColor(colorMuted)
	d.pdf.SetXY(Margin, ContinuedBandY+2)
	d.pdf.CellFormat(ContentWidth, 12, d.tr("Continued on next page"), "", 0, "C", false, 0, "")
}

// drawBillTo renders the customer block under the first page's chrome,
// including the matched price contract when one is present. Every offset
// here is fixed, so plain advances are safe.
func (d *document) drawBillTo() {
	cust := d.in.Customer
	contract := d.in.PriceContract
	if cust == nil && contract == nil {
		d.pg.advance(SummaryGap)
		return
	}

	d.pdf.SetFont("Helvetica", "B", 8)
	d.setTextColor(colorMuted)
	d.textAt(Margin, d.st.y, "BILL TO")
	d.pg.advance(SummaryLabelH)

	if cust != nil {
		d.pdf.SetFont("Helvetica", "B", 10)
		d.setTextColor(colorText)
		d.textAt(Margin, d.st.y, cust.Name)
		d.pg.advance(SummaryLineH + 2)

		d.pdf.SetFont("Helvetica", "", 9)
		d.setTextColor(colorMuted)
		for _, line := range cust.AddressLines() {
			d.textAt(Margin, d.st.y, line)
			d.pg.advance(SummaryLineH)
		}
	}

	if contract != nil && contract.Name != "" {
		d.pdf.SetFont("Helvetica", "I", 9)
		d.setTextColor(colorMuted)
		d.textAt(Margin, d.st.y, "Price contract: "+contract.Name)
		d.pg.advance(SummaryLineH)
	}

	d.pg.advance(SummaryGap)
}

// drawImageFit draws a registered image inside a box, preserving aspect
// ratio and centering. A missing or unregistered image is skipped.
func (d *document) drawImageFit(name string, x, y, boxW, boxH float64) {
	if name == "" {
		return
	}
	info := d.pdf.GetImageInfo(name)
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return
	}
	scale := boxW / info.Width()
	if s := boxH / info.Height(); s < scale {
		scale = s
	}
	w := info.Width() * scale
	h := info.Height() * scale
	d.pdf.ImageOptions(name,
		x+(boxW-w)/2, y+(boxH-h)/2, w, h,
		false, fpdfImageOpts, 0, "")
}

func (d *document) textAt(x, y float64, s string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(0, SummaryLineH, d.tr(s), "", 0, "L", false, 0, "")
}

func (d *document) setTextColor(c [3]int) {
	d.pdf.SetTextColor(c[0], c[1], c[2])
}

func (d *document) setDrawColor(c [3]int) {
	d.pdf.SetDrawColor(c[0], c[1], c[2])
}

func (d *document) setFillColor(c [3]int) {
	d.pdf.SetFillColor(c[0], c[1], c[2])
}
