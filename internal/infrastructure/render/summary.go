package render

import (
	"strings"

	"github.com/quotedesk/backend/internal/domain/proposal"
)

// drawSummary renders the totals box, terms, optional notes and contact
// cards. The full block height is estimated first and a single silent
// break is requested before anything is drawn; the estimate exists only
// for that break decision. Final positioning always re-synchronizes the
// cursor to the height the surface actually produced for wrapped text.
func (d *document) drawSummary() {
	d.pg.ensureSpace(d.summaryHeight())

	// Accent rule separating the table from the summary.
	d.pdf.SetDrawColor(d.accentR, d.accentG, d.accentB)
	d.pdf.SetLineWidth(1.5)
	d.pdf.Line(Margin, d.st.y+6, PageWidth-Margin, d.st.y+6)
	d.pg.advance(16)

	d.drawTotalsBox()
	d.drawWrappedSection("TERMS", d.in.Terms)
	if d.in.Notes != "" {
		d.drawWrappedSection("NOTES", CapNotes(d.in.Notes))
	}
	d.drawContacts()
}

// summaryHeight pre-computes the vertical space the summary block will
// request. Wrapped paragraphs are estimated from character counts; the
// estimate only has to be good enough for the one break decision.
func (d *document) summaryHeight() float64 {
	h := 16.0 + TotalsBoxHeight + SummaryGap
	h += wrappedSectionEstimate(d.in.Terms)
	if d.in.Notes != "" {
		h += wrappedSectionEstimate(CapNotes(d.in.Notes))
	}
	if len(d.in.Contacts()) > 0 {
		h += SummaryLabelH + ContactCardHeight
	}
	return h
}

func wrappedSectionEstimate(text string) float64 {
	lines := len(text)/SummaryCharsPerLine + 1
	return SummaryLabelH + float64(lines)*SummaryLineH + SummaryGap
}

// drawTotalsBox draws the subtotal and bold total. Both show the quote
// total: net pricing is already folded in upstream, so there is no
// separate tax or discount line at this stage.
func (d *document) drawTotalsBox() {
	const boxW = 220.0
	x := PageWidth - Margin - boxW
	y := d.st.y

	d.setFillColor(colorCardFill)
	d.pdf.Rect(x, y, boxW, TotalsBoxHeight, "F")
	d.pdf.SetFillColor(d.accentR, d.accentG, d.accentB)
	d.pdf.Rect(x, y, 3, TotalsBoxHeight, "F")

	total := proposal.FormatMoney(d.in.Total)

	d.pdf.SetFont("Helvetica", "", 9)
	d.setTextColor(colorMuted)
	d.pdf.SetXY(x+14, y+10)
	d.pdf.CellFormat(60, 12, d.tr("Subtotal"), "", 0, "L", false, 0, "")
	d.pdf.SetXY(x+14, y+10)
	d.pdf.CellFormat(boxW-28, 12, d.tr(total), "", 0, "R", false, 0, "")

	d.pdf.SetFont("Helvetica", "B", 12)
	d.setTextColor(colorText)
	d.pdf.SetXY(x+14, y+30)
	d.pdf.CellFormat(60, 14, d.tr("Total"), "", 0, "L", false, 0, "")
	d.pdf.SetXY(x+14, y+30)
	d.pdf.CellFormat(boxW-28, 14, d.tr(total), "", 0, "R", false, 0, "")

	d.pg.advance(TotalsBoxHeight + SummaryGap)
}

// drawWrappedSection draws a small label followed by a wrapped paragraph.
// The cursor is moved by the height the surface actually drew, not by the
// pre-estimate, so a short and a long paragraph both land the following
// content correctly.
func (d *document) drawWrappedSection(label, text string) {
	d.pdf.SetFont("Helvetica", "B", 8)
	d.setTextColor(colorMuted)
	d.textAt(Margin, d.st.y, label)
	d.pg.advance(SummaryLabelH)

	d.pdf.SetFont("Helvetica", "", 9)
	d.setTextColor(colorText)
	d.pdf.SetXY(Margin, d.st.y)
	d.pdf.MultiCell(ContentWidth, SummaryLineH, d.tr(text), "", "L", false)
	drawn := d.pdf.GetY() - d.st.y
	if drawn < SummaryLineH {
		drawn = SummaryLineH
	}
	d.pg.advance(drawn + SummaryGap)
}

// drawContacts draws one full-width card or two half-width cards. With no
// contacts the CONTACT label is not drawn at all.
func (d *document) drawContacts() {
	contacts := d.in.Contacts()
	if len(contacts) == 0 {
		return
	}

	d.pdf.SetFont("Helvetica", "B", 8)
	d.setTextColor(colorMuted)
	d.textAt(Margin, d.st.y, "CONTACT")
	d.pg.advance(SummaryLabelH)

	cardW := ContentWidth
	if len(contacts) == 2 {
		cardW = (ContentWidth - ContactCardGutter) / 2
	}
	for i, c := range contacts {
		x := Margin + float64(i)*(cardW+ContactCardGutter)
		d.drawContactCard(c, x, d.st.y, cardW)
	}
	d.pg.advance(ContactCardHeight)
}

// drawContactCard draws one card: accent stripe, circularly clipped avatar
// (gray placeholder disc when unresolved), then name, email and phone.
func (d *document) drawContactCard(c *proposal.Contact, x, y, w float64) {
	d.setFillColor(colorCardFill)
	d.pdf.Rect(x, y, w, ContactCardHeight, "F")
	d.pdf.SetFillColor(d.accentR, d.accentG, d.accentB)
	d.pdf.Rect(x, y, 3, ContactCardHeight, "F")

	cx := x + 14 + AvatarRadius
	cy := y + ContactCardHeight/2
	if name := d.imageFor(c.Avatar); name != "" {
		d.pdf.ClipCircle(cx, cy, AvatarRadius, false)
		d.pdf.ImageOptions(name,
			cx-AvatarRadius, cy-AvatarRadius, 2*AvatarRadius, 2*AvatarRadius,
			false, fpdfImageOpts, 0, "")
		d.pdf.ClipEnd()
	} else {
		d.setFillColor(colorDisc)
		d.pdf.Circle(cx, cy, AvatarRadius, "F")
	}

	tx := cx + AvatarRadius + 12
	d.pdf.SetFont("Helvetica", "B", 10)
	d.setTextColor(colorText)
	d.pdf.SetXY(tx, y+12)
	d.pdf.CellFormat(x+w-tx-6, 12, d.tr(c.Name), "", 0, "L", false, 0, "")

	d.pdf.SetFont("Helvetica", "", 8)
	d.setTextColor(colorMuted)
	d.pdf.SetXY(tx, y+28)
	d.pdf.CellFormat(x+w-tx-6, 10, d.tr(c.Email), "", 0, "L", false, 0, "")
	d.pdf.SetXY(tx, y+40)
	d.pdf.CellFormat(x+w-tx-6, 10, d.tr(c.Phone), "", 0, "L", false, 0, "")
}

// CapNotes bounds the notes paragraph to its display budget.
func CapNotes(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= NotesMaxChars {
		return string(runes)
	}
	return string(runes[:NotesMaxChars-1]) + "…"
}
