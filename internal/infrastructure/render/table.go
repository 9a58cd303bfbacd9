package render

import (
	"strconv"

	"github.com/quotedesk/backend/internal/domain/proposal"
)

// drawTable renders the line-item table: the column header once per page
// (redrawn after continuation breaks by the paginator) and one row per
// item. Rows are emitted one at a time, each followed by a tableRow call so
// every row individually tests for overflow.
func (d *document) drawTable() {
	d.drawTableHeader()
	for i, item := range d.in.Items {
		d.drawRow(i, item)
		d.pg.tableRow(RowHeight, true)
	}
}

// drawTableHeader draws the column header band at the cursor and advances
// past it.
func (d *document) drawTableHeader() {
	y := d.st.y

	d.setFillColor(colorRowStripe)
	d.pdf.Rect(Margin, y, ContentWidth, TableHeaderHeight, "F")
	d.setDrawColor(colorHairline)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(Margin, y+TableHeaderHeight, PageWidth-Margin, y+TableHeaderHeight)

	d.pdf.SetFont("Helvetica", "B", 7)
	d.setTextColor(colorMuted)
	d.headerCell(ColPartX, y, ColPartW, "PART #", "L")
	d.headerCell(ColDescX, y, ColDescW, "DESCRIPTION", "L")
	d.headerCell(ColMOQX, y, ColMOQW, "MOQ", "R")
	d.headerCell(ColQtyX, y, ColQtyW, "QTY", "R")
	d.headerCell(ColPriceX, y, ColPriceW, "UNIT PRICE", "R")
	d.headerCell(ColTotalX, y, ColTotalW, "TOTAL", "R")

	d.pg.advance(TableHeaderHeight)
}

func (d *document) headerCell(x, y, w float64, label, align string) {
	d.pdf.SetXY(x, y+4)
	d.pdf.CellFormat(w, 12, d.tr(label), "", 0, align, false, 0, "")
}

// drawRow draws one line item at the cursor. The row background alternates
// by row parity across the whole table, not per page.
func (d *document) drawRow(index int, item proposal.LineItem) {
	y := d.st.y

	if index%2 == 0 {
		d.setFillColor(colorRowStripe)
		d.pdf.Rect(Margin, y, ContentWidth, RowHeight, "F")
	}

	d.drawThumbnail(item, y)

	// Part number with the affected-flag marker immediately after it.
	d.pdf.SetFont("Helvetica", "B", 8)
	d.setTextColor(colorText)
	d.pdf.SetXY(ColPartX, y+8)
	d.pdf.CellFormat(ColPartW, 12, d.tr(item.PartNumber), "", 0, "L", false, 0, "")
	if m := item.Marker(); m != "" {
		d.pdf.SetFont("Helvetica", "B", 8)
		if item.CostAffected {
			d.pdf.SetTextColor(185, 28, 28)
		} else {
			d.pdf.SetTextColor(217, 119, 6)
		}
		mx := ColPartX + d.pdf.GetStringWidth(d.tr(item.PartNumber)) + 2
		d.pdf.SetXY(mx, y+8)
		d.pdf.CellFormat(8, 12, d.tr(m), "", 0, "L", false, 0, "")
	}

	// Description never wraps; it is truncated to a fixed budget.
	d.pdf.SetFont("Helvetica", "", 8)
	d.setTextColor(colorText)
	d.pdf.SetXY(ColDescX, y+8)
	d.pdf.CellFormat(ColDescW, 12, d.tr(TruncateDescription(item.Description)), "", 0, "L", false, 0, "")

	// Right-aligned numeric columns.
	d.setTextColor(colorMuted)
	d.numCell(ColMOQX, y, ColMOQW, strconv.Itoa(item.MOQ))
	d.numCell(ColQtyX, y, ColQtyW, strconv.Itoa(item.Quantity))
	d.setTextColor(colorText)
	d.numCell(ColPriceX, y, ColPriceW, proposal.FormatMoney(item.UnitPrice))
	d.pdf.SetFont("Helvetica", "B", 8)
	d.numCell(ColTotalX, y, ColTotalW, proposal.FormatMoney(item.LineTotal))

	// Row separator rule.
	d.setDrawColor(colorHairline)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(Margin, y+RowHeight, PageWidth-Margin, y+RowHeight)
}

func (d *document) numCell(x, y, w float64, s string) {
	d.pdf.SetXY(x, y+8)
	d.pdf.CellFormat(w, 12, d.tr(s), "", 0, "R", false, 0, "")
}

// drawThumbnail draws the item's thumbnail clipped to its cell, falling
// back to the document-level generic thumbnail, then to nothing.
func (d *document) drawThumbnail(item proposal.LineItem, y float64) {
	name := d.imageFor(item.Thumbnail)
	if name == "" {
		name = d.imageFor(d.in.GenericThumbnail)
	}
	if name == "" {
		return
	}
	tx := ColThumbX
	ty := y + (RowHeight-ThumbSize)/2
	d.pdf.ClipRect(tx, ty, ThumbSize, ThumbSize, false)
	d.drawImageFit(name, tx, ty, ThumbSize, ThumbSize)
	d.pdf.ClipEnd()
}

// TruncateDescription applies the fixed description character budget.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= DescCharBudget {
		return s
	}
	return string(runes[:DescCharBudget-1]) + "…"
}
