package render

// renderState is the only mutable state threaded through a render call:
// the vertical cursor and the 1-based page number. It is created fresh per
// call and never shared, so concurrent renders are fully independent.
type renderState struct {
	y    float64
	page int
	// pageEstimate stands in for the true final page count in the header's
	// "Page X of N". The true count is unknown until rendering completes,
	// so the chrome uses the page number current at draw time. See the
	// paginator tests pinning this behavior.
	pageEstimate int
}

func newRenderState() *renderState {
	return &renderState{y: ContentTop, page: 1, pageEstimate: 1}
}

// breakRegion selects which page-break policy applies. Table rows break
// with a visible continuation band; the summary breaks silently.
type breakRegion int

const (
	regionTable breakRegion = iota
	regionSummary
)

// bottom returns the usable-bottom threshold for the region. The table
// threshold sits higher because it reserves room for the continuation band.
func (r breakRegion) bottom() float64 {
	if r == regionTable {
		return TableBottom
	}
	return SummaryBottom
}

// paginator owns the page-break state machine. The drawing callbacks are
// supplied by the document so the controller itself stays surface-agnostic
// and testable.
type paginator struct {
	st *renderState

	startPage func() // new surface page, chrome, cursor reset
	endPage   func() // footer for the page being left
	continued func() // "Continued on next page" band
	tableHead func() // column header, redrawn after continuation breaks
}

// advance moves the cursor down by a known-safe, pre-validated offset.
func (p *paginator) advance(dy float64) {
	p.st.y += dy
}

// tableRow advances past a just-drawn row and breaks with a continuation
// band if the cursor crossed the table region's bottom threshold. This is
// the only path that emits the continuation band.
func (p *paginator) tableRow(dy float64, redrawHeader bool) {
	p.st.y += dy
	if p.st.y <= regionTable.bottom() {
		return
	}
	p.continued()
	p.breakPage()
	if redrawHeader {
		p.tableHead()
	}
}

// ensureSpace breaks silently when the next `needed` points of content
// would not fit above the summary threshold. It is called exactly once,
// with the summary block's full pre-computed height; issuing several small
// checks instead would make the break decision order-dependent and can
// produce a spurious blank page.
func (p *paginator) ensureSpace(needed float64) {
	if p.st.y+needed <= regionSummary.bottom() {
		return
	}
	p.breakPage()
}

// breakPage finishes the current page and starts the next. Resetting the
// cursor to ContentTop is part of the startPage contract.
func (p *paginator) breakPage() {
	p.endPage()
	p.st.page++
	p.st.pageEstimate = p.st.page
	p.startPage()
}
