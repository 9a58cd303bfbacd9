package render

import (
	"bytes"
	"context"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/proposal"
)

// ImageResolver supplies the resolved bytes for every unique image
// reference a document mentions. The returned map always contains an entry
// for each requested unique reference; failed fetches map to nil.
type ImageResolver interface {
	Resolve(ctx context.Context, refs []proposal.ImageRef) map[proposal.ImageRef][]byte
}

// RenderResult contains the output of one render call.
type RenderResult struct {
	// PDFData is the complete document; partial buffers are never returned.
	PDFData []byte
	// PageCount includes the trailing banner page when one was appended.
	PageCount int
	// RenderDuration covers both the image-resolve and drawing phases.
	RenderDuration time.Duration
}

// Engine renders proposals to PDF. It is stateless and safe for concurrent
// use; all per-call state lives in the document created inside Render.
type Engine struct {
	resolver ImageResolver
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a rendering engine backed by the given image resolver.
// A nil resolver is allowed; every image then degrades to its placeholder.
func NewEngine(resolver ImageResolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces the PDF for one proposal. Phase one resolves all image
// references concurrently; phase two is a single synchronous drawing pass.
// The context governs only the resolve phase: drawing never suspends.
func (e *Engine) Render(ctx context.Context, p *proposal.Proposal) (*RenderResult, error) {
	if p == nil {
		return nil, NewRenderError(ErrCodeNilInput, "proposal is nil", nil)
	}

	start := time.Now()

	images := map[proposal.ImageRef][]byte{}
	if e.resolver != nil {
		images = e.resolver.Resolve(ctx, p.ImageRefs())
	}

	doc := newDocument(p, images)
	doc.drawAll()

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		e.logger.Error("proposal render failed",
			zap.String("proposal", p.Number),
			zap.Error(err))
		return nil, NewRenderError(ErrCodeEncodeFailed, "failed to encode document", err)
	}

	result := &RenderResult{
		PDFData:        buf.Bytes(),
		PageCount:      doc.pageCount,
		RenderDuration: time.Since(start),
	}

	e.logger.Info("proposal rendered",
		zap.String("proposal", p.Number),
		zap.Int("items", len(p.Items)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return result, nil
}

// document carries the per-call drawing state: the surface, the cursor
// state, the pagination controller and the resolved images.
type document struct {
	pdf *fpdf.Fpdf
	// tr maps UTF-8 to the core-font code page (marker glyphs, middots).
	tr func(string) string

	in     *proposal.Proposal
	images map[proposal.ImageRef][]byte

	st *renderState
	pg *paginator

	accentR, accentG, accentB int

	// registered caches the surface-side image registrations; a ref maps
	// to false when its bytes were missing or not an embeddable format.
	registered map[proposal.ImageRef]bool

	pageCount int
}

func newDocument(p *proposal.Proposal, images map[proposal.ImageRef][]byte) *document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(Margin, 0, Margin)
	pdf.SetCellMargin(0)
	pdf.SetTitle("Proposal "+p.Number, true)

	accent := p.AccentColor
	if accent == "" {
		accent = DefaultAccentColor
	}
	r, g, b := ParseHexColor(accent)

	d := &document{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		in:         p,
		images:     images,
		st:         newRenderState(),
		accentR:    r,
		accentG:    g,
		accentB:    b,
		registered: map[proposal.ImageRef]bool{},
	}
	d.pg = &paginator{
		st:        d.st,
		startPage: d.startPage,
		endPage:   d.drawFooter,
		continued: d.drawContinuedBand,
		tableHead: d.drawTableHeader,
	}
	d.registerImages()
	return d
}

// registerImages hands every resolved buffer to the surface. Buffers were
// already decode-validated during the resolve phase; anything that still
// fails the format sniff stays unregistered and degrades to a placeholder.
// Registration must not be attempted on undecodable bytes: a surface-level
// registration failure is sticky and would abort the whole document.
func (d *document) registerImages() {
	for ref, data := range d.images {
		if len(data) == 0 {
			d.registered[ref] = false
			continue
		}
		kind := sniffImageType(data)
		if kind == "" {
			d.registered[ref] = false
			continue
		}
		d.pdf.RegisterImageOptionsReader(string(ref),
			fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
		d.registered[ref] = !d.pdf.Err()
	}
}

// drawAll runs the single synchronous drawing pass.
func (d *document) drawAll() {
	d.startPage()
	d.drawBillTo()
	d.drawTable()
	d.drawSummary()
	d.drawFooter()
	d.appendBanner()
	d.pageCount = d.pdf.PageNo()
}

// imageFor returns the surface image name for a reference, or "" when the
// reference is absent or did not resolve.
func (d *document) imageFor(ref proposal.ImageRef) string {
	if ref.IsZero() || !d.registered[ref] {
		return ""
	}
	return string(ref)
}

// fpdfImageOpts is used when placing an already-registered image; the
// format was fixed at registration time.
var fpdfImageOpts = fpdf.ImageOptions{}

// sniffImageType detects the embeddable image formats the surface accepts.
func sniffImageType(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) >= 2 && data[0] == 0xff && data[1] == 0xd8:
		return "JPG"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}
