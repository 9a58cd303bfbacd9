// Package proposal defines the fully-resolved quote document handed to the
// rendering engine. The business layer that assembles it (pricing, discount
// and visibility rules) lives upstream; values here are treated as already
// validated and are immutable for the duration of a render call.
package proposal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ImageRef identifies a raster image by absolute URL or by a legacy
// relative path under the configured asset directory.
type ImageRef string

// IsZero reports whether the reference is absent.
func (r ImageRef) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}

// IsRemote reports whether the reference must be fetched over HTTP.
func (r ImageRef) IsRemote() bool {
	s := strings.ToLower(strings.TrimSpace(string(r)))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LineItem is one row of the proposal table.
type LineItem struct {
	PartNumber  string
	Description string
	Quantity    int
	// MOQ is the minimum order quantity, shown for reference only.
	MOQ       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	// CostAffected and SellAffected select the marker glyph drawn next to
	// the part number. When both are set the cost marker wins.
	CostAffected bool
	SellAffected bool
	// Thumbnail overrides the document-level generic thumbnail for this row.
	Thumbnail ImageRef
}

// Marker returns the one-character glyph for the item's affected flags,
// or the empty string when neither flag is set.
func (li LineItem) Marker() string {
	switch {
	case li.CostAffected:
		return "†"
	case li.SellAffected:
		return "‡"
	default:
		return ""
	}
}

// Customer holds the "bill to" block fields. All fields are optional;
// absent lines are simply not drawn.
type Customer struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	Region       string
	PostalCode   string
	Country      string
}

// AddressLines returns the non-empty display lines for the bill-to block.
func (c Customer) AddressLines() []string {
	lines := make([]string, 0, 4)
	if c.AddressLine1 != "" {
		lines = append(lines, c.AddressLine1)
	}
	if c.AddressLine2 != "" {
		lines = append(lines, c.AddressLine2)
	}
	locality := joinNonEmpty(", ", c.City, c.Region, c.PostalCode)
	if locality != "" {
		lines = append(lines, locality)
	}
	if c.Country != "" {
		lines = append(lines, c.Country)
	}
	return lines
}

// PriceContract names the price agreement the quote was matched against.
// Only the display name survives into the rendered document.
type PriceContract struct {
	Name string
}

// Contact is one of the up to two people shown on the contact cards.
type Contact struct {
	Name   string
	Email  string
	Phone  string
	Avatar ImageRef
	Logo   ImageRef
}

// Proposal is the root input to the rendering engine.
type Proposal struct {
	Number    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Total is the net quote total; discounts and contract pricing are
	// already folded in by the business layer.
	Total decimal.Decimal
	Terms string
	Notes string
	Items []LineItem

	Customer      *Customer
	PriceContract *PriceContract

	// AccentColor is a hex color ("#RRGGBB") used for the brand bars and
	// accents throughout the document.
	AccentColor string

	// Rep is the internal representative, Distributor the partner contact.
	// Either or both may be nil.
	Rep         *Contact
	Distributor *Contact

	// GenericThumbnail is the fallback image for items without their own.
	GenericThumbnail ImageRef
	// Banner, when it resolves, is appended as a trailing full-bleed page.
	Banner ImageRef
}

// Contacts returns the non-nil contacts in display order.
func (p *Proposal) Contacts() []*Contact {
	out := make([]*Contact, 0, 2)
	if p.Rep != nil {
		out = append(out, p.Rep)
	}
	if p.Distributor != nil {
		out = append(out, p.Distributor)
	}
	return out
}

// ImageRefs returns every image reference the document mentions, in a
// stable order. Absent references are skipped; duplicates are kept (the
// resolver deduplicates).
func (p *Proposal) ImageRefs() []ImageRef {
	refs := make([]ImageRef, 0, len(p.Items)+6)
	for _, c := range p.Contacts() {
		refs = appendRef(refs, c.Logo)
		refs = appendRef(refs, c.Avatar)
	}
	refs = appendRef(refs, p.GenericThumbnail)
	for _, it := range p.Items {
		refs = appendRef(refs, it.Thumbnail)
	}
	refs = appendRef(refs, p.Banner)
	return refs
}

// SumLineTotals returns the sum of all line totals. The rendered totals box
// shows Total; this exists so callers and tests can assert the two agree.
func (p *Proposal) SumLineTotals() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range p.Items {
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

func appendRef(refs []ImageRef, r ImageRef) []ImageRef {
	if r.IsZero() {
		return refs
	}
	return append(refs, r)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
