package proposal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/proposal"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// =============================================================================
// Render DTOs
// =============================================================================

// RenderRequest is the JSON payload describing a proposal to render.
type RenderRequest struct {
	Number    string `json:"number" binding:"required,min=1,max=64"`
	IssuedAt  string `json:"issued_at" binding:"required"`
	ExpiresAt string `json:"expires_at" binding:"required"`
	Total     string `json:"total" binding:"required"`
	Terms     string `json:"terms"`
	Notes     string `json:"notes"`

	Items []LineItemDTO `json:"items"`

	Customer      *CustomerDTO `json:"customer"`
	PriceContract string       `json:"price_contract"`

	AccentColor string `json:"accent_color"`

	Rep         *ContactDTO `json:"rep"`
	Distributor *ContactDTO `json:"distributor"`

	GenericThumbnail string `json:"generic_thumbnail"`
	Banner           string `json:"banner"`
}

// LineItemDTO is one table row in a render request.
type LineItemDTO struct {
	PartNumber   string `json:"part_number" binding:"required"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity" binding:"min=0"`
	MOQ          int    `json:"moq" binding:"min=0"`
	UnitPrice    string `json:"unit_price" binding:"required"`
	LineTotal    string `json:"line_total" binding:"required"`
	CostAffected bool   `json:"cost_affected"`
	SellAffected bool   `json:"sell_affected"`
	Thumbnail    string `json:"thumbnail"`
}

// CustomerDTO is the bill-to block of a render request.
type CustomerDTO struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// ContactDTO is one contact card in a render request.
type ContactDTO struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"omitempty,email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Logo   string `json:"logo"`
}

// DocumentResponse describes an archived rendered document.
type DocumentResponse struct {
	ID             string    `json:"id"`
	ProposalNumber string    `json:"proposal_number"`
	PageCount      int       `json:"page_count"`
	Size           int64     `json:"size"`
	Key            string    `json:"key"`
	URL            string    `json:"url"`
	RenderMillis   int64     `json:"render_millis"`
	CreatedAt      time.Time `json:"created_at"`
}

// RenderedDocument is the in-memory result of Render, for direct download.
type RenderedDocument struct {
	ProposalNumber string
	FileName       string
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// =============================================================================
// Mapping
// =============================================================================

// Dates arrive either as full RFC 3339 timestamps or as bare dates.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewDomainError("INVALID_INPUT", "Invalid "+field+" date")
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Invalid "+field+" amount")
	}
	return d, nil
}

// toProposal converts the wire request into the domain model.
func toProposal(req *RenderRequest) (*proposal.Proposal, error) {
	issuedAt, err := parseDate("issued_at", req.IssuedAt)
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseDate("expires_at", req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	total, err := parseAmount("total", req.Total)
	if err != nil {
		return nil, err
	}

	items := make([]proposal.LineItem, len(req.Items))
	for i, it := range req.Items {
		unitPrice, err := parseAmount("unit_price", it.UnitPrice)
		if err != nil {
			return nil, err
		}
		lineTotal, err := parseAmount("line_total", it.LineTotal)
		if err != nil {
			return nil, err
		}
		items[i] = proposal.LineItem{
			PartNumber:   it.PartNumber,
			Description:  it.Description,
			Quantity:     it.Quantity,
			MOQ:          it.MOQ,
			UnitPrice:    unitPrice,
			LineTotal:    lineTotal,
			CostAffected: it.CostAffected,
			SellAffected: it.SellAffected,
			Thumbnail:    proposal.ImageRef(it.Thumbnail),
		}
	}

	p := &proposal.Proposal{
		Number:           req.Number,
		IssuedAt:         issuedAt,
		ExpiresAt:        expiresAt,
		Total:            total,
		Terms:            req.Terms,
		Notes:            req.Notes,
		Items:            items,
		AccentColor:      req.AccentColor,
		GenericThumbnail: proposal.ImageRef(req.GenericThumbnail),
		Banner:           proposal.ImageRef(req.Banner),
	}

	if req.Customer != nil {
		p.Customer = &proposal.Customer{
			Name:         req.Customer.Name,
			AddressLine1: req.Customer.AddressLine1,
			AddressLine2: req.Customer.AddressLine2,
			City:         req.Customer.City,
			Region:       req.Customer.Region,
			PostalCode:   req.Customer.PostalCode,
			Country:      req.Customer.Country,
		}
	}
	if req.PriceContract != "" {
		p.PriceContract = &proposal.PriceContract{Name: req.PriceContract}
	}
	p.Rep = toContact(req.Rep)
	p.Distributor = toContact(req.Distributor)

	return p, nil
}

func toContact(dto *ContactDTO) *proposal.Contact {
	if dto == nil {
		return nil
	}
	return &proposal.Contact{
		Name:   dto.Name,
		Email:  dto.Email,
		Phone:  dto.Phone,
		Avatar: proposal.ImageRef(dto.Avatar),
		Logo:   proposal.ImageRef(dto.Logo),
	}
}
