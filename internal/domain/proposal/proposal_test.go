package proposal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestImageRef(t *testing.T) {
	tests := []struct {
		name   string
		ref    ImageRef
		zero   bool
		remote bool
	}{
		{name: "empty", ref: "", zero: true, remote: false},
		{name: "whitespace only", ref: "   ", zero: true, remote: false},
		{name: "https url", ref: "https://cdn.example.com/logo.png", zero: false, remote: true},
		{name: "http url", ref: "http://cdn.example.com/logo.png", zero: false, remote: true},
		{name: "uppercase scheme", ref: "HTTPS://cdn.example.com/logo.png", zero: false, remote: true},
		{name: "legacy relative path", ref: "uploads/thumbs/part-1001.png", zero: false, remote: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.zero, tt.ref.IsZero())
			assert.Equal(t, tt.remote, tt.ref.IsRemote())
		})
	}
}

func TestLineItem_Marker(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{name: "neither flag", item: LineItem{}, want: ""},
		{name: "cost affected", item: LineItem{CostAffected: true}, want: "†"},
		{name: "sell affected", item: LineItem{SellAffected: true}, want: "‡"},
		{name: "both flags prefers cost", item: LineItem{CostAffected: true, SellAffected: true}, want: "†"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Marker())
		})
	}
}

func TestCustomer_AddressLines(t *testing.T) {
	c := Customer{
		Name:         "Acme Industrial",
		AddressLine1: "500 Harbor Blvd",
		City:         "Weehawken",
		Region:       "NJ",
		PostalCode:   "07086",
		Country:      "USA",
	}
	assert.Equal(t, []string{"500 Harbor Blvd", "Weehawken, NJ, 07086", "USA"}, c.AddressLines())

	empty := Customer{Name: "Name Only"}
	assert.Empty(t, empty.AddressLines())
}

func TestProposal_Contacts(t *testing.T) {
	rep := &Contact{Name: "Dana Reyes"}
	dist := &Contact{Name: "Lee Distribution"}

	assert.Empty(t, (&Proposal{}).Contacts())
	assert.Equal(t, []*Contact{rep}, (&Proposal{Rep: rep}).Contacts())
	assert.Equal(t, []*Contact{dist}, (&Proposal{Distributor: dist}).Contacts())
	assert.Equal(t, []*Contact{rep, dist}, (&Proposal{Rep: rep, Distributor: dist}).Contacts())
}

func TestProposal_ImageRefs(t *testing.T) {
	p := &Proposal{
		Rep:              &Contact{Logo: "logos/internal.png", Avatar: "https://cdn.example.com/a.png"},
		GenericThumbnail: "thumbs/generic.png",
		Banner:           "https://cdn.example.com/banner.jpg",
		Items: []LineItem{
			{PartNumber: "A-1", Thumbnail: "thumbs/a1.png"},
			{PartNumber: "A-2"}, // no thumbnail, falls back to generic
			{PartNumber: "A-3", Thumbnail: "thumbs/a1.png"},
		},
	}

	refs := p.ImageRefs()
	assert.Equal(t, []ImageRef{
		"logos/internal.png",
		"https://cdn.example.com/a.png",
		"thumbs/generic.png",
		"thumbs/a1.png",
		"thumbs/a1.png",
		"https://cdn.example.com/banner.jpg",
	}, refs)
}

func TestProposal_SumLineTotals(t *testing.T) {
	p := &Proposal{
		Items: []LineItem{
			{LineTotal: decimal.RequireFromString("19.99")},
			{LineTotal: decimal.RequireFromString("0.01")},
			{LineTotal: decimal.RequireFromString("1000")},
		},
	}
	assert.True(t, p.SumLineTotals().Equal(decimal.RequireFromString("1020.00")))

	assert.True(t, (&Proposal{}).SumLineTotals().IsZero())
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"19.9", "$19.90"},
		{"1234.567", "$1234.57"},
		{"-5", "$-5.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
	}
}
