package proposal_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	app "github.com/quotedesk/backend/internal/application/proposal"
	domain "github.com/quotedesk/backend/internal/domain/proposal"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/archive"
	"github.com/quotedesk/backend/internal/infrastructure/render"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, p *domain.Proposal) (*render.RenderResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.RenderResult), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Store(ctx context.Context, req *archive.StoreRequest) (*archive.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*archive.StoreResult), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	args := m.Called(ctx, age)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) GetURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *app.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func validRequest() *app.RenderRequest {
	return &app.RenderRequest{
		Number:    "P-2041",
		IssuedAt:  "2025-03-10",
		ExpiresAt: "2025-04-09T00:00:00Z",
		Total:     "1499.00",
		Terms:     "Net 30.",
		Items: []app.LineItemDTO{
			{PartNumber: "750-001", Description: "Bus coupler", Quantity: 4, UnitPrice: "349.75", LineTotal: "1399.00"},
			{PartNumber: "750-002", Description: "End module", Quantity: 1, UnitPrice: "100.00", LineTotal: "100.00", CostAffected: true},
		},
	}
}

func renderResult() *render.RenderResult {
	return &render.RenderResult{
		PDFData:        []byte("%PDF-1.3 test"),
		PageCount:      2,
		RenderDuration: 12 * time.Millisecond,
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestService_Render(t *testing.T) {
	renderer := new(MockRenderer)
	svc := app.NewService(renderer, new(MockStore), nil, zap.NewNop())

	renderer.On("Render", mock.Anything, mock.MatchedBy(func(p *domain.Proposal) bool {
		return p.Number == "P-2041" &&
			p.Total.String() == "1499" &&
			len(p.Items) == 2 &&
			p.Items[1].CostAffected &&
			p.IssuedAt.Year() == 2025
	})).Return(renderResult(), nil)

	doc, err := svc.Render(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "proposal-P-2041.pdf", doc.FileName)
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, []byte("%PDF-1.3 test"), doc.PDFData)
	renderer.AssertExpectations(t)
}

func TestService_Render_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*app.RenderRequest)
	}{
		{"bad issued date", func(r *app.RenderRequest) { r.IssuedAt = "March 10th" }},
		{"bad expiry date", func(r *app.RenderRequest) { r.ExpiresAt = "soon" }},
		{"bad total", func(r *app.RenderRequest) { r.Total = "one thousand" }},
		{"bad unit price", func(r *app.RenderRequest) { r.Items[0].UnitPrice = "n/a" }},
		{"bad line total", func(r *app.RenderRequest) { r.Items[1].LineTotal = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := new(MockRenderer)
			svc := app.NewService(renderer, new(MockStore), nil, zap.NewNop())

			req := validRequest()
			tt.mutate(req)

			_, err := svc.Render(context.Background(), req)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
			renderer.AssertNotCalled(t, "Render")
		})
	}
}

func TestService_RenderAndStore(t *testing.T) {
	renderer := new(MockRenderer)
	store := new(MockStore)
	sender := new(MockSender)
	svc := app.NewService(renderer, store, sender, zap.NewNop())

	renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(), nil)
	store.On("Store", mock.Anything, mock.MatchedBy(func(req *archive.StoreRequest) bool {
		return req.ProposalNumber == "P-2041" && len(req.PDFData) > 0
	})).Return(&archive.StoreResult{Key: "2025/03/P-2041-abc.pdf", URL: "/files/2025/03/P-2041-abc.pdf", Size: 13}, nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg *app.Message) bool {
		return msg.AttachmentName == "proposal-P-2041.pdf" && len(msg.Attachment) > 0
	})).Return(nil)

	resp, err := svc.RenderAndStore(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "P-2041", resp.ProposalNumber)
	assert.Equal(t, 2, resp.PageCount)
	assert.Equal(t, "2025/03/P-2041-abc.pdf", resp.Key)
	assert.NotEmpty(t, resp.ID)
	renderer.AssertExpectations(t)
	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestService_RenderAndStore_SendFailureDoesNotFail(t *testing.T) {
	renderer := new(MockRenderer)
	store := new(MockStore)
	sender := new(MockSender)
	svc := app.NewService(renderer, store, sender, zap.NewNop())

	renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(), nil)
	store.On("Store", mock.Anything, mock.Anything).
		Return(&archive.StoreResult{Key: "k", URL: "/files/k", Size: 13}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	resp, err := svc.RenderAndStore(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "k", resp.Key)
}

func TestService_RenderAndStore_StoreFailure(t *testing.T) {
	renderer := new(MockRenderer)
	store := new(MockStore)
	svc := app.NewService(renderer, store, nil, zap.NewNop())

	renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(), nil)
	store.On("Store", mock.Anything, mock.Anything).
		Return(nil, archive.NewArchiveError(archive.ErrCodeStoreFailed, "disk full", nil))

	_, err := svc.RenderAndStore(context.Background(), validRequest())

	var archErr *archive.ArchiveError
	require.ErrorAs(t, err, &archErr)
	assert.Equal(t, archive.ErrCodeStoreFailed, archErr.Code)
}

func TestService_GetDocument(t *testing.T) {
	renderer := new(MockRenderer)
	store := new(MockStore)
	svc := app.NewService(renderer, store, nil, zap.NewNop())

	renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(), nil)
	store.On("Store", mock.Anything, mock.Anything).
		Return(&archive.StoreResult{Key: "2025/03/P-2041-abc.pdf", URL: "/files/x", Size: 13}, nil)
	store.On("Get", mock.Anything, "2025/03/P-2041-abc.pdf").
		Return(io.NopCloser(strings.NewReader("%PDF-1.3 test")), nil)

	_, err := svc.RenderAndStore(context.Background(), validRequest())
	require.NoError(t, err)

	rc, name, err := svc.GetDocument(context.Background(), "P-2041")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))
	assert.Equal(t, "proposal-P-2041.pdf", name)
}

func TestService_GetDocument_Unknown(t *testing.T) {
	svc := app.NewService(new(MockRenderer), new(MockStore), nil, zap.NewNop())

	_, _, err := svc.GetDocument(context.Background(), "P-0000")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
