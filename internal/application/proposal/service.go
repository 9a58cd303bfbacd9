package proposal

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/proposal"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/archive"
	"github.com/quotedesk/backend/internal/infrastructure/render"
)

// Renderer produces a PDF from a fully-resolved proposal.
type Renderer interface {
	Render(ctx context.Context, p *proposal.Proposal) (*render.RenderResult, error)
}

// Service handles proposal rendering and archiving operations
type Service struct {
	renderer Renderer
	store    archive.Store
	sender   Sender
	logger   *zap.Logger

	// keys maps proposal numbers to their most recent archive key.
	mu   sync.RWMutex
	keys map[string]string
}

// NewService creates a new Service. A nil sender disables delivery.
func NewService(renderer Renderer, store archive.Store, sender Sender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		store:    store,
		sender:   sender,
		logger:   logger,
		keys:     make(map[string]string),
	}
}

// Render renders the proposal and returns the document bytes without
// archiving, for direct download responses.
func (s *Service) Render(ctx context.Context, req *RenderRequest) (*RenderedDocument, error) {
	p, err := toProposal(req)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to render proposal: %w", err)
	}

	return &RenderedDocument{
		ProposalNumber: p.Number,
		FileName:       documentFileName(p.Number),
		PDFData:        result.PDFData,
		PageCount:      result.PageCount,
		RenderDuration: result.RenderDuration,
	}, nil
}

// RenderAndStore renders the proposal, archives the result and optionally
// hands it to the configured sender.
func (s *Service) RenderAndStore(ctx context.Context, req *RenderRequest) (*DocumentResponse, error) {
	doc, err := s.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	docID := uuid.New()
	stored, err := s.store.Store(ctx, &archive.StoreRequest{
		DocumentID:     docID,
		ProposalNumber: doc.ProposalNumber,
		PDFData:        doc.PDFData,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive proposal: %w", err)
	}

	s.mu.Lock()
	s.keys[doc.ProposalNumber] = stored.Key
	s.mu.Unlock()

	s.logger.Info("proposal rendered",
		zap.String("number", doc.ProposalNumber),
		zap.Int("pages", doc.PageCount),
		zap.Int64("size", stored.Size),
		zap.Duration("render_duration", doc.RenderDuration),
		zap.String("key", stored.Key))

	if s.sender != nil {
		msg := &Message{
			Subject:        fmt.Sprintf("Sales Proposal %s", doc.ProposalNumber),
			AttachmentName: doc.FileName,
			Attachment:     doc.PDFData,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			// The archived document is still valid; report delivery separately.
			s.logger.Warn("proposal delivery failed",
				zap.String("number", doc.ProposalNumber),
				zap.Error(err))
		}
	}

	return &DocumentResponse{
		ID:             docID.String(),
		ProposalNumber: doc.ProposalNumber,
		PageCount:      doc.PageCount,
		Size:           stored.Size,
		Key:            stored.Key,
		URL:            stored.URL,
		RenderMillis:   doc.RenderDuration.Milliseconds(),
		CreatedAt:      time.Now(),
	}, nil
}

// GetDocument opens the most recently archived document for a proposal
// number. The caller owns the returned reader.
func (s *Service) GetDocument(ctx context.Context, number string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	key, ok := s.keys[number]
	s.mu.RUnlock()
	if !ok {
		return nil, "", shared.NewDomainError("NOT_FOUND", "No archived document for this proposal")
	}

	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open archived document: %w", err)
	}
	return rc, documentFileName(number), nil
}

func documentFileName(number string) string {
	return fmt.Sprintf("proposal-%s.pdf", number)
}
