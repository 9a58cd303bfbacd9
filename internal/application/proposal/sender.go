package proposal

import (
	"context"

	"go.uber.org/zap"
)

// Message is an outbound notification carrying the rendered document.
type Message struct {
	To             []string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers a rendered proposal to its recipients. Archiving never
// depends on delivery succeeding; send failures are reported to the caller
// but the stored document remains valid.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender records the outbound message instead of delivering it. It is
// the default wiring until a real mail transport is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message and discards it.
func (s *LogSender) Send(_ context.Context, msg *Message) error {
	s.logger.Info("proposal delivery skipped (log sender)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("attachment", msg.AttachmentName),
		zap.Int("attachment_size", len(msg.Attachment)))
	return nil
}

var _ Sender = (*LogSender)(nil)
