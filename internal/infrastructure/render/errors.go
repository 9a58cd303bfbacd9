package render

// RenderError represents a fatal error from the drawing surface or the
// output encoder. Image failures are never RenderErrors; they degrade to
// placeholders during the resolve phase.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderFailed = "RENDER_FAILED"
	ErrCodeEncodeFailed = "ENCODE_FAILED"
	ErrCodeNilInput     = "NIL_INPUT"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
