package printing

import (
	"bytes"
	"context"
	"time"
)

// PDFRenderer turns an HTML document into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderRequest is one document to print. A zero Timeout uses the
// renderer's configured default.
type RenderRequest struct {
	HTML    string
	Title   string
	Timeout time.Duration
}

// RenderResult is the printed document
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// RenderErrorCode classifies a rendering failure
type RenderErrorCode string

const (
	ErrCodeRenderTimeout RenderErrorCode = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  RenderErrorCode = "RENDER_FAILED"
	ErrCodeInvalidHTML   RenderErrorCode = "INVALID_HTML"
)

// RenderError wraps the underlying chrome or template failure
type RenderError struct {
	Code    RenderErrorCode
	Message string
	Cause   error
}

func NewRenderError(code RenderErrorCode, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Is matches another RenderError by code, so callers can test
// errors.Is(err, &RenderError{Code: ErrCodeRenderTimeout})
func (e *RenderError) Is(target error) bool {
	t, ok := target.(*RenderError)
	return ok && t.Code == e.Code
}

var (
	pageMarker  = []byte("/Type /Page")
	pagesMarker = []byte("/Type /Pages")
)

// estimatePageCount counts /Page objects minus the /Pages tree nodes.
// Never less than one.
func estimatePageCount(pdf []byte) int {
	return max(bytes.Count(pdf, pageMarker)-bytes.Count(pdf, pagesMarker), 1)
}
