// Package out defines outbound ports implemented by adapters.
package out

import (
	"context"
	"io"
)

// TextExtractor extracts plain text from an uploaded document. The
// classifier only ever consumes the returned text; document internals stay
// behind this port. An empty result with a nil error is valid input for
// classification and yields an unknown result, not a failure.
type TextExtractor interface {
	// Extract reads the document and returns its UTF-8 text content.
	Extract(ctx context.Context, r io.ReaderAt, size int64, contentType string) (string, error)

	// Supports reports whether the extractor can handle the content type.
	Supports(contentType string) bool
}
