package render

import (
	"strings"

	"notestand/internal/access"
)

// imageRenderer handles raster formats. No redaction variant exists for
// images: full access streams the original bytes, any lesser level refuses
// delivery outright rather than passing unprotected content through.
type imageRenderer struct{}

func (r *imageRenderer) Supports(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func (r *imageRenderer) Render(in []byte, _ Mark, level access.Level) ([]byte, error) {
	if level != access.Full {
		return nil, ErrNoProtectedVariant
	}
	if len(in) == 0 {
		return nil, ErrMalformed
	}
	return in, nil
}
