// Package render transforms raw document bytes into viewer-safe delivery
// output. Each supported binary format has its own renderer; formats without
// a protection variant refuse delivery below full access instead of silently
// passing unprotected bytes through.
package render

import (
	"errors"
	"mime"
	"strings"

	"go.uber.org/zap"

	"notestand/internal/access"
	"notestand/internal/identity"
)

var (
	// ErrDenied means the access level does not permit any delivery.
	ErrDenied = errors.New("delivery denied")
	// ErrMalformed means the input bytes could not be parsed. Rendering
	// fails closed: no partial output is ever produced.
	ErrMalformed = errors.New("malformed document")
	// ErrNoProtectedVariant means the format has no redaction variant for
	// the requested access level.
	ErrNoProtectedVariant = errors.New("no protected variant for format")
	// ErrUnsupportedFormat means no renderer handles the content type.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Mark is the viewer-identifying text stamped onto every delivered page,
// making leaked copies traceable to the purchaser.
type Mark struct {
	Brand string
	Name  string
	Ref   string
}

// Renderer produces delivery output for one class of binary format.
type Renderer interface {
	// Supports reports whether the renderer handles the content type.
	Supports(contentType string) bool
	// Render transforms raw bytes per the access level. The output is
	// viewer-specific and must not be cached in any shared cache.
	Render(in []byte, m Mark, level access.Level) ([]byte, error)
}

// Registry dispatches delivery rendering to the renderer for a format.
type Registry struct {
	brand     string
	log       *zap.Logger
	renderers []Renderer
}

// NewRegistry creates a Registry with the built-in renderers (paginated PDF,
// raster images). brand is the platform name used in watermarks.
func NewRegistry(brand string, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		brand: brand,
		log:   log,
		renderers: []Renderer{
			&pdfRenderer{},
			&imageRenderer{},
		},
	}
}

// RenderForDelivery renders raw document bytes for the given viewer and
// access level. Rendering is a pure CPU-bound function of its inputs and is
// safe to run concurrently across requests.
func (reg *Registry) RenderForDelivery(in []byte, contentType string, v *identity.Viewer, level access.Level) ([]byte, error) {
	if level == access.Denied {
		return nil, ErrDenied
	}

	ct := normalizeContentType(contentType)
	m := Mark{Brand: reg.brand, Name: v.MarkName(), Ref: v.MarkRef()}

	for _, r := range reg.renderers {
		if !r.Supports(ct) {
			continue
		}
		out, err := r.Render(in, m, level)
		if errors.Is(err, ErrMalformed) {
			reg.log.Warn("document failed to render",
				zap.String("content_type", ct),
				zap.Int("size", len(in)))
		}
		return out, err
	}
	return nil, ErrUnsupportedFormat
}

func normalizeContentType(ct string) string {
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return parsed
}
