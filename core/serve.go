package core

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// setCacheHeaders attaches the validator and caching headers shared by every
// success path (200, 206 and 304). Immutable assets are cached for a year
// and never revalidated; everything else carries validators and a short,
// config-driven lifetime.
func (s *Statics) setCacheHeaders(w http.ResponseWriter, asset *Asset) {
	h := w.Header()
	h.Set("ETag", asset.ETag)
	h.Set("Last-Modified", httpDate(asset.LastModified))

	if asset.Immutable {
		h.Set("Cache-Control", "public, max-age=31536000, immutable")
	} else if maxAge := int(s.app.Config().Static.MaxAge.Duration.Seconds()); maxAge > 0 {
		h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	} else {
		h.Set("Cache-Control", "public, no-cache")
	}

	if asset.HasAlternatives() {
		h.Set("Vary", "Accept-Encoding")
	}

	// Public static files are safe to share cross-origin, and webfonts
	// behind a CDN on another domain require it.
	if s.app.Config().Static.AllowAllOrigins {
		h.Set("Access-Control-Allow-Origin", "*")
	}
}

// serve turns a matched asset into a complete HTTP response. Decision order:
// method, conditional headers, range, full body. Every path lands on a
// concrete status; no error escapes to the host server.
func (s *Statics) serve(w http.ResponseWriter, r *http.Request, asset *Asset) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.setCacheHeaders(w, asset)

	if notModified(asset, r) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	variant := Negotiate(asset, r.Header.Get("Accept-Encoding"))

	h := w.Header()
	h.Set("Content-Type", asset.ContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Accept-Ranges", "bytes")
	if variant.Encoding != EncodingIdentity {
		h.Set("Content-Encoding", variant.Encoding)
	}

	status := http.StatusOK
	span := byteRange{start: 0, length: variant.Size}

	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		parsed, err := parseRange(rangeHeader, variant.Size)
		switch err {
		case nil:
			status = http.StatusPartialContent
			span = parsed
			h.Set("Content-Range",
				fmt.Sprintf("bytes %d-%d/%d", span.start, span.end(), variant.Size))
		case errUnsatisfiableRange:
			h.Set("Content-Range", fmt.Sprintf("bytes */%d", variant.Size))
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		case errIgnoreRange:
			// Fall through to the full body.
		}
	}

	h.Set("Content-Length", strconv.FormatInt(span.length, 10))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	if err := s.copyVariant(w, variant, span); err != nil {
		// Headers are gone; all we can do is log and let the connection die.
		s.app.Logger().Error("static: body write failed",
			"path", asset.URLPath, "variant", variant.Encoding, "error", err)
	}
}

// copyVariant streams the requested span of a variant to the client without
// buffering the file. Range responses read only the requested bytes.
func (s *Statics) copyVariant(w io.Writer, variant Variant, span byteRange) error {
	f, err := s.app.fsys.Open(variant.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open variant: %w", err)
	}
	defer f.Close()

	if span.start > 0 {
		if seeker, ok := f.(io.Seeker); ok {
			if _, err := seeker.Seek(span.start, io.SeekStart); err != nil {
				return fmt.Errorf("failed to seek variant: %w", err)
			}
		} else if _, err := io.CopyN(io.Discard, f, span.start); err != nil {
			return fmt.Errorf("failed to skip to range start: %w", err)
		}
	}

	_, err = io.CopyN(w, f, span.length)
	return err
}
