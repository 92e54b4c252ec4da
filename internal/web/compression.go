package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// decompressMiddleware accepts zstd-encoded request bodies.
func decompressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := r.Header.Get("Content-Encoding")
		if encoding == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.EqualFold(encoding, "zstd") {
			respondError(w, http.StatusUnsupportedMediaType, "Unsupported Content-Encoding: "+encoding)
			return
		}

		decoder, err := zstd.NewReader(r.Body)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Failed to create zstd decoder")
			return
		}
		defer decoder.Close()

		r.Body = io.NopCloser(decoder)
		r.Header.Del("Content-Encoding")
		r.Header.Del("Content-Length")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}

// compressMiddleware zstd-encodes responses for clients that accept it.
func compressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsZstd(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		defer enc.Close()

		w.Header().Set("Content-Encoding", "zstd")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")
		next.ServeHTTP(&zstdResponseWriter{ResponseWriter: w, enc: enc}, r)
	})
}

func acceptsZstd(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(name, "zstd") {
			return true
		}
	}
	return false
}

type zstdResponseWriter struct {
	http.ResponseWriter
	enc *zstd.Encoder
}

func (z *zstdResponseWriter) Write(p []byte) (int, error) {
	return z.enc.Write(p)
}
