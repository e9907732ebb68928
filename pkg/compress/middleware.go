package compress

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Negotiate picks the response encoding for an Accept-Encoding header,
// preferring br over gzip. Codings listed with q=0 are refused.
func Negotiate(acceptEncoding string) (CompressType, string) {
	var gzipOK, brOK bool
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				continue
			}
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			brOK = true
		case "gzip":
			gzipOK = true
		}
	}
	switch {
	case brOK:
		return CompressTypeBr, "br"
	case gzipOK:
		return CompressTypeGzip, "gzip"
	}
	return CompressTypeNone, ""
}

// Middleware compresses response bodies for clients that accept it.
// Connection upgrades such as websockets pass through untouched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}
		compressType, name := Negotiate(r.Header.Get("Accept-Encoding"))
		w.Header().Add("Vary", "Accept-Encoding")
		if compressType == CompressTypeNone {
			next.ServeHTTP(w, r)
			return
		}

		cw := &responseWriter{ResponseWriter: w, compressType: compressType, encoding: name}
		defer func() { _ = cw.Close() }()
		next.ServeHTTP(cw, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	compressType CompressType
	encoding     string

	wroteHeader bool
	passthrough bool
	enc         io.WriteCloser
	release     func()
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	h := w.ResponseWriter.Header()
	if code == http.StatusNoContent || code == http.StatusNotModified || h.Get("Content-Encoding") != "" {
		w.passthrough = true
	} else {
		h.Set("Content-Encoding", w.encoding)
		h.Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(p)
	}
	if w.enc == nil {
		w.enc, w.release = NewWriter(w.ResponseWriter, w.compressType)
	}
	return w.enc.Write(p)
}

func (w *responseWriter) Flush() {
	if f, ok := w.enc.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("compress: underlying writer does not support hijacking")
}

func (w *responseWriter) Close() error {
	if w.enc == nil {
		return nil
	}
	err := w.enc.Close()
	w.release()
	w.enc = nil
	return err
}
