package worker

import (
	"io"
	"net/http"

	"github.com/leonardcser/sw-cache/internal/logger"
)

// Hop-by-hop headers are not forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Handler serves a registration over HTTP: every incoming request becomes a
// fetch event against the registration's scope.
type Handler struct {
	reg *Registration
}

func NewHandler(reg *Registration) *Handler {
	return &Handler{reg: reg}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, err := h.reg.Scope().Resolve(r.URL.RequestURI())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out.Header = r.Header.Clone()
	removeHopHeaders(out.Header)

	resp, err := h.reg.Fetch(r.Context(), out)
	if err != nil {
		logger.Warnf("fetch %s %s failed: %v", r.Method, target, err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	removeHopHeaders(header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Debugf("copy response for %s: %v", target, err)
	}
}

func removeHopHeaders(h http.Header) {
	for _, k := range hopHeaders {
		h.Del(k)
	}
}
