package cache

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/textproto"
	"strings"
)

// entry is the persisted form of one request/response pair.
type entry struct {
	URL        string      `json:"url"`
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
	// Vary holds the request header values named by the response Vary
	// header at write time.
	Vary map[string]string `json:"vary,omitempty"`
}

// requestKey is the identity of a request: its URL without fragment.
func requestKey(req *http.Request) string {
	u := *req.URL
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// varyNames returns the canonical header names listed in Vary.
func varyNames(h http.Header) []string {
	var names []string
	for _, v := range h.Values("Vary") {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			names = append(names, textproto.CanonicalMIMEHeaderKey(name))
		}
	}
	return names
}

func hasVaryStar(h http.Header) bool {
	for _, name := range varyNames(h) {
		if name == "*" {
			return true
		}
	}
	return false
}

// newEntry buffers resp's body and closes it.
func newEntry(req *http.Request, resp *http.Response) (*entry, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	e := &entry{
		URL:        requestKey(req),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	if names := varyNames(resp.Header); len(names) > 0 {
		e.Vary = make(map[string]string, len(names))
		for _, name := range names {
			e.Vary[name] = req.Header.Get(name)
		}
	}
	return e, nil
}

// matches reports whether req carries the same Vary header values.
func (e *entry) matches(req *http.Request) bool {
	for name, want := range e.Vary {
		if name == "*" || req.Header.Get(name) != want {
			return false
		}
	}
	return true
}

// response rebuilds a fresh *http.Response; each call gets its own body.
func (e *entry) response(req *http.Request) *http.Response {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        status,
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

func (e *entry) marshal() ([]byte, error) { return json.Marshal(e) }

func unmarshalEntry(b []byte) (*entry, error) {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
