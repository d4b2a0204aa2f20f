package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	RequestTimeout = 20 * time.Second
	// MaxResponseSize caps how much of a body is rendered for reading.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

var (
	ErrNoResponse   = errors.New("web: no response")
	ErrBodyTooLarge = errors.New("web: response body exceeds limit")
)

// Options configures a Fetcher. A zero Timeout takes RequestTimeout.
type Options struct {
	Timeout time.Duration
	// MaxBodySize rejects larger bodies with ErrBodyTooLarge.
	// Zero means no limit.
	MaxBodySize int
}

// Fetcher is the live network fetch primitive. Responses are returned as
// received: error statuses are not turned into errors, only transport
// failures are.
type Fetcher struct {
	c       *colly.Collector
	maxBody int
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = RequestTimeout
	}
	// colly cuts bodies at its limit without an error, so it reads one
	// byte past ours and oversized bodies are detected below.
	collyLimit := 0
	if opts.MaxBodySize > 0 {
		collyLimit = opts.MaxBodySize + 1
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(collyLimit),
	)
	c.SetRequestTimeout(opts.Timeout)
	return &Fetcher{c: c, maxBody: opts.MaxBodySize}
}

// Fetch issues req over the network. The request's method, headers and
// body are forwarded.
func (f *Fetcher) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	rawURL := req.URL.String()
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, fmt.Errorf("web: url must start with http:// or https://: %q", rawURL)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	// The transport negotiates compression itself and hands back decoded
	// bodies with matching headers.
	hdr := req.Header.Clone()
	if hdr == nil {
		hdr = http.Header{}
	}
	hdr.Del("Accept-Encoding")

	var body io.Reader
	if req.Body != nil && req.Body != http.NoBody {
		body = req.Body
	}

	// A clone per request keeps callbacks from piling up on the shared
	// collector while still sharing its HTTP backend.
	c := f.c.Clone()
	c.Context = ctx

	var resp *http.Response
	var tooLarge bool
	c.OnResponse(func(r *colly.Response) {
		if f.maxBody > 0 && len(r.Body) > f.maxBody {
			tooLarge = true
			return
		}
		resp = toHTTPResponse(r, req)
	})
	if err := c.Request(method, rawURL, body, nil, hdr); err != nil {
		return nil, err
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: %s over %d bytes", ErrBodyTooLarge, rawURL, f.maxBody)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	return resp, nil
}

func toHTTPResponse(r *colly.Response, req *http.Request) *http.Response {
	header := http.Header{}
	if r.Headers != nil {
		header = r.Headers.Clone()
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode)),
		StatusCode:    r.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}
