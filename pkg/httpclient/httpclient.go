// Package httpclient wraps the resty HTTP client behind a small interface so
// callers can swap in fakes during tests.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the subset of an HTTP response the application reads.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client performs outbound HTTP requests.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Put(ctx context.Context, url string, headers map[string]string, body any) (Response, error)
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client tuned with the given per-request timeout.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	return &restyClient{rc: rc}
}

type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponse) Body() []byte    { return r.resp.Body() }

func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponse{resp: resp}, nil
}

func (c *restyClient) Put(ctx context.Context, url string, headers map[string]string, body any) (Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Put(url)
	if err != nil {
		return nil, err
	}
	return &restyResponse{resp: resp}, nil
}
