package httpclient

import "context"

// Response is the subset of an HTTP response the agent consumes.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts simple page fetches so callers can stub remote sites in
// tests instead of dialing out.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
