package reader

import "fmt"

// APIError reports a non-success response from the Reader API, other than
// rate limiting which the client retries internally.
type APIError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("reader api returned status %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("reader api returned status %d %s body: %s", e.Status, e.StatusText, e.Body)
}
