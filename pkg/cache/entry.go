package cache

import (
	"net/http"
	"time"
)

// Entry represents a cached upstream response.
type Entry struct {
	// StatusCode is the HTTP status code of the cached response.
	StatusCode int `json:"status_code"`

	// Headers are the response headers as received from the upstream.
	Headers http.Header `json:"headers"`

	// Body is the response body.
	Body []byte `json:"body"`

	// StoredAt is when the entry was written.
	StoredAt time.Time `json:"stored_at"`
}

// NewEntry builds an Entry from upstream response parts. Headers are cloned
// so the entry does not alias the response.
func NewEntry(statusCode int, headers http.Header, body []byte) *Entry {
	return &Entry{
		StatusCode: statusCode,
		Headers:    headers.Clone(),
		Body:       body,
		StoredAt:   time.Now(),
	}
}
