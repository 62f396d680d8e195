// Package sentinel classifies form URLs returned by the survey backend.
//
// The backend prepends "MOCK-" to a form URL when the form was simulated
// (provider not configured) and "ERROR-" when provider creation failed.
// Consumers must strip the marker before display and track the degraded
// flag instead. Decode is the single place that knows about the prefixes.
package sentinel

import "strings"

// Kind classifies a decoded form URL.
type Kind int

const (
	// Normal is a real, functional form URL.
	Normal Kind = iota
	// Mock marks a simulated form URL ("MOCK-" prefix).
	Mock
	// Error marks a placeholder URL from a failed form creation ("ERROR-" prefix).
	Error
)

const (
	mockPrefix  = "MOCK-"
	errorPrefix = "ERROR-"
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Mock:
		return "mock"
	case Error:
		return "error"
	default:
		return "normal"
	}
}

// Result is a decoded form URL with its classification.
type Result struct {
	URL  string
	Kind Kind
}

// Degraded reports whether the URL came from a simulated or failed
// form creation. Degraded URLs are non-functional and must not be
// presented as clickable links.
func (r Result) Degraded() bool {
	return r.Kind != Normal
}

// Decode strips a sentinel prefix from a raw form URL and classifies it.
// URLs without a prefix pass through unchanged. Decode is idempotent:
// decoding an already-decoded URL is a no-op with Kind Normal.
func Decode(raw string) Result {
	switch {
	case strings.HasPrefix(raw, mockPrefix):
		return Result{URL: strings.TrimPrefix(raw, mockPrefix), Kind: Mock}
	case strings.HasPrefix(raw, errorPrefix):
		return Result{URL: strings.TrimPrefix(raw, errorPrefix), Kind: Error}
	default:
		return Result{URL: raw, Kind: Normal}
	}
}

// MarkMock attaches the mock sentinel prefix to a URL. Only the forms
// provider should produce sentinel-marked URLs.
func MarkMock(url string) string {
	return mockPrefix + url
}

// MarkError attaches the error sentinel prefix to a URL.
func MarkError(url string) string {
	return errorPrefix + url
}
