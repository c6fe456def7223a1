// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// Default request headers sent by every fetch.
const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "es-PE,es;q=0.9"
)

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct {
	userAgent      string
	acceptLanguage string
}

// NewHTTPHelper creates a new HTTP helper. Empty arguments fall back to the defaults.
func NewHTTPHelper(userAgent, acceptLanguage string) *HTTPHelper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	if acceptLanguage == "" {
		acceptLanguage = DefaultAcceptLanguage
	}

	return &HTTPHelper{
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
	}
}

// IsValidURL reports whether raw is an absolute http or https URL.
func (h *HTTPHelper) IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve turns href into an absolute URL relative to base.
// It returns "" when either side does not parse.
func (h *HTTPHelper) Resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	return b.ResolveReference(ref).String()
}

// UserAgent returns the configured User-Agent.
func (h *HTTPHelper) UserAgent() string {
	return h.userAgent
}

// BuildHeaders creates HTTP headers with defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", h.userAgent)
	headers.Set("Accept-Language", h.acceptLanguage)
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
