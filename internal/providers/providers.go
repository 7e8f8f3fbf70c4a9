// Package providers contains the per-partner search adapters consumed by the
// fallback aggregator. Each adapter turns one partner API (or URL template)
// into the common SearchResult shape; failures are returned as errors and the
// aggregator decides what to do with them.
package providers

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// newHTTPClient builds the outbound client shared by API-backed adapters.
// The per-request deadline still comes from the aggregator's context; the
// client timeout is a backstop.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// expandTemplate substitutes {placeholder} markers in an affiliate URL
// template with query-escaped values.
func expandTemplate(template string, values map[string]string) string {
	expanded := template
	for key, value := range values {
		expanded = strings.ReplaceAll(expanded, "{"+key+"}", url.QueryEscape(value))
	}
	return expanded
}
