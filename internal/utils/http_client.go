package utils

import (
	"net/http"
)

// HTTPClient is the subset of *http.Client used by the outbound gateway and wallet clients.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)
