package contracts

import "net/http"

type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Archiver bundles files into a single archive at destination.
type Archiver interface {
	Archive(sources []string, destination string) error
}
