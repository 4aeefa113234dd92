package scrape

import "errors"

var (
	// ErrUnknownStrategy marks a strategy name outside the closed set.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrUnknownFormat marks an unsupported output format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrInvalidURL marks a request URL that is not absolute http(s).
	ErrInvalidURL = errors.New("invalid url")
	// ErrURLNotAllowed marks a URL rejected by the private-network guard.
	ErrURLNotAllowed = errors.New("url not allowed")
)
