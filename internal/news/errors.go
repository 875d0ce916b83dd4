package news

import (
	"errors"
	"fmt"
)

// ErrFetch matches every *FetchError via errors.Is.
var ErrFetch = errors.New("fetch failed")

// ErrMissingArticles is returned by decoders when the response object has no
// articles field.
var ErrMissingArticles = errors.New("response has no articles field")

type Kind int

const (
	KindTransport Kind = iota
	KindStatus
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the single failure type of Client.Fetch.
type FetchError struct {
	Kind       Kind
	Endpoint   Endpoint
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
