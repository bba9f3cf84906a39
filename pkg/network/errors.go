package network

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidRequest covers descriptors that cannot form a request and
	// transport failures before any response arrived.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidResponse means a response arrived but its envelope could not
	// be read.
	ErrInvalidResponse = errors.New("invalid response")
)

// DataLoadingError is returned for any status outside [200,300).
type DataLoadingError struct {
	StatusCode int
	Body       []byte
}

func (e *DataLoadingError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("data loading error: status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("data loading error: status %d", e.StatusCode)
}

// Message extracts the API's own error text from Body, if it has one.
// NeoWs uses several shapes depending on which layer rejected the call.
func (e *DataLoadingError) Message() string {
	if !gjson.ValidBytes(e.Body) {
		return ""
	}
	for _, path := range []string{"error.message", "error_message", "msg", "error"} {
		if r := gjson.GetBytes(e.Body, path); r.Exists() && r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

// DecodingError wraps a body that did not match the expected schema.
type DecodingError struct {
	Err error
}

func (e *DecodingError) Error() string {
	return "decoding error: " + e.Err.Error()
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var dle *DataLoadingError
	if errors.As(err, &dle) {
		return dle.StatusCode
	}
	return 0
}
