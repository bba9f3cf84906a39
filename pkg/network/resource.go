package network

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Method string

const (
	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	PATCH  Method = http.MethodPatch
	PUT    Method = http.MethodPut
	DELETE Method = http.MethodDelete
)

func (m Method) valid() bool {
	switch m {
	case GET, POST, PATCH, PUT, DELETE:
		return true
	}
	return false
}

type Param struct {
	Key   string
	Value string
}

// Resource describes one HTTP call whose body decodes into T. It is a plain
// value: build a fresh one per call.
type Resource[T any] struct {
	Method  Method
	BaseURL string
	Path    string
	Params  []Param
}

// NewResource returns a GET resource.
func NewResource[T any](baseURL, path string, params ...Param) Resource[T] {
	return Resource[T]{Method: GET, BaseURL: baseURL, Path: path, Params: params}
}

// Request builds the *http.Request. Params are appended in order after any
// query already present on BaseURL.
func (r Resource[T]) Request(ctx context.Context) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = GET
	}
	if !method.valid() {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, method)
	}

	base, err := url.Parse(r.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q has no scheme or host", ErrInvalidRequest, r.BaseURL)
	}

	u := base
	if r.Path != "" {
		u = base.JoinPath(r.Path)
	}
	for _, p := range r.Params {
		u.RawQuery = appendQuery(u.RawQuery, p.Key, p.Value)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func appendQuery(raw, key, value string) string {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if raw == "" {
		return pair
	}
	return raw + "&" + pair
}

// setQueryParam drops every existing key pair from u's query and appends
// key=value at the end, keeping the order of the other pairs.
func setQueryParam(u *url.URL, key, value string) {
	var kept []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		k := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			k = pair[:i]
		}
		if uk, err := url.QueryUnescape(k); err == nil && uk == key {
			continue
		}
		kept = append(kept, pair)
	}
	u.RawQuery = appendQuery(strings.Join(kept, "&"), key, value)
}
